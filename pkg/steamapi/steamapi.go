// Package steamapi is a typed client for the handful of Steam Web API
// endpoints the checker depends on, plus the public community profile page.
//
// Every endpoint is an independent read-only lookup and every field in every
// response is optional; callers must treat nil as "not publicly visible"
// rather than an error. Failures are reported as *APIError carrying the
// endpoint and upstream status so the boundary can classify them.
package steamapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/steamcheck/pkg/httpcache"
)

// DefaultBaseURL is the Steam Web API host.
const DefaultBaseURL = "https://api.steampowered.com"

// Endpoint names, used in errors and logs.
const (
	EndpointResolveVanity = "ResolveVanityURL"
	EndpointPlayerSummary = "GetPlayerSummaries"
	EndpointSteamLevel    = "GetSteamLevel"
	EndpointOwnedGames    = "GetOwnedGames"
	EndpointFriendList    = "GetFriendList"
	EndpointPlayerBans    = "GetPlayerBans"
)

// ErrVanityNotFound is returned when a vanity name does not resolve to an account.
var ErrVanityNotFound = errors.New("could not resolve that input to a Steam profile")

// ErrMissingAPIKey is returned by New when no API key is configured.
var ErrMissingAPIKey = errors.New("missing Steam API key")

// ErrorKind classifies an upstream failure.
type ErrorKind int

// Upstream failure classes, from most to least specific.
const (
	// KindRateLimited: upstream returned 429. Always fatal for the whole run.
	KindRateLimited ErrorKind = iota
	// KindUnavailable: upstream 5xx or a deadline expiry. Always fatal.
	KindUnavailable
	// KindBadPayload: the response body did not parse as JSON. Always fatal.
	KindBadPayload
	// KindUnexpected: any other non-2xx status (403, 404, ...). Soft during
	// aggregation, fatal only on resolution-class calls.
	KindUnexpected
	// KindTransport: connection-level failure before a status was seen. Soft.
	KindTransport
)

// APIError is the closed error type for upstream failures.
type APIError struct {
	Endpoint   string
	StatusCode int // 0 when no HTTP status was observed
	Kind       ErrorKind
}

func (e *APIError) Error() string {
	switch e.Kind {
	case KindBadPayload:
		return fmt.Sprintf("%s returned non-JSON (HTTP %d)", e.Endpoint, e.StatusCode)
	case KindTransport:
		return fmt.Sprintf("%s request failed", e.Endpoint)
	default:
		return fmt.Sprintf("%s HTTP %d", e.Endpoint, e.StatusCode)
	}
}

// Fatal reports whether err is an upstream failure that invalidates the whole
// run (rate limit, outage, deadline expiry, or unparseable payload). Soft
// failures leave a single signal unknown instead.
func Fatal(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Kind {
	case KindRateLimited, KindUnavailable, KindBadPayload:
		return true
	default:
		return false
	}
}

// Client calls the Steam Web API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      httpcache.Cacher
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*config)

type config struct {
	baseURL    string
	httpClient *http.Client
	cache      httpcache.Cacher
	logger     *slog.Logger
}

// WithHTTPCache sets the HTTP cache.
func WithHTTPCache(cache httpcache.Cacher) Option {
	return func(c *config) { c.cache = cache }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithBaseURL overrides the API host, for tests.
func WithBaseURL(base string) Option {
	return func(c *config) { c.baseURL = strings.TrimSuffix(base, "/") }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) { c.httpClient = client }
}

// New creates a Steam API client.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	cfg := &config{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    cfg.baseURL,
		httpClient: cfg.httpClient,
		cache:      cfg.cache,
		logger:     cfg.logger,
	}, nil
}

// PlayerSummary holds the identity-summary fields the checker consumes.
// Pointer fields are nil when the provider omitted them.
type PlayerSummary struct {
	SteamID       string
	Persona       string
	ProfileURL    string
	AvatarFull    string
	Visibility    *int // 3 means publicly browsable
	CreatedAt     *time.Time
	CountryCode   string
	GameExtraInfo string // title currently being played, if any
	GameID        string
}

// Public reports the profile's visibility; nil when no summary was returned.
func (s *PlayerSummary) Public() *bool {
	if s == nil || s.Visibility == nil {
		return nil
	}
	public := *s.Visibility == 3
	return &public
}

// OwnedGame is one library entry.
type OwnedGame struct {
	AppID           int64  `json:"appid"`
	Name            string `json:"name"`
	PlaytimeForever int64  `json:"playtime_forever"` // minutes
}

// OwnedGames is the library-contents response.
type OwnedGames struct {
	Count *int
	Games []OwnedGame
}

// PlayerBans is the restriction record for an account.
type PlayerBans struct {
	CommunityBanned  bool   `json:"CommunityBanned"`
	VACBanned        bool   `json:"VACBanned"`
	NumberOfVACBans  int    `json:"NumberOfVACBans"`
	DaysSinceLastBan int    `json:"DaysSinceLastBan"`
	NumberOfGameBans int    `json:"NumberOfGameBans"`
	EconomyBan       string `json:"EconomyBan"`
}

// ResolveVanityURL resolves a vanity (custom URL) name to a SteamID64.
func (c *Client) ResolveVanityURL(ctx context.Context, vanity string) (string, error) {
	q := url.Values{"key": {c.apiKey}, "vanityurl": {vanity}}
	var out struct {
		Response struct {
			SteamID string `json:"steamid"`
			Success int    `json:"success"`
		} `json:"response"`
	}
	if err := c.fetchJSON(ctx, EndpointResolveVanity, "/ISteamUser/ResolveVanityURL/v1/", q, &out); err != nil {
		return "", err
	}
	if out.Response.SteamID == "" {
		return "", ErrVanityNotFound
	}
	return out.Response.SteamID, nil
}

// PlayerSummaries fetches the identity summary for a SteamID64. Returns
// (nil, nil) when the provider knows nothing about the account.
func (c *Client) PlayerSummaries(ctx context.Context, steamID string) (*PlayerSummary, error) {
	q := url.Values{"key": {c.apiKey}, "steamids": {steamID}}
	var out struct {
		Response struct {
			Players []struct {
				SteamID        string `json:"steamid"`
				PersonaName    string `json:"personaname"`
				ProfileURL     string `json:"profileurl"`
				AvatarFull     string `json:"avatarfull"`
				Visibility     *int   `json:"communityvisibilitystate"`
				TimeCreated    *int64 `json:"timecreated"`
				LocCountryCode string `json:"loccountrycode"`
				GameExtraInfo  string `json:"gameextrainfo"`
				GameID         string `json:"gameid"`
			} `json:"players"`
		} `json:"response"`
	}
	if err := c.fetchJSON(ctx, EndpointPlayerSummary, "/ISteamUser/GetPlayerSummaries/v2/", q, &out); err != nil {
		return nil, err
	}
	if len(out.Response.Players) == 0 {
		return nil, nil
	}
	p := out.Response.Players[0]
	summary := &PlayerSummary{
		SteamID:       p.SteamID,
		Persona:       p.PersonaName,
		ProfileURL:    p.ProfileURL,
		AvatarFull:    p.AvatarFull,
		Visibility:    p.Visibility,
		CountryCode:   p.LocCountryCode,
		GameExtraInfo: p.GameExtraInfo,
		GameID:        p.GameID,
	}
	if p.TimeCreated != nil {
		t := time.Unix(*p.TimeCreated, 0).UTC()
		summary.CreatedAt = &t
	}
	return summary, nil
}

// SteamLevel fetches the account's Steam level; nil when not visible.
func (c *Client) SteamLevel(ctx context.Context, steamID string) (*int, error) {
	q := url.Values{"key": {c.apiKey}, "steamid": {steamID}}
	var out struct {
		Response struct {
			PlayerLevel *int `json:"player_level"`
		} `json:"response"`
	}
	if err := c.fetchJSON(ctx, EndpointSteamLevel, "/IPlayerService/GetSteamLevel/v1/", q, &out); err != nil {
		return nil, err
	}
	return out.Response.PlayerLevel, nil
}

// OwnedGames fetches the account's library. withAppInfo requests per-title
// metadata, needed when the caller wants hours for a specific title.
func (c *Client) OwnedGames(ctx context.Context, steamID string, withAppInfo bool) (*OwnedGames, error) {
	q := url.Values{
		"key":                       {c.apiKey},
		"steamid":                   {steamID},
		"include_played_free_games": {"1"},
	}
	if withAppInfo {
		q.Set("include_appinfo", "1")
	}
	var out struct {
		Response struct {
			GameCount *int        `json:"game_count"`
			Games     []OwnedGame `json:"games"`
		} `json:"response"`
	}
	if err := c.fetchJSON(ctx, EndpointOwnedGames, "/IPlayerService/GetOwnedGames/v1/", q, &out); err != nil {
		return nil, err
	}
	return &OwnedGames{Count: out.Response.GameCount, Games: out.Response.Games}, nil
}

// FriendCount fetches the size of the account's friends list; nil when the
// list is not publicly visible.
func (c *Client) FriendCount(ctx context.Context, steamID string) (*int, error) {
	q := url.Values{"key": {c.apiKey}, "steamid": {steamID}, "relationship": {"friend"}}
	var out struct {
		FriendsList struct {
			Friends []json.RawMessage `json:"friends"`
		} `json:"friendslist"`
	}
	if err := c.fetchJSON(ctx, EndpointFriendList, "/ISteamUser/GetFriendList/v1/", q, &out); err != nil {
		return nil, err
	}
	if out.FriendsList.Friends == nil {
		return nil, nil
	}
	n := len(out.FriendsList.Friends)
	return &n, nil
}

// PlayerBans fetches the restriction record; (nil, nil) when absent.
func (c *Client) PlayerBans(ctx context.Context, steamID string) (*PlayerBans, error) {
	q := url.Values{"key": {c.apiKey}, "steamids": {steamID}}
	var out struct {
		Players []PlayerBans `json:"players"`
	}
	if err := c.fetchJSON(ctx, EndpointPlayerBans, "/ISteamUser/GetPlayerBans/v1/", q, &out); err != nil {
		return nil, err
	}
	if len(out.Players) == 0 {
		return nil, nil
	}
	return &out.Players[0], nil
}

// ProfileHTML fetches the public community profile page in English.
// Returns ("", nil) on any fetch failure, including rate limits and server
// errors; the page is a best-effort source of social links, not a required
// signal.
func (c *Client) ProfileHTML(ctx context.Context, profileURL string) (string, error) {
	if profileURL == "" {
		return "", nil
	}
	sep := "?"
	if strings.Contains(profileURL, "?") {
		sep = "&"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profileURL+sep+"l=english", http.NoBody)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", httpcache.UserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	body, err := httpcache.FetchURL(ctx, c.cache, c.httpClient, req, c.logger)
	if err != nil {
		c.logger.DebugContext(ctx, "profile page fetch failed", "url", profileURL, "error", err)
		return "", nil
	}
	return string(body), nil
}

// fetchJSON performs a GET against the Web API and decodes the body,
// translating every failure mode into an *APIError.
func (c *Client) fetchJSON(ctx context.Context, endpoint, path string, q url.Values, v any) error {
	u := c.baseURL + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "steamcheck/1.0")

	body, err := httpcache.FetchURL(ctx, c.cache, c.httpClient, req, c.logger)
	if err != nil {
		apiErr := toAPIError(endpoint, err)
		c.logger.DebugContext(ctx, "steam api call failed", "endpoint", endpoint, "error", apiErr)
		return apiErr
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &APIError{Endpoint: endpoint, StatusCode: http.StatusOK, Kind: KindBadPayload}
	}
	return nil
}

// toAPIError maps a fetch failure to the closed error type.
func toAPIError(endpoint string, err error) *APIError {
	var httpErr *httpcache.HTTPError
	if errors.As(err, &httpErr) {
		kind := KindUnexpected
		switch {
		case httpErr.StatusCode == http.StatusTooManyRequests:
			kind = KindRateLimited
		case httpErr.StatusCode >= 500:
			kind = KindUnavailable
		}
		return &APIError{Endpoint: endpoint, StatusCode: httpErr.StatusCode, Kind: kind}
	}

	// The imposed deadline bounds worst-case latency; its expiry means the
	// upstream is too slow to trust, same as an outage.
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &APIError{Endpoint: endpoint, Kind: KindUnavailable}
	}
	return &APIError{Endpoint: endpoint, Kind: KindTransport}
}
