// Package steamcheck checks the trustworthiness of a Steam profile.
//
// A check resolves free-form input to a SteamID64, gathers the account's
// public signals, scores them, and assembles a full report. Reports are
// memoized for a few minutes per (account, title) pair; a fatal upstream
// failure never produces a partial report and is never cached.
package steamcheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/codeGROOVE-dev/steamcheck/pkg/httpcache"
	"github.com/codeGROOVE-dev/steamcheck/pkg/region"
	"github.com/codeGROOVE-dev/steamcheck/pkg/resolve"
	"github.com/codeGROOVE-dev/steamcheck/pkg/resultcache"
	"github.com/codeGROOVE-dev/steamcheck/pkg/signals"
	"github.com/codeGROOVE-dev/steamcheck/pkg/sociallinks"
	"github.com/codeGROOVE-dev/steamcheck/pkg/steamapi"
	"github.com/codeGROOVE-dev/steamcheck/pkg/trust"
)

// Disclaimer accompanies every successful report.
const Disclaimer = "Trust Score is a quick snapshot using available Steam signals (account age, " +
	"ban indicators, game library footprint, friends count, Steam level, and optional game hours). " +
	"Not a cheat detector."

// Request identifies the profile to check. Input accepts a steamcommunity
// URL, a vanity name, or a bare SteamID64. AppID and GameName optionally
// select a title for an hours lookup.
type Request struct {
	Input    string `json:"input"`
	AppID    int    `json:"selectedAppId"`
	GameName string `json:"selectedGameName"`
}

// CurrentlyPlaying names the title the account was in at check time.
type CurrentlyPlaying struct {
	Name  string `json:"name"`
	AppID *int64 `json:"appid"`
}

// SelectedGame reports the per-title hours lookup.
type SelectedGame struct {
	AppID      int      `json:"appid"`
	Name       string   `json:"name"`
	Hours      *float64 `json:"hours"`
	Adjustment int      `json:"adjustment"`
}

// Signals is the scoring-input echo included in a report.
type Signals struct {
	AgeText      string          `json:"ageText"`
	AgeYears     *int            `json:"ageYears"`
	AgeDays      *int            `json:"ageDays"`
	FriendsCount *int            `json:"friendsCount"`
	Points       trust.Breakdown `json:"points"`
	Ban          *trust.BanMeta  `json:"ban"`
}

// Report is the complete result of one check.
type Report struct {
	SteamID     string `json:"steamid"`
	PersonaName string `json:"personaName"`
	ProfileURL  string `json:"profileUrl"`
	Avatar      string `json:"avatar"`

	IsProfilePublic *bool  `json:"isProfilePublic"`
	Openness        string `json:"openness"`

	CreatedAt    *time.Time           `json:"createdAt"`
	SteamLevel   *int                 `json:"steamLevel"`
	GamesCount   *int                 `json:"gamesCount"`
	FriendsCount *int                 `json:"friendsCount"`
	Bans         *steamapi.PlayerBans `json:"bans"`

	Region           *region.Bucket     `json:"region"`
	CurrentlyPlaying *CurrentlyPlaying  `json:"currentlyPlaying"`
	SelectedGame     *SelectedGame      `json:"selectedGame"`
	SocialLinks      []sociallinks.Link `json:"socialLinks"`

	TrustLevel   *int    `json:"trustLevel"`
	Verdict      string  `json:"verdict"`
	ScoreSummary string  `json:"scoreSummary"`
	Signals      Signals `json:"signals"`

	Disclaimer string `json:"disclaimer"`
	Cache      string `json:"cache"` // "hit" or "miss"
}

// Checker runs profile checks.
type Checker struct {
	resolver *resolve.Resolver
	agg      *signals.Aggregator
	results  *resultcache.Cache[Report]
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Checker.
type Option func(*config)

type config struct {
	httpCache  httpcache.Cacher
	httpClient *http.Client
	baseURL    string
	results    *resultcache.Cache[Report]
	logger     *slog.Logger
	now        func() time.Time
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithHTTPCache sets the HTTP-level response cache.
func WithHTTPCache(cache httpcache.Cacher) Option {
	return func(c *config) { c.httpCache = cache }
}

// WithHTTPClient overrides the outbound HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) { c.httpClient = client }
}

// WithBaseURL overrides the Steam API host, for tests.
func WithBaseURL(base string) Option {
	return func(c *config) { c.baseURL = base }
}

// WithResultCache overrides the report memoization cache.
func WithResultCache(cache *resultcache.Cache[Report]) Option {
	return func(c *config) { c.results = cache }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// New creates a Checker. apiKey is required.
func New(apiKey string, opts ...Option) (*Checker, error) {
	cfg := &config{logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.results == nil {
		cfg.results = resultcache.New[Report]()
	}

	apiOpts := []steamapi.Option{steamapi.WithLogger(cfg.logger)}
	if cfg.httpCache != nil {
		apiOpts = append(apiOpts, steamapi.WithHTTPCache(cfg.httpCache))
	}
	if cfg.httpClient != nil {
		apiOpts = append(apiOpts, steamapi.WithHTTPClient(cfg.httpClient))
	}
	if cfg.baseURL != "" {
		apiOpts = append(apiOpts, steamapi.WithBaseURL(cfg.baseURL))
	}
	api, err := steamapi.New(apiKey, apiOpts...)
	if err != nil {
		return nil, err
	}

	return &Checker{
		resolver: resolve.New(api, resolve.WithLogger(cfg.logger)),
		agg:      signals.New(api, signals.WithLogger(cfg.logger)),
		results:  cfg.results,
		logger:   cfg.logger,
		now:      cfg.now,
	}, nil
}

// Check runs one full profile check.
func (c *Checker) Check(ctx context.Context, req Request) (*Report, error) {
	steamID, err := c.resolver.Resolve(ctx, req.Input)
	if err != nil {
		return nil, err
	}

	key := cacheKey(steamID, req.AppID)
	if cached, ok := c.results.Get(key); ok {
		c.logger.DebugContext(ctx, "serving cached report", "steamid", steamID)
		cached.Cache = "hit"
		return &cached, nil
	}

	sig, err := c.agg.Collect(ctx, steamID, req.AppID)
	if err != nil {
		return nil, err
	}

	report := c.buildReport(steamID, req, sig)
	c.results.Set(key, *report)
	report.Cache = "miss"

	c.logger.InfoContext(ctx, "profile checked",
		"steamid", steamID, "verdict", report.Verdict, "openness", report.Openness)
	return report, nil
}

func (c *Checker) buildReport(steamID string, req Request, sig *signals.ProfileSignals) *Report {
	result := trust.Score(trust.Input{
		CreatedAt:   sig.CreatedAt(),
		Level:       sig.Level,
		GameCount:   sig.GameCount,
		FriendCount: sig.FriendCount,
		Bans:        banRecord(sig.Bans),
		GameName:    req.GameName,
		GameHours:   sig.TitleHours,
		Now:         c.now(),
	})

	report := &Report{
		SteamID:         steamID,
		IsProfilePublic: sig.Summary.Public(),
		Openness:        opennessOf(sig, req.AppID > 0),
		CreatedAt:       sig.CreatedAt(),
		SteamLevel:      sig.Level,
		GamesCount:      sig.GameCount,
		FriendsCount:    sig.FriendCount,
		Bans:            sig.Bans,
		SocialLinks:     sociallinks.FromProfileHTML(sig.ProfileHTML),
		TrustLevel:      result.Score,
		Verdict:         result.Verdict,
		ScoreSummary:    result.Summary,
		Signals: Signals{
			AgeText:      result.AgeText,
			AgeYears:     result.AgeYears,
			AgeDays:      result.AgeDays,
			FriendsCount: sig.FriendCount,
			Points:       result.Points,
			Ban:          result.Ban,
		},
		Disclaimer: Disclaimer,
	}

	if s := sig.Summary; s != nil {
		report.PersonaName = s.Persona
		report.ProfileURL = s.ProfileURL
		report.Avatar = s.AvatarFull
		report.Region = region.FromCountryCode(s.CountryCode)
		if s.GameExtraInfo != "" {
			playing := &CurrentlyPlaying{Name: s.GameExtraInfo}
			if id, err := strconv.ParseInt(s.GameID, 10, 64); err == nil {
				playing.AppID = &id
			}
			report.CurrentlyPlaying = playing
		}
	}

	if req.AppID > 0 {
		report.SelectedGame = &SelectedGame{
			AppID:      req.AppID,
			Name:       req.GameName,
			Hours:      sig.TitleHours,
			Adjustment: result.GameAdj,
		}
	}

	return report
}

func cacheKey(steamID string, appID int) string {
	if appID > 0 {
		return fmt.Sprintf("%s:%d", steamID, appID)
	}
	return steamID + ":none"
}

// opennessOf classifies how much of the profile is publicly visible. Purely
// informational; the trust model has its own evidence rule.
func opennessOf(sig *signals.ProfileSignals, titleRequested bool) string {
	public := sig.Summary.Public()
	if public == nil || !*public {
		return "Private"
	}

	possible, available := 5, 0
	if sig.CreatedAt() != nil {
		available++
	}
	if sig.Bans != nil {
		available++
	}
	if sig.Level != nil {
		available++
	}
	if sig.GameCount != nil {
		available++
	}
	if sig.FriendCount != nil {
		available++
	}
	if titleRequested {
		possible++
		if sig.TitleHours != nil {
			available++
		}
	}

	ratio := float64(available) / float64(possible)
	switch {
	case ratio >= 0.75:
		return "Open"
	case ratio >= 0.25:
		return "Semi-Open"
	default:
		return "Private"
	}
}

func banRecord(b *steamapi.PlayerBans) *trust.BanRecord {
	if b == nil {
		return nil
	}
	days := b.DaysSinceLastBan
	return &trust.BanRecord{
		VACBans:         b.NumberOfVACBans,
		GameBans:        b.NumberOfGameBans,
		CommunityBanned: b.CommunityBanned,
		EconomyBan:      b.EconomyBan,
		DaysSinceLast:   &days,
	}
}

// Classify maps any error out of Check to an outward-facing HTTP status and
// message. Upstream failures get retry guidance; everything else is treated
// as a problem with the request itself.
func Classify(err error) (status int, message string) {
	var apiErr *steamapi.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case steamapi.KindRateLimited:
			return http.StatusTooManyRequests,
				"Steam is rate-limiting requests right now. Please retry in about 30-60 seconds."
		case steamapi.KindUnavailable, steamapi.KindBadPayload:
			return http.StatusServiceUnavailable,
				"Steam is temporarily unavailable. Please retry in a minute."
		default:
			return http.StatusBadGateway,
				"Steam returned an unexpected response. Please retry shortly."
		}
	}

	switch {
	case errors.Is(err, resolve.ErrEmptyInput):
		return http.StatusBadRequest, "Please paste a Steam profile URL, vanity name, or SteamID64."
	case errors.Is(err, steamapi.ErrVanityNotFound):
		return http.StatusBadRequest, "Could not resolve that input to a Steam profile."
	case err != nil:
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusOK, ""
}
