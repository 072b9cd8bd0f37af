// Package signals aggregates per-account data from the Steam Web API into a
// single ProfileSignals value.
//
// The five endpoints (summary, level, owned games, friends, bans) are
// independent, so they are fetched concurrently. A rate-limit or server-side
// failure on any of them aborts the whole collection, since those indicate the
// run as a whole is unreliable. Any other failure degrades just that signal to
// absent: a private friends list must not hide a VAC ban.
package signals

import (
	"context"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codeGROOVE-dev/steamcheck/pkg/steamapi"
)

// ProfileSignals holds everything observable about one account. Pointer
// fields distinguish "endpoint answered zero" from "endpoint unavailable".
type ProfileSignals struct {
	Summary     *steamapi.PlayerSummary
	Level       *int
	GameCount   *int
	FriendCount *int
	Bans        *steamapi.PlayerBans

	// TitleHours is set only when a title was requested and found in the
	// account's library. Hours are rounded to one decimal.
	TitleHours *float64

	// ProfileHTML is the raw community profile page, fetched best-effort
	// for social link extraction. Empty when unavailable.
	ProfileHTML string
}

// CreatedAt returns the account creation time, if visible.
func (s *ProfileSignals) CreatedAt() *time.Time {
	if s.Summary == nil {
		return nil
	}
	return s.Summary.CreatedAt
}

// API is the provider surface the aggregator needs. *steamapi.Client
// satisfies it.
type API interface {
	PlayerSummaries(ctx context.Context, steamID string) (*steamapi.PlayerSummary, error)
	SteamLevel(ctx context.Context, steamID string) (*int, error)
	OwnedGames(ctx context.Context, steamID string, withAppInfo bool) (*steamapi.OwnedGames, error)
	FriendCount(ctx context.Context, steamID string) (*int, error)
	PlayerBans(ctx context.Context, steamID string) (*steamapi.PlayerBans, error)
	ProfileHTML(ctx context.Context, profileURL string) (string, error)
}

// Aggregator collects ProfileSignals for accounts.
type Aggregator struct {
	api    API
	logger *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) { a.logger = logger }
}

// New creates an Aggregator backed by the given API client.
func New(api API, opts ...Option) *Aggregator {
	a := &Aggregator{api: api, logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Collect fetches all signals for steamID concurrently. titleAppID > 0
// requests per-title hours alongside the library size. A fatal upstream error
// (rate limit, outage, unparseable payload) cancels the remaining fetches and
// is returned; anything softer leaves the corresponding field nil.
func (a *Aggregator) Collect(ctx context.Context, steamID string, titleAppID int) (*ProfileSignals, error) {
	sig := &ProfileSignals{}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, err := a.api.PlayerSummaries(ctx, steamID)
		if err != nil {
			return a.soften(ctx, "player summary", err)
		}
		sig.Summary = summary

		// The profile page URL comes from the summary, so this fetch is a
		// continuation rather than its own task.
		if summary == nil || summary.ProfileURL == "" {
			return nil
		}
		// The page is not a provider endpoint; no failure here, however
		// severe, outranks the signals already collected.
		html, err := a.api.ProfileHTML(ctx, summary.ProfileURL)
		if err != nil {
			a.logger.DebugContext(ctx, "signal unavailable", "endpoint", "profile page", "error", err)
			return nil
		}
		sig.ProfileHTML = html
		return nil
	})

	g.Go(func() error {
		level, err := a.api.SteamLevel(ctx, steamID)
		if err != nil {
			return a.soften(ctx, "steam level", err)
		}
		sig.Level = level
		return nil
	})

	g.Go(func() error {
		games, err := a.api.OwnedGames(ctx, steamID, titleAppID > 0)
		if err != nil {
			return a.soften(ctx, "owned games", err)
		}
		if games == nil {
			return nil
		}
		sig.GameCount = games.Count
		if titleAppID > 0 {
			sig.TitleHours = hoursForTitle(games.Games, titleAppID)
		}
		return nil
	})

	g.Go(func() error {
		friends, err := a.api.FriendCount(ctx, steamID)
		if err != nil {
			return a.soften(ctx, "friend list", err)
		}
		sig.FriendCount = friends
		return nil
	})

	g.Go(func() error {
		bans, err := a.api.PlayerBans(ctx, steamID)
		if err != nil {
			return a.soften(ctx, "player bans", err)
		}
		sig.Bans = bans
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sig, nil
}

// soften decides whether an endpoint error fails the whole collection.
// Fatal upstream errors propagate; everything else is logged and dropped so
// the signal degrades to absent.
func (a *Aggregator) soften(ctx context.Context, endpoint string, err error) error {
	if steamapi.Fatal(err) {
		return err
	}
	a.logger.DebugContext(ctx, "signal unavailable", "endpoint", endpoint, "error", err)
	return nil
}

// hoursForTitle returns playtime for appID rounded to one decimal, or nil
// when the title is not in the library.
func hoursForTitle(games []steamapi.OwnedGame, appID int) *float64 {
	for _, g := range games {
		if g.AppID == int64(appID) {
			hours := math.Round(float64(g.PlaytimeForever)/60.0*10) / 10
			return &hours
		}
	}
	return nil
}
