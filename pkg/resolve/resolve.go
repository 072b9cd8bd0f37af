// Package resolve turns free-form account identifiers into canonical SteamID64s.
//
// Accepted inputs: a bare 17-digit SteamID64, a steamcommunity.com/profiles/
// URL, a steamcommunity.com/id/ vanity URL, or a bare vanity name. A SteamID64
// always resolves to itself; only vanity names require a provider lookup.
package resolve

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/codeGROOVE-dev/steamcheck/pkg/steamapi"
)

// ErrEmptyInput is returned when the input is empty after trimming.
var ErrEmptyInput = errors.New("please paste a Steam profile URL, vanity name, or SteamID64")

// ErrNotFound is returned when the input cannot be resolved to an account.
var ErrNotFound = steamapi.ErrVanityNotFound

var (
	steamIDPattern    = regexp.MustCompile(`^\d{17}$`)
	vanityURLPattern  = regexp.MustCompile(`(?i)steamcommunity\.com/id/([^/?#]+)`)
	profileURLPattern = regexp.MustCompile(`(?i)steamcommunity\.com/profiles/(\d{17})`)
)

// VanityResolver is the provider lookup needed for vanity names.
// *steamapi.Client satisfies it.
type VanityResolver interface {
	ResolveVanityURL(ctx context.Context, vanity string) (string, error)
}

// Resolver resolves identifiers against the Steam API.
type Resolver struct {
	api    VanityResolver
	logger *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// New creates a Resolver backed by the given vanity lookup.
func New(api VanityResolver, opts ...Option) *Resolver {
	r := &Resolver{api: api, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps input to a SteamID64. A well-formed SteamID64 is returned
// unchanged without any provider call; vanity lookups return ErrNotFound when
// the name is unknown and propagate upstream errors untouched.
func (r *Resolver) Resolve(ctx context.Context, input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", ErrEmptyInput
	}

	if steamIDPattern.MatchString(trimmed) {
		return trimmed, nil
	}

	if m := profileURLPattern.FindStringSubmatch(trimmed); len(m) > 1 {
		return m[1], nil
	}

	vanity := trimmed
	if m := vanityURLPattern.FindStringSubmatch(trimmed); len(m) > 1 {
		vanity = m[1]
	}

	r.logger.DebugContext(ctx, "resolving vanity name", "vanity", vanity)
	steamID, err := r.api.ResolveVanityURL(ctx, vanity)
	if err != nil {
		return "", err
	}
	return steamID, nil
}
