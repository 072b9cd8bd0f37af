// Command steamcheck scores the trustworthiness of a Steam profile.
//
// Usage:
//
//	steamcheck https://steamcommunity.com/id/somevanity
//	steamcheck 76561197960287930
//	steamcheck -appid 730 -game "Counter-Strike 2" somevanity
//
// Requires STEAM_API_KEY in the environment.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/codeGROOVE-dev/steamcheck/pkg/httpcache"
	"github.com/codeGROOVE-dev/steamcheck/pkg/steamcheck"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	verbose := flag.Bool("v", false, "verbose logging (same as -debug)")
	noCache := flag.Bool("no-cache", false, "disable HTTP caching (enabled by default)")
	cacheTTL := flag.Duration("cache-ttl", time.Hour, "HTTP cache time-to-live")
	appID := flag.Int("appid", 0, "game appid to look up hours for")
	gameName := flag.String("game", "", "game name for display in the explanation")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: steamcheck [options] <profile-url|vanity|steamid64>")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		flag.PrintDefaults()
		fmt.Fprintln(os.Stderr, "\nRequires STEAM_API_KEY in the environment.")
		os.Exit(1)
	}

	input := flag.Arg(0)

	logLevel := slog.LevelInfo
	if *debug || *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	apiKey := os.Getenv("STEAM_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "Error: STEAM_API_KEY is not set")
		os.Exit(1)
	}

	opts := []steamcheck.Option{steamcheck.WithLogger(logger)}
	if !*noCache {
		httpCache, err := httpcache.New(*cacheTTL)
		if err != nil {
			logger.Warn("failed to initialize cache, continuing without cache", "error", err)
		} else {
			opts = append(opts, steamcheck.WithHTTPCache(httpCache))
			logger.Debug("HTTP cache initialized", "ttl", cacheTTL.String())
		}
	}

	checker, err := steamcheck.New(apiKey, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	report, err := checker.Check(context.Background(), steamcheck.Request{
		Input:    input,
		AppID:    *appID,
		GameName: *gameName,
	})
	if err != nil {
		_, message := steamcheck.Classify(err)
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		os.Exit(1)
	}

	stats := httpcache.CacheStats()
	logger.Debug("HTTP cache stats", "hits", stats.Hits, "misses", stats.Misses)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		fmt.Fprintf(os.Stderr, "Output error: %v\n", err)
		os.Exit(1)
	}
}
