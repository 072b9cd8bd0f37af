// Command steamcheckd serves profile checks over HTTP.
//
// Endpoints:
//
//	POST /api/check  {"input": "...", "selectedAppId": 730, "selectedGameName": "..."}
//	GET  /healthz
//
// Requires STEAM_API_KEY in the environment.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codeGROOVE-dev/steamcheck/pkg/httpcache"
	"github.com/codeGROOVE-dev/steamcheck/pkg/server"
	"github.com/codeGROOVE-dev/steamcheck/pkg/steamcheck"
)

func main() {
	port := flag.Int("port", 8080, "port to listen on")
	debug := flag.Bool("debug", false, "enable debug logging")
	noCache := flag.Bool("no-cache", false, "disable HTTP caching (enabled by default)")
	cacheTTL := flag.Duration("cache-ttl", time.Hour, "HTTP cache time-to-live")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *debug {
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
		}
	}

	checker, err := steamcheck.New(apiKey, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	srv := server.New(server.Config{Port: *port, Checker: checker, Logger: logger})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
