package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/platform/httpapi"
)

var flagHTTPAddr string

var httpCmd = &cobra.Command{
	Use:   "http",
	Short: "Serve the saved game over HTTP",
	Long: `Serve the configured slot's game as a JSON API.

Routes:
  GET  /api/state           current game
  POST /api/new             {"keepBest": true}
  POST /api/move            {"direction": "left"}
  POST /api/sound           toggle sound
  POST /api/name            {"name": "ann"}
  GET  /api/scores          ?slot=&limit=
  GET  /ws                  notification stream
  GET  /health

Examples:
  t2048 http
  t2048 http --addr 127.0.0.1:9000 --slot web`,
	Args: cobra.NoArgs,
	RunE: runHTTP,
}

func init() {
	httpCmd.Flags().StringVar(&flagHTTPAddr, "addr", "", "HTTP listen address (host:port)")
}

func runHTTP(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("addr") {
		settings.Server.HTTPAddr = flagHTTPAddr
	}

	game, err := openGame(settings.FinalizeDelayTicks())
	if err != nil {
		return fmt.Errorf("cannot open game: %w", err)
	}
	defer game.Close()

	httpLogger := logger.WithPrefix("2048-http")
	session := httpapi.NewSession(game.engine, settings.Timing.TickRate, httpLogger)

	var scores httpapi.ScoreSource
	if game.store != nil {
		scores = game.store
	}
	server := httpapi.New(session, scores, httpLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.ListenAndServe(ctx, settings.Server.HTTPAddr)
}
