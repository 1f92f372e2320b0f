package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/platform/tui"
)

var flagNoColor bool

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start playing the saved game, or a new one if none is saved.

Controls:
  Arrows/WASD - Slide tiles
  N           - New game (keeps best score)
  H           - Hard reset (clears best score)
  M           - Toggle sound
  Tab         - Score history
  Ctrl+S      - Save a screenshot to ~/.arcade/screenshots
  Q/Ctrl+C    - Quit

When a game ends with a new best score you are asked for a name; Enter
accepts it and Esc records the anonymous name.

Examples:
  t2048 play
  t2048 play --slot alice
  t2048 play --storage file --db ./2048.json
  t2048 play --no-color`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagNoColor, "no-color", false, "Render without colors")
}

func runPlay(_ *cobra.Command, _ []string) error {
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	rc := settings.Runtime(width, height)
	rc.Seed = flagSeed

	game, err := openGame(rc.TicksFor(settings.Timing.FinalizeDelayMS))
	if err != nil {
		return fmt.Errorf("cannot open game: %w", err)
	}
	defer game.Close()

	opts := tui.Options{
		Config: rc,
		Slot:   settings.Storage.Slot,
	}
	if game.store != nil {
		opts.Scores = game.store
	}
	if flagNoColor || os.Getenv("NO_COLOR") != "" {
		opts.Palette = tui.MonoPalette()
	}

	if err := tui.Run(game.engine, opts); err != nil {
		return fmt.Errorf("error running game: %w", err)
	}
	return nil
}
