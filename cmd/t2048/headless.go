package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

var (
	flagHard   bool
	flagJSON   bool
	flagEvents bool
)

var moveCmd = &cobra.Command{
	Use:   "move <direction>...",
	Short: "Apply moves to the saved game",
	Long: `Apply one or more moves to the saved game and print the result.
Directions are up, down, left and right (or u/d/l/r, w/a/s/d).

Examples:
  t2048 move left
  t2048 move l u u r --events`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMove,
}

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a new saved game",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return headless(cmd, func(e *t2048.Engine) error {
			if !e.NewGame(!flagHard) {
				return errors.New("the last game set a new best: name it with 't2048 name' or start over with --hard")
			}
			return nil
		})
	},
}

var soundCmd = &cobra.Command{
	Use:   "sound",
	Short: "Toggle the sound preference",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return headless(cmd, func(e *t2048.Engine) error {
			e.ToggleSound()
			return nil
		})
	},
}

var nameCmd = &cobra.Command{
	Use:   "name <name>",
	Short: "Name a new best score",
	Long: `Answer the name prompt left by a finished game that set a new best
score. An empty name records the anonymous name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		return headless(cmd, func(e *t2048.Engine) error {
			return e.SubmitName(name)
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved game",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return headless(cmd, func(*t2048.Engine) error { return nil })
	},
}

func init() {
	newCmd.Flags().BoolVar(&flagHard, "hard", false, "Also clear the best score")
	for _, c := range []*cobra.Command{moveCmd, newCmd, soundCmd, nameCmd, showCmd} {
		c.Flags().BoolVar(&flagJSON, "json", false, "Print the game as JSON")
		c.Flags().BoolVar(&flagEvents, "events", false, "Print engine notifications")
	}
}

func runMove(cmd *cobra.Command, args []string) error {
	return headless(cmd, func(e *t2048.Engine) error {
		for _, dir := range args {
			e.MoveString(dir)
		}
		return nil
	})
}

// headless opens the saved game with no finalize delay, runs fn and prints
// the resulting game.
func headless(cmd *cobra.Command, fn func(*t2048.Engine) error) error {
	rec := &t2048.Recorder{}
	game, err := openGame(0, t2048.WithListener(rec))
	if err != nil {
		return fmt.Errorf("cannot open game: %w", err)
	}
	defer game.Close()

	// Boot may already have asked for a name; keep only what fn causes.
	bootEvents := len(rec.Events)
	if err := fn(game.engine); err != nil {
		return err
	}

	logger.Debug("engine events", "kinds", rec.Kinds()[bootEvents:])

	out := cmd.OutOrStdout()
	if flagEvents {
		for _, ev := range rec.Events[bootEvents:] {
			fmt.Fprintln(out, describeEvent(ev))
		}
	}
	return printSnapshot(out, game.engine.Snapshot(), flagJSON)
}

func printSnapshot(w io.Writer, snap t2048.Snapshot, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	fmt.Fprintf(w, "Score: %d  Best: %d", snap.Score, snap.Best)
	if snap.BestName != "" {
		fmt.Fprintf(w, " (%s)", snap.BestName)
	}
	sound := "off"
	if snap.SoundEnabled {
		sound = "on"
	}
	fmt.Fprintf(w, "  Sound: %s\n", sound)
	fmt.Fprint(w, formatBoard(snap.Board))

	switch {
	case snap.AwaitingName:
		fmt.Fprintln(w, "New best score! Record it with: t2048 name <name>")
	case snap.Status == t2048.StatusOver:
		fmt.Fprintln(w, "Game over. Start again with: t2048 new")
	case snap.Status == t2048.StatusWon:
		fmt.Fprintln(w, "You reached 2048! Keep going.")
	}
	return nil
}

// formatBoard draws the grid with right-aligned values and dots for empty
// cells.
func formatBoard(board [t2048.BoardSize][t2048.BoardSize]int) string {
	var sb strings.Builder
	for _, row := range board {
		for c, v := range row {
			if c > 0 {
				sb.WriteByte(' ')
			}
			if v == 0 {
				fmt.Fprintf(&sb, "%5s", ".")
			} else {
				fmt.Fprintf(&sb, "%5d", v)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func describeEvent(ev t2048.Event) string {
	switch ev := ev.(type) {
	case t2048.TileSpawned:
		return fmt.Sprintf("%s: %d at %d,%d", ev.Kind(), ev.Tile.Value, ev.Tile.Row, ev.Tile.Col)
	case t2048.TileMoved:
		return fmt.Sprintf("%s: %d,%d -> %d,%d", ev.Kind(), ev.From.Row, ev.From.Col, ev.To.Row, ev.To.Col)
	case t2048.TileMerged:
		return fmt.Sprintf("%s: %d", ev.Kind(), ev.Value)
	case t2048.MoveRejected:
		return fmt.Sprintf("%s: %s (%s)", ev.Kind(), ev.Direction, ev.Reason)
	case t2048.StatusChanged:
		return fmt.Sprintf("%s: %s", ev.Kind(), ev.Status)
	case t2048.ScoreChanged:
		return fmt.Sprintf("%s: %d (best %d)", ev.Kind(), ev.Score, ev.Best)
	case t2048.SoundToggled:
		return fmt.Sprintf("%s: %v", ev.Kind(), ev.Enabled)
	case t2048.GameOver:
		return fmt.Sprintf("%s: score %d, best %d", ev.Kind(), ev.Score, ev.Best)
	}
	return ev.Kind()
}
