package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagScoresSlot  string
	flagScoresLimit int
	flagInteractive bool
	flagClear       bool
	flagDeleteSlot  string
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show score history",
	Long: `Display the top scores across every slot, or for one slot.

Examples:
  t2048 scores
  t2048 scores --for alice --limit 5
  t2048 scores -i
  t2048 scores --for alice --clear`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "List saved games",
	Args:  cobra.NoArgs,
	RunE:  runSlots,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresSlot, "for", "", "Only show this slot")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse scores in a table")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the listed history instead of showing it")
	slotsCmd.Flags().StringVar(&flagDeleteSlot, "delete", "", "Delete the saved game in this slot (the file backend has only one)")
}

func runScores(cmd *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearScores(flagScoresSlot); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Score history cleared.")
		return nil
	}

	if flagInteractive {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		return tui.RunScoreboard(store, settings.Storage.Slot, width, height)
	}

	var scores []storage.ScoreEntry
	if flagScoresSlot != "" {
		scores, err = store.SlotScores(flagScoresSlot, flagScoresLimit)
	} else {
		scores, err = store.TopScores(flagScoresLimit)
	}
	if err != nil {
		return fmt.Errorf("error retrieving scores: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "High Scores - 2048")
	fmt.Fprintln(out)

	if len(scores) == 0 {
		fmt.Fprintln(out, "No scores recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Play 't2048 play' to set the first high score!")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  Rank\tName\tSlot\tScore\tTile\tMoves\tDate")
	fmt.Fprintln(tw, "  ----\t----\t----\t-----\t----\t-----\t----")
	for i, e := range scores {
		name := e.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%d\t%d\t%d\t%s\n",
			i+1, name, e.Slot, e.Score, e.MaxTile, e.Moves, e.CreatedAt.Format("2006-01-02 15:04"))
	}
	tw.Flush()

	if high, err := store.HighScore(); err == nil {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Best: %d\n", high)
	}
	return nil
}

func runSlots(cmd *cobra.Command, _ []string) error {
	if settings.Storage.Backend == config.BackendFile {
		return runFileSlot(cmd)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if flagDeleteSlot != "" {
		if err := store.DeleteGame(flagDeleteSlot); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted saved game %q.\n", flagDeleteSlot)
		return nil
	}

	saves, err := store.Saves()
	if err != nil {
		return err
	}
	if len(saves) == 0 {
		fmt.Fprintln(out, "No saved games.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  Slot\tSize\tUpdated")
	for _, s := range saves {
		fmt.Fprintf(tw, "  %s\t%dB\t%s\n", s.Slot, s.Bytes, s.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

// runFileSlot handles `slots` for the file backend, which holds one game.
func runFileSlot(cmd *cobra.Command) error {
	fs, err := storage.NewFileStore(settings.Storage.Path)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if flagDeleteSlot != "" {
		if err := fs.Delete(); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted saved game %s.\n", fs.Path())
		return nil
	}

	info, err := os.Stat(fs.Path())
	if err != nil {
		fmt.Fprintln(out, "No saved games.")
		return nil
	}
	fmt.Fprintf(out, "  %s  %dB  %s\n", fs.Path(), info.Size(), info.ModTime().Format("2006-01-02 15:04"))
	return nil
}
