// t2048 plays 2048 in the terminal, over SSH, or over HTTP.
//
// Usage:
//
//	t2048 play               - Play in this terminal
//	t2048 serve              - Start SSH server for remote play
//	t2048 http               - Serve the game as a JSON API with a WebSocket stream
//	t2048 move <dir>...      - Apply moves to the saved game without a UI
//	t2048 new [--hard]       - Start a new saved game
//	t2048 sound              - Toggle the sound preference
//	t2048 name <name>        - Name a new best score
//	t2048 show               - Print the saved game
//	t2048 scores             - Show score history
//	t2048 slots              - List saved games
//
// Global flags:
//
//	--config <path>     - YAML config (default search: ~/.arcade/configs/2048.yaml, ./configs/2048.yaml)
//	--storage <kind>    - sqlite or file
//	--db <path>         - Database or JSON file path
//	--slot <name>       - Save slot for local play
//	--fps <rate>        - Tick rate
//	--seed <value>      - RNG seed for reproducible spawns
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/config"
)

var (
	// Global flags
	flagConfig   string
	flagStorage  string
	flagDBPath   string
	flagSlot     string
	flagFPS      int
	flagSeed     int64
	flagLogLevel string

	settings config.T2048Config
	logger   *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "t2048",
	Short: "2048 - slide and merge tiles in your terminal",
	Long: `2048 is the sliding tile puzzle: merge equal tiles until one reads 2048,
then keep going for as long as the board has room.

Available commands:
  play     - Play in this terminal
  serve    - Start SSH server for remote play
  http     - Serve the game over HTTP
  move     - Apply moves to the saved game without a UI
  new      - Start a new saved game
  sound    - Toggle the sound preference
  name     - Name a new best score
  show     - Print the saved game
  scores   - View score history
  slots    - List saved games

Examples:
  t2048 play
  t2048 play --slot work
  t2048 move left up up
  t2048 serve --ssh :2323
  t2048 http --addr :8048`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagStorage, "storage", "", "Storage backend: sqlite or file")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to database or save file")
	rootCmd.PersistentFlags().StringVar(&flagSlot, "slot", "", "Save slot for local play")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(httpCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(soundCmd)
	rootCmd.AddCommand(nameCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(slotsCmd)
}

// setup loads .env, the YAML config and environment overrides, then applies
// any flags given on the command line.
func setup(cmd *cobra.Command, _ []string) error {
	// A missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("storage") {
		cfg.Storage.Backend = flagStorage
		if !flags.Changed("db") {
			cfg.Storage.Path = ""
		}
	}
	if flags.Changed("db") {
		cfg.Storage.Path = flagDBPath
	}
	if flags.Changed("slot") {
		cfg.Storage.Slot = flagSlot
	}
	if flags.Changed("fps") {
		cfg.Timing.TickRate = flagFPS
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if err := cfg.Normalize(); err != nil {
		return err
	}
	settings = cfg

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "2048",
		Level:           settings.LogLevel(),
	})
	return nil
}
