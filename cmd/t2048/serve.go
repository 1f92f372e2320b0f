package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH user gets their own saved game, keyed by user name, in the SQLite
database. All users share the score history (Tab in game).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, uses server.host_key_path from the config

Examples:
  t2048 serve                           # Listen on the configured address
  t2048 serve --ssh :2222               # Listen on port 2222
  t2048 serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh alice@localhost -p 2323`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes before disconnecting")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("ssh") {
		settings.Server.SSHAddr = flagSSHAddr
	}
	if cmd.Flags().Changed("host-key") {
		settings.Server.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		settings.Server.IdleTimeoutMinutes = flagIdleTimeout
	}

	server, err := tui.NewSSHServer(tui.SSHServerConfigFrom(settings), logger.WithPrefix("2048-ssh"))
	if err != nil {
		return fmt.Errorf("cannot create server: %w", err)
	}

	fmt.Printf("Starting 2048 SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}
