// Command cw is a demonstration CLI for the sync wire protocol core: it
// exercises the Value<->JSON codec directly, builds AuthenticationToken
// values interactively, and drives the demo WebSocket transport
// (demo.Client / demo.Server) so the protocol packages have a real
// consumer outside their own tests. Adapted from the teacher's cmd/cw,
// which builds its cobra command tree the same way around a different
// (terminal-session) domain.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cw",
		Short: "Demo CLI for the sync wire protocol core",
	}

	rootCmd.AddCommand(
		codecCmd(),
		authCmd(),
		connectCmd(),
		serveCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// dataDir returns the directory the CLI persists servers.toml under,
// following the teacher's $HOME-with-insecure-fallback convention.
func dataDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		fmt.Fprintln(os.Stderr, "[cw] ERROR: $HOME environment variable is not set")
		fmt.Fprintln(os.Stderr, "[cw] WARNING: using insecure fallback directory /tmp/.syncwire")
		return "/tmp/.syncwire"
	}
	return filepath.Join(home, ".syncwire")
}
