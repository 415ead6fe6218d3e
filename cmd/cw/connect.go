package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/codewiresh/syncwire/demo"
	"github.com/codewiresh/syncwire/internal/config"
)

// connectCmd dials a demo sync endpoint (a saved server name from
// servers.toml, or a raw ws(s):// URL), sends the Connect handshake, and
// prints the server's reply.
func connectCmd() *cobra.Command {
	var lastCloseReason string

	cmd := &cobra.Command{
		Use:   "connect <server-name-or-url>",
		Short: "Dial a demo sync server and send the Connect handshake",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := resolveServerURL(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			client, err := demo.Dial(ctx, url)
			if err != nil {
				return err
			}
			defer client.Close()

			reply, err := client.Connect(ctx, 1, lastCloseReason)
			if err != nil {
				return fmt.Errorf("connect handshake: %w", err)
			}

			enc, err := demo.EncodeServerMessage(reply)
			if err != nil {
				return fmt.Errorf("encoding reply: %w", err)
			}
			var pretty bytes.Buffer
			if err := json.Indent(&pretty, enc, "", "  "); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pretty.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&lastCloseReason, "last-close-reason", "unknown", "lastCloseReason to report on this Connect")

	return cmd
}

// resolveServerURL returns name unchanged when it is a ws(s):// URL, and
// otherwise looks it up in servers.toml, failing if it is not a saved
// entry.
func resolveServerURL(name string) (string, error) {
	if strings.HasPrefix(name, "ws://") || strings.HasPrefix(name, "wss://") {
		return name, nil
	}

	servers, err := config.LoadServersConfig(dataDir())
	if err != nil {
		return "", fmt.Errorf("loading servers.toml: %w", err)
	}
	entry, err := servers.Resolve(name)
	if err != nil {
		return "", fmt.Errorf("server %q is not a saved entry and not a ws(s):// URL: %w", name, err)
	}
	return entry.URL, nil
}
