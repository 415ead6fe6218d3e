package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codewiresh/syncwire/internal/identity"
	"github.com/codewiresh/syncwire/internal/protocol"
)

// authCmd interactively builds an AuthenticationToken and prints its
// wire encoding, exercising protocol.EncodeAuthenticationToken the way a
// real client would right before sending an Authenticate message.
func authCmd() *cobra.Command {
	var actingAsIssuer, actingAsSubject string

	cmd := &cobra.Command{
		Use:   "auth [admin|user|none]",
		Short: "Build an AuthenticationToken and print its wire encoding",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var kindName string
			if len(args) > 0 {
				kindName = args[0]
			} else {
				choice, err := promptSelect("Token kind:", []string{"admin", "user", "none"})
				if err != nil {
					return fmt.Errorf("selecting token kind: %w", err)
				}
				kindName = []string{"admin", "user", "none"}[choice]
			}

			var kind protocol.AuthenticationTokenKind
			switch kindName {
			case "admin":
				kind = protocol.TokenAdmin
			case "user":
				kind = protocol.TokenUser
			case "none":
				kind = protocol.TokenNone
			default:
				return fmt.Errorf("unknown token kind %q (want admin, user, or none)", kindName)
			}

			tok := protocol.AuthenticationToken{Kind: kind}
			if kind != protocol.TokenNone {
				value, err := promptPassword(fmt.Sprintf("%s token: ", kind))
				if err != nil {
					return fmt.Errorf("reading token: %w", err)
				}
				tok.Value = value
			}

			if kind == protocol.TokenAdmin {
				if actingAsIssuer == "" {
					issuer, err := promptDefault("Acting-as issuer (blank for none)", "")
					if err != nil {
						return fmt.Errorf("reading acting-as issuer: %w", err)
					}
					actingAsIssuer = issuer
				}
				if actingAsIssuer != "" && actingAsSubject == "" {
					subject, err := prompt("Acting-as subject: ")
					if err != nil {
						return fmt.Errorf("reading acting-as subject: %w", err)
					}
					actingAsSubject = subject
				}
			}

			if kind == protocol.TokenAdmin && actingAsIssuer != "" {
				attrs := identity.Attributes{
					TokenIdentifier: identity.DeriveTokenIdentifier(actingAsIssuer, actingAsSubject),
					Issuer:          &actingAsIssuer,
					Subject:         &actingAsSubject,
				}
				tok.ActingAs = &attrs
			}

			encoded, err := protocol.EncodeAuthenticationToken(tok)
			if err != nil {
				return fmt.Errorf("encoding token: %w", err)
			}
			out, err := json.MarshalIndent(encoded, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&actingAsIssuer, "acting-as-issuer", "", "Issuer claim for an admin token's actingAs identity")
	cmd.Flags().StringVar(&actingAsSubject, "acting-as-subject", "", "Subject claim for an admin token's actingAs identity")

	return cmd
}
