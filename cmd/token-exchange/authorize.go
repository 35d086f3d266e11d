package main

import (
	"fmt"

	"github.com/go-training/token-exchange/pkg/exchange"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newAuthorizeURLCommand(a *app) *cobra.Command {
	var (
		state string
		pkce  bool
	)

	cmd := &cobra.Command{
		Use:   "authorize-url",
		Short: "Print the URL that starts the authorization code flow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if state == "" {
				state = uuid.NewString()
			}

			var opts []exchange.AuthorizeOption
			var verifier string
			if pkce {
				verifier = exchange.GenerateVerifier()
				opts = append(opts, exchange.WithPKCE(verifier))
			}

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(out, a.exchanger().AuthorizeURL(state, opts...)); err != nil {
				return err
			}
			if verifier != "" {
				if _, err := fmt.Fprintf(out, "Code Verifier: %s\n", verifier); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "state value (random when empty)")
	cmd.Flags().BoolVar(&pkce, "pkce", false, "add an S256 code challenge and print its verifier")
	return cmd
}
