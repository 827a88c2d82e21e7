package main

import (
	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time
var Version = "dev"

func newRootCmd() *cobra.Command {
	var port string

	rootCmd := &cobra.Command{
		Use:   "pkce-helper",
		Short: "Obtain an OAuth authorization code and PKCE verifier from Spotify",
		Long: `Runs a small web endpoint that redirects the browser to the provider's
authorization page and returns the authorization code together with the PKCE
code verifier as JSON, leaving the token exchange to the caller.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), port)
		},
	}
	rootCmd.Flags().StringVar(&port, "port", "", "listening port (overrides PORT and the redirect URI port)")

	rootCmd.AddCommand(newPKCECmd())
	return rootCmd
}
