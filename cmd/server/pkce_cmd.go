package main

import (
	"encoding/json"

	"github.com/jrsteele09/go-pkce-helper/pkce"
	"github.com/spf13/cobra"
)

type pkceOutput struct {
	CodeVerifier        string `json:"code_verifier"`
	CodeChallenge       string `json:"code_challenge"`
	CodeChallengeMethod string `json:"code_challenge_method"`
	State               string `json:"state"`
}

func newPKCECmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pkce",
		Short: "Print a fresh PKCE verifier, challenge and state as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pair := pkce.New()
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(pkceOutput{
				CodeVerifier:        pair.Verifier,
				CodeChallenge:       pair.Challenge,
				CodeChallengeMethod: pair.Method,
				State:               pkce.GenerateState(),
			})
		},
	}
}
