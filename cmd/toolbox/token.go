package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toolbox/toolbox-go/internal/config"
	"github.com/toolbox/toolbox-go/internal/crypto"
)

func newTokenCmd() *cobra.Command {
	var subject string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an admin token for the activity API (uses JWT_SECRET and JWT_EXPIRY)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			token, err := crypto.IssueToken(subject, cfg.JWTSecret, cfg.JWTExpiry)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "token subject, e.g. the operator's name")
	cmd.MarkFlagRequired("subject")
	return cmd
}
