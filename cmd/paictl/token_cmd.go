package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"vector-pai/pkg/auth"
)

func newTokenCmd() *cobra.Command {
	var (
		subject  string
		username string
		groups   []string
		secret   string
		issuer   string
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development token signed with JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				secret = os.Getenv("JWT_SECRET")
			}
			if issuer == "" {
				issuer = os.Getenv("JWT_ISSUER")
			}
			if secret == "" {
				return fmt.Errorf("a secret is required: pass --secret or set JWT_SECRET")
			}
			if ttl <= 0 {
				return fmt.Errorf("--ttl must be positive")
			}

			token, err := auth.IssueStaticToken(secret, issuer, auth.Claims{
				Subject:  subject,
				Username: username,
				Groups:   groups,
			}, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&subject, "sub", "", "Subject (user id) of the token")
	cmd.Flags().StringVar(&username, "username", "", "Username claim")
	cmd.Flags().StringSliceVar(&groups, "group", nil, "Group membership, repeatable (e.g. --group admin)")
	cmd.Flags().StringVar(&secret, "secret", "", "Signing secret (defaults to JWT_SECRET)")
	cmd.Flags().StringVar(&issuer, "issuer", "", "Issuer claim (defaults to JWT_ISSUER)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("sub")

	return cmd
}
