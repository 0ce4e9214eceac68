package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"vector-pai/domain/entities"
)

func newLoginCmd(load containerLoader) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange user credentials for user pool tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := json.Marshal(map[string]string{"email": email, "password": password})
			if err != nil {
				return err
			}
			req, err := entities.ParseLoginRequest(string(raw))
			if err != nil {
				return err
			}

			c, err := load(cmd.Context())
			if err != nil {
				return err
			}
			result, err := c.Services.Login.Login(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "User email")
	cmd.Flags().StringVar(&password, "password", "", "User password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newEmailCmd(load containerLoader) *cobra.Command {
	var (
		to      []string
		subject string
		body    string
	)

	cmd := &cobra.Command{
		Use:   "email",
		Short: "Send an email through the configured sender",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := json.Marshal(map[string]interface{}{
				"to":       to,
				"subject":  subject,
				"bodyHtml": body,
			})
			if err != nil {
				return err
			}
			req, err := entities.ParseEmailRequest(string(raw))
			if err != nil {
				return err
			}

			c, err := load(cmd.Context())
			if err != nil {
				return err
			}
			result, err := c.Services.Email.Send(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("send email: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringSliceVar(&to, "to", nil, "Recipient, repeatable")
	cmd.Flags().StringVar(&subject, "subject", "", "Subject line")
	cmd.Flags().StringVar(&body, "body", "", "HTML body")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
