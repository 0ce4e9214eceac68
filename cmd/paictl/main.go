// Command paictl is the operator CLI: it mints development tokens and runs
// the login and email flows against the configured AWS account.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"vector-pai/infrastructure/config"
	"vector-pai/infrastructure/di"
)

// containerLoader builds the dependency container for commands that talk to AWS
type containerLoader func(ctx context.Context) (*di.Container, error)

func loadContainer(ctx context.Context) (*di.Container, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return di.InitializeContainer(ctx, cfg)
}

func main() {
	if err := newRootCmd(loadContainer).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(load containerLoader) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "paictl",
		Short:         "Operator CLI for the PAI operations backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newTokenCmd())
	rootCmd.AddCommand(newLoginCmd(load))
	rootCmd.AddCommand(newEmailCmd(load))
	return rootCmd
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
