package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errUnhealthy = errors.New("SPARQL endpoint is unavailable")

func newHealthCommand(logger *zap.SugaredLogger, o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check whether the SPARQL endpoint is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := o.env(logger)
			if err != nil {
				return err
			}

			if !env.Healthy(cmd.Context()) {
				return fmt.Errorf("%w: %s", errUnhealthy, env.Client.BaseURL())
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "SPARQL endpoint is healthy: %s\n", env.Client.BaseURL())

			return nil
		},
	}
}
