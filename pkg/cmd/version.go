package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hello-sparql/explorer/pkg/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "SPARQL explorer v%s\n", version.Version())
		},
	}
}
