package cmd

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hello-sparql/explorer/pkg/mcptools"
)

func newMCPCommand(logger *zap.SugaredLogger, o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the explorer tools to an MCP client over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := o.env(logger)
			if err != nil {
				return err
			}

			logger.Infof("Serving MCP tools over stdio (SPARQL endpoint: %s)", env.Client.BaseURL())

			return server.ServeStdio(mcptools.NewServer(env))
		},
	}
}
