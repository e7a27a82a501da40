// Package cmd holds the explorer command line: the HTTP backend, one-shot
// queries and validations, and the MCP tool server.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	explorer "github.com/hello-sparql/explorer/pkg"
	"github.com/hello-sparql/explorer/pkg/env/endpoint"
	"github.com/hello-sparql/explorer/pkg/env/server"
	"github.com/hello-sparql/explorer/pkg/metrics"
	"github.com/hello-sparql/explorer/pkg/templates"
	"github.com/hello-sparql/explorer/pkg/version"
)

type options struct {
	endpoint string
	timeout  time.Duration
}

func NewRootCmd(logger *zap.SugaredLogger) *cobra.Command {
	o := &options{}

	rootCmd := &cobra.Command{
		Use:   "explorer",
		Short: "SPARQL query explorer",
		Long: `Run SPARQL queries against RDF data through a remote SPARQL endpoint.

The endpoint is taken from --endpoint, then SPARQL_ENDPOINT, then
http://localhost:8000.`,
		Version:       version.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&o.endpoint, "endpoint", "", "SPARQL endpoint base URL")
	rootCmd.PersistentFlags().DurationVar(&o.timeout, "timeout", 0, "timeout of a single endpoint call (default: $SPARQL_TIMEOUT or 60s)")

	rootCmd.AddCommand(newServeCommand(logger, o))
	rootCmd.AddCommand(newQueryCommand(logger, o))
	rootCmd.AddCommand(newValidateCommand(logger, o))
	rootCmd.AddCommand(newHealthCommand(logger, o))
	rootCmd.AddCommand(newTemplatesCommand(logger, o))
	rootCmd.AddCommand(newMCPCommand(logger, o))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// env builds the application context from the environment, with command
// line flags taking precedence.
func (o *options) env(logger *zap.SugaredLogger) (*explorer.Env, error) {
	ee := endpoint.NewEndpointEnv()
	if err := ee.Populate(); err != nil {
		return nil, fmt.Errorf("unable to configure SPARQL endpoint: %w", err)
	}
	if o.endpoint != "" {
		if err := ee.SetURL(o.endpoint); err != nil {
			return nil, fmt.Errorf("unable to configure SPARQL endpoint: %w", err)
		}
	}
	if o.timeout > 0 {
		ee.Timeout = o.timeout
	}

	se := server.NewServerEnv()
	if err := se.Populate(); err != nil {
		return nil, fmt.Errorf("unable to configure server: %w", err)
	}

	env := explorer.NewEnv(ee, logger, metrics.New())
	env.ServerEnv = se

	if se.TemplatesFile != "" {
		t, err := templates.Load(se.TemplatesFile)
		if err != nil {
			return nil, fmt.Errorf("unable to configure templates: %w", err)
		}
		env.Templates = t
		logger.Debugf("Loaded %d query templates from: %s", len(t.Templates), se.TemplatesFile)
	}

	return env, nil
}

var errStdinTwice = errors.New("standard input can only be read once")

// checkStdin rejects more than one file argument reading from standard input.
func checkStdin(flags map[string]string) error {
	var names []string
	for name, path := range flags {
		if path == "-" {
			names = append(names, "--"+name)
		}
	}
	if len(names) > 1 {
		sort.Strings(names)
		return fmt.Errorf("%w: %s", errStdinTwice, strings.Join(names, ", "))
	}
	return nil
}

// readInput returns value when set, else the content of path, where "-"
// reads from in.
func readInput(in io.Reader, value, path string) (string, error) {
	if value != "" || path == "" {
		return value, nil
	}

	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(in)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("unable to read input: %w", err)
	}

	return strings.TrimRight(string(b), "\n"), nil
}
