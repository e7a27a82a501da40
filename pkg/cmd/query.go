package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hello-sparql/explorer/pkg/client"
	"github.com/hello-sparql/explorer/pkg/models"
	"github.com/hello-sparql/explorer/pkg/templates"
)

type queryOptions struct {
	query     string
	queryFile string
	template  string
	data      string
	dataFile  string
	inference bool
	format    string
}

func newQueryCommand(logger *zap.SugaredLogger, o *options) *cobra.Command {
	q := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a SPARQL query and print the result",
		Long: `Run a SPARQL query against RDF data and print the serialized result.

Without --query or --query-file the query comes from --template. Without
--data or --data-file the sample data set is used. A file name of "-"
reads from standard input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := models.ParseFormat(q.format)
			if err != nil {
				return err
			}

			if err := checkStdin(map[string]string{"query-file": q.queryFile, "data-file": q.dataFile}); err != nil {
				return err
			}

			env, err := o.env(logger)
			if err != nil {
				return err
			}

			query, err := readInput(cmd.InOrStdin(), q.query, q.queryFile)
			if err != nil {
				return err
			}
			if query == "" {
				t, ok := env.Templates.Get(q.template)
				if !ok {
					return fmt.Errorf("unknown template: %s (expected one of %v)", q.template, env.Templates.Types())
				}
				query = t.Query
			}

			data, err := readInput(cmd.InOrStdin(), q.data, q.dataFile)
			if err != nil {
				return err
			}
			if data == "" && q.dataFile == "" {
				data = env.Templates.InitialData
			}

			request := models.QueryRequest{Query: query, Data: data, Inference: q.inference}
			if err := request.Validate(); err != nil {
				return err
			}

			result, err := env.RunQuery(cmd.Context(), request, format)
			if err != nil {
				return fmt.Errorf("unable to run query: %s", client.AsError(err).Display())
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), result.Result)

			return nil
		},
	}

	cmd.Flags().StringVarP(&q.query, "query", "q", "", "SPARQL query to run")
	cmd.Flags().StringVar(&q.queryFile, "query-file", "", "file holding the SPARQL query")
	cmd.Flags().StringVarP(&q.template, "template", "t", templates.TypeSelect, "query template used when no query is given")
	cmd.Flags().StringVarP(&q.data, "data", "d", "", "RDF data in Turtle syntax")
	cmd.Flags().StringVar(&q.dataFile, "data-file", "", "file holding the RDF data")
	cmd.Flags().BoolVar(&q.inference, "inference", false, "apply inference before querying")
	cmd.Flags().StringVarP(&q.format, "format", "f", models.DefaultFormat.String(), "result format (txt|json|csv|xml)")

	return cmd
}
