package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newTemplatesCommand(logger *zap.SugaredLogger, o *options) *cobra.Command {
	var show string
	var data bool

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List query templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := o.env(logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			switch {
			case data:
				_, _ = fmt.Fprintln(out, env.Templates.InitialData)
			case show != "":
				t, ok := env.Templates.Get(show)
				if !ok {
					return fmt.Errorf("unknown template: %s (expected one of %v)", show, env.Templates.Types())
				}
				_, _ = fmt.Fprintln(out, t.Query)
			default:
				tw := table.NewWriter()
				tw.SetOutputMirror(out)
				tw.SetStyle(table.StyleLight)
				tw.AppendHeader(table.Row{"Type", "Label"})
				for _, t := range env.Templates.Templates {
					tw.AppendRow(table.Row{t.Type, t.Label})
				}
				tw.Render()
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&show, "show", "", "print the query of the given template")
	cmd.Flags().BoolVar(&data, "data", false, "print the sample data set")

	return cmd
}
