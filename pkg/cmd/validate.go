package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hello-sparql/explorer/pkg/client"
	"github.com/hello-sparql/explorer/pkg/models"
)

func newValidateCommand(logger *zap.SugaredLogger, o *options) *cobra.Command {
	var data, dataFile, shapes, shapesFile, format string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate RDF data against SHACL shapes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := models.ParseFormat(format)
			if err != nil {
				return err
			}

			if err := checkStdin(map[string]string{"data-file": dataFile, "shapes-file": shapesFile}); err != nil {
				return err
			}

			env, err := o.env(logger)
			if err != nil {
				return err
			}

			request := models.ShapesRequest{}
			if request.Data, err = readInput(cmd.InOrStdin(), data, dataFile); err != nil {
				return err
			}
			if request.Shapes, err = readInput(cmd.InOrStdin(), shapes, shapesFile); err != nil {
				return err
			}
			if err := request.Validate(); err != nil {
				return err
			}

			report, err := env.Client.ValidateShapes(cmd.Context(), request, f)
			if err != nil {
				return fmt.Errorf("unable to validate shapes: %s", client.AsError(err).Display())
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), report)

			return nil
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "RDF data in Turtle syntax")
	cmd.Flags().StringVar(&dataFile, "data-file", "", "file holding the RDF data")
	cmd.Flags().StringVarP(&shapes, "shapes", "s", "", "SHACL shapes in Turtle syntax")
	cmd.Flags().StringVar(&shapesFile, "shapes-file", "", "file holding the SHACL shapes")
	cmd.Flags().StringVarP(&format, "format", "f", models.DefaultFormat.String(), "report format (txt|json|csv|xml)")

	return cmd
}
