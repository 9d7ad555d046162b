package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/odoo-worksheet-cli/internal/adapters/render/report"
	"github.com/spf13/cobra"
)

func newLayoutsCmd(app *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "layouts",
		Short: "List the built-in form layouts and the keywords that select them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			layouts := app.catalog.List()

			if jsonOutput {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(layouts)
			}

			output, err := report.RenderLayouts(layouts)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), output)
			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")

	return cmd
}
