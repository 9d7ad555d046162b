package cmd

import (
	"fmt"

	"github.com/bnema/odoo-worksheet-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newRenderCmd(app *app) *cobra.Command {
	var templatePath string
	var model string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the form view arch that sync would write, without connecting",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tmpl, err := app.loader.LoadFile(templatePath)
			if err != nil {
				return err
			}

			layout, err := app.catalog.Select(tmpl)
			if err != nil {
				return fmt.Errorf("select layout: %w", err)
			}

			arch, err := app.renderer.Render(tmpl, layout)
			if err != nil {
				return fmt.Errorf("render layout %s: %w", layout.Key, err)
			}

			if model != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "view %s, layout %s\n", domain.LayoutName(model), layout.Key)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), arch)
			return err
		},
	}

	cmd.Flags().StringVarP(&templatePath, "template", "t", "", "Template document (.json, .yaml)")
	cmd.Flags().StringVar(&model, "model", "", "Target model, used to print the view name")
	_ = cmd.MarkFlagRequired("template")

	return cmd
}
