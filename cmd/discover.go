package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/bnema/odoo-worksheet-cli/internal/adapters/render/report"
	"github.com/bnema/odoo-worksheet-cli/internal/application"
	"github.com/bnema/odoo-worksheet-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newDiscoverCmd(app *app) *cobra.Command {
	var keywords []string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List field service models, worksheet fields and modules on the server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, _, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer closeSession(app, sess)

			if len(keywords) == 0 {
				keywords = application.DefaultDiscoveryKeywords
			}
			var discovery domain.DiscoveryReport
			fetch := func(ctx context.Context, step func(string)) error {
				var fetchErr error
				discovery, fetchErr = application.NewDiscoverer(sess, app.logger).
					WithProgress(step).
					Discover(ctx, keywords)
				return fetchErr
			}

			if app.spinner && !jsonOutput {
				err = runFetchSpinner(cmd.Context(), cmd.ErrOrStderr(), "Inspecting server models...", fetch)
			} else {
				err = fetch(cmd.Context(), nil)
			}
			if err != nil {
				return fmt.Errorf("discover models: %w", err)
			}

			if jsonOutput {
				return writeDiscoveryJSON(cmd.OutOrStdout(), discovery)
			}

			output, err := report.RenderDiscovery(discovery)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), output)
			return err
		},
	}

	cmd.Flags().StringSliceVarP(&keywords, "keyword", "k", nil, "Model keyword to search for (repeatable, default: fsm, field, service, ...)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")

	return cmd
}

type discoveryJSON struct {
	Keywords        []string          `json:"keywords"`
	Models          []modelJSON       `json:"models"`
	KeywordErrors   map[string]string `json:"keyword_errors,omitempty"`
	ProjectTask     bool              `json:"project_task"`
	ProjectTaskErr  string            `json:"project_task_error,omitempty"`
	WorksheetFields []labelledJSON    `json:"worksheet_fields"`
	Modules         []labelledJSON    `json:"modules"`
	ModulesErr      string            `json:"modules_error,omitempty"`
	Recommended     string            `json:"recommended_base_model"`
}

type modelJSON struct {
	Model string `json:"model"`
	Name  string `json:"name"`
}

type labelledJSON struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

func writeDiscoveryJSON(out io.Writer, discovery domain.DiscoveryReport) error {
	payload := discoveryJSON{
		Keywords:        discovery.Keywords,
		Models:          make([]modelJSON, 0, len(discovery.Models)),
		ProjectTask:     discovery.ProjectTask,
		ProjectTaskErr:  discovery.ProjectTaskErr,
		WorksheetFields: make([]labelledJSON, 0, len(discovery.WorksheetFields)),
		Modules:         make([]labelledJSON, 0, len(discovery.Modules)),
		ModulesErr:      discovery.ModulesErr,
		Recommended:     string(discovery.Recommended),
	}
	if len(discovery.KeywordErrors) > 0 {
		payload.KeywordErrors = discovery.KeywordErrors
	}
	for _, model := range discovery.Models {
		payload.Models = append(payload.Models, modelJSON{Model: model.Model, Name: model.Name})
	}
	for _, field := range discovery.WorksheetFields {
		payload.WorksheetFields = append(payload.WorksheetFields, labelledJSON{Name: field.Name, Label: field.Label})
	}
	for _, module := range discovery.Modules {
		payload.Modules = append(payload.Modules, labelledJSON{Name: module.Name, Label: module.Summary})
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		return fmt.Errorf("encode discovery report: %w", err)
	}

	return nil
}
