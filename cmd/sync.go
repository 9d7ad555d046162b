package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bnema/odoo-worksheet-cli/internal/adapters/remote/dryrun"
	"github.com/bnema/odoo-worksheet-cli/internal/adapters/render/report"
	"github.com/bnema/odoo-worksheet-cli/internal/application"
	"github.com/bnema/odoo-worksheet-cli/internal/domain"
	"github.com/bnema/odoo-worksheet-cli/internal/ports"
	"github.com/spf13/cobra"
)

var errSyncFailed = errors.New("worksheet sync failed")

type syncOptions struct {
	templatePath string
	dryRun       bool
	jsonOutput   bool
	quiet        bool
}

func newSyncCmd(app *app) *cobra.Command {
	var opts syncOptions

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Create missing worksheet fields and write the template form view",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, app, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.templatePath, "template", "t", "", "Template document (default: template_file from config)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Read from the server but only plan create/write calls")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the run result as JSON")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Only print the final summary")

	return cmd
}

func runSync(cmd *cobra.Command, app *app, opts syncOptions) error {
	settings, err := app.loadSettings()
	if err != nil {
		return err
	}
	path, err := settings.TemplatePath(opts.templatePath)
	if err != nil {
		return err
	}
	tmpl, err := app.loader.LoadFile(path)
	if err != nil {
		return err
	}

	sess, err := app.connectWith(cmd.Context(), settings)
	if err != nil {
		return err
	}
	defer closeSession(app, sess)

	var remote ports.RemoteCaller = sess
	var planner *dryrun.Caller
	if opts.dryRun {
		planner = dryrun.New(sess, app.logger)
		remote = planner
	}

	out := cmd.OutOrStdout()
	synchronizer := application.NewSynchronizer(remote, app.catalog, app.renderer, app.clock, app.logger)
	if !opts.jsonOutput && !opts.quiet {
		synchronizer = synchronizer.WithProgress(report.NewProgressPrinter(out))
	}

	result, runErr := synchronizer.Run(cmd.Context(), tmpl)
	result.DryRun = opts.dryRun

	if opts.jsonOutput {
		if err := writeSyncJSON(out, result, planner); err != nil {
			return err
		}
	} else {
		if err := writeSyncReport(out, result, planner, opts.quiet); err != nil {
			return err
		}
	}

	if runErr != nil {
		return fmt.Errorf("%w: %w", errSyncFailed, runErr)
	}

	return nil
}

func writeSyncReport(out io.Writer, result domain.SyncResult, planner *dryrun.Caller, quiet bool) error {
	summary, err := report.RenderSync(result)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, summary)

	if planner != nil {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "planned operations (%d):\n", len(planner.Planned()))
		for _, op := range planner.Planned() {
			fmt.Fprintf(out, "  %s.%s%s\n", op.Model, op.Method, plannedSuffix(op))
		}
	}

	if quiet || !result.Success || result.DryRun {
		return nil
	}

	notes, err := report.RenderNotes(result, report.NotesOptions{})
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, notes)
	return err
}

func plannedSuffix(op dryrun.Operation) string {
	if op.PlannedID != 0 {
		return fmt.Sprintf(" -> id %d", op.PlannedID)
	}

	return ""
}

type syncJSON struct {
	RunID                  string            `json:"run_id"`
	Template               string            `json:"template"`
	TemplateID             int64             `json:"template_id,omitempty"`
	Model                  string            `json:"model,omitempty"`
	Total                  int               `json:"total"`
	Created                int               `json:"created"`
	Skipped                int               `json:"skipped"`
	Failed                 int               `json:"failed"`
	Fields                 []fieldJSON       `json:"fields"`
	View                   viewJSON          `json:"view"`
	UnresolvedLayoutFields []string          `json:"unresolved_layout_fields,omitempty"`
	DryRun                 bool              `json:"dry_run"`
	Planned                []plannedCallJSON `json:"planned,omitempty"`
	StartedAt              time.Time         `json:"started_at"`
	FinishedAt             time.Time         `json:"finished_at"`
	Success                bool              `json:"success"`
}

type fieldJSON struct {
	Name         string `json:"name"`
	Status       string `json:"status"`
	FieldID      int64  `json:"field_id,omitempty"`
	Error        string `json:"error,omitempty"`
	DefaultError string `json:"default_error,omitempty"`
}

type viewJSON struct {
	Name   string `json:"name,omitempty"`
	ID     int64  `json:"id,omitempty"`
	Action string `json:"action"`
	Layout string `json:"layout,omitempty"`
	Error  string `json:"error,omitempty"`
}

type plannedCallJSON struct {
	Model     string `json:"model"`
	Method    string `json:"method"`
	PlannedID int64  `json:"planned_id,omitempty"`
}

func writeSyncJSON(out io.Writer, result domain.SyncResult, planner *dryrun.Caller) error {
	payload := syncJSON{
		RunID:                  result.RunID,
		Template:               result.TemplateName,
		TemplateID:             result.TemplateID,
		Model:                  result.Model,
		Total:                  result.Total,
		Created:                result.Created,
		Skipped:                result.Skipped,
		Failed:                 result.Failed,
		Fields:                 make([]fieldJSON, 0, len(result.Fields)),
		UnresolvedLayoutFields: result.UnresolvedLayoutFields,
		DryRun:                 result.DryRun,
		StartedAt:              result.StartedAt,
		FinishedAt:             result.FinishedAt,
		Success:                result.Success,
		View: viewJSON{
			Name:   result.View.Name,
			ID:     result.View.ID,
			Action: string(result.View.Action),
			Layout: result.View.LayoutKey,
			Error:  errString(result.View.Err),
		},
	}
	for _, field := range result.Fields {
		payload.Fields = append(payload.Fields, fieldJSON{
			Name:         field.Name,
			Status:       string(field.Status),
			FieldID:      field.FieldID,
			Error:        errString(field.Err),
			DefaultError: errString(field.DefaultErr),
		})
	}
	if planner != nil {
		for _, op := range planner.Planned() {
			payload.Planned = append(payload.Planned, plannedCallJSON{Model: op.Model, Method: op.Method, PlannedID: op.PlannedID})
		}
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		return fmt.Errorf("encode sync result: %w", err)
	}

	return nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}
