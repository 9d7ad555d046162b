package application

import (
	"context"
	"fmt"

	"github.com/bnema/odoo-worksheet-cli/internal/domain"
	"github.com/bnema/odoo-worksheet-cli/internal/ports"
	"go.uber.org/zap"
)

var DefaultDiscoveryKeywords = []string{
	"fsm",
	"field",
	"service",
	"worksheet",
	"project.task",
	"maintenance",
	"helpdesk",
}

const worksheetFieldLimit = 10

// Discoverer inspects which field service models and modules an ERP
// database carries. Individual query failures are recorded in the report.
type Discoverer struct {
	remote ports.RemoteCaller
	logger *zap.Logger
	step   func(string)
}

func NewDiscoverer(remote ports.RemoteCaller, logger *zap.Logger) *Discoverer {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Discoverer{remote: remote, logger: logger, step: func(string) {}}
}

// WithProgress reports a short description of each query before it is sent.
func (d *Discoverer) WithProgress(step func(string)) *Discoverer {
	if step == nil {
		step = func(string) {}
	}
	d.step = step
	return d
}

func (d *Discoverer) Discover(ctx context.Context, keywords []string) (domain.DiscoveryReport, error) {
	if len(keywords) == 0 {
		keywords = DefaultDiscoveryKeywords
	}

	report := domain.DiscoveryReport{
		Keywords:      append([]string(nil), keywords...),
		KeywordErrors: map[string]string{},
	}

	seen := map[string]struct{}{}
	for i, keyword := range keywords {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		d.step(fmt.Sprintf("Searching models matching %q (%d/%d)...", keyword, i+1, len(keywords)))
		models, err := d.modelsMatching(ctx, keyword)
		if err != nil {
			report.KeywordErrors[keyword] = err.Error()
			d.logger.Warn("model search failed", zap.String("keyword", keyword), zap.Error(err))
			continue
		}
		for _, model := range models {
			if _, ok := seen[model.Model]; ok {
				continue
			}
			seen[model.Model] = struct{}{}
			report.Models = append(report.Models, model)
		}
	}

	d.step("Inspecting project.task worksheet fields...")
	if err := d.inspectProjectTask(ctx, &report); err != nil {
		report.ProjectTaskErr = err.Error()
		d.logger.Warn("project.task inspection failed", zap.Error(err))
	}

	d.step("Listing installed field service modules...")
	modules, err := d.installedModules(ctx)
	if err != nil {
		report.ModulesErr = err.Error()
		d.logger.Warn("module listing failed", zap.Error(err))
	}
	report.Modules = modules

	if err := ctx.Err(); err != nil {
		return report, err
	}

	report.Recommended = report.Recommend()
	d.logger.Debug("discovery finished",
		zap.Int("models", len(report.Models)),
		zap.Int("modules", len(report.Modules)),
		zap.String("recommended", string(report.Recommended)),
	)

	return report, nil
}

func (d *Discoverer) modelsMatching(ctx context.Context, keyword string) ([]domain.ModelInfo, error) {
	reply, err := d.remote.Execute(ctx, domain.ModelModel, "search_read",
		[]any{[]any{condition("model", "ilike", keyword)}},
		map[string]any{"fields": []any{"model", "name"}})
	if err != nil {
		return nil, fmt.Errorf("search models matching %q: %w", keyword, err)
	}
	rows, err := decodeRows(reply)
	if err != nil {
		return nil, fmt.Errorf("search models matching %q: %w", keyword, err)
	}

	models := make([]domain.ModelInfo, 0, len(rows))
	for _, row := range rows {
		models = append(models, domain.ModelInfo{Model: stringValue(row, "model"), Name: stringValue(row, "name")})
	}

	return models, nil
}

func (d *Discoverer) inspectProjectTask(ctx context.Context, report *domain.DiscoveryReport) error {
	reply, err := d.remote.Execute(ctx, domain.ModelModel, "search",
		[]any{[]any{condition("model", "=", string(domain.BaseModelProjectTask))}}, nil)
	if err != nil {
		return fmt.Errorf("search project.task: %w", err)
	}
	ids, err := decodeIDs(reply)
	if err != nil {
		return fmt.Errorf("search project.task: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	report.ProjectTask = true

	reply, err = d.remote.Execute(ctx, domain.FieldModel, "search_read",
		[]any{[]any{
			condition("model", "=", string(domain.BaseModelProjectTask)),
			condition("name", "ilike", "worksheet"),
		}},
		map[string]any{"fields": []any{"name", "field_description"}, "limit": worksheetFieldLimit})
	if err != nil {
		return fmt.Errorf("list project.task worksheet fields: %w", err)
	}
	rows, err := decodeRows(reply)
	if err != nil {
		return fmt.Errorf("list project.task worksheet fields: %w", err)
	}
	for _, row := range rows {
		report.WorksheetFields = append(report.WorksheetFields, domain.FieldInfo{
			Name:  stringValue(row, "name"),
			Label: stringValue(row, "field_description"),
		})
	}

	return nil
}

func (d *Discoverer) installedModules(ctx context.Context) ([]domain.ModuleInfo, error) {
	reply, err := d.remote.Execute(ctx, domain.ModuleModel, "search_read",
		[]any{[]any{condition("name", "ilike", "field"), condition("state", "=", "installed")}},
		map[string]any{"fields": []any{"name", "shortdesc"}})
	if err != nil {
		return nil, fmt.Errorf("list installed modules: %w", err)
	}
	rows, err := decodeRows(reply)
	if err != nil {
		return nil, fmt.Errorf("list installed modules: %w", err)
	}

	modules := make([]domain.ModuleInfo, 0, len(rows))
	for _, row := range rows {
		modules = append(modules, domain.ModuleInfo{Name: stringValue(row, "name"), Summary: stringValue(row, "shortdesc")})
	}

	return modules, nil
}
