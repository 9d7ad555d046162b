package report

import (
	"fmt"
	"strings"

	"github.com/bnema/odoo-worksheet-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

func syncView(result domain.SyncResult, s styles) string {
	title := "Worksheet sync"
	if result.DryRun {
		title += " (dry run)"
	}

	lines := []string{
		s.title.Render(title),
		s.header.Render(fmt.Sprintf("template: %s", templateLabel(result))),
	}
	if result.Model != "" {
		lines = append(lines, s.header.Render(fmt.Sprintf("model: %s", result.Model)))
	}
	if result.RunID != "" {
		lines = append(lines, s.header.Render(fmt.Sprintf("run: %s", result.RunID)))
	}

	lines = append(lines, s.section.Render(s.detail.Render(fmt.Sprintf(
		"fields: %d total, %d created, %d skipped, %d failed",
		result.Total, result.Created, result.Skipped, result.Failed,
	))))

	for _, outcome := range result.Fields {
		if outcome.Status == domain.FieldStatusFailed {
			lines = append(lines, "  "+s.failed.Render(markFailed)+" "+outcome.Name+": "+errText(outcome.Err))
		}
		if outcome.DefaultErr != nil {
			lines = append(lines, "  "+s.warning.Render("!")+" "+outcome.Name+": default not set: "+outcome.DefaultErr.Error())
		}
	}

	lines = append(lines, s.section.Render(viewLine(result.View, s)))
	if len(result.UnresolvedLayoutFields) > 0 {
		lines = append(lines, s.warning.Render("layout references missing fields: "+strings.Join(result.UnresolvedLayoutFields, ", ")))
	}

	if result.Success {
		lines = append(lines, s.section.Render(s.ok.Render("result: success")))
	} else {
		lines = append(lines, s.section.Render(s.failed.Render("result: failed")))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func templateLabel(result domain.SyncResult) string {
	if result.TemplateID == 0 {
		return result.TemplateName
	}

	return fmt.Sprintf("%s (ID %d)", result.TemplateName, result.TemplateID)
}

func viewLine(view domain.ViewOutcome, s styles) string {
	name := view.Name
	if name == "" {
		name = "form view"
	}

	switch view.Action {
	case domain.ViewActionCreated, domain.ViewActionUpdated:
		line := fmt.Sprintf("view: %s %s (ID %d", view.Action, name, view.ID)
		if view.LayoutKey != "" {
			line += ", layout " + view.LayoutKey
		}
		return s.ok.Render(markCreated) + " " + line + ")"
	case domain.ViewActionFailed:
		return s.failed.Render(markFailed) + " view: " + name + ": " + errText(view.Err)
	default:
		return s.skipped.Render(markSkipped) + " view: not attempted"
	}
}

func discoveryView(report domain.DiscoveryReport, s styles) string {
	lines := []string{
		s.title.Render("Field service discovery"),
		s.header.Render("keywords: " + strings.Join(report.Keywords, ", ")),
	}

	models := []string{s.key.Render(fmt.Sprintf("models (%d)", len(report.Models)))}
	if len(report.Models) == 0 {
		models = append(models, s.empty.Render("  no matching models"))
	}
	for _, model := range report.Models {
		models = append(models, fmt.Sprintf("  %s %s", s.ok.Render(markCreated), modelLabel(model)))
	}
	for _, keyword := range report.Keywords {
		if message, ok := report.KeywordErrors[keyword]; ok {
			models = append(models, fmt.Sprintf("  %s %s: %s", s.failed.Render(markFailed), keyword, message))
		}
	}
	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, models...)))

	task := []string{s.key.Render("project.task")}
	switch {
	case report.ProjectTaskErr != "":
		task = append(task, fmt.Sprintf("  %s %s", s.failed.Render(markFailed), report.ProjectTaskErr))
	case !report.ProjectTask:
		task = append(task, s.empty.Render("  not installed"))
	case len(report.WorksheetFields) == 0:
		task = append(task, s.empty.Render("  no worksheet fields"))
	default:
		for _, field := range report.WorksheetFields {
			task = append(task, fmt.Sprintf("  %s %s", s.ok.Render(markCreated), labelled(field.Name, field.Label)))
		}
	}
	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, task...)))

	modules := []string{s.key.Render(fmt.Sprintf("installed modules (%d)", len(report.Modules)))}
	switch {
	case report.ModulesErr != "":
		modules = append(modules, fmt.Sprintf("  %s %s", s.failed.Render(markFailed), report.ModulesErr))
	case len(report.Modules) == 0:
		modules = append(modules, s.empty.Render("  none"))
	default:
		for _, module := range report.Modules {
			modules = append(modules, fmt.Sprintf("  %s %s", s.ok.Render(markCreated), labelled(module.Name, module.Summary)))
		}
	}
	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, modules...)))

	lines = append(lines, s.section.Render(recommendation(report.Recommended, s)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func recommendation(base domain.BaseModel, s styles) string {
	switch base {
	case domain.BaseModelFSMWorksheet:
		return s.ok.Render("recommended base model: fsm.worksheet (Field Service worksheets)")
	case domain.BaseModelProjectTask:
		return s.ok.Render("recommended base model: project.task (extend tasks with custom fields)")
	default:
		return s.warning.Render("no field service model found: install Field Service or Project first")
	}
}

func layoutsView(layouts []domain.Layout, s styles) string {
	lines := []string{s.title.Render(fmt.Sprintf("Layouts (%d)", len(layouts)))}
	if len(layouts) == 0 {
		lines = append(lines, s.empty.Render("No layouts available."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, layout := range layouts {
		entry := []string{s.key.Render(layout.Key)}
		if layout.Title != "" {
			entry = append(entry, s.detail.Render("  title: "+layout.Title))
		}
		if len(layout.Match) > 0 {
			entry = append(entry, s.detail.Render("  match: "+strings.Join(layout.Match, ", ")))
		}
		entry = append(entry, s.header.Render(fmt.Sprintf("  %d sections, %d fields", len(layout.Sections), len(layout.FieldNames()))))
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, entry...)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func modelLabel(model domain.ModelInfo) string {
	return labelled(model.Model, model.Name)
}

func labelled(name string, label string) string {
	if strings.TrimSpace(label) == "" {
		return name
	}

	return fmt.Sprintf("%s (%s)", name, label)
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}

	return err.Error()
}
