package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/odoo-worksheet-cli/internal/domain"
	"github.com/bnema/odoo-worksheet-cli/internal/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Progress receives step notifications while a run is in flight.
type Progress interface {
	TemplateResolved(ref domain.TemplateRef)
	FieldDone(outcome domain.FieldOutcome)
	ViewDone(outcome domain.ViewOutcome)
}

type nopProgress struct{}

func (nopProgress) TemplateResolved(domain.TemplateRef) {}
func (nopProgress) FieldDone(domain.FieldOutcome)       {}
func (nopProgress) ViewDone(domain.ViewOutcome)         {}

// Synchronizer brings the model behind a worksheet template in line with a
// template document. Calls are issued sequentially on the caller's goroutine.
type Synchronizer struct {
	remote   ports.RemoteCaller
	selector ports.LayoutSelector
	renderer ports.ArchRenderer
	clock    ports.Clock
	logger   *zap.Logger
	progress Progress
	newRunID func() string
}

func NewSynchronizer(remote ports.RemoteCaller, selector ports.LayoutSelector, renderer ports.ArchRenderer, clock ports.Clock, logger *zap.Logger) *Synchronizer {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Synchronizer{
		remote:   remote,
		selector: selector,
		renderer: renderer,
		clock:    clock,
		logger:   logger,
		progress: nopProgress{},
		newRunID: uuid.NewString,
	}
}

func (s *Synchronizer) WithProgress(progress Progress) *Synchronizer {
	if progress == nil {
		progress = nopProgress{}
	}
	s.progress = progress
	return s
}

func (s *Synchronizer) ResolveTemplate(ctx context.Context, name string) (domain.TemplateRef, error) {
	ref := domain.TemplateRef{Name: name}

	reply, err := s.remote.Execute(ctx, domain.TemplateModel, "search",
		[]any{[]any{condition("name", "=", name)}}, map[string]any{"limit": 2})
	if err != nil {
		return ref, fmt.Errorf("search template %q: %w", name, err)
	}
	ids, err := decodeIDs(reply)
	if err != nil {
		return ref, fmt.Errorf("search template %q: %w", name, err)
	}
	switch {
	case len(ids) == 0:
		return ref, fmt.Errorf("%w: %q", domain.ErrTemplateNotFound, name)
	case len(ids) > 1:
		return ref, fmt.Errorf("%w: %q matches more than one record", domain.ErrTemplateAmbiguous, name)
	}
	ref.ID = ids[0]

	reply, err = s.remote.Execute(ctx, domain.TemplateModel, "read",
		[]any{[]any{ref.ID}, []any{"name", "model_id"}}, nil)
	if err != nil {
		return ref, fmt.Errorf("read template %d: %w", ref.ID, err)
	}
	rows, err := decodeRows(reply)
	if err != nil || len(rows) == 0 {
		return ref, fmt.Errorf("%w: template %q has no readable record", domain.ErrModelNotFound, name)
	}
	modelID, ok := decodeMany2One(rows[0]["model_id"])
	if !ok {
		return ref, fmt.Errorf("%w: template %q is not linked to a model", domain.ErrModelNotFound, name)
	}

	reply, err = s.remote.Execute(ctx, domain.ModelModel, "read",
		[]any{[]any{modelID}, []any{"model", "name"}}, nil)
	if err != nil {
		return ref, fmt.Errorf("read model %d: %w", modelID, err)
	}
	rows, err = decodeRows(reply)
	if err != nil || len(rows) == 0 {
		return ref, fmt.Errorf("%w: model %d of template %q", domain.ErrModelNotFound, modelID, name)
	}
	model, _ := rows[0]["model"].(string)
	if strings.TrimSpace(model) == "" {
		return ref, fmt.Errorf("%w: model %d of template %q has no technical name", domain.ErrModelNotFound, modelID, name)
	}
	ref.Model = model

	return ref, nil
}

// EnsureField creates one field on model unless it already exists. It always
// returns an outcome; failures are carried in the outcome.
func (s *Synchronizer) EnsureField(ctx context.Context, model string, spec domain.FieldSpec) domain.FieldOutcome {
	outcome := domain.FieldOutcome{Name: spec.Name}
	logger := s.logger.With(zap.String("model", model), zap.String("field", spec.Name))
	fail := func(err error) domain.FieldOutcome {
		outcome.Status = domain.FieldStatusFailed
		outcome.Err = err
		logger.Warn("field not created", zap.Error(err))
		return outcome
	}

	reply, err := s.remote.Execute(ctx, domain.FieldModel, "search",
		[]any{[]any{condition("model", "=", model), condition("name", "=", spec.Name)}}, nil)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", domain.ErrFieldCheckFailed, err))
	}
	existing, err := decodeIDs(reply)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", domain.ErrFieldCheckFailed, err))
	}
	if len(existing) > 0 {
		outcome.Status = domain.FieldStatusSkipped
		outcome.FieldID = existing[0]
		logger.Debug("field already exists", zap.Int64("field_id", outcome.FieldID))
		return outcome
	}

	ttype, err := spec.Type.RemoteType()
	if err != nil {
		return fail(err)
	}

	reply, err = s.remote.Execute(ctx, domain.ModelModel, "search",
		[]any{[]any{condition("model", "=", model)}}, nil)
	if err != nil {
		return fail(fmt.Errorf("look up model %q: %w", model, err))
	}
	modelIDs, err := decodeIDs(reply)
	if err != nil {
		return fail(fmt.Errorf("look up model %q: %w", model, err))
	}
	if len(modelIDs) == 0 {
		return fail(fmt.Errorf("%w: %q", domain.ErrModelNotFound, model))
	}

	label := spec.Label
	if strings.TrimSpace(label) == "" {
		label = spec.Name
	}
	values := map[string]any{
		"name":              spec.Name,
		"field_description": label,
		"model_id":          modelIDs[0],
		"ttype":             ttype,
		"state":             "manual",
		"required":          spec.Required,
		"readonly":          spec.ReadOnly,
	}
	if ttype == string(domain.FieldTypeSelection) && len(spec.Selection) > 0 {
		values["selection"] = spec.SelectionLiteral()
	}

	reply, err = s.remote.Execute(ctx, domain.FieldModel, "create", []any{values}, nil)
	if err != nil {
		return fail(fmt.Errorf("create field: %w", err))
	}
	fieldID, err := toInt64(reply)
	if err != nil {
		return fail(fmt.Errorf("create field: %w", err))
	}
	outcome.Status = domain.FieldStatusCreated
	outcome.FieldID = fieldID
	logger.Debug("field created", zap.Int64("field_id", fieldID), zap.String("ttype", ttype))

	if spec.HasDefault() {
		if _, err := s.remote.Execute(ctx, domain.DefaultModel, "set",
			[]any{model, spec.Name, spec.Default}, nil); err != nil {
			outcome.DefaultErr = fmt.Errorf("set default: %w", err)
			logger.Warn("default value not registered", zap.Error(err))
		}
	}

	return outcome
}

func (s *Synchronizer) SyncLayout(ctx context.Context, ref domain.TemplateRef, tmpl domain.Template) domain.ViewOutcome {
	outcome, _ := s.syncLayout(ctx, ref, tmpl)
	return outcome
}

func (s *Synchronizer) syncLayout(ctx context.Context, ref domain.TemplateRef, tmpl domain.Template) (domain.ViewOutcome, domain.Layout) {
	outcome := domain.ViewOutcome{Name: domain.LayoutName(ref.Model), Action: domain.ViewActionNotAttempted}
	logger := s.logger.With(zap.String("model", ref.Model), zap.String("view", outcome.Name))
	fail := func(err error) domain.ViewOutcome {
		outcome.Action = domain.ViewActionFailed
		outcome.Err = err
		logger.Warn("view not synchronized", zap.Error(err))
		return outcome
	}

	layout, err := s.selector.Select(tmpl)
	if err != nil {
		return fail(fmt.Errorf("select layout: %w", err)), layout
	}
	outcome.LayoutKey = layout.Key

	arch, err := s.renderer.Render(tmpl, layout)
	if err != nil {
		return fail(fmt.Errorf("render arch: %w", err)), layout
	}

	reply, err := s.remote.Execute(ctx, domain.ViewModel, "search",
		[]any{[]any{condition("name", "=", outcome.Name), condition("model", "=", ref.Model)}}, nil)
	if err != nil {
		return fail(fmt.Errorf("search view: %w", err)), layout
	}
	ids, err := decodeIDs(reply)
	if err != nil {
		return fail(fmt.Errorf("search view: %w", err)), layout
	}

	if len(ids) > 0 {
		if len(ids) > 1 {
			logger.Warn("several views share the layout name, updating the first", zap.Int("matches", len(ids)))
		}
		if _, err := s.remote.Execute(ctx, domain.ViewModel, "write",
			[]any{[]any{ids[0]}, map[string]any{"arch": arch}}, nil); err != nil {
			return fail(fmt.Errorf("update view %d: %w", ids[0], err)), layout
		}
		outcome.ID = ids[0]
		outcome.Action = domain.ViewActionUpdated
		logger.Debug("view updated", zap.Int64("view_id", outcome.ID))
		return outcome, layout
	}

	reply, err = s.remote.Execute(ctx, domain.ViewModel, "create", []any{map[string]any{
		"name":     outcome.Name,
		"model":    ref.Model,
		"type":     "form",
		"arch":     arch,
		"priority": 1,
	}}, nil)
	if err != nil {
		return fail(fmt.Errorf("create view: %w", err)), layout
	}
	viewID, err := toInt64(reply)
	if err != nil {
		return fail(fmt.Errorf("create view: %w", err)), layout
	}
	outcome.ID = viewID
	outcome.Action = domain.ViewActionCreated
	logger.Debug("view created", zap.Int64("view_id", outcome.ID))

	return outcome, layout
}

// Run resolves the template, ensures every field and then writes the form
// view. The view step runs even when some fields failed.
func (s *Synchronizer) Run(ctx context.Context, tmpl domain.Template) (domain.SyncResult, error) {
	result := domain.SyncResult{
		RunID:        s.newRunID(),
		TemplateName: tmpl.Name,
		Total:        len(tmpl.Fields),
		View:         domain.ViewOutcome{Action: domain.ViewActionNotAttempted},
		StartedAt:    s.clock.Now(),
	}
	logger := s.logger.With(zap.String("run_id", result.RunID), zap.String("template", tmpl.Name))
	logger.Info("sync started", zap.Int("fields", result.Total))

	ref, err := s.ResolveTemplate(ctx, tmpl.Name)
	if err != nil {
		result.FinishedAt = s.clock.Now()
		logger.Error("template resolution failed", zap.Error(err))
		return result, fmt.Errorf("resolve template: %w", err)
	}
	result.TemplateID = ref.ID
	result.Model = ref.Model
	result.View.Name = domain.LayoutName(ref.Model)
	s.progress.TemplateResolved(ref)

	for _, spec := range tmpl.Fields {
		outcome := s.EnsureField(ctx, ref.Model, spec)
		result.Record(outcome)
		s.progress.FieldDone(outcome)
	}

	view, layout := s.syncLayout(ctx, ref, tmpl)
	result.View = view
	result.UnresolvedLayoutFields = unresolvedFields(layout, result.FailedFields)
	result.Success = view.Completed()
	result.FinishedAt = s.clock.Now()
	s.progress.ViewDone(view)

	logger.Info("sync finished",
		zap.String("model", result.Model),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
		zap.String("view_action", string(view.Action)),
		zap.Bool("success", result.Success),
	)

	if !result.Success {
		return result, fmt.Errorf("%w: %w", domain.ErrLayoutSyncFailed, view.Err)
	}

	return result, nil
}

func unresolvedFields(layout domain.Layout, failed []string) []string {
	if len(failed) == 0 {
		return nil
	}

	failedSet := make(map[string]struct{}, len(failed))
	for _, name := range failed {
		failedSet[name] = struct{}{}
	}

	var unresolved []string
	for _, name := range layout.FieldNames() {
		if _, ok := failedSet[name]; ok {
			unresolved = append(unresolved, name)
		}
	}

	return unresolved
}
