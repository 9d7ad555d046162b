package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bnema/odoo-worksheet-cli/internal/adapters/remote/memory"
	"github.com/bnema/odoo-worksheet-cli/internal/domain"
	"github.com/bnema/odoo-worksheet-cli/internal/ports/mocks"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

// fieldLayout lays out every declared field in a single group.
type fieldLayout struct{}

func (fieldLayout) Select(tmpl domain.Template) (domain.Layout, error) {
	items := make([]domain.Item, 0, len(tmpl.Fields))
	for _, field := range tmpl.Fields {
		items = append(items, domain.Item{Field: field.Name})
	}

	return domain.Layout{
		Key:      "generic",
		Title:    tmpl.Name,
		Sections: []domain.Section{{Groups: []domain.Group{{Items: items}}}},
	}, nil
}

type joinRenderer struct{}

func (joinRenderer) Render(tmpl domain.Template, layout domain.Layout) (string, error) {
	return fmt.Sprintf("<form string=%q>%s</form>", tmpl.Name, strings.Join(layout.FieldNames(), ",")), nil
}

type recordingProgress struct {
	events []string
}

func (p *recordingProgress) TemplateResolved(ref domain.TemplateRef) {
	p.events = append(p.events, "template:"+ref.Model)
}

func (p *recordingProgress) FieldDone(outcome domain.FieldOutcome) {
	p.events = append(p.events, "field:"+outcome.Name+":"+string(outcome.Status))
}

func (p *recordingProgress) ViewDone(outcome domain.ViewOutcome) {
	p.events = append(p.events, "view:"+string(outcome.Action))
}

var testStart = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func newTestSynchronizer(t *testing.T, erp *memory.ERP) *Synchronizer {
	t.Helper()

	sync := NewSynchronizer(erp, fieldLayout{}, joinRenderer{}, fixedClock{now: testStart}, zaptest.NewLogger(t))
	sync.newRunID = func() string { return "run-1" }
	return sync
}

func vibrationTemplate() domain.Template {
	return domain.Template{
		Name: "Vibration Test",
		Fields: []domain.FieldSpec{
			{Name: "x_test_objective", Label: "Test Objective", Type: domain.FieldTypeText},
		},
	}
}

func TestRunVibrationScenario(t *testing.T) {
	t.Parallel()

	erp := memory.New()
	templateID, modelID := erp.WithTemplate("Vibration Test", "x_fsm_vibration")
	sync := newTestSynchronizer(t, erp)

	result, err := sync.Run(context.Background(), vibrationTemplate())
	require.NoError(t, err)

	assert.Equal(t, "run-1", result.RunID)
	assert.Equal(t, templateID, result.TemplateID)
	assert.Equal(t, "x_fsm_vibration", result.Model)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 0, result.Failed)
	assert.True(t, result.Success)
	assert.Equal(t, testStart, result.StartedAt)
	assert.Equal(t, "view_x_fsm_vibration_form", result.View.Name)
	assert.Equal(t, domain.ViewActionCreated, result.View.Action)
	assert.Equal(t, "generic", result.View.LayoutKey)

	fields := erp.Records(domain.FieldModel)
	require.Len(t, fields, 1)
	assert.Equal(t, "x_test_objective", fields[0]["name"])
	assert.Equal(t, "Test Objective", fields[0]["field_description"])
	assert.Equal(t, "text", fields[0]["ttype"])
	assert.Equal(t, "manual", fields[0]["state"])
	assert.Equal(t, modelID, fields[0]["model_id"])
	assert.Equal(t, false, fields[0]["required"])

	views := erp.Records(domain.ViewModel)
	require.Len(t, views, 1)
	assert.Equal(t, "view_x_fsm_vibration_form", views[0]["name"])
	assert.Equal(t, "x_fsm_vibration", views[0]["model"])
	assert.Equal(t, "form", views[0]["type"])
	assert.Equal(t, 1, views[0]["priority"])
	assert.Equal(t, `<form string="Vibration Test">x_test_objective</form>`, views[0]["arch"])
}

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()

	erp := memory.New()
	erp.WithTemplate("Vibration Test", "x_fsm_vibration")
	sync := newTestSynchronizer(t, erp)
	tmpl := vibrationTemplate()
	tmpl.Fields = append(tmpl.Fields, domain.FieldSpec{Name: "x_rpm", Label: "RPM", Type: domain.FieldTypeInteger})

	first, err := sync.Run(context.Background(), tmpl)
	require.NoError(t, err)
	viewsAfterFirst := erp.Records(domain.ViewModel)

	second, err := sync.Run(context.Background(), tmpl)
	require.NoError(t, err)

	assert.Equal(t, 2, first.Created)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 2, second.Skipped)
	assert.Equal(t, domain.ViewActionUpdated, second.View.Action)
	assert.Equal(t, first.View.ID, second.View.ID)
	assert.Len(t, erp.Records(domain.FieldModel), 2)
	assert.Len(t, erp.CallsTo(domain.FieldModel, "create"), 2)

	if diff := cmp.Diff(viewsAfterFirst, erp.Records(domain.ViewModel)); diff != "" {
		t.Fatalf("view records changed on the second run (-first +second):\n%s", diff)
	}
}

func TestRunIsolatesFieldFailures(t *testing.T) {
	t.Parallel()

	erp := memory.New()
	erp.WithTemplate("Hermeticity", "x_fsm_hermeticity")
	injected := errors.New("constraint violated")
	erp.FailWhen(func(call memory.Call) error {
		if call.Model != domain.FieldModel || call.Method != "create" {
			return nil
		}
		if values, ok := call.Args[0].(map[string]any); ok && values["name"] == "x_pressure" {
			return injected
		}
		return nil
	})
	sync := newTestSynchronizer(t, erp)
	progress := &recordingProgress{}
	sync.WithProgress(progress)

	result, err := sync.Run(context.Background(), domain.Template{
		Name: "Hermeticity",
		Fields: []domain.FieldSpec{
			{Name: "x_leak_rate", Type: domain.FieldTypeFloat},
			{Name: "x_pressure", Type: domain.FieldTypeFloat},
			{Name: "x_passed", Type: domain.FieldTypeBoolean},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{"x_pressure"}, result.FailedFields)
	assert.Equal(t, []string{"x_pressure"}, result.UnresolvedLayoutFields)
	assert.True(t, result.Success)
	require.Len(t, result.Fields, 3)
	assert.ErrorIs(t, result.Fields[1].Err, injected)
	assert.Equal(t, []string{
		"template:x_fsm_hermeticity",
		"field:x_leak_rate:created",
		"field:x_pressure:failed",
		"field:x_passed:created",
		"view:created",
	}, progress.events)
}

func TestRunShortCircuitsOnResolutionFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		seed    func(erp *memory.ERP)
		wantErr error
	}{
		{
			name:    "not found",
			seed:    func(*memory.ERP) {},
			wantErr: domain.ErrTemplateNotFound,
		},
		{
			name: "ambiguous",
			seed: func(erp *memory.ERP) {
				erp.WithTemplate("Vibration Test", "x_fsm_vibration")
				erp.WithTemplate("Vibration Test", "x_fsm_vibration_2")
			},
			wantErr: domain.ErrTemplateAmbiguous,
		},
		{
			name: "template without model",
			seed: func(erp *memory.ERP) {
				erp.Insert(domain.TemplateModel, memory.Record{"name": "Vibration Test", "model_id": false})
			},
			wantErr: domain.ErrModelNotFound,
		},
		{
			name: "dangling model",
			seed: func(erp *memory.ERP) {
				erp.Insert(domain.TemplateModel, memory.Record{"name": "Vibration Test", "model_id": []any{int64(99), "gone"}})
			},
			wantErr: domain.ErrModelNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			erp := memory.New()
			tt.seed(erp)
			sync := newTestSynchronizer(t, erp)

			result, err := sync.Run(context.Background(), vibrationTemplate())
			require.ErrorIs(t, err, tt.wantErr)
			assert.False(t, result.Success)
			assert.Equal(t, domain.ViewActionNotAttempted, result.View.Action)

			for _, call := range erp.Calls() {
				assert.NotEqual(t, domain.FieldModel, call.Model)
				assert.NotEqual(t, domain.ViewModel, call.Model)
			}
		})
	}
}

func TestRunReportsLayoutFailure(t *testing.T) {
	t.Parallel()

	erp := memory.New()
	erp.WithTemplate("Vibration Test", "x_fsm_vibration")
	selector := mocks.NewMockLayoutSelector(t)
	renderer := mocks.NewMockArchRenderer(t)
	selector.EXPECT().Select(mock.Anything).Return(domain.Layout{}, domain.ErrLayoutNotFound).Once()

	sync := NewSynchronizer(erp, selector, renderer, nil, nil)
	result, err := sync.Run(context.Background(), vibrationTemplate())

	require.ErrorIs(t, err, domain.ErrLayoutSyncFailed)
	require.ErrorIs(t, err, domain.ErrLayoutNotFound)
	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, domain.ViewActionFailed, result.View.Action)
	assert.Empty(t, erp.CallsTo(domain.ViewModel, "create"))
}

func TestSyncLayoutReportsRemoteFaults(t *testing.T) {
	t.Parallel()

	erp := memory.New()
	erp.Insert(domain.ViewModel, memory.Record{"name": "view_x_fsm_vibration_form", "model": "x_fsm_vibration", "arch": "<form/>"})
	erp.FailWhen(func(call memory.Call) error {
		if call.Method == "write" {
			return errors.New("access denied")
		}
		return nil
	})
	sync := newTestSynchronizer(t, erp)

	outcome := sync.SyncLayout(context.Background(),
		domain.TemplateRef{Name: "Vibration Test", ID: 1, Model: "x_fsm_vibration"}, vibrationTemplate())

	assert.Equal(t, domain.ViewActionFailed, outcome.Action)
	assert.False(t, outcome.Completed())
	assert.ErrorContains(t, outcome.Err, "access denied")
	assert.Equal(t, "<form/>", erp.Records(domain.ViewModel)[0]["arch"])
}

func TestSyncLayoutUpdatesFirstOfDuplicateViews(t *testing.T) {
	t.Parallel()

	erp := memory.New()
	firstID := erp.Insert(domain.ViewModel, memory.Record{"name": "view_x_a_form", "model": "x_a", "arch": "<form/>"})
	erp.Insert(domain.ViewModel, memory.Record{"name": "view_x_a_form", "model": "x_a", "arch": "<form/>"})
	core, logs := observer.New(zapcore.WarnLevel)
	sync := NewSynchronizer(erp, fieldLayout{}, joinRenderer{}, nil, zap.New(core))

	outcome := sync.SyncLayout(context.Background(), domain.TemplateRef{Name: "A", Model: "x_a"}, domain.Template{Name: "A"})

	assert.Equal(t, domain.ViewActionUpdated, outcome.Action)
	assert.Equal(t, firstID, outcome.ID)
	assert.Equal(t, 1, logs.FilterMessageSnippet("several views").Len())
}

func TestEnsureFieldOutcomes(t *testing.T) {
	t.Parallel()

	t.Run("unknown type fails without creating", func(t *testing.T) {
		t.Parallel()

		erp := memory.New()
		erp.WithTemplate("T", "x_t")
		outcome := newTestSynchronizer(t, erp).EnsureField(context.Background(), "x_t",
			domain.FieldSpec{Name: "x_blob", Type: domain.FieldType("binary")})

		assert.Equal(t, domain.FieldStatusFailed, outcome.Status)
		assert.ErrorIs(t, outcome.Err, domain.ErrUnknownFieldType)
		assert.Empty(t, erp.CallsTo(domain.FieldModel, "create"))
	})

	t.Run("failed existence check is not treated as absent", func(t *testing.T) {
		t.Parallel()

		erp := memory.New()
		erp.WithTemplate("T", "x_t")
		erp.FailWhen(func(call memory.Call) error {
			if call.Model == domain.FieldModel && call.Method == "search" {
				return errors.New("timeout")
			}
			return nil
		})
		outcome := newTestSynchronizer(t, erp).EnsureField(context.Background(), "x_t",
			domain.FieldSpec{Name: "x_note", Type: domain.FieldTypeChar})

		assert.Equal(t, domain.FieldStatusFailed, outcome.Status)
		assert.ErrorIs(t, outcome.Err, domain.ErrFieldCheckFailed)
		assert.Empty(t, erp.CallsTo(domain.FieldModel, "create"))
	})

	t.Run("missing model", func(t *testing.T) {
		t.Parallel()

		erp := memory.New()
		outcome := newTestSynchronizer(t, erp).EnsureField(context.Background(), "x_missing",
			domain.FieldSpec{Name: "x_note", Type: domain.FieldTypeChar})

		assert.Equal(t, domain.FieldStatusFailed, outcome.Status)
		assert.ErrorIs(t, outcome.Err, domain.ErrModelNotFound)
	})

	t.Run("selection with default", func(t *testing.T) {
		t.Parallel()

		erp := memory.New()
		erp.WithTemplate("T", "x_t")
		outcome := newTestSynchronizer(t, erp).EnsureField(context.Background(), "x_t", domain.FieldSpec{
			Name:      "x_verdict",
			Label:     "Verdict",
			Type:      domain.FieldTypeSelection,
			Required:  true,
			Default:   "ok",
			Selection: []domain.SelectionOption{{Value: "ok", Label: "OK"}, {Value: "ko", Label: "Not OK"}},
		})

		require.Equal(t, domain.FieldStatusCreated, outcome.Status)
		require.NoError(t, outcome.DefaultErr)
		fields := erp.Records(domain.FieldModel)
		require.Len(t, fields, 1)
		assert.Equal(t, "[('ok', 'OK'), ('ko', 'Not OK')]", fields[0]["selection"])
		assert.Equal(t, true, fields[0]["required"])

		value, ok := erp.Default("x_t", "x_verdict")
		require.True(t, ok)
		assert.Equal(t, "ok", value)
	})

	t.Run("default failure is best effort", func(t *testing.T) {
		t.Parallel()

		erp := memory.New()
		erp.WithTemplate("T", "x_t")
		erp.FailWhen(func(call memory.Call) error {
			if call.Model == domain.DefaultModel {
				return errors.New("invalid default")
			}
			return nil
		})
		core, logs := observer.New(zapcore.WarnLevel)
		sync := NewSynchronizer(erp, fieldLayout{}, joinRenderer{}, nil, zap.New(core))

		outcome := sync.EnsureField(context.Background(), "x_t",
			domain.FieldSpec{Name: "x_count", Type: domain.FieldTypeInteger, Default: 3})

		assert.Equal(t, domain.FieldStatusCreated, outcome.Status)
		assert.ErrorContains(t, outcome.DefaultErr, "invalid default")
		assert.Equal(t, 1, logs.FilterMessage("default value not registered").Len())
	})

	t.Run("zero default is not registered", func(t *testing.T) {
		t.Parallel()

		erp := memory.New()
		erp.WithTemplate("T", "x_t")
		outcome := newTestSynchronizer(t, erp).EnsureField(context.Background(), "x_t",
			domain.FieldSpec{Name: "x_flag", Type: domain.FieldTypeBoolean, Default: false})

		assert.Equal(t, domain.FieldStatusCreated, outcome.Status)
		assert.Empty(t, erp.CallsTo(domain.DefaultModel, "set"))
	})
}

func TestResolveTemplateSendsListArguments(t *testing.T) {
	t.Parallel()

	remote := mocks.NewMockRemoteCaller(t)
	remote.EXPECT().
		Execute(mock.Anything, domain.TemplateModel, "search",
			[]any{[]any{[]any{"name", "=", "Centrifuge"}}}, map[string]any{"limit": 2}).
		Return([]any{int64(5)}, nil).Once()
	remote.EXPECT().
		Execute(mock.Anything, domain.TemplateModel, "read",
			[]any{[]any{int64(5)}, []any{"name", "model_id"}}, map[string]any(nil)).
		Return([]any{map[string]any{"id": int64(5), "name": "Centrifuge", "model_id": []any{int64(12), "Centrifuge"}}}, nil).Once()
	remote.EXPECT().
		Execute(mock.Anything, domain.ModelModel, "read",
			[]any{[]any{int64(12)}, []any{"model", "name"}}, map[string]any(nil)).
		Return([]any{map[string]any{"id": int64(12), "model": "x_fsm_centrifuge", "name": "Centrifuge"}}, nil).Once()

	sync := NewSynchronizer(remote, fieldLayout{}, joinRenderer{}, nil, nil)
	ref, err := sync.ResolveTemplate(context.Background(), "Centrifuge")

	require.NoError(t, err)
	assert.Equal(t, domain.TemplateRef{Name: "Centrifuge", ID: 5, Model: "x_fsm_centrifuge"}, ref)
}

func TestResolveTemplateWrapsRemoteErrors(t *testing.T) {
	t.Parallel()

	remote := mocks.NewMockRemoteCaller(t)
	remote.EXPECT().
		Execute(mock.Anything, domain.TemplateModel, "search", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset")).Once()

	_, err := NewSynchronizer(remote, nil, nil, nil, nil).ResolveTemplate(context.Background(), "Centrifuge")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `search template "Centrifuge": connection reset`)
}
