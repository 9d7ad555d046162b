package catalog

import (
	"testing"

	"github.com/bnema/odoo-worksheet-cli/internal/adapters/template/document"
	"github.com/bnema/odoo-worksheet-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()

	loader, err := document.NewLoader()
	require.NoError(t, err)
	catalog, err := New(loader)
	require.NoError(t, err)
	return catalog
}

func TestBuiltinLayouts(t *testing.T) {
	t.Parallel()

	catalog := newTestCatalog(t)

	keys := make([]string, 0)
	for _, layout := range catalog.List() {
		keys = append(keys, layout.Key)
		assert.NotEmpty(t, layout.Match, layout.Key)
		assert.NoError(t, layout.Validate(), layout.Key)
	}
	assert.Equal(t, []string{
		"bearing_temperature_test",
		"centrifuge_revision",
		"hermeticity_test",
		"vibration_test",
	}, keys)

	centrifuge, err := catalog.Get("centrifuge_revision")
	require.NoError(t, err)
	assert.Equal(t, "Electrical & Mechanical Inspection", centrifuge.Subtitle)
	assert.Contains(t, centrifuge.FieldNames(), "x_overall_result")
	last := centrifuge.Sections[len(centrifuge.Sections)-1]
	assert.True(t, last.Divider)
	assert.Empty(t, last.Title)

	_, err = catalog.Get("pump_overhaul")
	require.ErrorIs(t, err, domain.ErrLayoutNotFound)
}

func TestSelect(t *testing.T) {
	t.Parallel()

	inline := &domain.Layout{Sections: []domain.Section{{Title: "Only"}}}

	tests := []struct {
		name    string
		tmpl    domain.Template
		wantKey string
	}{
		{
			name:    "inline layout wins",
			tmpl:    domain.Template{Name: "Test de vibración", LayoutKey: "hermeticity_test", Layout: inline},
			wantKey: InlineKey,
		},
		{
			name:    "explicit key beats keywords",
			tmpl:    domain.Template{Name: "Test de vibración", LayoutKey: "hermeticity_test"},
			wantKey: "hermeticity_test",
		},
		{
			name:    "code matched before name",
			tmpl:    domain.Template{Name: "Test de vibración", Code: "TEMPERATURA-01"},
			wantKey: "bearing_temperature_test",
		},
		{
			name:    "accent and case insensitive name match",
			tmpl:    domain.Template{Name: "TEST DE VIBRACIÓN"},
			wantKey: "vibration_test",
		},
		{
			name:    "english keyword",
			tmpl:    domain.Template{Name: "Centrifuge revision"},
			wantKey: "centrifuge_revision",
		},
		{
			name:    "spanish keyword with accent in the template",
			tmpl:    domain.Template{Name: "Revisión de Centrífuga"},
			wantKey: "centrifuge_revision",
		},
		{
			name:    "hermeticity",
			tmpl:    domain.Template{Name: "Prueba", Code: "hermeticidad_v2"},
			wantKey: "hermeticity_test",
		},
		{
			name:    "unmatched falls back to generic",
			tmpl:    domain.Template{Name: "Pump overhaul", Fields: []domain.FieldSpec{{Name: "x_a", Type: domain.FieldTypeChar}}},
			wantKey: GenericKey,
		},
	}

	catalog := newTestCatalog(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout, err := catalog.Select(tt.tmpl)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, layout.Key)
		})
	}
}

func TestSelectUnknownKey(t *testing.T) {
	t.Parallel()

	_, err := newTestCatalog(t).Select(domain.Template{Name: "Vibration", LayoutKey: "nope"})
	require.ErrorIs(t, err, domain.ErrLayoutNotFound)
}

func TestGeneric(t *testing.T) {
	t.Parallel()

	layout := Generic(domain.Template{
		Name: "Pump overhaul",
		Fields: []domain.FieldSpec{
			{Name: "x_serial", Type: domain.FieldTypeChar, ReadOnly: true},
			{Name: "x_notes", Type: domain.FieldTypeText},
			{Name: "x_verdict", Type: domain.FieldTypeSelection},
			{Name: "x_report", Type: domain.FieldType("HTML")},
		},
	})

	require.NoError(t, layout.Validate())
	require.Len(t, layout.Sections, 1)
	group := layout.Sections[0].Groups[0]
	assert.Equal(t, 2, group.Columns)
	assert.Equal(t, []domain.Item{
		{Field: "x_serial", ReadOnly: true},
		{Field: "x_notes", Widget: "text", Colspan: 2},
		{Field: "x_verdict", Widget: "radio"},
		{Field: "x_report", Widget: "html", Colspan: 2},
	}, group.Items)
}

func TestGenericNormalizesPaddedTypeTags(t *testing.T) {
	t.Parallel()

	layout := Generic(domain.Template{
		Name: "Pump overhaul",
		Fields: []domain.FieldSpec{
			{Name: "x_notes", Type: domain.FieldType(" Text ")},
			{Name: "x_verdict", Type: domain.FieldType("selection\n")},
		},
	})

	assert.Equal(t, []domain.Item{
		{Field: "x_notes", Widget: "text", Colspan: 2},
		{Field: "x_verdict", Widget: "radio"},
	}, layout.Sections[0].Groups[0].Items)
}

func TestFold(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "vibracion", fold("  Vibración "))
	assert.Equal(t, "centrifuga", fold("CENTRÍFUGA"))
	assert.Equal(t, "", fold(""))
}
