package domain

import (
	"fmt"
	"strings"
)

const (
	TemplateModel = "worksheet.template"
	ModelModel    = "ir.model"
	FieldModel    = "ir.model.fields"
	ViewModel     = "ir.ui.view"
	DefaultModel  = "ir.default"
	ModuleModel   = "ir.module.module"
)

type Template struct {
	Name      string
	Code      string
	LayoutKey string
	Layout    *Layout
	Fields    []FieldSpec
}

func (t Template) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("template_name is required")
	}

	seen := make(map[string]struct{}, len(t.Fields))
	for i, field := range t.Fields {
		if strings.TrimSpace(field.Name) == "" {
			return fmt.Errorf("fields[%d]: name is required", i)
		}
		if _, ok := seen[field.Name]; ok {
			return fmt.Errorf("fields[%d]: duplicate field %q", i, field.Name)
		}
		seen[field.Name] = struct{}{}
	}

	if t.Layout != nil {
		if err := t.Layout.Validate(); err != nil {
			return fmt.Errorf("layout: %w", err)
		}
	}

	return nil
}

// TemplateRef is a resolved worksheet.template record.
type TemplateRef struct {
	Name  string
	ID    int64
	Model string
}
