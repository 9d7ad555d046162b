package document

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/bnema/odoo-worksheet-cli/internal/domain"
)

type templateDocument struct {
	TemplateName string          `json:"template_name" yaml:"template_name"`
	TemplateCode string          `json:"template_code" yaml:"template_code"`
	LayoutKey    string          `json:"layout_key" yaml:"layout_key"`
	Layout       *LayoutDocument `json:"layout" yaml:"layout"`
	Fields       []fieldDocument `json:"fields" yaml:"fields"`
}

type fieldDocument struct {
	Name         string              `json:"name" yaml:"name"`
	Label        string              `json:"label" yaml:"label"`
	FieldType    string              `json:"field_type" yaml:"field_type"`
	Required     bool                `json:"required" yaml:"required"`
	ReadOnly     bool                `json:"readonly" yaml:"readonly"`
	DefaultValue any                 `json:"default_value" yaml:"default_value"`
	Selection    []selectionDocument `json:"selection" yaml:"selection"`
}

// selectionDocument accepts either a [value, label] pair or a bare value.
type selectionDocument domain.SelectionOption

func (s *selectionDocument) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err == nil {
		return s.fromPair(pair)
	}

	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("selection option must be a string or a [value, label] pair: %w", err)
	}
	*s = selectionDocument{Value: value, Label: value}
	return nil
}

func (s *selectionDocument) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var pair []string
		if err := node.Decode(&pair); err != nil {
			return fmt.Errorf("selection option: %w", err)
		}
		return s.fromPair(pair)
	case yaml.ScalarNode:
		var value string
		if err := node.Decode(&value); err != nil {
			return fmt.Errorf("selection option: %w", err)
		}
		*s = selectionDocument{Value: value, Label: value}
		return nil
	default:
		return fmt.Errorf("selection option must be a string or a [value, label] pair (line %d)", node.Line)
	}
}

func (s *selectionDocument) fromPair(pair []string) error {
	switch len(pair) {
	case 1:
		*s = selectionDocument{Value: pair[0], Label: pair[0]}
	case 2:
		*s = selectionDocument{Value: pair[0], Label: pair[1]}
	default:
		return fmt.Errorf("selection option must have one or two entries, got %d", len(pair))
	}
	return nil
}

// LayoutDocument is the serialized form of a form layout.
type LayoutDocument struct {
	Key      string            `json:"key" yaml:"key"`
	Title    string            `json:"title" yaml:"title"`
	Subtitle string            `json:"subtitle" yaml:"subtitle"`
	Match    []string          `json:"match" yaml:"match"`
	Sections []sectionDocument `json:"sections" yaml:"sections"`
}

type sectionDocument struct {
	Title   string          `json:"title" yaml:"title"`
	Divider bool            `json:"divider" yaml:"divider"`
	Groups  []groupDocument `json:"groups" yaml:"groups"`
}

type groupDocument struct {
	Title   string         `json:"title" yaml:"title"`
	Columns int            `json:"col" yaml:"col"`
	Items   []itemDocument `json:"items" yaml:"items"`
}

type itemDocument struct {
	Field       string `json:"field" yaml:"field"`
	Label       string `json:"label" yaml:"label"`
	Widget      string `json:"widget" yaml:"widget"`
	ReadOnly    bool   `json:"readonly" yaml:"readonly"`
	NoLabel     bool   `json:"nolabel" yaml:"nolabel"`
	Colspan     int    `json:"colspan" yaml:"colspan"`
	Placeholder string `json:"placeholder" yaml:"placeholder"`
	Newline     bool   `json:"newline" yaml:"newline"`
}

func (d templateDocument) toDomain() domain.Template {
	tmpl := domain.Template{
		Name:      d.TemplateName,
		Code:      d.TemplateCode,
		LayoutKey: d.LayoutKey,
		Fields:    make([]domain.FieldSpec, 0, len(d.Fields)),
	}
	if d.Layout != nil {
		layout := d.Layout.ToDomain()
		tmpl.Layout = &layout
	}

	for _, field := range d.Fields {
		spec := domain.FieldSpec{
			Name:     field.Name,
			Label:    field.Label,
			Type:     domain.FieldType(field.FieldType),
			Required: field.Required,
			ReadOnly: field.ReadOnly,
			Default:  field.DefaultValue,
		}
		for _, option := range field.Selection {
			spec.Selection = append(spec.Selection, domain.SelectionOption(option))
		}
		tmpl.Fields = append(tmpl.Fields, spec)
	}

	return tmpl
}

func (d LayoutDocument) ToDomain() domain.Layout {
	layout := domain.Layout{
		Key:      d.Key,
		Title:    d.Title,
		Subtitle: d.Subtitle,
		Match:    append([]string(nil), d.Match...),
	}

	for _, section := range d.Sections {
		converted := domain.Section{Title: section.Title, Divider: section.Divider}
		for _, group := range section.Groups {
			convertedGroup := domain.Group{Title: group.Title, Columns: group.Columns}
			for _, item := range group.Items {
				convertedGroup.Items = append(convertedGroup.Items, domain.Item(item))
			}
			converted.Groups = append(converted.Groups, convertedGroup)
		}
		layout.Sections = append(layout.Sections, converted)
	}

	return layout
}
