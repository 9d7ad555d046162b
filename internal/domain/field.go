package domain

import (
	"fmt"
	"strings"
)

type FieldType string

const (
	FieldTypeChar      FieldType = "char"
	FieldTypeText      FieldType = "text"
	FieldTypeInteger   FieldType = "integer"
	FieldTypeFloat     FieldType = "float"
	FieldTypeDate      FieldType = "date"
	FieldTypeDatetime  FieldType = "datetime"
	FieldTypeBoolean   FieldType = "boolean"
	FieldTypeSelection FieldType = "selection"
	FieldTypeHTML      FieldType = "html"
	FieldTypeMonetary  FieldType = "monetary"
)

var remoteFieldTypes = map[FieldType]string{
	FieldTypeChar:      "char",
	FieldTypeText:      "text",
	FieldTypeInteger:   "integer",
	FieldTypeFloat:     "float",
	FieldTypeDate:      "date",
	FieldTypeDatetime:  "datetime",
	FieldTypeBoolean:   "boolean",
	FieldTypeSelection: "selection",
	FieldTypeHTML:      "html",
	FieldTypeMonetary:  "monetary",
}

// Normalized trims and lowercases the declared tag.
func (t FieldType) Normalized() FieldType {
	return FieldType(strings.ToLower(strings.TrimSpace(string(t))))
}

// RemoteType maps the declared tag to the ttype accepted by ir.model.fields.
func (t FieldType) RemoteType() (string, error) {
	ttype, ok := remoteFieldTypes[t.Normalized()]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFieldType, string(t))
	}

	return ttype, nil
}

type SelectionOption struct {
	Value string
	Label string
}

type FieldSpec struct {
	Name      string
	Label     string
	Type      FieldType
	Required  bool
	ReadOnly  bool
	Default   any
	Selection []SelectionOption
}

// HasDefault reports whether a default should be registered. Zero values are
// what the remote already uses, so they are skipped.
func (f FieldSpec) HasDefault() bool {
	switch v := f.Default.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}

// SelectionLiteral serializes the options the way Odoo parses manual
// selection fields: a python list of (value, label) tuples.
func (f FieldSpec) SelectionLiteral() string {
	parts := make([]string, 0, len(f.Selection))
	for _, option := range f.Selection {
		parts = append(parts, fmt.Sprintf("(%s, %s)", pythonString(option.Value), pythonString(option.Label)))
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

func pythonString(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`)
	return "'" + replacer.Replace(value) + "'"
}
