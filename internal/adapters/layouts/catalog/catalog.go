// Package catalog holds the built-in worksheet form layouts and picks the
// layout a template document should be rendered with.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/bnema/odoo-worksheet-cli/internal/adapters/template/document"
	"github.com/bnema/odoo-worksheet-cli/internal/domain"
	"github.com/bnema/odoo-worksheet-cli/internal/ports"
)

const (
	InlineKey  = "inline"
	GenericKey = "generic"
)

//go:embed layouts/*.yaml
var builtin embed.FS

type entry struct {
	layout   domain.Layout
	keywords []string
}

type Catalog struct {
	entries []entry
}

var _ ports.LayoutSelector = (*Catalog)(nil)

// New loads the embedded layouts, ordered by key.
func New(loader *document.Loader) (*Catalog, error) {
	files, err := fs.Glob(builtin, "layouts/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("list builtin layouts: %w", err)
	}
	sort.Strings(files)

	catalog := &Catalog{}
	seen := map[string]string{}
	for _, file := range files {
		data, err := builtin.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read builtin layout %s: %w", file, err)
		}

		layout, err := loader.DecodeLayout(data, document.FormatYAML)
		if err != nil {
			return nil, fmt.Errorf("decode builtin layout %s: %w", file, err)
		}
		if layout.Key == "" {
			layout.Key = strings.TrimSuffix(path.Base(file), path.Ext(file))
		}
		if previous, ok := seen[layout.Key]; ok {
			return nil, fmt.Errorf("builtin layout %s reuses key %q from %s", file, layout.Key, previous)
		}
		seen[layout.Key] = file

		keywords := make([]string, 0, len(layout.Match))
		for _, keyword := range layout.Match {
			if folded := fold(keyword); folded != "" {
				keywords = append(keywords, folded)
			}
		}
		catalog.entries = append(catalog.entries, entry{layout: layout, keywords: keywords})
	}

	return catalog, nil
}

func (c *Catalog) List() []domain.Layout {
	layouts := make([]domain.Layout, 0, len(c.entries))
	for _, entry := range c.entries {
		layouts = append(layouts, entry.layout)
	}

	return layouts
}

func (c *Catalog) Get(key string) (domain.Layout, error) {
	for _, entry := range c.entries {
		if entry.layout.Key == key {
			return entry.layout, nil
		}
	}

	return domain.Layout{}, fmt.Errorf("%w: %q", domain.ErrLayoutNotFound, key)
}

// Select prefers an inline layout, then an explicit key, then keyword
// matches on the template code and name. Anything else gets the generic
// layout built from the declared fields.
func (c *Catalog) Select(tmpl domain.Template) (domain.Layout, error) {
	if tmpl.Layout != nil {
		layout := *tmpl.Layout
		if layout.Key == "" {
			layout.Key = InlineKey
		}
		return layout, nil
	}

	if key := strings.TrimSpace(tmpl.LayoutKey); key != "" {
		return c.Get(key)
	}

	for _, candidate := range []string{tmpl.Code, tmpl.Name} {
		if layout, ok := c.match(candidate); ok {
			return layout, nil
		}
	}

	return Generic(tmpl), nil
}

func (c *Catalog) match(text string) (domain.Layout, bool) {
	folded := fold(text)
	if folded == "" {
		return domain.Layout{}, false
	}

	for _, entry := range c.entries {
		for _, keyword := range entry.keywords {
			if strings.Contains(folded, keyword) {
				return entry.layout, true
			}
		}
	}

	return domain.Layout{}, false
}

// Generic lays the declared fields out in a two column group, giving long
// text fields the full width.
func Generic(tmpl domain.Template) domain.Layout {
	group := domain.Group{Columns: 2}
	for _, field := range tmpl.Fields {
		item := domain.Item{Field: field.Name, ReadOnly: field.ReadOnly}
		switch field.Type.Normalized() {
		case domain.FieldTypeText:
			item.Widget = "text"
			item.Colspan = 2
		case domain.FieldTypeHTML:
			item.Widget = "html"
			item.Colspan = 2
		case domain.FieldTypeSelection:
			item.Widget = "radio"
		}
		group.Items = append(group.Items, item)
	}

	return domain.Layout{
		Key:      GenericKey,
		Sections: []domain.Section{{Groups: []domain.Group{group}}},
	}
}

// fold strips combining marks and case so "Vibración" matches "vibracion".
func fold(text string) string {
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(stripper, strings.TrimSpace(text))
	if err != nil {
		stripped = text
	}

	return cases.Fold().String(stripped)
}
