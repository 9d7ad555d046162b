package domain

import (
	"fmt"
	"strings"
)

// LayoutName is the ir.ui.view name owned by the synchronizer for a model.
func LayoutName(model string) string {
	return "view_" + strings.ReplaceAll(model, ".", "_") + "_form"
}

type Layout struct {
	Key      string
	Title    string
	Subtitle string
	Match    []string
	Sections []Section
}

// Section renders as an optional separator followed by its groups. Divider
// draws a bare separator when Title is empty.
type Section struct {
	Title   string
	Divider bool
	Groups  []Group
}

type Group struct {
	Title   string
	Columns int
	Items   []Item
}

// Item is either a field reference or, with Newline set, a row break.
type Item struct {
	Field       string
	Label       string
	Widget      string
	ReadOnly    bool
	NoLabel     bool
	Colspan     int
	Placeholder string
	Newline     bool
}

func (l Layout) Validate() error {
	if len(l.Sections) == 0 {
		return fmt.Errorf("at least one section is required")
	}

	for i, section := range l.Sections {
		for j, group := range section.Groups {
			if group.Columns < 0 {
				return fmt.Errorf("sections[%d].groups[%d]: col must not be negative", i, j)
			}
			for k, item := range group.Items {
				if item.Newline {
					if item.Field != "" {
						return fmt.Errorf("sections[%d].groups[%d].items[%d]: newline cannot name a field", i, j, k)
					}
					continue
				}
				if strings.TrimSpace(item.Field) == "" {
					return fmt.Errorf("sections[%d].groups[%d].items[%d]: field is required", i, j, k)
				}
			}
		}
	}

	return nil
}

// FieldNames lists referenced fields in render order without duplicates.
func (l Layout) FieldNames() []string {
	var names []string
	seen := map[string]struct{}{}
	for _, section := range l.Sections {
		for _, group := range section.Groups {
			for _, item := range group.Items {
				if item.Newline {
					continue
				}
				if _, ok := seen[item.Field]; ok {
					continue
				}
				seen[item.Field] = struct{}{}
				names = append(names, item.Field)
			}
		}
	}

	return names
}
