// Package arch renders form layouts into the XML arch stored on ir.ui.view.
package arch

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/odoo-worksheet-cli/internal/domain"
	"github.com/bnema/odoo-worksheet-cli/internal/ports"
)

const indentUnit = "    "

type Renderer struct{}

var _ ports.ArchRenderer = Renderer{}

func New() Renderer {
	return Renderer{}
}

// Render produces the form arch. The output is deterministic for a given
// template and layout so repeated syncs write identical views.
func (Renderer) Render(tmpl domain.Template, layout domain.Layout) (string, error) {
	if err := layout.Validate(); err != nil {
		return "", fmt.Errorf("layout %q: %w", layout.Key, err)
	}

	name := strings.TrimSpace(tmpl.Name)
	if name == "" {
		return "", fmt.Errorf("template name is required to render a form")
	}
	title := strings.TrimSpace(layout.Title)
	if title == "" {
		title = name
	}

	w := &writer{}
	w.line(0, "<form string=%s>", attr(name))
	w.line(1, "<sheet>")
	w.line(2, `<div class="oe_title">`)
	w.line(3, "<h1>%s</h1>", text(title))
	if subtitle := strings.TrimSpace(layout.Subtitle); subtitle != "" {
		w.line(3, "<h3>%s</h3>", text(subtitle))
	}
	w.line(2, "</div>")

	for _, section := range layout.Sections {
		switch {
		case section.Title != "":
			w.line(2, "<separator string=%s/>", attr(section.Title))
		case section.Divider:
			w.line(2, "<separator/>")
		}
		for _, group := range section.Groups {
			writeGroup(w, group)
		}
	}

	w.line(1, "</sheet>")
	w.line(0, "</form>")

	return strings.TrimSuffix(w.buf.String(), "\n"), nil
}

func writeGroup(w *writer, group domain.Group) {
	var attrs strings.Builder
	if group.Title != "" {
		attrs.WriteString(" string=" + attr(group.Title))
	}
	if group.Columns > 0 {
		attrs.WriteString(" col=" + attr(strconv.Itoa(group.Columns)))
	}

	if len(group.Items) == 0 {
		w.line(2, "<group%s/>", attrs.String())
		return
	}

	w.line(2, "<group%s>", attrs.String())
	for _, item := range group.Items {
		if item.Newline {
			w.line(3, "<newline/>")
			continue
		}
		w.line(3, "<field%s/>", itemAttributes(item))
	}
	w.line(2, "</group>")
}

func itemAttributes(item domain.Item) string {
	var b strings.Builder
	b.WriteString(" name=" + attr(item.Field))
	if item.Widget != "" {
		b.WriteString(" widget=" + attr(item.Widget))
	}
	if item.Label != "" {
		b.WriteString(" string=" + attr(item.Label))
	}
	if item.ReadOnly {
		b.WriteString(` readonly="1"`)
	}
	if item.NoLabel {
		b.WriteString(` nolabel="1"`)
	}
	if item.Colspan > 0 {
		b.WriteString(" colspan=" + attr(strconv.Itoa(item.Colspan)))
	}
	if item.Placeholder != "" {
		b.WriteString(" placeholder=" + attr(item.Placeholder))
	}

	return b.String()
}

type writer struct {
	buf bytes.Buffer
}

func (w *writer) line(depth int, format string, args ...any) {
	w.buf.WriteString(strings.Repeat(indentUnit, depth))
	fmt.Fprintf(&w.buf, format, args...)
	w.buf.WriteByte('\n')
}

func text(value string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(value))
	return b.String()
}

func attr(value string) string {
	return `"` + text(value) + `"`
}
