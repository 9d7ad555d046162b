package report

import (
	"fmt"
	"strings"

	"github.com/bnema/odoo-worksheet-cli/internal/domain"
	"github.com/charmbracelet/glamour"
)

const notesWidth = 80

// NotesOptions selects the glamour style. An empty Style picks one from the
// terminal background.
type NotesOptions struct {
	Style string
	Width int
}

func usageNotes(result domain.SyncResult) string {
	var b strings.Builder
	b.WriteString("## Using the worksheet\n\n")
	b.WriteString("1. Open **Field Service > Configuration > Worksheet Templates**.\n")
	fmt.Fprintf(&b, "2. Find `%s` and use **Design Template** to preview it.\n", result.TemplateName)
	b.WriteString("3. On a task, pick the template in the *Worksheet Template* field.\n")
	b.WriteString("4. Use **Create Worksheet** to fill in the form.\n")
	if len(result.FailedFields) > 0 {
		fmt.Fprintf(&b, "\n> %d field(s) could not be created: %s. Fix the template and run the sync again.\n",
			len(result.FailedFields), strings.Join(result.FailedFields, ", "))
	}

	return b.String()
}

func RenderNotes(result domain.SyncResult, opts NotesOptions) (string, error) {
	width := opts.Width
	if width <= 0 {
		width = notesWidth
	}

	styleOption := glamour.WithAutoStyle()
	if opts.Style != "" {
		styleOption = glamour.WithStandardStyle(opts.Style)
	}

	renderer, err := glamour.NewTermRenderer(styleOption, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("create notes renderer: %w", err)
	}

	out, err := renderer.Render(usageNotes(result))
	if err != nil {
		return "", fmt.Errorf("render notes: %w", err)
	}

	return out, nil
}
