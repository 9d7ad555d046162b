package report

import (
	"fmt"
	"io"

	"github.com/bnema/odoo-worksheet-cli/internal/application"
	"github.com/bnema/odoo-worksheet-cli/internal/domain"
)

// ProgressPrinter writes one status line per synchronizer step.
type ProgressPrinter struct {
	out    io.Writer
	styles styles
}

var _ application.Progress = (*ProgressPrinter)(nil)

func NewProgressPrinter(out io.Writer) *ProgressPrinter {
	return &ProgressPrinter{out: out, styles: newStyles()}
}

func (p *ProgressPrinter) TemplateResolved(ref domain.TemplateRef) {
	fmt.Fprintf(p.out, "%s template %q (ID %d) uses model %s\n", p.styles.ok.Render(markCreated), ref.Name, ref.ID, ref.Model)
}

func (p *ProgressPrinter) FieldDone(outcome domain.FieldOutcome) {
	switch outcome.Status {
	case domain.FieldStatusCreated:
		fmt.Fprintf(p.out, "  %s %s created (ID %d)\n", p.styles.ok.Render(markCreated), outcome.Name, outcome.FieldID)
	case domain.FieldStatusSkipped:
		fmt.Fprintf(p.out, "  %s %s already exists\n", p.styles.skipped.Render(markSkipped), outcome.Name)
	default:
		fmt.Fprintf(p.out, "  %s %s: %s\n", p.styles.failed.Render(markFailed), outcome.Name, errText(outcome.Err))
	}
}

func (p *ProgressPrinter) ViewDone(outcome domain.ViewOutcome) {
	fmt.Fprintln(p.out, viewLine(outcome, p.styles))
}
