package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/certfleet/keysync/internal/model"
)

// renderer writes per-entry result lines and a closing summary. Styles are
// applied only when the destination is a terminal.
type renderer struct {
	out    io.Writer
	styled bool

	changed   lipgloss.Style
	unchanged lipgloss.Style
	failed    lipgloss.Style
	dim       lipgloss.Style
}

func newRenderer(out io.Writer) *renderer {
	styled := false
	if f, ok := out.(*os.File); ok {
		styled = term.IsTerminal(int(f.Fd()))
	}

	return &renderer{
		out:       out,
		styled:    styled,
		changed:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		unchanged: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		failed:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		dim:       lipgloss.NewStyle().Faint(true),
	}
}

func (r *renderer) render(style lipgloss.Style, text string) string {
	if !r.styled {
		return text
	}
	return style.Render(text)
}

func (r *renderer) outcome(o *model.Outcome) {
	label := r.render(r.unchanged, "unchanged")
	switch o.Status {
	case model.StatusChanged:
		label = r.render(r.changed, "changed")
	case model.StatusWouldChange:
		label = r.render(r.changed, "would change")
	}

	fmt.Fprintf(r.out, "%-12s %s  %s\n", label, o.EntryID, r.render(r.dim, o.Message))
	if o.Diff.Before != o.Diff.After {
		fmt.Fprintf(r.out, "%12s %s\n", "", r.render(r.dim, fmt.Sprintf("before=%q after=%q", o.Diff.Before, o.Diff.After)))
	}
}

func (r *renderer) verifyResult(v *model.VerifyResult) {
	label := r.render(r.changed, v.Status)
	if v.Status != model.StatusSatisfied {
		label = r.render(r.failed, v.Status)
	}
	fmt.Fprintf(r.out, "%-12s %s  %s\n", label, v.EntryID, r.render(r.dim, v.Message))
}

func (r *renderer) applySummary(changed, total int, dryRun bool) {
	verb := "applied"
	if dryRun {
		verb = "planned"
	}
	line := fmt.Sprintf("%s: %d changed, %d unchanged", verb, changed, total-changed)
	fmt.Fprintln(r.out, r.render(r.dim, line))
}

func (r *renderer) verifySummary(outOfSync, total int) {
	if outOfSync == 0 {
		fmt.Fprintln(r.out, r.render(r.changed, fmt.Sprintf("all %d entries satisfied", total)))
		return
	}
	fmt.Fprintln(r.out, r.render(r.failed, fmt.Sprintf("%d of %d entries out of sync", outOfSync, total)))
}
