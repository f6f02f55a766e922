package ui

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/imamik/appstack/internal/provisioning"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorDim)
	presentStyle = lipgloss.NewStyle().Foreground(colorGreen)
	failedStyle  = lipgloss.NewStyle().Foreground(colorRed)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	markPresent = "[OK]"
	markAbsent  = "[--]"
	markFailed  = "[!!]"
)

// IsInteractiveTTY reports whether f is a terminal.
func IsInteractiveTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// RenderSummary renders outputs as a table with one row per kind.
func RenderSummary(o *provisioning.Outputs) string {
	var b strings.Builder

	title := fmt.Sprintf("appstack: %s", o.Stack)
	if o.RunID != "" {
		title += dimStyle.Render(fmt.Sprintf(" (run %s)", o.RunID))
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	kindWidth, nameWidth := len("KIND"), len("NAME")
	for _, e := range o.Entities {
		kindWidth = max(kindWidth, len(e.Kind))
		nameWidth = max(nameWidth, len(e.Name))
	}
	kindWidth = max(kindWidth, len(o.Failed))

	row := func(mark, kind, name, detail string) string {
		return fmt.Sprintf("  %-4s  %-*s  %-*s  %s", mark, kindWidth, kind, nameWidth, name, detail)
	}
	b.WriteString(headerStyle.Render(row("", "KIND", "NAME", "DETAILS")))
	b.WriteString("\n")

	for _, e := range o.Entities {
		if e.Present {
			b.WriteString(presentStyle.Render(row(markPresent, string(e.Kind), e.Name, formatDetails(e.Details))))
		} else {
			b.WriteString(dimStyle.Render(row(markAbsent, string(e.Kind), e.Name, e.Reason)))
		}
		b.WriteString("\n")
	}

	// The failed kind has no decision; later kinds were never evaluated.
	if o.Failed != "" {
		b.WriteString(failedStyle.Render(row(markFailed, o.Failed, "", "failed")))
		b.WriteString("\n\n")
		b.WriteString(failedStyle.Render(fmt.Sprintf("  aborted at %s; resources created before it were kept", o.Failed)))
		b.WriteString("\n")
	}
	return b.String()
}

func formatDetails(details map[string]string) string {
	parts := make([]string, 0, len(details))
	for _, k := range slices.Sorted(maps.Keys(details)) {
		parts = append(parts, k+"="+details[k])
	}
	return strings.Join(parts, " ")
}
