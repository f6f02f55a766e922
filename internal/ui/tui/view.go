package tui

import (
	"fmt"
	"strings"
	"time"
)

func renderView(m Model) string {
	var b strings.Builder

	renderHeader(&b, m)
	renderProgressBar(&b, m)

	b.WriteString(sectionStyle.Render("  Resources"))
	b.WriteString("\n")
	for _, r := range m.Rows {
		renderRow(&b, m, r)
	}

	b.WriteString(footerStyle.Render(fmt.Sprintf("  elapsed %s  q to quit", formatDuration(m.Elapsed))))
	b.WriteString("\n")
	return b.String()
}

func renderHeader(b *strings.Builder, m Model) {
	b.WriteString(titleStyle.Render(fmt.Sprintf("appstack: %s", m.Stack)))

	status := " "
	switch {
	case m.Err != nil:
		status += failedStyle.Render(fmt.Sprintf("Error: %v", m.Err))
	case m.Done:
		status += readyStyle.Render("Done")
	default:
		status += warningStyle.Render("Resolving...")
	}
	b.WriteString(status)
	b.WriteString("\n")
}

func renderProgressBar(b *strings.Builder, m Model) {
	barWidth := 40
	if m.Width > 0 && m.Width < 80 {
		barWidth = max(m.Width-30, 10)
	}
	filled := min(int(float64(barWidth)*m.Progress()), barWidth)

	bar := readyStyle.Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("░", barWidth-filled))
	fmt.Fprintf(b, "  %s %d%%\n", bar, int(m.Progress()*100))
}

func renderRow(b *strings.Builder, m Model, r Row) {
	var mark, line string
	name := r.Resource
	switch r.Status {
	case StatusActive:
		mark = spinnerFrames[m.SpinnerFrame%len(spinnerFrames)]
		line = warningStyle.Render(fmt.Sprintf("%-18s %s", r.Kind, name))
	case StatusCreated:
		mark = checkMark
		line = readyStyle.Render(fmt.Sprintf("%-18s %s", r.Kind, name))
	case StatusExists:
		mark = checkMark
		line = readyStyle.Render(fmt.Sprintf("%-18s %s", r.Kind, name)) + dimStyle.Render(" ("+r.Detail+")")
	case StatusSkipped:
		mark = skipMark
		line = dimStyle.Render(fmt.Sprintf("%-18s %s", r.Kind, r.Detail))
	case StatusFailed:
		mark = crossMark
		line = failedStyle.Render(fmt.Sprintf("%-18s %s", r.Kind, r.Detail))
	default:
		mark = pending
		line = dimStyle.Render(string(r.Kind))
	}
	fmt.Fprintf(b, "  %s %s\n", mark, line)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d >= time.Hour {
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
	return d.String()
}
