package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/prtriage/internal/diff"
	"github.com/sprite-ai/prtriage/internal/model"
)

func (m Model) renderFileList(width, height int) string {
	var b strings.Builder

	for i, file := range m.files {
		name := file
		maxName := width - 8
		if maxName > 0 && len(name) > maxName {
			name = "…" + name[len(name)-maxName+1:]
		}

		line := fmt.Sprintf("%-*s %2d", maxName, name, m.fileCount(file))

		style := fileItemStyle
		if i == m.fileIndex {
			style = fileItemSelectedStyle
		}

		b.WriteString(style.Width(width - 4).Render(line))
		if i < len(m.files)-1 {
			b.WriteByte('\n')
		}
	}

	return fileListStyle.Width(width).Height(height - 2).Render(b.String())
}

func (m Model) renderFindings(width, height int) string {
	innerHeight := height - 2

	findings := m.visibleFindings()
	if len(findings) == 0 {
		return findingsPaneStyle.Width(width).Height(innerHeight).Render("No findings match the filter")
	}

	var b strings.Builder
	b.WriteString(fileHeaderStyle.Render(m.currentFile()))
	b.WriteByte('\n')

	for i, f := range findings {
		line := fmt.Sprintf("%s %s", severityStyle(f.Severity).Render(strings.ToUpper(f.Severity.String())), f.Title)
		if f.Line != nil {
			line += fmt.Sprintf(" (line %d)", *f.Line)
		}
		if i == m.findingIndex {
			line = findingSelectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(truncate(line, width-4))
		b.WriteByte('\n')
	}

	if m.findingIndex < len(findings) {
		b.WriteByte('\n')
		b.WriteString(m.renderDetail(findings[m.findingIndex], width-4))
	}

	return findingsPaneStyle.Width(width).Height(innerHeight).Render(b.String())
}

// renderDetail shows the selected finding's metadata and description.
// Indented description lines are treated as code excerpts and highlighted
// with the file's lexer.
func (m Model) renderDetail(f model.MergedFinding, width int) string {
	var b strings.Builder

	b.WriteString(consensusStyle.Render(fmt.Sprintf("consensus %d", f.Consensus)))
	b.WriteString("  ")
	b.WriteString(agentsStyle.Render(strings.Join(f.Agents, ", ")))
	if f.Confidence > 0 {
		b.WriteString(fmt.Sprintf("  confidence %.2f", f.Confidence))
	}
	b.WriteByte('\n')

	if f.Description == "" {
		return b.String()
	}

	for _, line := range strings.Split(f.Description, "\n") {
		if isSnippetLine(line) {
			b.WriteString(renderSnippetLine(f.File, line, width))
		} else {
			b.WriteString(descriptionStyle.Render(truncate(line, width)))
		}
		b.WriteByte('\n')
	}

	return b.String()
}

func isSnippetLine(line string) bool {
	return strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t")
}

func renderSnippetLine(file, line string, width int) string {
	var b strings.Builder
	for _, tok := range diff.HighlightLine(file, strings.TrimLeft(line, " \t")) {
		if tok.Color != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(tok.Color)).Render(tok.Text))
		} else {
			b.WriteString(tok.Text)
		}
	}
	return "    " + truncate(b.String(), width-4)
}

func severityStyle(s model.Severity) lipgloss.Style {
	switch s {
	case model.SeverityCritical:
		return severityCriticalStyle
	case model.SeverityHigh:
		return severityHighStyle
	case model.SeverityMedium:
		return severityMediumStyle
	default:
		return severityLowStyle
	}
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if lipgloss.Width(s) > max {
		r := []rune(s)
		if len(r) > max-1 {
			r = r[:max-1]
		}
		return string(r) + "…"
	}
	return s
}
