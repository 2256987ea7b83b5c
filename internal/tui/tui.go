// Package tui implements the Bubble Tea findings browser.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/prtriage/internal/model"
	"github.com/sprite-ai/prtriage/internal/pipeline"
)

// severityFilter levels cycled by the filter key. -1 shows everything.
var filterLevels = []int{-1, int(model.SeverityMedium), int(model.SeverityHigh), int(model.SeverityCritical)}

// Model is the top-level Bubble Tea model for the findings browser.
type Model struct {
	combined *pipeline.Combined
	files    []string // distinct file paths in report order

	// UI state
	width  int
	height int

	fileIndex    int // currently selected file
	findingIndex int // selected finding within the file
	filterIdx    int // index into filterLevels

	showHelp bool
	export   bool // report export requested on quit
}

// New creates a browser model from a combined report.
func New(c *pipeline.Combined) Model {
	m := Model{combined: c}
	seen := make(map[string]bool)
	for _, f := range c.Findings {
		if !seen[f.File] {
			seen[f.File] = true
			m.files = append(m.files, f.File)
		}
	}
	return m
}

// currentFile returns the selected file path, or "" when empty.
func (m Model) currentFile() string {
	if len(m.files) == 0 {
		return ""
	}
	return m.files[m.fileIndex]
}

// visibleFindings returns the selected file's findings at or above the
// active severity filter.
func (m Model) visibleFindings() []model.MergedFinding {
	file := m.currentFile()
	minSev := filterLevels[m.filterIdx]

	var out []model.MergedFinding
	for _, f := range m.combined.Findings {
		if f.File != file {
			continue
		}
		if minSev >= 0 && int(f.Severity) < minSev {
			continue
		}
		out = append(out, f)
	}
	return out
}

// fileCount returns how many findings a file has under the active filter.
func (m Model) fileCount(file string) int {
	minSev := filterLevels[m.filterIdx]
	n := 0
	for _, f := range m.combined.Findings {
		if f.File != file {
			continue
		}
		if minSev >= 0 && int(f.Severity) < minSev {
			continue
		}
		n++
	}
	return n
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Down):
			if m.findingIndex < len(m.visibleFindings())-1 {
				m.findingIndex++
			}

		case key.Matches(msg, keys.Up):
			if m.findingIndex > 0 {
				m.findingIndex--
			}

		case key.Matches(msg, keys.NextFile):
			if m.fileIndex < len(m.files)-1 {
				m.fileIndex++
				m.findingIndex = 0
			}

		case key.Matches(msg, keys.PrevFile):
			if m.fileIndex > 0 {
				m.fileIndex--
				m.findingIndex = 0
			}

		case key.Matches(msg, keys.Filter):
			m.filterIdx = (m.filterIdx + 1) % len(filterLevels)
			m.findingIndex = 0

		case key.Matches(msg, keys.Export):
			m.export = true
			return m, tea.Quit

		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	fileListWidth := m.fileListWidth()
	findingsWidth := m.width - fileListWidth - 1

	fileList := m.renderFileList(fileListWidth, m.height-2)
	findings := m.renderFindings(findingsWidth, m.height-2)

	main := lipgloss.JoinHorizontal(lipgloss.Top, fileList, " ", findings)
	statusBar := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, main, statusBar)
}

func (m Model) fileListWidth() int {
	maxLen := 20
	for _, f := range m.files {
		if len(f) > maxLen {
			maxLen = len(f)
		}
	}
	w := maxLen + 8 // padding + count
	if w > m.width/3 {
		w = m.width / 3
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) renderStatusBar() string {
	s := m.combined.Stats

	left := fmt.Sprintf(" %d finding(s), %d duplicates removed", s.TotalAfterMerge, s.CrossAgentDuplicatesRemoved)

	filter := "all"
	if lvl := filterLevels[m.filterIdx]; lvl >= 0 {
		filter = model.Severity(lvl).String() + "+"
	}
	right := fmt.Sprintf("filter: %s  ? help ", filter)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(fileHeaderStyle.Render("prtriage — Keyboard Shortcuts"))
	b.WriteString("\n\n")

	helpItems := []struct{ key, desc string }{
		{"↑/k", "Previous finding"},
		{"↓/j", "Next finding"},
		{"n/Tab", "Next file"},
		{"N/S-Tab", "Previous file"},
		{"s", "Cycle severity filter"},
		{"e", "Export markdown report and quit"},
		{"?", "Toggle this help"},
		{"q", "Quit"},
	}

	for _, item := range helpItems {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			helpKeyStyle.Width(12).Render(item.key),
			item.desc,
		))
	}

	b.WriteString("\n")
	b.WriteString(helpBarStyle.Render("Press ? to close help"))

	return b.String()
}

// Run starts the browser and returns the exported markdown report, or ""
// when no export was requested.
func Run(c *pipeline.Combined) (string, error) {
	m := New(c)
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	if fm, ok := final.(Model); ok && fm.export {
		return BuildReport(c), nil
	}
	return "", nil
}
