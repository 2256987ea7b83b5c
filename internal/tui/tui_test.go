package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sprite-ai/prtriage/internal/model"
	"github.com/sprite-ai/prtriage/internal/pipeline"
)

func testCombined() *pipeline.Combined {
	line := model.IntPtr(42)
	results := []model.AgentResult{
		{Agent: model.AgentSecurity, Findings: []model.Finding{
			{ID: "sec-1", Title: "Hardcoded API Key", File: "src/auth.ts", Line: line, Severity: model.SeverityCritical, Confidence: 0.95,
				Description: "A live credential is committed:\n    const apiKey = \"sk-live-1234\""},
		}},
		{Agent: model.AgentCodeQuality, Findings: []model.Finding{
			{ID: "cq-1", Title: "Hardcoded Configuration", File: "src/auth.ts", Line: line, Severity: model.SeverityMedium, Confidence: 0.7},
			{ID: "cq-2", Title: "Function exceeds complexity budget", File: "src/utils.ts", Severity: model.SeverityLow, Confidence: 0.6},
		}},
		{Agent: model.AgentPerformance, Findings: []model.Finding{
			{ID: "perf-1", Title: "Quadratic rendering pass", File: "src/render.ts", Line: model.IntPtr(5), Severity: model.SeverityMedium, Confidence: 0.8},
		}},
	}
	return pipeline.Combine(results, pipeline.CombineOptions{})
}

func setupModel(t *testing.T) Model {
	t.Helper()
	m := New(testCombined())
	newM, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return newM.(Model)
}

func TestModelInit(t *testing.T) {
	m := setupModel(t)

	if m.fileIndex != 0 {
		t.Errorf("expected fileIndex 0, got %d", m.fileIndex)
	}
	// Three distinct files survive the merge.
	if len(m.files) != 3 {
		t.Errorf("expected 3 files, got %d: %v", len(m.files), m.files)
	}
	// Report order: highest severity first, so auth.ts leads.
	if m.files[0] != "src/auth.ts" {
		t.Errorf("first file = %q", m.files[0])
	}
}

func TestFileNavigation(t *testing.T) {
	m := setupModel(t)

	newM, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m = newM.(Model)
	if m.fileIndex != 1 {
		t.Errorf("expected fileIndex 1 after next, got %d", m.fileIndex)
	}

	// Past the end — stays put.
	newM, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m = newM.(Model)
	newM, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m = newM.(Model)
	if m.fileIndex != 2 {
		t.Errorf("expected fileIndex 2 at end, got %d", m.fileIndex)
	}

	newM, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'N'}})
	m = newM.(Model)
	if m.fileIndex != 1 {
		t.Errorf("expected fileIndex 1 after prev, got %d", m.fileIndex)
	}
}

func TestFindingSelection(t *testing.T) {
	m := setupModel(t)

	// auth.ts has one merged finding: down does not move past it.
	newM, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m = newM.(Model)
	if m.findingIndex != 0 {
		t.Errorf("expected findingIndex pinned at 0, got %d", m.findingIndex)
	}

	newM, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	m = newM.(Model)
	if m.findingIndex != 0 {
		t.Errorf("expected findingIndex 0 at top, got %d", m.findingIndex)
	}
}

func TestSeverityFilterCycle(t *testing.T) {
	m := setupModel(t)

	if got := len(m.visibleFindings()); got != 1 {
		t.Fatalf("auth.ts visible findings = %d, want 1", got)
	}

	// Cycle to medium+, then high+, then critical; the critical auth.ts
	// finding stays visible throughout.
	for range 3 {
		newM, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
		m = newM.(Model)
		if got := len(m.visibleFindings()); got != 1 {
			t.Errorf("filter level %d hides the critical finding", m.filterIdx)
		}
	}

	// utils.ts has only a low finding; under critical filter it is empty.
	m.fileIndex = indexOf(t, m.files, "src/utils.ts")
	if got := len(m.visibleFindings()); got != 0 {
		t.Errorf("low finding visible under critical filter: %d", got)
	}

	// Cycle back to all.
	newM, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = newM.(Model)
	if got := len(m.visibleFindings()); got != 1 {
		t.Errorf("expected 1 finding with filter off, got %d", got)
	}
}

func indexOf(t *testing.T, files []string, want string) int {
	t.Helper()
	for i, f := range files {
		if f == want {
			return i
		}
	}
	t.Fatalf("file %q not in %v", want, files)
	return -1
}

func TestViewRenders(t *testing.T) {
	m := setupModel(t)

	view := m.View()
	if view == "" {
		t.Error("expected non-empty view")
	}
	if !strings.Contains(view, "auth.ts") {
		t.Error("expected view to contain the selected file")
	}
	if !strings.Contains(view, "Hardcoded API Key") {
		t.Error("expected view to contain the finding title")
	}
	if !strings.Contains(view, "security") {
		t.Error("expected view to name the contributing agent")
	}
}

func TestHelpToggle(t *testing.T) {
	m := setupModel(t)

	newM, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	m = newM.(Model)
	if !m.showHelp {
		t.Error("expected help to be shown")
	}

	view := m.View()
	if !strings.Contains(view, "Keyboard Shortcuts") {
		t.Error("expected help view to contain shortcuts")
	}
}

func TestExportKeyQuits(t *testing.T) {
	m := setupModel(t)

	newM, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	m = newM.(Model)
	if !m.export {
		t.Error("expected export flag set")
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestBuildReport(t *testing.T) {
	report := BuildReport(testCombined())

	for _, want := range []string{
		"## Merged Findings",
		"src/auth.ts",
		"Hardcoded API Key",
		"agreed by security, code_quality",
		"Cross-agent patterns",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q", want)
		}
	}
	if strings.Contains(report, "Hardcoded Configuration") {
		t.Error("merged duplicate should not appear separately in the report")
	}
}
