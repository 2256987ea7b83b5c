package merge

import (
	"testing"

	"github.com/sprite-ai/prtriage/internal/model"
)

func finding(id, title, file string, line int, sev model.Severity, conf float64) model.Finding {
	f := model.Finding{
		ID:         id,
		Title:      title,
		File:       file,
		Severity:   sev,
		Confidence: conf,
	}
	if line > 0 {
		f.Line = model.IntPtr(line)
	}
	return f
}

// Two agents reporting the same hardcoded credential on the same line must
// collapse into one finding with consensus 2 and a named pattern.
func TestMergeCrossAgentPair(t *testing.T) {
	results := []model.AgentResult{
		{Agent: model.AgentSecurity, Findings: []model.Finding{
			finding("sec-1", "Hardcoded API Key", "src/config.ts", 42, model.SeverityHigh, 0.9),
		}},
		{Agent: model.AgentCodeQuality, Findings: []model.Finding{
			finding("cq-1", "Hardcoded Configuration", "src/config.ts", 42, model.SeverityMedium, 0.8),
		}},
	}

	res := Merge(results)

	if len(res.Findings) != 1 {
		t.Fatalf("expected 1 merged finding, got %d", len(res.Findings))
	}

	mf := res.Findings[0]
	if mf.Consensus != 2 {
		t.Errorf("consensus = %d, want 2", mf.Consensus)
	}
	if len(mf.Agents) != 2 {
		t.Errorf("agents = %v, want both", mf.Agents)
	}
	if mf.Title != "Hardcoded API Key" {
		t.Errorf("representative = %q, want the higher-severity copy", mf.Title)
	}

	if len(res.Patterns) != 1 {
		t.Fatalf("expected 1 cross-agent pattern, got %d", len(res.Patterns))
	}
	p := res.Patterns[0]
	if p.Label != "hardcoded" {
		t.Errorf("pattern label = %q, want %q", p.Label, "hardcoded")
	}
	if len(p.Agents) != 2 {
		t.Errorf("pattern agents = %v", p.Agents)
	}

	if res.Stats.TotalBeforeMerge != 2 || res.Stats.TotalAfterMerge != 1 || res.Stats.CrossAgentDuplicatesRemoved != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
}

// The full-chain fixture: five agents, six raw findings, one duplicate pair.
func TestMergeFullChainFixture(t *testing.T) {
	results := []model.AgentResult{
		{Agent: model.AgentSecurity, Findings: []model.Finding{
			finding("sec-1", "Hardcoded API Key", "src/auth.ts", 42, model.SeverityCritical, 0.95),
			finding("sec-2", "SQL injection via string concatenation", "src/db.ts", 10, model.SeverityHigh, 0.9),
		}},
		{Agent: model.AgentCodeQuality, Findings: []model.Finding{
			finding("cq-1", "Hardcoded Configuration", "src/auth.ts", 42, model.SeverityMedium, 0.7),
			finding("cq-2", "Function exceeds complexity budget", "src/utils.ts", 0, model.SeverityLow, 0.6),
		}},
		{Agent: model.AgentPerformance, Findings: []model.Finding{
			finding("perf-1", "Quadratic rendering pass", "src/render.ts", 5, model.SeverityMedium, 0.8),
		}},
		{Agent: model.AgentDependencies, Findings: []model.Finding{
			finding("dep-1", "Outdated lodash release", "package.json", 0, model.SeverityLow, 0.9),
		}},
		{Agent: model.AgentArchitecture, Findings: nil},
	}

	res := Merge(results)

	if res.Stats.TotalBeforeMerge != 6 {
		t.Errorf("before = %d, want 6", res.Stats.TotalBeforeMerge)
	}
	if res.Stats.TotalAfterMerge != 5 {
		t.Errorf("after = %d, want 5", res.Stats.TotalAfterMerge)
	}
	if res.Stats.CrossAgentDuplicatesRemoved != 1 {
		t.Errorf("removed = %d, want 1", res.Stats.CrossAgentDuplicatesRemoved)
	}

	// Ordering: critical first, then by severity.
	if res.Findings[0].Severity != model.SeverityCritical {
		t.Errorf("first finding severity = %s", res.Findings[0].Severity)
	}
	for i := 1; i < len(res.Findings); i++ {
		if res.Findings[i].Severity > res.Findings[i-1].Severity {
			t.Errorf("findings not sorted by severity at %d", i)
		}
	}
}

// Conservation: after + removed == before, for a mix of inputs.
func TestMergeConservation(t *testing.T) {
	cases := [][]model.AgentResult{
		nil,
		{{Agent: "a", Findings: nil}},
		{{Agent: "a", Findings: []model.Finding{
			finding("1", "Unchecked error return", "x.go", 3, model.SeverityLow, 0.5),
		}}},
		{
			{Agent: "a", Findings: []model.Finding{
				finding("1", "Leaked goroutine in shutdown", "x.go", 3, model.SeverityHigh, 0.5),
				finding("2", "Leaked goroutine in shutdown", "y.go", 3, model.SeverityHigh, 0.5),
			}},
			{Agent: "b", Findings: []model.Finding{
				finding("3", "Leaked goroutine in shutdown", "x.go", 3, model.SeverityHigh, 0.7),
			}},
		},
	}

	for i, results := range cases {
		res := Merge(results)
		if res.Stats.TotalAfterMerge+res.Stats.CrossAgentDuplicatesRemoved != res.Stats.TotalBeforeMerge {
			t.Errorf("case %d: conservation violated: %+v", i, res.Stats)
		}
	}
}

// Consensus bound: 1 <= consensus <= distinct agent count, and
// consensus == len(agents) on every merged finding.
func TestMergeConsensusBounds(t *testing.T) {
	results := []model.AgentResult{
		{Agent: "a", Findings: []model.Finding{
			finding("1", "Hardcoded secret in source", "x.go", 3, model.SeverityHigh, 0.5),
		}},
		{Agent: "b", Findings: []model.Finding{
			finding("2", "Hardcoded secret in source", "x.go", 3, model.SeverityHigh, 0.6),
		}},
		{Agent: "c", Findings: []model.Finding{
			finding("3", "Hardcoded secret in source", "x.go", 3, model.SeverityHigh, 0.7),
			finding("4", "Unrelated naming style", "y.go", 9, model.SeverityLow, 0.4),
		}},
	}

	res := Merge(results)

	for _, mf := range res.Findings {
		if mf.Consensus < 1 || mf.Consensus > 3 {
			t.Errorf("consensus %d out of bounds for %q", mf.Consensus, mf.Title)
		}
		if mf.Consensus != len(mf.Agents) {
			t.Errorf("consensus %d != len(agents) %d for %q", mf.Consensus, len(mf.Agents), mf.Title)
		}
	}

	if res.Findings[0].Consensus != 3 {
		t.Errorf("three-agent duplicate should have consensus 3, got %d", res.Findings[0].Consensus)
	}
}

// Over-merge guard: shared keywords on far-apart lines must not merge, and
// same-line findings with disjoint vocabularies must not merge.
func TestMergeDoesNotOverMerge(t *testing.T) {
	results := []model.AgentResult{
		{Agent: "a", Findings: []model.Finding{
			finding("1", "Hardcoded API Key", "x.go", 10, model.SeverityHigh, 0.9),
			finding("2", "Unused import statement", "y.go", 20, model.SeverityLow, 0.5),
		}},
		{Agent: "b", Findings: []model.Finding{
			finding("3", "Hardcoded timeout constant", "x.go", 300, model.SeverityLow, 0.5),
			finding("4", "Query lacks index coverage", "y.go", 20, model.SeverityMedium, 0.6),
		}},
	}

	res := Merge(results)

	if len(res.Findings) != 4 {
		t.Fatalf("unrelated findings merged: got %d findings, want 4", len(res.Findings))
	}
	if len(res.Patterns) != 0 {
		t.Errorf("no cross-agent patterns expected, got %v", res.Patterns)
	}
}

// Under-merge guard: nearby lines with a shared defect keyword merge even
// when titles differ.
func TestMergeNearbyLinesWithSharedKeyword(t *testing.T) {
	results := []model.AgentResult{
		{Agent: "a", Findings: []model.Finding{
			finding("1", "Unvalidated redirect target", "h.go", 14, model.SeverityHigh, 0.8),
		}},
		{Agent: "b", Findings: []model.Finding{
			finding("2", "Redirect URL built from request input", "h.go", 15, model.SeverityMedium, 0.7),
		}},
	}

	res := Merge(results)

	if len(res.Findings) != 1 {
		t.Fatalf("expected merge of nearby equivalent findings, got %d", len(res.Findings))
	}
	if res.Findings[0].Title != "Unvalidated redirect target" {
		t.Errorf("representative = %q", res.Findings[0].Title)
	}
}

func TestMergeSingletonPassThrough(t *testing.T) {
	results := []model.AgentResult{
		{Agent: "a", Findings: []model.Finding{
			finding("1", "Lone improvement suggestion", "x.go", 7, model.SeverityLow, 0.4),
		}},
	}

	res := Merge(results)

	if len(res.Findings) != 1 {
		t.Fatalf("got %d findings", len(res.Findings))
	}
	mf := res.Findings[0]
	if mf.Consensus != 1 || len(mf.Agents) != 1 || mf.Agents[0] != "a" {
		t.Errorf("singleton metadata wrong: %+v", mf)
	}
	if len(res.Patterns) != 0 {
		t.Errorf("singleton must not produce a pattern")
	}
}

func TestMergeDropsMalformedFindings(t *testing.T) {
	results := []model.AgentResult{
		{Agent: "a", Findings: []model.Finding{
			{Title: "No file attached", Severity: model.SeverityHigh},
			{File: "x.go", Title: "   ", Severity: model.SeverityHigh},
			finding("ok", "Well formed finding", "x.go", 1, model.SeverityLow, 0.5),
		}},
	}

	res := Merge(results)

	if res.Stats.MalformedDropped != 2 {
		t.Errorf("malformed dropped = %d, want 2", res.Stats.MalformedDropped)
	}
	if res.Stats.TotalBeforeMerge != 1 {
		t.Errorf("malformed findings must not count toward before-merge total, got %d", res.Stats.TotalBeforeMerge)
	}
	if len(res.Findings) != 1 {
		t.Errorf("got %d findings, want 1", len(res.Findings))
	}
}

// Merge tolerates a partial agent-results list; fewer agents than the
// roster is not an error.
func TestMergePartialAgentSet(t *testing.T) {
	res := Merge([]model.AgentResult{
		{Agent: model.AgentSecurity, Findings: []model.Finding{
			finding("1", "Solo security note", "x.go", 1, model.SeverityMedium, 0.5),
		}},
	})

	if len(res.Findings) != 1 {
		t.Fatalf("got %d findings", len(res.Findings))
	}
}

func TestMergeDeterministicOrder(t *testing.T) {
	results := []model.AgentResult{
		{Agent: "a", Findings: []model.Finding{
			finding("1", "Low priority cleanup", "b.go", 1, model.SeverityLow, 0.5),
			finding("2", "Crash on nil receiver", "a.go", 2, model.SeverityCritical, 0.9),
			finding("3", "Slow template rendering", "c.go", 3, model.SeverityMedium, 0.6),
			finding("4", "Another low cleanup", "a.go", 9, model.SeverityLow, 0.5),
		}},
	}

	first := Merge(results)
	second := Merge(results)

	for i := range first.Findings {
		if first.Findings[i].ID != second.Findings[i].ID {
			t.Fatalf("non-deterministic order at %d", i)
		}
	}

	wantIDs := []string{"2", "3", "4", "1"} // severity desc, then file, then flatten order
	for i, want := range wantIDs {
		if first.Findings[i].ID != want {
			t.Errorf("position %d = %q, want %q", i, first.Findings[i].ID, want)
		}
	}
}

func TestMergePluggableMatcher(t *testing.T) {
	strict := New(&KeywordMatcher{LineTolerance: 0, MinShared: 2})

	results := []model.AgentResult{
		{Agent: "a", Findings: []model.Finding{
			finding("1", "Unvalidated redirect target", "h.go", 14, model.SeverityHigh, 0.8),
		}},
		{Agent: "b", Findings: []model.Finding{
			finding("2", "Redirect URL built from request input", "h.go", 15, model.SeverityMedium, 0.7),
		}},
	}

	res := strict.Merge(results)
	if len(res.Findings) != 2 {
		t.Errorf("strict matcher should keep findings separate, got %d", len(res.Findings))
	}
}
