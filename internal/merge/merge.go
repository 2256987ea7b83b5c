// Package merge correlates findings across agents into a consensus report.
package merge

import (
	"log"
	"sort"
	"strings"

	"github.com/sprite-ai/prtriage/internal/model"
)

// Result is the merged output for one PR.
type Result struct {
	Findings []model.MergedFinding     `json:"findings"`
	Patterns []model.CrossAgentPattern `json:"cross_agent_patterns"`
	Stats    model.MergeStatistics     `json:"statistics"`
}

// Merger groups equivalent findings across agents.
type Merger struct {
	matcher Matcher
}

// New creates a Merger; a nil matcher selects the default keyword matcher.
func New(matcher Matcher) *Merger {
	if matcher == nil {
		matcher = DefaultMatcher()
	}
	return &Merger{matcher: matcher}
}

// Merge runs the default merger over the agent results.
func Merge(results []model.AgentResult) *Result {
	return New(nil).Merge(results)
}

// entry is one (agent, finding) pair with its flatten position.
type entry struct {
	agent string
	index int
	f     model.Finding
}

// Merge flattens all agent results, groups equivalent findings, and emits
// merged findings, cross-agent patterns, and statistics. Malformed findings
// (missing file or title) are dropped with a warning; a reduced or partial
// agent-results list is handled like any other input.
func (m *Merger) Merge(results []model.AgentResult) *Result {
	var entries []entry
	malformed := 0
	for _, r := range results {
		for _, f := range r.Findings {
			if !f.Valid() {
				malformed++
				log.Printf("merge: dropping malformed finding from %s (id=%q file=%q title=%q)",
					r.Agent, f.ID, f.File, f.Title)
				continue
			}
			f.Agent = r.Agent
			entries = append(entries, entry{agent: r.Agent, index: len(entries), f: f})
		}
	}

	groups := m.group(entries)

	var findings []model.MergedFinding
	var patterns []model.CrossAgentPattern
	for _, g := range groups {
		merged := m.represent(g)
		findings = append(findings, merged)
		if merged.Consensus >= 2 {
			patterns = append(patterns, m.pattern(g, merged))
		}
	}

	// Deterministic order: severity (critical first), then file path, then
	// original flatten position of the group's first member.
	firstIndex := make(map[int]int, len(groups))
	for gi, g := range groups {
		firstIndex[gi] = g[0].index
	}
	order := make([]int, len(findings))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool {
		a, b := findings[order[x]], findings[order[y]]
		if a.Severity != b.Severity {
			return a.Severity > b.Severity
		}
		if a.File != b.File {
			return a.File < b.File
		}
		return firstIndex[order[x]] < firstIndex[order[y]]
	})
	sorted := make([]model.MergedFinding, len(findings))
	for i, idx := range order {
		sorted[i] = findings[idx]
	}

	return &Result{
		Findings: sorted,
		Patterns: patterns,
		Stats: model.MergeStatistics{
			TotalBeforeMerge:            len(entries),
			TotalAfterMerge:             len(sorted),
			CrossAgentDuplicatesRemoved: len(entries) - len(sorted),
			MalformedDropped:            malformed,
		},
	}
}

// group partitions entries into equivalence groups. A candidate joins the
// first group where it matches any member.
func (m *Merger) group(entries []entry) [][]entry {
	var groups [][]entry
outer:
	for _, e := range entries {
		for gi, g := range groups {
			for _, member := range g {
				if m.matcher.Match(member.f, e.f) {
					groups[gi] = append(groups[gi], e)
					continue outer
				}
			}
		}
		groups = append(groups, []entry{e})
	}
	return groups
}

// represent picks the group's representative finding and fills in the
// consensus metadata. Representative = highest severity, then highest
// confidence, then first seen.
func (m *Merger) represent(g []entry) model.MergedFinding {
	rep := g[0]
	for _, e := range g[1:] {
		if e.f.Severity > rep.f.Severity ||
			(e.f.Severity == rep.f.Severity && e.f.Confidence > rep.f.Confidence) {
			rep = e
		}
	}

	var agents []string
	seen := make(map[string]bool)
	for _, e := range g {
		if !seen[e.agent] {
			seen[e.agent] = true
			agents = append(agents, e.agent)
		}
	}

	return model.MergedFinding{
		Finding:   rep.f,
		Consensus: len(agents),
		Agents:    agents,
	}
}

// pattern names a cross-agent group after the keywords all its members
// share, falling back to the representative's normalized title when the
// members matched on identity rather than keywords.
func (m *Merger) pattern(g []entry, merged model.MergedFinding) model.CrossAgentPattern {
	shared := m.matcher.Keywords(g[0].f)
	for _, e := range g[1:] {
		shared = sharedKeywords(shared, m.matcher.Keywords(e.f))
	}

	label := strings.Join(shared, "+")
	if label == "" {
		label = merged.NormalTitle()
	}

	var ids []string
	for _, e := range g {
		if e.f.ID != "" {
			ids = append(ids, e.f.ID)
		}
	}

	return model.CrossAgentPattern{
		Label:      label,
		Agents:     merged.Agents,
		FindingIDs: ids,
	}
}
