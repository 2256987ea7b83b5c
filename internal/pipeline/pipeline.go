// Package pipeline composes classification, routing, dedup, and merge into
// the two entry points callers use: Plan (before agents run) and Combine
// (after agents report).
package pipeline

import (
	"sync"
	"time"

	"github.com/sprite-ai/prtriage/internal/classify"
	"github.com/sprite-ai/prtriage/internal/dedupe"
	"github.com/sprite-ai/prtriage/internal/merge"
	"github.com/sprite-ai/prtriage/internal/model"
	"github.com/sprite-ai/prtriage/internal/route"
	"github.com/sprite-ai/prtriage/internal/signal"
)

// Plan is the pre-agent routing decision for one PR.
type Plan struct {
	Decisions  []model.AgentDecision         `json:"decisions"`
	Categories map[string]model.FileCategory `json:"-"`
	Signals    []model.ChangeSignal          `json:"signals,omitempty"`
}

// Agents returns the names of agents the plan keeps.
func (p *Plan) Agents() []string {
	var out []string
	for _, d := range p.Decisions {
		if d.Run {
			out = append(out, d.Agent)
		}
	}
	return out
}

// MakePlan classifies the changed files, extracts change signals, and
// routes the roster. The returned plan gates which agents the caller
// actually invokes.
func MakePlan(files []model.ChangedFile, roster []string) (*Plan, error) {
	categories := classify.Files(files)
	signals := signal.ExtractAll(files)

	decisions, err := route.Route(route.Input{
		Files:      files,
		Categories: categories,
		Signals:    signals,
		Roster:     roster,
	})
	if err != nil {
		return nil, err
	}

	return &Plan{Decisions: decisions, Categories: categories, Signals: signals}, nil
}

// CombineOptions tune the post-agent half of the pipeline.
type CombineOptions struct {
	// Matcher overrides the cross-agent similarity strategy; nil selects
	// the default keyword matcher.
	Matcher merge.Matcher
	// MaxResultAge marks agent results older than this as stale. Zero
	// disables the check.
	MaxResultAge time.Duration
	// Now is the clock for staleness checks; nil uses time.Now.
	Now func() time.Time
}

// Combined is the pipeline's final output for one PR.
type Combined struct {
	*merge.Result
	// WithinAgentRemoved counts duplicates collapsed inside individual
	// agents before the cross-agent merge.
	WithinAgentRemoved int `json:"within_agent_removed"`
	// StaleAgents lists agents whose results exceeded MaxResultAge. They
	// are merged anyway; re-triggering is the caller's call.
	StaleAgents []string `json:"stale_agents,omitempty"`
}

// Combine dedupes each agent's findings, then merges across agents.
// Per-agent dedup has no cross-agent visibility, so it fans out across
// goroutines; the merge is the single-threaded barrier step.
func Combine(results []model.AgentResult, opts CombineOptions) *Combined {
	deduped := make([]model.AgentResult, len(results))
	removed := make([]int, len(results))

	var wg sync.WaitGroup
	for i, r := range results {
		wg.Add(1)
		go func(i int, r model.AgentResult) {
			defer wg.Done()
			findings, n := dedupe.Dedupe(r.Findings)
			deduped[i] = model.AgentResult{
				Agent:       r.Agent,
				GeneratedAt: r.GeneratedAt,
				Findings:    findings,
			}
			removed[i] = n
		}(i, r)
	}
	wg.Wait()

	totalRemoved := 0
	for _, n := range removed {
		totalRemoved += n
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	var stale []string
	if opts.MaxResultAge > 0 {
		cutoff := now().Add(-opts.MaxResultAge)
		for _, r := range results {
			if !r.GeneratedAt.IsZero() && r.GeneratedAt.Before(cutoff) {
				stale = append(stale, r.Agent)
			}
		}
	}

	return &Combined{
		Result:             merge.New(opts.Matcher).Merge(deduped),
		WithinAgentRemoved: totalRemoved,
		StaleAgents:        stale,
	}
}
