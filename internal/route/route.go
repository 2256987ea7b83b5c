// Package route decides which analysis agents are worth running for a PR.
package route

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sprite-ai/prtriage/internal/classify"
	"github.com/sprite-ai/prtriage/internal/model"
	"github.com/sprite-ai/prtriage/internal/signal"
)

// ErrEmptyRoster is returned when Route is called without any agents
// configured. This is a configuration error, not a data error.
var ErrEmptyRoster = errors.New("empty agent roster")

// Decision reasons. Skips carry the rule that flipped the agent off;
// overrides carry the signal that forced it back on.
const (
	ReasonDefault          = "default"
	ReasonNoChanges        = "no-changes"
	ReasonDocsOnly         = "docs-only change"
	ReasonDocsMinimalCheck = "minimal check for docs-only change"
	ReasonTestOnly         = "test-only change"
	ReasonFrontendOnly     = "frontend-only change, no backend signal"
	ReasonNoManifest       = "no dependency manifest changed"
	ReasonSecuritySignal   = "security-sensitive/ai-ml signal detected"
	ReasonDependencySignal = "dependency change detected"
	ReasonSchemaSignal     = "schema change detected"
)

// Input bundles everything the router folds over.
type Input struct {
	Files      []model.ChangedFile
	Categories map[string]model.FileCategory
	Signals    []model.ChangeSignal
	Roster     []string
}

// state is the router's accumulator: one pending decision per roster agent.
type state map[string]model.AgentDecision

func (s state) skip(agent, reason string) {
	if d, ok := s[agent]; ok && d.Run {
		d.Run = false
		d.Reason = reason
		s[agent] = d
	}
}

func (s state) keep(agent, reason string) {
	if d, ok := s[agent]; ok {
		d.Run = true
		d.Reason = reason
		s[agent] = d
	}
}

func (s state) skipAllExcept(keep map[string]string, reason string) {
	for agent := range s {
		if keepReason, ok := keep[agent]; ok {
			s.keep(agent, keepReason)
		} else {
			s.skip(agent, reason)
		}
	}
}

// rule is one step of the routing fold. Rules run in declaration order;
// a later keep always overrides an earlier skip.
type rule struct {
	name  string
	apply func(in Input, s state)
}

var rules = []rule{
	{"docs-only", func(in Input, s state) {
		if classify.AllAre(in.Categories, model.CategoryDocs) {
			s.skipAllExcept(map[string]string{
				model.AgentCodeQuality: ReasonDocsMinimalCheck,
			}, ReasonDocsOnly)
		}
	}},
	{"test-only", func(in Input, s state) {
		if classify.AllAre(in.Categories, model.CategoryTest) {
			s.skip(model.AgentSecurity, ReasonTestOnly)
			s.skip(model.AgentPerformance, ReasonTestOnly)
			s.skip(model.AgentDependencies, ReasonTestOnly)
			s.skip(model.AgentArchitecture, ReasonTestOnly)
		}
	}},
	{"frontend-only", func(in Input, s state) {
		if frontendOnly(in) {
			s.skip(model.AgentSecurity, ReasonFrontendOnly)
			s.skip(model.AgentDependencies, ReasonFrontendOnly)
		}
	}},
	{"no-manifest", func(in Input, s state) {
		if !classify.AnyIs(in.Categories, model.CategoryConfig) &&
			!signal.HasTag(in.Signals, model.SignalDependency) {
			s.skip(model.AgentDependencies, ReasonNoManifest)
		}
	}},
	// Signal overrides run last: signals win over categories.
	{"security-override", func(in Input, s state) {
		if signal.HasTag(in.Signals, model.SignalSecuritySensitive) ||
			signal.HasTag(in.Signals, model.SignalAIML) {
			s.keep(model.AgentSecurity, ReasonSecuritySignal)
		}
	}},
	{"dependency-override", func(in Input, s state) {
		if signal.HasTag(in.Signals, model.SignalDependency) {
			s.keep(model.AgentDependencies, ReasonDependencySignal)
		}
	}},
	{"schema-override", func(in Input, s state) {
		if signal.HasTag(in.Signals, model.SignalSchema) {
			s.keep(model.AgentArchitecture, ReasonSchemaSignal)
		}
	}},
}

// Route folds the skip rules and signal overrides over the roster and
// returns exactly one decision per roster entry, in roster order.
func Route(in Input) ([]model.AgentDecision, error) {
	if err := validRoster(in.Roster); err != nil {
		return nil, err
	}

	// Empty change set: nothing to analyze, skip everything. Not an error.
	if len(in.Files) == 0 {
		out := make([]model.AgentDecision, 0, len(in.Roster))
		for _, agent := range in.Roster {
			out = append(out, model.AgentDecision{Agent: agent, Run: false, Reason: ReasonNoChanges})
		}
		return out, nil
	}

	s := make(state, len(in.Roster))
	for _, agent := range in.Roster {
		s[agent] = model.AgentDecision{Agent: agent, Run: true, Reason: ReasonDefault}
	}

	for _, r := range rules {
		r.apply(in, s)
	}

	out := make([]model.AgentDecision, 0, len(in.Roster))
	for _, agent := range in.Roster {
		out = append(out, s[agent])
	}
	return out, nil
}

func validRoster(roster []string) error {
	if len(roster) == 0 {
		return ErrEmptyRoster
	}
	seen := make(map[string]bool, len(roster))
	for _, agent := range roster {
		if strings.TrimSpace(agent) == "" {
			return fmt.Errorf("invalid roster: blank agent name")
		}
		if seen[agent] {
			return fmt.Errorf("invalid roster: duplicate agent %q", agent)
		}
		seen[agent] = true
	}
	return nil
}

// frontendOnly reports whether every changed file is a style file or a
// frontend code file whose additions carry no backend keywords, with no
// backend-ish signal anywhere in the PR.
func frontendOnly(in Input) bool {
	if len(in.Files) == 0 {
		return false
	}
	for _, tag := range []string{model.SignalSecuritySensitive, model.SignalAIML, model.SignalSQL, model.SignalSchema, model.SignalDependency} {
		if signal.HasTag(in.Signals, tag) {
			return false
		}
	}

	uiFiles := make(map[string]bool)
	for _, s := range in.Signals {
		if s.Tag == model.SignalUIOnly {
			uiFiles[s.File] = true
		}
	}

	for _, f := range in.Files {
		if in.Categories[f.Path] == model.CategoryStyle {
			continue
		}
		if !uiFiles[f.Path] {
			return false
		}
	}
	return true
}
