// Package model defines the core data types shared across prtriage.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Severity ranks how serious a finding is.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	case SeverityLow:
		return "low"
	default:
		return "unknown"
	}
}

// ParseSeverity maps a severity string to its level. Unrecognized values
// parse as low rather than failing, since agent output is untrusted.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return SeverityCritical
	case "high":
		return SeverityHigh
	case "medium":
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// MarshalJSON implements json.Marshaler.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = ParseSeverity(str)
	return nil
}

// FindingType categorizes what kind of issue a finding reports.
type FindingType int

const (
	TypeIssue FindingType = iota
	TypeVulnerability
	TypeImprovement
)

func (t FindingType) String() string {
	switch t {
	case TypeVulnerability:
		return "vulnerability"
	case TypeImprovement:
		return "improvement"
	default:
		return "issue"
	}
}

// ParseFindingType maps a type string to a FindingType, defaulting to issue.
func ParseFindingType(s string) FindingType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vulnerability":
		return TypeVulnerability
	case "improvement":
		return TypeImprovement
	default:
		return TypeIssue
	}
}

// MarshalJSON implements json.Marshaler.
func (t FindingType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *FindingType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = ParseFindingType(str)
	return nil
}

// FileCategory classifies a changed file by its role in the repository.
type FileCategory int

const (
	CategoryUnknown FileCategory = iota
	CategoryCode
	CategoryTest
	CategoryDocs
	CategoryConfig
	CategoryInfra
	CategoryStyle
)

func (c FileCategory) String() string {
	switch c {
	case CategoryCode:
		return "code"
	case CategoryTest:
		return "test"
	case CategoryDocs:
		return "docs"
	case CategoryConfig:
		return "config"
	case CategoryInfra:
		return "infra"
	case CategoryStyle:
		return "style"
	default:
		return "unknown"
	}
}

// ChangedFile is one file from a PR diff. Immutable once ingested.
type ChangedFile struct {
	Path      string `json:"path"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Patch     string `json:"patch,omitempty"` // unified diff hunk text
}

// Signal tags attached by the change-signal extractor.
const (
	SignalSecuritySensitive = "security-sensitive"
	SignalAIML              = "ai-ml"
	SignalSQL               = "sql"
	SignalUIOnly            = "ui-only"
	SignalDependency        = "dependency"
	SignalSchema            = "schema"
)

// ChangeSignal is a domain signal detected in a file's added lines.
type ChangeSignal struct {
	Tag    string `json:"tag"`
	File   string `json:"file"`
	Detail string `json:"detail,omitempty"` // e.g. the matched line or dependency name
}

// Known agent names. The roster is configuration; these are the defaults.
const (
	AgentCodeQuality  = "code_quality"
	AgentSecurity     = "security"
	AgentPerformance  = "performance"
	AgentDependencies = "dependencies"
	AgentArchitecture = "architecture"
)

// DefaultRoster returns the default agent roster in priority order.
func DefaultRoster() []string {
	return []string{
		AgentCodeQuality,
		AgentSecurity,
		AgentPerformance,
		AgentDependencies,
		AgentArchitecture,
	}
}

// AgentDecision records whether one agent should run for a PR, and why.
type AgentDecision struct {
	Agent  string `json:"agent"`
	Run    bool   `json:"run"`
	Reason string `json:"reason"`
}

// Finding is a single result produced by one analysis agent.
// Findings are value objects; identity for dedup purposes is derived from
// (file, line, normalized title), never from ID.
type Finding struct {
	ID          string      `json:"id,omitempty"`
	Type        FindingType `json:"type"`
	Severity    Severity    `json:"severity"`
	Category    string      `json:"category,omitempty"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	File        string      `json:"file"`
	Line        *int        `json:"line,omitempty"` // nil = file-level
	Confidence  float64     `json:"confidence,omitempty"`
	Agent       string      `json:"agent,omitempty"`
}

func (f Finding) String() string {
	loc := f.File
	if f.Line != nil {
		loc = fmt.Sprintf("%s:%d", f.File, *f.Line)
	}
	return fmt.Sprintf("[%s/%s] %s: %s", f.Agent, f.Severity, loc, f.Title)
}

// SameLine reports whether two findings reference the same line, treating
// two absent lines as equal and an absent line as matching nothing else.
func (f Finding) SameLine(other Finding) bool {
	if f.Line == nil || other.Line == nil {
		return f.Line == nil && other.Line == nil
	}
	return *f.Line == *other.Line
}

// NormalTitle returns the title lowercased with whitespace collapsed,
// the canonical form used for duplicate detection.
func (f Finding) NormalTitle() string {
	return strings.Join(strings.Fields(strings.ToLower(f.Title)), " ")
}

// Valid reports whether the finding carries the fields merge requires.
func (f Finding) Valid() bool {
	return f.File != "" && strings.TrimSpace(f.Title) != ""
}

// AgentResult is one agent's complete output for a PR.
type AgentResult struct {
	Agent       string    `json:"agent"`
	GeneratedAt time.Time `json:"generated_at,omitzero"`
	Findings    []Finding `json:"findings"`
}

// MergedFinding wraps a representative finding with cross-agent consensus.
// Invariant: Consensus == len(Agents) >= 1.
type MergedFinding struct {
	Finding
	Consensus int      `json:"consensus"`
	Agents    []string `json:"agents"`
}

// CrossAgentPattern names a group of equivalent findings reported by two
// or more distinct agents.
type CrossAgentPattern struct {
	Label      string   `json:"label"`
	Agents     []string `json:"agents"`
	FindingIDs []string `json:"finding_ids,omitempty"`
}

// MergeStatistics counts merge inputs and outputs for observability.
// Invariant: TotalAfterMerge + CrossAgentDuplicatesRemoved == TotalBeforeMerge.
type MergeStatistics struct {
	TotalBeforeMerge            int `json:"total_before_merge"`
	TotalAfterMerge             int `json:"total_after_merge"`
	CrossAgentDuplicatesRemoved int `json:"cross_agent_duplicates_removed"`
	MalformedDropped            int `json:"malformed_dropped,omitempty"`
}

// IntPtr is a convenience for building optional line numbers.
func IntPtr(n int) *int { return &n }
