package merge

import (
	"strings"

	"github.com/sprite-ai/prtriage/internal/model"
)

// Matcher decides whether two findings from different agents describe the
// same underlying issue. It is a pluggable strategy so the similarity rule
// can be swapped without touching merge orchestration.
type Matcher interface {
	// Match reports whether a and b are equivalent findings.
	Match(a, b model.Finding) bool
	// Keywords returns the meaningful words of a finding's title and
	// description, used to label cross-agent patterns.
	Keywords(f model.Finding) []string
}

// Words too generic to indicate a shared defect class.
var stopwords = map[string]bool{
	"this": true, "that": true, "with": true, "from": true, "into": true,
	"when": true, "should": true, "could": true, "would": true, "have": true,
	"been": true, "being": true, "there": true, "their": true, "your": true,
	"file": true, "line": true, "code": true, "issue": true, "found": true,
	"detected": true, "possible": true, "potential": true, "warning": true,
	"error": true, "problem": true, "change": true, "changes": true,
	"missing": true, "value": true, "values": true, "used": true, "using": true,
}

// KeywordMatcher matches findings on the same file by exact line+title
// identity, or by shared meaningful keywords when lines are compatible.
type KeywordMatcher struct {
	// LineTolerance is the maximum distance between two present line
	// numbers for the keyword rule to apply.
	LineTolerance int
	// MinShared is how many meaningful keywords two findings must share
	// before differing titles are considered the same issue.
	MinShared int
}

// DefaultMatcher returns the matcher used when none is configured.
func DefaultMatcher() *KeywordMatcher {
	return &KeywordMatcher{LineTolerance: 2, MinShared: 1}
}

// Match implements Matcher.
func (m *KeywordMatcher) Match(a, b model.Finding) bool {
	if a.File != b.File {
		return false
	}

	// Primary rule: same line (or both file-level) and identical
	// normalized titles.
	if a.SameLine(b) && a.NormalTitle() == b.NormalTitle() {
		return true
	}

	// Secondary rule: lines compatible within tolerance and enough
	// shared keywords. A file-level finding is line-compatible with
	// anything in the same file.
	if !m.linesCompatible(a, b) {
		return false
	}
	return len(sharedKeywords(m.Keywords(a), m.Keywords(b))) >= m.minShared()
}

// Keywords implements Matcher.
func (m *KeywordMatcher) Keywords(f model.Finding) []string {
	seen := make(map[string]bool)
	var out []string
	for _, w := range strings.Fields(strings.ToLower(f.Title + " " + f.Description)) {
		w = strings.Trim(w, `.,:;()[]{}"'`)
		if len(w) < 4 || stopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

func (m *KeywordMatcher) minShared() int {
	if m.MinShared < 1 {
		return 1
	}
	return m.MinShared
}

func (m *KeywordMatcher) linesCompatible(a, b model.Finding) bool {
	if a.Line == nil || b.Line == nil {
		return true
	}
	d := *a.Line - *b.Line
	if d < 0 {
		d = -d
	}
	return d <= m.LineTolerance
}

// sharedKeywords returns the keywords present in both lists, in the order
// of the first list.
func sharedKeywords(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, w := range b {
		inB[w] = true
	}
	var out []string
	for _, w := range a {
		if inB[w] {
			out = append(out, w)
		}
	}
	return out
}
