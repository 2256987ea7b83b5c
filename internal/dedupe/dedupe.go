// Package dedupe collapses duplicate findings within a single agent's output.
package dedupe

import (
	"fmt"

	"github.com/sprite-ai/prtriage/internal/model"
)

// Dedupe removes duplicates from one agent's findings. Two findings are
// duplicates iff they share a file, the same line (or both are file-level),
// and the same whitespace-collapsed case-insensitive title. The survivor is
// the highest-confidence copy, first seen on ties, and keeps the position
// of the group's first occurrence, so non-duplicates are never reordered.
func Dedupe(findings []model.Finding) ([]model.Finding, int) {
	if len(findings) < 2 {
		return findings, 0
	}

	type slot struct {
		index   int // position in the output
		best    model.Finding
	}

	seen := make(map[string]*slot, len(findings))
	var order []string
	removed := 0

	for _, f := range findings {
		key := dupKey(f)
		if s, ok := seen[key]; ok {
			removed++
			if f.Confidence > s.best.Confidence {
				s.best = f
			}
			continue
		}
		seen[key] = &slot{index: len(order), best: f}
		order = append(order, key)
	}

	out := make([]model.Finding, len(order))
	for _, key := range order {
		s := seen[key]
		out[s.index] = s.best
	}
	return out, removed
}

func dupKey(f model.Finding) string {
	line := -1
	if f.Line != nil {
		line = *f.Line
	}
	return fmt.Sprintf("%s\x00%d\x00%s", f.File, line, f.NormalTitle())
}
