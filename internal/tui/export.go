package tui

import (
	"fmt"
	"strings"

	"github.com/sprite-ai/prtriage/internal/pipeline"
)

// BuildReport renders a combined report as markdown, suitable for pasting
// into a PR comment.
func BuildReport(c *pipeline.Combined) string {
	var b strings.Builder

	s := c.Stats
	b.WriteString("## Merged Findings\n\n")
	fmt.Fprintf(&b, "**%d** finding(s) from **%d** raw (%d cross-agent duplicates removed, %d within-agent)\n\n",
		s.TotalAfterMerge, s.TotalBeforeMerge, s.CrossAgentDuplicatesRemoved, c.WithinAgentRemoved)

	if len(c.StaleAgents) > 0 {
		fmt.Fprintf(&b, "> Stale results: %s\n\n", strings.Join(c.StaleAgents, ", "))
	}

	if len(c.Findings) == 0 {
		b.WriteString("No findings.\n")
		return b.String()
	}

	var files []string
	seen := make(map[string]bool)
	for _, f := range c.Findings {
		if !seen[f.File] {
			seen[f.File] = true
			files = append(files, f.File)
		}
	}

	for _, file := range files {
		fmt.Fprintf(&b, "### `%s`\n\n", file)
		for _, f := range c.Findings {
			if f.File != file {
				continue
			}
			loc := ""
			if f.Line != nil {
				loc = fmt.Sprintf(" (line %d)", *f.Line)
			}
			fmt.Fprintf(&b, "- **%s**%s — %s", strings.ToUpper(f.Severity.String()), loc, f.Title)
			if f.Consensus >= 2 {
				fmt.Fprintf(&b, " _(agreed by %s)_", strings.Join(f.Agents, ", "))
			}
			b.WriteByte('\n')
			if f.Description != "" {
				for _, line := range strings.Split(f.Description, "\n") {
					fmt.Fprintf(&b, "  %s\n", line)
				}
			}
		}
		b.WriteByte('\n')
	}

	if len(c.Patterns) > 0 {
		b.WriteString("\n### Cross-agent patterns\n\n")
		for _, p := range c.Patterns {
			fmt.Fprintf(&b, "- `%s` — %s\n", p.Label, strings.Join(p.Agents, ", "))
		}
	}

	return b.String()
}
