package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/prtriage/internal/ingest"
	"github.com/sprite-ai/prtriage/internal/model"
	"github.com/sprite-ai/prtriage/internal/pipeline"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <dir|file...>",
	Short: "Merge agent result files into one report",
	Long: `Load agent result files (*.findings.json), deduplicate each agent's
findings, and merge equivalent findings across agents into a single
consensus-annotated report.

Examples:
  prtriage merge results/
  prtriage merge security.findings.json code_quality.findings.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringP("format", "f", "text", "output format: text, json, markdown")
}

func runMerge(cmd *cobra.Command, args []string) error {
	results, err := ingest.LoadAll(args)
	if err != nil {
		return err
	}

	combined := pipeline.Combine(results, pipeline.CombineOptions{
		Matcher:      configuredMatcher(),
		MaxResultAge: configuredMaxResultAge(),
	})

	for _, agent := range combined.StaleAgents {
		fmt.Fprintf(os.Stderr, "Warning: results from %s are older than %s; consider re-running it\n",
			agent, configuredMaxResultAge())
	}

	format, _ := cmd.Flags().GetString("format")
	return printCombined(combined, format)
}

func printCombined(c *pipeline.Combined, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	case "markdown":
		return printCombinedMarkdown(c)
	default:
		return printCombinedText(c)
	}
}

func printCombinedText(c *pipeline.Combined) error {
	s := c.Stats
	fmt.Printf("%d finding(s) in, %d out (%d cross-agent duplicates removed, %d within-agent)\n\n",
		s.TotalBeforeMerge, s.TotalAfterMerge, s.CrossAgentDuplicatesRemoved, c.WithinAgentRemoved)

	if len(c.Findings) == 0 {
		fmt.Println("No findings.")
		return nil
	}

	for _, f := range c.Findings {
		loc := f.File
		if f.Line != nil {
			loc = fmt.Sprintf("%s:%d", f.File, *f.Line)
		}
		fmt.Printf("  %s [%s] %s: %s\n", severityIcon(f.Severity), f.Severity, loc, f.Title)
		if f.Consensus >= 2 {
			fmt.Printf("       agreed by %s\n", strings.Join(f.Agents, ", "))
		}
	}

	if len(c.Patterns) > 0 {
		fmt.Println()
		for _, p := range c.Patterns {
			fmt.Printf("  pattern %-30s %s\n", p.Label, strings.Join(p.Agents, ", "))
		}
	}
	return nil
}

func printCombinedMarkdown(c *pipeline.Combined) error {
	s := c.Stats
	fmt.Printf("## Merged Findings\n\n")
	fmt.Printf("**%d** before merge, **%d** after (**%d** duplicates removed)\n\n",
		s.TotalBeforeMerge, s.TotalAfterMerge, s.CrossAgentDuplicatesRemoved)

	if len(c.Findings) == 0 {
		fmt.Println("No findings.")
		return nil
	}

	fmt.Println("| Severity | Location | Title | Consensus | Agents |")
	fmt.Println("|----------|----------|-------|-----------|--------|")
	for _, f := range c.Findings {
		loc := f.File
		if f.Line != nil {
			loc = fmt.Sprintf("%s:%d", f.File, *f.Line)
		}
		fmt.Printf("| %s | `%s` | %s | %d | %s |\n",
			f.Severity, loc, f.Title, f.Consensus, strings.Join(f.Agents, ", "))
	}
	return nil
}

func severityIcon(s model.Severity) string {
	switch s {
	case model.SeverityCritical:
		return "!!"
	case model.SeverityHigh:
		return "! "
	case model.SeverityMedium:
		return "* "
	default:
		return "- "
	}
}
