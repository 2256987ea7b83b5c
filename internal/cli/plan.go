package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/prtriage/internal/diff"
	"github.com/sprite-ai/prtriage/internal/pipeline"
)

var planCmd = &cobra.Command{
	Use:   "plan [commit-range]",
	Short: "Decide which agents should run for a diff",
	Long: `Classify the changed files, extract change signals, and print the
run/skip decision for each agent in the roster.

Examples:
  prtriage plan                     # HEAD vs parent
  prtriage plan main...HEAD         # branch vs main
  git diff | prtriage plan -        # pipe any diff`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringP("format", "f", "text", "output format: text, json, markdown")
	planCmd.Flags().IntP("context", "C", 3, "lines of context around changes")
}

func runPlan(cmd *cobra.Command, args []string) error {
	contextLines, _ := cmd.Flags().GetInt("context")

	raw, err := getDiff(args, contextLines)
	if err != nil {
		return err
	}

	ds, err := diff.Parse(raw)
	if err != nil {
		return err
	}

	plan, err := pipeline.MakePlan(ds.Changed(), configuredRoster())
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	case "markdown":
		return printPlanMarkdown(plan)
	default:
		return printPlanText(plan)
	}
}

func printPlanText(plan *pipeline.Plan) error {
	for _, d := range plan.Decisions {
		verdict := "skip"
		if d.Run {
			verdict = "run "
		}
		fmt.Printf("  %s %-14s %s\n", verdict, d.Agent, d.Reason)
	}

	if len(plan.Signals) > 0 {
		fmt.Println()
		for _, s := range plan.Signals {
			detail := ""
			if s.Detail != "" {
				detail = ": " + s.Detail
			}
			fmt.Printf("  signal %-20s %s%s\n", s.Tag, s.File, detail)
		}
	}
	return nil
}

func printPlanMarkdown(plan *pipeline.Plan) error {
	fmt.Println("| Agent | Run | Reason |")
	fmt.Println("|-------|-----|--------|")
	for _, d := range plan.Decisions {
		fmt.Printf("| %s | %v | %s |\n", d.Agent, d.Run, d.Reason)
	}
	return nil
}

func getDiff(args []string, contextLines int) (string, error) {
	// Read from stdin if "-" is passed
	if len(args) == 1 && args[0] == "-" {
		data, err := os.ReadFile("/dev/stdin")
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	repoDir, err := gitRepoRoot()
	if err != nil {
		return "", fmt.Errorf("not in a git repository (or git not installed): %w", err)
	}

	if len(args) == 1 {
		return diff.GitDiffRange(repoDir, args[0], contextLines)
	}

	return diff.GitDiffHead(repoDir, contextLines)
}

func gitRepoRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
