package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/prtriage/internal/diff"
	"github.com/sprite-ai/prtriage/internal/ingest"
	"github.com/sprite-ai/prtriage/internal/model"
	"github.com/sprite-ai/prtriage/internal/pipeline"
	"github.com/sprite-ai/prtriage/internal/route"
)

var checkCmd = &cobra.Command{
	Use:   "check [commit-range]",
	Short: "Plan and merge in one run (non-interactive)",
	Long: `Route the diff and, when agent results are supplied, merge them.
Useful for CI and pre-merge hooks.

Exit codes:
  0 — clean
  1 — high or critical merged findings
  2 — configuration error (empty roster, bad config)`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringP("results", "r", "", "directory of agent result files to merge")
	checkCmd.Flags().StringP("format", "f", "text", "output format: text, json, markdown")
}

func runCheck(cmd *cobra.Command, args []string) error {
	raw, err := getDiff(args, 3)
	if err != nil {
		return err
	}

	ds, err := diff.Parse(raw)
	if err != nil {
		return err
	}

	plan, err := pipeline.MakePlan(ds.Changed(), configuredRoster())
	if err != nil {
		if errors.Is(err, route.ErrEmptyRoster) {
			fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
			os.Exit(2)
		}
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if format == "text" {
		if err := printPlanText(plan); err != nil {
			return err
		}
		fmt.Println()
	}

	resultsDir, _ := cmd.Flags().GetString("results")
	if resultsDir == "" {
		return nil
	}

	results, err := ingest.LoadDir(resultsDir)
	if err != nil {
		return err
	}

	combined := pipeline.Combine(results, pipeline.CombineOptions{
		Matcher:      configuredMatcher(),
		MaxResultAge: configuredMaxResultAge(),
	})

	if err := printCombined(combined, format); err != nil {
		return err
	}

	for _, f := range combined.Findings {
		if f.Severity >= model.SeverityHigh {
			os.Exit(1)
		}
	}
	return nil
}
