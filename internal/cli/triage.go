package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/prtriage/internal/ingest"
	"github.com/sprite-ai/prtriage/internal/pipeline"
	"github.com/sprite-ai/prtriage/internal/tui"
)

var triageCmd = &cobra.Command{
	Use:   "triage <dir|file...>",
	Short: "Browse merged findings interactively",
	Long: `Load agent result files, merge them, and open an interactive browser
for the merged findings.

Examples:
  prtriage triage results/
  prtriage triage security.findings.json performance.findings.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTriage,
}

func init() {
	triageCmd.Flags().StringP("output-report", "o", "", "write exported markdown report to file")
}

func runTriage(cmd *cobra.Command, args []string) error {
	results, err := ingest.LoadAll(args)
	if err != nil {
		return err
	}

	combined := pipeline.Combine(results, pipeline.CombineOptions{
		Matcher:      configuredMatcher(),
		MaxResultAge: configuredMaxResultAge(),
	})

	if len(combined.Findings) == 0 {
		fmt.Println("No findings to triage.")
		return nil
	}

	report, err := tui.Run(combined)
	if err != nil {
		return err
	}

	reportPath, _ := cmd.Flags().GetString("output-report")
	if reportPath != "" && report != "" {
		if err := os.WriteFile(reportPath, []byte(report), 0644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", reportPath)
	}

	return nil
}
