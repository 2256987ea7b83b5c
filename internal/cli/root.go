// Package cli implements the prtriage command tree.
package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sprite-ai/prtriage/internal/merge"
	"github.com/sprite-ai/prtriage/internal/model"
)

var rootCmd = &cobra.Command{
	Use:   "prtriage",
	Short: "Route PR-analysis agents and merge their findings",
	Long: `prtriage decides which analysis agents are worth running for a diff
and merges the findings independent agents produce into one deduplicated,
consensus-annotated report.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .prtriage.yaml)")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(triageCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if configFile, _ := rootCmd.PersistentFlags().GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".prtriage")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	viper.SetEnvPrefix("PRTRIAGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("roster", model.DefaultRoster())
	viper.SetDefault("merge.line-tolerance", 2)
	viper.SetDefault("merge.min-shared-keywords", 1)
	viper.SetDefault("merge.max-result-age", "168h")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: reading config: %v\n", err)
		}
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func configuredRoster() []string {
	return viper.GetStringSlice("roster")
}

func configuredMatcher() *merge.KeywordMatcher {
	return &merge.KeywordMatcher{
		LineTolerance: viper.GetInt("merge.line-tolerance"),
		MinShared:     viper.GetInt("merge.min-shared-keywords"),
	}
}

func configuredMaxResultAge() time.Duration {
	d, err := time.ParseDuration(viper.GetString("merge.max-result-age"))
	if err != nil {
		return 0
	}
	return d
}
