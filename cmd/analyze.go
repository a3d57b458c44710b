package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyamamo/issue-trends/internal/gateway"
	"github.com/hyamamo/issue-trends/internal/logging"
	"github.com/hyamamo/issue-trends/internal/usecase"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyzes repository issue activity and outputs as JSON",
	Long:  `Fetches issues for the specified GitHub repositories, buckets them into weekly open/closed and bug/other counts, and outputs the result in JSON format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := logging.Discard()
		if verbose {
			logger = logging.NewLogger(logging.Config{Level: "debug", Format: "text", Output: os.Stderr})
		}

		repos, _ := cmd.Flags().GetStringSlice("repos")
		months, _ := cmd.Flags().GetInt("months")
		if months < 1 || months > 12 {
			return fmt.Errorf("--months must be between 1 and 12, got %d", months)
		}

		// Inject dependencies and run the main business logic.
		githubGateway, err := gateway.NewGitHubGateway(logger)
		if err != nil {
			return fmt.Errorf("failed to create GitHub gateway: %w", err)
		}
		analyzer := usecase.NewAnalyzer(githubGateway, logger, 0, 0)

		results, err := analyzer.AnalyzeAll(ctx, repos, months)
		if err != nil {
			return fmt.Errorf("failed to analyze repositories: %w", err)
		}

		// Marshal the results into a pretty-printed JSON string.
		jsonData, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results to JSON: %w", err)
		}

		fmt.Println(string(jsonData))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringSliceP("repos", "r", nil, "Repository URLs to analyze (required)")
	analyzeCmd.Flags().IntP("months", "m", usecase.DefaultMonths, "How many months to look back (1-12)")
	analyzeCmd.MarkFlagRequired("repos")
}
