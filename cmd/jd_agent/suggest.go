package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/jd-analyzer/internal/observability"
	"github.com/jonathan/jd-analyzer/internal/suggest"
	"github.com/jonathan/jd-analyzer/internal/types"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Sample edit suggestions from a saved analysis",
	Long: `Sample randomized edit suggestions from a saved analysis without calling the
model. Useful for presenting refinement ideas to a user.`,
	RunE: runSuggest,
}

var (
	suggestIn    string
	suggestCount int
	suggestSeed  int64
)

func init() {
	suggestCmd.Flags().StringVarP(&suggestIn, "in", "i", "", "Path to a saved analysis JSON file (required)")
	suggestCmd.Flags().IntVarP(&suggestCount, "count", "c", 5, "Number of suggestions to sample")
	suggestCmd.Flags().Int64Var(&suggestSeed, "seed", 0, "Random seed for reproducible sampling (0 = time-based)")

	_ = suggestCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(_ *cobra.Command, _ []string) error {
	data, err := os.ReadFile(suggestIn)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", suggestIn, err)
	}
	var saved types.Analysis
	if err := json.Unmarshal(data, &saved); err != nil {
		return fmt.Errorf("failed to parse analysis JSON: %w", err)
	}

	var rng *rand.Rand
	if suggestSeed != 0 {
		rng = rand.New(rand.NewSource(suggestSeed))
	}

	suggestions := suggest.Generate(saved.Roles, saved.SkillsData, suggestCount, rng)
	observability.NewPrinter(os.Stdout).PrintSuggestions(suggestions)
	return nil
}
