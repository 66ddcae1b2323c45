package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/jd-analyzer/internal/analysis"
	"github.com/jonathan/jd-analyzer/internal/llm"
	"github.com/jonathan/jd-analyzer/internal/observability"
	"github.com/jonathan/jd-analyzer/internal/types"
)

var refineCmd = &cobra.Command{
	Use:   "refine <instruction...>",
	Short: "Apply a refinement instruction to a saved analysis",
	Long: `Refine a previously saved analysis with a free-form instruction, for example:

  jd_agent refine --in job.analysis.json "Raise the importance of Python to 80%"

The refined analysis replaces the saved one unless --out is given. A refinement
that produces no roles leaves the saved analysis untouched.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRefine,
}

var (
	refineIn      string
	refineOut     string
	refineAPIKey  string
	refineVerbose bool
)

func init() {
	refineCmd.Flags().StringVarP(&refineIn, "in", "i", "", "Path to a saved analysis JSON file (required)")
	refineCmd.Flags().StringVarP(&refineOut, "out", "o", "", "Output path (default: overwrite the input file)")
	refineCmd.Flags().StringVar(&refineAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	refineCmd.Flags().BoolVarP(&refineVerbose, "verbose", "v", false, "Print detailed debug information")

	_ = refineCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(refineCmd)
}

func runRefine(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	instruction := strings.Join(args, " ")

	apiKey := refineAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	data, err := os.ReadFile(refineIn)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", refineIn, err)
	}
	var saved types.Analysis
	if err := json.Unmarshal(data, &saved); err != nil {
		return fmt.Errorf("failed to parse analysis JSON: %w", err)
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create generation client: %w", err)
	}
	defer client.Close()

	sess := analysis.NewSession(client)
	sess.Restore(&saved)

	result, err := sess.Refine(ctx, instruction)
	if err != nil {
		return err
	}

	if refineVerbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintAnalysis(result)
	}

	outPath := refineOut
	if outPath == "" {
		outPath = refineIn
	}
	if err := writeAnalysis(outPath, result); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Refined analysis written to %s\n", outPath)
	return nil
}
