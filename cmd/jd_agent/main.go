// Package main provides the entry point for the job-description analyzer CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jd_agent",
	Short: "Job-description skill extraction and threshold scoring",
	Long:  "jd_agent extracts a role/category/skill taxonomy from job descriptions via an LLM, derives importance-weighted selection and rejection thresholds, and supports iterative refinement.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
