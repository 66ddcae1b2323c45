package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jd-analyzer/internal/analysis"
	"github.com/jonathan/jd-analyzer/internal/config"
	"github.com/jonathan/jd-analyzer/internal/db"
	"github.com/jonathan/jd-analyzer/internal/fetch"
	"github.com/jonathan/jd-analyzer/internal/ingestion"
	"github.com/jonathan/jd-analyzer/internal/llm"
	"github.com/jonathan/jd-analyzer/internal/observability"
	"github.com/jonathan/jd-analyzer/internal/schemas"
	"github.com/jonathan/jd-analyzer/internal/types"
)

// maxConcurrentAnalyses bounds parallel generation calls in batch mode.
const maxConcurrentAnalyses = 4

var analyzeCmd = &cobra.Command{
	Use:   "analyze [job files...]",
	Short: "Extract a skill taxonomy and thresholds from job descriptions",
	Long: `Analyze one or more job descriptions: extract roles, skills, achievements and
activities with weighted metrics, then derive selection and rejection thresholds.

Input comes from positional text-file arguments, --job, or --job-url. Multiple
files are analyzed concurrently. Results are written as JSON, one file per input.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runAnalyze,
}

var (
	analyzeConfigPath  string
	analyzeJob         string
	analyzeJobURL      string
	analyzeOut         string
	analyzeAPIKey      string
	analyzeDatabaseURL string
	analyzeCount       int
	analyzeVerbose     bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	analyzeCmd.Flags().StringVarP(&analyzeJob, "job", "j", "", "Path to job description text file (mutually exclusive with --job-url)")
	analyzeCmd.Flags().StringVar(&analyzeJobURL, "job-url", "", "URL to fetch the job posting from (mutually exclusive with --job)")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Output directory for analysis JSON (default: alongside input, or stdout for --job-url)")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	analyzeCmd.Flags().StringVar(&analyzeDatabaseURL, "db-url", "", "PostgreSQL connection URL for persistence (optional, defaults to DATABASE_URL env var)")
	analyzeCmd.Flags().IntVar(&analyzeCount, "suggestions", 0, "Number of sampled edit suggestions per analysis")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadAnalyzeConfig(cmd)
	if err != nil {
		return err
	}

	// Collect inputs: positional files plus --job, or a single URL.
	inputs := append([]string{}, args...)
	if cfg.Job != "" {
		inputs = append(inputs, cfg.Job)
	}
	if len(inputs) == 0 && cfg.JobURL == "" {
		return fmt.Errorf("either job files, --job, or --job-url must be provided")
	}
	if len(inputs) > 0 && cfg.JobURL != "" {
		return fmt.Errorf("job files and --job-url are mutually exclusive")
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create generation client: %w", err)
	}
	defer client.Close()

	var database *db.DB
	if cfg.DatabaseURL != "" {
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		if err := database.EnsureSchema(ctx); err != nil {
			return err
		}
	}

	var opts []analysis.Option
	if cfg.SuggestionCount > 0 {
		opts = append(opts, analysis.WithSuggestionCount(cfg.SuggestionCount))
	}

	if cfg.JobURL != "" {
		return analyzeURL(ctx, client, database, cfg, opts)
	}
	return analyzeFiles(ctx, client, database, cfg, inputs, opts)
}

// loadAnalyzeConfig merges config file, CLI overrides and environment.
func loadAnalyzeConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if analyzeConfigPath != "" {
		loaded, err := config.LoadConfig(analyzeConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
		if analyzeVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", analyzeConfigPath)
		}
	}

	// CLI flags override config file values only when explicitly set.
	if cmd.Flags().Changed("job") {
		cfg.Job = analyzeJob
	}
	if cmd.Flags().Changed("job-url") {
		cfg.JobURL = analyzeJobURL
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = analyzeAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = analyzeDatabaseURL
	}
	if cmd.Flags().Changed("suggestions") {
		cfg.SuggestionCount = analyzeCount
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = analyzeVerbose
	}

	if cfg.Job != "" && cfg.JobURL != "" {
		return cfg, fmt.Errorf("--job and --job-url are mutually exclusive; provide only one")
	}

	// Environment variables fill anything the config file and flags left unset.
	cfg = cfg.MergeWithDefaults(config.Config{
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	})
	if cfg.APIKey == "" {
		return cfg, fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	return cfg, nil
}

func analyzeURL(ctx context.Context, client llm.Client, database *db.DB, cfg config.Config, opts []analysis.Option) error {
	text, err := fetch.JobPostingText(ctx, cfg.JobURL, fetch.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to fetch job posting: %w", err)
	}

	result, err := analysis.NewSession(client, opts...).Analyze(ctx, ingestion.CleanText(text))
	if err != nil {
		return err
	}

	if database != nil {
		if _, err := database.SaveAnalysis(ctx, &db.AnalysisCreateInput{JobURL: &cfg.JobURL, Analysis: result}); err != nil {
			return fmt.Errorf("failed to persist analysis: %w", err)
		}
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintAnalysis(result)
		printer.PrintSuggestions(result.SuggestedPrompts)
	}

	if analyzeOut != "" {
		return writeAnalysis(filepath.Join(analyzeOut, "analysis.json"), result)
	}
	return json.NewEncoder(os.Stdout).Encode(result)
}

func analyzeFiles(ctx context.Context, client llm.Client, database *db.DB, cfg config.Config, inputs []string, opts []analysis.Option) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentAnalyses)

	for _, input := range inputs {
		g.Go(func() error {
			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", input, err)
			}

			// Sessions are independent; one per input keeps failures isolated.
			result, err := analysis.NewSession(client, opts...).Analyze(ctx, ingestion.CleanText(string(data)))
			if err != nil {
				return fmt.Errorf("analysis of %s failed: %w", input, err)
			}

			if database != nil {
				if _, err := database.SaveAnalysis(ctx, &db.AnalysisCreateInput{Analysis: result}); err != nil {
					return fmt.Errorf("failed to persist analysis of %s: %w", input, err)
				}
			}

			outPath := analysisOutputPath(input)
			if err := writeAnalysis(outPath, result); err != nil {
				return err
			}

			if cfg.Verbose {
				printer := observability.NewPrinter(os.Stdout)
				printer.PrintAnalysis(result)
			}
			fmt.Fprintf(os.Stdout, "%s -> %s (%d roles, %d items)\n",
				input, outPath, len(result.Roles), result.SkillsData.ItemCount())
			return nil
		})
	}

	return g.Wait()
}

// analysisOutputPath derives the output file name for an input file,
// honoring --out when set.
func analysisOutputPath(input string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".analysis.json"
	if analyzeOut != "" {
		return filepath.Join(analyzeOut, base)
	}
	return filepath.Join(filepath.Dir(input), base)
}

// writeAnalysis schema-validates and writes an analysis as indented JSON.
func writeAnalysis(path string, a *types.Analysis) error {
	if err := schemas.ValidateAnalysis(a); err != nil {
		return fmt.Errorf("analysis failed schema validation: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
