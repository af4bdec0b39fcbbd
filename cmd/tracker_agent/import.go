package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/config"
	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/db"
	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/dedup"
	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/mapping"
	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/observability"
	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/pipeline"
	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/types"
)

var importCommand = &cobra.Command{
	Use:   "import",
	Short: "Import job applications from a CSV file",
	Long: `Runs the import pipeline on a CSV export: encoding detection -> parsing -> column mapping -> validation -> conversion -> duplicate detection.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runImportCmd,
}

var (
	importConfigPath    string
	importFile          string
	importPreset        string
	importOutput        string
	importSkipRows      []int
	importBatchSize     int
	importCommit        bool
	importVerbose       bool
	importDatabaseURL   string
	importHighThreshold float64
	importLowThreshold  float64
)

func init() {
	importCommand.Flags().StringVar(&importConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	importCommand.Flags().StringVarP(&importFile, "file", "f", "", "Path to CSV file to import")
	importCommand.Flags().StringVarP(&importPreset, "preset", "p", "", "Path to a column mapping preset (skips auto-detection)")
	importCommand.Flags().StringVarP(&importOutput, "output", "o", "", "Write imported records as JSON to this path (default: stdout)")
	importCommand.Flags().IntSliceVar(&importSkipRows, "skip-rows", nil, "Zero-based row indexes to exclude from the import")
	importCommand.Flags().IntVar(&importBatchSize, "batch-size", 0, "Rows converted per batch")
	importCommand.Flags().BoolVar(&importCommit, "commit", false, "Persist imported applications to the database")
	importCommand.Flags().BoolVarP(&importVerbose, "verbose", "v", false, "Print detailed progress information")
	importCommand.Flags().Float64Var(&importHighThreshold, "high-threshold", 0, "Duplicate confidence above which merge is recommended")
	importCommand.Flags().Float64Var(&importLowThreshold, "low-threshold", 0, "Duplicate confidence below which pairs are ignored")

	importCommand.Flags().StringVar(&importDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(importCommand)
}

func runImportCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	var cfg config.Config
	if importConfigPath != "" {
		loadedCfg, err := config.LoadConfig(importConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}
		cfg = *loadedCfg
		if importVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", importConfigPath)
		}
	}

	// CLI flags override config file values when explicitly set
	if cmd.Flags().Changed("file") {
		cfg.File = importFile
	}
	if cmd.Flags().Changed("preset") {
		cfg.Preset = importPreset
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = importOutput
	}
	if cmd.Flags().Changed("batch-size") {
		cfg.BatchSize = importBatchSize
	}
	if cmd.Flags().Changed("commit") {
		cfg.Commit = importCommit
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = importVerbose
	}
	if cmd.Flags().Changed("high-threshold") {
		cfg.HighThreshold = importHighThreshold
	}
	if cmd.Flags().Changed("low-threshold") {
		cfg.LowThreshold = importLowThreshold
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = importDatabaseURL
	}

	// Apply defaults for unset values
	cfg = cfg.MergeWithDefaults(importDefaults())

	if cfg.File == "" {
		return fmt.Errorf("--file is required (via flag or config)")
	}

	data, err := os.ReadFile(cfg.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cfg.File, err)
	}

	opts := pipeline.Options{
		BatchSize: cfg.BatchSize,
		SkipRows:  skipRowSet(importSkipRows),
	}

	if cfg.Preset != "" {
		preset, err := mapping.LoadPreset(cfg.Preset)
		if err != nil {
			return err
		}
		opts.Mapping = preset.Mapping
		if cfg.Verbose {
			_, _ = fmt.Fprintf(os.Stdout, "Using mapping preset: %s\n", preset.Name)
		}
	}

	dc := dedup.DefaultConfig()
	dc.HighThreshold = cfg.HighThreshold
	dc.LowThreshold = cfg.LowThreshold
	opts.DedupConfig = &dc

	// A configured database contributes existing records to duplicate
	// detection and receives committed imports
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	var database *db.DB
	if cfg.DatabaseURL != "" {
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		if err := database.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		existing, err := database.ListApplications(ctx, db.ApplicationFilters{Limit: 10000})
		if err != nil {
			return fmt.Errorf("failed to load existing applications: %w", err)
		}
		opts.Existing = existing
	} else if cfg.Commit {
		return fmt.Errorf("--commit requires a database; set DATABASE_URL or --db-url")
	}

	printer := observability.NewPrinter(os.Stderr)
	if cfg.Verbose {
		opts.OnProgress = printer.PrintProgress
	}

	result, err := pipeline.Run(ctx, data, opts)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		printer.PrintMapping(result.Mapping, result.Confidence)
	}
	printer.PrintValidation(result.Errors, result.Warnings)
	printer.PrintDuplicateGroups(result.DuplicateGroups)
	printer.PrintSummary(result.Summary)

	if cfg.Commit && len(result.Applications) > 0 {
		if err := database.InsertApplications(ctx, result.Applications); err != nil {
			return fmt.Errorf("failed to persist applications: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stderr, "Stored %d applications\n", len(result.Applications))
	}

	return writeImportOutput(cfg.Output, result.Applications)
}

// importDefaults are the fallback values applied after the config file and
// explicitly-set flags have been merged
func importDefaults() config.Config {
	dd := dedup.DefaultConfig()
	return config.Config{
		BatchSize:     pipeline.DefaultBatchSize,
		HighThreshold: dd.HighThreshold,
		LowThreshold:  dd.LowThreshold,
	}
}

func skipRowSet(rows []int) map[int]bool {
	if len(rows) == 0 {
		return nil
	}
	set := make(map[int]bool, len(rows))
	for _, row := range rows {
		set[row] = true
	}
	return set
}

// writeImportOutput writes imported records as JSON to a file, or stdout
// when path is empty
func writeImportOutput(path string, apps []types.Application) error {
	if apps == nil {
		apps = []types.Application{}
	}
	encoded, err := json.MarshalIndent(apps, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode applications: %w", err)
	}
	encoded = append(encoded, '\n')

	if path == "" {
		_, err = os.Stdout.Write(encoded)
		return err
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
