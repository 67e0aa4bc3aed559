// Package cmd implements the parsinator CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parsinator/parsinator/internal/clierr"
	"github.com/parsinator/parsinator/internal/config"
	"github.com/parsinator/parsinator/internal/generate"
	"github.com/parsinator/parsinator/internal/output"
	"github.com/parsinator/parsinator/internal/store"
	"github.com/parsinator/parsinator/internal/task"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagDir     string
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "parsinator",
	Short: "Turn project briefs into a dependency-aware task list",
	Long: `parsinator parses markdown project briefs (setup, feature, deployment)
into numbered tasks with validated dependencies. Run 'parsinator generate'
inside a project to rebuild tasks.json from the briefs directory.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		output.InitColor(flagNoColor)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to parsinator project directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	// Handle SilentError — exit with code, no output.
	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	// Determine if JSON mode is active.
	jsonMode := flagJSON
	if !jsonMode {
		jsonMode = os.Getenv("PARSINATOR_OUTPUT") == "json"
	}

	if jsonMode {
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		// Unknown error — wrap as INTERNAL_ERROR.
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	// Non-JSON mode: print to stderr.
	fmt.Fprintln(os.Stderr, err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// resolveDir returns the absolute path to the project directory.
func resolveDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	return config.FindDir(cwd)
}

// loadConfig finds and loads the project config.
func loadConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if err != nil {
		if errors.Is(err, config.ErrNotFound) {
			return nil, clierr.Newf(clierr.ProjectNotFound,
				"no parsinator project in %s (run 'parsinator init' to create one)", dir)
		}
		return nil, err
	}
	return cfg, nil
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// loadExisting reads the persisted collection for an additive run.
// A missing tasks file means a fresh run and is not an error.
func loadExisting(cfg *config.Config) (*task.Collection, error) {
	c, err := store.LoadCollection(cfg.TasksPath())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// runGeneration executes the full pipeline over the project's briefs and
// persists the result. Shared by generate and watch.
func runGeneration(cfg *config.Config) (*generate.Summary, error) {
	files, err := store.FindBriefFiles(cfg.BriefsPath())
	if err != nil {
		return nil, err
	}

	inputs := make([]generate.Input, 0, len(files))
	for _, f := range files {
		text, err := store.ReadBrief(f)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, generate.Input{Name: f, Text: text})
	}

	existing, err := loadExisting(cfg)
	if err != nil {
		return nil, err
	}

	gen := generate.New(cfg.Heuristics)
	collection, summary, err := gen.Run(inputs, existing)
	if err != nil {
		return nil, err
	}

	if err := store.SaveCollection(cfg.TasksPath(), collection); err != nil {
		return nil, err
	}
	if path := cfg.SummaryPath(); path != "" {
		if err := store.SaveSummary(path, summary); err != nil {
			return nil, err
		}
	}
	if dir := cfg.TaskFilesPath(); dir != "" {
		if err := store.WriteTaskFiles(dir, collection); err != nil {
			return nil, err
		}
	}

	return summary, nil
}
