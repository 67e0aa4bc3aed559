package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/parsinator/parsinator/internal/config"
	"github.com/parsinator/parsinator/internal/output"
	"github.com/parsinator/parsinator/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate tasks whenever a brief changes",
	Long: `Watches the briefs directory and re-runs generation after every change.
A failed run leaves the previous tasks.json untouched and keeps watching.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Generate once up front so the watcher starts from a consistent state.
	regenerate(cfg)

	w, err := watcher.New([]string{cfg.BriefsPath()}, func() {
		regenerate(cfg)
	})
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	output.Messagef(os.Stderr, "Watching %s (ctrl+c to stop)", cfg.BriefsPath())
	w.Run(ctx, func(err error) {
		fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
	})
	return nil
}

// regenerate runs one generation pass and reports the outcome without
// stopping the watch loop.
func regenerate(cfg *config.Config) {
	summary, err := runGeneration(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		return
	}
	output.SummaryCompact(os.Stdout, summary)
}
