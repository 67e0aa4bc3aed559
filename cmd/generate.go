package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/parsinator/parsinator/internal/output"
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Generate tasks from the project's briefs",
	Long: `Parses every brief in the briefs directory, assigns task IDs, maps
dependencies, and writes tasks.json. Re-running after adding briefs is
additive: existing tasks keep their IDs and new tasks continue the sequence.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	summary, err := runGeneration(cfg)
	if err != nil {
		return err
	}

	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, summary)
	}
	if format == output.FormatCompact {
		output.SummaryCompact(os.Stdout, summary)
		return nil
	}

	output.SummaryTable(os.Stdout, summary)
	return nil
}
