package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/parsinator/parsinator/internal/brief"
	"github.com/parsinator/parsinator/internal/clierr"
	"github.com/parsinator/parsinator/internal/output"
	"github.com/parsinator/parsinator/internal/store"
)

var validateCmd = &cobra.Command{
	Use:   "validate [FILE...]",
	Short: "Check briefs against their templates",
	Long: `Checks brief files against the expected template for their type and
reports missing sections, unknown sections, and empty task lists. With no
arguments, checks every brief in the project's briefs directory.

Findings are advisory; the command exits non-zero only when a brief has
error-severity findings.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().String("type", "", "brief type to validate against; auto-detected when omitted")
	rootCmd.AddCommand(validateCmd)
}

type validationReport struct {
	File     string          `json:"file"`
	Findings []brief.Finding `json:"findings"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	files := args
	if len(files) == 0 {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		files, err = store.FindBriefFiles(cfg.BriefsPath())
		if err != nil {
			return err
		}
	}

	typeHint, _ := cmd.Flags().GetString("type")
	parser := brief.NewParser()

	reports := make([]validationReport, 0, len(files))
	hasErrors := false
	for _, f := range files {
		text, err := store.ReadBrief(f)
		if err != nil {
			return err
		}
		findings := parser.CheckTemplate(text, typeHint)
		for _, finding := range findings {
			if finding.Severity == brief.SeverityError {
				hasErrors = true
			}
		}
		reports = append(reports, validationReport{File: f, Findings: findings})
	}

	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, reports); err != nil {
			return err
		}
	} else {
		for i, r := range reports {
			if i > 0 {
				output.Messagef(os.Stdout, "")
			}
			output.FindingsTable(os.Stdout, r.File, r.Findings)
		}
	}

	if hasErrors {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}
