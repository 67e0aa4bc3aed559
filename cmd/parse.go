package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/parsinator/parsinator/internal/brief"
	"github.com/parsinator/parsinator/internal/output"
	"github.com/parsinator/parsinator/internal/store"
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Parse a single brief without generating tasks",
	Long: `Parses one brief file and prints the tasks it would contribute,
without touching tasks.json. Useful for checking a brief while writing it.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("type", "", "brief type (setup, feature, deployment); auto-detected when omitted")
	parseCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "brief-type" {
			name = "type"
		}
		return pflag.NormalizedName(name)
	})
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	text, err := store.ReadBrief(args[0])
	if err != nil {
		return err
	}

	typeHint, _ := cmd.Flags().GetString("type")

	parser := brief.NewParser()
	var content *brief.Content
	if typeHint != "" {
		content, err = parser.ParseTyped(text, typeHint)
	} else {
		content, err = parser.Parse(text)
	}
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, content)
	}

	output.ParsedBriefTable(os.Stdout, content)
	return nil
}
