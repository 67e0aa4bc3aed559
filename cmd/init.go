package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/parsinator/parsinator/internal/config"
	"github.com/parsinator/parsinator/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new parsinator project",
	Long:  `Creates a project directory with parsinator.yml and a briefs/ subdirectory.`,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().String("name", "", "project name (defaults to current directory name)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir := flagDir
	if dir == "" {
		dir = "."
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		name = filepath.Base(cwd)
	}

	cfg, err := config.Init(dir, name)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"status": "initialized",
			"dir":    cfg.Dir(),
			"name":   name,
			"config": cfg.ConfigPath(),
			"briefs": cfg.BriefsPath(),
		})
	}

	output.Messagef(os.Stdout, "Initialized project %q in %s", name, cfg.Dir())
	output.Messagef(os.Stdout, "  Config: %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  Briefs: %s", cfg.BriefsPath())
	output.Messagef(os.Stdout, "  Hint:   Add brief markdown files, then run: parsinator generate")
	return nil
}
