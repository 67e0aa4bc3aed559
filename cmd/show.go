package cmd

import (
	"errors"
	"os"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/parsinator/parsinator/internal/clierr"
	"github.com/parsinator/parsinator/internal/output"
	"github.com/parsinator/parsinator/internal/store"
	"github.com/parsinator/parsinator/internal/task"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show task details",
	Long: `Displays full details of a single generated task. With --render, the
task's markdown file is rendered to the terminal instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().Bool("render", false, "render the task's markdown file")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil || id < 1 {
		return clierr.Newf(clierr.InvalidTaskID, "invalid task ID %q (expected a positive integer)", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if render, _ := cmd.Flags().GetBool("render"); render {
		return renderTaskFile(cfg.TaskFilesPath(), id)
	}

	c, err := store.LoadCollection(cfg.TasksPath())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return clierr.New(clierr.TaskNotFound,
				"no tasks generated yet (run 'parsinator generate' first)")
		}
		return err
	}

	t := c.Get(id)
	if t == nil {
		return clierr.Newf(clierr.TaskNotFound, "task #%d not found", id).
			WithDetails(map[string]any{"id": id})
	}

	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}
	if format == output.FormatCompact {
		output.TaskDetailCompact(os.Stdout, t)
		return nil
	}

	output.TaskDetail(os.Stdout, t)
	return nil
}

// renderTaskFile renders the task's generated markdown file with glamour.
func renderTaskFile(taskFilesDir string, id int) error {
	if taskFilesDir == "" {
		return clierr.New(clierr.InvalidInput, "task-file output is disabled in this project (set task_files_dir)")
	}

	path, err := task.FindByID(taskFilesDir, id)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path) //nolint:gosec // path resolved from the project's task-files dir
	if err != nil {
		return clierr.Newf(clierr.TaskNotFound, "cannot read task file %s: %v", path, err)
	}

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80)) //nolint:mnd // render width
	if err != nil {
		return err
	}
	out, err := renderer.Render(string(data))
	if err != nil {
		return err
	}
	_, err = os.Stdout.WriteString(out)
	return err
}
