package cmd

import (
	"errors"
	"os"
	"slices"
	"sort"

	"github.com/spf13/cobra"

	"github.com/parsinator/parsinator/internal/clierr"
	"github.com/parsinator/parsinator/internal/output"
	"github.com/parsinator/parsinator/internal/store"
	"github.com/parsinator/parsinator/internal/task"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List generated tasks",
	Long:    `Lists the tasks in tasks.json with optional filtering and sorting.`,
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringSlice("status", nil, "filter by status (comma-separated)")
	listCmd.Flags().StringSlice("priority", nil, "filter by priority (comma-separated)")
	listCmd.Flags().String("brief", "", "filter by brief type (setup, feature, deployment)")
	listCmd.Flags().Bool("ready", false, "show only tasks whose dependencies are all done")
	listCmd.Flags().String("sort", "id", "sort field (id, priority, status)")
	listCmd.Flags().BoolP("reverse", "r", false, "reverse sort order")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	c, err := store.LoadCollection(cfg.TasksPath())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return clierr.New(clierr.TaskNotFound,
				"no tasks generated yet (run 'parsinator generate' first)")
		}
		return err
	}

	statuses, _ := cmd.Flags().GetStringSlice("status")
	priorities, _ := cmd.Flags().GetStringSlice("priority")
	briefType, _ := cmd.Flags().GetString("brief")
	ready, _ := cmd.Flags().GetBool("ready")
	sortBy, _ := cmd.Flags().GetString("sort")
	reverse, _ := cmd.Flags().GetBool("reverse")
	limit, _ := cmd.Flags().GetInt("limit")

	tasks := filterTasks(c, statuses, priorities, briefType, ready)
	sortTasks(tasks, sortBy)
	if reverse {
		slices.Reverse(tasks)
	}
	if limit > 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}

	format := outputFormat()
	if format == output.FormatJSON {
		if tasks == nil {
			tasks = []*task.Task{}
		}
		return output.JSON(os.Stdout, tasks)
	}
	if format == output.FormatCompact {
		output.TaskCompact(os.Stdout, tasks)
		return nil
	}

	output.TaskTable(os.Stdout, tasks)
	return nil
}

func filterTasks(c *task.Collection, statuses, priorities []string, briefType string, ready bool) []*task.Task {
	var tasks []*task.Task
	for _, t := range c.Tasks() {
		if len(statuses) > 0 && !slices.Contains(statuses, t.Status) {
			continue
		}
		if len(priorities) > 0 && !slices.Contains(priorities, t.Priority) {
			continue
		}
		if briefType != "" && t.BriefType != briefType {
			continue
		}
		if ready && !isReady(c, t) {
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks
}

// isReady reports whether every dependency of t is done. Tasks already done
// or in progress are not "ready" (there is nothing left to start).
func isReady(c *task.Collection, t *task.Task) bool {
	if t.Status != task.StatusTodo {
		return false
	}
	for _, id := range t.Dependencies {
		dep := c.Get(id)
		if dep == nil || dep.Status != task.StatusDone {
			return false
		}
	}
	return true
}

func sortTasks(tasks []*task.Task, sortBy string) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		switch sortBy {
		case "priority":
			if pa, pb := priorityRank(a.Priority), priorityRank(b.Priority); pa != pb {
				return pa < pb
			}
		case "status":
			if a.Status != b.Status {
				return statusRank(a.Status) < statusRank(b.Status)
			}
		}
		return a.ID < b.ID
	})
}

func priorityRank(p string) int {
	switch p {
	case task.PriorityHigh:
		return 0
	case task.PriorityMedium:
		return 1
	default:
		return 2
	}
}

func statusRank(s string) int {
	for i, status := range task.Statuses {
		if s == status {
			return i
		}
	}
	return len(task.Statuses)
}
