package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/parsinator/parsinator/internal/depmap"
	"github.com/parsinator/parsinator/internal/generate"
	"github.com/parsinator/parsinator/internal/task"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []*task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t))
	}
}

// TaskDetailCompact renders a single task with detail in compact format.
func TaskDetailCompact(w io.Writer, t *task.Task) {
	fmt.Fprintln(w, formatTaskLine(t))

	if t.Description != "" {
		for _, descLine := range strings.Split(t.Description, "\n") {
			fmt.Fprintln(w, "  "+descLine)
		}
	}
}

// SummaryCompact renders a generation summary in compact format.
func SummaryCompact(w io.Writer, s *generate.Summary) {
	fmt.Fprintf(w, "briefs=%d tasks=%d new=%d\n", s.BriefCount, s.TaskCount, s.NewTaskCount)

	for _, sg := range s.SuggestedDependencies {
		fmt.Fprintln(w, formatSuggestionLine(sg))
	}
	for _, warning := range s.Warnings {
		fmt.Fprintln(w, "warning: "+warning)
	}
}

// formatSuggestionLine builds the one-line representation of a suggestion.
func formatSuggestionLine(s depmap.Suggestion) string {
	verdict := "rejected"
	if s.Accepted {
		verdict = "accepted"
	}
	return fmt.Sprintf("#%d->#%d score=%.2f %s: %s", s.From, s.To, s.Score, verdict, s.Reason)
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t *task.Task) string {
	line := "#" + strconv.Itoa(t.ID) + " [" + t.Status + "/" + t.Priority + "] " + t.Title

	if len(t.Dependencies) > 0 {
		parts := make([]string, len(t.Dependencies))
		for i, id := range t.Dependencies {
			parts[i] = "#" + strconv.Itoa(id)
		}
		line += " deps:" + strings.Join(parts, ",")
	}
	if t.BriefType != "" {
		line += " (" + t.BriefType + ")"
	}

	return line
}
