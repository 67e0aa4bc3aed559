package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/parsinator/parsinator/internal/brief"
	"github.com/parsinator/parsinator/internal/depmap"
	"github.com/parsinator/parsinator/internal/generate"
	"github.com/parsinator/parsinator/internal/task"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	statusStyles = map[string]lipgloss.Style{
		"to-do":       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		"in-progress": lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		"done":        lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}

	priorityStyles = map[string]lipgloss.Style{
		"high":   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}

	briefTypeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	acceptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true)
	rejectStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// DisableColor strips all styling from table output.
func DisableColor() {
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	statusStyles = map[string]lipgloss.Style{}
	priorityStyles = map[string]lipgloss.Style{}
	briefTypeStyle = lipgloss.NewStyle()
	acceptStyle = lipgloss.NewStyle()
	rejectStyle = lipgloss.NewStyle()
	warnStyle = lipgloss.NewStyle()
	errorStyle = lipgloss.NewStyle()
}

// TaskTable renders a list of tasks as a formatted table.
func TaskTable(w io.Writer, tasks []*task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	// Calculate column widths.
	const pad = 2
	idW, statusW, prioW, titleW, depsW, briefW := 4, 8, 10, 5, 6, 7
	for _, t := range tasks {
		idW = max(idW, len(strconv.Itoa(t.ID))+pad)
		statusW = max(statusW, len(t.Status)+pad)
		prioW = max(prioW, len(t.Priority)+pad)
		titleW = max(titleW, min(len(t.Title)+pad, 50)) //nolint:mnd // max title column width
		depsW = max(depsW, len(depsDisplay(t))+pad)
		briefW = max(briefW, len(t.BriefType)+pad)
	}

	// Print header.
	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %-*s",
		idW, "ID", statusW, "STATUS", prioW, "PRIORITY",
		titleW, "TITLE", depsW, "DEPS", briefW, "BRIEF")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	// Print rows.
	for _, t := range tasks {
		title := t.Title
		const maxTitle = 48
		if len(title) > maxTitle {
			title = title[:maxTitle-3] + "..."
		}
		deps := depsDisplay(t)
		if deps == "" {
			deps = dimStyle.Render("--")
		}
		briefType := t.BriefType
		if briefType == "" {
			briefType = dimStyle.Render("--")
		} else {
			briefType = briefTypeStyle.Render(briefType)
		}

		row := fmt.Sprintf("%-*d %s %s %s %s %s",
			idW, t.ID,
			padRight(styledValue(t.Status, statusStyles), statusW),
			padRight(styledValue(t.Priority, priorityStyles), prioW),
			padRight(title, titleW),
			padRight(deps, depsW),
			briefType)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with full detail.
func TaskDetail(w io.Writer, t *task.Task) {
	titleLine := fmt.Sprintf("Task #%d: %s", t.ID, t.Title)
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", len(titleLine)))

	printField(w, "Status", styledValue(t.Status, statusStyles))
	printField(w, "Priority", styledValue(t.Priority, priorityStyles))
	if t.BriefType != "" {
		printField(w, "Brief", briefTypeStyle.Render(t.BriefType))
	}
	deps := depsDisplay(t)
	if deps == "" {
		printField(w, "Depends on", dimStyle.Render("--"))
	} else {
		printField(w, "Depends on", deps)
	}

	if t.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, t.Description)
	}
}

// SummaryTable renders a generation summary with the suggestion report.
func SummaryTable(w io.Writer, s *generate.Summary) {
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render("Generation complete"))
	fmt.Fprintf(w, "Briefs: %d  Tasks: %d (%d new)\n", s.BriefCount, s.TaskCount, s.NewTaskCount)

	if len(s.SuggestedDependencies) > 0 {
		fmt.Fprintln(w)
		SuggestionTable(w, s.SuggestedDependencies)
	}

	if len(s.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("WARNINGS"))
		for _, warning := range s.Warnings {
			fmt.Fprintln(w, "  "+warnStyle.Render("!")+" "+warning)
		}
	}
}

// SuggestionTable renders the dependency suggestion report.
func SuggestionTable(w io.Writer, suggestions []depmap.Suggestion) {
	header := fmt.Sprintf("%-10s %-7s %-9s %s", "EDGE", "SCORE", "VERDICT", "REASON")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, s := range suggestions {
		edge := fmt.Sprintf("#%d -> #%d", s.From, s.To)
		verdict := rejectStyle.Render("rejected")
		if s.Accepted {
			verdict = acceptStyle.Render("accepted")
		}
		const edgeW, verdictW = 10, 9
		fmt.Fprintf(w, "%s %-7.2f %s %s\n",
			padRight(edge, edgeW), s.Score, padRight(verdict, verdictW), s.Reason)
	}
}

// FindingsTable renders template-check findings for a brief.
func FindingsTable(w io.Writer, name string, findings []brief.Finding) {
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(name))
	if len(findings) == 0 {
		fmt.Fprintln(w, "  "+acceptStyle.Render("ok")+" brief matches its template")
		return
	}
	for _, f := range findings {
		marker := warnStyle.Render("warning")
		if f.Severity == brief.SeverityError {
			marker = errorStyle.Render("error")
		}
		fmt.Fprintf(w, "  %s %s\n", padRight(marker, 8), f.Message) //nolint:mnd // severity column width
	}
}

// ParsedBriefTable renders the tasks extracted from a single brief.
func ParsedBriefTable(w io.Writer, c *brief.Content) {
	title := fmt.Sprintf("%s (%s brief, %d tasks)", c.Title, c.Type, len(c.Tasks))
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(title))

	header := fmt.Sprintf("%-4s %-10s %-40s %s", "#", "PRIORITY", "TITLE", "SECTION")
	fmt.Fprintln(w, headerStyle.Render(header))
	for i, t := range c.Tasks {
		taskTitle := t.Title
		const maxTitle = 38
		if len(taskTitle) > maxTitle {
			taskTitle = taskTitle[:maxTitle-3] + "..."
		}
		const prioW, titleW = 10, 40
		fmt.Fprintf(w, "%-4d %s %s %s\n",
			i+1,
			padRight(styledValue(t.Priority, priorityStyles), prioW),
			padRight(taskTitle, titleW),
			dimStyle.Render(t.Section))
	}

	for _, warning := range c.Warnings {
		fmt.Fprintln(w, "  "+warnStyle.Render("!")+" "+warning)
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

// depsDisplay returns "#1,#2" for the task's dependencies, or "" when none.
func depsDisplay(t *task.Task) string {
	if len(t.Dependencies) == 0 {
		return ""
	}
	parts := make([]string, len(t.Dependencies))
	for i, id := range t.Dependencies {
		parts[i] = "#" + strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// styledValue renders s using a matching style from the map, or returns s unchanged.
func styledValue(s string, styles map[string]lipgloss.Style) string {
	if st, ok := styles[s]; ok {
		return st.Render(s)
	}
	return s
}
