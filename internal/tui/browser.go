// Package tui implements a terminal UI for browsing generated task graphs.
package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/parsinator/parsinator/internal/config"
	"github.com/parsinator/parsinator/internal/store"
	"github.com/parsinator/parsinator/internal/task"
)

// view represents the current screen state.
type view int

const (
	viewBoard view = iota
	viewDetail
)

// Key and layout constants.
const (
	keyEsc = "esc"

	boardChrome  = 2 // blank line + status bar below the column area
	errorChrome  = 1 // extra line when error toast is displayed
	tickInterval = 30 * time.Second
)

// Browser is the top-level bubbletea model. It shows the generated tasks in
// one column per status and a detail screen for the selected task.
type Browser struct {
	cfg       *config.Config
	tasks     []*task.Task
	byID      map[int]*task.Task
	columns   []column
	activeCol int
	activeRow int
	view      view
	width     int
	height    int
	err       error
	updated   time.Time
	now       func() time.Time // clock for the status bar; defaults to time.Now
}

// column groups tasks belonging to a single status.
type column struct {
	status    string
	tasks     []*task.Task
	scrollOff int // first visible row index
}

// NewBrowser creates a new Browser model from a config.
func NewBrowser(cfg *config.Config) *Browser {
	b := &Browser{cfg: cfg, now: time.Now}
	b.loadTasks()
	return b
}

// SetNow overrides the clock function used for the status bar (for testing).
func (b *Browser) SetNow(fn func() time.Time) {
	b.now = fn
}

// Init implements tea.Model.
func (b *Browser) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		return b, nil
	case ReloadMsg:
		b.loadTasks()
		return b, nil
	case TickMsg:
		return b, tickCmd()
	case errMsg:
		b.err = msg.err
		return b, nil
	}
	return b, nil
}

// View implements tea.Model.
func (b *Browser) View() string {
	if b.width == 0 {
		return "Loading..."
	}

	if b.view == viewDetail {
		return b.viewTaskDetail()
	}
	return b.viewBoard()
}

func (b *Browser) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys.
	if key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c"))) {
		return b, tea.Quit
	}

	if b.view == viewDetail {
		return b.handleDetailKey(msg)
	}
	return b.handleBoardKey(msg)
}

func (b *Browser) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", keyEsc:
		return b, tea.Quit
	case "h", "left":
		if b.activeCol > 0 {
			b.activeCol--
			b.clampRow()
		}
	case "l", "right":
		if b.activeCol < len(b.columns)-1 {
			b.activeCol++
			b.clampRow()
		}
	case "j", "down":
		col := b.currentColumn()
		if col != nil && b.activeRow < len(col.tasks)-1 {
			b.activeRow++
			b.ensureVisible()
		}
	case "k", "up":
		if b.activeRow > 0 {
			b.activeRow--
			b.ensureVisible()
		}
	case "r":
		b.loadTasks()
	case "enter":
		if b.selectedTask() != nil {
			b.view = viewDetail
		}
	}
	return b, nil
}

func (b *Browser) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", keyEsc, "enter":
		b.view = viewBoard
	}
	return b, nil
}

// loadTasks reads the generated collection and organizes it into columns.
func (b *Browser) loadTasks() {
	c, err := store.LoadCollection(b.cfg.TasksPath())
	if err != nil {
		b.err = err
		return
	}
	b.err = nil

	b.tasks = c.Tasks()
	b.updated = c.Meta.Updated
	b.byID = make(map[int]*task.Task, len(b.tasks))
	for _, t := range b.tasks {
		b.byID[t.ID] = t
	}

	// One column per status, in workflow order.
	b.columns = make([]column, len(task.Statuses))
	for i, status := range task.Statuses {
		b.columns[i] = column{status: status}
	}
	for _, t := range b.tasks {
		for i := range b.columns {
			if b.columns[i].status == t.Status {
				b.columns[i].tasks = append(b.columns[i].tasks, t)
				break
			}
		}
	}

	// Within a column, high priority first, then by ID.
	for i := range b.columns {
		col := &b.columns[i]
		sort.SliceStable(col.tasks, func(a, z int) bool {
			pa, pz := priorityRank(col.tasks[a].Priority), priorityRank(col.tasks[z].Priority)
			if pa != pz {
				return pa < pz
			}
			return col.tasks[a].ID < col.tasks[z].ID
		})
	}

	b.clampRow()
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

func (b *Browser) currentColumn() *column {
	if b.activeCol >= 0 && b.activeCol < len(b.columns) {
		return &b.columns[b.activeCol]
	}
	return nil
}

func (b *Browser) selectedTask() *task.Task {
	col := b.currentColumn()
	if col == nil || len(col.tasks) == 0 {
		return nil
	}
	if b.activeRow >= 0 && b.activeRow < len(col.tasks) {
		return col.tasks[b.activeRow]
	}
	return nil
}

// selectedDeps returns the dependency set of the selected task, for
// highlighting those cards in other columns.
func (b *Browser) selectedDeps() map[int]bool {
	t := b.selectedTask()
	if t == nil {
		return nil
	}
	deps := make(map[int]bool, len(t.Dependencies))
	for _, id := range t.Dependencies {
		deps[id] = true
	}
	return deps
}

func (b *Browser) clampRow() {
	col := b.currentColumn()
	if col == nil || len(col.tasks) == 0 {
		b.activeRow = 0
		return
	}
	if b.activeRow >= len(col.tasks) {
		b.activeRow = len(col.tasks) - 1
	}
	b.ensureVisible()
}

// chromeHeight returns the number of lines consumed by non-card elements below
// the column area: blank line + status bar (+ error line when an error is shown).
func (b *Browser) chromeHeight() int {
	h := boardChrome
	if b.err != nil {
		h += errorChrome
	}
	return h
}

// visibleCardsForColumn returns the number of cards that fit in the column,
// accounting for scroll indicator lines ("↑ N more" / "↓ N more") that
// consume vertical space.
func (b *Browser) visibleCardsForColumn(col *column, width int) int {
	budget := b.height - b.chromeHeight()
	if budget < 1 {
		return 1
	}

	// Always need 1 line for column header.
	avail := budget - 1

	if col.scrollOff > 0 {
		avail--
	}

	n := b.fitCardsInHeight(col, avail, width)

	if col.scrollOff+n < len(col.tasks) {
		// Re-compute with 1 fewer line for the down indicator.
		n = b.fitCardsInHeight(col, avail-1, width)
		if n < 1 {
			n = 1
		}
	}

	return n
}

// ensureVisible adjusts the active column's scroll offset so the
// selected row is within the visible window.
func (b *Browser) ensureVisible() {
	col := b.currentColumn()
	if col == nil {
		return
	}
	w := b.columnWidth()

	for range len(col.tasks) + 1 {
		maxVis := b.visibleCardsForColumn(col, w)

		switch {
		case b.activeRow >= col.scrollOff+maxVis:
			col.scrollOff = b.activeRow - maxVis + 1
		case b.activeRow < col.scrollOff:
			col.scrollOff = b.activeRow
		default:
			return // selected row is visible
		}
	}
}

func (b *Browser) fitCardsInHeight(col *column, avail, width int) int {
	if len(col.tasks) == 0 {
		return 1
	}
	if avail < 1 {
		return 1
	}

	used := 0
	count := 0
	for i := col.scrollOff; i < len(col.tasks); i++ {
		cardLines := b.cardHeight(col.tasks[i], width)
		if count > 0 && used+cardLines > avail {
			break
		}
		count++
		used += cardLines
		if used >= avail {
			break
		}
	}

	if count < 1 {
		return 1
	}
	return count
}

// WatchPaths returns the paths that should be watched for file changes.
func (b *Browser) WatchPaths() []string {
	return []string{b.cfg.Dir(), b.cfg.BriefsPath()}
}

// --- Messages ---

// ReloadMsg is sent by the file watcher to trigger a refresh.
type ReloadMsg struct{}

type errMsg struct{ err error }

// TickMsg is sent periodically to refresh the status bar clock.
type TickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return TickMsg{} })
}

// --- Styles ---

var (
	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	activeColumnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			MarginBottom(0)

	activeCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("226")).
			Padding(0, 1).
			MarginBottom(0)

	depCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("33")).
			Padding(0, 1).
			MarginBottom(0)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	priorityCardStyles = map[string]lipgloss.Style{
		task.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		task.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		task.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}

	briefStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))

	detailPadY = 1
	detailPadX = 2

	detailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(detailPadY, detailPadX)
)

// --- View rendering ---

func (b *Browser) viewBoard() string {
	if len(b.columns) == 0 {
		return "No tasks generated yet."
	}

	colWidth := b.columnWidth()
	depIDs := b.selectedDeps()

	renderedCols := make([]string, len(b.columns))
	for i, col := range b.columns {
		renderedCols[i] = b.renderColumn(i, col, colWidth, depIDs)
	}

	boardView := lipgloss.JoinHorizontal(lipgloss.Top, renderedCols...)

	// Ensure the board view fits within the available height. At very small
	// terminal sizes, a single card can exceed the budget. Clamp from the
	// bottom (keeping headers at the top) and pad if needed.
	targetHeight := b.height - b.chromeHeight()
	if targetHeight > 0 {
		actual := strings.Count(boardView, "\n") + 1
		if actual > targetHeight {
			viewLines := strings.SplitN(boardView, "\n", targetHeight+1)
			boardView = strings.Join(viewLines[:targetHeight], "\n")
		} else if actual < targetHeight {
			boardView += strings.Repeat("\n", targetHeight-actual)
		}
	}

	statusBar := b.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, boardView, "", statusBar)
}

func (b *Browser) columnWidth() int {
	if b.width == 0 || len(b.columns) == 0 {
		return 30 //nolint:mnd // default column width
	}
	w := b.width / len(b.columns)
	const maxColWidth = 75
	if w > maxColWidth {
		w = maxColWidth
	}
	return w
}

func (b *Browser) renderColumn(colIdx int, col column, width int, depIDs map[int]bool) string {
	headerText := fmt.Sprintf("%s (%d)", col.status, len(col.tasks))
	// Truncate to fit within padding (1 left + 1 right).
	const headerPad = 2
	headerText = truncate(headerText, width-headerPad)

	var header string
	if colIdx == b.activeCol {
		header = activeColumnHeaderStyle.Width(width).Render(headerText)
	} else {
		header = columnHeaderStyle.Width(width).Render(headerText)
	}

	maxVis := b.visibleCardsForColumn(&col, width)
	start := col.scrollOff
	end := start + maxVis
	if end > len(col.tasks) {
		end = len(col.tasks)
	}
	if start > len(col.tasks) {
		start = len(col.tasks)
	}

	parts := []string{header}

	if start > 0 {
		indicator := fmt.Sprintf("  ↑ %d more", start)
		parts = append(parts, dimStyle.Width(width).Render(truncate(indicator, width)))
	}

	if len(col.tasks) == 0 {
		parts = append(parts, dimStyle.Width(width).Render("  (empty)"))
	} else {
		for rowIdx := start; rowIdx < end; rowIdx++ {
			t := col.tasks[rowIdx]
			active := colIdx == b.activeCol && rowIdx == b.activeRow
			parts = append(parts, b.renderCard(t, active, depIDs[t.ID], width))
		}
	}

	if end < len(col.tasks) {
		remaining := len(col.tasks) - end
		indicator := fmt.Sprintf("  ↓ %d more", remaining)
		parts = append(parts, dimStyle.Width(width).Render(truncate(indicator, width)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderCard draws one task card. Cards the selected task depends on get a
// distinct border so the dependency fan-in is visible at a glance.
func (b *Browser) renderCard(t *task.Task, active, isDep bool, width int) string {
	contentLines := b.cardContentLines(t, width)
	content := strings.Join(contentLines, "\n")

	style := cardStyle
	if isDep {
		style = depCardStyle
	}
	if active {
		style = activeCardStyle
	}

	return style.Width(width - 2).Render(content) //nolint:mnd // border width
}

func (b *Browser) cardHeight(t *task.Task, width int) int {
	contentLines := b.cardContentLines(t, width)
	return len(contentLines) + 2 //nolint:mnd // top and bottom borders
}

func (b *Browser) cardContentLines(t *task.Task, width int) []string {
	const cardChrome = 4 // border (2) + padding (2)
	cardWidth := width - cardChrome
	if cardWidth < 1 {
		cardWidth = 1
	}

	const maxTitleLines = 2

	prioStyle, ok := priorityCardStyles[t.Priority]
	if !ok {
		prioStyle = dimStyle
	}

	idPrefix := "#" + strconv.Itoa(t.ID) + " "
	firstWidth := cardWidth - len(idPrefix)
	if firstWidth < 1 {
		firstWidth = 1
	}

	var contentLines []string
	titleLines := wrapTitle(t.Title, firstWidth, cardWidth, maxTitleLines)
	for i, line := range titleLines {
		if i == 0 {
			contentLines = append(contentLines, prioStyle.Render(idPrefix)+line)
		} else {
			contentLines = append(contentLines, line)
		}
	}

	meta := t.Priority
	if t.BriefType != "" {
		meta += " " + briefStyle.Render(t.BriefType)
	}
	if len(t.Dependencies) > 0 {
		meta += dimStyle.Render(" deps:" + depsLabel(t.Dependencies))
	}
	contentLines = append(contentLines, truncate(meta, cardWidth))

	return contentLines
}

func depsLabel(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = "#" + strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// wrapTitle splits a title across maxLines lines with different widths:
// firstWidth for the first line (shares space with the ID prefix),
// restWidth for continuation lines (uses full card width).
func wrapTitle(title string, firstWidth, restWidth, maxLines int) []string {
	if maxLines < 1 {
		maxLines = 1
	}
	if lipgloss.Width(title) <= firstWidth || maxLines == 1 {
		return []string{truncate(title, firstWidth)}
	}

	words := strings.Fields(title)
	lines := make([]string, 0, maxLines)
	var current strings.Builder

	for i, word := range words {
		lineWidth := restWidth
		if len(lines) == 0 {
			lineWidth = firstWidth
		}

		if current.Len() == 0 {
			current.WriteString(word)
			continue
		}
		if lipgloss.Width(current.String())+1+lipgloss.Width(word) <= lineWidth {
			current.WriteByte(' ')
			current.WriteString(word)
		} else {
			lines = append(lines, truncate(current.String(), lineWidth))
			current.Reset()
			current.WriteString(word)
			if len(lines) == maxLines-1 {
				// Last line: append all remaining words.
				for _, w := range words[i+1:] {
					current.WriteByte(' ')
					current.WriteString(w)
				}
				break
			}
		}
	}
	if current.Len() > 0 {
		w := restWidth
		if len(lines) == 0 {
			w = firstWidth
		}
		lines = append(lines, truncate(current.String(), w))
	}
	return lines
}

func (b *Browser) renderStatusBar() string {
	status := fmt.Sprintf(" %s | %d tasks | enter:detail r:reload q:quit",
		b.cfg.Project.Name, len(b.tasks))
	if !b.updated.IsZero() {
		status += " | generated " + humanDuration(b.now().Sub(b.updated)) + " ago"
	}
	status = truncate(status, b.width)

	if b.err != nil {
		errStr := errorStyle.Render(truncate("Error: "+b.err.Error(), b.width))
		return errStr + "\n" + statusBarStyle.Render(status)
	}

	return statusBarStyle.Render(status)
}

func (b *Browser) viewTaskDetail() string {
	t := b.selectedTask()
	if t == nil {
		b.view = viewBoard
		return b.viewBoard()
	}

	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("#%d %s", t.ID, t.Title)))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("  priority: %s   status: %s", t.Priority, t.Status))
	if t.BriefType != "" {
		sb.WriteString("   brief: " + briefStyle.Render(t.BriefType))
	}
	sb.WriteString("\n")

	if len(t.Dependencies) == 0 {
		sb.WriteString(dimStyle.Render("  no dependencies") + "\n")
	} else {
		sb.WriteString("  depends on:\n")
		for _, id := range t.Dependencies {
			label := fmt.Sprintf("#%d", id)
			if dep, ok := b.byID[id]; ok {
				label = fmt.Sprintf("#%d %s (%s)", id, dep.Title, dep.Status)
			}
			sb.WriteString("    " + label + "\n")
		}
	}

	if t.Description != "" {
		sb.WriteString("\n")
		const maxDescWidth = 70
		descWidth := b.width - 2*detailPadX - 2
		if descWidth > maxDescWidth {
			descWidth = maxDescWidth
		}
		if descWidth < 1 {
			descWidth = 1
		}
		const maxDescLines = 12
		for _, line := range wrapTitle(t.Description, descWidth, descWidth, maxDescLines) {
			sb.WriteString(dimStyle.Render(line) + "\n")
		}
	}

	sb.WriteString("\n" + dimStyle.Render("esc:back  q:board"))

	return detailStyle.Render(sb.String())
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	// Slice by runes to avoid breaking multi-byte UTF-8 characters.
	runes := []rune(s)
	target := maxLen - 3 //nolint:mnd // room for "..."
	if target > len(runes) {
		target = len(runes)
	}
	// Trim runes from the end until the display width fits.
	for target > 0 && lipgloss.Width(string(runes[:target])) > maxLen-3 {
		target--
	}
	return string(runes[:target]) + "..."
}

// humanDuration formats a duration as a compact human-readable string.
// Examples: "<1m", "5m", "2h", "3d", "2w", "3mo", "1y".
func humanDuration(d time.Duration) string {
	const (
		day   = 24 * time.Hour
		week  = 7 * day
		month = 30 * day
		year  = 365 * day
	)

	switch {
	case d < time.Minute:
		return "<1m"
	case d < time.Hour:
		return strconv.Itoa(int(d.Minutes())) + "m"
	case d < day:
		return strconv.Itoa(int(d.Hours())) + "h"
	case d < week:
		return strconv.Itoa(int(d/day)) + "d"
	case d < month:
		return strconv.Itoa(int(d/week)) + "w"
	default:
		return strconv.Itoa(int(d/month)) + "mo"
	}
}
