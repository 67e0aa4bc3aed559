package cmd

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/parsinator/parsinator/internal/clierr"
	"github.com/parsinator/parsinator/internal/tui"
	"github.com/parsinator/parsinator/internal/watcher"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse the generated task graph interactively",
	Long: `Opens a terminal UI showing the generated tasks grouped by status.
The view refreshes automatically when briefs are regenerated.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return clierr.New(clierr.InvalidInput, "tui requires an interactive terminal")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	model := tui.NewBrowser(cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startTUIWatcher(ctx, model, p)

	_, err = p.Run()
	return err
}

func startTUIWatcher(ctx context.Context, model *tui.Browser, p *tea.Program) {
	paths := model.WatchPaths()
	w, err := watcher.New(paths, func() {
		p.Send(tui.ReloadMsg{})
	})
	if err != nil {
		return // non-fatal: TUI works without live refresh
	}
	defer w.Close()
	w.Run(ctx, nil)
}
