package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/stefanpenner/quadrant/pkg/config"
	"github.com/stefanpenner/quadrant/pkg/controller"
	"github.com/stefanpenner/quadrant/pkg/store"
	"github.com/stefanpenner/quadrant/pkg/tui"
	"github.com/stefanpenner/quadrant/pkg/view"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is the state shared by all commands.
type app struct {
	dir string // --dir flag
	cfg *config.Config
	log *slog.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "quadrant",
		Short: "Sort tasks into an Eisenhower matrix",
		Long: `quadrant files each task into one of four quadrants (do now, do later,
delegate, postpone) from its priority and urgency.

Run without a command to open the terminal UI.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.configure()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI()
		},
	}
	root.PersistentFlags().StringVar(&a.dir, "dir", "", "data directory (overrides QUADRANT_DIR)")

	root.AddCommand(
		a.newListCommand(),
		a.newAddCommand(),
		a.newToggleCommand(),
		a.newEditCommand(),
		a.newDeleteCommand(),
		a.newStatsCommand(),
		a.newBoardCommand(),
		a.newImportCommand(),
	)
	return root
}

func (a *app) configure() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.dir != "" {
		cfg.Dir = store.ResolveDataDir(a.dir)
	}
	a.cfg = cfg
	a.log = cfg.Logger(os.Stderr)
	return nil
}

func (a *app) openStore(log *slog.Logger) (*store.Store, *store.FileSlot, error) {
	slot, err := store.NewFileSlot(a.cfg.Dir, a.cfg.Slot)
	if err != nil {
		return nil, nil, err
	}
	return store.New(slot, store.WithLogger(log)), slot, nil
}

// openController builds a controller for one-shot CLI commands. Renders
// are never rate-limited there.
func (a *app) openController(confirm store.Confirmer) (*controller.Controller, *store.Store, error) {
	s, _, err := a.openStore(a.log)
	if err != nil {
		return nil, nil, err
	}
	return controller.New(s, view.NewRenderer(view.WithDebounce(0)), confirm), s, nil
}

func (a *app) runTUI() error {
	// The TUI owns the terminal, so logs go to a file.
	var logOut io.Writer = io.Discard
	if f, err := a.cfg.LogFile(); err == nil {
		defer f.Close()
		logOut = f
	}
	log := a.cfg.Logger(logOut)

	s, slot, err := a.openStore(log)
	if err != nil {
		return err
	}

	gate := &tui.DeleteGate{}
	renderer := view.NewRenderer(view.WithDebounce(a.cfg.RenderDebounce))
	ctrl := controller.New(s, renderer, gate.Confirm)

	m := tui.NewModel(ctrl, gate, slot.Path)
	p := tea.NewProgram(m, tea.WithAltScreen())

	cleanup, err := tui.StartWatcher(slot.Path, p, log)
	if err != nil {
		log.Warn("file watcher failed", "err", err)
	} else {
		defer cleanup()
	}

	log.Info("starting tui", "path", slot.Path, "tasks", s.Len())
	_, err = p.Run()
	return err
}
