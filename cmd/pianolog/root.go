package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/j-veylop/pianolog/internal/app"
	"github.com/j-veylop/pianolog/internal/config"
	"github.com/j-veylop/pianolog/internal/logger"
	"github.com/j-veylop/pianolog/internal/services"
	"github.com/j-veylop/pianolog/internal/ui/tabs/info"
	"github.com/j-veylop/pianolog/internal/ui/tabs/practice"
	"github.com/j-veylop/pianolog/internal/ui/tabs/stats"
)

// errNoTerminal is returned when the TUI is started without a terminal.
var errNoTerminal = errors.New("pianolog needs a terminal; run 'pianolog --help' for scriptable commands")

// cli carries what commands need from the process so tests can replace it.
type cli struct {
	out   io.Writer
	now   func() time.Time
	isTTY func() bool
}

func newCLI() *cli {
	return &cli{
		out: os.Stdout,
		now: time.Now,
		isTTY: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		},
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "pianolog",
		Short: "Piano practice log",
		Long: `pianolog times piano practice sessions and summarizes them by week,
month and year against a daily goal.

Run without arguments to open the terminal UI.

Environment:
  DATABASE_PATH            SQLite database (default ~/.config/pianolog/practice.db)
  ACTIVITIES_PATH          activity catalog JSON
  GOAL_MINUTES             daily goal in minutes, 0 for none
  WEEK_START_DAY           1=Monday ... 7=Sunday (default from locale)
  LOG_LEVEL, LOG_FILE      logging`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runTUI()
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(c.out)

	root.AddCommand(
		c.startCmd(),
		c.stopCmd(),
		c.discardCmd(),
		c.logCmd(),
		c.listCmd(),
		c.editCmd(),
		c.deleteCmd(),
		c.statsCmd(),
		c.exportCmd(),
		c.remindCmd(),
		c.activityCmd(),
		c.versionCmd(),
	)
	return root
}

// withManager loads configuration, logs to stderr and runs fn against a
// started service manager.
func (c *cli) withManager(fn func(*services.Manager) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	closer, err := logger.Setup(cfg.LogLevel, "")
	if err != nil {
		return err
	}
	defer closer.Close()

	mgr, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := mgr.Close(); closeErr != nil {
			logger.Warn("error closing services", "error", closeErr)
		}
	}()

	return fn(mgr)
}

func (c *cli) runTUI() error {
	if !c.isTTY() {
		return errNoTerminal
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// The alternate screen owns stdout and stderr; log to a file.
	closer, err := logger.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closer.Close()

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	model := app.NewModel(svcManager)
	state := model.GetState()
	model.SetTabs([]app.Tab{
		practice.New(state, cfg),
		stats.New(state, svcManager),
		info.New(state, cfg),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		if _, ok := <-sigChan; ok {
			p.Send(tea.Quit())
		}
	}()

	logger.Info("starting tui", "database", cfg.DatabasePath)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
