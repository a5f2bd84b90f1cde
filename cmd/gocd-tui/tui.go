package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/altinukshini/gocd-tui/internal/tui"
)

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The terminal belongs to the TUI; logs go to a file when asked for.
	tuiLogger := slog.New(slog.DiscardHandler)
	if path := os.Getenv("GOCD_TUI_DEBUG"); path != "" {
		f, err := tea.LogToFile(path, "gocd-tui")
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer f.Close()
		tuiLogger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	// Session warnings still reach stderr; only the TUI's own logs are redirected.
	sess, err := newSession(cfg, tuiLogger)
	if err != nil {
		return err
	}
	logger = tuiLogger

	logger.Info("starting", "pipeline", cfg.Pipeline, "server", cfg.Server, "offline", cfg.Offline())
	app := tui.NewApp(cfg, sess.backend, sess.searcher, logger)
	if sess.cache != nil {
		app.SetSearchCache(sess.cache)
	}
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
