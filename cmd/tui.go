package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jmpegna/setlist-to-playlist/internal/setlist"
	"github.com/jmpegna/setlist-to-playlist/internal/shared"
	"github.com/jmpegna/setlist-to-playlist/internal/tasks"
	"github.com/jmpegna/setlist-to-playlist/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for reviewing the latest run.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	playlistName := cmd.String("name")

	if err := r.connectSpotify(ctx); err != nil {
		return err
	}

	records, err := r.recordStore()
	if err != nil {
		return err
	}

	db, ledger, err := r.openLedger()
	if err != nil {
		return err
	}
	defer db.Close()

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/s2p-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	resolver := setlist.NewResolver(r.catalog, nil, fileLogger)
	engine := tasks.NewConcertEngine(resolver, r.spotify, records, ledger, fileLogger)

	model := ui.NewModel(ctx, ledger, records, engine, playlistName)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
