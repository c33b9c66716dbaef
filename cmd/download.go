package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jmpegna/setlist-to-playlist/internal/concerts"
	"github.com/jmpegna/setlist-to-playlist/internal/shared"
	"github.com/jmpegna/setlist-to-playlist/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Download resolves every concert in a CSV file and persists the setlist records.
func (r *Runner) Download(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if path == "" {
		path = filepath.Join(r.config.Global.ConcertsDir, "concerts.csv")
	}

	queries, err := concerts.ReadFile(path)
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		return fmt.Errorf("%w: no concerts found in %s", shared.ErrInvalidInput, path)
	}

	engine, db, err := r.buildEngine()
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	r.logger.Info("starting download", "concerts", len(queries), "input", path)
	r.writePlain("Resolving %d concerts from %s...\n\n", len(queries), path)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.ResolveConcerts:
				r.writePlain("🔍 %s\n", update.Message)
			case tasks.WriteRecords:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := engine.Download(ctx, queries, progressCh)
	close(progressCh)

	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(result, pretty)
	}

	r.writePlain("\n")
	r.writePlainHeader("Download Complete!")
	r.writePlain("Run ID: %s\n", result.RunID)
	r.writePlain("Resolved: %d/%d\n", result.ResolvedCount, len(result.Outcomes))
	r.writePlain("No setlist found: %d\n", result.NotFoundCount)
	r.writePlain("Lookup failures: %d\n", result.FailedCount)

	if unresolved := result.Unresolved(); len(unresolved) > 0 {
		r.writePlain("\nUnresolved concerts:\n")
		for _, outcome := range unresolved {
			r.writePlain("  - %s on %s (%s)", outcome.Query.Group, outcome.Query.Date.ISO(), outcome.Status)
			if outcome.Error != nil {
				r.writePlain(": %v", outcome.Error)
			}
			r.writePlain("\n")
		}
	}

	return nil
}
