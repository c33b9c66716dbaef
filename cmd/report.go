package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jmpegna/setlist-to-playlist/internal/formatter"
	"github.com/jmpegna/setlist-to-playlist/internal/models"
	"github.com/jmpegna/setlist-to-playlist/internal/shared"
	"github.com/urfave/cli/v3"
)

// Report renders resolution outcomes from the run ledger.
func (r *Runner) Report(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	outputFile := cmd.String("output")
	runID := cmd.String("run")
	unresolvedOnly := cmd.Bool("unresolved")

	db, ledger, err := r.openLedger()
	if err != nil {
		return err
	}
	defer db.Close()

	var resolutions []*models.Resolution
	var title string

	switch {
	case unresolvedOnly:
		title = "Unresolved Concerts"
		resolutions, err = ledger.ListUnresolved()
	case runID != "":
		title = fmt.Sprintf("Run %s", runID)
		resolutions, err = ledger.ListByRun(runID)
	default:
		runID, err = ledger.LatestRunID()
		if err != nil {
			if errors.Is(err, shared.ErrRecordNotFound) {
				r.writePlain("No runs recorded yet. Run 'download' first.\n")
				return nil
			}
			return err
		}
		title = fmt.Sprintf("Latest Run (%s)", runID)
		resolutions, err = ledger.ListByRun(runID)
	}

	if err != nil {
		return fmt.Errorf("failed to read run ledger: %w", err)
	}

	var report []byte
	switch format {
	case "csv":
		report, err = formatter.ReportToCSV(resolutions)
	case "markdown", "md":
		report, err = formatter.ReportToMarkdown(resolutions, title)
	case "text", "":
		report, err = formatter.ReportToText(resolutions)
	default:
		return fmt.Errorf("%w: unknown format %q (must be text, csv or markdown)", shared.ErrInvalidFlag, format)
	}

	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, report, 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		r.writePlain("✓ Report written to %s\n", outputFile)
		return nil
	}

	return r.writePlain("%s", string(report))
}
