package main

import (
	"context"
	"fmt"

	"github.com/jmpegna/setlist-to-playlist/internal/shared"
	"github.com/jmpegna/setlist-to-playlist/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PlaylistCreate builds a Spotify playlist from the persisted setlist records.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.String("name")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if err := r.connectSpotify(ctx); err != nil {
		return err
	}

	engine, db, err := r.buildEngine()
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	r.logger.Info("building playlist", "name", name)
	r.writePlain("Building playlist '%s'...\n\n", name)

	result, err := r.runBuild(ctx, engine, name)
	if err != nil {
		if reauthed, authErr := r.handleAuthError(ctx, err); reauthed {
			if authErr != nil {
				return authErr
			}
			if result, err = r.runBuild(ctx, engine, name); err != nil {
				return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
			}
		} else {
			return err
		}
	}

	if useJSON {
		return r.writeJSON(result, pretty)
	}

	r.writePlain("\n")
	r.writePlainHeader("Playlist Complete!")
	r.writePlain("Playlist: %s (%s)\n", result.PlaylistName, result.PlaylistID)
	r.writePlain("Matched: %d/%d (%.1f%%)\n", result.SuccessCount, result.TotalTracks, result.MatchPercentage)

	if result.FailedCount > 0 {
		r.writePlain("\nFailed to match %d tracks:\n", result.FailedCount)
		for _, match := range result.TrackMatches {
			if match.Error != nil {
				r.writePlain("  - %s - %s\n", match.Request.Artist, match.Request.Title)
			}
		}
	}

	return nil
}

// runBuild runs the engine with a progress consumer rendering each phase.
func (r *Runner) runBuild(ctx context.Context, engine *tasks.ConcertEngine, name string) (*tasks.PlaylistRunResult, error) {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.AggregateTracks:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.SearchTracks:
				if update.Step == 0 {
					r.writePlain("\n🔍 %s\n", update.Message)
				} else {
					r.writePlain("   %s\n", update.Message)
				}
			case tasks.CreatePlaylist, tasks.AddTracks:
				r.writePlain("\n📝 %s\n", update.Message)
			}
		}
	}()

	result, err := engine.BuildPlaylist(ctx, name, progressCh)
	close(progressCh)

	return result, err
}
