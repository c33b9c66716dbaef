// package tasks orchestrates the concert resolution pipeline.
//
// The core abstraction is ConcertEngine, which drives catalog resolution,
// record persistence, and playlist assembly. Operations emit progress updates
// via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jmpegna/setlist-to-playlist/internal/models"
	"github.com/jmpegna/setlist-to-playlist/internal/services"
	"github.com/jmpegna/setlist-to-playlist/internal/setlist"
	"github.com/jmpegna/setlist-to-playlist/internal/shared"
	"github.com/jmpegna/setlist-to-playlist/internal/store"
)

// Resolver resolves one concert query to a catalog setlist detail.
type Resolver interface {
	Resolve(ctx context.Context, query models.ConcertQuery) (*services.SetlistDetail, error)
}

// Ledger records resolution outcomes across runs.
type Ledger interface {
	Upsert(resolution *models.Resolution) error
}

// ConcertOutcome is the per-concert result of a download run.
type ConcertOutcome struct {
	Query     models.ConcertQuery // Original concert query
	Status    models.Status       // Terminal resolution status
	RecordKey string              // Storage key when resolved
	SetlistID string              // Catalog setlist ID when resolved
	Venue     string              // Venue when resolved
	SongCount int                 // Songs in the stored record
	Error     error               // Cause for not_found/lookup_failed
}

// DownloadRunResult contains all data from one download run.
type DownloadRunResult struct {
	RunID         string           // Ledger run identifier
	Outcomes      []ConcertOutcome // Per-concert outcomes in input order
	ResolvedCount int
	NotFoundCount int
	FailedCount   int
}

// Unresolved returns the outcomes that did not produce a record.
func (r *DownloadRunResult) Unresolved() []ConcertOutcome {
	var unresolved []ConcertOutcome
	for _, outcome := range r.Outcomes {
		if outcome.Status != models.StatusResolved {
			unresolved = append(unresolved, outcome)
		}
	}
	return unresolved
}

// TrackMatchResult represents the result of attempting to match a single track.
type TrackMatchResult struct {
	Request models.TrackRequest  // Requested title and artist
	Matched *services.TrackMatch // Matched track (nil if not found)
	Error   error                // Error if match failed
}

// PlaylistRunResult contains all data from a playlist build.
type PlaylistRunResult struct {
	PlaylistID      string             // Sink playlist ID
	PlaylistName    string             // Requested playlist name
	TrackMatches    []TrackMatchResult // Individual track match results
	SuccessCount    int                // Number of successfully matched tracks
	FailedCount     int                // Number of failed matches
	TotalTracks     int                // Total tracks processed
	MatchPercentage float64            // Success rate as percentage
}

// SetlistEngine defines the pipeline operations.
type SetlistEngine interface {
	// Download resolves each concert against the catalog and persists the
	// normalized setlist records. Per-concert failures do not stop the run.
	Download(ctx context.Context, queries []models.ConcertQuery, progress chan<- ProgressUpdate) (*DownloadRunResult, error)

	// BuildPlaylist aggregates all stored records into one playlist on the
	// sink, searching for each track and skipping the ones it cannot match.
	BuildPlaylist(ctx context.Context, name string, progress chan<- ProgressUpdate) (*PlaylistRunResult, error)
}

// ConcertEngine implements SetlistEngine.
type ConcertEngine struct {
	resolver Resolver
	sink     services.PlaylistSink
	records  store.RecordStore
	ledger   Ledger
	logger   *log.Logger
}

// NewConcertEngine creates a ConcertEngine. The ledger may be nil, in which
// case outcomes are not persisted across runs.
func NewConcertEngine(resolver Resolver, sink services.PlaylistSink, records store.RecordStore, ledger Ledger, logger *log.Logger) *ConcertEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &ConcertEngine{
		resolver: resolver,
		sink:     sink,
		records:  records,
		ledger:   ledger,
		logger:   logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ConcertEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Download resolves the queries sequentially, in input order. Catalog misses
// and failures are recorded per concert; only local storage errors and
// context cancellation abort the run.
func (e *ConcertEngine) Download(ctx context.Context, queries []models.ConcertQuery, progress chan<- ProgressUpdate) (*DownloadRunResult, error) {
	if e.resolver == nil {
		return nil, fmt.Errorf("%w: resolver not initialized", shared.ErrServiceUnavailable)
	}
	if e.records == nil {
		return nil, fmt.Errorf("%w: record store not initialized", shared.ErrServiceUnavailable)
	}

	result := &DownloadRunResult{RunID: shared.GenerateID()}
	total := len(queries)

	for i, query := range queries {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		e.sendProgress(progress, resolveConcertUpdate(i+1, total, query))

		outcome, err := e.resolveOne(ctx, query)
		if err != nil {
			return result, err
		}

		result.Outcomes = append(result.Outcomes, outcome)
		switch outcome.Status {
		case models.StatusResolved:
			result.ResolvedCount++
		case models.StatusNotFound:
			result.NotFoundCount++
		default:
			result.FailedCount++
		}

		e.recordOutcome(result.RunID, outcome)
		e.sendProgress(progress, concertOutcomeUpdate(i+1, total, outcome))
		if outcome.Status == models.StatusResolved {
			e.sendProgress(progress, writeRecordUpdate(i+1, total, outcome.RecordKey))
		}
	}

	return result, nil
}

// resolveOne resolves a single concert and persists its record. The returned
// error is non-nil only for local failures that should abort the run.
func (e *ConcertEngine) resolveOne(ctx context.Context, query models.ConcertQuery) (ConcertOutcome, error) {
	outcome := ConcertOutcome{Query: query}

	detail, err := e.resolver.Resolve(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return outcome, ctx.Err()
		}

		outcome.Error = err
		if errors.Is(err, shared.ErrSetlistNotFound) {
			outcome.Status = models.StatusNotFound
			e.logger.Warn("no setlist found", "group", query.Group, "date", query.Date.ISO())
		} else {
			outcome.Status = models.StatusLookupFailed
			e.logger.Error("setlist lookup failed", "group", query.Group, "date", query.Date.ISO(), "error", err)
		}
		return outcome, nil
	}

	record := setlist.Normalize(query, detail)
	key := models.RecordKey(query)

	if err := e.records.Put(key, record); err != nil {
		return outcome, fmt.Errorf("failed to store record %s: %w", key, err)
	}

	outcome.Status = models.StatusResolved
	outcome.RecordKey = key
	outcome.SetlistID = record.SetlistID
	outcome.Venue = record.Venue
	outcome.SongCount = record.SongCount()

	if outcome.SongCount == 0 {
		e.logger.Warn("no songs found in setlist", "group", query.Group, "date", query.Date.ISO(), "setlist", record.SetlistID)
	}

	return outcome, nil
}

// recordOutcome writes the outcome to the ledger. Ledger failures are logged
// rather than propagated so bookkeeping cannot abort a download.
func (e *ConcertEngine) recordOutcome(runID string, outcome ConcertOutcome) {
	if e.ledger == nil {
		return
	}

	resolution := &models.Resolution{
		RunID:       runID,
		Group:       outcome.Query.Group,
		ConcertDate: outcome.Query.Date.ISO(),
		RecordKey:   outcome.RecordKey,
		Status:      outcome.Status,
		SetlistID:   outcome.SetlistID,
		Venue:       outcome.Venue,
	}
	if outcome.Error != nil {
		resolution.Err = outcome.Error.Error()
	}

	if err := e.ledger.Upsert(resolution); err != nil {
		e.logger.Error("failed to record outcome", "group", outcome.Query.Group, "error", err)
	}
}

// BuildPlaylist aggregates every stored record into the named playlist.
// Tracks the sink cannot match are skipped and counted; any other sink error
// aborts the build.
func (e *ConcertEngine) BuildPlaylist(ctx context.Context, name string, progress chan<- ProgressUpdate) (*PlaylistRunResult, error) {
	if e.sink == nil {
		return nil, fmt.Errorf("%w: playlist sink not initialized", shared.ErrServiceUnavailable)
	}
	if e.records == nil {
		return nil, fmt.Errorf("%w: record store not initialized", shared.ErrServiceUnavailable)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	records, err := e.records.List()
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no setlist records stored", shared.ErrRecordNotFound)
	}

	requests := Aggregate(records)
	e.sendProgress(progress, aggregateUpdate(len(requests), len(records)))

	result := &PlaylistRunResult{
		PlaylistName: name,
		TotalTracks:  len(requests),
	}

	e.sendProgress(progress, searchTracksUpdate(0, len(requests), nil))

	var uris []string
	for i, request := range requests {
		e.sendProgress(progress, searchTracksUpdate(i+1, len(requests), &request))

		match, err := e.sink.SearchTrack(ctx, request.Title, request.Artist)
		if err != nil && !errors.Is(err, shared.ErrTrackNotFound) {
			return result, fmt.Errorf("track search failed: %w", err)
		}

		result.TrackMatches = append(result.TrackMatches, TrackMatchResult{
			Request: request,
			Matched: match,
			Error:   err,
		})

		if err != nil {
			result.FailedCount++
			e.logger.Warn("track not found", "title", request.Title, "artist", request.Artist)
			continue
		}

		result.SuccessCount++
		uris = append(uris, match.URI)
	}

	if result.TotalTracks > 0 {
		result.MatchPercentage = float64(result.SuccessCount) / float64(result.TotalTracks) * 100
	}

	if result.SuccessCount == 0 {
		return result, fmt.Errorf("no tracks were matched - cannot create empty playlist")
	}

	e.sendProgress(progress, createPlaylistUpdate(name))

	playlistID, err := e.sink.EnsurePlaylist(ctx, name)
	if err != nil {
		return result, fmt.Errorf("failed to prepare playlist: %w", err)
	}
	result.PlaylistID = playlistID

	e.sendProgress(progress, addTracksUpdate(len(uris)))

	if err := e.sink.AddTracks(ctx, playlistID, uris); err != nil {
		return result, fmt.Errorf("failed to add tracks: %w", err)
	}

	return result, nil
}
