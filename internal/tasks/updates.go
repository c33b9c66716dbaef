package tasks

import (
	"fmt"

	"github.com/jmpegna/setlist-to-playlist/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ResolveConcerts Phase = iota
	WriteRecords
	AggregateTracks
	SearchTracks
	CreatePlaylist
	AddTracks
)

func (p Phase) String() string {
	switch p {
	case ResolveConcerts:
		return "resolve_concerts"
	case WriteRecords:
		return "write_records"
	case AggregateTracks:
		return "aggregate_tracks"
	case SearchTracks:
		return "search_tracks"
	case CreatePlaylist:
		return "create_playlist"
	case AddTracks:
		return "add_tracks"
	default:
		return ""
	}
}

func resolveConcertUpdate(step, total int, query models.ConcertQuery) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveConcerts,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Resolving %s (%s)...", query.Group, query.Date.ISO()),
		Data:    query,
	}
}

func concertOutcomeUpdate(step, total int, outcome ConcertOutcome) ProgressUpdate {
	var message string
	switch outcome.Status {
	case models.StatusResolved:
		message = fmt.Sprintf("Resolved %s: %d songs at %s", outcome.Query.Group, outcome.SongCount, outcome.Venue)
	case models.StatusNotFound:
		message = fmt.Sprintf("No setlist found for %s on %s", outcome.Query.Group, outcome.Query.Date.ISO())
	default:
		message = fmt.Sprintf("Lookup failed for %s on %s", outcome.Query.Group, outcome.Query.Date.ISO())
	}

	return ProgressUpdate{
		Phase:   ResolveConcerts,
		Step:    step,
		Total:   total,
		Message: message,
		Data:    outcome,
	}
}

func writeRecordUpdate(step, total int, key string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteRecords,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Stored %s.json", key),
	}
}

func aggregateUpdate(trackCount, recordCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AggregateTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Aggregated %d tracks from %d setlists", trackCount, recordCount),
	}
}

func searchTracksUpdate(step, total int, request *models.TrackRequest) ProgressUpdate {
	update := ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Message: "Searching for tracks...",
	}
	if request != nil {
		update.Message = fmt.Sprintf("Searching for %s by %s...", request.Title, request.Artist)
		update.Data = *request
	}
	return update
}

func createPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Preparing playlist %q...", name),
	}
}

func addTracksUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Adding %d tracks...", count),
	}
}
