// package setlist turns concert queries into normalized setlist records.
//
// The resolver drives catalog lookups and candidate selection; the
// normalizer flattens the catalog's nested payload into the persisted
// record shape.
package setlist

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jmpegna/setlist-to-playlist/internal/models"
	"github.com/jmpegna/setlist-to-playlist/internal/services"
	"github.com/jmpegna/setlist-to-playlist/internal/shared"
)

// Strategy selects one candidate when a catalog search returns several
// setlists for the same artist and date (split shows, festival slots).
type Strategy interface {
	// Pick chooses from candidates; called only with a non-empty slice.
	Pick(query models.ConcertQuery, candidates []services.SetlistSummary) services.SetlistSummary

	// Name identifies the strategy in logs.
	Name() string
}

// FirstCandidate takes the catalog's top-ranked candidate.
type FirstCandidate struct{}

func (FirstCandidate) Pick(_ models.ConcertQuery, candidates []services.SetlistSummary) services.SetlistSummary {
	return candidates[0]
}

func (FirstCandidate) Name() string { return "first-candidate" }

// VenueHint prefers the candidate whose venue contains the hint configured
// for the query's group, falling back to the first candidate.
type VenueHint struct {
	// Hints maps group name to a case-insensitive venue substring.
	Hints map[string]string
}

func (v VenueHint) Pick(query models.ConcertQuery, candidates []services.SetlistSummary) services.SetlistSummary {
	hint, ok := v.Hints[query.Group]
	if ok && hint != "" {
		for _, candidate := range candidates {
			if strings.Contains(strings.ToLower(candidate.Venue), strings.ToLower(hint)) {
				return candidate
			}
		}
	}
	return candidates[0]
}

func (VenueHint) Name() string { return "venue-hint" }

// Resolver looks up one concert in the catalog and fetches the selected
// setlist's detail.
//
// Outcomes map to errors: a miss returns an error wrapping
// [shared.ErrSetlistNotFound], any catalog failure returns one wrapping
// [shared.ErrLookupFailed]. Callers translate these into ledger statuses.
type Resolver struct {
	catalog  services.Catalog
	strategy Strategy
	logger   *log.Logger
}

// NewResolver creates a resolver. A nil strategy defaults to [FirstCandidate].
func NewResolver(catalog services.Catalog, strategy Strategy, logger *log.Logger) *Resolver {
	if strategy == nil {
		strategy = FirstCandidate{}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Resolver{
		catalog:  catalog,
		strategy: strategy,
		logger:   logger,
	}
}

// Resolve searches the catalog for the query's artist and date and returns
// the full detail of the selected setlist.
func (r *Resolver) Resolve(ctx context.Context, query models.ConcertQuery) (*services.SetlistDetail, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	candidates, err := r.catalog.SearchSetlists(ctx, query.Group, query.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: search %s on %s: %w", shared.ErrLookupFailed, query.Group, query.Date, err)
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s on %s", shared.ErrSetlistNotFound, query.Group, query.Date)
	}

	selected := candidates[0]
	if len(candidates) > 1 {
		selected = r.strategy.Pick(query, candidates)
		r.logger.Warn("ambiguous catalog result",
			"group", query.Group, "date", query.Date.ISO(),
			"candidates", len(candidates), "strategy", r.strategy.Name(),
			"selected_venue", selected.Venue)
	}

	detail, err := r.catalog.Setlist(ctx, selected.SetlistID)
	if err != nil {
		return nil, fmt.Errorf("%w: detail %s: %w", shared.ErrLookupFailed, selected.SetlistID, err)
	}

	return detail, nil
}
