// package services defines interfaces for the external HTTP APIs
//
// setlist.fm (catalog), Spotify (playlist sink)
package services

import (
	"context"

	"github.com/jmpegna/setlist-to-playlist/internal/models"
	"golang.org/x/oauth2"
)

// Catalog defines the interface for the external concert database queried by
// date and performer.
type Catalog interface {
	// SearchSetlists queries the catalog for setlists by artist name and
	// concert date. Returns the candidate summaries in the catalog's own
	// order; an empty slice means the lookup was a miss.
	SearchSetlists(ctx context.Context, artist string, date models.Date) ([]SetlistSummary, error)

	// Setlist retrieves the full detail for a single setlist by its opaque
	// identifier.
	Setlist(ctx context.Context, setlistID string) (*SetlistDetail, error)
}

// SetlistSummary is one candidate result from a catalog search.
type SetlistSummary struct {
	SetlistID string
	Venue     string
	City      string
	EventDate models.Date
}

// SetlistDetail is the full catalog payload for one setlist, with the
// catalog's nested set/song structure preserved.
type SetlistDetail struct {
	SetlistID string
	Artist    string
	Venue     string
	City      string
	EventDate models.Date
	Sets      []SetlistSet
}

// SetlistSet is one set within a setlist: an ordered sequence of song titles.
type SetlistSet struct {
	Name  string
	Songs []string
}

// PlaylistSink defines the interface for the streaming service that receives
// the aggregated playlist.
type PlaylistSink interface {
	// Authenticate performs OAuth or token authentication with the service.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// SearchTrack searches for a track by title and artist.
	// Returns shared.ErrTrackNotFound when the service has no match.
	SearchTrack(ctx context.Context, title, artist string) (*TrackMatch, error)

	// EnsurePlaylist returns the ID of the playlist with the given name,
	// creating it when it does not exist.
	EnsurePlaylist(ctx context.Context, name string) (string, error)

	// AddTracks appends the given track URIs to a playlist, in order.
	AddTracks(ctx context.Context, playlistID string, trackURIs []string) error

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// TrackMatch is the sink's answer to a track search.
type TrackMatch struct {
	ID     string
	URI    string
	Title  string
	Artist string
}

// OAuthService extends PlaylistSink for providers using the OAuth2
// authorization code flow.
type OAuthService interface {
	PlaylistSink

	// GetAuthURL returns the authorization URL for user login.
	GetAuthURL(state string) string

	// GetOAuthConfig returns the underlying OAuth2 configuration.
	GetOAuthConfig() *oauth2.Config

	// OAuthenticate authenticates with a previously obtained token.
	OAuthenticate(ctx context.Context, token *oauth2.Token) error
}
