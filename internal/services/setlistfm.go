// setlist.fm API implementation of [Catalog]
//
// Response types based on https://api.setlist.fm/docs/1.0/index.html
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jmpegna/setlist-to-playlist/internal/models"
	"github.com/jmpegna/setlist-to-playlist/internal/shared"
)

const defaultSetlistFMBaseURL = "https://api.setlist.fm/rest/1.0"

// Doer abstracts the HTTP client executing catalog requests so retry behavior
// and fakes can be injected.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type fmSong struct {
	Name string `json:"name"`
}

type fmSet struct {
	Name string   `json:"name,omitempty"`
	Song []fmSong `json:"song"`
}

type fmSets struct {
	Set []fmSet `json:"set"`
}

type fmCity struct {
	Name string `json:"name"`
}

type fmVenue struct {
	Name string `json:"name"`
	City fmCity `json:"city"`
}

type fmArtist struct {
	Name string `json:"name"`
}

// fmSetlist mirrors one setlist object in a setlist.fm response.
type fmSetlist struct {
	ID        string   `json:"id"`
	EventDate string   `json:"eventDate"` // dd-MM-yyyy
	Artist    fmArtist `json:"artist"`
	Venue     fmVenue  `json:"venue"`
	Sets      fmSets   `json:"sets"`
}

// fmSearchResponse mirrors the paginated search payload.
type fmSearchResponse struct {
	Setlist      []fmSetlist `json:"setlist"`
	Total        int         `json:"total"`
	Page         int         `json:"page"`
	ItemsPerPage int         `json:"itemsPerPage"`
}

// SetlistFMService implements the [Catalog] interface against the setlist.fm
// REST API. Outbound requests go through the injected [Doer], normally a
// [RetryClient] so transient catalog errors are retried.
type SetlistFMService struct {
	baseURL string
	apiKey  string
	client  Doer
}

// NewSetlistFMService creates a setlist.fm catalog client.
// An empty baseURL defaults to the public API; a nil client defaults to
// [http.DefaultClient] (without retries).
func NewSetlistFMService(baseURL, apiKey string, client Doer) (*SetlistFMService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing setlist.fm api_key", shared.ErrMissingCredentials)
	}
	if baseURL == "" {
		baseURL = defaultSetlistFMBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &SetlistFMService{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}, nil
}

func (s *SetlistFMService) Name() string {
	return "setlist.fm"
}

// SearchSetlists queries /search/setlists by artist name and date.
//
// The catalog answers an empty search with 404, which is a miss rather than a
// failure; it maps to an empty candidate slice.
func (s *SetlistFMService) SearchSetlists(ctx context.Context, artist string, date models.Date) ([]SetlistSummary, error) {
	params := url.Values{}
	params.Set("artistName", artist)
	params.Set("date", searchDate(date))

	endpoint := fmt.Sprintf("%s/search/setlists?%s", s.baseURL, params.Encode())

	var response fmSearchResponse
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		if errors.Is(err, shared.ErrSetlistNotFound) {
			return nil, nil
		}
		return nil, err
	}

	summaries := make([]SetlistSummary, 0, len(response.Setlist))
	for _, sl := range response.Setlist {
		summaries = append(summaries, SetlistSummary{
			SetlistID: sl.ID,
			Venue:     sl.Venue.Name,
			City:      sl.Venue.City.Name,
			EventDate: parseEventDate(sl.EventDate),
		})
	}

	return summaries, nil
}

// Setlist retrieves the full detail for one setlist via /setlist/{id}.
func (s *SetlistFMService) Setlist(ctx context.Context, setlistID string) (*SetlistDetail, error) {
	if setlistID == "" {
		return nil, fmt.Errorf("%w: empty setlist ID", shared.ErrInvalidArgument)
	}

	endpoint := fmt.Sprintf("%s/setlist/%s", s.baseURL, url.PathEscape(setlistID))

	var sl fmSetlist
	if err := s.doRequest(ctx, endpoint, &sl); err != nil {
		return nil, err
	}

	detail := &SetlistDetail{
		SetlistID: sl.ID,
		Artist:    sl.Artist.Name,
		Venue:     sl.Venue.Name,
		City:      sl.Venue.City.Name,
		EventDate: parseEventDate(sl.EventDate),
	}

	for _, set := range sl.Sets.Set {
		songs := make([]string, 0, len(set.Song))
		for _, song := range set.Song {
			songs = append(songs, song.Name)
		}
		detail.Sets = append(detail.Sets, SetlistSet{Name: set.Name, Songs: songs})
	}

	return detail, nil
}

// doRequest performs an authenticated GET against the catalog and decodes the
// JSON response into result.
func (s *SetlistFMService) doRequest(ctx context.Context, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		if resp != nil {
			// The catalog answers an empty lookup with 404; classify it as an
			// expected miss so callers can tell it apart from a real failure.
			if resp.StatusCode == http.StatusNotFound {
				err = fmt.Errorf("%w: %s", shared.ErrSetlistNotFound, endpoint)
			}
			drain(resp)
		}
		return err
	}
	defer resp.Body.Close()

	// A plain Doer hands back non-2xx responses without an error.
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", shared.ErrSetlistNotFound, endpoint)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: catalog status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// searchDate formats a date in the catalog's dd-MM-yyyy wire format.
func searchDate(d models.Date) string {
	return fmt.Sprintf("%02d-%02d-%04d", d.Day, d.Month, d.Year)
}

// parseEventDate parses the catalog's dd-MM-yyyy event date.
// Returns the zero Date when the field is missing or malformed.
func parseEventDate(s string) models.Date {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return models.Date{}
	}

	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return models.Date{}
	}

	return models.NewDate(day, month, year)
}
