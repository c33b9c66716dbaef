// package testing contains shared testing utilities
package testing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/jmpegna/setlist-to-playlist/internal/models"
	"github.com/jmpegna/setlist-to-playlist/internal/services"
	"github.com/jmpegna/setlist-to-playlist/internal/shared"
)

// MockCatalog is a test double for [services.Catalog], keyed by artist name.
type MockCatalog struct {
	Summaries map[string][]services.SetlistSummary
	Details   map[string]*services.SetlistDetail
	SearchErr error
	DetailErr error

	SearchCalls int
	DetailCalls int
}

func (m *MockCatalog) SearchSetlists(ctx context.Context, artist string, date models.Date) ([]services.SetlistSummary, error) {
	m.SearchCalls++
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.Summaries[artist], nil
}

func (m *MockCatalog) Setlist(ctx context.Context, setlistID string) (*services.SetlistDetail, error) {
	m.DetailCalls++
	if m.DetailErr != nil {
		return nil, m.DetailErr
	}
	detail, ok := m.Details[setlistID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrSetlistNotFound, setlistID)
	}
	return detail, nil
}

// MockSink is a test double for [services.PlaylistSink]. Tracks added URIs
// per playlist and treats titles in Missing as unmatched.
type MockSink struct {
	Missing    map[string]bool
	Playlists  map[string]string // name -> ID
	Added      map[string][]string
	SearchErr  error
	EnsureErr  error
	AddErr     error
	AddBatches int
}

func (m *MockSink) Authenticate(ctx context.Context, credentials map[string]string) error {
	return nil
}

func (m *MockSink) SearchTrack(ctx context.Context, title, artist string) (*services.TrackMatch, error) {
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	if m.Missing[title] {
		return nil, fmt.Errorf("%w: %q", shared.ErrTrackNotFound, title)
	}
	return &services.TrackMatch{
		ID:     "id-" + title,
		URI:    "spotify:track:" + title,
		Title:  title,
		Artist: artist,
	}, nil
}

func (m *MockSink) EnsurePlaylist(ctx context.Context, name string) (string, error) {
	if m.EnsureErr != nil {
		return "", m.EnsureErr
	}
	if m.Playlists == nil {
		m.Playlists = map[string]string{}
	}
	if id, ok := m.Playlists[name]; ok {
		return id, nil
	}
	id := fmt.Sprintf("playlist-%d", len(m.Playlists)+1)
	m.Playlists[name] = id
	return id, nil
}

func (m *MockSink) AddTracks(ctx context.Context, playlistID string, trackURIs []string) error {
	if m.AddErr != nil {
		return m.AddErr
	}
	if m.Added == nil {
		m.Added = map[string][]string{}
	}
	m.AddBatches++
	m.Added[playlistID] = append(m.Added[playlistID], trackURIs...)
	return nil
}

func (m *MockSink) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// SequenceRoundTripper replays a fixed sequence of responses, one per
// request, repeating the final entry once the sequence runs out.
type SequenceRoundTripper struct {
	Responses []*http.Response
	Errs      []error
	Calls     int
}

func (s *SequenceRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	i := s.Calls
	s.Calls++
	if i >= len(s.Responses) {
		i = len(s.Responses) - 1
	}
	var err error
	if i < len(s.Errs) {
		err = s.Errs[i]
	}
	return s.Responses[i], err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// Body wraps a string as a response body.
func Body(s string) io.ReadCloser {
	return io.NopCloser(bytes.NewBufferString(s))
}
