package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmpegna/setlist-to-playlist/internal/models"
	"github.com/jmpegna/setlist-to-playlist/internal/shared"
)

// FileStore persists each setlist record as a pretty-printed JSON file named
// {key}.json under a single directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir, creating it when missing.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty store directory", shared.ErrInvalidArgument)
	}
	if err := shared.EnsureDir(dir); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory records are written to.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) Put(key string, record models.SetlistRecord) error {
	if key == "" {
		return fmt.Errorf("%w: empty record key", shared.ErrInvalidArgument)
	}

	data, err := shared.MarshalJSON(record, true)
	if err != nil {
		return fmt.Errorf("failed to encode record %s: %w", key, err)
	}

	path := s.path(key)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write record %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Get(key string) (*models.SetlistRecord, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", shared.ErrRecordNotFound, key)
		}
		return nil, fmt.Errorf("failed to read record %s: %w", key, err)
	}

	var record models.SetlistRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode record %s: %w", key, err)
	}
	return &record, nil
}

func (s *FileStore) List() ([]models.SetlistRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	records := make([]models.SetlistRecord, 0, len(names))
	for _, name := range names {
		record, err := s.Get(strings.TrimSuffix(name, ".json"))
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
