// package store persists setlist records and the resolution run ledger.
//
// Records are written as one JSON artifact per concert; the ledger tracks
// resolution outcomes in sqlite so unresolved concerts survive across runs.
package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jmpegna/setlist-to-playlist/internal/models"
	"github.com/jmpegna/setlist-to-playlist/internal/shared"
)

// RecordStore persists normalized setlist records keyed by their record key.
//
// Put is idempotent: writing the same key twice overwrites the earlier
// record.
type RecordStore interface {
	Put(key string, record models.SetlistRecord) error
	Get(key string) (*models.SetlistRecord, error)

	// List returns all stored records sorted by key, which orders them
	// chronologically thanks to the ISO date prefix.
	List() ([]models.SetlistRecord, error)
}

// MemoryStore is an in-memory RecordStore for tests and dry runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]models.SetlistRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]models.SetlistRecord)}
}

func (s *MemoryStore) Put(key string, record models.SetlistRecord) error {
	if key == "" {
		return fmt.Errorf("%w: empty record key", shared.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = record
	return nil
}

func (s *MemoryStore) Get(key string) (*models.SetlistRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrRecordNotFound, key)
	}
	return &record, nil
}

func (s *MemoryStore) List() ([]models.SetlistRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.records))
	for key := range s.records {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	records := make([]models.SetlistRecord, 0, len(keys))
	for _, key := range keys {
		records = append(records, s.records[key])
	}
	return records, nil
}
