package models

import (
	"fmt"
	"time"
)

// Status is the terminal state of one concert's resolution.
type Status int

const (
	StatusPending Status = iota
	StatusResolved
	StatusNotFound
	StatusLookupFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusResolved:
		return "resolved"
	case StatusNotFound:
		return "not_found"
	case StatusLookupFailed:
		return "lookup_failed"
	default:
		return ""
	}
}

// ParseStatus converts a stored status string back to a Status.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "pending":
		return StatusPending, nil
	case "resolved":
		return StatusResolved, nil
	case "not_found":
		return StatusNotFound, nil
	case "lookup_failed":
		return StatusLookupFailed, nil
	default:
		return StatusPending, fmt.Errorf("unknown status %q", s)
	}
}

// Resolution is the persisted outcome of resolving one ConcertQuery.
//
// One row exists per (group, concert date) pair; re-running a concert updates
// the existing row, keeping the ledger idempotent across runs.
type Resolution struct {
	ID          string
	RunID       string
	Group       string
	ConcertDate string // ISO date of the lookup, not the rename date
	RecordKey   string
	Status      Status
	SetlistID   string
	Venue       string
	Err         string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the fields required for persistence.
func (r Resolution) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("resolution ID must not be empty")
	}
	if r.Group == "" {
		return fmt.Errorf("resolution group must not be empty")
	}
	if r.ConcertDate == "" {
		return fmt.Errorf("resolution concert date must not be empty")
	}
	if r.Status == StatusPending {
		return fmt.Errorf("resolution status must be terminal")
	}
	return nil
}
