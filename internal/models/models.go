package models

import (
	"fmt"
	"time"
)

// Date is a calendar date without time or zone.
type Date struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

// NewDate builds a Date from day, month, and year components.
func NewDate(day, month, year int) Date {
	return Date{Day: day, Month: month, Year: year}
}

// IsZero reports whether no component of the date has been set.
func (d Date) IsZero() bool {
	return d.Day == 0 && d.Month == 0 && d.Year == 0
}

// Validate checks that the date is well-formed: day 1-31, month 1-12, and a
// plausible year (1900 through next year).
func (d Date) Validate() error {
	if d.Day < 1 || d.Day > 31 {
		return fmt.Errorf("invalid day %d", d.Day)
	}
	if d.Month < 1 || d.Month > 12 {
		return fmt.Errorf("invalid month %d", d.Month)
	}
	if d.Year < 1900 || d.Year > time.Now().Year()+1 {
		return fmt.Errorf("invalid year %d", d.Year)
	}
	return nil
}

// ISO returns the date formatted as YYYY-MM-DD.
func (d Date) ISO() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) String() string {
	return d.ISO()
}

// ConcertQuery is one row of user input: a performer and the date of a concert.
//
// AltDate is an optional override used only to name the persisted artifact so
// operators can re-order files chronologically; it never changes the catalog
// lookup. Unset AltDate components default to the corresponding Date component.
type ConcertQuery struct {
	Group   string
	Date    Date
	AltDate Date
	Row     int // 1-based row number in the source CSV
}

// Validate checks that the query has a non-empty group and a well-formed date.
func (q ConcertQuery) Validate() error {
	if q.Group == "" {
		return fmt.Errorf("group must not be empty")
	}
	if err := q.Date.Validate(); err != nil {
		return fmt.Errorf("concert date: %w", err)
	}
	return nil
}

// RenameDate returns the date used to name the persisted record: each AltDate
// component when set, otherwise the concert date component.
func (q ConcertQuery) RenameDate() Date {
	d := q.Date
	if q.AltDate.Day != 0 {
		d.Day = q.AltDate.Day
	}
	if q.AltDate.Month != 0 {
		d.Month = q.AltDate.Month
	}
	if q.AltDate.Year != 0 {
		d.Year = q.AltDate.Year
	}
	return d
}

// RecordKey derives the storage key for a query's setlist record:
// {renameDate}_{row}_{group}.
func RecordKey(q ConcertQuery) string {
	return fmt.Sprintf("%s_%d_%s", q.RenameDate().ISO(), q.Row, q.Group)
}

// SetlistRecord is the normalized, persisted artifact of one resolved concert.
//
// Sets preserves performance order exactly: an ordered sequence of sets, each an
// ordered sequence of song titles. Records are immutable after creation.
type SetlistRecord struct {
	SetlistID   string     `json:"setlist_id"`
	Group       string     `json:"group"`
	Venue       string     `json:"venue"`
	City        string     `json:"city,omitempty"`
	ConcertDate Date       `json:"concert_date"`
	Sets        [][]string `json:"sets"`
}

// SongCount returns the total number of songs across all sets.
func (r SetlistRecord) SongCount() int {
	count := 0
	for _, set := range r.Sets {
		count += len(set)
	}
	return count
}

// TrackRequest is a single playlist-sink input derived from a SetlistRecord
// during aggregation. Never persisted.
type TrackRequest struct {
	Title  string
	Artist string
}
