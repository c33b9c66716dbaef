// Package models defines domain entities for the setlist-to-playlist pipeline.
//
// The package contains two categories of types:
//
// 1. Pipeline values passed between components:
//   - [ConcertQuery] : One row of user input (performer + concert date, optional rename date)
//   - [SetlistRecord] : The normalized, persisted setlist (ordered songs grouped by set)
//   - [TrackRequest] : A single (title, artist) pair sent to the playlist sink
//
// 2. Run ledger entities persisted to SQLite:
//   - [Resolution] : The terminal state of one concert's resolution attempt
//
// Concert resolution is a small state machine: a query starts [StatusPending] and
// terminates in exactly one of [StatusResolved], [StatusNotFound], or
// [StatusLookupFailed]. Only resolved queries produce a [SetlistRecord]; the other
// two states feed the end-of-run report.
package models
