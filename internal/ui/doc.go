// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for reviewing resolution runs:
//  1. [ResolutionListView] : Browse the run ledger (all concerts with their outcomes)
//  2. [RecordView] : Inspect the stored setlist of a resolved concert
//  3. [ConfirmView] : Confirm building the aggregated playlist
//  4. [BuildView] : Monitor real-time progress updates
//  5. [ResultView] : Display match metrics and skipped tracks
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via typed message structs.
// Progress updates flow through a channel from the ConcertEngine, providing non-blocking status reporting during builds.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, b, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
