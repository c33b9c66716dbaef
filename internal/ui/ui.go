package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jmpegna/setlist-to-playlist/internal/models"
	"github.com/jmpegna/setlist-to-playlist/internal/store"
	"github.com/jmpegna/setlist-to-playlist/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ResolutionListView ViewState = iota
	RecordView
	ConfirmView
	BuildView
	ResultView
)

// Ledger is the slice of the resolution repository the TUI reads from.
type Ledger interface {
	LatestRunID() (string, error)
	ListByRun(runID string) ([]*models.Resolution, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	ledger       Ledger
	records      store.RecordStore
	engine       *tasks.ConcertEngine
	playlistName string

	width          int
	height         int
	resolutionList list.Model
	resolutions    []*models.Resolution
	songList       list.Model
	selected       *models.Resolution
	progressChan   chan tasks.ProgressUpdate
	progress       tasks.ProgressUpdate
	result         *tasks.PlaylistRunResult
	err            error
	help           help.Model
	keys           keyMap
}

type resolutionsFetchedMsg struct {
	resolutions []*models.Resolution
	err         error
}

type recordFetchedMsg struct {
	record *models.SetlistRecord
	err    error
}

type progressUpdateMsg tasks.ProgressUpdate

type buildCompleteMsg struct {
	result *tasks.PlaylistRunResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, ledger Ledger, records store.RecordStore, engine *tasks.ConcertEngine, playlistName string) *Model {
	return &Model{
		ctx:          ctx,
		view:         ResolutionListView,
		ledger:       ledger,
		records:      records,
		engine:       engine,
		playlistName: playlistName,
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// Init initializes the TUI by loading the latest run from the ledger.
func (m *Model) Init() tea.Cmd {
	return m.fetchResolutions()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.resolutionList.Width() == 0 {
			m.resolutionList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.songList.Width() == 0 {
			m.songList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ResolutionListView:
			return m.handleResolutionListKeys(msg)
		case RecordView:
			return m.handleRecordKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case resolutionsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.resolutions = msg.resolutions
		items := make([]list.Item, len(msg.resolutions))
		for i, resolution := range msg.resolutions {
			items[i] = resolutionItem{resolution: resolution}
		}
		m.resolutionList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.resolutionList.Title = "Concert Resolutions"
		m.resolutionList.SetSize(m.width-4, m.height-8)
		return m, nil

	case recordFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = ResolutionListView
			return m, nil
		}
		var items []list.Item
		for setIdx, set := range msg.record.Sets {
			for _, song := range set {
				items = append(items, songItem{title: song, set: setIdx + 1, artist: msg.record.Group})
			}
		}
		m.songList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.songList.Title = fmt.Sprintf("%s at %s", msg.record.Group, msg.record.Venue)
		m.songList.SetSize(m.width-4, m.height-8)
		m.view = RecordView
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case buildCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ResolutionListView:
		return m.renderResolutionList()
	case RecordView:
		return m.renderRecord()
	case ConfirmView:
		return m.renderConfirm()
	case BuildView:
		return m.renderBuild()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleResolutionListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "b":
		m.view = ConfirmView
		return m, nil
	case "enter":
		selected := m.resolutionList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(resolutionItem); ok && item.resolution.Status == models.StatusResolved {
				m.selected = item.resolution
				return m, m.fetchRecord(item.resolution.RecordKey)
			}
		}
	}

	var cmd tea.Cmd
	m.resolutionList, cmd = m.resolutionList.Update(msg)
	return m, cmd
}

func (m *Model) handleRecordKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = ResolutionListView
		return m, nil
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = ResolutionListView
		return m, nil
	case "y":
		m.view = BuildView
		return m, m.startBuild()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = ResolutionListView
		m.result = nil
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ResolutionListView:
		m.resolutionList, cmd = m.resolutionList.Update(msg)
	case RecordView:
		m.songList, cmd = m.songList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchResolutions() tea.Cmd {
	return func() tea.Msg {
		runID, err := m.ledger.LatestRunID()
		if err != nil {
			return resolutionsFetchedMsg{err: err}
		}

		resolutions, err := m.ledger.ListByRun(runID)
		return resolutionsFetchedMsg{resolutions: resolutions, err: err}
	}
}

func (m *Model) fetchRecord(key string) tea.Cmd {
	return func() tea.Msg {
		record, err := m.records.Get(key)
		return recordFetchedMsg{record: record, err: err}
	}
}

func (m *Model) startBuild() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progress := m.progressChan

	go func() {
		result, err := m.engine.BuildPlaylist(m.ctx, m.playlistName, progress)
		m.result = result
		m.err = err
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return buildCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return buildCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderResolutionList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.build, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.resolutionList.View(), helpView)
}

func (m *Model) renderRecord() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.songList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Build playlist '%s' on Spotify?", m.playlistName))

	resolved := 0
	for _, resolution := range m.resolutions {
		if resolution.Status == models.StatusResolved {
			resolved++
		}
	}
	info := fmt.Sprintf("\nResolved concerts: %d/%d\n", resolved, len(m.resolutions))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderBuild() string {
	title := styles.title.Render("Building Playlist")

	var phase string
	switch m.progress.Phase {
	case tasks.AggregateTracks:
		phase = "Aggregating setlists..."
	case tasks.SearchTracks:
		phase = fmt.Sprintf("Searching tracks (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.CreatePlaylist:
		phase = "Preparing playlist on Spotify..."
	case tasks.AddTracks:
		phase = "Adding tracks..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Build failed: %v\n\nPress esc to go back, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress esc to go back, q to quit")
	}

	title := styles.ok.Render("✓ Playlist Built!")
	info := fmt.Sprintf(
		"\nPlaylist: %s\nMatched: %d/%d (%.1f%%)",
		m.result.PlaylistName,
		m.result.SuccessCount,
		m.result.TotalTracks,
		m.result.MatchPercentage,
	)

	var failed string
	if m.result.FailedCount > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("Skipped %d tracks:", m.result.FailedCount)))
		for _, match := range m.result.TrackMatches {
			if match.Error != nil {
				failed += fmt.Sprintf("\n  • %s - %s", match.Request.Artist, match.Request.Title)
			}
		}
	}

	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, helpView)
}
