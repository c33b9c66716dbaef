package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/jmpegna/setlist-to-playlist/internal/models"
)

var (
	_ list.Item = resolutionItem{}
	_ list.Item = songItem{}
)

// resolutionItem wraps [models.Resolution] to implement [list.Item].
type resolutionItem struct {
	resolution *models.Resolution
}

func (i resolutionItem) FilterValue() string { return i.resolution.Group }
func (i resolutionItem) Title() string {
	return fmt.Sprintf("%s - %s", i.resolution.Group, i.resolution.ConcertDate)
}
func (i resolutionItem) Description() string {
	switch i.resolution.Status {
	case models.StatusResolved:
		return fmt.Sprintf("resolved • %s", i.resolution.Venue)
	case models.StatusNotFound:
		return "no setlist found"
	case models.StatusLookupFailed:
		desc := "lookup failed"
		if i.resolution.Err != "" {
			desc = fmt.Sprintf("%s • %s", desc, i.resolution.Err)
		}
		return desc
	default:
		return i.resolution.Status.String()
	}
}

// songItem wraps one song of a stored setlist record to implement [list.Item].
type songItem struct {
	title  string
	set    int
	artist string
}

func (i songItem) FilterValue() string { return i.title }
func (i songItem) Title() string       { return i.title }
func (i songItem) Description() string {
	return fmt.Sprintf("%s • set %d", i.artist, i.set)
}
