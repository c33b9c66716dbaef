package setlist

import (
	"github.com/jmpegna/setlist-to-playlist/internal/models"
	"github.com/jmpegna/setlist-to-playlist/internal/services"
)

// Normalize flattens a catalog setlist detail into the persisted record
// shape. Set and song order is preserved exactly as performed.
//
// The catalog detail is authoritative for the artist, venue, and date; the
// query fills in whatever the detail omits. A setlist with no songs yields a
// record with empty Sets, which is valid.
func Normalize(query models.ConcertQuery, detail *services.SetlistDetail) models.SetlistRecord {
	record := models.SetlistRecord{
		SetlistID:   detail.SetlistID,
		Group:       detail.Artist,
		Venue:       detail.Venue,
		City:        detail.City,
		ConcertDate: detail.EventDate,
		Sets:        [][]string{},
	}

	if record.Group == "" {
		record.Group = query.Group
	}
	if record.ConcertDate.IsZero() {
		record.ConcertDate = query.Date
	}

	for _, set := range detail.Sets {
		songs := make([]string, len(set.Songs))
		copy(songs, set.Songs)
		record.Sets = append(record.Sets, songs)
	}

	return record
}
