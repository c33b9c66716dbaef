package setlist

import (
	"reflect"
	"testing"

	"github.com/jmpegna/setlist-to-playlist/internal/models"
	"github.com/jmpegna/setlist-to-playlist/internal/services"
)

func TestNormalize(t *testing.T) {
	query := models.ConcertQuery{
		Group: "Rammstein",
		Date:  models.NewDate(3, 7, 2019),
	}

	t.Run("Preserves Set And Song Order", func(t *testing.T) {
		detail := &services.SetlistDetail{
			SetlistID: "abc123",
			Artist:    "Rammstein",
			Venue:     "Olympiastadion",
			City:      "Berlin",
			EventDate: models.NewDate(3, 7, 2019),
			Sets: []services.SetlistSet{
				{Songs: []string{"Was ich liebe", "Links 2 3 4", "Tattoo"}},
				{Name: "Encore", Songs: []string{"Engel", "Ausländer"}},
			},
		}

		record := Normalize(query, detail)

		want := [][]string{
			{"Was ich liebe", "Links 2 3 4", "Tattoo"},
			{"Engel", "Ausländer"},
		}
		if !reflect.DeepEqual(record.Sets, want) {
			t.Errorf("sets out of order:\ngot  %v\nwant %v", record.Sets, want)
		}

		if record.Venue != "Olympiastadion" || record.City != "Berlin" {
			t.Errorf("unexpected venue data: %+v", record)
		}
		if record.SongCount() != 5 {
			t.Errorf("expected 5 songs, got %d", record.SongCount())
		}
	})

	t.Run("Empty Setlist", func(t *testing.T) {
		detail := &services.SetlistDetail{SetlistID: "empty", Artist: "Rammstein"}

		record := Normalize(query, detail)
		if record.Sets == nil {
			t.Error("expected empty Sets, got nil")
		}
		if record.SongCount() != 0 {
			t.Errorf("expected 0 songs, got %d", record.SongCount())
		}
	})

	t.Run("Query Fills Missing Detail Fields", func(t *testing.T) {
		detail := &services.SetlistDetail{SetlistID: "sparse"}

		record := Normalize(query, detail)
		if record.Group != "Rammstein" {
			t.Errorf("expected group from query, got %q", record.Group)
		}
		if record.ConcertDate != query.Date {
			t.Errorf("expected date from query, got %v", record.ConcertDate)
		}
	})

	t.Run("Detail Is Authoritative", func(t *testing.T) {
		detail := &services.SetlistDetail{
			SetlistID: "abc123",
			Artist:    "Rammstein (DE)",
			EventDate: models.NewDate(4, 7, 2019),
		}

		record := Normalize(query, detail)
		if record.Group != "Rammstein (DE)" {
			t.Errorf("expected catalog artist name, got %q", record.Group)
		}
		if record.ConcertDate != models.NewDate(4, 7, 2019) {
			t.Errorf("expected catalog date, got %v", record.ConcertDate)
		}
	})

	t.Run("Copies Song Slices", func(t *testing.T) {
		songs := []string{"Engel"}
		detail := &services.SetlistDetail{
			SetlistID: "abc123",
			Sets:      []services.SetlistSet{{Songs: songs}},
		}

		record := Normalize(query, detail)
		songs[0] = "mutated"
		if record.Sets[0][0] != "Engel" {
			t.Error("record shares memory with the catalog detail")
		}
	})
}
