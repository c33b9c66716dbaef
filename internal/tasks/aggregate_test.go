package tasks

import (
	"reflect"
	"testing"

	"github.com/jmpegna/setlist-to-playlist/internal/models"
)

func TestAggregate(t *testing.T) {
	t.Run("Flattens In Order", func(t *testing.T) {
		records := []models.SetlistRecord{
			{
				Group: "Interpol",
				Sets:  [][]string{{"Untitled", "Obstacle 1"}, {"PDA"}},
			},
			{
				Group: "Rammstein",
				Sets:  [][]string{{"Engel"}},
			},
		}

		got := Aggregate(records)
		want := []models.TrackRequest{
			{Title: "Untitled", Artist: "Interpol"},
			{Title: "Obstacle 1", Artist: "Interpol"},
			{Title: "PDA", Artist: "Interpol"},
			{Title: "Engel", Artist: "Rammstein"},
		}

		if !reflect.DeepEqual(got, want) {
			t.Errorf("aggregate mismatch:\ngot  %v\nwant %v", got, want)
		}
	})

	t.Run("Keeps Duplicates", func(t *testing.T) {
		records := []models.SetlistRecord{
			{Group: "Rammstein", Sets: [][]string{{"Engel"}}},
			{Group: "Rammstein", Sets: [][]string{{"Engel"}}},
		}

		got := Aggregate(records)
		if len(got) != 2 {
			t.Errorf("expected duplicates to be kept, got %d tracks", len(got))
		}
	})

	t.Run("Empty Records Contribute Nothing", func(t *testing.T) {
		records := []models.SetlistRecord{
			{Group: "Rammstein", Sets: [][]string{}},
			{Group: "Interpol", Sets: [][]string{{"PDA"}}},
		}

		got := Aggregate(records)
		if len(got) != 1 || got[0].Title != "PDA" {
			t.Errorf("unexpected aggregate: %v", got)
		}
	})

	t.Run("No Records", func(t *testing.T) {
		if got := Aggregate(nil); len(got) != 0 {
			t.Errorf("expected no tracks, got %v", got)
		}
	})
}
