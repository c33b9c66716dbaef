package tasks

import "github.com/jmpegna/setlist-to-playlist/internal/models"

// Aggregate flattens stored setlist records into playlist track requests.
//
// Tracks appear in record order, then set order, then song order. Duplicates
// are kept: a song played at two concerts belongs on the playlist twice.
func Aggregate(records []models.SetlistRecord) []models.TrackRequest {
	var requests []models.TrackRequest
	for _, record := range records {
		for _, set := range record.Sets {
			for _, song := range set {
				requests = append(requests, models.TrackRequest{
					Title:  song,
					Artist: record.Group,
				})
			}
		}
	}
	return requests
}
