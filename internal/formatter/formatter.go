// package formatter exports resolution reports to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/jmpegna/setlist-to-playlist/internal/models"
)

// ReportToCSV converts resolutions to CSV with columns: Group, Date, Status, Setlist, Venue, Error
func ReportToCSV(resolutions []*models.Resolution) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Group", "Date", "Status", "Setlist", "Venue", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, resolution := range resolutions {
		record := []string{
			resolution.Group,
			resolution.ConcertDate,
			resolution.Status.String(),
			resolution.SetlistID,
			resolution.Venue,
			resolution.Err,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ReportToMarkdown converts resolutions to a Markdown report grouped by status.
func ReportToMarkdown(resolutions []*models.Resolution, title string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Concerts**: %d\n", len(resolutions)))
	buf.WriteString(fmt.Sprintf("**Resolved**: %d\n\n", countByStatus(resolutions, models.StatusResolved)))

	byStatus := map[models.Status][]*models.Resolution{}
	for _, resolution := range resolutions {
		byStatus[resolution.Status] = append(byStatus[resolution.Status], resolution)
	}

	for _, status := range []models.Status{models.StatusResolved, models.StatusNotFound, models.StatusLookupFailed} {
		group := byStatus[status]
		if len(group) == 0 {
			continue
		}

		buf.WriteString(fmt.Sprintf("## %s\n\n", statusHeading(status)))
		for i, resolution := range group {
			line := fmt.Sprintf("%d. %s - %s", i+1, resolution.Group, resolution.ConcertDate)
			if resolution.Venue != "" {
				line += fmt.Sprintf(" (%s)", resolution.Venue)
			}
			if resolution.Err != "" {
				line += fmt.Sprintf(": %s", resolution.Err)
			}
			buf.WriteString(line + "\n")
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ReportToText converts resolutions to a plain text report.
func ReportToText(resolutions []*models.Resolution) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Concerts: %d\n", len(resolutions)))
	buf.WriteString(fmt.Sprintf("Resolved: %d\n\n", countByStatus(resolutions, models.StatusResolved)))

	for i, resolution := range resolutions {
		buf.WriteString(fmt.Sprintf("%d. [%s] %s - %s", i+1, resolution.Status, resolution.Group, resolution.ConcertDate))
		if resolution.Err != "" {
			buf.WriteString(fmt.Sprintf(" (%s)", resolution.Err))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

func countByStatus(resolutions []*models.Resolution, status models.Status) int {
	count := 0
	for _, resolution := range resolutions {
		if resolution.Status == status {
			count++
		}
	}
	return count
}

func statusHeading(status models.Status) string {
	switch status {
	case models.StatusResolved:
		return "Resolved"
	case models.StatusNotFound:
		return "No Setlist Found"
	case models.StatusLookupFailed:
		return "Lookup Failed"
	default:
		return "Pending"
	}
}
