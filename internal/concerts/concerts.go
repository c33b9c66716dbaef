// package concerts reads the user's concert list from CSV.
//
// The expected header is:
//
//	Group,Day,Month,Year,JSON_Day,JSON_Month,JSON_Year
//
// The JSON_* columns optionally override the matching date component in the
// name of the persisted artifact; they never change the catalog lookup.
package concerts

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jmpegna/setlist-to-playlist/internal/models"
	"github.com/jmpegna/setlist-to-playlist/internal/shared"
)

var expectedHeader = []string{"Group", "Day", "Month", "Year", "JSON_Day", "JSON_Month", "JSON_Year"}

// ReadFile reads concert queries from the CSV file at path.
func ReadFile(path string) ([]models.ConcertQuery, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open concert list: %w", err)
	}
	defer f.Close()

	queries, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return queries, nil
}

// Read parses concert queries from CSV data. Row numbers are 1-based and
// count data rows only; any malformed row fails the whole read so a typo
// cannot silently drop a concert.
func Read(r io.Reader) ([]models.ConcertQuery, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty concert list", shared.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var queries []models.ConcertQuery
	for row := 1; ; row++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		query, err := parseRow(fields, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		queries = append(queries, query)
	}

	return queries, nil
}

func checkHeader(header []string) error {
	if len(header) != len(expectedHeader) {
		return fmt.Errorf("%w: expected %d columns, got %d",
			shared.ErrInvalidInput, len(expectedHeader), len(header))
	}
	for i, name := range expectedHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), name) {
			return fmt.Errorf("%w: expected column %q, got %q",
				shared.ErrInvalidInput, name, header[i])
		}
	}
	return nil
}

func parseRow(fields []string, row int) (models.ConcertQuery, error) {
	query := models.ConcertQuery{
		Group: strings.TrimSpace(fields[0]),
		Row:   row,
	}

	var err error
	if query.Date.Day, err = parseComponent(fields[1], true); err != nil {
		return query, fmt.Errorf("day: %w", err)
	}
	if query.Date.Month, err = parseComponent(fields[2], true); err != nil {
		return query, fmt.Errorf("month: %w", err)
	}
	if query.Date.Year, err = parseComponent(fields[3], true); err != nil {
		return query, fmt.Errorf("year: %w", err)
	}
	if query.AltDate.Day, err = parseComponent(fields[4], false); err != nil {
		return query, fmt.Errorf("json_day: %w", err)
	}
	if query.AltDate.Month, err = parseComponent(fields[5], false); err != nil {
		return query, fmt.Errorf("json_month: %w", err)
	}
	if query.AltDate.Year, err = parseComponent(fields[6], false); err != nil {
		return query, fmt.Errorf("json_year: %w", err)
	}

	if err := query.Validate(); err != nil {
		return query, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	return query, nil
}

// parseComponent parses one date component. Optional components may be empty,
// meaning "same as the concert date".
func parseComponent(field string, required bool) (int, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		if required {
			return 0, fmt.Errorf("%w: empty value", shared.ErrInvalidInput)
		}
		return 0, nil
	}

	value, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", shared.ErrInvalidInput, field)
	}
	return value, nil
}
