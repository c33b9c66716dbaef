package concerts

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmpegna/setlist-to-playlist/internal/models"
	"github.com/jmpegna/setlist-to-playlist/internal/shared"
	helpers "github.com/jmpegna/setlist-to-playlist/internal/testing"
)

const sampleCSV = `Group,Day,Month,Year,JSON_Day,JSON_Month,JSON_Year
Rammstein,3,7,2019,,,
Interpol,15,1,2018,16,,
Tool,20,6,2019,,,2020
`

func TestRead(t *testing.T) {
	t.Run("Parses Rows In Order", func(t *testing.T) {
		queries, err := Read(strings.NewReader(sampleCSV))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(queries) != 3 {
			t.Fatalf("expected 3 queries, got %d", len(queries))
		}

		first := queries[0]
		if first.Group != "Rammstein" || first.Date != models.NewDate(3, 7, 2019) {
			t.Errorf("unexpected first query: %+v", first)
		}
		if first.Row != 1 {
			t.Errorf("expected 1-based row numbers, got %d", first.Row)
		}
		if !first.AltDate.IsZero() {
			t.Errorf("expected no alt date, got %+v", first.AltDate)
		}
	})

	t.Run("Alt Date Components Default Per Field", func(t *testing.T) {
		queries, err := Read(strings.NewReader(sampleCSV))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		// Only the day is overridden; month and year come from the concert date.
		if got := queries[1].RenameDate(); got != models.NewDate(16, 1, 2018) {
			t.Errorf("expected day override, got %v", got)
		}

		// Only the year is overridden.
		if got := queries[2].RenameDate(); got != models.NewDate(20, 6, 2020) {
			t.Errorf("expected year override, got %v", got)
		}

		// The lookup date is never touched by overrides.
		if queries[1].Date != models.NewDate(15, 1, 2018) {
			t.Errorf("lookup date was modified: %v", queries[1].Date)
		}
	})

	t.Run("Empty Input", func(t *testing.T) {
		_, err := Read(strings.NewReader(""))
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Header Only", func(t *testing.T) {
		queries, err := Read(strings.NewReader("Group,Day,Month,Year,JSON_Day,JSON_Month,JSON_Year\n"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(queries) != 0 {
			t.Errorf("expected no queries, got %d", len(queries))
		}
	})

	t.Run("Wrong Header", func(t *testing.T) {
		_, err := Read(strings.NewReader("Band,Day,Month,Year,JSON_Day,JSON_Month,JSON_Year\n"))
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Malformed Date Fails The Read", func(t *testing.T) {
		input := "Group,Day,Month,Year,JSON_Day,JSON_Month,JSON_Year\nRammstein,third,7,2019,,,\n"
		_, err := Read(strings.NewReader(input))
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
		if !strings.Contains(err.Error(), "row 1") {
			t.Errorf("expected the row number in the error, got %v", err)
		}
	})

	t.Run("Out Of Range Date", func(t *testing.T) {
		input := "Group,Day,Month,Year,JSON_Day,JSON_Month,JSON_Year\nRammstein,32,7,2019,,,\n"
		_, err := Read(strings.NewReader(input))
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Missing Group", func(t *testing.T) {
		input := "Group,Day,Month,Year,JSON_Day,JSON_Month,JSON_Year\n,3,7,2019,,,\n"
		_, err := Read(strings.NewReader(input))
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestReadFile(t *testing.T) {
	t.Run("Reads From Disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "concerts.csv")
		writeTestFile(t, path, sampleCSV)

		queries, err := ReadFile(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(queries) != 3 {
			t.Errorf("expected 3 queries, got %d", len(queries))
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(t.TempDir(), "absent.csv"))
		if err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	helpers.AssertFileExists(t, path)
}
