package store

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/jmpegna/setlist-to-playlist/internal/models"
	"github.com/jmpegna/setlist-to-playlist/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func testResolution(group, date string, status models.Status) *models.Resolution {
	return &models.Resolution{
		RunID:       "run1",
		Group:       group,
		ConcertDate: date,
		RecordKey:   date + "_1_" + group,
		Status:      status,
		SetlistID:   "abc123",
		Venue:       "Olympiastadion",
	}
}

func TestResolutionRepository(t *testing.T) {
	t.Run("Upsert", func(t *testing.T) {
		t.Run("Inserts New Row", func(t *testing.T) {
			repo := NewResolutionRepository(setupTestDB(t))

			resolution := testResolution("Rammstein", "2019-07-03", models.StatusResolved)
			if err := repo.Upsert(resolution); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if resolution.ID == "" {
				t.Error("expected an ID to be generated")
			}
			if resolution.CreatedAt.IsZero() || resolution.UpdatedAt.IsZero() {
				t.Error("expected timestamps to be set")
			}
		})

		t.Run("Updates Existing Concert", func(t *testing.T) {
			repo := NewResolutionRepository(setupTestDB(t))

			first := testResolution("Rammstein", "2019-07-03", models.StatusLookupFailed)
			first.Err = "retry budget exhausted"
			if err := repo.Upsert(first); err != nil {
				t.Fatalf("first upsert failed: %v", err)
			}

			second := testResolution("Rammstein", "2019-07-03", models.StatusResolved)
			second.RunID = "run2"
			if err := repo.Upsert(second); err != nil {
				t.Fatalf("second upsert failed: %v", err)
			}

			got, err := repo.Get("Rammstein", "2019-07-03")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got.Status != models.StatusResolved {
				t.Errorf("expected resolved status, got %s", got.Status)
			}
			if got.RunID != "run2" {
				t.Errorf("expected latest run ID, got %s", got.RunID)
			}

			all, _ := repo.ListByRun("run2")
			if len(all) != 1 {
				t.Errorf("expected a single row per concert, got %d", len(all))
			}
		})

		t.Run("Rejects Pending Status", func(t *testing.T) {
			repo := NewResolutionRepository(setupTestDB(t))

			resolution := testResolution("Rammstein", "2019-07-03", models.StatusPending)
			if err := repo.Upsert(resolution); err == nil {
				t.Error("expected validation error for pending status")
			}
		})
	})

	t.Run("Get Missing", func(t *testing.T) {
		repo := NewResolutionRepository(setupTestDB(t))

		_, err := repo.Get("Nobody", "2020-01-01")
		if !errors.Is(err, shared.ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound, got %v", err)
		}
	})

	t.Run("ListUnresolved", func(t *testing.T) {
		repo := NewResolutionRepository(setupTestDB(t))

		repo.Upsert(testResolution("Rammstein", "2019-07-03", models.StatusResolved))
		repo.Upsert(testResolution("Interpol", "2018-01-15", models.StatusNotFound))
		repo.Upsert(testResolution("Tool", "2019-06-20", models.StatusLookupFailed))

		unresolved, err := repo.ListUnresolved()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(unresolved) != 2 {
			t.Fatalf("expected 2 unresolved concerts, got %d", len(unresolved))
		}
		if unresolved[0].Group != "Interpol" || unresolved[1].Group != "Tool" {
			t.Errorf("expected date order, got %s then %s", unresolved[0].Group, unresolved[1].Group)
		}
	})

	t.Run("LatestRunID", func(t *testing.T) {
		t.Run("Empty Ledger", func(t *testing.T) {
			repo := NewResolutionRepository(setupTestDB(t))

			_, err := repo.LatestRunID()
			if !errors.Is(err, shared.ErrRecordNotFound) {
				t.Errorf("expected ErrRecordNotFound, got %v", err)
			}
		})

		t.Run("Returns Most Recent", func(t *testing.T) {
			repo := NewResolutionRepository(setupTestDB(t))

			first := testResolution("Interpol", "2018-01-15", models.StatusResolved)
			repo.Upsert(first)

			second := testResolution("Rammstein", "2019-07-03", models.StatusResolved)
			second.RunID = "run2"
			repo.Upsert(second)

			runID, err := repo.LatestRunID()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if runID != "run2" {
				t.Errorf("expected run2, got %s", runID)
			}
		})
	})
}
