package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmpegna/setlist-to-playlist/internal/models"
	"github.com/jmpegna/setlist-to-playlist/internal/shared"
)

// ResolutionRepository persists resolution outcomes in sqlite.
//
// The table keeps one row per (group, concert date): re-running a concert
// updates its row in place, so the ledger always reflects the latest outcome.
type ResolutionRepository struct {
	db *sql.DB
}

// NewResolutionRepository creates a new ResolutionRepository with the given database connection
func NewResolutionRepository(db *sql.DB) *ResolutionRepository {
	return &ResolutionRepository{db: db}
}

// Upsert inserts the resolution, or updates the existing row for the same
// group and concert date. A missing ID is generated; timestamps are managed
// here.
func (r *ResolutionRepository) Upsert(resolution *models.Resolution) error {
	if resolution.ID == "" {
		resolution.ID = shared.GenerateID()
	}

	now := time.Now().UTC()
	if resolution.CreatedAt.IsZero() {
		resolution.CreatedAt = now
	}
	resolution.UpdatedAt = now

	if err := resolution.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO resolutions (id, run_id, concert_group, concert_date, record_key, status, setlist_id, venue, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(concert_group, concert_date) DO UPDATE SET
			run_id = excluded.run_id,
			record_key = excluded.record_key,
			status = excluded.status,
			setlist_id = excluded.setlist_id,
			venue = excluded.venue,
			error = excluded.error,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query,
		resolution.ID,
		resolution.RunID,
		resolution.Group,
		resolution.ConcertDate,
		resolution.RecordKey,
		resolution.Status.String(),
		resolution.SetlistID,
		resolution.Venue,
		resolution.Err,
		resolution.CreatedAt,
		resolution.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert resolution: %w", err)
	}

	return nil
}

// Get retrieves the resolution for a group and ISO concert date.
func (r *ResolutionRepository) Get(group, concertDate string) (*models.Resolution, error) {
	query := `
		SELECT id, run_id, concert_group, concert_date, record_key, status, setlist_id, venue, error, created_at, updated_at
		FROM resolutions
		WHERE concert_group = ? AND concert_date = ?
	`

	return r.scanOne(r.db.QueryRow(query, group, concertDate))
}

// ListByRun retrieves all resolutions recorded during the given run, in
// insertion order.
func (r *ResolutionRepository) ListByRun(runID string) ([]*models.Resolution, error) {
	query := `
		SELECT id, run_id, concert_group, concert_date, record_key, status, setlist_id, venue, error, created_at, updated_at
		FROM resolutions
		WHERE run_id = ?
		ORDER BY updated_at, concert_date
	`

	return r.scanMany(query, runID)
}

// ListUnresolved retrieves every concert whose latest outcome is not
// resolved, oldest concert first.
func (r *ResolutionRepository) ListUnresolved() ([]*models.Resolution, error) {
	query := `
		SELECT id, run_id, concert_group, concert_date, record_key, status, setlist_id, venue, error, created_at, updated_at
		FROM resolutions
		WHERE status != ?
		ORDER BY concert_date, concert_group
	`

	return r.scanMany(query, models.StatusResolved.String())
}

// LatestRunID returns the run ID of the most recently recorded resolution,
// or [shared.ErrRecordNotFound] when the ledger is empty.
func (r *ResolutionRepository) LatestRunID() (string, error) {
	query := `
		SELECT run_id FROM resolutions
		ORDER BY updated_at DESC
		LIMIT 1
	`

	var runID string
	if err := r.db.QueryRow(query).Scan(&runID); err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("%w: no resolutions recorded", shared.ErrRecordNotFound)
		}
		return "", fmt.Errorf("failed to query latest run: %w", err)
	}
	return runID, nil
}

func (r *ResolutionRepository) scanOne(row *sql.Row) (*models.Resolution, error) {
	var resolution models.Resolution
	var status string

	err := row.Scan(
		&resolution.ID,
		&resolution.RunID,
		&resolution.Group,
		&resolution.ConcertDate,
		&resolution.RecordKey,
		&status,
		&resolution.SetlistID,
		&resolution.Venue,
		&resolution.Err,
		&resolution.CreatedAt,
		&resolution.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: resolution", shared.ErrRecordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan resolution: %w", err)
	}

	resolution.Status, err = models.ParseStatus(status)
	if err != nil {
		return nil, fmt.Errorf("failed to scan resolution: %w", err)
	}

	return &resolution, nil
}

func (r *ResolutionRepository) scanMany(query string, args ...any) ([]*models.Resolution, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query resolutions: %w", err)
	}
	defer rows.Close()

	var resolutions []*models.Resolution
	for rows.Next() {
		var resolution models.Resolution
		var status string

		err := rows.Scan(
			&resolution.ID,
			&resolution.RunID,
			&resolution.Group,
			&resolution.ConcertDate,
			&resolution.RecordKey,
			&status,
			&resolution.SetlistID,
			&resolution.Venue,
			&resolution.Err,
			&resolution.CreatedAt,
			&resolution.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resolution: %w", err)
		}

		resolution.Status, err = models.ParseStatus(status)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resolution: %w", err)
		}

		resolutions = append(resolutions, &resolution)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate resolutions: %w", err)
	}

	return resolutions, nil
}
