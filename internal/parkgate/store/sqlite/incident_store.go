package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "github.com/hakizimana/parkgate/internal/db"
	"github.com/hakizimana/parkgate/internal/parkgate/store"
)

type IncidentStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
	window time.Duration
}

// NewIncidentStore returns an incident log that suppresses repeats of the
// same (plate, reason) inside window. The check and the insert run in one
// transaction so a stationary vehicle cannot race itself into the log.
func NewIncidentStore(db *sql.DB, writer *dbpkg.Worker, window time.Duration) *IncidentStore {
	return &IncidentStore{db: db, writer: writer, window: window}
}

func (s *IncidentStore) RecordDenial(ctx context.Context, plate, reason string, at time.Time) (bool, error) {
	cutoff := at.Add(-s.window).Format(store.TimeLayout)

	logged := false
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var id int64
		err := tx.QueryRowContext(ctx, `
SELECT id FROM denial_incidents
WHERE plate = ? AND reason = ?
  AND datetime(denial_time) > datetime(?)
LIMIT 1;
`, plate, reason, cutoff).Scan(&id)
		if err == nil {
			return nil // suppressed
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("RecordDenial check: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO denial_incidents(plate, denial_time, reason) VALUES (?, ?, ?);
`, plate, at.Format(store.TimeLayout), reason); err != nil {
			return fmt.Errorf("RecordDenial insert: %w", err)
		}
		logged = true
		return nil
	})
	return logged, err
}
