package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	dbpkg "github.com/hakizimana/parkgate/internal/db"
	"github.com/hakizimana/parkgate/internal/parkgate/store"
	"github.com/hakizimana/parkgate/internal/parkgate/types"
)

type RecordStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewRecordStore(db *sql.DB, writer *dbpkg.Worker) *RecordStore {
	return &RecordStore{db: db, writer: writer}
}

func (s *RecordStore) CreateEntry(ctx context.Context, plate string, entryAt time.Time) (int64, error) {
	plate = strings.TrimSpace(plate)
	if plate == "" {
		return 0, fmt.Errorf("CreateEntry: empty plate")
	}

	var id int64
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
INSERT INTO parking_records(entry_time, plate) VALUES (?, ?);
`, entryAt.Format(store.TimeLayout), plate)
		if err != nil {
			return fmt.Errorf("CreateEntry insert: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("CreateEntry last id: %w", err)
		}
		return nil
	})
	return id, err
}

func (s *RecordStore) HasOpenRecord(ctx context.Context, plate string) (bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
SELECT id FROM parking_records WHERE plate = ? AND paid = 0 LIMIT 1;
`, plate).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("HasOpenRecord: %w", err)
	}
	return true, nil
}

func (s *RecordStore) OpenRecord(ctx context.Context, plate string) (*types.ParkingRecord, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, entry_time, exit_time, plate, due_payment, paid
FROM parking_records
WHERE plate = ? AND paid = 0
ORDER BY entry_time DESC
LIMIT 1;
`, plate)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNoOpenRecord
	}
	if err != nil {
		return nil, fmt.Errorf("OpenRecord: %w", err)
	}
	return rec, nil
}

func (s *RecordStore) StampExit(ctx context.Context, plate string, exitAt time.Time, amountDue int64) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
UPDATE parking_records
SET exit_time = ?, due_payment = ?
WHERE plate = ? AND paid = 0;
`, exitAt.Format(store.TimeLayout), float64(amountDue), plate); err != nil {
			return fmt.Errorf("StampExit: %w", err)
		}
		return nil
	})
}

func (s *RecordStore) MarkPaid(ctx context.Context, plate string) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
UPDATE parking_records
SET paid = 1
WHERE plate = ? AND paid = 0;
`, plate); err != nil {
			return fmt.Errorf("MarkPaid: %w", err)
		}
		return nil
	})
}

func (s *RecordStore) HasRecentPaidExit(ctx context.Context, plate string, cutoff time.Time) (bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
SELECT id FROM parking_records
WHERE plate = ? AND paid = 1
  AND exit_time IS NOT NULL
  AND datetime(exit_time) > datetime(?)
ORDER BY exit_time DESC
LIMIT 1;
`, plate, cutoff.Format(store.TimeLayout)).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("HasRecentPaidExit: %w", err)
	}
	return true, nil
}

func (s *RecordStore) ListRecords(ctx context.Context) ([]types.ParkingRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, entry_time, exit_time, plate, due_payment, paid
FROM parking_records
ORDER BY entry_time DESC;
`)
	if err != nil {
		return nil, fmt.Errorf("ListRecords: %w", err)
	}
	defer rows.Close()

	var out []types.ParkingRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("ListRecords scan: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListRecords rows: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(r rowScanner) (*types.ParkingRecord, error) {
	var (
		rec      types.ParkingRecord
		entry    string
		exit     sql.NullString
		due      float64
		paidFlag int
	)
	if err := r.Scan(&rec.ID, &entry, &exit, &rec.Plate, &due, &paidFlag); err != nil {
		return nil, err
	}

	t, err := time.Parse(store.TimeLayout, entry)
	if err != nil {
		return nil, fmt.Errorf("parse entry_time %q: %w", entry, err)
	}
	rec.EntryTime = t

	if exit.Valid {
		et, err := time.Parse(store.TimeLayout, exit.String)
		if err != nil {
			return nil, fmt.Errorf("parse exit_time %q: %w", exit.String, err)
		}
		rec.ExitTime = &et
	}

	rec.AmountDue = int64(due)
	rec.Paid = paidFlag != 0
	return &rec, nil
}
