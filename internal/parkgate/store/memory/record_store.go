// Package memory holds in-memory store implementations with the same
// semantics as the sqlite ones. Intended for tests and dev runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hakizimana/parkgate/internal/parkgate/store"
	"github.com/hakizimana/parkgate/internal/parkgate/types"
)

type RecordStore struct {
	mu      sync.Mutex
	nextID  int64
	records []types.ParkingRecord

	// FailWrites makes every mutating call return this error, FailReads
	// every query. Test hooks for the fail-closed paths.
	FailWrites error
	FailReads  error
}

func NewRecordStore() *RecordStore {
	return &RecordStore{nextID: 1}
}

func (s *RecordStore) CreateEntry(_ context.Context, plate string, entryAt time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites != nil {
		return 0, s.FailWrites
	}

	id := s.nextID
	s.nextID++
	s.records = append(s.records, types.ParkingRecord{
		ID:        id,
		EntryTime: entryAt,
		Plate:     plate,
	})
	return id, nil
}

func (s *RecordStore) HasOpenRecord(_ context.Context, plate string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailReads != nil {
		return false, s.FailReads
	}

	for i := range s.records {
		if s.records[i].Plate == plate && !s.records[i].Paid {
			return true, nil
		}
	}
	return false, nil
}

func (s *RecordStore) OpenRecord(_ context.Context, plate string) (*types.ParkingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailReads != nil {
		return nil, s.FailReads
	}

	var latest *types.ParkingRecord
	for i := range s.records {
		r := &s.records[i]
		if r.Plate != plate || r.Paid {
			continue
		}
		if latest == nil || r.EntryTime.After(latest.EntryTime) {
			latest = r
		}
	}
	if latest == nil {
		return nil, store.ErrNoOpenRecord
	}
	cp := *latest
	return &cp, nil
}

func (s *RecordStore) StampExit(_ context.Context, plate string, exitAt time.Time, amountDue int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites != nil {
		return s.FailWrites
	}

	for i := range s.records {
		r := &s.records[i]
		if r.Plate == plate && !r.Paid {
			t := exitAt
			r.ExitTime = &t
			r.AmountDue = amountDue
		}
	}
	return nil
}

func (s *RecordStore) MarkPaid(_ context.Context, plate string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites != nil {
		return s.FailWrites
	}

	for i := range s.records {
		r := &s.records[i]
		if r.Plate == plate && !r.Paid {
			r.Paid = true
		}
	}
	return nil
}

func (s *RecordStore) HasRecentPaidExit(_ context.Context, plate string, cutoff time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailReads != nil {
		return false, s.FailReads
	}

	for i := range s.records {
		r := &s.records[i]
		if r.Plate == plate && r.Paid && r.ExitTime != nil && r.ExitTime.After(cutoff) {
			return true, nil
		}
	}
	return false, nil
}

func (s *RecordStore) ListRecords(_ context.Context) ([]types.ParkingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.ParkingRecord, len(s.records))
	copy(out, s.records)
	for i := 0; i < len(out)/2; i++ {
		out[i], out[len(out)-1-i] = out[len(out)-1-i], out[i]
	}
	return out, nil
}

// Records returns a copy of all records in insertion order. Test-only
// helper.
func (s *RecordStore) Records() []types.ParkingRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.ParkingRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Seed inserts a record directly, bypassing CreateEntry. Test-only helper.
func (s *RecordStore) Seed(rec types.ParkingRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == 0 {
		rec.ID = s.nextID
		s.nextID++
	}
	s.records = append(s.records, rec)
}
