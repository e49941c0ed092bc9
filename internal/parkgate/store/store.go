package store

import (
	"context"
	"errors"
	"time"

	"github.com/hakizimana/parkgate/internal/parkgate/types"
)

// TimeLayout is how timestamps are stored in the ledger. The dashboard and
// the original reporting tools expect this exact format.
const TimeLayout = "2006-01-02 15:04:05"

// ErrNoOpenRecord is returned when a plate has no unpaid ledger row.
var ErrNoOpenRecord = errors.New("no unpaid record")

// RecordStore is the durable entry/exit/payment ledger. It is the only
// shared mutable state between the checkpoint loops and the payment
// coordinator; every method must be a single atomic read-modify-write at
// the storage layer.
type RecordStore interface {
	// CreateEntry inserts a new open record and returns its id.
	CreateEntry(ctx context.Context, plate string, entryAt time.Time) (int64, error)

	// HasOpenRecord reports whether any unpaid record exists for plate.
	HasOpenRecord(ctx context.Context, plate string) (bool, error)

	// OpenRecord returns the most recent unpaid record for plate, or
	// ErrNoOpenRecord.
	OpenRecord(ctx context.Context, plate string) (*types.ParkingRecord, error)

	// StampExit writes exit_time and due_payment onto the open record.
	// This is the durable receipt of the fee calculation and happens
	// whether or not payment later succeeds; a retried handshake
	// overwrites it (latest wins).
	StampExit(ctx context.Context, plate string, exitAt time.Time, amountDue int64) error

	// MarkPaid flips paid on the open record after a confirmed handshake.
	MarkPaid(ctx context.Context, plate string) error

	// HasRecentPaidExit reports whether plate has a paid record whose
	// exit_time is after cutoff.
	HasRecentPaidExit(ctx context.Context, plate string, cutoff time.Time) (bool, error)

	// ListRecords returns all records, newest entry first. Consumed by
	// reporting tools, not by any decision path.
	ListRecords(ctx context.Context) ([]types.ParkingRecord, error)
}

// IncidentStore persists denied plates as an append-only audit trail.
type IncidentStore interface {
	// RecordDenial appends an incident unless one with the same
	// (plate, reason) already exists inside the suppression window.
	// Returns false when the write was suppressed.
	RecordDenial(ctx context.Context, plate, reason string, at time.Time) (bool, error)
}
