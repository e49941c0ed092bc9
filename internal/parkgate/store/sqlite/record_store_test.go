package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakizimana/parkgate/internal/parkgate/store"
	"github.com/hakizimana/parkgate/internal/parkgate/store/sqlite"
)

var base = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func TestRecordStore_CreateAndOpen(t *testing.T) {
	conn := openTestDB(t)
	s := sqlite.NewRecordStore(conn, newTestWriter(t, conn))
	ctx := context.Background()

	id, err := s.CreateEntry(ctx, "RAB123C", base)
	require.NoError(t, err)
	assert.NotZero(t, id)

	open, err := s.HasOpenRecord(ctx, "RAB123C")
	require.NoError(t, err)
	assert.True(t, open)

	rec, err := s.OpenRecord(ctx, "RAB123C")
	require.NoError(t, err)
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, "RAB123C", rec.Plate)
	assert.Equal(t, base, rec.EntryTime)
	assert.Nil(t, rec.ExitTime)
	assert.False(t, rec.Paid)
}

func TestRecordStore_OpenRecordPicksLatestEntry(t *testing.T) {
	conn := openTestDB(t)
	s := sqlite.NewRecordStore(conn, newTestWriter(t, conn))
	ctx := context.Background()

	_, err := s.CreateEntry(ctx, "RAB123C", base)
	require.NoError(t, err)
	later, err := s.CreateEntry(ctx, "RAB123C", base.Add(2*time.Hour))
	require.NoError(t, err)

	rec, err := s.OpenRecord(ctx, "RAB123C")
	require.NoError(t, err)
	assert.Equal(t, later, rec.ID)
}

func TestRecordStore_NoOpenRecord(t *testing.T) {
	conn := openTestDB(t)
	s := sqlite.NewRecordStore(conn, newTestWriter(t, conn))

	_, err := s.OpenRecord(context.Background(), "RAZ999Z")
	assert.ErrorIs(t, err, store.ErrNoOpenRecord)

	open, err := s.HasOpenRecord(context.Background(), "RAZ999Z")
	require.NoError(t, err)
	assert.False(t, open)
}

func TestRecordStore_StampExitThenMarkPaid(t *testing.T) {
	conn := openTestDB(t)
	s := sqlite.NewRecordStore(conn, newTestWriter(t, conn))
	ctx := context.Background()

	_, err := s.CreateEntry(ctx, "RAB123C", base)
	require.NoError(t, err)

	exitAt := base.Add(90 * time.Minute)
	require.NoError(t, s.StampExit(ctx, "RAB123C", exitAt, 1000))

	rec, err := s.OpenRecord(ctx, "RAB123C")
	require.NoError(t, err)
	require.NotNil(t, rec.ExitTime)
	assert.Equal(t, exitAt, *rec.ExitTime)
	assert.Equal(t, int64(1000), rec.AmountDue)
	assert.False(t, rec.Paid)

	require.NoError(t, s.MarkPaid(ctx, "RAB123C"))

	_, err = s.OpenRecord(ctx, "RAB123C")
	assert.ErrorIs(t, err, store.ErrNoOpenRecord)
}

func TestRecordStore_HasRecentPaidExit(t *testing.T) {
	conn := openTestDB(t)
	s := sqlite.NewRecordStore(conn, newTestWriter(t, conn))
	ctx := context.Background()

	_, err := s.CreateEntry(ctx, "RAB123C", base)
	require.NoError(t, err)

	exitAt := base.Add(time.Hour)
	require.NoError(t, s.StampExit(ctx, "RAB123C", exitAt, 500))

	// Stamped but unpaid does not count.
	ok, err := s.HasRecentPaidExit(ctx, "RAB123C", exitAt.Add(-5*time.Minute))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.MarkPaid(ctx, "RAB123C"))

	ok, err = s.HasRecentPaidExit(ctx, "RAB123C", exitAt.Add(-5*time.Minute))
	require.NoError(t, err)
	assert.True(t, ok)

	// A cutoff after the stamp means the exit is stale.
	ok, err = s.HasRecentPaidExit(ctx, "RAB123C", exitAt.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecordStore_ListRecordsNewestFirst(t *testing.T) {
	conn := openTestDB(t)
	s := sqlite.NewRecordStore(conn, newTestWriter(t, conn))
	ctx := context.Background()

	_, err := s.CreateEntry(ctx, "RAB111A", base)
	require.NoError(t, err)
	_, err = s.CreateEntry(ctx, "RAB222B", base.Add(time.Hour))
	require.NoError(t, err)

	recs, err := s.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "RAB222B", recs[0].Plate)
	assert.Equal(t, "RAB111A", recs[1].Plate)
}
