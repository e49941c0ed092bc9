package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakizimana/parkgate/internal/gate/gatetest"
	"github.com/hakizimana/parkgate/internal/parkgate/service"
	"github.com/hakizimana/parkgate/internal/parkgate/store/memory"
	"github.com/hakizimana/parkgate/internal/parkgate/types"
)

// newPaymentFixture builds a PaymentService whose link replays the given
// scripted events against the shared clock.
func newPaymentFixture(events ...gatetest.Event) (*service.PaymentService, *memory.RecordStore, *memory.IncidentStore, *gatetest.Link, *gatetest.Clock) {
	records := memory.NewRecordStore()
	incidents := memory.NewIncidentStore(5 * time.Minute)
	clk := gatetest.NewClock(testStart)
	link := gatetest.NewLink(clk, events...)

	svc := service.NewPaymentService(records, incidents, link, service.PaymentConfig{
		HourlyRate:     500,
		ReadyTimeout:   5 * time.Second,
		ConfirmTimeout: 10 * time.Second,
	}).WithClock(clk.Now)

	return svc, records, incidents, link, clk
}

// seedOpen inserts an unpaid record that entered age before the clock's
// current time.
func seedOpen(records *memory.RecordStore, clk *gatetest.Clock, plate string, age time.Duration) {
	records.Seed(types.ParkingRecord{
		EntryTime: clk.Now().Add(-age),
		Plate:     plate,
	})
}

func TestPayment_SuccessfulHandshake(t *testing.T) {
	svc, records, _, link, clk := newPaymentFixture(
		gatetest.Event{Delay: time.Second, Line: "READY"},
		gatetest.Event{Delay: 2 * time.Second, Line: "DONE"},
	)
	seedOpen(records, clk, "RAB123C", 30*time.Minute)

	res := svc.Process(context.Background(), "RAB123C", 1000)
	require.Equal(t, types.PaymentPaid, res.Status)
	assert.Equal(t, int64(500), res.AmountDue)
	assert.Equal(t, int64(500), res.NewBalance)

	// The device received the new balance in the committed format.
	assert.Contains(t, link.Writes(), "500\r\n")

	recs := records.Records()
	require.Len(t, recs, 1)
	assert.True(t, recs[0].Paid)
	require.NotNil(t, recs[0].ExitTime)
	assert.Equal(t, int64(500), recs[0].AmountDue)
}

func TestPayment_InsufficientBalance(t *testing.T) {
	svc, records, incidents, link, clk := newPaymentFixture()
	seedOpen(records, clk, "RAB123C", 30*time.Minute)

	// Due is 500 for any stay up to an hour; 499 is one franc short.
	res := svc.Process(context.Background(), "RAB123C", 499)
	require.Equal(t, types.PaymentFailed, res.Status)
	assert.Equal(t, types.FailInsufficient, res.Reason)
	assert.Equal(t, int64(500), res.AmountDue)

	assert.Contains(t, link.Writes(), "I\n")

	// The fee receipt is stamped even though payment failed.
	recs := records.Records()
	require.Len(t, recs, 1)
	assert.False(t, recs[0].Paid)
	require.NotNil(t, recs[0].ExitTime)
	assert.Equal(t, int64(500), recs[0].AmountDue)

	ins := incidents.Incidents()
	require.Len(t, ins, 1)
	assert.Equal(t, types.FailInsufficient, ins[0].Reason)
}

func TestPayment_ReadyJustInsideWindow(t *testing.T) {
	svc, records, _, _, clk := newPaymentFixture(
		gatetest.Event{Delay: 4900 * time.Millisecond, Line: "READY"},
		gatetest.Event{Delay: time.Second, Line: "DONE"},
	)
	seedOpen(records, clk, "RAB123C", 10*time.Minute)

	res := svc.Process(context.Background(), "RAB123C", 1000)
	assert.Equal(t, types.PaymentPaid, res.Status)
}

func TestPayment_ReadyJustOutsideWindow(t *testing.T) {
	svc, records, incidents, _, clk := newPaymentFixture(
		gatetest.Event{Delay: 5100 * time.Millisecond, Line: "READY"},
	)
	seedOpen(records, clk, "RAB123C", 10*time.Minute)

	res := svc.Process(context.Background(), "RAB123C", 1000)
	require.Equal(t, types.PaymentFailed, res.Status)
	assert.Equal(t, types.FailNotReady, res.Reason)

	recs := records.Records()
	require.Len(t, recs, 1)
	assert.False(t, recs[0].Paid)

	ins := incidents.Incidents()
	require.Len(t, ins, 1)
	assert.Equal(t, types.FailNotReady, ins[0].Reason)
}

func TestPayment_IgnoresChatterBeforeReady(t *testing.T) {
	svc, records, _, _, clk := newPaymentFixture(
		gatetest.Event{Delay: time.Second, Line: "42.7"}, // distance sample on the shared link
		gatetest.Event{Delay: time.Second, Line: "READY"},
		gatetest.Event{Delay: time.Second, Line: "OK DONE OK"}, // DONE is a substring match
	)
	seedOpen(records, clk, "RAB123C", 10*time.Minute)

	res := svc.Process(context.Background(), "RAB123C", 1000)
	assert.Equal(t, types.PaymentPaid, res.Status)
}

func TestPayment_ConfirmationTimeout(t *testing.T) {
	svc, records, incidents, _, clk := newPaymentFixture(
		gatetest.Event{Delay: time.Second, Line: "READY"},
	)
	seedOpen(records, clk, "RAB123C", 10*time.Minute)

	res := svc.Process(context.Background(), "RAB123C", 1000)
	require.Equal(t, types.PaymentFailed, res.Status)
	assert.Equal(t, types.FailConfirmTimeout, res.Reason)

	// Timed out after the balance write: stamped, never paid. A retry of
	// the handshake stays possible because the record is still open.
	recs := records.Records()
	require.Len(t, recs, 1)
	assert.False(t, recs[0].Paid)
	require.NotNil(t, recs[0].ExitTime)

	ins := incidents.Incidents()
	require.Len(t, ins, 1)
	assert.Equal(t, types.FailConfirmTimeout, ins[0].Reason)
}

func TestPayment_NoOpenRecord(t *testing.T) {
	svc, _, incidents, link, _ := newPaymentFixture()

	res := svc.Process(context.Background(), "RAZ999Z", 1000)
	require.Equal(t, types.PaymentFailed, res.Status)
	assert.Equal(t, types.FailNoOpenRecord, res.Reason)

	// Nothing was sent to the device.
	assert.Empty(t, link.Writes())

	ins := incidents.Incidents()
	require.Len(t, ins, 1)
	assert.Equal(t, types.FailNoOpenRecord, ins[0].Reason)
}

func TestPayment_RetryAfterTimeoutRestampsReceipt(t *testing.T) {
	svc, records, _, _, clk := newPaymentFixture(
		// First attempt: device never ready. Second attempt: full exchange.
		gatetest.Event{Delay: 6 * time.Second, Line: "READY"},
		gatetest.Event{Delay: time.Second, Line: "DONE"},
	)
	seedOpen(records, clk, "RAB123C", 50*time.Minute)

	res := svc.Process(context.Background(), "RAB123C", 1000)
	require.Equal(t, types.PaymentFailed, res.Status)
	firstStamp := *records.Records()[0].ExitTime

	clk.Advance(15 * time.Minute) // crosses into the second billing hour

	res = svc.Process(context.Background(), "RAB123C", 1000)
	require.Equal(t, types.PaymentPaid, res.Status)
	assert.Equal(t, int64(1000), res.AmountDue)

	rec := records.Records()[0]
	assert.True(t, rec.Paid)
	assert.True(t, rec.ExitTime.After(firstStamp), "retry must overwrite the receipt stamp")
	assert.Equal(t, int64(1000), rec.AmountDue)
}

func TestPayment_StampFailureRecordsCause(t *testing.T) {
	svc, records, incidents, _, clk := newPaymentFixture()
	seedOpen(records, clk, "RAB123C", 30*time.Minute)
	records.FailWrites = errors.New("disk full")

	res := svc.Process(context.Background(), "RAB123C", 1000)
	require.Equal(t, types.PaymentFailed, res.Status)
	assert.Equal(t, types.ReasonProcessingError+": disk full", res.Reason)

	ins := incidents.Incidents()
	require.Len(t, ins, 1)
	assert.Equal(t, types.ReasonProcessingError+": disk full", ins[0].Reason)
}

func TestParseReport(t *testing.T) {
	plate, balance, ok := service.ParseReport("RAB123C,1500")
	require.True(t, ok)
	assert.Equal(t, "RAB123C", plate)
	assert.Equal(t, int64(1500), balance)

	// Units or stray characters around the digits are tolerated.
	_, balance, ok = service.ParseReport("RAB123C, 1500rwf")
	require.True(t, ok)
	assert.Equal(t, int64(1500), balance)

	for _, line := range []string{
		"",
		"READY",
		"RAB123C",           // missing balance field
		"RAB123C,abc",       // no digits in balance
		"RAB123C,100,extra", // wrong field count
		",100",              // empty plate
	} {
		_, _, ok := service.ParseReport(line)
		assert.False(t, ok, "expected %q to be discarded", line)
	}
}
