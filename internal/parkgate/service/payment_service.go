package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hakizimana/parkgate/internal/gate"
	"github.com/hakizimana/parkgate/internal/log"
	"github.com/hakizimana/parkgate/internal/parkgate/store"
	"github.com/hakizimana/parkgate/internal/parkgate/types"
)

// Signals exchanged with the payment device.
const (
	tokenReady         = "READY" // device ready for the new-balance write
	tokenDone          = "DONE"  // dispense/commit confirmed (substring match)
	signalInsufficient = "I\n"   // refused: balance below amount due
)

type PaymentConfig struct {
	HourlyRate     int64
	ReadyTimeout   time.Duration // bounds the human-triggered readiness phase
	ConfirmTimeout time.Duration // bounds the mechanical commit, expected slower
}

// PaymentService runs the payment handshake: on an inbound (plate,
// balance) report it computes the fee, stamps the exit receipt, and drives
// the READY / new-balance / DONE exchange to completion or timeout. One
// handshake at a time; the link is half-duplex.
type PaymentService struct {
	records   store.RecordStore
	incidents store.IncidentStore
	link      gate.Link
	cfg       PaymentConfig
	now       func() time.Time
}

func NewPaymentService(records store.RecordStore, incidents store.IncidentStore, link gate.Link, cfg PaymentConfig) *PaymentService {
	return &PaymentService{
		records:   records,
		incidents: incidents,
		link:      link,
		cfg:       cfg,
		now:       time.Now,
	}
}

// ParseReport parses an inbound balance report line, "PLATE,DIGITS".
// Malformed lines are link noise, not errors: wrong field count or a
// balance field with no digits simply reports ok=false.
func ParseReport(line string) (plate string, balance int64, ok bool) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) != 2 {
		return "", 0, false
	}

	plate = strings.TrimSpace(parts[0])
	if plate == "" {
		return "", 0, false
	}

	var digits strings.Builder
	for _, c := range parts[1] {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	if digits.Len() == 0 {
		return "", 0, false
	}

	balance, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return "", 0, false
	}
	return plate, balance, true
}

// Process runs one handshake synchronously. The exit stamp is written
// before the balance check, whatever the eventual outcome — it is the
// durable receipt the exit lane later verifies.
func (s *PaymentService) Process(ctx context.Context, plate string, balance int64) types.PaymentResult {
	ctx = log.WithLogField(ctx, "session", uuid.NewString()[:8])
	ctx = log.WithLogField(ctx, "plate", plate)

	rec, err := s.records.OpenRecord(ctx, plate)
	if errors.Is(err, store.ErrNoOpenRecord) {
		log.L(ctx).Info("payment rejected: no unpaid record")
		return s.fail(ctx, plate, types.FailNoOpenRecord, 0)
	}
	if err != nil {
		return s.processingError(ctx, plate, err)
	}

	due := Fee(rec.EntryTime, s.now(), s.cfg.HourlyRate)
	if err := s.records.StampExit(ctx, plate, s.now(), due); err != nil {
		return s.processingError(ctx, plate, err)
	}
	log.L(ctx).Infof("amount due %d, reported balance %d", due, balance)

	if balance < due {
		if err := s.link.Write([]byte(signalInsufficient)); err != nil {
			log.L(ctx).Warnf("insufficient signal write failed: %v", err)
		}
		return s.fail(ctx, plate, types.FailInsufficient, due)
	}

	if !s.awaitLine(s.cfg.ReadyTimeout, func(l string) bool { return l == tokenReady }) {
		return s.fail(ctx, plate, types.FailNotReady, due)
	}

	newBalance := balance - due
	if err := s.link.Write([]byte(fmt.Sprintf("%d\r\n", newBalance))); err != nil {
		return s.processingError(ctx, plate, err)
	}
	log.L(ctx).Infof("sent new balance %d", newBalance)

	if !s.awaitLine(s.cfg.ConfirmTimeout, func(l string) bool { return strings.Contains(l, tokenDone) }) {
		return s.fail(ctx, plate, types.FailConfirmTimeout, due)
	}

	if err := s.records.MarkPaid(ctx, plate); err != nil {
		return s.processingError(ctx, plate, err)
	}

	log.L(ctx).Info("payment confirmed")
	return types.PaymentResult{
		Status:     types.PaymentPaid,
		AmountDue:  due,
		NewBalance: newBalance,
	}
}

// awaitLine reads lines until match succeeds or the deadline passes.
// Non-matching lines inside the window are ignored; the device chatters.
func (s *PaymentService) awaitLine(timeout time.Duration, match func(string) bool) bool {
	deadline := s.now().Add(timeout)
	for {
		remaining := deadline.Sub(s.now())
		if remaining <= 0 {
			return false
		}

		line, err := s.link.ReadLine(remaining)
		if errors.Is(err, gate.ErrTimeout) {
			return false
		}
		if err != nil {
			return false
		}
		if match(strings.TrimSpace(line)) {
			return true
		}
	}
}

func (s *PaymentService) fail(ctx context.Context, plate, reason string, due int64) types.PaymentResult {
	log.L(ctx).Infof("handshake failed: %s", reason)

	if logged, err := s.incidents.RecordDenial(ctx, plate, reason, s.now()); err != nil {
		log.L(ctx).Warnf("incident write failed: %v", err)
	} else if !logged {
		log.L(ctx).Debug("incident suppressed")
	}

	return types.PaymentResult{
		Status:    types.PaymentFailed,
		Reason:    reason,
		AmountDue: due,
	}
}

func (s *PaymentService) processingError(ctx context.Context, plate string, cause error) types.PaymentResult {
	log.L(ctx).Errorf("handshake processing failed: %v", cause)

	reason := types.ReasonProcessingError + ": " + cause.Error()
	if _, err := s.incidents.RecordDenial(ctx, plate, reason, s.now()); err != nil {
		log.L(ctx).Warnf("incident write failed: %v", err)
	}

	return types.PaymentResult{
		Status: types.PaymentFailed,
		Reason: reason,
	}
}
