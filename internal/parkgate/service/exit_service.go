package service

import (
	"context"
	"time"

	"github.com/hakizimana/parkgate/internal/gate"
	"github.com/hakizimana/parkgate/internal/log"
	"github.com/hakizimana/parkgate/internal/parkgate/store"
	"github.com/hakizimana/parkgate/internal/parkgate/types"
)

type ExitConfig struct {
	GraceWindow time.Duration // how recent a paid exit stamp must be
	GateHold    time.Duration
}

// ExitService decides whether a consensus plate may leave. Exit is gated
// purely on recency of a paid exit stamp — the payment handshake is what
// stamps exit_time and flips paid; the exit camera independently confirms
// the plate actually left inside the grace window.
type ExitService struct {
	records   store.RecordStore
	incidents store.IncidentStore
	actuator  gate.Actuator
	cfg       ExitConfig
	now       func() time.Time
}

func NewExitService(records store.RecordStore, incidents store.IncidentStore, actuator gate.Actuator, cfg ExitConfig) *ExitService {
	return &ExitService{
		records:   records,
		incidents: incidents,
		actuator:  actuator,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *ExitService) Decide(ctx context.Context, plate string) types.Decision {
	now := s.now()

	paid, err := s.records.HasRecentPaidExit(ctx, plate, now.Add(-s.cfg.GraceWindow))
	if err != nil {
		log.L(ctx).WithField("plate", plate).Errorf("exit check failed: %v", err)
		reason := types.ReasonProcessingError + ": " + err.Error()
		if _, ierr := s.incidents.RecordDenial(ctx, plate, reason, now); ierr != nil {
			log.L(ctx).Warnf("incident write failed: %v", ierr)
		}
		return types.Decision{
			Status: types.StatusError,
			Reason: types.ReasonProcessingError,
			Detail: err.Error(),
		}
	}

	if !paid {
		log.L(ctx).WithField("plate", plate).Info("exit denied: no valid payment")

		logged, err := s.incidents.RecordDenial(ctx, plate, types.ReasonNoValidPayment, now)
		if err != nil {
			log.L(ctx).Warnf("incident write failed: %v", err)
		} else if !logged {
			log.L(ctx).WithField("plate", plate).Debug("incident suppressed")
		}

		if err := s.actuator.TriggerAlert(); err != nil {
			log.L(ctx).Warnf("alert failed: %v", err)
		}
		return types.Decision{Status: types.StatusDenied, Reason: types.ReasonNoValidPayment}
	}

	log.L(ctx).WithField("plate", plate).Info("exit granted")
	if err := s.actuator.OpenGate(ctx, s.cfg.GateHold); err != nil {
		log.L(ctx).WithField("plate", plate).Warnf("gate open failed: %v", err)
	}
	return types.Decision{Status: types.StatusGranted}
}
