package service

import (
	"context"
	"time"

	"github.com/hakizimana/parkgate/internal/gate"
	"github.com/hakizimana/parkgate/internal/log"
	"github.com/hakizimana/parkgate/internal/parkgate/store"
	"github.com/hakizimana/parkgate/internal/parkgate/types"
)

type EntryConfig struct {
	Cooldown time.Duration // re-entry lockout for the same plate on this lane
	GateHold time.Duration // how long the barrier stays up on a grant
}

// EntryService decides whether a consensus plate may enter. It owns the
// lane's cooldown state (last granted plate and time) — one instance per
// lane.
type EntryService struct {
	records   store.RecordStore
	incidents store.IncidentStore
	actuator  gate.Actuator
	cfg       EntryConfig
	now       func() time.Time

	lastPlate string
	lastGrant time.Time
}

func NewEntryService(records store.RecordStore, incidents store.IncidentStore, actuator gate.Actuator, cfg EntryConfig) *EntryService {
	return &EntryService{
		records:   records,
		incidents: incidents,
		actuator:  actuator,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Decide applies entry policy to a trusted plate: deny on an open record,
// deny on cooldown, otherwise create the ledger row and open the gate. A
// persistence failure denies (fail-closed) and is reported as StatusError.
func (s *EntryService) Decide(ctx context.Context, plate string) types.Decision {
	now := s.now()

	open, err := s.records.HasOpenRecord(ctx, plate)
	if err != nil {
		return s.processingError(ctx, plate, now, err)
	}
	if open {
		return s.deny(ctx, plate, types.ReasonUnpaidRecord, now)
	}

	if plate == s.lastPlate && now.Sub(s.lastGrant) < s.cfg.Cooldown {
		return s.deny(ctx, plate, types.ReasonCooldown, now)
	}

	id, err := s.records.CreateEntry(ctx, plate, now)
	if err != nil {
		return s.processingError(ctx, plate, now, err)
	}

	s.lastPlate = plate
	s.lastGrant = now

	log.L(ctx).WithField("plate", plate).Infof("entry granted, record %d", id)
	if err := s.actuator.OpenGate(ctx, s.cfg.GateHold); err != nil {
		log.L(ctx).WithField("plate", plate).Warnf("gate open failed: %v", err)
	}

	return types.Decision{Status: types.StatusGranted, RecordID: id}
}

func (s *EntryService) deny(ctx context.Context, plate, reason string, now time.Time) types.Decision {
	log.L(ctx).WithField("plate", plate).Infof("entry denied: %s", reason)

	logged, err := s.incidents.RecordDenial(ctx, plate, reason, now)
	if err != nil {
		log.L(ctx).Warnf("incident write failed: %v", err)
	} else if !logged {
		log.L(ctx).WithField("plate", plate).Debug("incident suppressed")
	}

	// The alert fires on every denial; only the audit write is suppressed.
	if err := s.actuator.TriggerAlert(); err != nil {
		log.L(ctx).Warnf("alert failed: %v", err)
	}

	return types.Decision{Status: types.StatusDenied, Reason: reason}
}

func (s *EntryService) processingError(ctx context.Context, plate string, now time.Time, cause error) types.Decision {
	log.L(ctx).WithField("plate", plate).Errorf("entry processing failed: %v", cause)

	// The audit row carries the error detail; suppression then keys on the
	// full string, so distinct failures are logged separately.
	reason := types.ReasonProcessingError + ": " + cause.Error()
	if _, err := s.incidents.RecordDenial(ctx, plate, reason, now); err != nil {
		log.L(ctx).Warnf("incident write failed: %v", err)
	}

	return types.Decision{
		Status: types.StatusError,
		Reason: types.ReasonProcessingError,
		Detail: cause.Error(),
	}
}
