package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hakizimana/parkgate/internal/parkgate/types"
)

type IncidentStore struct {
	mu        sync.Mutex
	nextID    int64
	window    time.Duration
	incidents []types.DenialIncident
}

func NewIncidentStore(window time.Duration) *IncidentStore {
	return &IncidentStore{nextID: 1, window: window}
}

func (s *IncidentStore) RecordDenial(_ context.Context, plate, reason string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := at.Add(-s.window)
	for i := range s.incidents {
		in := &s.incidents[i]
		if in.Plate == plate && in.Reason == reason && in.DenialTime.After(cutoff) {
			return false, nil // suppressed
		}
	}

	s.incidents = append(s.incidents, types.DenialIncident{
		ID:         s.nextID,
		Plate:      plate,
		DenialTime: at,
		Reason:     reason,
	})
	s.nextID++
	return true, nil
}

// Incidents returns a copy of all logged incidents. Test-only helper.
func (s *IncidentStore) Incidents() []types.DenialIncident {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.DenialIncident, len(s.incidents))
	copy(out, s.incidents)
	return out
}
