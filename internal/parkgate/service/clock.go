package service

import "time"

// WithClock overrides the service's time source. Tests use it together
// with gatetest.Clock to make the policy windows deterministic.
func (s *EntryService) WithClock(now func() time.Time) *EntryService {
	s.now = now
	return s
}

func (s *ExitService) WithClock(now func() time.Time) *ExitService {
	s.now = now
	return s
}

func (s *PaymentService) WithClock(now func() time.Time) *PaymentService {
	s.now = now
	return s
}
