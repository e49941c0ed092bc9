// Package gatetest holds fake device collaborators for tests: a manually
// advanced clock, a scripted serial link whose reads consume that clock,
// and a recording actuator.
package gatetest

import (
	"context"
	"sync"
	"time"

	"github.com/hakizimana/parkgate/internal/gate"
)

// Clock is a manually advanced clock shared by a test, its service under
// test, and the scripted link.
type Clock struct {
	mu sync.Mutex
	t  time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{t: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// Event is one scripted inbound line: the device "sends" Line after Delay
// of link silence.
type Event struct {
	Delay time.Duration
	Line  string
}

// Link replays scripted events against deadline reads, advancing the
// shared clock by exactly the time a real device would have consumed.
type Link struct {
	mu     sync.Mutex
	clock  *Clock
	events []Event
	writes [][]byte
}

func NewLink(clock *Clock, events ...Event) *Link {
	return &Link{clock: clock, events: events}
}

func (l *Link) ReadLine(timeout time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.events) == 0 {
		l.clock.Advance(timeout)
		return "", gate.ErrTimeout
	}

	ev := l.events[0]
	if ev.Delay > timeout {
		l.events[0].Delay -= timeout
		l.clock.Advance(timeout)
		return "", gate.ErrTimeout
	}

	l.events = l.events[1:]
	l.clock.Advance(ev.Delay)
	return ev.Line, nil
}

func (l *Link) Write(p []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := make([]byte, len(p))
	copy(cp, p)
	l.writes = append(l.writes, cp)
	return nil
}

func (l *Link) Flush() error { return nil }

// Writes returns everything written to the device, one string per Write
// call.
func (l *Link) Writes() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.writes))
	for i, w := range l.writes {
		out[i] = string(w)
	}
	return out
}

// Actuator records gate commands instead of driving hardware.
type Actuator struct {
	mu       sync.Mutex
	opens    []time.Duration
	alerts   int
	Distance *float64 // nil = sensor not reporting
}

func NewActuator() *Actuator {
	return &Actuator{}
}

func (a *Actuator) OpenGate(_ context.Context, hold time.Duration) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.opens = append(a.opens, hold)
	return nil
}

func (a *Actuator) TriggerAlert() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.alerts++
	return nil
}

func (a *Actuator) ReadDistance() (float64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Distance == nil {
		return 0, false
	}
	return *a.Distance, true
}

func (a *Actuator) Opens() []time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]time.Duration, len(a.opens))
	copy(out, a.opens)
	return out
}

func (a *Actuator) Alerts() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.alerts
}
