// Package gate talks to the barrier microcontroller over its serial link:
// single-byte gate/alert commands out, line-oriented ASCII in.
package gate

import (
	"context"
	"errors"
	"time"
)

// Command bytes understood by the barrier firmware.
const (
	cmdOpenGate  byte = '1'
	cmdCloseGate byte = '0'
	cmdAlert     byte = '2'
)

// ErrTimeout is returned by Link.ReadLine when no full line arrived before
// the deadline.
var ErrTimeout = errors.New("gate: read timed out")

// Link is a half-duplex line-oriented byte stream to the device. ReadLine
// blocks for at most timeout; there is no cancellation beyond that
// deadline.
type Link interface {
	ReadLine(timeout time.Duration) (string, error)
	Write(p []byte) error
	Flush() error
}

// Actuator is what the decision engine drives: open the barrier for a
// while, sound the alert, or sample the distance sensor. An absent
// distance reading means "nothing in range", never zero.
type Actuator interface {
	OpenGate(ctx context.Context, hold time.Duration) error
	TriggerAlert() error
	ReadDistance() (float64, bool)
}

// distanceReadTimeout bounds one distance poll. The sensor reports
// continuously, so a quiet link simply means no vehicle.
const distanceReadTimeout = 200 * time.Millisecond
