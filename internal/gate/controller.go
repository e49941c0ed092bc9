package gate

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Controller implements Actuator over a Link.
type Controller struct {
	link Link

	// sleep is swappable so tests don't hold the gate open in real time.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewController(link Link) *Controller {
	return &Controller{link: link, sleep: sleepCtx}
}

// OpenGate raises the barrier, holds it for the given duration, then
// lowers it. The close byte is sent even when the context is cancelled
// mid-hold — a barrier left up is worse than a truncated hold.
func (c *Controller) OpenGate(ctx context.Context, hold time.Duration) error {
	if err := c.link.Write([]byte{cmdOpenGate}); err != nil {
		return fmt.Errorf("open gate: %w", err)
	}

	sleepErr := c.sleep(ctx, hold)

	if err := c.link.Write([]byte{cmdCloseGate}); err != nil {
		return fmt.Errorf("close gate: %w", err)
	}
	return sleepErr
}

func (c *Controller) TriggerAlert() error {
	if err := c.link.Write([]byte{cmdAlert}); err != nil {
		return fmt.Errorf("trigger alert: %w", err)
	}
	return nil
}

// ReadDistance polls the sensor line. Anything that is not a bare number
// (payment traffic, noise, a silent link) reads as "no vehicle in range".
func (c *Controller) ReadDistance() (float64, bool) {
	line, err := c.link.ReadLine(distanceReadTimeout)
	if err != nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Close lowers the barrier. Called on shutdown so a killed process never
// leaves the lane open.
func (c *Controller) Close() error {
	return c.link.Write([]byte{cmdCloseGate})
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
