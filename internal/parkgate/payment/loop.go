// Package payment runs the coordinator loop: listen on the serial link
// for balance reports and drive one handshake per report.
package payment

import (
	"context"
	"errors"
	"time"

	"github.com/hakizimana/parkgate/internal/gate"
	"github.com/hakizimana/parkgate/internal/log"
	"github.com/hakizimana/parkgate/internal/parkgate/service"
	"github.com/hakizimana/parkgate/internal/parkgate/types"
)

// idleReadTimeout is how long one listen cycle blocks before checking for
// shutdown. Short enough for a responsive ctrl-C, long enough not to spin.
const idleReadTimeout = time.Second

type Loop struct {
	link gate.Link
	svc  *service.PaymentService
}

func New(link gate.Link, svc *service.PaymentService) *Loop {
	return &Loop{link: link, svc: svc}
}

// Run blocks until the context is cancelled or the link fails. Each parsed
// report runs its handshake to completion before the next line is read —
// the link is half-duplex and the device only ever has one session going.
func (l *Loop) Run(ctx context.Context) error {
	log.L(ctx).Info("payment coordinator started")

	// Drop anything buffered before we came up.
	if err := l.link.Flush(); err != nil {
		log.L(ctx).Warnf("input flush failed: %v", err)
	}

	for {
		if ctx.Err() != nil {
			log.L(ctx).Info("payment coordinator stopped")
			return nil
		}

		line, err := l.link.ReadLine(idleReadTimeout)
		if errors.Is(err, gate.ErrTimeout) {
			continue
		}
		if err != nil {
			log.L(ctx).Errorf("serial read failed: %v", err)
			return err
		}

		plate, balance, ok := service.ParseReport(line)
		if !ok {
			// Distance samples and line noise arrive here too; not an error.
			log.L(ctx).Debugf("ignoring line %q", line)
			continue
		}

		res := l.svc.Process(ctx, plate, balance)
		if res.Status == types.PaymentPaid {
			log.L(ctx).WithField("plate", plate).Infof("payment complete, dispensed balance %d", res.NewBalance)
		}
	}
}
