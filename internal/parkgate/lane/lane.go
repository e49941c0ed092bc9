// Package lane runs one checkpoint loop: sample the distance sensor, pull
// detections from the recognizer feed, build a consensus reading, and hand
// it to the decision service.
package lane

import (
	"context"
	"errors"
	"io"

	"github.com/hakizimana/parkgate/internal/gate"
	"github.com/hakizimana/parkgate/internal/log"
	"github.com/hakizimana/parkgate/internal/parkgate/imagestore"
	"github.com/hakizimana/parkgate/internal/parkgate/plate"
	"github.com/hakizimana/parkgate/internal/parkgate/types"
	"github.com/hakizimana/parkgate/internal/recognize"
)

// Decider is the lane-side policy: the entry or exit service.
type Decider interface {
	Decide(ctx context.Context, plate string) types.Decision
}

type Config struct {
	Kind          string // "entry" | "exit" — also the image archive bucket
	MinDistanceCm float64
	MaxDistanceCm float64
}

type Lane struct {
	cfg       Config
	feed      recognize.Feed
	consensus *plate.ConsensusBuffer
	decider   Decider
	actuator  gate.Actuator
	images    imagestore.Store // nil = no archiving
}

func New(cfg Config, feed recognize.Feed, buf *plate.ConsensusBuffer, decider Decider, actuator gate.Actuator, images imagestore.Store) *Lane {
	return &Lane{
		cfg:       cfg,
		feed:      feed,
		consensus: buf,
		decider:   decider,
		actuator:  actuator,
		images:    images,
	}
}

// Run blocks until the context is cancelled or the feed dies. The loop is
// deliberately single-threaded: a stalled frame read stalls the lane,
// which is the accepted tradeoff of a checkpoint-by-checkpoint design.
func (l *Lane) Run(ctx context.Context) error {
	ctx = log.WithLogField(ctx, "lane", l.cfg.Kind)
	log.L(ctx).Info("checkpoint started")

	for {
		if err := ctx.Err(); err != nil {
			log.L(ctx).Info("checkpoint stopped")
			return nil
		}

		dets, err := l.feed.NextDetections(ctx)
		if errors.Is(err, context.Canceled) {
			log.L(ctx).Info("checkpoint stopped")
			return nil
		}
		if errors.Is(err, io.EOF) {
			log.L(ctx).Info("recognizer feed closed")
			return nil
		}
		if err != nil {
			log.L(ctx).Errorf("recognizer feed failed: %v", err)
			return err
		}

		// A missing reading means the sensor is not reporting — treat as
		// out of range, never as distance zero.
		d, ok := l.actuator.ReadDistance()
		if !ok || d < l.cfg.MinDistanceCm || d > l.cfg.MaxDistanceCm {
			continue
		}

		for _, det := range dets {
			trusted, ok := l.consensus.Observe(det.Plate)
			if !ok {
				continue
			}

			dec := l.decider.Decide(ctx, trusted)
			if dec.Status == types.StatusGranted {
				l.archive(ctx, trusted, det)
			}
		}
	}
}

func (l *Lane) archive(ctx context.Context, trusted string, det recognize.Detection) {
	if l.images == nil {
		return
	}
	if len(det.Crop) > 0 {
		if _, err := l.images.SavePlate(trusted, l.cfg.Kind, det.Crop); err != nil {
			log.L(ctx).Warnf("plate image save failed: %v", err)
		}
	}
	if len(det.Full) > 0 {
		if _, err := l.images.SaveFrame(trusted, l.cfg.Kind, det.Full); err != nil {
			log.L(ctx).Warnf("frame save failed: %v", err)
		}
	}
}
