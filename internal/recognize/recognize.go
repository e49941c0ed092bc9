// Package recognize defines the contract with the external plate
// recognition component. The engine never touches pixels; frames and image
// regions pass through as opaque bytes.
package recognize

import "context"

// Frame is one captured image, opaque to this module.
type Frame []byte

// Detection is one candidate plate found in a frame. Plate has already
// passed the recognizer's format validation; the engine still runs it
// through plate.Normalize before trusting it.
type Detection struct {
	Plate string
	Crop  []byte // the plate region
	Full  []byte // the full frame
}

// Source yields frames from the lane camera. Next blocks until a frame is
// available; an error means the capture device is gone and the lane loop
// should stop.
type Source interface {
	Next(ctx context.Context) (Frame, error)
}

// Recognizer extracts candidate plates from a frame.
type Recognizer interface {
	Detect(ctx context.Context, frame Frame) ([]Detection, error)
}

// Feed is what the lane loop actually consumes: the capture+detect
// pipeline collapsed into one blocking call.
type Feed interface {
	NextDetections(ctx context.Context) ([]Detection, error)
}

// Pipeline glues a Source and a Recognizer into a Feed.
type Pipeline struct {
	Source     Source
	Recognizer Recognizer
}

func (p *Pipeline) NextDetections(ctx context.Context) ([]Detection, error) {
	frame, err := p.Source.Next(ctx)
	if err != nil {
		return nil, err
	}
	return p.Recognizer.Detect(ctx, frame)
}
