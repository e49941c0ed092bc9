package recognize

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/hakizimana/parkgate/internal/parkgate/plate"
)

// PlateStream is a Feed backed by a line-oriented text stream of candidate
// plates — the stdout pipe of the external recognizer process. One line is
// one candidate reading; lines that do not parse as a plate are dropped as
// noise.
type PlateStream struct {
	sc *bufio.Scanner
}

func NewPlateStream(r io.Reader) *PlateStream {
	return &PlateStream{sc: bufio.NewScanner(r)}
}

func (s *PlateStream) NextDetections(ctx context.Context) ([]Detection, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !s.sc.Scan() {
			if err := s.sc.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}

		p, ok := plate.Normalize(strings.ToUpper(strings.TrimSpace(s.sc.Text())))
		if !ok {
			continue
		}
		return []Detection{{Plate: p}}, nil
	}
}
