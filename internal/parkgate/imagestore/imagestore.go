// Package imagestore archives the image evidence behind granted
// decisions: the plate crop and the full frame, keyed by plate and lane
// kind. Write failures are reported but must never block a decision.
package imagestore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

type Store interface {
	SavePlate(plate, kind string, img []byte) (string, error)
	SaveFrame(plate, kind string, img []byte) (string, error)
}

// FS stores images under root/<kind>/, e.g. data/images/entry/.
type FS struct {
	root string
}

func NewFS(root string) *FS {
	return &FS{root: root}
}

func (s *FS) SavePlate(plate, kind string, img []byte) (string, error) {
	return s.save("plate", plate, kind, img)
}

func (s *FS) SaveFrame(plate, kind string, img []byte) (string, error) {
	return s.save("frame", plate, kind, img)
}

func (s *FS) save(prefix, plate, kind string, img []byte) (string, error) {
	dir := filepath.Join(s.root, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir image dir: %w", err)
	}

	name := fmt.Sprintf("%s_%s_%s_%s.jpg",
		prefix, plate, time.Now().UTC().Format("20060102T150405"), uuid.NewString()[:8])
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, img, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return path, nil
}
