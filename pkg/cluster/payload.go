package cluster

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/docker/go-units"
	"github.com/google/uuid"
)

// Sizes holds the object payload sizes used by test helpers. A simple object
// fits in a single storage-node chunk; a complex one is large enough to be
// split.
type Sizes struct {
	Simple  int64
	Complex int64
}

// ParseSizes parses human-readable size strings ("1kb", "2mb").
func ParseSizes(simpleSpec, complexSpec string) (Sizes, error) {
	s, err := units.RAMInBytes(simpleSpec)
	if err != nil {
		return Sizes{}, fmt.Errorf("bad simple object size %q: %w", simpleSpec, err)
	}
	c, err := units.RAMInBytes(complexSpec)
	if err != nil {
		return Sizes{}, fmt.Errorf("bad complex object size %q: %w", complexSpec, err)
	}
	if s <= 0 || c <= 0 {
		return Sizes{}, fmt.Errorf("object sizes must be positive")
	}
	return Sizes{Simple: s, Complex: c}, nil
}

// SpoolPayload writes size bytes of random data to a fresh file under dir and
// returns its path. Callers upload the file through a gateway or CLI and
// compare what comes back.
func SpoolPayload(dir string, size int64) (string, error) {
	path := filepath.Join(dir, uuid.NewString())

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create payload file: %w", err)
	}
	defer f.Close()

	if _, err := io.CopyN(f, rand.Reader, size); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to fill payload file: %w", err)
	}
	return path, nil
}
