package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Generator creates opaque IDs used to correlate the log lines of one run.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct {
	now func() time.Time
}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{now: time.Now}
}

// NewID returns "<utc yyyymmddThhmmss>-<8 hex chars>", sortable by start time.
func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	now := time.Now
	if g != nil && g.now != nil {
		now = g.now
	}
	return now().UTC().Format("20060102T150405") + "-" + hex.EncodeToString(buf), nil
}
