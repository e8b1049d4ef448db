package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Generator creates opaque ids, used to tag one pipeline run in logs and
// published events.
type Generator interface {
	NewID() (string, error)
}

// RunIDGenerator yields ids of the form 20260501T150405Z-1a2b3c4d, which sort
// by start time.
type RunIDGenerator struct {
	now func() time.Time
}

func NewRunIDGenerator() *RunIDGenerator {
	return &RunIDGenerator{now: time.Now}
}

func (g *RunIDGenerator) NewID() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return g.now().UTC().Format("20060102T150405Z") + "-" + hex.EncodeToString(buf), nil
}
