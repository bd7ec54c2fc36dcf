package utils

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// EventIDGenerator generates unique, sortable event identifiers
type EventIDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewEventIDGenerator creates a new event id generator
func NewEventIDGenerator() *EventIDGenerator {
	return &EventIDGenerator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Generate generates a ULID-based event id
// Format: 26 characters (sortable, timestamp-based)
// Example: 01ARZ3NDEKTSV4RRFFQ69G5FAV
func (g *EventIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
	return id.String()
}

// Validate reports whether s is a well-formed event id
func Validate(s string) bool {
	if len(s) != 26 {
		return false
	}
	_, err := ulid.ParseStrict(s)
	return err == nil
}
