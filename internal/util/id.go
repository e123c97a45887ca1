// Package util provides small helpers shared across SchoolSynth.
package util

import (
	"encoding/binary"
	"sync"

	"github.com/google/uuid"
)

// NewRunID returns a time-ordered identifier for one generation or load run.
func NewRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// DeterministicRunID derives a run id from a seed so that seeded runs are
// reproducible end to end.
func DeterministicRunID(seed int64) string {
	var b [16]byte
	binary.BigEndian.PutUint64(b[0:8], uint64(seed))
	binary.BigEndian.PutUint64(b[8:16], uint64(seed*31))

	b[6] = (b[6] & 0x0F) | 0x40
	b[8] = (b[8] & 0x3F) | 0x80

	return uuid.UUID(b).String()
}

// Sequence hands out consecutive integer ids.
type Sequence struct {
	mu   sync.Mutex
	last int
}

// NewSequence creates a Sequence whose first Next returns start.
func NewSequence(start int) *Sequence {
	return &Sequence{last: start - 1}
}

// Next returns the next id.
func (s *Sequence) Next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last++
	return s.last
}

