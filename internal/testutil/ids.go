// Package testutil holds deterministic helpers shared by logex tests.
package testutil

import (
	"fmt"
	"sync"
)

// SequentialRunIDs generates run ids "<prefix>-0001", "<prefix>-0002", ...
//
// Unlike store.FixedGenerator it never runs out, and it can be reset so the
// same scenario run twice yields identical ids.
//
// Thread-safety: all methods are safe for concurrent use.
type SequentialRunIDs struct {
	mu     sync.Mutex
	prefix string
	seq    int
}

// NewSequentialRunIDs creates a generator. An empty prefix means "run".
func NewSequentialRunIDs(prefix string) *SequentialRunIDs {
	if prefix == "" {
		prefix = "run"
	}
	return &SequentialRunIDs{prefix: prefix}
}

// Generate returns the next id. Implements store.RunIDGenerator.
func (g *SequentialRunIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%04d", g.prefix, g.seq)
}

// Reset restarts the sequence; the next id ends in 0001.
func (g *SequentialRunIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}

// FixedRunID returns the same run id every time.
type FixedRunID string

// Generate returns the fixed id. Implements store.RunIDGenerator.
func (id FixedRunID) Generate() string {
	return string(id)
}
