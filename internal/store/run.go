package store

import (
	"sync"

	"github.com/google/uuid"
)

// Run is one recorded extraction.
type Run struct {
	ID        string   `json:"id"`
	Seq       int64    `json:"seq"`
	Input     string   `json:"input"`
	Condition string   `json:"condition,omitempty"`
	Fields    []string `json:"fields,omitempty"`
	Limit     *int     `json:"limit,omitempty"` // nil = no line budget
	Output    string   `json:"output,omitempty"`

	Processed    int  `json:"processed"`
	Kept         int  `json:"kept"`
	Dropped      int  `json:"dropped"`
	Unique       int  `json:"unique"`
	LimitReached bool `json:"limit_reached"`

	// QueryHash identifies condition, fields and line budget; runs of the
	// same query share it. ResultHash identifies the output contents.
	QueryHash  string `json:"query_hash,omitempty"`
	ResultHash string `json:"result_hash,omitempty"`
}

// RunIDGenerator produces run ids.
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run ids.
// Stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined run ids, for tests.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next predetermined id.
// Panics if all ids have been consumed, to catch test misconfiguration.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all run ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
