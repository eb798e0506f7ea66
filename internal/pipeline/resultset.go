package pipeline

import (
	"slices"

	"github.com/roach88/logex/internal/value"
)

// ResultSet holds canonical record serializations without duplicates.
// It is owned by a single Run; not safe for concurrent use.
type ResultSet struct {
	items map[string]struct{}
}

// NewResultSet creates an empty set.
func NewResultSet() *ResultSet {
	return &ResultSet{items: make(map[string]struct{})}
}

// Add inserts line and reports whether it was new.
func (s *ResultSet) Add(line string) bool {
	if _, exists := s.items[line]; exists {
		return false
	}
	s.items[line] = struct{}{}
	return true
}

// Len returns the number of distinct lines.
func (s *ResultSet) Len() int {
	return len(s.items)
}

// Sorted returns the lines in ascending byte-wise order.
func (s *ResultSet) Sorted() []string {
	out := make([]string, 0, len(s.items))
	for line := range s.items {
		out = append(out, line)
	}
	slices.Sort(out)
	return out
}

// Digest identifies the set's contents: equal sets have equal digests.
// Each line is hashed with its terminator, as it appears in the output file.
func (s *ResultSet) Digest() string {
	var buf []byte
	for _, line := range s.Sorted() {
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}
	return value.HashWithDomain(value.DomainResultSet, buf)
}
