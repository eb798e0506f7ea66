package predicate

import (
	"slices"

	"github.com/roach88/logex/internal/value"
)

// Predicate is a compiled filter expression. It is immutable after Compile
// and safe for concurrent use.
type Predicate struct {
	source  string
	root    condition
	fields  []string
	regexps *regexCache
}

// Compile parses expr. Failures are *SyntaxError values matching
// ErrInvalidExpression.
func Compile(expr string) (*Predicate, error) {
	root, fields, err := parse(expr)
	if err != nil {
		return nil, err
	}
	return &Predicate{
		source:  expr,
		root:    root,
		fields:  fields,
		regexps: newRegexCache(),
	}, nil
}

// MustCompile is like Compile but panics on error.
// Use only in tests or with known-good expressions.
func MustCompile(expr string) *Predicate {
	p, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// Evaluate reports whether record matches. It never fails: missing fields
// and type mismatches make the enclosing comparison false.
func (p *Predicate) Evaluate(record *value.Object) bool {
	return p.evalCondition(p.root, record)
}

// String returns the source expression.
func (p *Predicate) String() string {
	return p.source
}

// Fields returns the field specifiers referenced by the expression,
// in order of appearance, without duplicates.
func (p *Predicate) Fields() []string {
	out := make([]string, 0, len(p.fields))
	for _, f := range p.fields {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}
