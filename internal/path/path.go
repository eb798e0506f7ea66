// Package path resolves field specifiers against log records.
//
// A specifier is one of:
//   - a quoted literal ('text' or "text"), yielding the text itself
//   - a key, looked up whole in the record (dots included)
//   - a dotted path (req.sdk.version), walked one object at a time
//   - a JSONPath behind the jsonpath: prefix (jsonpath:$.items[0].id),
//     selected with github.com/theory/jsonpath
//
// Resolution order is literal, whole key, dotted walk, then JSONPath. A
// whole-key match always wins, so a record holding a literal "a.b" key
// shadows a nested a -> b. A JSONPath is consulted only when the key and
// dotted lookups of the full specifier text find nothing.
//
// Zero JSONPath matches resolve to absent, one to the match, several to an
// array of the matches.
package path

import (
	"fmt"
	"strings"

	"github.com/theory/jsonpath"

	"github.com/roach88/logex/internal/value"
)

// JSONPathPrefix marks a specifier as a JSONPath expression.
const JSONPathPrefix = "jsonpath:"

// Kind classifies a compiled specifier.
type Kind int

const (
	KindLiteral Kind = iota
	KindKey
	KindDotted
	KindJSONPath
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindKey:
		return "key"
	case KindDotted:
		return "dotted"
	case KindJSONPath:
		return "jsonpath"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Spec is a compiled field specifier. The zero value is not usable;
// construct with Compile or MustCompile.
type Spec struct {
	raw     string
	kind    Kind
	literal string
	parts   []string
	jp      *jsonpath.Path
}

// Compile classifies spec once so it can be resolved against many records.
// Only JSONPath specifiers can fail to compile.
func Compile(spec string) (Spec, error) {
	s := classify(spec)
	if s.kind == KindLiteral {
		return s, nil
	}

	if expr, ok := strings.CutPrefix(spec, JSONPathPrefix); ok {
		p, err := jsonpath.Parse(expr)
		if err != nil {
			return Spec{}, fmt.Errorf("invalid JSONPath field %q: %w", spec, err)
		}
		s.kind = KindJSONPath
		s.jp = p
	}
	return s, nil
}

// classify sorts spec into literal, key or dotted path.
func classify(spec string) Spec {
	s := Spec{raw: spec, kind: KindKey}
	if lit, ok := Literal(spec); ok {
		s.kind = KindLiteral
		s.literal = lit
		return s
	}
	if strings.Contains(spec, ".") {
		s.kind = KindDotted
		s.parts = strings.Split(spec, ".")
	}
	return s
}

// MustCompile is like Compile but panics on error.
// Use only in tests or with known-good specifiers.
func MustCompile(spec string) Spec {
	s, err := Compile(spec)
	if err != nil {
		panic(err)
	}
	return s
}

// CompileAll compiles specifiers in order.
func CompileAll(specs []string) ([]Spec, error) {
	out := make([]Spec, 0, len(specs))
	for _, raw := range specs {
		s, err := Compile(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// String returns the specifier text. It is also the output key.
func (s Spec) String() string {
	return s.raw
}

// Kind returns the specifier classification.
func (s Spec) Kind() Kind {
	return s.kind
}

// Resolve returns the value s names in record. The boolean is false when
// the value is absent; a missing intermediate key is never an error.
func (s Spec) Resolve(record *value.Object) (value.Value, bool) {
	if s.kind == KindLiteral {
		return value.String(s.literal), true
	}

	// Whole-key match takes priority over any decomposition.
	if v, ok := record.Get(s.raw); ok {
		return v, true
	}
	if s.parts != nil {
		if v, ok := walk(record, s.parts); ok {
			return v, true
		}
	}
	if s.jp != nil {
		return selectJSONPath(s.jp, record)
	}
	return nil, false
}

// Resolve compiles spec and resolves it against record.
// An uncompilable JSONPath falls back to key and dotted lookup.
func Resolve(record *value.Object, spec string) (value.Value, bool) {
	s, err := Compile(spec)
	if err != nil {
		s = classify(spec)
	}
	return s.Resolve(record)
}

// Literal reports whether spec is a quoted literal and returns its contents.
// The quotes must match and be ' or "; no escapes are processed.
func Literal(spec string) (string, bool) {
	if len(spec) < 2 {
		return "", false
	}
	first, last := spec[0], spec[len(spec)-1]
	if first != last || (first != '\'' && first != '"') {
		return "", false
	}
	return spec[1 : len(spec)-1], true
}

// walk descends through nested objects one part at a time.
func walk(record *value.Object, parts []string) (value.Value, bool) {
	var current value.Value = record
	for _, p := range parts {
		obj, ok := current.(*value.Object)
		if !ok {
			return nil, false
		}
		next, ok := obj.Get(p)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// selectJSONPath runs p over record. One node yields that node; several
// yield an array in selection order. Wildcards over objects select members
// in map order, so only array traversal order is stable.
func selectJSONPath(p *jsonpath.Path, record *value.Object) (value.Value, bool) {
	nodes := p.Select(value.ToAny(record))
	switch len(nodes) {
	case 0:
		return nil, false
	case 1:
		v, err := value.FromAny(nodes[0])
		if err != nil {
			return nil, false
		}
		return v, true
	}

	arr := make(value.Array, 0, len(nodes))
	for _, n := range nodes {
		v, err := value.FromAny(n)
		if err != nil {
			return nil, false
		}
		arr = append(arr, v)
	}
	return arr, true
}
