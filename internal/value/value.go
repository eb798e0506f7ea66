package value

import (
	"encoding/json"
	"slices"
	"strconv"
	"unicode/utf16"
)

// Value is a sealed interface representing a decoded JSON value.
// Only Null, Bool, Number, String, Array, and *Object implement it.
type Value interface {
	jsonValue() // Sealed - only these types implement it
}

// Null represents a JSON null.
type Null struct{}

func (Null) jsonValue() {}

// Bool represents a JSON boolean.
type Bool bool

func (Bool) jsonValue() {}

// Number represents a JSON number as its literal text.
// The text is written back unchanged on serialization.
type Number json.Number

func (Number) jsonValue() {}

// Float64 returns the numeric reading of the literal.
// The boolean is false if the text is not a valid number.
func (n Number) Float64() (float64, bool) {
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Int constructs a Number from an integer.
func Int(n int64) Number {
	return Number(strconv.FormatInt(n, 10))
}

// Float constructs a Number from a float using the shortest representation.
func Float(f float64) Number {
	return Number(strconv.FormatFloat(f, 'g', -1, 64))
}

// String represents a JSON string.
type String string

func (String) jsonValue() {}

// Array represents a JSON array.
type Array []Value

func (Array) jsonValue() {}

// Object represents a JSON object with unique keys.
// Insertion order is kept for display; it carries no meaning for equality
// or canonical serialization.
type Object struct {
	keys   []string
	fields map[string]Value
}

func (*Object) jsonValue() {}

// Member is a key-value pair for ordered Object construction.
type Member struct {
	Key   string
	Value Value
}

// M is a shorthand for Member.
// Example: NewObject(M("a", Int(1)), M("b", String("x")))
func M(key string, v Value) Member {
	return Member{Key: key, Value: v}
}

// NewObject creates an Object from members in order.
// A repeated key keeps its first position and takes the last value.
func NewObject(members ...Member) *Object {
	obj := &Object{
		keys:   make([]string, 0, len(members)),
		fields: make(map[string]Value, len(members)),
	}
	for _, m := range members {
		obj.set(m.Key, m.Value)
	}
	return obj
}

// set is only used while an Object is being built.
func (o *Object) set(key string, v Value) {
	if _, exists := o.fields[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = v
}

// Get returns the member stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.fields[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Len returns the number of members.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns keys in insertion order. The slice is a copy.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return slices.Clone(o.keys)
}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// Go's string comparison uses UTF-8 bytes, which orders supplementary
// characters differently.
func (o *Object) SortedKeys() []string {
	keys := o.Keys()
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings by UTF-16 code units.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := min(len(a16), len(b16))
	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}

// TypeName returns the JSON type name of v: "null", "boolean", "number",
// "string", "array" or "object".
func TypeName(v Value) string {
	switch v.(type) {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case *Object:
		return "object"
	default:
		return "unknown"
	}
}
