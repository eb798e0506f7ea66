package value

import "strings"

// Equal reports deep equality of two values.
// Numbers compare by numeric value, so 1 and 1.0 are equal. Object member
// order is ignored. Values of different JSON types are never equal.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		if !ok {
			return false
		}
		if av == bv {
			return true
		}
		af, aok := av.Float64()
		bf, bok := bv.Float64()
		return aok && bok && af == bf
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv, ok := b.(*Object)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, k := range av.keys {
			other, exists := bv.fields[k]
			if !exists || !Equal(av.fields[k], other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Compare orders two values of the same comparable kind.
// Numbers compare numerically and strings byte-wise. The boolean is false
// when the pair has no ordering (mixed types, or any other type).
func Compare(a, b Value) (int, bool) {
	switch av := a.(type) {
	case Number:
		bv, ok := b.(Number)
		if !ok {
			return 0, false
		}
		af, aok := av.Float64()
		bf, bok := bv.Float64()
		if !aok || !bok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	case String:
		bv, ok := b.(String)
		if !ok {
			return 0, false
		}
		return strings.Compare(string(av), string(bv)), true
	default:
		return 0, false
	}
}

// Truthy reports whether v counts as true when used as a bare condition.
// null, false, zero, and empty strings, arrays and objects are false.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case Bool:
		return bool(val)
	case Number:
		f, ok := val.Float64()
		return ok && f != 0
	case String:
		return val != ""
	case Array:
		return len(val) > 0
	case *Object:
		return val.Len() > 0
	default:
		return false
	}
}
