package predicate

import (
	"regexp"
	"strings"
	"sync"

	"github.com/roach88/logex/internal/value"
)

func (p *Predicate) evalCondition(c condition, rec *value.Object) bool {
	switch node := c.(type) {
	case andNode:
		return p.evalCondition(node.left, rec) && p.evalCondition(node.right, rec)
	case orNode:
		return p.evalCondition(node.left, rec) || p.evalCondition(node.right, rec)
	case notNode:
		return !p.evalCondition(node.inner, rec)
	case existsNode:
		_, ok := resolve(node.target, rec)
		return ok
	case truthNode:
		v, ok := resolve(node.target, rec)
		return ok && value.Truthy(v)
	case compareNode:
		return p.evalCompare(node, rec)
	default:
		return false
	}
}

// resolve evaluates an operand. The boolean is false when the operand is
// absent; an array literal is absent if any element is.
func resolve(o operand, rec *value.Object) (value.Value, bool) {
	switch node := o.(type) {
	case fieldNode:
		return node.spec.Resolve(rec)
	case literalNode:
		return node.value, true
	case arrayNode:
		arr := make(value.Array, 0, len(node.items))
		for _, item := range node.items {
			v, ok := resolve(item, rec)
			if !ok {
				return nil, false
			}
			arr = append(arr, v)
		}
		return arr, true
	default:
		return nil, false
	}
}

func (p *Predicate) evalCompare(node compareNode, rec *value.Object) bool {
	_, leftUndefined := node.left.(undefinedNode)
	_, rightUndefined := node.right.(undefinedNode)
	if leftUndefined || rightUndefined {
		return comparePresence(node, rec, leftUndefined, rightUndefined)
	}

	left, ok := resolve(node.left, rec)
	if !ok {
		return false
	}
	right, ok := resolve(node.right, rec)
	if !ok {
		return false
	}

	switch node.op {
	case opEqual:
		return value.Equal(left, right)
	case opNotEqual:
		return !value.Equal(left, right)
	case opLess, opLessEqual, opGreater, opGreaterEqual:
		c, ok := value.Compare(left, right)
		if !ok {
			return false
		}
		switch node.op {
		case opLess:
			return c < 0
		case opLessEqual:
			return c <= 0
		case opGreater:
			return c > 0
		default:
			return c >= 0
		}
	case opContains:
		return contains(left, right)
	case opIn:
		return contains(right, left)
	case opMatches:
		return p.matches(node, left, right)
	default:
		return false
	}
}

// comparePresence handles comparisons against `undefined`:
// `x = undefined` holds when x is absent, `x != undefined` when present.
func comparePresence(node compareNode, rec *value.Object, leftUndefined, rightUndefined bool) bool {
	var present bool
	switch {
	case leftUndefined && rightUndefined:
		// neither side can be present
	case leftUndefined:
		_, present = resolve(node.right, rec)
	default:
		_, present = resolve(node.left, rec)
	}

	switch node.op {
	case opEqual:
		return !present
	case opNotEqual:
		return present
	default:
		return false
	}
}

// contains reports whether haystack holds needle: substring for strings,
// element equality for arrays, key presence for objects.
func contains(haystack, needle value.Value) bool {
	switch h := haystack.(type) {
	case value.String:
		n, ok := needle.(value.String)
		return ok && strings.Contains(string(h), string(n))
	case value.Array:
		for _, elem := range h {
			if value.Equal(elem, needle) {
				return true
			}
		}
		return false
	case *value.Object:
		n, ok := needle.(value.String)
		return ok && h.Has(string(n))
	default:
		return false
	}
}

func (p *Predicate) matches(node compareNode, left, right value.Value) bool {
	subject, ok := left.(value.String)
	if !ok {
		return false
	}

	re := node.pattern
	if re == nil {
		pattern, ok := right.(value.String)
		if !ok {
			return false
		}
		compiled, err := p.regexps.Compile(string(pattern))
		if err != nil {
			return false
		}
		re = compiled
	}

	return re.MatchString(string(subject))
}

// regexCache memoizes patterns read from record fields.
// Failed compilations are cached too, so a bad pattern is parsed once.
type regexCache struct {
	mu       sync.RWMutex
	patterns map[string]cachedPattern
}

type cachedPattern struct {
	re  *regexp.Regexp
	err error
}

func newRegexCache() *regexCache {
	return &regexCache{patterns: make(map[string]cachedPattern)}
}

func (c *regexCache) Compile(pattern string) (*regexp.Regexp, error) {
	c.mu.RLock()
	if cached, ok := c.patterns[pattern]; ok {
		c.mu.RUnlock()
		return cached.re, cached.err
	}
	c.mu.RUnlock()

	re, err := regexp.Compile(pattern)

	c.mu.Lock()
	c.patterns[pattern] = cachedPattern{re: re, err: err}
	c.mu.Unlock()

	return re, err
}
