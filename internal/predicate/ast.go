package predicate

import (
	"regexp"

	"github.com/roach88/logex/internal/path"
	"github.com/roach88/logex/internal/value"
)

// condition is a boolean node. Sealed to this package.
type condition interface {
	conditionNode()
}

// operand produces a value (or absence) from a record. Sealed to this package.
type operand interface {
	operandNode()
}

type andNode struct {
	left, right condition
}

type orNode struct {
	left, right condition
}

type notNode struct {
	inner condition
}

// existsNode is true when its operand resolves.
type existsNode struct {
	target operand
}

// truthNode is a bare operand used as a condition.
type truthNode struct {
	target operand
}

type compareOp int

const (
	opEqual compareOp = iota
	opNotEqual
	opLess
	opLessEqual
	opGreater
	opGreaterEqual
	opContains
	opIn
	opMatches
)

var compareOpNames = map[compareOp]string{
	opEqual:        "=",
	opNotEqual:     "!=",
	opLess:         "<",
	opLessEqual:    "<=",
	opGreater:      ">",
	opGreaterEqual: ">=",
	opContains:     "contains",
	opIn:           "in",
	opMatches:      "matches",
}

func (op compareOp) String() string {
	return compareOpNames[op]
}

type compareNode struct {
	op          compareOp
	left, right operand
	pattern     *regexp.Regexp // precompiled when op is opMatches and right is a string literal
}

func (andNode) conditionNode()     {}
func (orNode) conditionNode()      {}
func (notNode) conditionNode()     {}
func (existsNode) conditionNode()  {}
func (truthNode) conditionNode()   {}
func (compareNode) conditionNode() {}

type fieldNode struct {
	spec path.Spec
}

type literalNode struct {
	value value.Value
}

// undefinedNode is the `undefined` keyword: it never resolves.
type undefinedNode struct{}

type arrayNode struct {
	items []operand
}

func (fieldNode) operandNode()     {}
func (literalNode) operandNode()   {}
func (undefinedNode) operandNode() {}
func (arrayNode) operandNode()     {}
