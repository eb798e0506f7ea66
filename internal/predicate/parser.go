package predicate

import (
	"regexp"

	"github.com/roach88/logex/internal/path"
	"github.com/roach88/logex/internal/value"
)

type parserState struct {
	tokens []token
	pos    int
	fields []string
}

func parse(input string) (condition, []string, error) {
	tokens, err := lex(input)
	if err != nil {
		return nil, nil, err
	}

	state := parserState{tokens: tokens}
	if state.current().typ == tokenEOF {
		return nil, nil, syntaxError(0, "expression is empty")
	}

	root, err := state.parseOr()
	if err != nil {
		return nil, nil, err
	}

	if tok := state.current(); tok.typ != tokenEOF {
		return nil, nil, syntaxError(tok.pos, "unexpected %s", tok.typ)
	}

	return root, state.fields, nil
}

func (p *parserState) current() token {
	return p.tokens[p.pos]
}

func (p *parserState) advance() token {
	tok := p.tokens[p.pos]
	if tok.typ != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parserState) expect(typ tokenType) (token, error) {
	tok := p.current()
	if tok.typ != typ {
		return token{}, syntaxError(tok.pos, "expected %s, got %s", typ, tok.typ)
	}
	return p.advance(), nil
}

func (p *parserState) parseOr() (condition, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.current().typ == tokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}

	return left, nil
}

func (p *parserState) parseAnd() (condition, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.current().typ == tokenAnd {
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}

	return left, nil
}

func (p *parserState) parseUnary() (condition, error) {
	switch p.current().typ {
	case tokenNot:
		p.advance()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	case tokenExists:
		p.advance()
		target, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return existsNode{target: target}, nil
	case tokenLParen:
		p.advance()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenRParen); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return p.parseComparison()
	}
}

func (p *parserState) parseComparison() (condition, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	opTok := p.current()
	var op compareOp
	switch opTok.typ {
	case tokenEqual:
		op = opEqual
	case tokenNotEqual:
		op = opNotEqual
	case tokenLess:
		op = opLess
	case tokenLessEqual:
		op = opLessEqual
	case tokenGreater:
		op = opGreater
	case tokenGreaterEqual:
		op = opGreaterEqual
	case tokenContains:
		op = opContains
	case tokenIn:
		op = opIn
	case tokenMatches:
		op = opMatches
	case tokenIs:
		op = opEqual
		if p.tokens[p.pos+1].typ == tokenNot {
			p.advance()
			op = opNotEqual
		}
	default:
		return truthNode{target: left}, nil
	}
	p.advance()

	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	node := compareNode{op: op, left: left, right: right}
	if op == opMatches {
		if err := compileLiteralPattern(&node, opTok.pos); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// compileLiteralPattern compiles a literal regex once, at compile time.
// Patterns read from fields are compiled lazily during evaluation.
func compileLiteralPattern(node *compareNode, pos int) error {
	lit, ok := node.right.(literalNode)
	if !ok {
		return nil
	}
	pattern, ok := lit.value.(value.String)
	if !ok {
		return syntaxError(pos, "matches requires a string pattern, got %s", value.TypeName(lit.value))
	}
	re, err := regexp.Compile(string(pattern))
	if err != nil {
		return syntaxError(pos, "invalid regex %q: %v", string(pattern), err)
	}
	node.pattern = re
	return nil
}

func (p *parserState) parseOperand() (operand, error) {
	tok := p.current()
	switch tok.typ {
	case tokenIdentifier, tokenField:
		p.advance()
		spec, err := path.Compile(tok.literal)
		if err != nil {
			return nil, syntaxError(tok.pos, "%v", err)
		}
		p.fields = append(p.fields, tok.literal)
		return fieldNode{spec: spec}, nil
	case tokenString:
		p.advance()
		return literalNode{value: value.String(tok.literal)}, nil
	case tokenNumber:
		p.advance()
		return literalNode{value: value.Number(tok.literal)}, nil
	case tokenTrue:
		p.advance()
		return literalNode{value: value.Bool(true)}, nil
	case tokenFalse:
		p.advance()
		return literalNode{value: value.Bool(false)}, nil
	case tokenNull:
		p.advance()
		return literalNode{value: value.Null{}}, nil
	case tokenUndefined:
		p.advance()
		return undefinedNode{}, nil
	case tokenLBracket:
		return p.parseArray()
	default:
		return nil, syntaxError(tok.pos, "expected operand, got %s", tok.typ)
	}
}

func (p *parserState) parseArray() (operand, error) {
	p.advance() // '['
	items := []operand{}

	if p.current().typ == tokenRBracket {
		p.advance()
		return arrayNode{items: items}, nil
	}

	for {
		item, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		tok := p.advance()
		switch tok.typ {
		case tokenComma:
			continue
		case tokenRBracket:
			return arrayNode{items: items}, nil
		default:
			return nil, syntaxError(tok.pos, "expected ',' or ']', got %s", tok.typ)
		}
	}
}
