package predicate

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenIdentifier
	tokenField // `backtick quoted` specifier
	tokenNumber
	tokenString
	tokenTrue
	tokenFalse
	tokenNull
	tokenUndefined
	tokenEqual
	tokenNotEqual
	tokenLess
	tokenLessEqual
	tokenGreater
	tokenGreaterEqual
	tokenAnd
	tokenOr
	tokenNot
	tokenIs
	tokenContains
	tokenMatches
	tokenIn
	tokenExists
	tokenLParen
	tokenRParen
	tokenLBracket
	tokenRBracket
	tokenComma
)

var tokenNames = map[tokenType]string{
	tokenEOF:          "end of expression",
	tokenIdentifier:   "field",
	tokenField:        "field",
	tokenNumber:       "number",
	tokenString:       "string",
	tokenTrue:         "true",
	tokenFalse:        "false",
	tokenNull:         "null",
	tokenUndefined:    "undefined",
	tokenEqual:        "'='",
	tokenNotEqual:     "'!='",
	tokenLess:         "'<'",
	tokenLessEqual:    "'<='",
	tokenGreater:      "'>'",
	tokenGreaterEqual: "'>='",
	tokenAnd:          "'and'",
	tokenOr:           "'or'",
	tokenNot:          "'not'",
	tokenIs:           "'is'",
	tokenContains:     "'contains'",
	tokenMatches:      "'matches'",
	tokenIn:           "'in'",
	tokenExists:       "'exists'",
	tokenLParen:       "'('",
	tokenRParen:       "')'",
	tokenLBracket:     "'['",
	tokenRBracket:     "']'",
	tokenComma:        "','",
}

func (t tokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "token(" + strconv.Itoa(int(t)) + ")"
}

var keywords = map[string]tokenType{
	"and":       tokenAnd,
	"or":        tokenOr,
	"not":       tokenNot,
	"is":        tokenIs,
	"contains":  tokenContains,
	"matches":   tokenMatches,
	"in":        tokenIn,
	"exists":    tokenExists,
	"true":      tokenTrue,
	"false":     tokenFalse,
	"null":      tokenNull,
	"undefined": tokenUndefined,
}

type token struct {
	typ     tokenType
	literal string
	pos     int
}

func lex(input string) ([]token, error) {
	tokens := make([]token, 0, len(input)/2)
	pos := 0

	for pos < len(input) {
		r, size := utf8.DecodeRuneInString(input[pos:])
		if unicode.IsSpace(r) {
			pos += size
			continue
		}

		if isIdentifierStart(r) {
			start := pos
			pos += size
			for pos < len(input) {
				next, nextSize := utf8.DecodeRuneInString(input[pos:])
				if !isIdentifierPart(next) {
					break
				}
				pos += nextSize
			}
			literal := input[start:pos]
			if kw, ok := keywords[strings.ToLower(literal)]; ok {
				tokens = append(tokens, token{typ: kw, literal: literal, pos: start})
			} else {
				tokens = append(tokens, token{typ: tokenIdentifier, literal: literal, pos: start})
			}
			continue
		}

		if isNumberStart(input, pos) {
			numberToken, nextPos, err := lexNumber(input, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, numberToken)
			pos = nextPos
			continue
		}

		switch input[pos] {
		case '\'', '"':
			literal, nextPos, err := lexString(input, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{typ: tokenString, literal: literal, pos: pos})
			pos = nextPos
		case '`':
			end := strings.IndexByte(input[pos+1:], '`')
			if end < 0 {
				return nil, syntaxError(pos, "unterminated field reference")
			}
			if end == 0 {
				return nil, syntaxError(pos, "empty field reference")
			}
			tokens = append(tokens, token{typ: tokenField, literal: input[pos+1 : pos+1+end], pos: pos})
			pos += end + 2
		case '=':
			// "=" and "==" are the same operator
			tokens = append(tokens, token{typ: tokenEqual, pos: pos})
			pos++
			if pos < len(input) && input[pos] == '=' {
				pos++
			}
		case '!':
			if pos+1 < len(input) && input[pos+1] == '=' {
				tokens = append(tokens, token{typ: tokenNotEqual, pos: pos})
				pos += 2
				continue
			}
			tokens = append(tokens, token{typ: tokenNot, pos: pos})
			pos++
		case '<':
			if pos+1 < len(input) && input[pos+1] == '=' {
				tokens = append(tokens, token{typ: tokenLessEqual, pos: pos})
				pos += 2
				continue
			}
			tokens = append(tokens, token{typ: tokenLess, pos: pos})
			pos++
		case '>':
			if pos+1 < len(input) && input[pos+1] == '=' {
				tokens = append(tokens, token{typ: tokenGreaterEqual, pos: pos})
				pos += 2
				continue
			}
			tokens = append(tokens, token{typ: tokenGreater, pos: pos})
			pos++
		case '&':
			if pos+1 < len(input) && input[pos+1] == '&' {
				tokens = append(tokens, token{typ: tokenAnd, pos: pos})
				pos += 2
				continue
			}
			return nil, syntaxError(pos, "unexpected '&'")
		case '|':
			if pos+1 < len(input) && input[pos+1] == '|' {
				tokens = append(tokens, token{typ: tokenOr, pos: pos})
				pos += 2
				continue
			}
			return nil, syntaxError(pos, "unexpected '|'")
		case '(':
			tokens = append(tokens, token{typ: tokenLParen, pos: pos})
			pos++
		case ')':
			tokens = append(tokens, token{typ: tokenRParen, pos: pos})
			pos++
		case '[':
			tokens = append(tokens, token{typ: tokenLBracket, pos: pos})
			pos++
		case ']':
			tokens = append(tokens, token{typ: tokenRBracket, pos: pos})
			pos++
		case ',':
			tokens = append(tokens, token{typ: tokenComma, pos: pos})
			pos++
		default:
			return nil, syntaxError(pos, "unexpected character %q", r)
		}
	}

	tokens = append(tokens, token{typ: tokenEOF, pos: len(input)})
	return tokens, nil
}

func isIdentifierStart(r rune) bool {
	return r == '_' || r == '$' || r == '@' || unicode.IsLetter(r)
}

func isIdentifierPart(r rune) bool {
	return r == '_' || r == '$' || r == '@' || r == '.' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isNumberStart(input string, pos int) bool {
	if input[pos] >= '0' && input[pos] <= '9' {
		return true
	}
	if input[pos] == '-' {
		return pos+1 < len(input) && input[pos+1] >= '0' && input[pos+1] <= '9'
	}
	return false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func lexNumber(input string, start int) (token, int, error) {
	pos := start
	if input[pos] == '-' {
		pos++
	}

	digitStart := pos
	for pos < len(input) && isDigit(input[pos]) {
		pos++
	}
	if pos == digitStart {
		return token{}, 0, syntaxError(start, "invalid number")
	}

	if pos < len(input) && input[pos] == '.' {
		pos++
		fracStart := pos
		for pos < len(input) && isDigit(input[pos]) {
			pos++
		}
		if pos == fracStart {
			return token{}, 0, syntaxError(start, "invalid decimal number")
		}
	}

	if pos < len(input) && (input[pos] == 'e' || input[pos] == 'E') {
		pos++
		if pos < len(input) && (input[pos] == '+' || input[pos] == '-') {
			pos++
		}
		expStart := pos
		for pos < len(input) && isDigit(input[pos]) {
			pos++
		}
		if pos == expStart {
			return token{}, 0, syntaxError(start, "invalid exponent")
		}
	}

	literal := input[start:pos]
	if _, err := strconv.ParseFloat(literal, 64); err != nil {
		return token{}, 0, syntaxError(start, "invalid number %q", literal)
	}

	return token{typ: tokenNumber, literal: literal, pos: start}, pos, nil
}

func lexString(input string, start int) (string, int, error) {
	quote := input[start]
	var b strings.Builder

	for pos := start + 1; pos < len(input); pos++ {
		ch := input[pos]
		if ch == quote {
			return b.String(), pos + 1, nil
		}

		if ch == '\\' {
			pos++
			if pos >= len(input) {
				return "", 0, syntaxError(start, "unterminated escape sequence")
			}
			switch escaped := input[pos]; escaped {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(escaped)
			}
			continue
		}

		if ch == '\n' || ch == '\r' {
			return "", 0, syntaxError(start, "unterminated string")
		}

		b.WriteByte(ch)
	}

	return "", 0, syntaxError(start, "unterminated string")
}
