package predicate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(tokens []token) []tokenType {
	out := make([]tokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.typ
	}
	return out
}

func TestLex(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tokenType
	}{
		{
			"comparison operators",
			"= == != < <= > >=",
			[]tokenType{tokenEqual, tokenEqual, tokenNotEqual, tokenLess, tokenLessEqual, tokenGreater, tokenGreaterEqual, tokenEOF},
		},
		{
			"keywords",
			"and OR Not is contains matches in exists true FALSE null undefined",
			[]tokenType{tokenAnd, tokenOr, tokenNot, tokenIs, tokenContains, tokenMatches, tokenIn, tokenExists, tokenTrue, tokenFalse, tokenNull, tokenUndefined, tokenEOF},
		},
		{
			"symbols",
			"&& || ! ( ) [ ] ,",
			[]tokenType{tokenAnd, tokenOr, tokenNot, tokenLParen, tokenRParen, tokenLBracket, tokenRBracket, tokenComma, tokenEOF},
		},
		{
			"operands",
			"req.sdk.version `$.a[0]` 'x' \"y\" -1.5e3",
			[]tokenType{tokenIdentifier, tokenField, tokenString, tokenString, tokenNumber, tokenEOF},
		},
		{
			"no spaces",
			"a>=3&&b!='x'",
			[]tokenType{tokenIdentifier, tokenGreaterEqual, tokenNumber, tokenAnd, tokenIdentifier, tokenNotEqual, tokenString, tokenEOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := lex(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tokenTypes(tokens))
		})
	}
}

func TestLexLiterals(t *testing.T) {
	tokens, err := lex("user-agent.name `$[\"a b\"]` 'it\\'s' -42")
	require.NoError(t, err)
	require.Len(t, tokens, 5)

	assert.Equal(t, "user-agent.name", tokens[0].literal)
	assert.Equal(t, `$["a b"]`, tokens[1].literal)
	assert.Equal(t, "it's", tokens[2].literal)
	assert.Equal(t, "-42", tokens[3].literal)
	assert.Equal(t, 0, tokens[0].pos)
}
