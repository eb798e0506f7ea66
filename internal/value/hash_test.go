package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashDeterminism(t *testing.T) {
	a := NewObject(M("x", Int(1)), M("y", String("z")))
	b := NewObject(M("y", String("z")), M("x", Int(1)))

	ha, err := Hash(DomainQuery, a)
	require.NoError(t, err)
	hb, err := Hash(DomainQuery, b)
	require.NoError(t, err)

	assert.Equal(t, ha, hb, "key order must not change the hash")
	assert.Len(t, ha, 64, "SHA-256 hex is 64 characters")
}

func TestHashChangesWithInput(t *testing.T) {
	h1, err := Hash(DomainQuery, NewObject(M("x", Int(1))))
	require.NoError(t, err)
	h2, err := Hash(DomainQuery, NewObject(M("x", Int(2))))
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestHashDomainSeparation(t *testing.T) {
	data := []byte("same bytes")

	assert.NotEqual(t,
		HashWithDomain(DomainQuery, data),
		HashWithDomain(DomainResultSet, data),
	)
	// the separator keeps domain and data from sliding into each other
	assert.NotEqual(t,
		HashWithDomain("ab", []byte("c")),
		HashWithDomain("a", []byte("bc")),
	)
}

func TestHashInvalidValue(t *testing.T) {
	_, err := Hash(DomainQuery, Number("1.2.3"))
	assert.Error(t, err)
}
