package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestMerge_FlagsOverrideProfile(t *testing.T) {
	p := &Profile{
		Input:     "profile.log",
		Lines:     ptr(5),
		Output:    "profile.out",
		Condition: "a > 1",
		Fields:    []string{"a"},
		DB:        "profile.db",
	}

	opts := Merge(p, Overrides{
		Input:  ptr("flag.log"),
		Fields: ptr("b,c"),
	})

	assert.Equal(t, Options{
		Input:     "flag.log",
		Lines:     5,
		HasLines:  true,
		Output:    "profile.out",
		Condition: "a > 1",
		Fields:    []string{"b", "c"},
		DB:        "profile.db",
	}, opts)
}

func TestMerge_NoProfile(t *testing.T) {
	opts := Merge(nil, Overrides{Input: ptr("in.log")})

	assert.Equal(t, "in.log", opts.Input)
	assert.False(t, opts.HasLines)
	assert.Nil(t, opts.Fields)
}

func TestMerge_EmptyFieldsFlagClearsProfile(t *testing.T) {
	p := &Profile{Fields: []string{"a"}}

	opts := Merge(p, Overrides{Fields: ptr("")})
	assert.Nil(t, opts.Fields)
}

func TestMerge_ZeroLinesFlag(t *testing.T) {
	opts := Merge(&Profile{Lines: ptr(9)}, Overrides{Lines: ptr(0)})

	assert.True(t, opts.HasLines)
	assert.Equal(t, 0, opts.Lines)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(file, []byte("{}\n"), 0o644))

	tests := []struct {
		name string
		opts Options
		want error
	}{
		{"ok", Options{Input: file}, nil},
		{"ok with zero lines", Options{Input: file, HasLines: true}, nil},
		{"missing input", Options{}, ErrInputRequired},
		{"not found", Options{Input: filepath.Join(dir, "nope.log")}, ErrInputNotFound},
		{"directory", Options{Input: dir}, ErrInputIsDir},
		{"negative lines", Options{Input: file, Lines: -1, HasLines: true}, ErrNegativeLines},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestQueryHash(t *testing.T) {
	base := Options{Input: "a.log", Condition: "a == 1", Fields: []string{"x", "y"}}

	h1, err := base.QueryHash()
	require.NoError(t, err)
	assert.Len(t, h1, 64)

	other := base
	other.Input = "b.log"
	other.Output = "out.log"
	h2, err := other.QueryHash()
	require.NoError(t, err)
	assert.Equal(t, h1, h2, "paths do not affect the query hash")

	reordered := base
	reordered.Fields = []string{"y", "x"}
	h3, err := reordered.QueryHash()
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3, "field order is part of the query")

	budget := base
	budget.Lines, budget.HasLines = 0, true
	h4, err := budget.QueryHash()
	require.NoError(t, err)
	assert.NotEqual(t, h1, h4, "a zero budget differs from no budget")
}
