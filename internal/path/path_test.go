package path

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/logex/internal/value"
)

func mustRecord(t *testing.T, line string) *value.Object {
	t.Helper()
	rec, err := value.DecodeLine([]byte(line))
	require.NoError(t, err)
	return rec
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		spec   string
		want   string
		wantOK bool
	}{
		{`"lit"`, "lit", true},
		{`'lit'`, "lit", true},
		{`""`, "", true},
		{`"a.b"`, "a.b", true},
		{`"it's"`, "it's", true},
		{`"`, "", false},
		{`'mixed"`, "", false},
		{`lit`, "", false},
		{`xx`, "", false},
		{``, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, ok := Literal(tt.spec)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveLiteralIgnoresRecord(t *testing.T) {
	records := []string{
		`{}`,
		`{"lit":"shadow"}`,
		`{"\"lit\"":"quoted key"}`,
	}

	for _, line := range records {
		got, ok := Resolve(mustRecord(t, line), `"lit"`)
		require.True(t, ok)
		assert.Equal(t, value.String("lit"), got, line)
	}
}

func TestResolveTopLevelKey(t *testing.T) {
	rec := mustRecord(t, `{"level":"info","n":3,"obj":{"x":1}}`)

	got, ok := Resolve(rec, "level")
	require.True(t, ok)
	assert.Equal(t, value.String("info"), got)

	got, ok = Resolve(rec, "obj")
	require.True(t, ok)
	assert.IsType(t, &value.Object{}, got)

	_, ok = Resolve(rec, "missing")
	assert.False(t, ok)
}

func TestResolveWholeKeyBeatsDottedPath(t *testing.T) {
	rec := mustRecord(t, `{"a.b":"flat","a":{"b":"nested"}}`)

	got, ok := Resolve(rec, "a.b")
	require.True(t, ok)
	assert.Equal(t, value.String("flat"), got)
}

func TestResolveDottedPath(t *testing.T) {
	rec := mustRecord(t, `{"req":{"sdk":{"version":"1.0","tags":[1,2]},"nil":null}}`)

	tests := []struct {
		spec   string
		want   value.Value
		wantOK bool
	}{
		{"req.sdk.version", value.String("1.0"), true},
		{"req.sdk.tags", value.Array{value.Number("1"), value.Number("2")}, true},
		{"req.nil", value.Null{}, true},
		{"req.sdk.missing", nil, false},
		{"req.sdk.version.deeper", nil, false},
		{"req.sdk.tags.0", nil, false},
		{"req.nil.x", nil, false},
		{"nope.sdk", nil, false},
		{"req.", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, ok := Resolve(rec, tt.spec)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, value.Equal(tt.want, got), "got %#v", got)
			}
		})
	}
}

func TestResolveMissingRootIsAbsent(t *testing.T) {
	for _, line := range []string{`{}`, `{"b":1}`, `{"x":{"a":{"b":1}}}`} {
		_, ok := Resolve(mustRecord(t, line), "a.b")
		assert.False(t, ok, line)
	}
}

func TestResolveJSONPath(t *testing.T) {
	rec := mustRecord(t, `{"items":[{"id":"a"},{"id":"b"}],"meta":{"count":2}}`)

	got, ok := Resolve(rec, "jsonpath:$.items[0].id")
	require.True(t, ok)
	assert.Equal(t, value.String("a"), got)

	got, ok = Resolve(rec, "jsonpath:$.items[*].id")
	require.True(t, ok)
	assert.Equal(t, value.Array{value.String("a"), value.String("b")}, got)

	got, ok = Resolve(rec, "jsonpath:$.meta.count")
	require.True(t, ok)
	assert.Equal(t, value.Number("2"), got)

	_, ok = Resolve(rec, "jsonpath:$.items[5].id")
	assert.False(t, ok)
}

func TestResolveJSONPathWholeKeyWins(t *testing.T) {
	rec := mustRecord(t, `{"jsonpath:$.meta":"flat","meta":"nested"}`)

	got, ok := Resolve(rec, "jsonpath:$.meta")
	require.True(t, ok)
	assert.Equal(t, value.String("flat"), got)
}

func TestResolveJSONPathDottedWalkWins(t *testing.T) {
	rec := mustRecord(t, `{"jsonpath:$":{"meta":"walked"},"meta":"selected"}`)

	got, ok := Resolve(rec, "jsonpath:$.meta")
	require.True(t, ok)
	assert.Equal(t, value.String("walked"), got)
}

func TestResolveDollarPathIsDotted(t *testing.T) {
	got, ok := Resolve(mustRecord(t, `{"$":{"x":1}}`), "$.x")
	require.True(t, ok)
	assert.Equal(t, value.Number("1"), got)

	_, ok = Resolve(mustRecord(t, `{"x":1}`), "$.x")
	assert.False(t, ok)

	_, ok = Resolve(mustRecord(t, `{"a":[1]}`), "$[0]")
	assert.False(t, ok)
}

func TestCompile(t *testing.T) {
	tests := []struct {
		spec string
		kind Kind
	}{
		{`"x"`, KindLiteral},
		{`level`, KindKey},
		{`$price`, KindKey},
		{`a.b.c`, KindDotted},
		{`$.a.b`, KindDotted},
		{`$[0]`, KindKey},
		{`jsonpath:$.a.b`, KindJSONPath},
		{`jsonpath:$["a b"]`, KindJSONPath},
		{`'jsonpath:$.a'`, KindLiteral},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			s, err := Compile(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, s.Kind())
			assert.Equal(t, tt.spec, s.String())
		})
	}
}

func TestCompileInvalidJSONPath(t *testing.T) {
	_, err := Compile("jsonpath:$.items[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSONPath")

	_, ok := Resolve(mustRecord(t, `{"items":[]}`), "jsonpath:$.items[")
	assert.False(t, ok)

	got, ok := Resolve(mustRecord(t, `{"jsonpath:$":{"items[":1}}`), "jsonpath:$.items[")
	require.True(t, ok)
	assert.Equal(t, value.Number("1"), got)
}

func TestCompileAllPreservesOrder(t *testing.T) {
	specs, err := CompileAll([]string{"b", "a", `"lit"`})
	require.NoError(t, err)
	require.Len(t, specs, 3)
	assert.Equal(t, "b", specs[0].String())
	assert.Equal(t, "a", specs[1].String())
	assert.Equal(t, `"lit"`, specs[2].String())

	_, err = CompileAll([]string{"ok", "jsonpath:$["})
	assert.Error(t, err)
}

func TestMustCompilePanics(t *testing.T) {
	assert.Panics(t, func() { MustCompile("jsonpath:$[") })
	assert.NotPanics(t, func() { MustCompile("a.b") })
}
