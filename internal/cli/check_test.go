package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/logex/internal/testutil"
)

func TestCheck_Text(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"-c", `level == "error" and user.id > 3`, "-f", `ts,"prod"`})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, `✓ condition: level == "error" and user.id > 3`)
	assert.Contains(t, output, "reads level")
	assert.Contains(t, output, "reads user.id")
	assert.Contains(t, output, "✓ field ts (key)")
	assert.Contains(t, output, `✓ field "prod" (literal)`)
}

func TestCheck_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"-c", "a > 1 or a < 0", "-f", "a,b.c,jsonpath:$.tags[0]"})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string      `json:"status"`
		Data   CheckResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, []string{"a"}, resp.Data.Reads)
	assert.Equal(t, []FieldInfo{
		{Spec: "a", Kind: "key"},
		{Spec: "b.c", Kind: "dotted"},
		{Spec: "jsonpath:$.tags[0]", Kind: "jsonpath"},
	}, resp.Data.Fields)
}

func TestCheck_Nothing(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "nothing to check")
}

func TestCheck_InvalidCondition(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "text"})
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{"-c", "a = = 1"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeParse)
	assert.Contains(t, errOut.String(), "invalid expression")
	assert.Empty(t, out.String())
}

func TestCheck_FromProfile(t *testing.T) {
	profile := filepath.Join(t.TempDir(), "p.cue")
	testutil.WriteFile(t, profile, `condition: "status >= 500"`+"\n"+`fields: ["path"]`+"\n")

	buf := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--config", profile})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "✓ condition: status >= 500")
	assert.Contains(t, buf.String(), "✓ field path (key)")
}
