package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteLog writes lines as a newline-terminated log file in a fresh temp
// directory and returns its path.
func WriteLog(t testing.TB, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.log")
	WriteFile(t, path, JoinLines(lines))
	return path
}

// WriteFile writes content to path, failing the test on error.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ReadLines returns the newline-terminated lines of the file at path.
func ReadLines(t testing.TB, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return SplitLines(string(data))
}

// JoinLines terminates every line with "\n".
func JoinLines(lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

// SplitLines is the inverse of JoinLines. Empty input yields nil.
func SplitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
