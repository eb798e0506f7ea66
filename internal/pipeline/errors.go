package pipeline

import "fmt"

// maxQuotedLine bounds how much of a bad line appears in error messages.
const maxQuotedLine = 120

// DecodeError reports a line that is not a JSON object.
type DecodeError struct {
	Line int    // 1-based line number
	Text string // The offending line
	Err  error  // Underlying decode error
}

func (e *DecodeError) Error() string {
	text := e.Text
	if len(text) > maxQuotedLine {
		text = text[:maxQuotedLine] + "..."
	}
	return fmt.Sprintf("line %d: malformed JSON record %q: %v", e.Line, text, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
