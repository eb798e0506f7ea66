package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/roach88/logex/internal/path"
	"github.com/roach88/logex/internal/predicate"
	"github.com/roach88/logex/internal/value"
)

// MaxLineSize is the longest input line accepted.
const MaxLineSize = 64 << 20

// Outcome is the terminal state of one input line.
type Outcome int

const (
	OutcomeKept Outcome = iota
	OutcomeDropped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeKept:
		return "kept"
	case OutcomeDropped:
		return "dropped"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Options configures a Pipeline.
type Options struct {
	// Predicate filters records. Nil keeps every record.
	Predicate *predicate.Predicate

	// Fields lists the projected specifiers in output order.
	// Empty keeps records unmodified.
	Fields []path.Spec

	// Limit is the line budget, honored only when HasLimit is set.
	// A budget of 0 processes no lines.
	Limit    int
	HasLimit bool

	// OnRecord observes each kept record, projected, before it is added
	// to the result set. Used for immediate display.
	OnRecord func(line int, record *value.Object)

	// Logger receives per-line debug events. Defaults to slog.Default().
	Logger *slog.Logger
}

// Stats counts what happened during a run.
type Stats struct {
	Processed    int  `json:"processed"`
	Kept         int  `json:"kept"`
	Dropped      int  `json:"dropped"`
	Unique       int  `json:"unique"`
	LimitReached bool `json:"limit_reached"`
}

// Result is the outcome of a successful run. The caller owns Set.
type Result struct {
	Set   *ResultSet
	Stats Stats
}

// Pipeline is a configured extraction pass. It holds no per-run state, so
// one Pipeline can Run any number of inputs.
type Pipeline struct {
	opts   Options
	logger *slog.Logger
}

// New creates a Pipeline.
func New(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{opts: opts, logger: logger}
}

// Run reads r line by line until EOF, the budget is spent, or ctx is done.
// Input may start with a byte order mark; UTF-16 input marked by a BOM is
// transcoded to UTF-8.
func (p *Pipeline) Run(ctx context.Context, r io.Reader) (*Result, error) {
	set := NewResultSet()
	var stats Stats

	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	remaining := p.opts.Limit
	if p.opts.HasLimit && remaining <= 0 {
		stats.LimitReached = hasMore(scanner)
		return &Result{Set: set, Stats: stats}, nil
	}

	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lineNo++

		outcome, err := p.Step(lineNo, scanner.Bytes(), set)
		if err != nil {
			return nil, err
		}

		stats.Processed++
		switch outcome {
		case OutcomeKept:
			stats.Kept++
		case OutcomeDropped:
			stats.Dropped++
		}

		if p.opts.HasLimit {
			remaining--
			if remaining == 0 {
				stats.LimitReached = hasMore(scanner)
				p.logger.Debug("line budget spent", "limit", p.opts.Limit, "line", lineNo,
					"input_left", stats.LimitReached)
				stats.Unique = set.Len()
				return &Result{Set: set, Stats: stats}, nil
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input after line %d: %w", lineNo, err)
	}

	stats.Unique = set.Len()
	return &Result{Set: set, Stats: stats}, nil
}

// hasMore reports whether scanner holds another line. The line is not
// decoded; a read error also counts as more input.
func hasMore(scanner *bufio.Scanner) bool {
	if scanner.Scan() {
		return true
	}
	return scanner.Err() != nil
}

// Step processes one raw line into set and reports its outcome.
// lineNo is only used for errors, logging and the OnRecord callback.
func (p *Pipeline) Step(lineNo int, raw []byte, set *ResultSet) (Outcome, error) {
	record, err := value.DecodeLine(raw)
	if err != nil {
		return 0, &DecodeError{Line: lineNo, Text: string(raw), Err: err}
	}

	if p.opts.Predicate != nil && !p.opts.Predicate.Evaluate(record) {
		p.logger.Debug("line dropped", "line", lineNo)
		return OutcomeDropped, nil
	}

	out := Project(record, p.opts.Fields)
	if p.opts.OnRecord != nil {
		p.opts.OnRecord(lineNo, out)
	}

	canonical, err := value.Canonical(out)
	if err != nil {
		return 0, fmt.Errorf("line %d: serialize record: %w", lineNo, err)
	}
	added := set.Add(canonical)
	p.logger.Debug("line kept", "line", lineNo, "duplicate", !added)

	return OutcomeKept, nil
}

// Project builds the output record for fields. With no fields the record
// passes through unchanged. A specifier that resolves to nothing maps to
// null so every requested key is present.
func Project(record *value.Object, fields []path.Spec) *value.Object {
	if len(fields) == 0 {
		return record
	}

	members := make([]value.Member, 0, len(fields))
	for _, f := range fields {
		v, ok := f.Resolve(record)
		if !ok {
			v = value.Null{}
		}
		members = append(members, value.M(f.String(), v))
	}
	return value.NewObject(members...)
}
