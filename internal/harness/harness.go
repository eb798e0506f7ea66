package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/logex/internal/path"
	"github.com/roach88/logex/internal/pipeline"
	"github.com/roach88/logex/internal/predicate"
	"github.com/roach88/logex/internal/store"
	"github.com/roach88/logex/internal/testutil"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expectation and assertion held.
	Pass bool `json:"pass"`

	// Records is the sorted, deduplicated output as read back from the ledger.
	Records []string `json:"records"`

	// Stats are the pipeline counters. Zero on error.
	Stats pipeline.Stats `json:"stats"`

	// ErrorClass is ErrorParse or ErrorDecode if the run failed.
	ErrorClass string `json:"error,omitempty"`

	// ErrorLine is the input line of a decode error.
	ErrorLine int `json:"error_line,omitempty"`

	// RunID is the ledger id of a successful run.
	RunID string `json:"run_id,omitempty"`

	// Errors contains validation error messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory ledger. Run ids come from a
// sequence seeded with the scenario name, so results are reproducible.
//
// The returned error is reserved for harness failures; a scenario whose
// expectations do not hold yields a Result with Pass false.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	result := NewResult()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests

	pred, specs, err := compileQuery(scenario)
	if err != nil {
		result.ErrorClass = ErrorParse
		return finish(scenario, result), nil
	}

	opts := pipeline.Options{
		Predicate: pred,
		Fields:    specs,
		Logger:    logger,
	}
	if scenario.Lines != nil {
		opts.Limit = *scenario.Lines
		opts.HasLimit = true
	}

	input := strings.NewReader(testutil.JoinLines(scenario.Input))
	out, err := pipeline.New(opts).Run(ctx, input)
	if err != nil {
		var decodeErr *pipeline.DecodeError
		if !errors.As(err, &decodeErr) {
			return nil, fmt.Errorf("run pipeline: %w", err)
		}
		result.ErrorClass = ErrorDecode
		result.ErrorLine = decodeErr.Line
		return finish(scenario, result), nil
	}
	result.Stats = out.Stats

	records, runID, err := roundTrip(ctx, scenario, out)
	if err != nil {
		return nil, err
	}
	result.Records = records
	result.RunID = runID

	if sorted := out.Set.Sorted(); !slices.Equal(sorted, records) {
		result.AddError(fmt.Sprintf("ledger returned %d records, pipeline produced %d", len(records), len(sorted)))
	}

	return finish(scenario, result), nil
}

func compileQuery(scenario *Scenario) (*predicate.Predicate, []path.Spec, error) {
	var pred *predicate.Predicate
	if scenario.Condition != "" {
		p, err := predicate.Compile(scenario.Condition)
		if err != nil {
			return nil, nil, err
		}
		pred = p
	}
	specs, err := path.CompileAll(scenario.Fields)
	if err != nil {
		return nil, nil, err
	}
	return pred, specs, nil
}

// roundTrip records the run in a fresh in-memory ledger and reads its result
// set back.
func roundTrip(ctx context.Context, scenario *Scenario, out *pipeline.Result) ([]string, string, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, "", fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ids := testutil.NewSequentialRunIDs(scenario.Name)
	run := store.Run{
		ID:           ids.Generate(),
		Input:        scenario.Name + ".ndjson",
		Condition:    scenario.Condition,
		Fields:       scenario.Fields,
		Limit:        scenario.Lines,
		Processed:    out.Stats.Processed,
		Kept:         out.Stats.Kept,
		Dropped:      out.Stats.Dropped,
		Unique:       out.Stats.Unique,
		LimitReached: out.Stats.LimitReached,
		ResultHash:   out.Set.Digest(),
	}
	if _, err := st.WriteRun(ctx, run, out.Set.Sorted()); err != nil {
		return nil, "", fmt.Errorf("record run: %w", err)
	}

	records, err := st.ReadResults(ctx, run.ID)
	if err != nil {
		return nil, "", fmt.Errorf("read run: %w", err)
	}
	stored, err := st.ReadRun(ctx, run.ID)
	if err != nil {
		return nil, "", fmt.Errorf("read run: %w", err)
	}
	if stored.ResultHash != run.ResultHash {
		return nil, "", fmt.Errorf("ledger result hash %s, want %s", stored.ResultHash, run.ResultHash)
	}
	return records, run.ID, nil
}

// finish checks expectations and assertions and returns result.
func finish(scenario *Scenario, result *Result) *Result {
	for _, msg := range checkExpectation(scenario.Expect, result) {
		result.AddError(msg)
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result
}

// checkExpectation compares the result with the pinned outcome.
func checkExpectation(exp *Expectation, result *Result) []string {
	if exp == nil {
		if result.ErrorClass != "" {
			return []string{fmt.Sprintf("unexpected %s error", result.ErrorClass)}
		}
		return nil
	}

	var errs []string
	if exp.Error != result.ErrorClass {
		errs = append(errs, fmt.Sprintf("error: expected %q, got %q", exp.Error, result.ErrorClass))
		return errs
	}
	if exp.Error == ErrorDecode && exp.ErrorLine != result.ErrorLine {
		errs = append(errs, fmt.Sprintf("error_line: expected %d, got %d", exp.ErrorLine, result.ErrorLine))
	}
	if exp.Error != "" {
		return errs
	}

	if exp.Records != nil && !slices.Equal(exp.Records, result.Records) {
		errs = append(errs, fmt.Sprintf("records: expected %q, got %q", exp.Records, result.Records))
	}

	if exp.Stats != nil {
		want := pipeline.Stats{
			Processed:    exp.Stats.Processed,
			Kept:         exp.Stats.Kept,
			Dropped:      exp.Stats.Dropped,
			Unique:       exp.Stats.Unique,
			LimitReached: exp.Stats.LimitReached,
		}
		if want != result.Stats {
			errs = append(errs, fmt.Sprintf("stats: expected %+v, got %+v", want, result.Stats))
		}
	}
	return errs
}
