package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/logex/internal/config"
	"github.com/roach88/logex/internal/path"
	"github.com/roach88/logex/internal/pipeline"
	"github.com/roach88/logex/internal/predicate"
	"github.com/roach88/logex/internal/sink"
	"github.com/roach88/logex/internal/store"
	"github.com/roach88/logex/internal/value"
)

// ExtractOptions holds flags for an extraction run.
type ExtractOptions struct {
	*RootOptions
	Input     string
	Lines     int
	Output    string
	Condition string
	Fields    string
	Config    string
	Database  string
	Quiet     bool

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to store.UUIDv7Generator.
	RunIDs store.RunIDGenerator
}

// ExtractResult is the JSON summary of an extraction run.
type ExtractResult struct {
	Input  string `json:"input"`
	Output string `json:"output,omitempty"`
	RunID  string `json:"run_id,omitempty"`
	pipeline.Stats
}

func newExtractCommand(rootOpts *RootOptions, runIDs store.RunIDGenerator) *cobra.Command {
	opts := &ExtractOptions{RootOptions: rootOpts, RunIDs: runIDs}

	cmd := &cobra.Command{
		Use:   "logex",
		Short: "Extract, filter and deduplicate JSON log records",
		Long: `Extract records from a newline-delimited JSON log.

Each line is decoded as a JSON object, kept if it satisfies the condition,
projected onto the requested fields and deduplicated. The unique records are
written to the output file in sorted order. Kept records are also printed to
stdout as they are found.

Fields are comma-separated. A field is a key, a dotted path into nested
objects (user.id), a JSONPath expression (jsonpath:$.tags[0]) or a quoted literal
('prod') that yields its own text.

Examples:
  logex -i app.log -c 'level == "error"' -f ts,user.id,msg -o errors.log
  logex -i app.log -l 1000 -c 'status >= 500 and path matches "^/api"' -q -o 5xx.log
  logex --config profiles/errors.yaml --db runs.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "input log file (required unless set by --config)")
	cmd.Flags().IntVarP(&opts.Lines, "lines", "l", 0, "process at most this many lines")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write sorted unique records to this file")
	cmd.Flags().StringVarP(&opts.Condition, "condition", "c", "", "keep only records matching this condition")
	cmd.Flags().StringVarP(&opts.Fields, "fields", "f", "", "comma-separated fields to export")
	cmd.Flags().StringVar(&opts.Config, "config", "", "profile file (.yaml, .yml or .cue)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite ledger")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "do not print kept records")

	return cmd
}

// overrides collects the flags the user set explicitly.
func (o *ExtractOptions) overrides(cmd *cobra.Command) config.Overrides {
	var ov config.Overrides
	flags := cmd.Flags()
	if flags.Changed("input") {
		ov.Input = &o.Input
	}
	if flags.Changed("lines") {
		ov.Lines = &o.Lines
	}
	if flags.Changed("output") {
		ov.Output = &o.Output
	}
	if flags.Changed("condition") {
		ov.Condition = &o.Condition
	}
	if flags.Changed("fields") {
		ov.Fields = &o.Fields
	}
	if flags.Changed("db") {
		ov.DB = &o.Database
	}
	return ov
}

func runExtract(cmd *cobra.Command, opts *ExtractOptions) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	var profile *config.Profile
	if opts.Config != "" {
		p, err := config.Load(opts.Config)
		if err != nil {
			code := ErrCodeInvalid
			if errors.Is(err, os.ErrNotExist) {
				code = ErrCodeNotFound
			}
			return formatter.Fail(ExitCommandError, code, "failed to load profile", err, nil)
		}
		profile = p
		logger.Debug("profile loaded", "path", opts.Config)
	}

	run := config.Merge(profile, opts.overrides(cmd))
	if err := run.Validate(); err != nil {
		code := ErrCodeInvalid
		if errors.Is(err, config.ErrInputNotFound) {
			code = ErrCodeNotFound
		}
		return formatter.Fail(ExitCommandError, code, "invalid options", err, nil)
	}

	pred, specs, err := compileQuery(run.Condition, run.Fields)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeParse, "invalid query", err, nil)
	}

	in, err := os.Open(run.Input)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, "failed to open input", err, nil)
	}
	defer in.Close()

	pipeOpts := pipeline.Options{
		Predicate: pred,
		Fields:    specs,
		Limit:     run.Lines,
		HasLimit:  run.HasLines,
		Logger:    logger,
	}
	if opts.Format == "text" && !opts.Quiet {
		pipeOpts.OnRecord = echoRecord(cmd.OutOrStdout(), logger)
	}

	limit := "all"
	if run.HasLines {
		limit = fmt.Sprint(run.Lines)
	}
	logger.Info("reading input", "path", run.Input, "lines", limit)

	result, err := pipeline.New(pipeOpts).Run(cmd.Context(), in)
	if err != nil {
		var decodeErr *pipeline.DecodeError
		switch {
		case errors.As(err, &decodeErr):
			return formatter.Fail(ExitFailure, ErrCodeDecode, "failed to decode input", err,
				map[string]any{"line": decodeErr.Line})
		case errors.Is(err, context.Canceled):
			return formatter.Fail(ExitFailure, ErrCodeGeneric, "interrupted", err, nil)
		default:
			return formatter.Fail(ExitFailure, ErrCodeGeneric, "failed to read input", err, nil)
		}
	}

	if err := sink.Export(run.Output, result.Set); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to write output", err, nil)
	}

	summary := ExtractResult{
		Input:  run.Input,
		Output: run.Output,
		Stats:  result.Stats,
	}

	if run.DB != "" {
		runID, err := recordRun(cmd.Context(), opts, run, result)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to record run", err, nil)
		}
		summary.RunID = runID
		logger.Debug("run recorded", "db", run.DB, "run_id", runID)
	}

	logger.Info("extraction complete",
		"processed", result.Stats.Processed,
		"kept", result.Stats.Kept,
		"dropped", result.Stats.Dropped,
		"unique", result.Stats.Unique,
		"output", run.Output,
	)

	if opts.Format == "json" {
		return formatter.Success(summary)
	}
	return nil
}

// compileQuery compiles the condition and field specifiers.
// An empty condition yields a nil predicate.
func compileQuery(condition string, fields []string) (*predicate.Predicate, []path.Spec, error) {
	var pred *predicate.Predicate
	if condition != "" {
		p, err := predicate.Compile(condition)
		if err != nil {
			return nil, nil, fmt.Errorf("condition: %w", err)
		}
		pred = p
	}

	specs, err := path.CompileAll(fields)
	if err != nil {
		return nil, nil, fmt.Errorf("fields: %w", err)
	}
	return pred, specs, nil
}

// echoRecord prints each kept record in canonical form as it is found.
func echoRecord(w io.Writer, logger *slog.Logger) func(int, *value.Object) {
	return func(line int, record *value.Object) {
		text, err := value.Canonical(record)
		if err != nil {
			logger.Warn("cannot display record", "line", line, "error", err)
			return
		}
		fmt.Fprintln(w, text)
	}
}

func recordRun(ctx context.Context, opts *ExtractOptions, run config.Options, result *pipeline.Result) (string, error) {
	st, err := store.Open(run.DB)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	gen := opts.RunIDs
	if gen == nil {
		gen = store.UUIDv7Generator{}
	}

	rec := store.Run{
		ID:           gen.Generate(),
		Input:        run.Input,
		Condition:    run.Condition,
		Fields:       run.Fields,
		Output:       run.Output,
		Processed:    result.Stats.Processed,
		Kept:         result.Stats.Kept,
		Dropped:      result.Stats.Dropped,
		Unique:       result.Stats.Unique,
		LimitReached: result.Stats.LimitReached,
	}
	if run.HasLines {
		limit := run.Lines
		rec.Limit = &limit
	}

	queryHash, err := run.QueryHash()
	if err != nil {
		return "", err
	}
	rec.QueryHash = queryHash
	rec.ResultHash = result.Set.Digest()

	if _, err := st.WriteRun(ctx, rec, result.Set.Sorted()); err != nil {
		return "", err
	}
	return rec.ID, nil
}
