package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/logex/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database  string
	SameQuery string
}

// HistoryResult holds the recorded runs.
type HistoryResult struct {
	Runs []store.Run `json:"runs"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded extraction runs",
		Long: `List the runs recorded in a ledger by 'logex --db', oldest first.

With --same-query, only runs of the same condition, fields and line budget
as the named run are listed.

Examples:
  logex history --db runs.db
  logex history --db runs.db --same-query 0192f5a4-...
  logex history --db runs.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite ledger (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.SameQuery, "same-query", "", "list only runs sharing this run's query")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := openLedger(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ledgerErrCode(err), "failed to open ledger", err, nil)
	}
	defer closeLedger(st)

	runs, err := listRuns(cmd, st, opts.SameQuery)
	if err != nil {
		return formatter.Fail(ExitCommandError, ledgerErrCode(err), "failed to list runs", err, nil)
	}

	if opts.Format == "json" {
		if runs == nil {
			runs = []store.Run{}
		}
		return formatter.Success(HistoryResult{Runs: runs})
	}

	w := formatter.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%d  %s  %s  processed=%d kept=%d unique=%d",
			r.Seq, r.ID, r.Input, r.Processed, r.Kept, r.Unique)
		if r.Condition != "" {
			fmt.Fprintf(w, "  condition=%q", r.Condition)
		}
		if len(r.Fields) > 0 {
			fmt.Fprintf(w, "  fields=%s", strings.Join(r.Fields, ","))
		}
		if r.ResultHash != "" {
			fmt.Fprintf(w, "  result=%s", shortHash(r.ResultHash))
		}
		fmt.Fprintln(w)
	}
	return nil
}

// listRuns lists every run, or only those sharing sameQuery's query hash.
func listRuns(cmd *cobra.Command, st *store.Store, sameQuery string) ([]store.Run, error) {
	ctx := cmd.Context()
	if sameQuery == "" {
		return st.ListRuns(ctx)
	}
	ref, err := st.ReadRun(ctx, sameQuery)
	if err != nil {
		return nil, err
	}
	return st.ListRunsByQuery(ctx, ref.QueryHash)
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

// errLedgerNotFound is returned by openLedger for a missing database file.
var errLedgerNotFound = errors.New("ledger not found")

// openLedger opens an existing ledger. Unlike store.Open it never creates one.
func openLedger(path string) (*store.Store, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", errLedgerNotFound, path)
	}
	return store.Open(path)
}

func closeLedger(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}
