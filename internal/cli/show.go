package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/logex/internal/predicate"
	"github.com/roach88/logex/internal/store"
	"github.com/roach88/logex/internal/value"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database  string
	Condition string
}

// ShowResult holds a recorded run and its (possibly re-filtered) records.
type ShowResult struct {
	Run     store.Run `json:"run"`
	Records []string  `json:"records"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "Print the records of a recorded run",
		Long: `Print the sorted unique records stored for a run.

Without a run id the most recent run is shown. A condition re-filters the
stored records; the output order is unchanged.

Examples:
  logex show --db runs.db
  logex show --db runs.db 0192f0c4-7e1a-7d4e-9a43-3c1f0e6b2a10
  logex show --db runs.db -c 'user.id == 42'`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var id string
			if len(args) == 1 {
				id = args[0]
			}
			return runShow(cmd, opts, id)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite ledger (required)")
	cmd.Flags().StringVarP(&opts.Condition, "condition", "c", "", "keep only stored records matching this condition")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runShow(cmd *cobra.Command, opts *ShowOptions, id string) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	var pred *predicate.Predicate
	if opts.Condition != "" {
		p, err := predicate.Compile(opts.Condition)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeParse, "invalid condition", err, nil)
		}
		pred = p
	}

	st, err := openLedger(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ledgerErrCode(err), "failed to open ledger", err, nil)
	}
	defer closeLedger(st)

	ctx := cmd.Context()
	var run store.Run
	if id == "" {
		run, err = st.LatestRun(ctx)
	} else {
		run, err = st.ReadRun(ctx, id)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ledgerErrCode(err), "failed to read run", err, nil)
	}

	records, err := st.ReadResults(ctx, run.ID)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to read results", err, nil)
	}

	if pred != nil {
		records, err = filterRecords(records, pred)
		if err != nil {
			return formatter.Fail(ExitFailure, ErrCodeDecode, "stored record is not a JSON object", err, nil)
		}
	}

	if opts.Format == "json" {
		if records == nil {
			records = []string{}
		}
		return formatter.Success(ShowResult{Run: run, Records: records})
	}

	for _, r := range records {
		fmt.Fprintln(formatter.Writer, r)
	}
	return nil
}

// filterRecords keeps the stored lines that satisfy pred, in order.
func filterRecords(records []string, pred *predicate.Predicate) ([]string, error) {
	var kept []string
	for i, line := range records {
		obj, err := value.DecodeLine([]byte(line))
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		if pred.Evaluate(obj) {
			kept = append(kept, line)
		}
	}
	return kept, nil
}

// ledgerErrCode maps ledger lookup failures to error codes.
func ledgerErrCode(err error) string {
	if errors.Is(err, errLedgerNotFound) || errors.Is(err, store.ErrRunNotFound) {
		return ErrCodeNotFound
	}
	return ErrCodeGeneric
}
