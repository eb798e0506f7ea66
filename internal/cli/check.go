package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/logex/internal/config"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Condition string
	Fields    string
	Config    string
}

// FieldInfo describes one compiled field specifier.
type FieldInfo struct {
	Spec string `json:"spec"`
	Kind string `json:"kind"`
}

// CheckResult holds the outcome of compiling a query.
type CheckResult struct {
	Valid     bool        `json:"valid"`
	Condition string      `json:"condition,omitempty"`
	Reads     []string    `json:"reads,omitempty"` // fields the condition reads
	Fields    []FieldInfo `json:"fields,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compile a condition and fields without reading input",
		Long: `Check that a condition and a field list compile.

Reports the fields the condition reads and how each export field will be
resolved. No input is read.

Examples:
  logex check -c 'level == "error" and not exists user.admin'
  logex check -f 'ts,user.id,jsonpath:$.tags[0],"prod"' --format json
  logex check --config profiles/errors.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Condition, "condition", "c", "", "condition to compile")
	cmd.Flags().StringVarP(&opts.Fields, "fields", "f", "", "comma-separated fields to compile")
	cmd.Flags().StringVar(&opts.Config, "config", "", "profile file (.yaml, .yml or .cue)")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *CheckOptions) error {
	formatter := newFormatter(opts.RootOptions, cmd)

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
	}

	var ov config.Overrides
	if cmd.Flags().Changed("condition") {
		ov.Condition = &opts.Condition
	}
	if cmd.Flags().Changed("fields") {
		ov.Fields = &opts.Fields
	}
	q := config.Merge(profile, ov)

	pred, specs, err := compileQuery(q.Condition, q.Fields)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeParse, "invalid query", err, nil)
	}

	result := CheckResult{Valid: true, Condition: q.Condition}
	if pred != nil {
		result.Reads = pred.Fields()
	}
	for _, s := range specs {
		result.Fields = append(result.Fields, FieldInfo{Spec: s.String(), Kind: s.Kind().String()})
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	if pred != nil {
		fmt.Fprintf(w, "✓ condition: %s\n", pred)
		for _, f := range result.Reads {
			fmt.Fprintf(w, "    reads %s\n", f)
		}
	}
	for _, f := range result.Fields {
		fmt.Fprintf(w, "✓ field %s (%s)\n", f.Spec, f.Kind)
	}
	if pred == nil && len(specs) == 0 {
		fmt.Fprintln(w, "✓ nothing to check: every record is kept unmodified")
	}
	return nil
}

