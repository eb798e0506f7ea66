package config

import (
	"fmt"
	"os"

	"github.com/roach88/logex/internal/value"
)

// Options is the merged configuration for one extraction run.
type Options struct {
	Input     string
	Lines     int
	HasLines  bool
	Output    string
	Condition string
	Fields    []string
	DB        string
}

// Overrides holds values given explicitly on the command line.
// A nil field was not given.
type Overrides struct {
	Input     *string
	Lines     *int
	Output    *string
	Condition *string
	Fields    *string
	DB        *string
}

// Merge combines a profile (may be nil) with command-line overrides.
func Merge(p *Profile, o Overrides) Options {
	var opts Options
	if p != nil {
		opts.Input = p.Input
		if p.Lines != nil {
			opts.Lines = *p.Lines
			opts.HasLines = true
		}
		opts.Output = p.Output
		opts.Condition = p.Condition
		if len(p.Fields) > 0 {
			opts.Fields = append([]string(nil), p.Fields...)
		}
		opts.DB = p.DB
	}

	if o.Input != nil {
		opts.Input = *o.Input
	}
	if o.Lines != nil {
		opts.Lines = *o.Lines
		opts.HasLines = true
	}
	if o.Output != nil {
		opts.Output = *o.Output
	}
	if o.Condition != nil {
		opts.Condition = *o.Condition
	}
	if o.Fields != nil {
		opts.Fields = SplitFields(*o.Fields)
	}
	if o.DB != nil {
		opts.DB = *o.DB
	}
	return opts
}

// Validate checks the options that must hold before any input is read.
func (o Options) Validate() error {
	if o.Input == "" {
		return ErrInputRequired
	}
	if o.HasLines && o.Lines < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativeLines, o.Lines)
	}

	info, err := os.Stat(o.Input)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrInputNotFound, o.Input)
	}
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s", ErrInputIsDir, o.Input)
	}
	return nil
}

// QueryHash identifies the query these options run: the condition, the
// field list and the line budget. Input and output paths do not take part,
// so the same query over different files hashes the same.
func (o Options) QueryHash() (string, error) {
	fields := make(value.Array, 0, len(o.Fields))
	for _, f := range o.Fields {
		fields = append(fields, value.String(f))
	}
	var lines value.Value = value.Null{}
	if o.HasLines {
		lines = value.Int(int64(o.Lines))
	}
	return value.Hash(value.DomainQuery, value.NewObject(
		value.M("condition", value.String(o.Condition)),
		value.M("fields", fields),
		value.M("lines", lines),
	))
}
