// Package config loads extraction profiles and merges them with command-line
// flags into the Options for a single run.
//
// Profiles are YAML or CUE files checked against an embedded CUE schema.
// Precedence is flags, then profile, then defaults.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed profile.cue
var schemaSource string

// Startup validation failures.
var (
	ErrInputRequired   = errors.New("input file is required")
	ErrInputNotFound   = errors.New("input file not found")
	ErrInputIsDir      = errors.New("input path is a directory")
	ErrNegativeLines   = errors.New("line limit must be >= 0")
	ErrUnsupportedType = errors.New("unsupported profile type")
)

// Profile is a stored set of run options.
type Profile struct {
	Input     string   `json:"input,omitempty"`
	Lines     *int     `json:"lines,omitempty"`
	Output    string   `json:"output,omitempty"`
	Condition string   `json:"condition,omitempty"`
	Fields    []string `json:"fields,omitempty"`
	DB        string   `json:"db,omitempty"`
}

// ProfileError reports a profile that could not be read or failed the schema.
type ProfileError struct {
	Path string
	Err  error
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("profile %s: %v", e.Path, e.Err)
}

func (e *ProfileError) Unwrap() error {
	return e.Err
}

// Load reads the profile at path. The extension selects the format:
// .yaml and .yml are YAML, .cue is CUE.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ProfileError{Path: path, Err: err}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("profile.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile profile schema: %w", err)
	}

	var doc cue.Value
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, &ProfileError{Path: path, Err: err}
		}
		if raw == nil {
			raw = map[string]any{}
		}
		doc = ctx.Encode(raw)
	case ".cue":
		doc = ctx.CompileBytes(data, cue.Filename(path))
	default:
		return nil, &ProfileError{Path: path, Err: fmt.Errorf("%w %q", ErrUnsupportedType, ext)}
	}
	if err := doc.Err(); err != nil {
		return nil, &ProfileError{Path: path, Err: flattenCUE(err)}
	}

	v := schema.FillPath(cue.ParsePath("profile"), doc).LookupPath(cue.ParsePath("profile"))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, &ProfileError{Path: path, Err: flattenCUE(err)}
	}

	var p Profile
	if err := v.Decode(&p); err != nil {
		return nil, &ProfileError{Path: path, Err: flattenCUE(err)}
	}
	return &p, nil
}

// flattenCUE joins all errors in a CUE error list into one line.
func flattenCUE(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) <= 1 {
		return err
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return errors.New(strings.Join(msgs, "; "))
}

// SplitFields splits a comma-separated field list. Items are not trimmed,
// since a field name may contain spaces.
func SplitFields(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
