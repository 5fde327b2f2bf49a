// Package report renders the diagnostics of a checked program, as the
// sectioned text listing or as JSON.
package report

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"folint/internal/ast"
	"folint/internal/logging"
	"folint/internal/sca"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options controls rendering.
type Options struct {
	Format      string
	AddFilename bool
	Color       bool
	Timing      bool
}

// Block holds the diagnostics of one checked block.
type Block struct {
	Kind        ast.BlockKind
	Name        string
	Diagnostics []sca.Diagnostic
}

// Failure is a structural error that stopped a block, or the whole file.
type Failure struct {
	Pos ast.Pos
	Msg string
}

// Report collects the results of checking one file.
type Report struct {
	RunID    string
	File     string
	Blocks   []Block
	Failures []Failure
	Elapsed  time.Duration
}

// New starts a report for file.
func New(file string) *Report {
	return &Report{RunID: uuid.NewString(), File: file}
}

// Add records the diagnostics of b.
func (r *Report) Add(b ast.Block, diags []sca.Diagnostic) {
	r.Blocks = append(r.Blocks, Block{Kind: b.Kind(), Name: b.BlockName(), Diagnostics: diags})
}

// Fail records a structural error. Located errors keep their position.
func (r *Report) Fail(err error) {
	var located *ast.Error
	if errors.As(err, &located) {
		r.Failures = append(r.Failures, Failure{Pos: located.Pos, Msg: located.Msg})
		return
	}
	r.Failures = append(r.Failures, Failure{Msg: err.Error()})
}

// HasErrors reports whether the file failed or any Error was found.
func (r *Report) HasErrors() bool {
	if len(r.Failures) > 0 {
		return true
	}
	for _, b := range r.Blocks {
		for _, d := range b.Diagnostics {
			if d.Severity == sca.Error {
				return true
			}
		}
	}
	return false
}

// Counts returns the total number of errors and warnings, failures
// included among the errors.
func (r *Report) Counts() (errs, warnings int) {
	errs = len(r.Failures)
	for _, b := range r.Blocks {
		e, w := sca.Partition(b.Diagnostics)
		errs += len(e)
		warnings += len(w)
	}
	return errs, warnings
}

// Write renders r to w.
func Write(w io.Writer, r *Report, opts Options) error {
	errs, warnings := r.Counts()
	logging.Get(logging.CategoryReport).Debug("report %s: %d errors, %d warnings", r.File, errs, warnings)
	switch opts.Format {
	case "", FormatText:
		return writeText(w, r, opts)
	case FormatJSON:
		return writeJSON(w, r, opts)
	}
	return fmt.Errorf("unknown report format %q", opts.Format)
}
