package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"folint/internal/ast"
	"folint/internal/sca"
)

var sectionKinds = []ast.BlockKind{ast.VocabularyBlock, ast.StructureBlock, ast.TheoryBlock, ast.ProcedureBlock}

type paint func(...string) string

type styles struct {
	header, err, warning paint
}

func plain(strs ...string) string { return strings.Join(strs, " ") }

func newStyles(w io.Writer, color bool) styles {
	if !color {
		return styles{header: plain, err: plain, warning: plain}
	}
	r := lipgloss.NewRenderer(w)
	return styles{
		header:  r.NewStyle().Bold(true).Render,
		err:     r.NewStyle().Foreground(lipgloss.Color("#e53935")).Bold(true).Render,
		warning: r.NewStyle().Foreground(lipgloss.Color("#FFC107")).Render,
	}
}

func (s styles) severity(sev sca.Severity) string {
	if sev == sca.Warning {
		return s.warning(sev.String())
	}
	return s.err(sev.String())
}

// textWriter remembers the first write error.
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

// line writes one finding as "severity: line L - colStart C - colEnd E => msg".
func (t *textWriter) line(r *Report, opts Options, sev string, loc sca.Location, msg string) {
	if opts.AddFilename && r.File != "" {
		t.printf("%s: ", r.File)
	}
	t.printf("%s: line %d - colStart %d - colEnd %d => %s\n", sev, loc.Line, loc.ColStart, loc.ColEnd, msg)
}

func writeText(w io.Writer, r *Report, opts Options) error {
	st := newStyles(w, opts.Color)
	t := &textWriter{w: w}

	if len(r.Failures) > 0 {
		t.printf("\n%s\n", st.header("---------- Syntax Error ----------"))
		for _, f := range r.Failures {
			loc := sca.Location{Line: f.Pos.Line, ColStart: f.Pos.Col, ColEnd: f.Pos.Col}
			t.line(r, opts, st.severity(sca.Error), loc, f.Msg)
		}
	}

	for _, kind := range sectionKinds {
		t.printf("\n%s\n", st.header(fmt.Sprintf("---------- %s Check ----------", kind)))
		for _, b := range r.Blocks {
			if b.Kind != kind {
				continue
			}
			t.printf("----- %s\n", b.Name)
			errs, warnings := sca.Partition(b.Diagnostics)
			t.printf("-- Errors: %d\n", len(errs))
			for _, d := range errs {
				t.line(r, opts, st.severity(d.Severity), d.Location(), d.Message)
			}
			t.printf("-- Warnings: %d\n", len(warnings))
			for _, d := range warnings {
				t.line(r, opts, st.severity(d.Severity), d.Location(), d.Message)
			}
		}
	}

	if opts.Timing {
		t.printf("\nElapsed time: %f seconds\n", r.Elapsed.Seconds())
	}
	return t.err
}
