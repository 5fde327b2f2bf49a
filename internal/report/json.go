package report

import (
	"encoding/json"
	"io"

	"folint/internal/sca"
)

type jsonDiagnostic struct {
	Severity string `json:"severity"`
	Code     string `json:"code,omitempty"`
	Message  string `json:"message"`
	sca.Location
}

type jsonBlock struct {
	Kind     string           `json:"kind"`
	Name     string           `json:"name"`
	Errors   []jsonDiagnostic `json:"errors"`
	Warnings []jsonDiagnostic `json:"warnings"`
}

type jsonReport struct {
	RunID        string           `json:"run_id"`
	File         string           `json:"file,omitempty"`
	ElapsedMS    int64            `json:"elapsed_ms,omitempty"`
	SyntaxErrors []jsonDiagnostic `json:"syntax_errors,omitempty"`
	Blocks       []jsonBlock      `json:"blocks"`
}

func toJSON(diags []sca.Diagnostic) []jsonDiagnostic {
	out := make([]jsonDiagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, jsonDiagnostic{
			Severity: d.Severity.String(),
			Code:     d.Code,
			Message:  d.Message,
			Location: d.Location(),
		})
	}
	return out
}

func writeJSON(w io.Writer, r *Report, opts Options) error {
	out := jsonReport{RunID: r.RunID, Blocks: []jsonBlock{}}
	if opts.AddFilename {
		out.File = r.File
	}
	if opts.Timing {
		out.ElapsedMS = r.Elapsed.Milliseconds()
	}
	for _, f := range r.Failures {
		out.SyntaxErrors = append(out.SyntaxErrors, jsonDiagnostic{
			Severity: sca.Error.String(),
			Message:  f.Msg,
			Location: sca.Location{Line: f.Pos.Line, ColStart: f.Pos.Col, ColEnd: f.Pos.Col},
		})
	}
	for _, kind := range sectionKinds {
		for _, b := range r.Blocks {
			if b.Kind != kind {
				continue
			}
			errs, warnings := sca.Partition(b.Diagnostics)
			out.Blocks = append(out.Blocks, jsonBlock{
				Kind:     kind.String(),
				Name:     b.Name,
				Errors:   toJSON(errs),
				Warnings: toJSON(warnings),
			})
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
