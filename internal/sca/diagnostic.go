// Package sca is the static checker. It walks annotated blocks and reports
// type-safety and style findings as diagnostics; it never fails.
package sca

import (
	"unicode/utf8"

	"folint/internal/ast"
)

// Severity of a diagnostic.
type Severity int

const (
	Error   Severity = 1
	Warning Severity = 2
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "Error"
	case Warning:
		return "Warning"
	}
	return "Unknown"
}

// Diagnostic codes.
const (
	CodeArity          = "arity"
	CodeArgumentType   = "argument-type"
	CodeElementType    = "element-type"
	CodeComparison     = "comparison-type"
	CodeArithmetic     = "arithmetic-type"
	CodeUnusedVariable = "unused-variable"
	CodeQuantifierBody = "quantifier-body"
	CodeEquivalence    = "equivalence-variable"
	CodeBrackets       = "redundant-brackets"
	CodeNegatedIn      = "negated-in"
	CodeTupleWidth     = "tuple-width"
	CodeUnknownBlock   = "unknown-block"
	CodeDefaultType    = "default-type"
)

// Diagnostic is one finding. Node is only used to recover a location.
type Diagnostic struct {
	Node     ast.Node
	Message  string
	Severity Severity
	Code     string
}

// Location is a 1-based line and column span.
type Location struct {
	Line     int `json:"line"`
	ColStart int `json:"col_start"`
	ColEnd   int `json:"col_end"`
}

// Location spans the display name of the node, or its reading when the
// node has no name of its own.
func (d Diagnostic) Location() Location {
	if d.Node == nil {
		return Location{}
	}
	pos := d.Node.Position()
	loc := Location{Line: pos.Line, ColStart: pos.Col, ColEnd: pos.Col}
	if name, ok := ast.DisplayName(d.Node); ok {
		loc.ColEnd += utf8.RuneCountInString(name)
	} else {
		loc.ColEnd += utf8.RuneCountInString(ast.Reading(d.Node))
	}
	return loc
}

// Partition splits diagnostics into errors and warnings, keeping order.
func Partition(diags []Diagnostic) (errs, warnings []Diagnostic) {
	for _, d := range diags {
		if d.Severity == Warning {
			warnings = append(warnings, d)
			continue
		}
		errs = append(errs, d)
	}
	return errs, warnings
}
