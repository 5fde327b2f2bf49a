package ast

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented outline of the program to w, one node per line
// with its kind, rendering, type and free variables.
func Dump(w io.Writer, p *Program) error {
	d := &dumper{w: w}
	for _, v := range p.Vocabularies {
		d.line(0, "vocabulary %s", v.Name)
		for _, imp := range v.Imports {
			d.line(1, "import %s", imp.Name)
		}
		for _, decl := range v.Declarations {
			d.line(1, "%s", decl.String())
		}
	}
	for _, s := range p.Structures {
		d.line(0, "structure %s:%s", s.Name, s.VocabName)
		d.interpretations(s.Interpretations)
	}
	for _, t := range p.Theories {
		d.line(0, "theory %s:%s", t.Name, t.VocabName)
		d.interpretations(t.Interpretations)
		for _, def := range t.Definitions {
			d.line(1, "definition")
			for _, r := range def.Rules {
				d.line(2, "rule %s", r.String())
				d.expr(3, r.Definiendum)
				if r.Out != nil {
					d.expr(3, r.Out)
				}
				d.expr(3, r.Body)
			}
		}
		for _, c := range t.Constraints {
			d.expr(1, c)
		}
	}
	for _, pr := range p.Procedures {
		d.line(0, "procedure %s", pr.Name)
		for _, c := range pr.Calls {
			d.line(1, "%s", c.String())
		}
	}
	return d.err
}

// DumpExpr writes the outline of a single expression.
func DumpExpr(w io.Writer, e Expression) error {
	d := &dumper{w: w}
	d.expr(0, e)
	return d.err
}

type dumper struct {
	w   io.Writer
	err error
}

func (d *dumper) line(depth int, format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

func (d *dumper) interpretations(interps []*SymbolInterpretation) {
	for _, si := range interps {
		if si.Enumeration == nil {
			d.line(1, "%s := %s", si.Name, si.Default)
			continue
		}
		d.line(1, "%s := %s", si.Name, si.Enumeration.String())
	}
}

func (d *dumper) expr(depth int, e Expression) {
	b := e.Info()
	kind := strings.TrimPrefix(fmt.Sprintf("%T", e), "*ast.")
	detail := ""
	if b.Type != "" {
		detail += " : " + b.Type
	}
	if len(b.Variables) > 0 {
		detail += " free=" + strings.Join(b.Variables.Sorted(), ",")
	}
	d.line(depth, "%s %s%s", kind, e.String(), detail)
	if q, ok := e.(*Quantification); ok {
		for _, qe := range q.Quantees {
			d.line(depth+1, "Quantee %s", qe.String())
		}
	}
	if a, ok := e.(*Aggregate); ok {
		for _, qe := range a.Quantees {
			d.line(depth+1, "Quantee %s", qe.String())
		}
	}
	for _, c := range e.Children() {
		d.expr(depth+1, c)
	}
	if b.CoConstraint != nil {
		d.line(depth+1, "co-constraint")
		d.expr(depth+2, b.CoConstraint)
	}
}
