package sca

import (
	"fmt"
	"slices"
	"unicode"
	"unicode/utf8"

	"folint/internal/ast"
	"folint/internal/logging"
)

type checker struct {
	voc   *ast.Vocabulary
	diags []Diagnostic
}

// Check walks an annotated block and returns its diagnostics in document
// order. Vocabularies carry no checks of their own.
func Check(b ast.Block) []Diagnostic {
	timer := logging.StartTimer(logging.CategoryCheck, "check "+b.BlockName())
	defer timer.Stop()

	c := &checker{}
	switch blk := b.(type) {
	case *ast.Structure:
		c.voc = blk.Voc
		c.interpretations(blk.Interpretations)
	case *ast.Theory:
		c.voc = blk.Voc
		c.interpretations(blk.Interpretations)
		for _, d := range blk.Definitions {
			for _, r := range d.Rules {
				c.rule(r)
			}
		}
		for _, e := range blk.Constraints {
			c.expr(e)
		}
	case *ast.Procedure:
		c.procedure(blk)
	}
	logging.CheckDebug("%s %s: %d diagnostics", b.Kind(), b.BlockName(), len(c.diags))
	return c.diags
}

func (c *checker) report(n ast.Node, sev Severity, code, format string, args ...any) {
	c.diags = append(c.diags, Diagnostic{Node: n, Message: fmt.Sprintf(format, args...), Severity: sev, Code: code})
}

// base maps a type name to the builtin its values belong to, if any.
func (c *checker) base(name string) string {
	name = ast.NormalizeTypeName(name)
	if c.voc == nil {
		return name
	}
	if td, ok := c.voc.TypeNamed(name); ok && td.Super != "" && builtin(td.Super) {
		return td.Super
	}
	return name
}

// typeOf is the type of e as seen by the checks; "" when unknown.
func (c *checker) typeOf(e ast.Expression) string {
	switch n := e.(type) {
	case *ast.Brackets:
		return c.typeOf(n.Body)
	case *ast.Operator:
		if n.Family == ast.SumMinus || n.Family == ast.MultDiv {
			return c.chainType(n.Operands)
		}
	}
	return c.base(e.Info().Type)
}

// chainType is the common type of arithmetic operands: their shared type,
// Real when they mix Int and Real, else unknown.
func (c *checker) chainType(operands []ast.Expression) string {
	first := c.typeOf(operands[0])
	same, numeric := true, true
	for _, o := range operands {
		t := c.typeOf(o)
		same = same && t == first
		numeric = numeric && (t == ast.IntType || t == ast.RealType)
	}
	switch {
	case same:
		return first
	case numeric:
		return ast.RealType
	}
	return ""
}

func typeName(t string) string {
	if t == "" {
		return "unknown"
	}
	return t
}

func (c *checker) expr(e ast.Expression) {
	switch n := e.(type) {
	case *ast.Quantification:
		c.quantification(n)
	case *ast.Operator:
		switch n.Family {
		case ast.Comparison:
			c.comparison(n)
		case ast.SumMinus:
			c.arithmetic(n, "Sum or difference", "sum or difference")
		case ast.MultDiv:
			c.arithmetic(n, "Multiplication or division", "multiplication or division")
		}
	case *ast.AppliedSymbol:
		c.applied(n)
	case *ast.Unary:
		if n.Operator() == "¬" && !n.Synthetic {
			if a, ok := n.Body.(*ast.AppliedSymbol); ok && a.IsEnumeration == "in" {
				c.report(n, Warning, CodeNegatedIn, "Style guide check, place brackets around negated in-statement")
			}
		}
	case *ast.Brackets:
		if _, ok := n.Body.(*ast.Brackets); ok {
			c.report(n, Warning, CodeBrackets, "Style guide, redundant brackets")
		}
	}
	for _, child := range e.Children() {
		if child != nil {
			c.expr(child)
		}
	}
}

func unbracket(e ast.Expression) ast.Expression {
	for {
		b, ok := e.(*ast.Brackets)
		if !ok {
			return e
		}
		e = b.Body
	}
}

func isFamily(e ast.Expression, f ast.OpFamily) (*ast.Operator, bool) {
	op, ok := unbracket(e).(*ast.Operator)
	if !ok || op.Family != f {
		return nil, false
	}
	return op, true
}

func (c *checker) unused(qs []*ast.Quantee, used ast.VarSet) {
	for _, q := range qs {
		for _, tuple := range q.Vars {
			for _, v := range tuple {
				if !used.Has(v.Name) {
					c.report(v, Warning, CodeUnusedVariable, "Unused variable %s", v.Name)
				}
			}
		}
	}
}

func (c *checker) quantification(n *ast.Quantification) {
	if n.Synthetic {
		return
	}
	c.unused(n.Quantees, n.Body.Info().Variables)

	switch n.Q {
	case "∀":
		if _, ok := isFamily(n.Body, ast.Conjunction); ok {
			c.report(n.Body, Warning, CodeQuantifierBody,
				"Common mistake, use an implication after a universal quantor instead of a conjunction")
		}
	case "∃":
		if _, ok := isFamily(n.Body, ast.Implication); ok {
			c.report(n.Body, Warning, CodeQuantifierBody,
				"Common mistake, use a conjunction after an existential quantor instead of an implication")
		}
	}

	eq, ok := isFamily(n.Body, ast.Equivalence)
	if !ok || len(eq.Operands) != 2 {
		return
	}
	bound := ast.VarSet{}
	for _, q := range n.Quantees {
		bound.Add(q.Names()...)
	}
	for _, side := range eq.Operands {
		if missing := bound.Minus(side.Info().Variables); len(missing) > 0 {
			c.report(eq, Warning, CodeEquivalence,
				"Common mistake, variable %s only occurring on one side of equivalence", missing.Sorted()[0])
			return
		}
	}
}

func (c *checker) comparison(n *ast.Operator) {
	for i := 0; i+1 < len(n.Operands); i++ {
		left, right := n.Operands[i], n.Operands[i+1]
		t1, t2 := c.typeOf(left), c.typeOf(right)
		switch {
		case t1 == "" && t2 == "":
			c.report(left, Warning, CodeComparison, "Comparison of 2 unknown types: %s and %s", left, right)
		case t1 == "":
			c.report(left, Warning, CodeComparison, "Could not determine the type of %s", left)
		case t2 == "":
			c.report(right, Warning, CodeComparison, "Could not determine the type of %s", right)
		default:
			switch CompareTypes(t1, t2) {
			case Questionable:
				c.report(n, Warning, CodeComparison, "Comparison of 2 different types: %s and %s", t1, t2)
			case Incompatible:
				c.report(n, Error, CodeComparison, "Comparison of 2 different types: %s and %s", t1, t2)
			}
		}
	}
}

var arithmeticTypes = []string{ast.IntType, ast.RealType, ast.BoolType}

// arithmetic checks a sum or product chain. Each operand is checked
// against its predecessor, the first against the last.
func (c *checker) arithmetic(n *ast.Operator, title, noun string) {
	ops := n.Operands
	first := c.typeOf(ops[0])
	for i, o := range ops {
		prev := ops[(i+len(ops)-1)%len(ops)]
		t, tp := c.typeOf(o), c.typeOf(prev)
		if t == ast.BoolType && tp == ast.BoolType {
			c.report(n, Error, CodeArithmetic, "%s of two elements of type Bool", title)
			if n.Family == ast.SumMinus {
				return
			}
		}
		if !slices.Contains(arithmeticTypes, tp) {
			c.report(prev, Error, CodeArithmetic, "Wrong type '%s' used in %s", typeName(tp), noun)
		}
		if t != first {
			if CompareTypes(tp, t) == Widening {
				continue
			}
			c.report(n, Warning, CodeArithmetic, "%s of elements with possible incompatible types: %s and %s",
				title, typeName(tp), typeName(t))
			return
		}
	}
}

// rewritten reports whether n differs from the node it was derived from.
func rewritten(n *ast.AppliedSymbol) bool {
	o := n.Original
	return o != nil && o != ast.Expression(n) && o.Code() != n.Code()
}

func (c *checker) applied(n *ast.AppliedSymbol) {
	if n.Decl == nil {
		return
	}
	arity := n.Decl.Arity()
	if given := len(n.Args); given != arity {
		if !rewritten(n) || abs(given-arity) != 1 {
			c.report(n, Error, CodeArity, "Wrong number of arguments: given %d but expected %d", given, arity)
		}
	} else {
		c.arguments(n)
	}

	if n.IsEnumeration == "in" && n.InEnumeration != nil && n.Decl.Range() != nil {
		want := c.base(n.Decl.Range().Name)
		for _, t := range n.InEnumeration.Tuples {
			if len(t.Args) == 0 {
				continue
			}
			if got := c.typeOf(t.Args[0]); CompareTypes(want, got) > Widening {
				c.report(t.Args[0], Error, CodeElementType,
					"Element of wrong type : expected type= %s but given type= %s", want, typeName(got))
				break
			}
		}
	}
}

func (c *checker) arguments(n *ast.AppliedSymbol) {
	for i, s := range n.Decl.Domain() {
		arg := n.Args[i]
		want, got := c.base(s.Name), c.typeOf(arg)
		if got == want || (got == ast.IntType && want == ast.RealType) {
			continue
		}
		switch {
		case got == "":
			reason := "probably untyped quantifier"
			if _, ok := unbracket(arg).(*ast.Operator); ok {
				reason = "formula with different types"
			}
			c.report(n, Warning, CodeArgumentType, "Argument of unknown type, type of %s is unknown (%s)", arg, reason)
		default:
			c.report(n, Error, CodeArgumentType, "Argument of wrong type : expected type= %s but given type= %s", want, got)
		}
		return
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// rule checks a user rule. Its quantified variables all occur in the
// head, or annotation would have failed.
func (c *checker) rule(r *ast.Rule) {
	c.expr(r.Definiendum)
	if r.Out != nil {
		c.expr(r.Out)
	}
	c.expr(r.Body)
}

func (c *checker) interpretations(sis []*ast.SymbolInterpretation) {
	for _, si := range sis {
		if si.IsTypeEnumeration || si.Symbol == nil || si.Symbol.Decl == nil {
			continue
		}
		decl := si.Symbol.Decl
		var want []string
		for _, s := range decl.Domain() {
			want = append(want, c.base(s.Name))
		}
		if si.IsFunction {
			want = append(want, c.base(decl.Range().Name))
		}
		if si.Enumeration != nil {
			c.tuples(si.Enumeration.Tuples, want)
		}
		if si.IsFunction && si.Default != nil && !si.DefaultImplicit {
			rng := c.base(decl.Range().Name)
			if got := c.typeOf(si.Default); CompareTypes(rng, got) > Widening {
				c.report(si.Default, Error, CodeDefaultType,
					"Default value of wrong type : expected type= %s but given type= %s", rng, typeName(got))
			}
		}
	}
}

func (c *checker) tuples(ts []*ast.Tuple, want []string) {
	for _, t := range ts {
		if len(t.Args) != len(want) {
			c.report(t, Error, CodeTupleWidth, "Wrong number of elements in tuple: given %d but expected %d", len(t.Args), len(want))
			continue
		}
		for i, arg := range t.Args {
			if got := c.typeOf(arg); CompareTypes(want[i], got) > Widening {
				c.report(arg, Error, CodeElementType,
					"Element of wrong type : expected type= %s but given type= %s", want[i], typeName(got))
				break
			}
		}
	}
}

func (c *checker) procedure(p *ast.Procedure) {
	for _, call := range p.Calls {
		for _, arg := range call.Args {
			if isName(arg.Name) && !p.KnownBlocks[arg.Name] {
				c.report(arg, Warning, CodeUnknownBlock, "Unknown block %s", arg.Name)
			}
		}
	}
}

// isName excludes literal arguments such as numbers and options.
func isName(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	if !unicode.IsLetter(r) && r != '_' {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
