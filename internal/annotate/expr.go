package annotate

import (
	"folint/internal/ast"
)

// resolver annotates expressions against one vocabulary.
type resolver struct {
	a   *Annotator
	voc *ast.Vocabulary
}

func (a *Annotator) resolver(voc *ast.Vocabulary) *resolver {
	return &resolver{a: a, voc: voc}
}

func (r *resolver) exprs(es []ast.Expression, sc scope) error {
	for i, e := range es {
		out, err := r.expr(e, sc)
		if err != nil {
			return err
		}
		es[i] = out
	}
	return nil
}

// expr annotates e in scope sc and returns its replacement.
func (r *resolver) expr(e ast.Expression, sc scope) (ast.Expression, error) {
	switch n := e.(type) {
	case *ast.Variable:
		return n.Infer(), nil

	case *ast.Number:
		if d, ok := r.voc.Lookup(n.Type); ok {
			n.Decl = d
		}
		return n, nil

	case *ast.Date:
		if d, ok := r.voc.Lookup(ast.DateType); ok {
			n.Decl = d
		}
		return n, nil

	case *ast.UnappliedSymbol:
		return r.unapplied(n, sc)

	case *ast.Symbol:
		if v, ok := sc.lookup(n.Name); ok {
			return v, nil
		}
		d, ok := r.voc.Lookup(n.Name)
		if !ok {
			return nil, ast.Errorf(n, "Symbol not in vocabulary: %s", n.Name)
		}
		n.Decl = d
		n.Type = d.Type()
		return n, nil

	case *ast.Subtype:
		if err := r.a.subtype(r.voc, n); err != nil {
			return nil, err
		}
		return n, nil

	case *ast.SymbolExpr:
		return r.symbolExpr(n, sc)

	case *ast.AppliedSymbol:
		return r.applied(n, sc)

	case *ast.IfExpr:
		cs := n.Children()
		if err := r.exprs(cs, sc); err != nil {
			return nil, err
		}
		n.SetChildren(cs)
		return n.Infer(), nil

	case *ast.Quantification:
		inner, err := r.quantees(n.Quantees, sc)
		if err != nil {
			return nil, err
		}
		if n.Body, err = r.expr(n.Body, inner); err != nil {
			return nil, err
		}
		return n.Infer(), nil

	case *ast.Aggregate:
		return r.aggregate(n, sc)

	case *ast.Operator:
		return r.operator(n, sc)

	case *ast.Unary:
		for _, op := range n.Ops {
			if op != n.Ops[0] {
				return nil, ast.Errorf(n, "Incorrect mix of unary operators")
			}
		}
		body, err := r.expr(n.Body, sc)
		if err != nil {
			return nil, err
		}
		n.Body = body
		return n.Infer(), nil

	case *ast.Brackets:
		body, err := r.expr(n.Body, sc)
		if err != nil {
			return nil, err
		}
		n.Body = body
		return n.Infer(), nil
	}
	return e, nil
}

func (r *resolver) unapplied(n *ast.UnappliedSymbol, sc scope) (ast.Expression, error) {
	if d, ok := r.voc.Lookup(n.Name); ok {
		c, isConstructor := d.(*ast.Constructor)
		if !isConstructor {
			return nil, ast.Errorf(n, "%s should be applied to arguments (or prefixed with a back-tick)", n.Name)
		}
		n.Decl = c
		n.Type = c.TypeName
		n.Value = n
		return n, nil
	}
	if v, ok := sc.lookup(n.Name); ok {
		return v, nil
	}
	return nil, ast.Errorf(n, "Symbol not in vocabulary: %s", n.Name)
}

func (r *resolver) symbolExpr(s *ast.SymbolExpr, sc scope) (*ast.SymbolExpr, error) {
	if s.Eval {
		sub, err := r.expr(s.Sub, sc)
		if err != nil {
			return nil, err
		}
		s.Sub = sub
		s.Infer()
		s.Decl = nil
		return s, nil
	}
	sym, ok := s.Sub.(*ast.Symbol)
	if !ok {
		return nil, ast.Errorf(s, "invalid symbol %s", s.Sub)
	}
	d, ok := r.voc.Lookup(sym.Name)
	if !ok {
		return nil, ast.Errorf(sym, "Symbol not in vocabulary: %s", sym.Name)
	}
	sym.Decl = d
	sym.Type = d.Type()
	s.Infer()
	return s, nil
}

func (r *resolver) applied(n *ast.AppliedSymbol, sc scope) (ast.Expression, error) {
	sym, err := r.symbolExpr(n.Symbol, sc)
	if err != nil {
		return nil, err
	}
	n.Symbol = sym
	n.Decl = sym.Decl
	if c, ok := n.Decl.(*ast.Constructor); ok && c.Arity() == 0 {
		return nil, ast.Errorf(n, "Constructor `%s` cannot be applied to argument(s)", c.Name())
	}
	if err := r.exprs(n.Args, sc); err != nil {
		return nil, err
	}
	if n.InEnumeration != nil {
		if err := r.literals(n.InEnumeration); err != nil {
			return nil, err
		}
	}

	negated := false
	switch n.IsEnumerated {
	case "is not enumerated":
		n.IsEnumerated = "is enumerated"
		negated = true
	}
	switch n.IsEnumeration {
	case "not in", "∉":
		n.IsEnumeration = "in"
		negated = true
	case "∈":
		n.IsEnumeration = "in"
	}
	out := n.Infer()
	if negated {
		ast.Rekey(n)
		neg := ast.Not(out)
		neg.Info().Pos = n.Pos
		return neg, nil
	}
	return out, nil
}

func (r *resolver) operator(n *ast.Operator, sc scope) (ast.Expression, error) {
	switch n.Family {
	case ast.Implication, ast.RImplication:
		if len(n.Operands) != 2 {
			return nil, ast.Errorf(n, "Implication is not associative. Please use parenthesis.")
		}
	case ast.Equivalence:
		if len(n.Operands) != 2 {
			return nil, ast.Errorf(n, "Equivalence is not associative. Please use parenthesis.")
		}
	}
	if n.Family == ast.RImplication {
		flipped := ast.NewOperator(n.Pos, ast.Implication, []string{"⇒"}, []ast.Expression{n.Operands[1], n.Operands[0]})
		flipped.Annotations = n.Annotations
		flipped.Original = n
		n = flipped
	}
	if err := r.exprs(n.Operands, sc); err != nil {
		return nil, err
	}
	if n.Family == ast.Comparison && allNotEqual(n.Ops) {
		out := ast.Not(ast.Equals(n.Operands...))
		out.Info().Pos = n.Pos
		return out, nil
	}
	return n.Infer(), nil
}

func allNotEqual(ops []string) bool {
	for _, op := range ops {
		if op != "≠" {
			return false
		}
	}
	return len(ops) > 0
}

// quantees binds the variables of qs on top of outer. Sorts are resolved
// in the outer scope.
func (r *resolver) quantees(qs []*ast.Quantee, outer scope) (scope, error) {
	inner := outer
	for _, q := range qs {
		var domain []*ast.Subtype
		switch sort := q.Sort.(type) {
		case nil:
		case *ast.Subtype:
			if d, ok := r.voc.Lookup(sort.Name); ok {
				if sd, isSymbol := d.(*ast.SymbolDeclaration); isSymbol {
					sym := ast.NewSymbol(sort.Pos, sort.Name)
					sym.Decl = sd
					se := ast.NewSymbolExpr(sort.Pos, sym, false)
					se.Infer()
					q.Sort = se
					domain = sd.Sorts
					break
				}
			}
			if err := r.a.subtype(r.voc, sort); err != nil {
				return scope{}, err
			}
		case *ast.SymbolExpr:
			se, err := r.symbolExpr(sort, outer)
			if err != nil {
				return scope{}, err
			}
			q.Sort = se
			if se.Decl != nil {
				domain = se.Decl.Domain()
			}
		default:
			out, err := r.expr(sort, outer)
			if err != nil {
				return scope{}, err
			}
			q.Sort = out
		}

		width := -1
		for _, tuple := range q.Vars {
			if width >= 0 && len(tuple) != width {
				return scope{}, ast.Errorf(q, "Inconsistent tuples in quantee %s", q)
			}
			width = len(tuple)
			if domain != nil && len(tuple) != len(domain) {
				return scope{}, ast.Errorf(q, "Incorrect arity of tuple in quantee %s", q)
			}
			for i, v := range tuple {
				if _, clash := r.voc.Lookup(v.Name); clash {
					return scope{}, ast.Errorf(v, "the quantified variable '%s' cannot have the same name as another symbol", v.Name)
				}
				switch sort := q.Sort.(type) {
				case *ast.Subtype:
					v.Sort = sort
				default:
					if domain != nil {
						v.Sort = domain[i]
					}
				}
				v.Infer()
				inner = inner.with(v)
			}
		}
		q.Infer()
	}
	return inner, nil
}

// literals annotates an enumeration whose entries must all be ground.
func (r *resolver) literals(e *ast.Enumeration) error {
	if e.Range != nil {
		return nil
	}
	for _, t := range e.Tuples {
		if err := r.exprs(t.Args, scope{}); err != nil {
			return err
		}
		for _, arg := range t.Args {
			if !ast.IsGround(arg) {
				return ast.Errorf(t, "Tuple must be ground : %s", t)
			}
		}
	}
	return nil
}
