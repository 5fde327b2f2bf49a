package annotate

import (
	"slices"
	"strings"

	"folint/internal/ast"
)

func (r *resolver) aggregate(n *ast.Aggregate, sc scope) (ast.Expression, error) {
	inner, err := r.quantees(n.Quantees, sc)
	if err != nil {
		return nil, err
	}
	if n.Body, err = r.expr(n.Body, inner); err != nil {
		return nil, err
	}
	if n.Annotated {
		return n.Infer(), nil
	}
	n.Annotated = true

	switch n.Kind {
	case ast.AggCount:
		n.Body = ast.IfThenElse(n.Body, ast.Int(1), ast.Int(0))
		n.Type = ast.IntType
	case ast.AggSum:
		n.Type = n.Body.Info().Type
	case ast.AggMin, ast.AggMax:
		n.Type = n.Body.Info().Type
		n.Infer()
		return r.extremum(n, sc)
	default:
		return nil, ast.Errorf(n, "Unknown aggregate %s", n.Kind)
	}
	return n.Infer(), nil
}

// extremum replaces a min or max aggregate by a helper function of its
// free variables. The first occurrence carries the co-constraint defining
// the helper:
//
//	∀vars: (∃quantees: _agg(vars) = body) ∧ (∀quantees: _agg(vars) ≤ body)
//
// with ≥ instead of ≤ for max. Occurrences with the same text and the
// same variable sorts share one helper.
func (r *resolver) extremum(n *ast.Aggregate, sc scope) (ast.Expression, error) {
	var vars []*ast.Variable
	for _, v := range sc.variables() {
		if n.Variables.Has(v.Name) {
			vars = append(vars, v)
		}
	}
	sorts := make([]string, len(vars))
	for i, v := range vars {
		if v.Sort == nil {
			return nil, ast.Errorf(n, "Could not determine the type of variable %s in %s", v.Name, n.Code())
		}
		sorts[i] = v.Sort.Name
	}

	name := "_" + n.Code()
	decl, cached := r.voc.Decls[name].(*ast.SymbolDeclaration)
	if cached && !sameSorts(decl, sorts) {
		name += "[" + strings.Join(sorts, ",") + "]"
		decl, cached = r.voc.Decls[name].(*ast.SymbolDeclaration)
	}
	if !cached {
		if n.Type == "" {
			return nil, ast.Errorf(n, "Could not determine the type of %s", n.Code())
		}
		subs := make([]*ast.Subtype, len(vars))
		for i, v := range vars {
			subs[i] = v.Sort.CopySubtype()
		}
		decl = ast.NewSymbolDeclaration(n.Pos, name, subs, ast.NewSubtype(n.Pos, n.Type, nil, nil))
		decl.Synthetic = true
		if err := r.a.symbolDeclaration(r.voc, decl); err != nil {
			return nil, err
		}
		r.a.log.Debug("created aggregate helper %s", decl)
	}

	args := make([]ast.Expression, len(vars))
	for i, v := range vars {
		args[i] = v
	}
	applied := ast.Apply(decl, args)
	applied.Pos = n.Pos
	applied.Annotations = n.Annotations

	if !cached {
		op := "≤"
		if n.Kind == ast.AggMax {
			op = "≥"
		}
		witness := ast.Exists(copyQuantees(n.Quantees), ast.Equals(applied.Copy(), n.Body.Copy()))
		bound := ast.ForAll(copyQuantees(n.Quantees), ast.Compare(op, applied.Copy(), n.Body.Copy()))
		outer := make([]*ast.Quantee, len(vars))
		for i, v := range vars {
			outer[i] = ast.QuanteeOf(v)
		}
		applied.CoConstraint = ast.ForAll(outer, ast.And(witness, bound))
	}
	return applied, nil
}

func copyQuantees(qs []*ast.Quantee) []*ast.Quantee {
	out := make([]*ast.Quantee, len(qs))
	for i, q := range qs {
		out[i] = q.CopyQuantee()
	}
	return out
}

func sameSorts(decl *ast.SymbolDeclaration, sorts []string) bool {
	domain := decl.Domain()
	names := make([]string, len(domain))
	for i, s := range domain {
		names[i] = s.Name
	}
	return slices.Equal(names, sorts)
}
