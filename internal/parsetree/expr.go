package parsetree

import (
	"strings"

	"gopkg.in/yaml.v3"

	"folint/internal/ast"
)

var quantifiers = []string{"forall", "exists"}

var aggregates = []string{"count", "sum", "min", "max"}

func expr(n *yaml.Node) (ast.Expression, error) {
	if n == nil {
		return nil, errorAt(n, "missing expression")
	}
	switch n.Kind {
	case yaml.ScalarNode:
		return scalar(n)
	case yaml.MappingNode:
	default:
		return nil, errorAt(n, "expected an expression")
	}

	f, err := mapping(n)
	if err != nil {
		return nil, err
	}
	pos, err := f.pos()
	if err != nil {
		return nil, err
	}
	e, err := compound(f, pos)
	if err != nil {
		return nil, err
	}
	return annotated(f, e)
}

func scalar(n *yaml.Node) (ast.Expression, error) {
	pos := position(n)
	switch n.Tag {
	case "!!int", "!!float":
		return ast.NewNumber(pos, n.Value)
	case "!!bool":
		return ast.NewUnappliedSymbol(pos, strings.ToLower(n.Value)), nil
	}
	if strings.HasPrefix(n.Value, "#") {
		return ast.NewDate(pos, n.Value), nil
	}
	return ast.NewUnappliedSymbol(pos, n.Value), nil
}

func annotated(f *fields, e ast.Expression) (ast.Expression, error) {
	if !f.has("annotations") {
		return e, nil
	}
	ann, err := f.annotations(e)
	if err != nil {
		return nil, err
	}
	if ann.Reading == "" {
		ann.Reading = e.Code()
	}
	e.Info().Annotations = ann
	return e, nil
}

func compound(f *fields, pos ast.Pos) (ast.Expression, error) {
	switch {
	case f.has("apply"):
		return applied(f, pos)
	case f.has("op") || f.has("ops"):
		return operator(f, pos)
	case f.has("not"):
		body, err := expr(f.get("not"))
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(pos, []string{"¬"}, body), nil
	case f.has("minus"):
		body, err := expr(f.get("minus"))
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(pos, []string{"-"}, body), nil
	case f.has("unary"):
		ops, err := f.strings("unary")
		if err != nil {
			return nil, err
		}
		body, err := expr(f.get("body"))
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(pos, ops, body), nil
	case f.has("if"):
		cond, err := expr(f.get("if"))
		if err != nil {
			return nil, err
		}
		then, err := expr(f.get("then"))
		if err != nil {
			return nil, err
		}
		els, err := expr(f.get("else"))
		if err != nil {
			return nil, err
		}
		return ast.NewIfExpr(pos, cond, then, els), nil
	case f.has("brackets"):
		body, err := expr(f.get("brackets"))
		if err != nil {
			return nil, err
		}
		return ast.NewBrackets(pos, body), nil
	case f.has("number"):
		return ast.NewNumber(pos, f.str("number"))
	case f.has("date"):
		return ast.NewDate(pos, f.str("date")), nil
	case f.has("name"):
		return ast.NewUnappliedSymbol(pos, f.str("name")), nil
	}
	for _, q := range quantifiers {
		if f.has(q) {
			qs, err := quantees(f.get(q))
			if err != nil {
				return nil, err
			}
			body, err := expr(f.get("body"))
			if err != nil {
				return nil, err
			}
			return ast.NewQuantification(pos, q, qs, body), nil
		}
	}
	for _, kind := range aggregates {
		if f.has(kind) {
			qs, err := quantees(f.get(kind))
			if err != nil {
				return nil, err
			}
			var body ast.Expression = ast.True()
			if b := f.get("body"); b != nil {
				if body, err = expr(b); err != nil {
					return nil, err
				}
			}
			return ast.NewAggregate(pos, kind, qs, body), nil
		}
	}
	return nil, errorAt(f.node, "unknown expression with keys %v", f.keys)
}

// applied decodes {apply: p, args: [...]}, where p may also be
// {eval: e} for $(e). Optional keys: is_enumerated, in, not_in.
func applied(f *fields, pos ast.Pos) (ast.Expression, error) {
	sym, err := symbolExpr(f.get("apply"))
	if err != nil {
		return nil, err
	}
	items, err := sequence(f.get("args"))
	if err != nil {
		return nil, err
	}
	args := make([]ast.Expression, 0, len(items))
	for _, item := range items {
		a, err := expr(item)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	out := ast.NewAppliedSymbol(pos, sym, args)
	if f.has("is_enumerated") {
		enumerated, err := f.boolean("is_enumerated")
		if err != nil {
			return nil, err
		}
		out.IsEnumerated = "is enumerated"
		if !enumerated {
			out.IsEnumerated = "is not enumerated"
		}
	}
	for _, key := range []string{"in", "not_in"} {
		if !f.has(key) {
			continue
		}
		tuples, err := sequence(f.get(key))
		if err != nil {
			return nil, err
		}
		enum := &ast.Enumeration{Pos: position(f.get(key))}
		for _, t := range tuples {
			tup, err := tuple(t)
			if err != nil {
				return nil, err
			}
			enum.Tuples = append(enum.Tuples, tup)
		}
		out.IsEnumeration = strings.ReplaceAll(key, "_", " ")
		out.InEnumeration = enum
	}
	if out.IsEnumerated != "" || out.IsEnumeration != "" {
		ast.Rekey(out)
		out.Annotations.Reading = out.Code()
	}
	return out, nil
}

func symbolExpr(n *yaml.Node) (*ast.SymbolExpr, error) {
	if n.Kind == yaml.ScalarNode {
		return ast.NewSymbolExpr(position(n), ast.NewSymbol(position(n), n.Value), false), nil
	}
	f, err := mapping(n)
	if err != nil {
		return nil, err
	}
	pos, err := f.pos()
	if err != nil {
		return nil, err
	}
	if !f.has("eval") {
		return nil, errorAt(n, "expected a symbol name or {eval: ...}")
	}
	sub, err := expr(f.get("eval"))
	if err != nil {
		return nil, err
	}
	return ast.NewSymbolExpr(pos, sub, true), nil
}

// operator decodes {op: "∧", operands: [...]} or a mixed chain of one
// family, {ops: ["<", "≤"], operands: [...]}.
func operator(f *fields, pos ast.Pos) (ast.Expression, error) {
	items, err := sequence(f.get("operands"))
	if err != nil {
		return nil, err
	}
	if len(items) < 2 {
		return nil, errorAt(f.node, "an operator needs at least two operands")
	}
	operands := make([]ast.Expression, 0, len(items))
	for _, item := range items {
		e, err := expr(item)
		if err != nil {
			return nil, err
		}
		operands = append(operands, e)
	}
	var ops []string
	if f.has("ops") {
		if ops, err = f.strings("ops"); err != nil {
			return nil, err
		}
		if len(ops) != len(operands)-1 {
			return nil, errorAt(f.get("ops"), "expected %d operators", len(operands)-1)
		}
	} else {
		op := f.str("op")
		for range len(operands) - 1 {
			ops = append(ops, op)
		}
	}
	family, ok := ast.FamilyOf(ops[0])
	if !ok {
		return nil, errorAt(f.node, "unknown operator %q", ops[0])
	}
	for _, op := range ops[1:] {
		if other, _ := ast.FamilyOf(op); other != family {
			return nil, errorAt(f.node, "operators %q and %q cannot be chained", ops[0], op)
		}
	}
	return ast.NewOperator(pos, family, ops, operands), nil
}

// quantees decodes [{vars: [x, y], in: T}, {tuple: [x, y], in: p}, ...].
// The sort is a type name, a signature {name, ins, out}, or {eval: e}.
func quantees(n *yaml.Node) ([]*ast.Quantee, error) {
	items, err := sequence(n)
	if err != nil {
		return nil, err
	}
	out := make([]*ast.Quantee, 0, len(items))
	for _, item := range items {
		f, err := mapping(item)
		if err != nil {
			return nil, err
		}
		pos, err := f.pos()
		if err != nil {
			return nil, err
		}
		var groups [][]*ast.Variable
		if f.has("tuple") {
			names, err := f.strings("tuple")
			if err != nil {
				return nil, err
			}
			groups = append(groups, variables(pos, names))
		}
		if f.has("tuples") {
			tuples, err := sequence(f.get("tuples"))
			if err != nil {
				return nil, err
			}
			for _, t := range tuples {
				names, err := scalars(t)
				if err != nil {
					return nil, err
				}
				groups = append(groups, variables(position(t), names))
			}
		}
		names, err := f.strings("vars")
		if err != nil {
			return nil, err
		}
		for _, v := range variables(pos, names) {
			groups = append(groups, []*ast.Variable{v})
		}
		if len(groups) == 0 {
			return nil, errorAt(item, "quantee without variables")
		}

		var sort ast.Expression
		if s := f.get("in"); s != nil {
			if sort, err = quanteeSort(s); err != nil {
				return nil, err
			}
		}
		out = append(out, ast.NewQuantee(pos, groups, sort))
	}
	return out, nil
}

func quanteeSort(n *yaml.Node) (ast.Expression, error) {
	if n.Kind == yaml.MappingNode {
		f, err := mapping(n)
		if err != nil {
			return nil, err
		}
		if f.has("eval") {
			return symbolExpr(n)
		}
	}
	return subtype(n)
}

func variables(pos ast.Pos, names []string) []*ast.Variable {
	out := make([]*ast.Variable, len(names))
	for i, name := range names {
		out[i] = ast.NewVariable(pos, name, nil)
	}
	return out
}
