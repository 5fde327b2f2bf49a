package annotate

import (
	"fmt"
	"slices"

	"folint/internal/ast"
	"folint/internal/mangle"
)

// definition annotates the rules of d, detects recursion and builds the
// canonical and Clark forms of every defined symbol.
func (r *resolver) definition(d *ast.Definition) error {
	d.Defined = nil
	d.Canonicals = make(map[ast.Declaration][]*ast.Rule)
	d.Clarks = make(map[ast.Declaration]*ast.Rule)
	d.DefVars = make(map[string][]*ast.Variable)
	d.LevelSymbols = make(map[ast.Declaration]*ast.SymbolDeclaration)

	for _, rule := range d.Rules {
		if err := r.rule(rule); err != nil {
			return err
		}
		if decl := rule.Definiendum.Decl; !slices.Contains(d.Defined, decl) {
			d.Defined = append(d.Defined, decl)
		}
	}

	if err := r.levelSymbols(d); err != nil {
		return err
	}

	for _, rule := range d.Rules {
		decl := rule.Definiendum.Decl
		vars, ok := d.DefVars[decl.Name()]
		if !ok {
			vars = canonicalVariables(decl)
			d.DefVars[decl.Name()] = vars
		}
		canonical, err := rename(rule, vars)
		if err != nil {
			return err
		}
		d.Canonicals[decl] = append(d.Canonicals[decl], canonical)
	}

	for _, decl := range d.Defined {
		rules := d.Canonicals[decl]
		clark := rules[0].Copy()
		bodies := make([]ast.Expression, len(rules))
		for i, rule := range rules {
			bodies[i] = rule.Body.Copy()
		}
		clark.Body = ast.Or(bodies...)
		d.Clarks[decl] = clark
	}
	r.a.log.Debug("definition with %d rules defines %d symbols", len(d.Rules), len(d.Defined))
	return nil
}

func (r *resolver) rule(rule *ast.Rule) error {
	if rule.Definiendum.Symbol.Eval {
		return ast.Errorf(rule, "No support for intentional objects in the head of a rule")
	}
	sc, err := r.quantees(rule.Quantees, scope{})
	if err != nil {
		return err
	}
	head, err := r.expr(rule.Definiendum, sc)
	if err != nil {
		return err
	}
	applied, ok := head.(*ast.AppliedSymbol)
	if !ok {
		return ast.Errorf(rule, "Invalid head of rule: %s", head)
	}
	sd, ok := applied.Decl.(*ast.SymbolDeclaration)
	if !ok {
		return ast.Errorf(rule, "Cannot define %s", applied.Symbol)
	}
	applied.InHead = true
	rule.Definiendum = applied

	switch {
	case sd.Function() && rule.Out == nil:
		return ast.Errorf(rule, "Missing value in the definition of function %s", sd.Name())
	case !sd.Function() && rule.Out != nil:
		return ast.Errorf(rule, "Unexpected value in the definition of predicate %s", sd.Name())
	}
	if rule.Out != nil {
		if rule.Out, err = r.expr(rule.Out, sc); err != nil {
			return err
		}
	}
	if rule.Body == nil {
		rule.Body = ast.True()
	}
	rule.Body, err = r.expr(rule.Body, sc)
	return err
}

// levelSymbols computes the dependencies between defined symbols and the
// symbols of their bodies, rejects recursion through nested positions and
// creates a level-mapping helper for every recursively defined symbol.
func (r *resolver) levelSymbols(d *ast.Definition) error {
	var edges []mangle.Edge
	for _, rule := range d.Rules {
		head := rule.Definiendum.Decl.Name()
		symbols := ast.CollectSymbols(rule.Body, r.a.reserved)
		for _, name := range sortedNames(symbols) {
			edges = append(edges, mangle.Edge{From: head, To: name})
		}
	}
	engine, err := r.a.closureEngine()
	if err != nil {
		return err
	}
	closure, err := engine.Closure(edges)
	if err != nil {
		return err
	}

	for _, rule := range d.Rules {
		head := rule.Definiendum.Decl.Name()
		for name := range ast.CollectNestedSymbols(rule.Body, r.a.reserved) {
			if closure.Reaches(name, head) {
				return ast.Errorf(rule, "Inductive definitions with nested recursion are not supported.")
			}
		}
	}

	for _, decl := range d.Defined {
		if !closure.Recursive(decl.Name()) {
			continue
		}
		name := "_" + decl.Name() + "_lvl_map"
		level, ok := r.voc.Decls[name].(*ast.SymbolDeclaration)
		if !ok {
			sorts := make([]*ast.Subtype, 0, decl.Arity())
			for _, s := range decl.Domain() {
				sorts = append(sorts, s.CopySubtype())
			}
			level = ast.NewSymbolDeclaration(decl.Position(), name, sorts, ast.NewSubtype(decl.Position(), ast.RealType, nil, nil))
			level.Synthetic = true
			if err := r.a.symbolDeclaration(r.voc, level); err != nil {
				return err
			}
		}
		d.LevelSymbols[decl] = level
	}
	return nil
}

func sortedNames(m map[string]ast.Declaration) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// canonicalVariables returns the shared head variables of decl: one per
// argument, plus one for the value of a function.
func canonicalVariables(decl ast.Declaration) []*ast.Variable {
	var out []*ast.Variable
	for i, s := range decl.Domain() {
		out = append(out, ast.NewVariable(decl.Position(), fmt.Sprintf("$%s!%d$", decl.Name(), i), s.CopySubtype()))
	}
	if sd, ok := decl.(*ast.SymbolDeclaration); ok && sd.Function() {
		out = append(out, ast.NewVariable(decl.Position(), fmt.Sprintf("$%s$", decl.Name()), sd.Out.CopySubtype()))
	}
	return out
}

// rename rewrites a copy of rule over the canonical variables. A head
// argument that is a quantified variable seen for the first time is
// substituted; any other argument becomes an equality conjoined to the
// body.
func rename(rule *ast.Rule, canonical []*ast.Variable) (*ast.Rule, error) {
	out := rule.Copy()
	args := slices.Clone(out.Definiendum.Args)
	if out.Out != nil {
		args = append(args, out.Out)
	}
	if len(args) != len(canonical) {
		return nil, ast.Errorf(rule, "Wrong number of arguments in head of rule: %s", rule)
	}

	pending := ast.VarSet{}
	for _, q := range out.Quantees {
		pending.Add(q.Names()...)
	}
	fresh := ast.VarSet{}
	for _, v := range canonical {
		fresh.Add(v.Name)
	}

	body := out.Body
	var equalities []ast.Expression
	for i, arg := range args {
		nv := canonical[i]
		if v, ok := arg.(*ast.Variable); ok && pending.Has(v.Name) && !fresh.Has(v.Name) {
			pending.Remove(v.Name)
			body = ast.Instantiate(body, v.Name, nv)
			for j := range equalities {
				equalities[j] = ast.Instantiate(equalities[j], v.Name, nv)
			}
			for j := i; j < len(args); j++ {
				args[j] = ast.Instantiate(args[j], v.Name, nv)
			}
			continue
		}
		equalities = append(equalities, ast.Equals(nv, arg))
	}
	if len(pending) > 0 {
		return nil, ast.Errorf(rule, "Too many variables in head of rule: %s", rule)
	}

	arity := rule.Definiendum.Decl.Arity()
	out.Definiendum.Args = make([]ast.Expression, arity)
	for i := range arity {
		out.Definiendum.Args[i] = canonical[i]
	}
	if out.Out != nil {
		out.Out = canonical[arity]
	}
	out.Definiendum.Infer()
	ast.Rekey(out.Definiendum)
	out.Body = ast.And(append(equalities, body)...)
	out.Quantees = make([]*ast.Quantee, len(canonical))
	for i, v := range canonical {
		out.Quantees[i] = ast.QuanteeOf(v)
	}
	return out, nil
}
