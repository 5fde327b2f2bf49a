// Package completion turns the canonical rules of a definition into one
// closed formula per defined symbol (Clark's completion), instrumented
// with level mappings when the definition is inductive.
package completion

import (
	"folint/internal/ast"
	"folint/internal/logging"
)

// Engine completes definitions under one semantics.
type Engine struct {
	semantics Semantics
	log       *logging.Logger
}

// New returns an Engine for the given semantics.
func New(semantics Semantics) *Engine {
	return &Engine{semantics: semantics, log: logging.Get(logging.CategoryComplete)}
}

// Semantics returns the semantics the engine completes under.
func (e *Engine) Semantics() Semantics { return e.semantics }

// Complete returns the completion of every symbol defined by def, which
// must have been annotated. With forExplanation, the formula keeps one
// reverse implication per rule so that each rule can be blamed
// separately.
func (e *Engine) Complete(def *ast.Definition, forExplanation bool) (map[ast.Declaration]ast.Expression, error) {
	out := make(map[ast.Declaration]ast.Expression, len(def.Defined))
	for _, decl := range def.Defined {
		rules := def.Canonicals[decl]
		if len(rules) == 0 {
			continue
		}
		formula, err := e.complete(def, decl, rules, forExplanation)
		if err != nil {
			return nil, err
		}
		e.log.Debug("completed %s: %s", decl.Name(), formula)
		out[decl] = formula
	}
	return out, nil
}

func (e *Engine) complete(def *ast.Definition, decl ast.Declaration, rules []*ast.Rule, forExplanation bool) (ast.Expression, error) {
	rule := rules[0]
	_, recursive := def.LevelSymbols[decl]
	if recursive && !wholeDomain(decl) {
		return nil, ast.Errorf(rule, "Cannot have inductive definitions on infinite domain")
	}

	definiendum := rule.Definiendum.CopyApplied()
	definiendum.InHead = true
	head := ast.Expression(definiendum)
	if rule.Out != nil {
		head = ast.Equals(definiendum, rule.Out.Copy())
	}
	inductive := rule.Out == nil && e.semantics != Completion && recursive
	lm := &levelMapper{semantics: e.semantics, levels: def.LevelSymbols, head: definiendum}

	var bodies, parts []ast.Expression
	for _, r := range rules {
		body := r.Body.Copy()
		if !inductive {
			bodies = append(bodies, body)
			if forExplanation && len(rules) > 1 {
				parts = append(parts, ast.RImplies(head.Copy(), body.Copy()))
			}
			continue
		}
		body = splitEquivalences(body)
		bodies = append(bodies, body)
		if forExplanation {
			parts = append(parts, ast.RImplies(head.Copy(), lm.add(body.Copy(), false, false)))
		}
	}

	all := ast.Or(bodies...)
	switch {
	case !inductive && len(parts) > 0:
		parts = append(parts, ast.Implies(head.Copy(), all))
	case !inductive:
		parts = []ast.Expression{ast.Equiv(head, all)}
	default:
		if len(parts) == 0 {
			parts = []ast.Expression{ast.RImplies(head.Copy(), lm.add(all.Copy(), false, false))}
		}
		parts = append(parts, ast.Implies(head, lm.add(all.Copy(), true, true)))
	}

	quantees := make([]*ast.Quantee, len(rule.Quantees))
	for i, q := range rule.Quantees {
		quantees[i] = q.CopyQuantee()
	}
	return ast.ForAll(quantees, ast.And(parts...)), nil
}

// wholeDomain reports whether every argument sort of decl is finite.
func wholeDomain(decl ast.Declaration) bool {
	for _, s := range decl.Domain() {
		if s.Decl != nil {
			if !s.Decl.Finite() {
				return false
			}
			continue
		}
		switch ast.NormalizeTypeName(s.Name) {
		case ast.IntType, ast.RealType, ast.DateType:
			return false
		}
	}
	return true
}

// splitEquivalences replaces every a ⇔ b in e by (a ⇒ b) ∧ (a ⇐ b).
func splitEquivalences(e ast.Expression) ast.Expression {
	e = rebuild(e, splitEquivalences)
	if op, ok := e.(*ast.Operator); ok && op.Family == ast.Equivalence && len(op.Operands) == 2 {
		a, b := op.Operands[0], op.Operands[1]
		return ast.And(ast.Implies(a, b), ast.RImplies(a.Copy(), b.Copy()))
	}
	return e
}

// rebuild applies f to the children of e and re-infers it.
func rebuild(e ast.Expression, f func(ast.Expression) ast.Expression) ast.Expression {
	cs := e.Children()
	if len(cs) == 0 {
		return e
	}
	next := make([]ast.Expression, len(cs))
	for i, c := range cs {
		next[i] = f(c)
	}
	e.SetChildren(next)
	out := e.Infer()
	ast.Rekey(out)
	return out
}

type levelMapper struct {
	semantics Semantics
	levels    map[ast.Declaration]*ast.SymbolDeclaration
	head      *ast.AppliedSymbol
}

// add guards every recursive atom of e with a comparison of levels:
// lvl(head) op lvl(atom) ∧ atom under positive polarity, ∨ otherwise.
func (m *levelMapper) add(e ast.Expression, posJustification, polarity bool) ast.Expression {
	switch n := e.(type) {
	case *ast.AppliedSymbol:
		level, ok := m.levels[n.Decl]
		if !ok || n.InHead {
			return n
		}
		comp := ast.Compare(m.semantics.LevelOperator(posJustification, polarity),
			ast.Apply(m.levels[m.head.Decl], copyArgs(m.head.Args)),
			ast.Apply(level, copyArgs(n.Args)))
		if polarity {
			return ast.And(comp, n)
		}
		return ast.Or(comp, n)

	case *ast.Unary:
		p := polarity
		if n.Operator() == "¬" {
			p = !polarity
		}
		n.Body = m.add(n.Body, posJustification, p)
		return n.Infer()

	case *ast.Operator:
		for i, c := range n.Operands {
			p := polarity
			if (n.Family == ast.Implication && i == 0) || (n.Family == ast.RImplication && i == 1) {
				p = !polarity
			}
			n.Operands[i] = m.add(c, posJustification, p)
		}
		return n.Infer()
	}
	return rebuild(e, func(c ast.Expression) ast.Expression {
		return m.add(c, posJustification, polarity)
	})
}

func copyArgs(args []ast.Expression) []ast.Expression {
	out := make([]ast.Expression, len(args))
	for i, a := range args {
		out[i] = a.Copy()
	}
	return out
}
