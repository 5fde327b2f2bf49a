package ast

// Reserved is a set of names excluded from dependency analysis.
type Reserved map[string]bool

// DefaultReserved returns the builtin reserved names.
func DefaultReserved() Reserved {
	return Reserved{
		BoolType: true, IntType: true, RealType: true, DateType: true, ConceptType: true,
		"goal_symbol": true, "relevant": true, "abs": true, "arity": true,
		"input_domain": true, "output_domain": true,
	}
}

// Inspect traverses e depth-first, quantee sorts included. It stops
// descending below a node when f returns false.
func Inspect(e Expression, f func(Expression) bool) {
	if e == nil || !f(e) {
		return
	}
	switch n := e.(type) {
	case *Quantification:
		for _, q := range n.Quantees {
			Inspect(q, f)
		}
	case *Aggregate:
		for _, q := range n.Quantees {
			Inspect(q, f)
		}
	case *AppliedSymbol:
		Inspect(n.Symbol, f)
	}
	for _, c := range e.Children() {
		Inspect(c, f)
	}
}

func declOf(e Expression) Declaration {
	switch n := e.(type) {
	case *AppliedSymbol:
		return n.Decl
	case *SymbolExpr:
		return n.Decl
	case *Symbol:
		return n.Decl
	case *Subtype:
		if n.Decl != nil {
			return n.Decl
		}
	}
	return nil
}

func collectable(d Declaration, reserved Reserved) bool {
	if d == nil {
		return false
	}
	if _, ok := d.(*Constructor); ok {
		return false
	}
	return !reserved[d.Name()]
}

// CollectSymbols returns the declarations referenced in e, excluding
// constructors and reserved names.
func CollectSymbols(e Expression, reserved Reserved) map[string]Declaration {
	out := map[string]Declaration{}
	Inspect(e, func(n Expression) bool {
		if d := declOf(n); collectable(d, reserved) {
			out[d.Name()] = d
		}
		return true
	})
	return out
}

// CollectNestedSymbols returns the declarations applied in a nested
// position: under an aggregate, a conditional term, a comparison or
// arithmetic operator, or as an argument of another application.
func CollectNestedSymbols(e Expression, reserved Reserved) map[string]Declaration {
	out := map[string]Declaration{}
	collectNested(e, false, reserved, out)
	return out
}

func collectNested(e Expression, nested bool, reserved Reserved, out map[string]Declaration) {
	switch n := e.(type) {
	case *Aggregate, *IfExpr:
		nested = true
	case *Operator:
		if !n.Family.Connective() {
			nested = true
		}
	case *AppliedSymbol:
		if nested && collectable(n.Decl, reserved) {
			out[n.Decl.Name()] = n.Decl
		}
		nested = true
	}
	for _, c := range e.Children() {
		collectNested(c, nested, reserved, out)
	}
}

// Instantiate returns a copy of e where every occurrence of the variable
// name is replaced by to.
func Instantiate(e Expression, name string, to Expression) Expression {
	return substitute(e.Copy(), name, to)
}

func substitute(e Expression, name string, to Expression) Expression {
	if v, ok := e.(*Variable); ok {
		if v.Name == name {
			return to
		}
		return e
	}
	if !e.Info().Variables.Has(name) {
		return e
	}
	if a, ok := e.(*AppliedSymbol); ok && a.Symbol.Eval {
		a.Symbol.Sub = substitute(a.Symbol.Sub, name, to)
		a.Symbol.Infer()
	}
	switch n := e.(type) {
	case *Quantification:
		substituteQuantees(n.Quantees, name, to)
	case *Aggregate:
		substituteQuantees(n.Quantees, name, to)
	}
	cs := e.Children()
	next := make([]Expression, len(cs))
	for i, c := range cs {
		next[i] = substitute(c, name, to)
	}
	e.SetChildren(next)
	out := e.Infer()
	Rekey(out)
	return out
}

func substituteQuantees(qs []*Quantee, name string, to Expression) {
	for _, q := range qs {
		if q.Sort != nil && q.Sort.Info().Variables.Has(name) {
			q.Sort = substitute(q.Sort, name, to)
			q.Infer()
		}
	}
}

// IsGround reports whether e denotes a fixed value: a literal, a
// constructor, or a constructor applied to ground arguments.
func IsGround(e Expression) bool {
	switch n := e.(type) {
	case *Number, *Date:
		return true
	case *UnappliedSymbol:
		_, ok := n.Decl.(*Constructor)
		return ok
	case *AppliedSymbol:
		if _, ok := n.Decl.(*Constructor); !ok || n.IsEnumerated != "" || n.IsEnumeration != "" {
			return false
		}
		for _, a := range n.Args {
			if !IsGround(a) {
				return false
			}
		}
		return true
	case *Unary:
		_, isNum := n.Body.(*Number)
		return n.Operator() == "-" && isNum
	case *Brackets:
		return IsGround(n.Body)
	}
	return false
}

// DisplayName returns the intrinsic name of a node, if it has one.
func DisplayName(n Node) (string, bool) {
	switch x := n.(type) {
	case *Variable:
		return x.Name, true
	case *UnappliedSymbol:
		return x.Name, true
	case *Symbol:
		return x.Name, true
	case *Subtype:
		return x.Name, true
	case *CallArg:
		return x.Name, true
	case *Call:
		return x.Name, true
	case Declaration:
		return x.Name(), true
	}
	return "", false
}

// Reading returns the reading annotation of a node, or "".
func Reading(n Node) string {
	if e, ok := n.(Expression); ok {
		return e.Info().Annotations.Reading
	}
	return ""
}
