package ast

import "strings"

// IfExpr is "if c then t else e".
type IfExpr struct {
	Base
	If, Then, Else Expression
}

func NewIfExpr(pos Pos, cond, then, els Expression) *IfExpr {
	e := &IfExpr{Base: Base{Pos: pos}, If: cond, Then: then, Else: els}
	initialize(e)
	return e
}

func (e *IfExpr) render() string {
	return "if " + e.If.String() + " then " + e.Then.String() + " else " + e.Else.String()
}

func (e *IfExpr) String() string         { return display(e) }
func (e *IfExpr) Precedence() int        { return PrecIf }
func (e *IfExpr) Children() []Expression { return []Expression{e.If, e.Then, e.Else} }

func (e *IfExpr) SetChildren(cs []Expression) {
	e.If, e.Then, e.Else = cs[0], cs[1], cs[2]
}

func (e *IfExpr) Infer() Expression {
	e.Type = e.Then.Info().Type
	e.Variables = unionVariables(e.Children())
	return e
}

func (e *IfExpr) Copy() Expression {
	out := *e
	out.Base = e.Base.clone()
	out.If, out.Then, out.Else = e.If.Copy(), e.Then.Copy(), e.Else.Copy()
	return &out
}

// Quantee binds one or more variables, or tuples of variables, to a sort.
// A nil Sort means the variables are untyped.
type Quantee struct {
	Base
	Vars [][]*Variable
	Sort Expression
}

func NewQuantee(pos Pos, vars [][]*Variable, sort Expression) *Quantee {
	q := &Quantee{Base: Base{Pos: pos}, Vars: vars, Sort: sort}
	initialize(q)
	q.Infer()
	return q
}

// QuanteeOf binds the single variable v to its own sort.
func QuanteeOf(v *Variable) *Quantee {
	var sort Expression
	if v.Sort != nil {
		sort = v.Sort
	}
	q := NewQuantee(v.Pos, [][]*Variable{{v}}, sort)
	q.Synthetic = true
	return q
}

// Names returns the bound variable names in order.
func (e *Quantee) Names() []string {
	var out []string
	for _, tuple := range e.Vars {
		for _, v := range tuple {
			out = append(out, v.Name)
		}
	}
	return out
}

func (e *Quantee) render() string {
	groups := make([]string, len(e.Vars))
	for i, tuple := range e.Vars {
		if len(tuple) == 1 {
			groups[i] = tuple[0].String()
			continue
		}
		names := make([]string, len(tuple))
		for j, v := range tuple {
			names[j] = v.String()
		}
		groups[i] = "(" + strings.Join(names, ", ") + ")"
	}
	out := strings.Join(groups, ", ")
	if e.Sort != nil {
		out += " ∈ " + e.Sort.String()
	}
	return out
}

func (e *Quantee) String() string  { return display(e) }
func (e *Quantee) Precedence() int { return PrecLeaf }

func (e *Quantee) Children() []Expression {
	if e.Sort == nil {
		return nil
	}
	return []Expression{e.Sort}
}

func (e *Quantee) SetChildren(cs []Expression) {
	if len(cs) > 0 {
		e.Sort = cs[0]
	}
}

// Infer collects the variables of the sort expression, as in $(c).
func (e *Quantee) Infer() Expression {
	e.Variables = unionVariables(e.Children())
	return e
}

func (e *Quantee) Copy() Expression { return e.CopyQuantee() }

// CopyQuantee is Copy with a concrete result type.
func (e *Quantee) CopyQuantee() *Quantee {
	out := *e
	out.Base = e.Base.clone()
	if e.Sort != nil {
		out.Sort = e.Sort.Copy()
	}
	return &out
}

func copyQuantees(qs []*Quantee) []*Quantee {
	out := make([]*Quantee, len(qs))
	for i, q := range qs {
		out[i] = q.CopyQuantee()
	}
	return out
}

func renderQuantees(qs []*Quantee) string {
	parts := make([]string, len(qs))
	for i, q := range qs {
		parts[i] = q.String()
	}
	return strings.Join(parts, ", ")
}

// boundVariables returns the free variables of a binder: the body's
// variables minus the bound names, plus the variables of the sorts.
func boundVariables(qs []*Quantee, body Expression) VarSet {
	out := body.Info().Variables.Clone()
	for _, q := range qs {
		out.Remove(q.Names()...)
	}
	for _, q := range qs {
		out.Union(q.Info().Variables)
	}
	return out
}

// Quantification is a universal or existential formula.
type Quantification struct {
	Base
	// Q is "∀" or "∃".
	Q        string
	Quantees []*Quantee
	Body     Expression
}

// NewQuantification builds a quantified formula. When the last quantee
// is untyped, each of its variables gets its own quantee so that their
// sorts can be inferred independently.
func NewQuantification(pos Pos, q string, quantees []*Quantee, body Expression) *Quantification {
	switch q {
	case "!", "forall", "∀":
		q = "∀"
	case "?", "exists", "thereisa", "∃":
		q = "∃"
	}
	if n := len(quantees); n > 0 && quantees[n-1].Sort == nil && len(quantees[n-1].Names()) > 1 {
		last := quantees[n-1]
		quantees = quantees[:n-1:n-1]
		for _, tuple := range last.Vars {
			quantees = append(quantees, NewQuantee(last.Pos, [][]*Variable{tuple}, nil))
		}
	}
	e := &Quantification{Base: Base{Pos: pos, Type: BoolType}, Q: q, Quantees: quantees, Body: body}
	initialize(e)
	return e
}

func (e *Quantification) render() string {
	if len(e.Quantees) == 0 {
		return e.Body.String()
	}
	return e.Q + renderQuantees(e.Quantees) + ": " + e.Body.String()
}

func (e *Quantification) String() string              { return display(e) }
func (e *Quantification) Precedence() int             { return PrecQuantification }
func (e *Quantification) Children() []Expression      { return []Expression{e.Body} }
func (e *Quantification) SetChildren(cs []Expression) { e.Body = cs[0] }

func (e *Quantification) Infer() Expression {
	e.Type = BoolType
	e.Variables = boundVariables(e.Quantees, e.Body)
	return e
}

func (e *Quantification) Copy() Expression {
	out := *e
	out.Base = e.Base.clone()
	out.Quantees = copyQuantees(e.Quantees)
	out.Body = e.Body.Copy()
	return &out
}

// Aggregate kinds.
const (
	AggCount = "#"
	AggSum   = "sum"
	AggMin   = "min"
	AggMax   = "max"
)

// Aggregate is a count, sum, min or max over a set comprehension.
type Aggregate struct {
	Base
	Kind     string
	Quantees []*Quantee
	Body     Expression
	// Annotated is set once the body has been rewritten for counting.
	Annotated bool
}

func NewAggregate(pos Pos, kind string, quantees []*Quantee, body Expression) *Aggregate {
	if kind == "card" || kind == "count" {
		kind = AggCount
	}
	e := &Aggregate{Base: Base{Pos: pos}, Kind: kind, Quantees: quantees, Body: body}
	initialize(e)
	return e
}

func (e *Aggregate) render() string {
	return e.Kind + "{" + renderQuantees(e.Quantees) + ": " + e.Body.String() + "}"
}

func (e *Aggregate) String() string              { return display(e) }
func (e *Aggregate) Precedence() int             { return PrecAggregate }
func (e *Aggregate) Children() []Expression      { return []Expression{e.Body} }
func (e *Aggregate) SetChildren(cs []Expression) { e.Body = cs[0] }

func (e *Aggregate) Infer() Expression {
	e.Variables = boundVariables(e.Quantees, e.Body)
	return e
}

func (e *Aggregate) Copy() Expression {
	out := *e
	out.Base = e.Base.clone()
	out.Quantees = copyQuantees(e.Quantees)
	out.Body = e.Body.Copy()
	return &out
}

// Unary is a sequence of the same prefix operator, "¬" or "-".
type Unary struct {
	Base
	Ops  []string
	Body Expression
}

func NewUnary(pos Pos, ops []string, body Expression) *Unary {
	for i, op := range ops {
		if op == "~" || op == "not" {
			ops[i] = "¬"
		}
	}
	e := &Unary{Base: Base{Pos: pos}, Ops: ops, Body: body}
	initialize(e)
	return e
}

// Operator returns the prefix operator.
func (e *Unary) Operator() string { return e.Ops[0] }

func (e *Unary) render() string {
	return strings.Join(e.Ops, "") + "(" + e.Body.String() + ")"
}

func (e *Unary) String() string              { return display(e) }
func (e *Unary) Precedence() int             { return PrecUnary }
func (e *Unary) Children() []Expression      { return []Expression{e.Body} }
func (e *Unary) SetChildren(cs []Expression) { e.Body = cs[0] }

// Infer collapses an even number of operators to the operand.
func (e *Unary) Infer() Expression {
	if len(e.Ops)%2 == 0 {
		return e.Body
	}
	e.Type = e.Body.Info().Type
	if e.Operator() == "¬" {
		e.Type = BoolType
	}
	e.Variables = e.Body.Info().Variables.Clone()
	return e
}

func (e *Unary) Copy() Expression {
	out := *e
	out.Base = e.Base.clone()
	out.Ops = append([]string(nil), e.Ops...)
	out.Body = e.Body.Copy()
	return &out
}

// Brackets is a parenthesized expression. Explicit annotations on the
// brackets are transferred to the inner expression.
type Brackets struct {
	Base
	Body Expression
}

func NewBrackets(pos Pos, body Expression) *Brackets {
	e := &Brackets{Base: Base{Pos: pos}, Body: body}
	initialize(e)
	return e
}

func (e *Brackets) render() string              { return "(" + e.Body.String() + ")" }
func (e *Brackets) String() string              { return display(e) }
func (e *Brackets) Precedence() int             { return PrecLeaf }
func (e *Brackets) Children() []Expression      { return []Expression{e.Body} }
func (e *Brackets) SetChildren(cs []Expression) { e.Body = cs[0] }

func (e *Brackets) Infer() Expression {
	if e.Annotations.Explicit {
		e.Body.Info().Annotations = e.Annotations.Clone()
	}
	e.Type = e.Body.Info().Type
	e.Variables = e.Body.Info().Variables.Clone()
	return e
}

func (e *Brackets) Copy() Expression {
	out := *e
	out.Base = e.Base.clone()
	out.Body = e.Body.Copy()
	return &out
}

// SymbolExpr names the symbol of an application: either a plain symbol or
// "$(e)", the symbol denoted by the concept e.
type SymbolExpr struct {
	Base
	Eval bool
	Sub  Expression
	Decl Declaration
}

func NewSymbolExpr(pos Pos, sub Expression, eval bool) *SymbolExpr {
	e := &SymbolExpr{Base: Base{Pos: pos}, Sub: sub, Eval: eval}
	initialize(e)
	return e
}

// Name returns the referenced symbol name, or "" for "$(e)".
func (e *SymbolExpr) Name() string {
	if s, ok := e.Sub.(*Symbol); ok && !e.Eval {
		return s.Name
	}
	return ""
}

func (e *SymbolExpr) render() string {
	if e.Eval {
		return "$(" + e.Sub.String() + ")"
	}
	return e.Sub.String()
}

func (e *SymbolExpr) String() string              { return display(e) }
func (e *SymbolExpr) Precedence() int             { return PrecLeaf }
func (e *SymbolExpr) Children() []Expression      { return []Expression{e.Sub} }
func (e *SymbolExpr) SetChildren(cs []Expression) { e.Sub = cs[0] }

func (e *SymbolExpr) Infer() Expression {
	e.Variables = e.Sub.Info().Variables.Clone()
	if s, ok := e.Sub.(*Symbol); ok && !e.Eval {
		e.Decl = s.Decl
	}
	return e
}

func (e *SymbolExpr) Copy() Expression { return e.CopySymbolExpr() }

// CopySymbolExpr is Copy with a concrete result type.
func (e *SymbolExpr) CopySymbolExpr() *SymbolExpr {
	out := *e
	out.Base = e.Base.clone()
	out.Sub = e.Sub.Copy()
	return &out
}

// AppliedSymbol is the application of a symbol to arguments, optionally
// followed by "is enumerated" or "in {...}".
type AppliedSymbol struct {
	Base
	Symbol *SymbolExpr
	Args   []Expression
	// IsEnumerated is "", "is enumerated" or "is not enumerated".
	IsEnumerated string
	// IsEnumeration is "", "in" or "not in".
	IsEnumeration string
	InEnumeration *Enumeration
	Decl          Declaration
	// InHead marks the head atom of a definitional rule.
	InHead bool
}

func NewAppliedSymbol(pos Pos, symbol *SymbolExpr, args []Expression) *AppliedSymbol {
	e := &AppliedSymbol{Base: Base{Pos: pos}, Symbol: symbol, Args: args}
	initialize(e)
	return e
}

// Apply builds a synthetic application of decl.
func Apply(decl Declaration, args []Expression) *AppliedSymbol {
	sym := NewSymbol(decl.Position(), decl.Name())
	sym.Decl = decl
	se := NewSymbolExpr(decl.Position(), sym, false)
	se.Decl = decl
	e := &AppliedSymbol{Base: Base{Synthetic: true}, Symbol: se, Args: args, Decl: decl}
	initialize(e)
	e.Infer()
	return e
}

func (e *AppliedSymbol) render() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	out := e.Symbol.String() + "(" + strings.Join(args, ", ") + ")"
	if e.IsEnumerated != "" {
		out += " " + e.IsEnumerated
	}
	if e.IsEnumeration != "" {
		out += " " + e.IsEnumeration + " " + e.InEnumeration.String()
	}
	return out
}

func (e *AppliedSymbol) String() string              { return display(e) }
func (e *AppliedSymbol) Precedence() int             { return PrecLeaf }
func (e *AppliedSymbol) Children() []Expression      { return e.Args }
func (e *AppliedSymbol) SetChildren(cs []Expression) { e.Args = cs }

func (e *AppliedSymbol) Infer() Expression {
	e.Variables = unionVariables(e.Args)
	e.Variables.Union(e.Symbol.Info().Variables)
	if e.Decl == nil {
		e.Decl = e.Symbol.Decl
	}
	switch {
	case e.IsEnumerated != "" || e.IsEnumeration != "":
		e.Type = BoolType
	case e.Decl != nil && e.Decl.Range() != nil:
		e.Type = e.Decl.Range().Name
	}
	return e
}

func (e *AppliedSymbol) Copy() Expression { return e.CopyApplied() }

// CopyApplied is Copy with a concrete result type.
func (e *AppliedSymbol) CopyApplied() *AppliedSymbol {
	out := *e
	out.Base = e.Base.clone()
	out.Symbol = e.Symbol.CopySymbolExpr()
	out.Args = copyAll(e.Args)
	if e.InEnumeration != nil {
		out.InEnumeration = e.InEnumeration.Copy()
	}
	return &out
}
