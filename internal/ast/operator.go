package ast

import "strings"

// OpFamily groups infix operators sharing precedence and typing rules.
type OpFamily int

const (
	Implication OpFamily = iota
	RImplication
	Equivalence
	Disjunction
	Conjunction
	Comparison
	SumMinus
	MultDiv
	Power
)

var familyNames = [...]string{"Implication", "RImplication", "Equivalence", "Disjunction",
	"Conjunction", "Comparison", "SumMinus", "MultDiv", "Power"}

func (f OpFamily) String() string {
	if int(f) < len(familyNames) {
		return familyNames[f]
	}
	return "OpFamily(?)"
}

// Boolean reports whether operators of the family produce truth values.
func (f OpFamily) Boolean() bool { return f <= Comparison }

// Connective reports whether the family is a propositional connective.
func (f OpFamily) Connective() bool { return f < Comparison }

func (f OpFamily) precedence() int {
	switch f {
	case Implication:
		return PrecImplication
	case RImplication:
		return PrecRImplication
	case Equivalence:
		return PrecEquivalence
	case Disjunction:
		return PrecDisjunction
	case Conjunction:
		return PrecConjunction
	case Comparison:
		return PrecComparison
	case SumMinus:
		return PrecSumMinus
	case MultDiv:
		return PrecMultDiv
	}
	return PrecPower
}

var opAliases = map[string]string{
	"=>":  "⇒",
	"<=":  "⇐",
	"<=>": "⇔",
	"|":   "∨",
	"&":   "∧",
	"=<":  "≤",
	">=":  "≥",
	"~=":  "≠",
	"*":   "⨯",
}

// NormalizeOp maps ASCII operator spellings to their canonical form.
func NormalizeOp(op string) string {
	if u, ok := opAliases[op]; ok {
		return u
	}
	return op
}

// FamilyOf returns the family of a (normalized) infix operator.
func FamilyOf(op string) (OpFamily, bool) {
	switch NormalizeOp(op) {
	case "⇒":
		return Implication, true
	case "⇐":
		return RImplication, true
	case "⇔":
		return Equivalence, true
	case "∨":
		return Disjunction, true
	case "∧":
		return Conjunction, true
	case "=", "≠", "<", "≤", ">", ">=", "≥":
		return Comparison, true
	case "+", "-":
		return SumMinus, true
	case "⨯", "/", "%":
		return MultDiv, true
	case "^":
		return Power, true
	}
	return 0, false
}

// Operator is a chain of infix operators of one family:
// Operands[0] Ops[0] Operands[1] Ops[1] ...
type Operator struct {
	Base
	Family   OpFamily
	Ops      []string
	Operands []Expression
}

// NewOperator builds a parsed operator chain.
func NewOperator(pos Pos, family OpFamily, ops []string, operands []Expression) *Operator {
	for i, op := range ops {
		ops[i] = NormalizeOp(op)
	}
	e := &Operator{Base: Base{Pos: pos}, Family: family, Ops: ops, Operands: operands}
	if family.Boolean() {
		e.Type = BoolType
	}
	initialize(e)
	return e
}

func (e *Operator) render() string {
	var sb strings.Builder
	prec := e.Precedence()
	for i, o := range e.Operands {
		if i > 0 {
			sb.WriteString(" " + e.Ops[i-1] + " ")
		}
		sb.WriteString(wrap(o, prec))
	}
	return sb.String()
}

func (e *Operator) String() string              { return display(e) }
func (e *Operator) Precedence() int             { return e.Family.precedence() }
func (e *Operator) Children() []Expression      { return e.Operands }
func (e *Operator) SetChildren(cs []Expression) { e.Operands = cs }

// Infer computes the result type: Bool for connectives and comparisons;
// otherwise Real if any operand is Real, else Int if any is Int, else the
// type of the first operand.
func (e *Operator) Infer() Expression {
	e.Variables = unionVariables(e.Operands)
	if e.Family.Boolean() {
		e.Type = BoolType
		return e
	}
	e.Type = ""
	for _, o := range e.Operands {
		if o.Info().Type == RealType {
			e.Type = RealType
			return e
		}
	}
	for _, o := range e.Operands {
		if o.Info().Type == IntType {
			e.Type = IntType
			return e
		}
	}
	if len(e.Operands) > 0 {
		e.Type = e.Operands[0].Info().Type
	}
	return e
}

func (e *Operator) Copy() Expression {
	out := *e
	out.Base = e.Base.clone()
	out.Ops = append([]string(nil), e.Ops...)
	out.Operands = copyAll(e.Operands)
	return &out
}
