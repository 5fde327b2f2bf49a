package ast

import (
	"maps"
	"reflect"
	"slices"
	"unique"
)

// Builtin type names. The unicode aliases are normalized to these.
const (
	BoolType    = "Bool"
	IntType     = "Int"
	RealType    = "Real"
	DateType    = "Date"
	ConceptType = "Concept"
)

// NormalizeTypeName maps the unicode spellings of builtin types to their
// ASCII names.
func NormalizeTypeName(name string) string {
	switch name {
	case "𝔹":
		return BoolType
	case "ℤ":
		return IntType
	case "ℝ":
		return RealType
	}
	return name
}

// Binding strength of each node kind; higher binds tighter.
const (
	PrecIf             = 10
	PrecQuantification = 20
	PrecRImplication   = 30
	PrecEquivalence    = 40
	PrecImplication    = 50
	PrecDisjunction    = 60
	PrecConjunction    = 70
	PrecComparison     = 80
	PrecSumMinus       = 90
	PrecMultDiv        = 100
	PrecPower          = 110
	PrecUnary          = 120
	PrecAggregate      = 130
	PrecLeaf           = 200
)

// Expression is a node of a formula or term.
type Expression interface {
	Node
	// String renders the node, following its Value or Simpler form when set.
	String() string
	Info() *Base
	Code() string
	Precedence() int
	// Children returns the direct sub-expressions in order.
	Children() []Expression
	SetChildren([]Expression)
	// Infer recomputes type and free variables from the children. It may
	// return a different node when the expression collapses.
	Infer() Expression
	// Copy returns a deep copy sharing only rigid leaves and variables.
	Copy() Expression

	render() string
}

// Base carries the attributes shared by every expression.
type Base struct {
	Pos          Pos
	Type         string
	Variables    VarSet
	Simpler      Expression
	Value        Expression
	CoConstraint Expression
	Annotations  Annotations
	// Original is the node this one was copied or rewritten from.
	Original Expression
	// Synthetic is set on nodes built by rewrites rather than parsed.
	Synthetic bool

	code string
}

func (b *Base) Position() Pos { return b.Pos }
func (b *Base) Info() *Base    { return b }

// Code is the canonical text of the node when it was built.
func (b *Base) Code() string { return b.code }

func (b *Base) clone() Base {
	out := *b
	out.Variables = b.Variables.Clone()
	out.Annotations = b.Annotations.Clone()
	if b.Simpler != nil {
		out.Simpler = b.Simpler.Copy()
	}
	if b.CoConstraint != nil {
		out.CoConstraint = b.CoConstraint.Copy()
	}
	return out
}

// initialize finishes construction: interns the canonical code and fills
// default annotations and provenance.
func initialize(e Expression) {
	b := e.Info()
	b.code = intern(e.render())
	if !b.Annotations.Explicit && b.Annotations.Reading == "" {
		b.Annotations.Reading = b.code
	}
	if b.Original == nil {
		b.Original = e
	}
	if b.Variables == nil {
		b.Variables = VarSet{}
	}
}

// Rekey recomputes the canonical code of e after a structural rewrite.
func Rekey(e Expression) {
	e.Info().code = intern(e.render())
}

func intern(s string) string {
	return unique.Make(s).Value()
}

func display(e Expression) string {
	b := e.Info()
	if b.Value != nil && b.Value != e {
		return b.Value.String()
	}
	if b.Simpler != nil {
		return b.Simpler.String()
	}
	return e.render()
}

// wrap renders child, parenthesized when it binds no tighter than parent.
func wrap(child Expression, parent int) string {
	if child.Precedence() <= parent {
		return "(" + child.String() + ")"
	}
	return child.String()
}

func unionVariables(children []Expression) VarSet {
	out := VarSet{}
	for _, c := range children {
		if c != nil {
			out.Union(c.Info().Variables)
		}
	}
	return out
}

func copyAll(es []Expression) []Expression {
	if es == nil {
		return nil
	}
	out := make([]Expression, len(es))
	for i, e := range es {
		if e != nil {
			out[i] = e.Copy()
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

// SameAs reports whether two expressions of the same kind are
// structurally equivalent up to redundant brackets and empty
// quantifications.
func SameAs(a, b Expression) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a == b || (reflect.TypeOf(a) == reflect.TypeOf(b) && a.String() == b.String()) {
		return true
	}
	if v := a.Info().Value; v != nil && v != a {
		return SameAs(v, b)
	}
	if s := a.Info().Simpler; s != nil {
		return SameAs(s, b)
	}
	if v := b.Info().Value; v != nil && v != b {
		return SameAs(a, v)
	}
	if s := b.Info().Simpler; s != nil {
		return SameAs(a, s)
	}
	if ua, ub := unwrap(a), unwrap(b); ua != a || ub != b {
		return SameAs(ua, ub)
	}
	return false
}

func unwrap(e Expression) Expression {
	for {
		switch n := e.(type) {
		case *Brackets:
			e = n.Body
		case *Quantification:
			if len(n.Quantees) != 0 {
				return e
			}
			e = n.Body
		default:
			return e
		}
	}
}
