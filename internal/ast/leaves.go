package ast

import (
	"math/big"
	"strings"
)

// Symbol is a bare reference to a declared name.
type Symbol struct {
	Base
	Name string
	Decl Declaration
}

func NewSymbol(pos Pos, name string) *Symbol {
	s := &Symbol{Base: Base{Pos: pos}, Name: NormalizeTypeName(name)}
	initialize(s)
	return s
}

func (e *Symbol) render() string             { return e.Name }
func (e *Symbol) String() string             { return display(e) }
func (e *Symbol) Precedence() int            { return PrecLeaf }
func (e *Symbol) Children() []Expression     { return nil }
func (e *Symbol) SetChildren([]Expression)   {}
func (e *Symbol) Infer() Expression          { return e }
func (e *Symbol) Copy() Expression {
	out := *e
	out.Base = e.Base.clone()
	return &out
}

// Subtype is a reference to a type, optionally qualified with a signature
// as in Concept[T1*T2->T].
type Subtype struct {
	Base
	Name string
	Ins  []*Subtype
	Out  *Subtype
	Decl *TypeDeclaration
}

func NewSubtype(pos Pos, name string, ins []*Subtype, out *Subtype) *Subtype {
	s := &Subtype{Base: Base{Pos: pos}, Name: NormalizeTypeName(name), Ins: ins, Out: out}
	initialize(s)
	return s
}

// BaseType returns the builtin or user type values of this type belong to.
func (e *Subtype) BaseType() string {
	if e.Decl != nil {
		return e.Decl.Type()
	}
	return e.Name
}

func (e *Subtype) render() string {
	if e.Out == nil {
		return e.Name
	}
	ins := make([]string, len(e.Ins))
	for i, in := range e.Ins {
		ins[i] = in.String()
	}
	return e.Name + "[" + strings.Join(ins, "*") + "->" + e.Out.String() + "]"
}

func (e *Subtype) String() string           { return display(e) }
func (e *Subtype) Precedence() int          { return PrecLeaf }
func (e *Subtype) Children() []Expression   { return nil }
func (e *Subtype) SetChildren([]Expression) {}
func (e *Subtype) Infer() Expression        { return e }
func (e *Subtype) Copy() Expression         { return e.CopySubtype() }

// CopySubtype is Copy with a concrete result type.
func (e *Subtype) CopySubtype() *Subtype {
	out := *e
	out.Base = e.Base.clone()
	if e.Ins != nil {
		out.Ins = make([]*Subtype, len(e.Ins))
		for i, in := range e.Ins {
			out.Ins[i] = in.CopySubtype()
		}
	}
	if e.Out != nil {
		out.Out = e.Out.CopySubtype()
	}
	return &out
}

// Variable is a quantified variable or a reference to one.
type Variable struct {
	Base
	Name string
	Sort *Subtype
}

func NewVariable(pos Pos, name string, sort *Subtype) *Variable {
	v := &Variable{Base: Base{Pos: pos}, Name: name, Sort: sort}
	initialize(v)
	v.Infer()
	return v
}

func (e *Variable) render() string           { return e.Name }
func (e *Variable) String() string           { return display(e) }
func (e *Variable) Precedence() int          { return PrecLeaf }
func (e *Variable) Children() []Expression   { return nil }
func (e *Variable) SetChildren([]Expression) {}

// Copy returns the variable itself: variable references are shared.
func (e *Variable) Copy() Expression { return e }

func (e *Variable) Infer() Expression {
	e.Variables = NewVarSet(e.Name)
	switch {
	case e.Sort == nil:
		e.Type = ""
	case e.Sort.Decl != nil:
		e.Type = e.Sort.Decl.Name()
	default:
		e.Type = e.Sort.Name
	}
	return e
}

// UnappliedSymbol is a name used without arguments: a constructor, a
// variable before resolution, or a misuse of a declared symbol.
type UnappliedSymbol struct {
	Base
	Name string
	Decl Declaration
}

func NewUnappliedSymbol(pos Pos, name string) *UnappliedSymbol {
	s := &UnappliedSymbol{Base: Base{Pos: pos}, Name: name}
	initialize(s)
	return s
}

// Construct returns a rigid reference to constructor c.
func Construct(c *Constructor) *UnappliedSymbol {
	s := &UnappliedSymbol{Base: Base{Pos: c.Pos, Synthetic: true, Type: c.TypeName}, Name: c.Name(), Decl: c}
	s.Value = s
	initialize(s)
	return s
}

func (e *UnappliedSymbol) render() string           { return e.Name }
func (e *UnappliedSymbol) String() string           { return display(e) }
func (e *UnappliedSymbol) Precedence() int          { return PrecLeaf }
func (e *UnappliedSymbol) Children() []Expression   { return nil }
func (e *UnappliedSymbol) SetChildren([]Expression) {}
func (e *UnappliedSymbol) Infer() Expression        { return e }

func (e *UnappliedSymbol) Copy() Expression {
	if e.Value == Expression(e) {
		return e
	}
	out := *e
	out.Base = e.Base.clone()
	return &out
}

// Number is a numeric literal: an integer, a decimal or a fraction.
type Number struct {
	Base
	Text string
	Rat  *big.Rat
	Decl Declaration
}

// NewNumber parses text. Fractions and decimals are Real, anything else Int.
func NewNumber(pos Pos, text string) (*Number, error) {
	r, ok := new(big.Rat).SetString(text)
	if !ok {
		return nil, ErrorAt(pos, "invalid number %q", text)
	}
	n := &Number{Base: Base{Pos: pos}, Text: text, Rat: r}
	n.Type = IntType
	if strings.ContainsAny(text, "./") {
		n.Type = RealType
	}
	n.Value = n
	initialize(n)
	return n, nil
}

// Int returns a synthetic integer literal.
func Int(i int64) *Number {
	n := &Number{Base: Base{Synthetic: true, Type: IntType}, Rat: new(big.Rat).SetInt64(i)}
	n.Text = n.Rat.RatString()
	n.Value = n
	initialize(n)
	return n
}

func (e *Number) render() string           { return e.Text }
func (e *Number) String() string           { return e.Text }
func (e *Number) Precedence() int          { return PrecLeaf }
func (e *Number) Children() []Expression   { return nil }
func (e *Number) SetChildren([]Expression) {}
func (e *Number) Infer() Expression        { return e }
func (e *Number) Copy() Expression         { return e }

// Date is a date literal, #YYYY-MM-DD or #TODAY.
type Date struct {
	Base
	Text string
	Decl Declaration
}

func NewDate(pos Pos, text string) *Date {
	if !strings.HasPrefix(text, "#") {
		text = "#" + text
	}
	d := &Date{Base: Base{Pos: pos, Type: DateType}, Text: text}
	d.Value = d
	initialize(d)
	return d
}

func (e *Date) render() string           { return e.Text }
func (e *Date) String() string           { return e.Text }
func (e *Date) Precedence() int          { return PrecLeaf }
func (e *Date) Children() []Expression   { return nil }
func (e *Date) SetChildren([]Expression) {}
func (e *Date) Infer() Expression        { return e }
func (e *Date) Copy() Expression         { return e }
