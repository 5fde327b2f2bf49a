package ast

import (
	"iter"
	"strings"
)

// Declaration is an entry of a vocabulary: a type, a symbol or a
// constructor. Arity, Domain and Range describe the declaration used as a
// function or predicate.
type Declaration interface {
	Node
	Name() string
	Arity() int
	Domain() []*Subtype
	Range() *Subtype
	// Type is the type of an application of the declaration.
	Type() string
	String() string
}

func subtypeOf(name string, decl *TypeDeclaration) *Subtype {
	s := NewSubtype(Pos{}, name, nil, nil)
	s.Decl = decl
	return s
}

// TypeDeclaration declares a type, either by its constructors, by an
// enumeration of literal values, or as an alias of a builtin.
type TypeDeclaration struct {
	Pos          Pos
	Annotations  Annotations
	Constructors []*Constructor
	Enumeration  *Enumeration
	// ConstructedFrom is set for algebraic types, whose constructors
	// get accessors and testers.
	ConstructedFrom bool
	// Super is the builtin type the values belong to, if any.
	Super string
	// Map indexes the rigid value of each constructor by its display.
	Map map[string]Expression

	name string
}

func NewTypeDeclaration(pos Pos, name string, constructors []*Constructor, enum *Enumeration) *TypeDeclaration {
	return &TypeDeclaration{Pos: pos, name: NormalizeTypeName(name), Constructors: constructors, Enumeration: enum}
}

func (d *TypeDeclaration) Position() Pos      { return d.Pos }
func (d *TypeDeclaration) Name() string       { return d.name }
func (d *TypeDeclaration) Arity() int         { return 1 }
func (d *TypeDeclaration) Domain() []*Subtype { return []*Subtype{subtypeOf(d.name, d)} }
func (d *TypeDeclaration) Range() *Subtype    { return subtypeOf(BoolType, nil) }

// Type returns Super when set, else the type itself.
func (d *TypeDeclaration) Type() string {
	if d.Super != "" {
		return d.Super
	}
	return d.name
}

// Finite reports whether the type has a finite, known set of values.
func (d *TypeDeclaration) Finite() bool {
	switch d.name {
	case IntType, RealType, DateType:
		return false
	}
	if len(d.Constructors) > 0 || d.Enumeration != nil {
		return true
	}
	switch d.Super {
	case IntType, RealType, DateType:
		return false
	}
	return true
}

func (d *TypeDeclaration) String() string {
	switch {
	case len(d.Constructors) > 0:
		cs := make([]string, len(d.Constructors))
		for i, c := range d.Constructors {
			cs[i] = c.String()
		}
		return "type " + d.name + " := {" + strings.Join(cs, ", ") + "}"
	case d.Enumeration != nil:
		return "type " + d.name + " := " + d.Enumeration.String()
	}
	return "type " + d.name
}

// SymbolDeclaration declares a predicate, function or constant.
type SymbolDeclaration struct {
	Pos         Pos
	Annotations Annotations
	Sorts       []*Subtype
	Out         *Subtype
	// Synthetic is set on helpers created by rewrites.
	Synthetic bool

	name string
}

func NewSymbolDeclaration(pos Pos, name string, sorts []*Subtype, out *Subtype) *SymbolDeclaration {
	return &SymbolDeclaration{Pos: pos, name: name, Sorts: sorts, Out: out}
}

func (d *SymbolDeclaration) Position() Pos      { return d.Pos }
func (d *SymbolDeclaration) Name() string       { return d.name }
func (d *SymbolDeclaration) Arity() int         { return len(d.Sorts) }
func (d *SymbolDeclaration) Domain() []*Subtype { return d.Sorts }
func (d *SymbolDeclaration) Range() *Subtype    { return d.Out }
func (d *SymbolDeclaration) Type() string       { return d.Out.Name }

// Function reports whether the symbol has a non-Bool range.
func (d *SymbolDeclaration) Function() bool { return d.Out.Name != BoolType }

func (d *SymbolDeclaration) String() string {
	sorts := "()"
	if len(d.Sorts) > 0 {
		names := make([]string, len(d.Sorts))
		for i, s := range d.Sorts {
			names[i] = s.String()
		}
		sorts = strings.Join(names, " * ")
	}
	return d.name + ": " + sorts + " -> " + d.Out.String()
}

// Accessor is an argument slot of a constructor.
type Accessor struct {
	Pos      Pos
	Name     string
	TypeName string
	Decl     *SymbolDeclaration
}

// Constructor builds values of its owning type.
type Constructor struct {
	Pos      Pos
	Args     []*Accessor
	TypeName string
	Owner    *TypeDeclaration
	// Tester is the is_<name> predicate.
	Tester *SymbolDeclaration
	// Symbol is set on Concept constructors to the named declaration.
	Symbol *Symbol

	name string
}

func NewConstructor(pos Pos, name string, args []*Accessor) *Constructor {
	return &Constructor{Pos: pos, name: name, Args: args}
}

// TrueConstructor and FalseConstructor are the values of Bool.
var (
	TrueConstructor  = &Constructor{name: "true", TypeName: BoolType}
	FalseConstructor = &Constructor{name: "false", TypeName: BoolType}
)

func (c *Constructor) Position() Pos { return c.Pos }
func (c *Constructor) Name() string  { return c.name }
func (c *Constructor) Arity() int    { return len(c.Args) }
func (c *Constructor) Type() string  { return c.TypeName }

func (c *Constructor) Domain() []*Subtype {
	out := make([]*Subtype, len(c.Args))
	for i, a := range c.Args {
		out[i] = subtypeOf(a.TypeName, nil)
		if a.Decl != nil && len(a.Decl.Sorts) == 1 {
			out[i] = a.Decl.Out
		}
	}
	return out
}

func (c *Constructor) Range() *Subtype { return subtypeOf(c.TypeName, c.Owner) }

func (c *Constructor) String() string {
	if len(c.Args) == 0 {
		return c.name
	}
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.Name + ": " + a.TypeName
	}
	return c.name + "(" + strings.Join(args, ", ") + ")"
}

// Import pulls the declarations of another vocabulary.
type Import struct {
	Pos  Pos
	Name string
}

func (i *Import) Position() Pos { return i.Pos }

// Vocabulary is a named, ordered set of declarations.
type Vocabulary struct {
	Pos          Pos
	Name         string
	Imports      []*Import
	Declarations []Declaration
	// Decls indexes every name the vocabulary declares, including
	// constructors, accessors, testers and synthesized helpers.
	Decls map[string]Declaration
}

func NewVocabulary(pos Pos, name string) *Vocabulary {
	return &Vocabulary{Pos: pos, Name: name, Decls: map[string]Declaration{}}
}

func (v *Vocabulary) Position() Pos     { return v.Pos }
func (v *Vocabulary) BlockName() string { return v.Name }
func (v *Vocabulary) Kind() BlockKind   { return VocabularyBlock }

// Lookup returns the declaration of name.
func (v *Vocabulary) Lookup(name string) (Declaration, bool) {
	d, ok := v.Decls[name]
	return d, ok
}

// TypeNamed returns the type declaration of name.
func (v *Vocabulary) TypeNamed(name string) (*TypeDeclaration, bool) {
	d, ok := v.Decls[NormalizeTypeName(name)].(*TypeDeclaration)
	return d, ok
}

// Declare indexes d under its name, replacing any previous entry.
func (v *Vocabulary) Declare(d Declaration) {
	if v.Decls == nil {
		v.Decls = map[string]Declaration{}
	}
	v.Decls[d.Name()] = d
}

// ConceptConstructors yields the values of the reflective Concept type:
// one per builtin type and one per user declaration.
func (v *Vocabulary) ConceptConstructors() iter.Seq[*Constructor] {
	return func(yield func(*Constructor) bool) {
		concept, ok := v.TypeNamed(ConceptType)
		if !ok {
			return
		}
		for _, c := range concept.Constructors {
			if !yield(c) {
				return
			}
		}
	}
}
