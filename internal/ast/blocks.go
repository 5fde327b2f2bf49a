package ast

import "strings"

// BlockKind identifies the kind of a top-level block.
type BlockKind int

const (
	VocabularyBlock BlockKind = iota
	StructureBlock
	TheoryBlock
	ProcedureBlock
)

func (k BlockKind) String() string {
	switch k {
	case VocabularyBlock:
		return "Vocabulary"
	case StructureBlock:
		return "Structure"
	case TheoryBlock:
		return "Theory"
	case ProcedureBlock:
		return "Procedure"
	}
	return "Block"
}

// Block is a top-level unit of a program.
type Block interface {
	Node
	BlockName() string
	Kind() BlockKind
}

// Program is a parsed source file.
type Program struct {
	Vocabularies []*Vocabulary
	Structures   []*Structure
	Theories     []*Theory
	Procedures   []*Procedure
}

// Blocks returns every block: vocabularies, structures, theories, then
// procedures.
func (p *Program) Blocks() []Block {
	var out []Block
	for _, v := range p.Vocabularies {
		out = append(out, v)
	}
	for _, s := range p.Structures {
		out = append(out, s)
	}
	for _, t := range p.Theories {
		out = append(out, t)
	}
	for _, pr := range p.Procedures {
		out = append(out, pr)
	}
	return out
}

// Theory holds constraints and definitions over a vocabulary.
type Theory struct {
	Pos             Pos
	Name            string
	VocabName       string
	Constraints     []Expression
	Definitions     []*Definition
	Interpretations []*SymbolInterpretation
	Voc             *Vocabulary
}

func (t *Theory) Position() Pos     { return t.Pos }
func (t *Theory) BlockName() string { return t.Name }
func (t *Theory) Kind() BlockKind   { return TheoryBlock }

// Structure interprets symbols of a vocabulary by enumeration.
type Structure struct {
	Pos             Pos
	Name            string
	VocabName       string
	Interpretations []*SymbolInterpretation
	Voc             *Vocabulary
}

func (s *Structure) Position() Pos     { return s.Pos }
func (s *Structure) BlockName() string { return s.Name }
func (s *Structure) Kind() BlockKind   { return StructureBlock }

// Procedure is a main block calling inference tasks on other blocks.
type Procedure struct {
	Pos   Pos
	Name  string
	Args  []string
	Calls []*Call
	// KnownBlocks lists the block names a call may refer to.
	KnownBlocks map[string]bool
}

func (p *Procedure) Position() Pos     { return p.Pos }
func (p *Procedure) BlockName() string { return p.Name }
func (p *Procedure) Kind() BlockKind   { return ProcedureBlock }

// Call is one statement of a procedure: a task name applied to arguments.
type Call struct {
	Pos  Pos
	Name string
	Args []*CallArg
}

// CallArg is an argument of a call statement.
type CallArg struct {
	Pos  Pos
	Name string
}

func (c *Call) Position() Pos    { return c.Pos }
func (a *CallArg) Position() Pos { return a.Pos }

func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.Name
	}
	return c.Name + "(" + strings.Join(args, ", ") + ")"
}

// Rule is a definitional rule: ∀quantees: definiendum [= out] ← body.
type Rule struct {
	Pos         Pos
	Annotations Annotations
	Quantees    []*Quantee
	Definiendum *AppliedSymbol
	// Out is the value of a function rule, nil for predicates.
	Out  Expression
	Body Expression
	// Original is the user rule a canonical rule was derived from.
	Original *Rule
}

func (r *Rule) Position() Pos { return r.Pos }

// Copy returns a deep copy of the rule.
func (r *Rule) Copy() *Rule {
	out := *r
	out.Annotations = r.Annotations.Clone()
	out.Quantees = copyQuantees(r.Quantees)
	out.Definiendum = r.Definiendum.CopyApplied()
	if r.Out != nil {
		out.Out = r.Out.Copy()
	}
	out.Body = r.Body.Copy()
	if r.Original == nil {
		out.Original = r
	}
	return &out
}

func (r *Rule) String() string {
	var sb strings.Builder
	if len(r.Quantees) > 0 {
		sb.WriteString("∀" + renderQuantees(r.Quantees) + ": ")
	}
	sb.WriteString(r.Definiendum.String())
	if r.Out != nil {
		sb.WriteString(" = " + r.Out.String())
	}
	sb.WriteString(" ← " + r.Body.String())
	return sb.String()
}

// Definition is a set of rules defining one or more symbols.
type Definition struct {
	Pos         Pos
	Annotations Annotations
	Rules       []*Rule

	// Defined lists the defined symbols in order of first rule.
	Defined []Declaration
	// Canonicals holds, per defined symbol, its rules rewritten over
	// the shared canonical variables.
	Canonicals map[Declaration][]*Rule
	// Clarks holds, per defined symbol, one rule whose body is the
	// disjunction of its canonical bodies.
	Clarks map[Declaration]*Rule
	// DefVars holds the canonical variables per defined symbol name.
	DefVars map[string][]*Variable
	// LevelSymbols maps each recursively defined symbol to its
	// level-mapping helper.
	LevelSymbols map[Declaration]*SymbolDeclaration
}

func (d *Definition) Position() Pos { return d.Pos }

// SymbolInterpretation enumerates the interpretation of one symbol.
type SymbolInterpretation struct {
	Pos         Pos
	Name        string
	Symbol      *Symbol
	Enumeration *Enumeration
	Default     Expression
	// IsFunction is set for function enumerations, "(a) -> v".
	IsFunction bool
	// IsTypeEnumeration is set when the target is a type.
	IsTypeEnumeration bool
	// DefaultImplicit is set when Default was filled in as false.
	DefaultImplicit bool
}

func (s *SymbolInterpretation) Position() Pos { return s.Pos }

// Enumeration is a literal set: tuples, a numeric range or constructors.
type Enumeration struct {
	Pos          Pos
	Tuples       []*Tuple
	Range        *Range
	Constructors []*Constructor
}

func (e *Enumeration) Position() Pos { return e.Pos }

// Copy returns a deep copy of the enumeration tuples.
func (e *Enumeration) Copy() *Enumeration {
	out := *e
	out.Tuples = make([]*Tuple, len(e.Tuples))
	for i, t := range e.Tuples {
		out.Tuples[i] = &Tuple{Pos: t.Pos, Args: copyAll(t.Args)}
	}
	return &out
}

func (e *Enumeration) String() string {
	if e.Range != nil {
		return "{" + e.Range.Lo.String() + ".." + e.Range.Hi.String() + "}"
	}
	parts := make([]string, 0, len(e.Tuples)+len(e.Constructors))
	for _, c := range e.Constructors {
		parts = append(parts, c.String())
	}
	for _, t := range e.Tuples {
		parts = append(parts, t.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Range is an inclusive numeric interval lo..hi.
type Range struct {
	Lo, Hi *Number
}

// Tuple is one row of an enumeration.
type Tuple struct {
	Pos  Pos
	Args []Expression
}

func (t *Tuple) Position() Pos { return t.Pos }

func (t *Tuple) String() string {
	if len(t.Args) == 1 {
		return t.Args[0].String()
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return "(" + strings.Join(args, ", ") + ")"
}
