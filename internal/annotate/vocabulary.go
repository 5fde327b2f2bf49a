package annotate

import (
	"fmt"

	"folint/internal/ast"
)

func builtinType(name string, constructors ...string) *ast.TypeDeclaration {
	cs := make([]*ast.Constructor, len(constructors))
	for i, c := range constructors {
		cs[i] = ast.NewConstructor(ast.Pos{}, c, nil)
	}
	return ast.NewTypeDeclaration(ast.Pos{}, name, cs, nil)
}

func builtinSymbol(name, out string, sorts ...string) *ast.SymbolDeclaration {
	subs := make([]*ast.Subtype, len(sorts))
	for i, s := range sorts {
		subs[i] = ast.NewSubtype(ast.Pos{}, s, nil, nil)
	}
	return ast.NewSymbolDeclaration(ast.Pos{}, name, subs, ast.NewSubtype(ast.Pos{}, out, nil, nil))
}

// builtinDeclarations returns fresh declarations of the builtin types and
// functions, which every vocabulary starts from.
func builtinDeclarations() []ast.Declaration {
	return []ast.Declaration{
		builtinType(ast.BoolType, "true", "false"),
		builtinType(ast.IntType),
		builtinType(ast.RealType),
		builtinType(ast.DateType),
		builtinType(ast.ConceptType),
		builtinSymbol("abs", ast.IntType, ast.IntType),
		builtinSymbol("arity", ast.IntType, ast.ConceptType),
		builtinSymbol("input_domain", ast.ConceptType, ast.ConceptType, ast.IntType),
		builtinSymbol("output_domain", ast.ConceptType, ast.ConceptType),
	}
}

// declarationList is an insertion-ordered map of declarations.
type declarationList struct {
	order  []string
	byName map[string]ast.Declaration
}

func (l *declarationList) put(d ast.Declaration) {
	if _, ok := l.byName[d.Name()]; !ok {
		l.order = append(l.order, d.Name())
	}
	l.byName[d.Name()] = d
}

func (l *declarationList) values() []ast.Declaration {
	out := make([]ast.Declaration, len(l.order))
	for i, n := range l.order {
		out[i] = l.byName[n]
	}
	return out
}

// Vocabulary merges the builtins and the imported vocabularies into v,
// builds the values of Concept and annotates every declaration.
func (a *Annotator) Vocabulary(v *ast.Vocabulary) error {
	a.log.Debug("annotating vocabulary %s", v.Name)
	temp := &declarationList{byName: make(map[string]ast.Declaration)}
	for _, d := range builtinDeclarations() {
		temp.put(d)
	}
	for _, imp := range v.Imports {
		other, err := a.vocabularyOf(imp, imp.Name)
		if err != nil {
			return err
		}
		for _, d := range other.Declarations {
			prev, seen := temp.byName[d.Name()]
			if !seen {
				temp.put(d)
				continue
			}
			if !a.reserved[d.Name()] && prev.String() != d.String() {
				return ast.Errorf(imp, "Inconsistent declaration for %s", d.Name())
			}
		}
	}
	for _, d := range v.Declarations {
		if _, seen := temp.byName[d.Name()]; seen && !a.reserved[d.Name()] {
			return ast.Errorf(d, "Duplicate declaration of %s", d.Name())
		}
		temp.put(d)
	}
	v.Declarations = temp.values()
	v.Decls = make(map[string]ast.Declaration)

	concept := temp.byName[ast.ConceptType].(*ast.TypeDeclaration)
	concept.Constructors = nil
	for _, name := range []string{ast.BoolType, ast.IntType, ast.RealType, ast.DateType, ast.ConceptType} {
		concept.Constructors = append(concept.Constructors, ast.NewConstructor(ast.Pos{}, "`"+name, nil))
	}
	for _, d := range v.Declarations {
		switch d.(type) {
		case *ast.SymbolDeclaration, *ast.TypeDeclaration:
			if !a.reserved[d.Name()] {
				concept.Constructors = append(concept.Constructors, ast.NewConstructor(d.Position(), "`"+d.Name(), nil))
			}
		}
	}

	for _, d := range v.Declarations {
		var err error
		switch decl := d.(type) {
		case *ast.TypeDeclaration:
			err = a.typeDeclaration(v, decl)
		case *ast.SymbolDeclaration:
			err = a.symbolDeclaration(v, decl)
		default:
			err = ast.Errorf(d, "unexpected declaration %s", d)
		}
		if err != nil {
			return err
		}
	}

	for _, c := range concept.Constructors {
		target := c.Name()[1:]
		sym := ast.NewSymbol(c.Pos, target)
		sym.Decl = v.Decls[target]
		c.Symbol = sym
	}
	a.vocabularies[v.Name] = v
	return nil
}

func (a *Annotator) typeDeclaration(v *ast.Vocabulary, d *ast.TypeDeclaration) error {
	if _, dup := v.Decls[d.Name()]; dup {
		return ast.Errorf(d, "duplicate declaration in vocabulary: %s", d.Name())
	}
	v.Declare(d)

	for _, c := range d.Constructors {
		c.TypeName = d.Name()
		c.Owner = d
		if _, dup := v.Decls[c.Name()]; dup && d.Name() != ast.ConceptType {
			return ast.Errorf(c, "duplicate '%s' constructor for '%s' type", c.Name(), d.Name())
		}
		v.Declare(c)
	}

	if d.Enumeration != nil {
		if err := a.resolver(v).literals(d.Enumeration); err != nil {
			return err
		}
		if d.Super == "" {
			d.Super = literalType(d.Enumeration)
		}
	}

	if d.ConstructedFrom {
		accessors := make(map[string]int)
		for _, c := range d.Constructors {
			for i, acc := range c.Args {
				if acc.Name == "" {
					acc.Name = fmt.Sprintf("%s_%d", c.Name(), i)
				}
				if j, ok := accessors[acc.Name]; ok && j != i {
					return ast.Errorf(c, "Accessors used at incompatible indices")
				}
				accessors[acc.Name] = i
			}
			if err := a.constructor(v, d, c); err != nil {
				return err
			}
		}
	}

	d.Map = make(map[string]ast.Expression)
	for _, c := range d.Constructors {
		if c.Arity() == 0 {
			d.Map[c.Name()] = ast.Construct(c)
		}
	}
	return nil
}

// literalType infers the builtin type of an enumeration of literals.
func literalType(e *ast.Enumeration) string {
	if e.Range != nil {
		if e.Range.Lo.Type == ast.RealType || e.Range.Hi.Type == ast.RealType {
			return ast.RealType
		}
		return ast.IntType
	}
	out := ""
	for _, t := range e.Tuples {
		if len(t.Args) != 1 {
			return ""
		}
		switch t.Args[0].(type) {
		case *ast.Number:
			if out == "" || out == ast.IntType {
				out = t.Args[0].Info().Type
			}
		case *ast.Date:
			out = ast.DateType
		default:
			return ""
		}
	}
	return out
}

func (a *Annotator) constructor(v *ast.Vocabulary, owner *ast.TypeDeclaration, c *ast.Constructor) error {
	for _, acc := range c.Args {
		if _, ok := v.TypeNamed(acc.TypeName); !ok {
			return ast.Errorf(c, "Unknown type: %s", acc.TypeName)
		}
		if acc.Decl == nil {
			if prev, ok := v.Decls[acc.Name].(*ast.SymbolDeclaration); ok && prev.Synthetic && prev.Out.Name == acc.TypeName {
				acc.Decl = prev
			} else {
				acc.Decl = ast.NewSymbolDeclaration(c.Pos, acc.Name,
					[]*ast.Subtype{ast.NewSubtype(c.Pos, owner.Name(), nil, nil)},
					ast.NewSubtype(c.Pos, acc.TypeName, nil, nil))
				acc.Decl.Synthetic = true
			}
		}
		if err := a.symbolDeclaration(v, acc.Decl); err != nil {
			return err
		}
	}
	if c.Tester == nil {
		c.Tester = ast.NewSymbolDeclaration(c.Pos, "is_"+c.Name(),
			[]*ast.Subtype{ast.NewSubtype(c.Pos, owner.Name(), nil, nil)},
			ast.NewSubtype(c.Pos, ast.BoolType, nil, nil))
		c.Tester.Synthetic = true
	}
	return a.symbolDeclaration(v, c.Tester)
}

func (a *Annotator) symbolDeclaration(v *ast.Vocabulary, d *ast.SymbolDeclaration) error {
	if prev, dup := v.Decls[d.Name()]; dup {
		if prev == ast.Declaration(d) {
			return nil
		}
		return ast.Errorf(d, "duplicate declaration in vocabulary: %s", d.Name())
	}
	v.Declare(d)

	for _, s := range append(append([]*ast.Subtype(nil), d.Sorts...), d.Out) {
		if err := a.subtype(v, s); err != nil {
			return err
		}
		if s.Name == ast.ConceptType && s.Out == nil && !a.reserved[d.Name()] {
			return ast.Errorf(s, "`Concept` must be qualified with a type signature in %s", d)
		}
	}
	return nil
}

// subtype resolves a type reference and its signature.
func (a *Annotator) subtype(v *ast.Vocabulary, s *ast.Subtype) error {
	td, ok := v.TypeNamed(s.Name)
	if !ok {
		if _, declared := v.Lookup(s.Name); declared {
			return ast.Errorf(s, "%s is not a type", s.Name)
		}
		return ast.Errorf(s, "Unknown type: %s", s.Name)
	}
	s.Decl = td
	s.Type = td.Name()
	for _, in := range s.Ins {
		if err := a.subtype(v, in); err != nil {
			return err
		}
	}
	if s.Out != nil {
		return a.subtype(v, s.Out)
	}
	return nil
}
