package parsetree

import (
	"gopkg.in/yaml.v3"

	"folint/internal/ast"
)

func vocabulary(n *yaml.Node) (*ast.Vocabulary, error) {
	f, err := mapping(n)
	if err != nil {
		return nil, err
	}
	pos, err := f.pos()
	if err != nil {
		return nil, err
	}
	v := ast.NewVocabulary(pos, f.str("name"))
	if v.Name == "" {
		v.Name = "V"
	}
	imports, err := sequence(f.get("imports"))
	if err != nil {
		return nil, err
	}
	for _, imp := range imports {
		v.Imports = append(v.Imports, &ast.Import{Pos: position(imp), Name: imp.Value})
	}
	decls, err := sequence(f.get("declarations"))
	if err != nil {
		return nil, err
	}
	for _, d := range decls {
		out, err := declaration(d)
		if err != nil {
			return nil, err
		}
		v.Declarations = append(v.Declarations, out...)
	}
	return v, nil
}

func declaration(n *yaml.Node) ([]ast.Declaration, error) {
	f, err := mapping(n)
	if err != nil {
		return nil, err
	}
	pos, err := f.pos()
	if err != nil {
		return nil, err
	}
	ann, err := f.annotations(pos)
	if err != nil {
		return nil, err
	}
	switch {
	case f.has("type"):
		td, err := typeDeclaration(f, pos)
		if err != nil {
			return nil, err
		}
		td.Annotations = ann
		return []ast.Declaration{td}, nil
	case f.has("symbol"):
		names, err := f.strings("symbol")
		if err != nil {
			return nil, err
		}
		var out []ast.Declaration
		for _, name := range names {
			sorts, err := subtypes(f.get("sorts"))
			if err != nil {
				return nil, err
			}
			rng := ast.NewSubtype(pos, ast.BoolType, nil, nil)
			if o := f.get("out"); o != nil {
				if rng, err = subtype(o); err != nil {
					return nil, err
				}
			}
			sd := ast.NewSymbolDeclaration(pos, name, sorts, rng)
			sd.Annotations = ann
			out = append(out, sd)
		}
		return out, nil
	}
	return nil, errorAt(n, "declaration needs a type or symbol key")
}

func typeDeclaration(f *fields, pos ast.Pos) (*ast.TypeDeclaration, error) {
	constructed, err := f.boolean("constructed_from")
	if err != nil {
		return nil, err
	}
	items, err := sequence(f.get("constructors"))
	if err != nil {
		return nil, err
	}
	var constructors []*ast.Constructor
	for _, item := range items {
		c, err := constructor(item)
		if err != nil {
			return nil, err
		}
		if c.Arity() > 0 {
			constructed = true
		}
		constructors = append(constructors, c)
	}
	enum, err := enumeration(f, pos)
	if err != nil {
		return nil, err
	}
	td := ast.NewTypeDeclaration(pos, f.str("type"), constructors, enum)
	td.ConstructedFrom = constructed
	return td, nil
}

// constructor decodes "red" or {name: rgb, args: [{accessor: r, type: Int}, Int]}.
func constructor(n *yaml.Node) (*ast.Constructor, error) {
	if n.Kind == yaml.ScalarNode {
		return ast.NewConstructor(position(n), n.Value, nil), nil
	}
	f, err := mapping(n)
	if err != nil {
		return nil, err
	}
	pos, err := f.pos()
	if err != nil {
		return nil, err
	}
	items, err := sequence(f.get("args"))
	if err != nil {
		return nil, err
	}
	var args []*ast.Accessor
	for _, item := range items {
		acc := &ast.Accessor{Pos: position(item)}
		if item.Kind == yaml.ScalarNode {
			acc.TypeName = item.Value
		} else {
			af, err := mapping(item)
			if err != nil {
				return nil, err
			}
			acc.Name = af.str("accessor")
			acc.TypeName = af.str("type")
		}
		args = append(args, acc)
	}
	return ast.NewConstructor(pos, f.str("name"), args), nil
}

// enumeration decodes the range: [lo, hi], values: [...] or tuples: [...]
// entries of f, or returns nil.
func enumeration(f *fields, pos ast.Pos) (*ast.Enumeration, error) {
	if r := f.get("range"); r != nil {
		if r.Kind != yaml.SequenceNode || len(r.Content) != 2 {
			return nil, errorAt(r, "range: expected [lo, hi]")
		}
		lo, err := ast.NewNumber(position(r.Content[0]), r.Content[0].Value)
		if err != nil {
			return nil, err
		}
		hi, err := ast.NewNumber(position(r.Content[1]), r.Content[1].Value)
		if err != nil {
			return nil, err
		}
		return &ast.Enumeration{Pos: pos, Range: &ast.Range{Lo: lo, Hi: hi}}, nil
	}
	key := "tuples"
	if f.has("values") {
		key = "values"
	}
	if !f.has(key) {
		return nil, nil
	}
	items, err := sequence(f.get(key))
	if err != nil {
		return nil, err
	}
	enum := &ast.Enumeration{Pos: pos}
	for _, item := range items {
		t, err := tuple(item)
		if err != nil {
			return nil, err
		}
		enum.Tuples = append(enum.Tuples, t)
	}
	return enum, nil
}

// tuple decodes a list of expressions, or a single expression.
func tuple(n *yaml.Node) (*ast.Tuple, error) {
	t := &ast.Tuple{Pos: position(n)}
	items := []*yaml.Node{n}
	if n.Kind == yaml.SequenceNode {
		items = n.Content
	}
	for _, item := range items {
		e, err := expr(item)
		if err != nil {
			return nil, err
		}
		t.Args = append(t.Args, e)
	}
	return t, nil
}

func subtypes(n *yaml.Node) ([]*ast.Subtype, error) {
	items, err := sequence(n)
	if err != nil {
		return nil, err
	}
	out := make([]*ast.Subtype, 0, len(items))
	for _, item := range items {
		s, err := subtype(item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// subtype decodes "T" or {name: Concept, ins: [T], out: U}.
func subtype(n *yaml.Node) (*ast.Subtype, error) {
	if n.Kind == yaml.ScalarNode {
		return ast.NewSubtype(position(n), n.Value, nil, nil), nil
	}
	f, err := mapping(n)
	if err != nil {
		return nil, err
	}
	pos, err := f.pos()
	if err != nil {
		return nil, err
	}
	ins, err := subtypes(f.get("ins"))
	if err != nil {
		return nil, err
	}
	var out *ast.Subtype
	if o := f.get("out"); o != nil {
		if out, err = subtype(o); err != nil {
			return nil, err
		}
	}
	return ast.NewSubtype(pos, f.str("name"), ins, out), nil
}

func theory(n *yaml.Node) (*ast.Theory, error) {
	f, err := mapping(n)
	if err != nil {
		return nil, err
	}
	pos, err := f.pos()
	if err != nil {
		return nil, err
	}
	t := &ast.Theory{Pos: pos, Name: f.str("name"), VocabName: f.str("vocabulary")}
	if t.Name == "" {
		t.Name = "T"
	}
	if t.VocabName == "" {
		t.VocabName = "V"
	}
	constraints, err := sequence(f.get("constraints"))
	if err != nil {
		return nil, err
	}
	for _, c := range constraints {
		e, err := expr(c)
		if err != nil {
			return nil, err
		}
		t.Constraints = append(t.Constraints, e)
	}
	defs, err := sequence(f.get("definitions"))
	if err != nil {
		return nil, err
	}
	for _, d := range defs {
		def, err := definition(d)
		if err != nil {
			return nil, err
		}
		t.Definitions = append(t.Definitions, def)
	}
	if t.Interpretations, err = interpretations(f.get("interpretations")); err != nil {
		return nil, err
	}
	return t, nil
}

func definition(n *yaml.Node) (*ast.Definition, error) {
	f, err := mapping(n)
	if err != nil {
		return nil, err
	}
	pos, err := f.pos()
	if err != nil {
		return nil, err
	}
	d := &ast.Definition{Pos: pos}
	if d.Annotations, err = f.annotations(pos); err != nil {
		return nil, err
	}
	rules, err := sequence(f.get("rules"))
	if err != nil {
		return nil, err
	}
	for _, r := range rules {
		rule, err := rule(r)
		if err != nil {
			return nil, err
		}
		d.Rules = append(d.Rules, rule)
	}
	return d, nil
}

func rule(n *yaml.Node) (*ast.Rule, error) {
	f, err := mapping(n)
	if err != nil {
		return nil, err
	}
	pos, err := f.pos()
	if err != nil {
		return nil, err
	}
	r := &ast.Rule{Pos: pos}
	if r.Annotations, err = f.annotations(pos); err != nil {
		return nil, err
	}
	if r.Quantees, err = quantees(f.get("quantees")); err != nil {
		return nil, err
	}
	h := f.get("head")
	if h == nil {
		return nil, errorAt(n, "rule without head")
	}
	head, err := expr(h)
	if err != nil {
		return nil, err
	}
	switch e := head.(type) {
	case *ast.AppliedSymbol:
		r.Definiendum = e
	case *ast.UnappliedSymbol:
		r.Definiendum = ast.NewAppliedSymbol(e.Pos, ast.NewSymbolExpr(e.Pos, ast.NewSymbol(e.Pos, e.Name), false), nil)
	default:
		return nil, errorAt(h, "head of rule must be an atom")
	}
	if o := f.get("out"); o != nil {
		if r.Out, err = expr(o); err != nil {
			return nil, err
		}
	}
	if b := f.get("body"); b != nil {
		if r.Body, err = expr(b); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func interpretations(n *yaml.Node) ([]*ast.SymbolInterpretation, error) {
	items, err := sequence(n)
	if err != nil {
		return nil, err
	}
	var out []*ast.SymbolInterpretation
	for _, item := range items {
		f, err := mapping(item)
		if err != nil {
			return nil, err
		}
		pos, err := f.pos()
		if err != nil {
			return nil, err
		}
		si := &ast.SymbolInterpretation{Pos: pos, Name: f.str("symbol")}
		if si.IsFunction, err = f.boolean("function"); err != nil {
			return nil, err
		}
		if si.Enumeration, err = enumeration(f, pos); err != nil {
			return nil, err
		}
		if d := f.get("default"); d != nil {
			if si.Default, err = expr(d); err != nil {
				return nil, err
			}
		}
		out = append(out, si)
	}
	return out, nil
}

func structure(n *yaml.Node) (*ast.Structure, error) {
	f, err := mapping(n)
	if err != nil {
		return nil, err
	}
	pos, err := f.pos()
	if err != nil {
		return nil, err
	}
	s := &ast.Structure{Pos: pos, Name: f.str("name"), VocabName: f.str("vocabulary")}
	if s.Name == "" {
		s.Name = "S"
	}
	if s.VocabName == "" {
		s.VocabName = "V"
	}
	if s.Interpretations, err = interpretations(f.get("interpretations")); err != nil {
		return nil, err
	}
	return s, nil
}

func procedure(n *yaml.Node) (*ast.Procedure, error) {
	f, err := mapping(n)
	if err != nil {
		return nil, err
	}
	pos, err := f.pos()
	if err != nil {
		return nil, err
	}
	p := &ast.Procedure{Pos: pos, Name: f.str("name")}
	if p.Name == "" {
		p.Name = "main"
	}
	if p.Args, err = f.strings("args"); err != nil {
		return nil, err
	}
	calls, err := sequence(f.get("calls"))
	if err != nil {
		return nil, err
	}
	for _, c := range calls {
		cf, err := mapping(c)
		if err != nil {
			return nil, err
		}
		cpos, err := cf.pos()
		if err != nil {
			return nil, err
		}
		call := &ast.Call{Pos: cpos, Name: cf.str("call")}
		args, err := sequence(cf.get("args"))
		if err != nil {
			return nil, err
		}
		for _, a := range args {
			call.Args = append(call.Args, &ast.CallArg{Pos: position(a), Name: a.Value})
		}
		p.Calls = append(p.Calls, call)
	}
	return p, nil
}
