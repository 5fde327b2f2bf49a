package annotate

import (
	"folint/internal/ast"
)

// interpretation annotates one enumeration of a structure or theory.
func (r *resolver) interpretation(si *ast.SymbolInterpretation) error {
	decl, ok := r.voc.Lookup(si.Name)
	if !ok {
		return ast.ErrorAt(si.Pos, "Symbol not in vocabulary: %s", si.Name)
	}
	si.Symbol = ast.NewSymbol(si.Pos, si.Name)
	si.Symbol.Decl = decl
	si.Symbol.Type = decl.Type()

	td, isType := decl.(*ast.TypeDeclaration)
	si.IsTypeEnumeration = isType
	if si.Enumeration == nil {
		si.Enumeration = &ast.Enumeration{Pos: si.Pos}
	}
	if isType {
		if err := r.typeEnumeration(si, td); err != nil {
			return err
		}
	}
	if err := r.literals(si.Enumeration); err != nil {
		return err
	}

	if si.Default == nil {
		if !si.IsFunction && !isType {
			si.Default = ast.False()
			si.DefaultImplicit = true
		}
	} else if !isType {
		for _, s := range decl.Domain() {
			switch ast.NormalizeTypeName(s.Name) {
			case ast.IntType, ast.RealType, ast.DateType:
				return ast.ErrorAt(si.Pos, "Can't use default value for '%s' on infinite domain nor for type enumeration.", si.Name)
			}
		}
	}
	if si.Default == nil {
		return nil
	}
	def, err := r.expr(si.Default, scope{})
	if err != nil {
		return err
	}
	if !ast.IsGround(def) {
		return ast.ErrorAt(si.Pos, "Default value for '%s' must be ground: %s", si.Name, def)
	}
	si.Default = def
	return nil
}

// typeEnumeration turns the unknown names enumerated for a type into
// constructors of that type.
func (r *resolver) typeEnumeration(si *ast.SymbolInterpretation, td *ast.TypeDeclaration) error {
	e := si.Enumeration
	for _, t := range e.Tuples {
		if len(t.Args) != 1 {
			continue
		}
		u, ok := t.Args[0].(*ast.UnappliedSymbol)
		if !ok {
			continue
		}
		if _, declared := r.voc.Lookup(u.Name); declared {
			continue
		}
		e.Constructors = append(e.Constructors, ast.NewConstructor(u.Pos, u.Name, nil))
	}
	for _, c := range e.Constructors {
		if _, dup := r.voc.Lookup(c.Name()); dup {
			return ast.Errorf(c, "duplicate '%s' constructor for '%s' symbol", c.Name(), si.Name)
		}
		c.TypeName = td.Name()
		c.Owner = td
		r.voc.Declare(c)
		td.Constructors = append(td.Constructors, c)
		if td.Map == nil {
			td.Map = make(map[string]ast.Expression)
		}
		td.Map[c.Name()] = ast.Construct(c)
	}
	return nil
}
