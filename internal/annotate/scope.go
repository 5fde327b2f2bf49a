package annotate

import (
	"maps"
	"slices"

	"folint/internal/ast"
)

// scope maps the variables visible at a point to their declarations, in
// binding order.
type scope struct {
	names []string
	vars  map[string]*ast.Variable
}

func (s scope) lookup(name string) (*ast.Variable, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// with returns a copy of s extended with v.
func (s scope) with(v *ast.Variable) scope {
	out := scope{vars: maps.Clone(s.vars)}
	if out.vars == nil {
		out.vars = make(map[string]*ast.Variable)
	}
	out.names = slices.DeleteFunc(slices.Clone(s.names), func(n string) bool { return n == v.Name })
	out.names = append(out.names, v.Name)
	out.vars[v.Name] = v
	return out
}

func (s scope) variables() []*ast.Variable {
	out := make([]*ast.Variable, len(s.names))
	for i, n := range s.names {
		out[i] = s.vars[n]
	}
	return out
}
