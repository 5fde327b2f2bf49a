package ast

import (
	"maps"
	"slices"
)

// VarSet is a set of free variable names.
type VarSet map[string]struct{}

// NewVarSet returns a set holding names.
func NewVarSet(names ...string) VarSet {
	s := make(VarSet, len(names))
	s.Add(names...)
	return s
}

func (s VarSet) Add(names ...string) {
	for _, n := range names {
		s[n] = struct{}{}
	}
}

func (s VarSet) Remove(names ...string) {
	for _, n := range names {
		delete(s, n)
	}
}

func (s VarSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Union adds every member of other to s.
func (s VarSet) Union(other VarSet) {
	for n := range other {
		s[n] = struct{}{}
	}
}

// Minus returns the members of s missing from other.
func (s VarSet) Minus(other VarSet) VarSet {
	out := VarSet{}
	for n := range s {
		if !other.Has(n) {
			out[n] = struct{}{}
		}
	}
	return out
}

func (s VarSet) Clone() VarSet {
	if s == nil {
		return VarSet{}
	}
	return maps.Clone(s)
}

func (s VarSet) Equal(other VarSet) bool {
	if len(s) != len(other) {
		return false
	}
	for n := range s {
		if !other.Has(n) {
			return false
		}
	}
	return true
}

// Sorted returns the members in lexical order.
func (s VarSet) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}
