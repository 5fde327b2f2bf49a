package sca

import "folint/internal/ast"

// Comparison categories returned by CompareTypes.
const (
	SameType     = 1 // identical
	Widening     = 2 // Int and Real
	Questionable = 3 // comparable with care: Warning
	Incompatible = 4 // Error
)

func builtin(t string) bool {
	switch ast.NormalizeTypeName(t) {
	case ast.IntType, ast.BoolType, ast.RealType, ast.DateType:
		return true
	}
	return false
}

// CompareTypes classifies a pair of type names by how safely values of
// the two types can be compared.
func CompareTypes(t1, t2 string) int {
	t1, t2 = ast.NormalizeTypeName(t1), ast.NormalizeTypeName(t2)
	if t1 == t2 {
		return SameType
	}
	if (t1 == ast.IntType && t2 == ast.RealType) || (t1 == ast.RealType && t2 == ast.IntType) {
		return Widening
	}
	b1, b2 := builtin(t1), builtin(t2)
	switch {
	case b1 != b2:
		return Questionable
	case !b1:
		return Incompatible
	}
	switch t1 {
	case ast.BoolType:
		return Questionable
	case ast.IntType:
		if t2 == ast.BoolType || t2 == ast.DateType {
			return Questionable
		}
	case ast.RealType:
		if t2 == ast.BoolType {
			return Questionable
		}
	case ast.DateType:
		if t2 == ast.IntType || t2 == ast.BoolType {
			return Questionable
		}
	}
	return Incompatible
}
