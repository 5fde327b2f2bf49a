package sca

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"folint/internal/ast"
)

func TestCompareTypes(t *testing.T) {
	tests := []struct {
		t1, t2 string
		want   int
	}{
		{"Int", "Int", SameType},
		{"Node", "Node", SameType},
		{"ℤ", "Int", SameType},
		{"Int", "Real", Widening},
		{"Real", "Int", Widening},
		{"Int", "Node", Questionable},
		{"Node", "Date", Questionable},
		{"Bool", "Int", Questionable},
		{"Bool", "Real", Questionable},
		{"Int", "Bool", Questionable},
		{"Int", "Date", Questionable},
		{"Real", "Bool", Questionable},
		{"Date", "Int", Questionable},
		{"Bool", "Date", Questionable},
		{"Date", "Bool", Questionable},
		{"Real", "Date", Incompatible},
		{"Date", "Real", Incompatible},
		{"Node", "Color", Incompatible},
	}
	for _, tt := range tests {
		t.Run(tt.t1+"/"+tt.t2, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareTypes(tt.t1, tt.t2))
		})
	}
}

func TestDiagnosticLocation(t *testing.T) {
	v := ast.NewVariable(ast.Pos{Line: 3, Col: 5}, "total", nil)
	one, err := ast.NewNumber(ast.Pos{Line: 2, Col: 7}, "1")
	assert.NoError(t, err)
	br := ast.NewBrackets(ast.Pos{Line: 2, Col: 6}, one)
	arg := &ast.CallArg{Pos: ast.Pos{Line: 9, Col: 16}, Name: "T"}

	tests := []struct {
		name string
		node ast.Node
		want Location
	}{
		{"named node", v, Location{Line: 3, ColStart: 5, ColEnd: 10}},
		{"reading", br, Location{Line: 2, ColStart: 6, ColEnd: 9}},
		{"call argument", arg, Location{Line: 9, ColStart: 16, ColEnd: 17}},
		{"no node", nil, Location{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Diagnostic{Node: tt.node, Message: "m", Severity: Warning}
			assert.Equal(t, tt.want, d.Location())
		})
	}
}

func TestPartition(t *testing.T) {
	diags := []Diagnostic{
		{Message: "w1", Severity: Warning},
		{Message: "e1", Severity: Error},
		{Message: "w2", Severity: Warning},
	}
	errs, warnings := Partition(diags)
	assert.Equal(t, []Diagnostic{diags[1]}, errs)
	assert.Equal(t, []Diagnostic{diags[0], diags[2]}, warnings)
	assert.Equal(t, "Error", Error.String())
	assert.Equal(t, "Warning", Warning.String())
}
