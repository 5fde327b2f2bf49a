package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folint/internal/ast"
)

const reachability = `
    definitions:
      - rules:
          - quantees: [{vars: [x, y], in: Node}]
            head: {apply: reach, args: [x, y]}
            body: {apply: edge, args: [x, y]}
          - quantees: [{vars: [x, y], in: Node}]
            head: {apply: reach, args: [x, y]}
            body:
              exists: [{vars: [z], in: Node}]
              body:
                op: "∧"
                operands: [{apply: reach, args: [x, z]}, {apply: edge, args: [z, y]}]
`

func TestDefinitionCanonicalRules(t *testing.T) {
	th := theoryWith(t, reachability)
	def := th.Definitions[0]
	reach := th.Voc.Decls["reach"]

	require.Equal(t, []ast.Declaration{reach}, def.Defined)
	vars := def.DefVars["reach"]
	require.Len(t, vars, 2)
	assert.Equal(t, "$reach!0$", vars[0].Name)
	assert.Equal(t, "$reach!1$", vars[1].Name)

	canon := def.Canonicals[reach]
	require.Len(t, canon, 2)
	assert.Equal(t, "∀$reach!0$ ∈ Node, $reach!1$ ∈ Node: reach($reach!0$, $reach!1$) ← edge($reach!0$, $reach!1$)", canon[0].String())
	assert.Same(t, def.Rules[1], canon[1].Original)
	assert.True(t, canon[1].Definiendum.InHead)

	clark := def.Clarks[reach]
	assert.Equal(t,
		"edge($reach!0$, $reach!1$) ∨ (∃z ∈ Node: reach($reach!0$, z) ∧ edge(z, $reach!1$))",
		clark.Body.String())

	// the user rules are left untouched
	assert.Equal(t, "reach(x, y)", def.Rules[0].Definiendum.String())
}

func TestDefinitionLevelSymbols(t *testing.T) {
	th := theoryWith(t, reachability)
	def := th.Definitions[0]
	reach := th.Voc.Decls["reach"]

	level, ok := def.LevelSymbols[reach]
	require.True(t, ok)
	assert.Equal(t, "_reach_lvl_map", level.Name())
	assert.Equal(t, ast.RealType, level.Out.Name)
	assert.Len(t, level.Sorts, 2)
	assert.Same(t, level, th.Voc.Decls["_reach_lvl_map"])
}

func TestFunctionDefinitionEqualities(t *testing.T) {
	th := theoryWith(t, `
    definitions:
      - rules:
          - head: {apply: cost, args: [a]}
            out: 3
`)
	def := th.Definitions[0]
	cost := th.Voc.Decls["cost"]
	assert.Empty(t, def.LevelSymbols)

	canon := def.Canonicals[cost][0]
	assert.Equal(t,
		"∀$cost!0$ ∈ Node, $cost$ ∈ Int: cost($cost!0$) = $cost$ ← $cost!0$ = a ∧ $cost$ = 3 ∧ true",
		canon.String())
}

func TestRepeatedHeadVariable(t *testing.T) {
	th := theoryWith(t, `
    definitions:
      - rules:
          - quantees: [{vars: [x], in: Node}]
            head: {apply: edge, args: [x, x]}
`)
	def := th.Definitions[0]
	canon := def.Canonicals[th.Voc.Decls["edge"]][0]
	assert.Equal(t, "$edge!1$ = $edge!0$ ∧ true", canon.Body.String())
}

func TestDefinitionErrors(t *testing.T) {
	tests := []struct {
		name string
		rule string
		want string
	}{
		{
			"unused quantified variable",
			"{quantees: [{vars: [x, y], in: Node}], head: {apply: p, args: [x]}, body: {apply: edge, args: [x, y]}}",
			"Too many variables in head of rule",
		},
		{
			"nested recursion",
			"{quantees: [{vars: [x], in: Node}], head: {apply: p, args: [x]}, body: {op: \">\", operands: [{count: [{vars: [y], in: Node}], body: {apply: p, args: [y]}}, 1]}}",
			"Inductive definitions with nested recursion are not supported.",
		},
		{
			"intentional head",
			"{head: {apply: {eval: c}, args: [a]}}",
			"No support for intentional objects in the head of a rule",
		},
		{
			"missing function value",
			"{head: {apply: cost, args: [a]}}",
			"Missing value in the definition of function cost",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "theories:\n  - name: T\n    vocabulary: V\n    definitions:\n      - rules:\n          - " + tt.rule + "\n"
			_, _, errs := annotateSource(t, src)
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0].Error(), tt.want)
		})
	}
}
