package parsetree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folint/internal/ast"
)

const sample = `
vocabularies:
  - name: V
    declarations:
      - type: Color
        constructors: [red, green]
      - type: Point
        constructors:
          - name: pt
            args: [{accessor: px, type: Int}, Int]
      - type: Age
        range: [0, 120]
      - symbol: [p, q]
        sorts: [Color]
      - symbol: size
        out: Int
        annotations: ["the size"]
theories:
  - name: T
    vocabulary: V
    constraints:
      - forall: [{vars: [x], in: Color}]
        body: {apply: p, args: [x]}
      - op: "<"
        operands: [size, 3]
      - {apply: q, args: [red], not_in: [[red], [green]]}
    definitions:
      - rules:
          - quantees: [{vars: [x], in: Color}]
            head: {apply: q, args: [x]}
            body: {not: {apply: p, args: [x]}}
structures:
  - name: S
    interpretations:
      - symbol: p
        tuples: [red]
procedures:
  - calls:
      - call: model_expand
        args: [T, S]
`

func TestDecodeProgram(t *testing.T) {
	prog, err := DecodeBytes([]byte(sample))
	require.NoError(t, err)

	require.Len(t, prog.Vocabularies, 1)
	voc := prog.Vocabularies[0]
	require.Len(t, voc.Declarations, 6)
	assert.Equal(t, "Color", voc.Declarations[0].Name())

	point := voc.Declarations[1].(*ast.TypeDeclaration)
	assert.True(t, point.ConstructedFrom)
	require.Len(t, point.Constructors[0].Args, 2)
	assert.Equal(t, "px", point.Constructors[0].Args[0].Name)
	assert.Equal(t, "", point.Constructors[0].Args[1].Name)

	age := voc.Declarations[2].(*ast.TypeDeclaration)
	require.NotNil(t, age.Enumeration.Range)
	assert.Equal(t, "120", age.Enumeration.Range.Hi.Text)

	assert.Equal(t, "q", voc.Declarations[4].Name())
	size := voc.Declarations[5].(*ast.SymbolDeclaration)
	assert.True(t, size.Function())
	assert.Equal(t, "the size", size.Annotations.Reading)

	require.Len(t, prog.Theories, 1)
	th := prog.Theories[0]
	require.Len(t, th.Constraints, 3)
	assert.Equal(t, "∀x ∈ Color: p(x)", th.Constraints[0].String())
	assert.Equal(t, "size < 3", th.Constraints[1].String())
	assert.Equal(t, "q(red) not in {red, green}", th.Constraints[2].String())

	require.Len(t, th.Definitions, 1)
	rule := th.Definitions[0].Rules[0]
	assert.Equal(t, "q", rule.Definiendum.Symbol.Name())
	assert.Equal(t, "¬(p(x))", rule.Body.String())

	require.Len(t, prog.Structures, 1)
	assert.Equal(t, "V", prog.Structures[0].VocabName)
	assert.Equal(t, "p", prog.Structures[0].Interpretations[0].Name)

	require.Len(t, prog.Procedures, 1)
	assert.Equal(t, "model_expand(T, S)", prog.Procedures[0].Calls[0].String())
}

func TestDecodePositions(t *testing.T) {
	src := "theories:\n  - constraints:\n      - {apply: p, args: [x], pos: [7, 3]}\n      - {apply: q}\n"
	prog, err := DecodeBytes([]byte(src))
	require.NoError(t, err)
	cs := prog.Theories[0].Constraints
	assert.Equal(t, ast.Pos{Line: 7, Col: 3}, cs[0].Position())
	assert.Equal(t, ast.Pos{Line: 4, Col: 9}, cs[1].Position())
}

func TestDecodeScalars(t *testing.T) {
	src := "theories:\n  - constraints: [1, 2.5, true, \"#2024-01-02\", x, {number: \"1/3\"}]\n"
	prog, err := DecodeBytes([]byte(src))
	require.NoError(t, err)
	cs := prog.Theories[0].Constraints
	require.Len(t, cs, 6)

	assert.IsType(t, &ast.Number{}, cs[0])
	assert.Equal(t, ast.IntType, cs[0].Info().Type)
	assert.Equal(t, ast.RealType, cs[1].Info().Type)
	assert.Equal(t, "true", cs[2].(*ast.UnappliedSymbol).Name)
	assert.IsType(t, &ast.Date{}, cs[3])
	assert.Equal(t, "x", cs[4].(*ast.UnappliedSymbol).Name)
	assert.Equal(t, ast.RealType, cs[5].Info().Type)
}

func TestDecodeQuantees(t *testing.T) {
	src := `
theories:
  - constraints:
      - exists: [{tuple: [x, y], in: edge}, {vars: [z]}]
        body: {apply: edge, args: [x, z]}
      - count: [{vars: [x], in: Color}]
        body: {apply: p, args: [x]}
      - forall: [{vars: [c], in: {name: Concept, ins: [Color], out: Bool}}]
        body: {apply: {eval: c}, args: [red]}
`
	prog, err := DecodeBytes([]byte(src))
	require.NoError(t, err)
	cs := prog.Theories[0].Constraints

	q := cs[0].(*ast.Quantification)
	assert.Equal(t, "∃", q.Q)
	require.Len(t, q.Quantees, 2)
	assert.Equal(t, []string{"x", "y"}, q.Quantees[0].Names())
	assert.Nil(t, q.Quantees[1].Sort)

	agg := cs[1].(*ast.Aggregate)
	assert.Equal(t, ast.AggCount, agg.Kind)

	all := cs[2].(*ast.Quantification)
	sort := all.Quantees[0].Sort.(*ast.Subtype)
	assert.Equal(t, "Concept", sort.Name)
	require.Len(t, sort.Ins, 1)
	assert.Equal(t, "$(c)(red)", all.Body.String())
}

func TestDecodeExpressionAnnotations(t *testing.T) {
	src := "theories:\n  - constraints:\n      - {apply: p, annotations: [\"p holds\", \"hint: x\"]}\n      - {apply: q, annotations: [\"hint: y\"]}\n"
	prog, err := DecodeBytes([]byte(src))
	require.NoError(t, err)
	cs := prog.Theories[0].Constraints

	ann := cs[0].Info().Annotations
	assert.True(t, ann.Explicit)
	assert.Equal(t, "p holds", ann.Reading)
	assert.Equal(t, "x", ann.Values["hint"])

	assert.Equal(t, "q()", cs[1].Info().Annotations.Reading)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown block", "widgets: []\n", "unknown block list"},
		{"unknown expression", "theories:\n  - constraints: [{frobnicate: 1}]\n", "unknown expression"},
		{"mixed families", "theories:\n  - constraints: [{ops: [\"∧\", \"<\"], operands: [a, b, c]}]\n", "cannot be chained"},
		{"head", "theories:\n  - definitions: [{rules: [{head: 3}]}]\n", "head of rule must be an atom"},
		{"duplicate annotation", "theories:\n  - constraints: [{apply: p, annotations: [\"a: 1\", \"a: 2\"]}]\n", "Duplicate annotation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBytes([]byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecodeSyntaxErrorIsLocated(t *testing.T) {
	_, err := DecodeBytes([]byte("vocabularies: []\na: b: c\n"))
	var located *ast.Error
	require.ErrorAs(t, err, &located)
	assert.Equal(t, ast.Pos{Line: 2, Col: 1}, located.Pos)
	assert.Equal(t, "mapping values are not allowed in this context", located.Msg)
}

func TestDecodeEmptyAndFile(t *testing.T) {
	prog, err := DecodeBytes(nil)
	require.NoError(t, err)
	assert.Empty(t, prog.Blocks())

	path := filepath.Join(t.TempDir(), "prog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	prog, err = DecodeFile(path)
	require.NoError(t, err)
	assert.Len(t, prog.Blocks(), 4)

	_, err = DecodeFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
