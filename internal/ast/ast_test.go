package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typed(name, sort string) *Variable {
	return NewVariable(Pos{Line: 1, Col: 1}, name, NewSubtype(Pos{}, sort, nil, nil))
}

func pred(name string, sorts ...string) *SymbolDeclaration {
	subs := make([]*Subtype, len(sorts))
	for i, s := range sorts {
		subs[i] = NewSubtype(Pos{}, s, nil, nil)
	}
	return NewSymbolDeclaration(Pos{}, name, subs, NewSubtype(Pos{}, BoolType, nil, nil))
}

func fun(name, out string, sorts ...string) *SymbolDeclaration {
	d := pred(name, sorts...)
	d.Out = NewSubtype(Pos{}, out, nil, nil)
	return d
}

func TestRenderPrecedence(t *testing.T) {
	p := NewUnappliedSymbol(Pos{}, "p")
	q := NewUnappliedSymbol(Pos{}, "q")
	r := NewUnappliedSymbol(Pos{}, "r")

	tests := []struct {
		name string
		expr Expression
		want string
	}{
		{"disjunction under conjunction", And(Or(p, q), r), "(p ∨ q) ∧ r"},
		{"conjunction under disjunction", Or(And(p, q), r), "p ∧ q ∨ r"},
		{"equivalence under implication", Implies(Equiv(p, q), r), "(p ⇔ q) ⇒ r"},
		{"negation", Not(And(p, q)), "¬(p ∧ q)"},
		{"single operand", And(p), "p"},
		{"empty conjunction", And(), "true"},
		{"empty disjunction", Or(), "false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.String())
		})
	}
}

func TestOperatorInferType(t *testing.T) {
	one, err := NewNumber(Pos{}, "1")
	require.NoError(t, err)
	half, err := NewNumber(Pos{}, "1/2")
	require.NoError(t, err)
	age := typed("a", "Age")

	tests := []struct {
		name     string
		operands []Expression
		want     string
	}{
		{"int and real", []Expression{one, half}, RealType},
		{"ints", []Expression{one, one}, IntType},
		{"user type", []Expression{age, age}, "Age"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := NewOperator(Pos{}, SumMinus, []string{"+"}, tt.operands).Infer()
			assert.Equal(t, tt.want, op.Info().Type)
		})
	}

	cmpOp := NewOperator(Pos{}, Comparison, []string{"=<"}, []Expression{one, half})
	assert.Equal(t, BoolType, cmpOp.Infer().Info().Type)
	assert.Equal(t, "1 ≤ 1/2", cmpOp.String())
}

func TestSameAsIgnoresBrackets(t *testing.T) {
	x := typed("x", "T")
	p := pred("p", "T")
	atom := Apply(p, []Expression{x})
	nested := NewBrackets(Pos{}, NewBrackets(Pos{}, atom))
	empty := NewQuantification(Pos{}, "∀", nil, atom)

	assert.True(t, SameAs(atom, nested))
	assert.True(t, SameAs(nested, atom))
	assert.True(t, SameAs(atom, empty))
	assert.False(t, SameAs(atom, Apply(p, []Expression{typed("y", "T")})))
}

func TestSameAsComparesKinds(t *testing.T) {
	x := typed("x", "T")
	sym := NewSymbol(Pos{}, "x")
	require.Equal(t, x.String(), sym.String())

	assert.False(t, SameAs(x, sym))
	assert.False(t, SameAs(sym, x))
	assert.True(t, SameAs(x, typed("x", "T")))
	assert.False(t, SameAs(NewBrackets(Pos{}, x), sym))
}

func TestCopySharesVariablesOnly(t *testing.T) {
	x := typed("x", "T")
	p := pred("p", "T")
	atom := Apply(p, []Expression{x})
	conj := And(atom, True()).(*Operator)

	cp := conj.Copy().(*Operator)
	require.NotSame(t, conj, cp)
	require.NotSame(t, conj.Operands[0], cp.Operands[0])
	assert.Same(t, x, cp.Operands[0].(*AppliedSymbol).Args[0])

	cp.Operands[0] = False()
	assert.Equal(t, "p(x) ∧ true", conj.String())
	assert.Equal(t, "false ∧ true", cp.String())
}

func TestVariablesOfQuantification(t *testing.T) {
	x, y := typed("x", "T"), typed("y", "T")
	q := pred("q", "T", "T")
	body := Apply(q, []Expression{x, y})
	f := ForAll([]*Quantee{QuanteeOf(x)}, body)

	assert.Equal(t, []string{"x", "y"}, body.Variables.Sorted())
	assert.Equal(t, []string{"y"}, f.Info().Variables.Sorted())
	assert.Equal(t, "∀x ∈ T: q(x, y)", f.String())
}

func TestNewQuantificationSplitsUntypedQuantee(t *testing.T) {
	x := NewVariable(Pos{}, "x", nil)
	y := NewVariable(Pos{}, "y", nil)
	qe := NewQuantee(Pos{}, [][]*Variable{{x}, {y}}, nil)
	f := NewQuantification(Pos{}, "!", []*Quantee{qe}, True())

	require.Len(t, f.Quantees, 2)
	assert.Equal(t, "∀", f.Q)
	assert.Equal(t, []string{"x"}, f.Quantees[0].Names())
	assert.Equal(t, []string{"y"}, f.Quantees[1].Names())
}

func TestUnaryCollapsesEvenNegations(t *testing.T) {
	p := Apply(pred("p"), nil)
	assert.Same(t, Expression(p), NewUnary(Pos{}, []string{"¬", "¬"}, p).Infer())

	odd := NewUnary(Pos{}, []string{"not", "¬", "¬"}, p).Infer()
	assert.Equal(t, BoolType, odd.Info().Type)
	assert.Equal(t, "¬¬¬(p())", odd.String())
}

func TestInstantiate(t *testing.T) {
	x, y := typed("x", "T"), typed("y", "T")
	p, q := pred("p", "T"), pred("q", "T", "T")
	e := And(Apply(p, []Expression{x}), Apply(q, []Expression{x, y}))

	got := Instantiate(e, "x", Int(1))
	assert.Equal(t, "p(1) ∧ q(1, y)", got.String())
	assert.Equal(t, []string{"y"}, got.Info().Variables.Sorted())
	assert.Equal(t, "p(1) ∧ q(1, y)", got.Code())
	assert.Equal(t, "p(x) ∧ q(x, y)", e.String(), "source is untouched")
}

func TestInstantiateRespectsShadowing(t *testing.T) {
	x := typed("x", "T")
	p := pred("p", "T")
	inner := ForAll([]*Quantee{QuanteeOf(x)}, Apply(p, []Expression{x}))

	got := Instantiate(inner, "x", Int(3))
	assert.Equal(t, "∀x ∈ T: p(x)", got.String())
}

func TestCollectSymbols(t *testing.T) {
	x := typed("x", "T")
	p, f := pred("p", "T"), fun("f", IntType, "T")
	e := And(Apply(p, []Expression{x}), Compare("=", Apply(f, []Expression{x}), Int(3)))

	all := CollectSymbols(e, DefaultReserved())
	nested := CollectNestedSymbols(e, DefaultReserved())

	assert.Empty(t, cmp.Diff([]string{"f", "p"}, sortedKeys(all)))
	assert.Empty(t, cmp.Diff([]string{"f"}, sortedKeys(nested)))
}

func TestCollectSkipsReservedAndConstructors(t *testing.T) {
	abs := fun("abs", IntType, IntType)
	e := Compare("=", Apply(abs, []Expression{Int(-1)}), Int(1))
	e = And(e, True())
	assert.Empty(t, CollectSymbols(e, DefaultReserved()))
}

func TestIsGround(t *testing.T) {
	red := NewConstructor(Pos{}, "red", nil)
	red.TypeName = "Color"
	num, err := NewNumber(Pos{}, "2.5")
	require.NoError(t, err)

	assert.True(t, IsGround(num))
	assert.True(t, IsGround(Construct(red)))
	assert.True(t, IsGround(NewDate(Pos{}, "2024-01-31")))
	assert.False(t, IsGround(typed("x", "T")))
	assert.False(t, IsGround(Apply(pred("p"), nil)))
}

func TestNumberTypes(t *testing.T) {
	for text, want := range map[string]string{"3": IntType, "3.0": RealType, "1/3": RealType, "-4": IntType} {
		n, err := NewNumber(Pos{}, text)
		require.NoError(t, err, text)
		assert.Equal(t, want, n.Type, text)
	}
	_, err := NewNumber(Pos{Line: 2, Col: 4}, "abc")
	require.Error(t, err)
	assert.Equal(t, `Error on line 2, col 4: invalid number "abc"`, err.Error())
}

func TestVarSet(t *testing.T) {
	s := NewVarSet("a", "b")
	s.Union(NewVarSet("c"))
	s.Remove("a")
	assert.Equal(t, []string{"b", "c"}, s.Sorted())
	assert.Equal(t, []string{"c"}, s.Minus(NewVarSet("b")).Sorted())
	assert.True(t, s.Equal(NewVarSet("c", "b")))
	assert.False(t, s.Has("a"))
}

func TestParseAnnotations(t *testing.T) {
	ann, err := ParseAnnotations(Pos{}, []string{
		"the age of a person",
		"short: age",
		"slider: (min_age, 0), (max_age, 120)",
	})
	require.NoError(t, err)
	assert.Equal(t, "the age of a person", ann.Reading)
	assert.Equal(t, map[string]string{"short": "age"}, ann.Values)
	assert.Equal(t, Slider{LowerSymbol: "min_age", LowerBound: "0", UpperSymbol: "max_age", UpperBound: "120"}, ann.Sliders["slider"])

	_, err = ParseAnnotations(Pos{Line: 3, Col: 1}, []string{"k: a", "k: b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Duplicate annotation: [k: b]")
}

func TestConceptConstructors(t *testing.T) {
	voc := NewVocabulary(Pos{}, "V")
	concept := NewTypeDeclaration(Pos{}, ConceptType, []*Constructor{
		NewConstructor(Pos{}, "`Bool", nil),
		NewConstructor(Pos{}, "`p", nil),
	}, nil)
	voc.Declare(concept)

	var names []string
	for c := range voc.ConceptConstructors() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"`Bool", "`p"}, names)
}
