package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSemantics(t *testing.T) {
	for _, s := range []Semantics{WellFounded, KripkeKleene, Coinduction, Completion} {
		got, err := ParseSemantics(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseSemantics("stable")
	assert.Error(t, err)
	assert.Equal(t, "Semantics(9)", Semantics(9).String())
}

func TestLevelOperatorTable(t *testing.T) {
	type key struct{ pos, polarity bool }
	table := map[Semantics]map[key]string{
		WellFounded: {
			{true, true}: ">", {false, true}: "≥", {true, false}: "≤", {false, false}: "<",
		},
		KripkeKleene: {
			{true, true}: ">", {false, true}: ">", {true, false}: "≤", {false, false}: "≤",
		},
		Coinduction: {
			{true, true}: "≥", {false, true}: ">", {true, false}: "<", {false, false}: "≤",
		},
	}
	for sem, ops := range table {
		for k, want := range ops {
			assert.Equal(t, want, sem.LevelOperator(k.pos, k.polarity), "%s pos=%v polarity=%v", sem, k.pos, k.polarity)
		}
	}
	assert.Empty(t, Completion.LevelOperator(true, true))
}
