package mangle

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClosure(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	tests := []struct {
		name      string
		edges     []Edge
		reaches   []Edge
		absent    []Edge
		recursive []string
	}{
		{
			name:  "no edges",
			edges: nil,
		},
		{
			name:    "chain",
			edges:   []Edge{{"p", "q"}, {"q", "r"}},
			reaches: []Edge{{"p", "q"}, {"q", "r"}, {"p", "r"}},
			absent:  []Edge{{"r", "p"}, {"p", "p"}},
		},
		{
			name:      "mutual recursion",
			edges:     []Edge{{"even", "odd"}, {"odd", "even"}, {"top", "even"}},
			reaches:   []Edge{{"top", "odd"}, {"even", "even"}},
			absent:    []Edge{{"even", "top"}},
			recursive: []string{"even", "odd"},
		},
		{
			name:      "names with punctuation",
			edges:     []Edge{{"_reach_lvl_map", "`p"}, {"`p", "_reach_lvl_map"}},
			recursive: []string{"`p"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := engine.Closure(tt.edges)
			require.NoError(t, err)
			for _, e := range tt.reaches {
				assert.True(t, c.Reaches(e.From, e.To), e.String())
			}
			for _, e := range tt.absent {
				assert.False(t, c.Reaches(e.From, e.To), e.String())
			}
			for _, name := range tt.recursive {
				assert.True(t, c.Recursive(name), name)
			}
			assert.False(t, c.Recursive("top"))
		})
	}
}

func TestClosurePairsAreSorted(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	c, err := engine.Closure([]Edge{{"b", "a"}, {"a", "c"}})
	require.NoError(t, err)

	want := []Edge{{"a", "c"}, {"b", "a"}, {"b", "c"}}
	assert.Empty(t, cmp.Diff(want, c.Pairs()))
	assert.Equal(t, 3, c.Len())
}
