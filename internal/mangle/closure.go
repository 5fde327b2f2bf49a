// Package mangle computes the transitive dependency relation between
// declarations with a small Datalog program evaluated by Google Mangle.
package mangle

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	_ "github.com/google/mangle/builtin"
	mengine "github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/parse"

	"folint/internal/logging"
)

// closureProgram derives reaches/2, the transitive closure of depends/2.
const closureProgram = `
Decl depends(X, Y).

reaches(X, Y) :- depends(X, Y).
reaches(X, Z) :- depends(X, Y), reaches(Y, Z).
`

var (
	dependsSym = ast.PredicateSym{Symbol: "depends", Arity: 2}
	reachesSym = ast.PredicateSym{Symbol: "reaches", Arity: 2}
)

// Edge states that From depends on To.
type Edge struct {
	From, To string
}

func (e Edge) String() string { return e.From + " -> " + e.To }

// Closure is the transitive closure of a set of edges.
type Closure struct {
	pairs map[Edge]struct{}
}

// Reaches reports whether from depends on to, directly or indirectly.
func (c *Closure) Reaches(from, to string) bool {
	_, ok := c.pairs[Edge{from, to}]
	return ok
}

// Recursive reports whether name depends on itself.
func (c *Closure) Recursive(name string) bool { return c.Reaches(name, name) }

// Len returns the number of pairs in the closure.
func (c *Closure) Len() int { return len(c.pairs) }

// Pairs returns the closure in a stable order.
func (c *Closure) Pairs() []Edge {
	out := make([]Edge, 0, len(c.pairs))
	for e := range c.pairs {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b Edge) int {
		if c := strings.Compare(a.From, b.From); c != 0 {
			return c
		}
		return strings.Compare(a.To, b.To)
	})
	return out
}

// Engine evaluates dependency closures. The Datalog program is analyzed
// once; each evaluation runs against a fresh fact store.
type Engine struct {
	mu          sync.Mutex
	programInfo *analysis.ProgramInfo
}

// NewEngine parses and analyzes the closure program.
func NewEngine() (*Engine, error) {
	unit, err := parse.Unit(strings.NewReader(closureProgram))
	if err != nil {
		return nil, fmt.Errorf("failed to parse closure program: %w", err)
	}
	programInfo, err := analysis.AnalyzeOneUnit(unit, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze closure program: %w", err)
	}
	return &Engine{programInfo: programInfo}, nil
}

// Closure returns the transitive closure of edges.
func (e *Engine) Closure(edges []Edge) (*Closure, error) {
	out := &Closure{pairs: make(map[Edge]struct{})}
	if len(edges) == 0 {
		return out, nil
	}

	// Declaration names are arbitrary strings; the store only sees ids.
	ids := make(map[string]ast.Constant)
	names := make(map[string]string)
	constant := func(name string) (ast.Constant, error) {
		if c, ok := ids[name]; ok {
			return c, nil
		}
		c, err := ast.Name(fmt.Sprintf("/d%d", len(ids)))
		if err != nil {
			return ast.Constant{}, err
		}
		ids[name] = c
		names[c.Symbol] = name
		return c, nil
	}

	store := factstore.NewSimpleInMemoryStore()
	for _, edge := range edges {
		from, err := constant(edge.From)
		if err != nil {
			return nil, err
		}
		to, err := constant(edge.To)
		if err != nil {
			return nil, err
		}
		store.Add(ast.Atom{Predicate: dependsSym, Args: []ast.BaseTerm{from, to}})
	}

	e.mu.Lock()
	stats, err := mengine.EvalProgramWithStats(e.programInfo, store)
	e.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate dependency closure: %w", err)
	}
	logging.AnnotateDebug("dependency closure over %d edges: %+v", len(edges), stats)

	err = store.GetFacts(ast.NewQuery(reachesSym), func(atom ast.Atom) error {
		from, ok1 := atom.Args[0].(ast.Constant)
		to, ok2 := atom.Args[1].(ast.Constant)
		if !ok1 || !ok2 {
			return fmt.Errorf("unexpected reaches fact %v", atom)
		}
		out.pairs[Edge{names[from.Symbol], names[to.Symbol]}] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
