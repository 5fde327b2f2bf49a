// Package annotate resolves names against vocabularies, infers types and
// free variables, and applies the normalizing rewrites that the checker
// and the completion engine rely on.
package annotate

import (
	"fmt"
	"maps"

	"folint/internal/ast"
	"folint/internal/logging"
	"folint/internal/mangle"
)

// Options configures an Annotator.
type Options struct {
	// Reserved names are excluded from duplicate checks and dependency
	// analysis. Nil means ast.DefaultReserved.
	Reserved ast.Reserved
}

// Annotator annotates the blocks of one program. It is not safe for
// concurrent use.
type Annotator struct {
	reserved     ast.Reserved
	vocabularies map[string]*ast.Vocabulary
	blocks       map[string]bool
	closure      *mangle.Engine
	log          *logging.Logger
}

// New creates an Annotator.
func New(opts Options) *Annotator {
	reserved := opts.Reserved
	if reserved == nil {
		reserved = ast.DefaultReserved()
	}
	return &Annotator{
		reserved:     reserved,
		vocabularies: make(map[string]*ast.Vocabulary),
		blocks:       make(map[string]bool),
		log:          logging.Get(logging.CategoryAnnotate),
	}
}

// BlockError reports the structural failure of one block.
type BlockError struct {
	Block ast.Block
	Err   error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Block.Kind(), e.Block.BlockName(), e.Err)
}

func (e *BlockError) Unwrap() error { return e.Err }

// Program annotates every block of p: vocabularies first, then
// structures, theories and procedures. A structural error aborts only the
// block it occurs in; the failures are returned in block order.
func (a *Annotator) Program(p *ast.Program) []error {
	for _, b := range p.Blocks() {
		a.blocks[b.BlockName()] = true
	}
	var errs []error
	for _, b := range p.Blocks() {
		var err error
		switch blk := b.(type) {
		case *ast.Vocabulary:
			err = a.Vocabulary(blk)
		case *ast.Structure:
			err = a.Structure(blk)
		case *ast.Theory:
			err = a.Theory(blk)
		case *ast.Procedure:
			err = a.Procedure(blk)
		}
		if err != nil {
			a.log.Debug("%s %s failed: %v", b.Kind(), b.BlockName(), err)
			errs = append(errs, &BlockError{Block: b, Err: err})
		}
	}
	return errs
}

// LookupVocabulary returns an annotated vocabulary by name.
func (a *Annotator) LookupVocabulary(name string) (*ast.Vocabulary, bool) {
	v, ok := a.vocabularies[name]
	return v, ok
}

func (a *Annotator) vocabularyOf(n ast.Node, name string) (*ast.Vocabulary, error) {
	voc, ok := a.vocabularies[name]
	if !ok {
		return nil, ast.Errorf(n, "Unknown vocabulary: %s", name)
	}
	return voc, nil
}

func (a *Annotator) closureEngine() (*mangle.Engine, error) {
	if a.closure == nil {
		engine, err := mangle.NewEngine()
		if err != nil {
			return nil, err
		}
		a.closure = engine
	}
	return a.closure, nil
}

// Theory annotates the interpretations, definitions and constraints of t.
func (a *Annotator) Theory(t *ast.Theory) error {
	voc, err := a.vocabularyOf(t, t.VocabName)
	if err != nil {
		return err
	}
	t.Voc = voc
	r := a.resolver(voc)
	for _, si := range t.Interpretations {
		if err := r.interpretation(si); err != nil {
			return err
		}
	}
	for _, d := range t.Definitions {
		if err := r.definition(d); err != nil {
			return err
		}
	}
	for i, c := range t.Constraints {
		out, err := r.expr(c, scope{})
		if err != nil {
			return err
		}
		t.Constraints[i] = out
	}
	a.log.Debug("theory %s: %d constraints, %d definitions", t.Name, len(t.Constraints), len(t.Definitions))
	return nil
}

// Structure annotates the interpretations of s.
func (a *Annotator) Structure(s *ast.Structure) error {
	voc, err := a.vocabularyOf(s, s.VocabName)
	if err != nil {
		return err
	}
	s.Voc = voc
	r := a.resolver(voc)
	for _, si := range s.Interpretations {
		if err := r.interpretation(si); err != nil {
			return err
		}
	}
	return nil
}

// Procedure records the block names its calls may refer to.
func (a *Annotator) Procedure(p *ast.Procedure) error {
	p.KnownBlocks = maps.Clone(a.blocks)
	return nil
}

// Expression annotates a free-standing expression against voc.
func (a *Annotator) Expression(voc *ast.Vocabulary, e ast.Expression) (ast.Expression, error) {
	return a.resolver(voc).expr(e, scope{})
}
