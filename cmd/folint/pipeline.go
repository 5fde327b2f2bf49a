package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"folint/internal/annotate"
	"folint/internal/ast"
	"folint/internal/completion"
	"folint/internal/logging"
	"folint/internal/parsetree"
	"folint/internal/report"
	"folint/internal/sca"
)

// expandFiles resolves shell-style patterns the shell did not expand.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err != nil {
				return nil, fmt.Errorf("no files found matching: %s", pattern)
			}
			matches = []string{pattern}
		}
		files = append(files, matches...)
	}
	return files, nil
}

func (a *app) reserved() ast.Reserved {
	r := ast.DefaultReserved()
	for _, name := range a.cfg.Reserved {
		r[name] = true
	}
	return r
}

func (a *app) engine() (*completion.Engine, error) {
	sem, err := completion.ParseSemantics(a.cfg.Semantics)
	if err != nil {
		return nil, err
	}
	return completion.New(sem), nil
}

// load decodes and annotates path. Blocks that failed annotation are
// returned with their errors; a decode failure returns a nil program.
func (a *app) load(path string) (*ast.Program, map[ast.Block]error, error) {
	timer := logging.StartTimer(logging.CategoryLoad, "load "+path)
	defer timer.Stop()

	prog, err := parsetree.DecodeFile(path)
	if err != nil {
		logging.LoadDebug("decode %s failed: %v", path, err)
		return nil, nil, err
	}
	logging.Load("decoded %s: %d blocks", path, len(prog.Blocks()))

	failed := make(map[ast.Block]error)
	for _, err := range annotate.New(annotate.Options{Reserved: a.reserved()}).Program(prog) {
		var be *annotate.BlockError
		if errors.As(err, &be) {
			failed[be.Block] = err
			continue
		}
		return prog, failed, err
	}
	logging.Annotate("annotated %s: %d of %d blocks failed", path, len(failed), len(prog.Blocks()))
	return prog, failed, nil
}

// slowCheck is the duration above which checking one file is logged as a
// warning.
const slowCheck = 2 * time.Second

// checked is the outcome of checking one file.
type checked struct {
	report *report.Report
	prog   *ast.Program
}

// checkFile runs the whole pipeline on path. Structural failures end up
// in the report; only unexpected errors are returned.
func (a *app) checkFile(path string) (checked, error) {
	timer := logging.StartTimer(logging.CategoryCheck, "check "+path)
	defer timer.StopWithThreshold(slowCheck)
	log := logging.Get(logging.CategoryCheck).With("file", path)

	start := time.Now()
	rep := report.New(path)
	out := checked{report: rep}
	defer func() { rep.Elapsed = time.Since(start) }()

	prog, failed, err := a.load(path)
	if err != nil {
		rep.Fail(err)
		return out, nil
	}
	out.prog = prog
	eng, err := a.engine()
	if err != nil {
		return out, err
	}

	for _, b := range prog.Blocks() {
		if err, ok := failed[b]; ok {
			rep.Fail(err)
			continue
		}
		if th, ok := b.(*ast.Theory); ok {
			if err := complete(eng, th); err != nil {
				rep.Fail(err)
				continue
			}
		}
		rep.Add(b, sca.Check(b))
	}
	errs, warnings := rep.Counts()
	log.Info("%d errors, %d warnings", errs, warnings)
	return out, nil
}

// complete derives the completion of every definition of th, surfacing
// definitions that cannot be completed.
func complete(eng *completion.Engine, th *ast.Theory) error {
	for i, def := range th.Definitions {
		formulas, err := eng.Complete(def, false)
		if err != nil {
			return fmt.Errorf("theory %s: %w", th.Name, err)
		}
		logging.CompleteDebug("theory %s, definition %d: %d completions", th.Name, i+1, len(formulas))
	}
	return nil
}
