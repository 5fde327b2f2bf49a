package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"folint/internal/ast"
	"folint/internal/logging"
)

func (a *app) newCompleteCmd() *cobra.Command {
	var explain bool
	cmd := &cobra.Command{
		Use:   "complete FILE",
		Short: "Print the Clark completion of every definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runComplete(cmd.OutOrStdout(), args[0], explain)
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "Keep one reverse implication per rule")
	return cmd
}

func (a *app) runComplete(out io.Writer, path string, explain bool) error {
	prog, failed, err := a.load(path)
	if err != nil {
		return err
	}
	if len(failed) > 0 {
		var errs []error
		for _, b := range prog.Blocks() {
			if err, ok := failed[b]; ok {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
	eng, err := a.engine()
	if err != nil {
		return err
	}

	for _, th := range prog.Theories {
		for i, def := range th.Definitions {
			formulas, err := eng.Complete(def, explain)
			if err != nil {
				return fmt.Errorf("theory %s: %w", th.Name, err)
			}
			if _, err := fmt.Fprintf(out, "-- theory %s, definition %d (%s)\n", th.Name, i+1, eng.Semantics()); err != nil {
				return err
			}
			if err := writeCompletions(out, def, formulas); err != nil {
				return err
			}
			logging.Complete("theory %s, definition %d: %d completions", th.Name, i+1, len(formulas))
		}
	}
	return nil
}

// writeCompletions prints the formulas in the order the symbols are
// defined.
func writeCompletions(out io.Writer, def *ast.Definition, formulas map[ast.Declaration]ast.Expression) error {
	for _, decl := range def.Defined {
		f, ok := formulas[decl]
		if !ok {
			continue
		}
		if _, err := fmt.Fprintf(out, "%s: %s\n", decl.Name(), f); err != nil {
			return err
		}
	}
	return nil
}
