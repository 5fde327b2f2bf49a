package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"folint/internal/ast"
)

func (a *app) newASTCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ast FILE",
		Short: "Print the annotated tree",
		Long:  `Prints the annotated tree. Blocks that fail annotation are printed as far as they were annotated, after the error.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, failed, err := a.load(args[0])
			if err != nil {
				return err
			}
			for _, b := range prog.Blocks() {
				if err, ok := failed[b]; ok {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
				}
			}
			return ast.Dump(cmd.OutOrStdout(), prog)
		},
	}
}
