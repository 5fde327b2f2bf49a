package main

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"folint/internal/ast"
	"folint/internal/logging"
	"folint/internal/report"
	"folint/internal/watch"
)

type checkFlags struct {
	noTiming    bool
	printAST    bool
	addFilename bool
	format      string
	color       bool
	watch       bool
}

func (a *app) newCheckCmd() *cobra.Command {
	f := &checkFlags{}
	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Run the static checks on parsed knowledge bases",
		Long: `Annotates each file and reports, per block, the type errors and
style warnings found. Exits non-zero when any error is reported.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd, f, args)
		},
	}
	cmd.Flags().BoolVar(&f.noTiming, "no-timing", false, "Do not print the elapsed time")
	cmd.Flags().BoolVar(&f.printAST, "print-ast", false, "Print the annotated tree before the report")
	cmd.Flags().BoolVar(&f.addFilename, "add-filename", false, "Prefix each finding with the file name")
	cmd.Flags().StringVar(&f.format, "format", "", "Report format (text, json)")
	cmd.Flags().BoolVar(&f.color, "color", false, "Colorize severities")
	cmd.Flags().BoolVar(&f.watch, "watch", false, "Re-check files when they change")
	return cmd
}

// reportOptions merges the configured output with the flags set on cmd.
func (a *app) reportOptions(cmd *cobra.Command, f *checkFlags) report.Options {
	opts := report.Options{
		Format:      a.cfg.Output.Format,
		AddFilename: a.cfg.Output.AddFilename,
		Color:       a.cfg.Output.Color,
		Timing:      a.cfg.Output.Timing,
	}
	flags := cmd.Flags()
	if flags.Changed("format") {
		opts.Format = f.format
	}
	if flags.Changed("add-filename") {
		opts.AddFilename = f.addFilename
	}
	if flags.Changed("color") {
		opts.Color = f.color
	}
	if flags.Changed("no-timing") {
		opts.Timing = !f.noTiming
	}
	return opts
}

func (a *app) runCheck(cmd *cobra.Command, f *checkFlags, args []string) error {
	files, err := expandFiles(args)
	if err != nil {
		return err
	}
	opts := a.reportOptions(cmd, f)
	out := cmd.OutOrStdout()

	if f.watch {
		return a.watch(cmd.Context(), out, files, opts, f.printAST)
	}
	failed, err := a.checkAll(cmd.Context(), out, files, opts, f.printAST)
	if err != nil {
		return err
	}
	if failed {
		return errFindings
	}
	return nil
}

// checkAll checks files concurrently and writes their reports in
// argument order. It reports whether any file has errors.
func (a *app) checkAll(ctx context.Context, out io.Writer, files []string, opts report.Options, printAST bool) (bool, error) {
	results := make([]checked, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := a.checkFile(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return false, err
	}

	failed := false
	for _, res := range results {
		if printAST && res.prog != nil {
			if err := ast.Dump(out, res.prog); err != nil {
				return false, err
			}
		}
		if err := report.Write(out, res.report, opts); err != nil {
			return false, err
		}
		failed = failed || res.report.HasErrors()
	}
	logging.Check("checked %d files, errors found: %t", len(files), failed)
	return failed, nil
}

// watch checks files once, then again on every change until ctx ends.
func (a *app) watch(ctx context.Context, out io.Writer, files []string, opts report.Options, printAST bool) error {
	if _, err := a.checkAll(ctx, out, files, opts, printAST); err != nil {
		return err
	}
	w, err := watch.New(files, a.cfg.GetWatchDebounce(), func(ctx context.Context, path string) {
		if _, err := a.checkAll(ctx, out, []string{path}, opts, printAST); err != nil {
			logging.WatchWarn("re-check of %s failed: %v", path, err)
		}
	})
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return err
	}
	defer w.Stop()

	logging.Watch("watching %d files", len(files))
	<-w.Done()
	return nil
}
