// Command folint statically checks IDP-Z3 style knowledge bases and prints
// the Clark completion of their definitions.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"folint/internal/config"
	"folint/internal/logging"
)

// errFindings signals that a check reported errors; main turns it into a
// non-zero exit without printing anything more.
var errFindings = errors.New("errors found")

// app carries the state shared by the commands of one invocation.
type app struct {
	configPath string
	verbose    bool
	semantics  string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "folint",
		Short: "Static analysis for IDP-Z3 knowledge bases",
		Long: `folint annotates a parsed knowledge base, reports type errors and
common modelling mistakes per block, and derives the Clark completion of
its definitions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logging.Sync()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", ".folint.yaml", "Configuration file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&a.semantics, "semantics", "", "Semantics of inductive definitions (wellfounded, kripkekleene, coinduction, completion)")

	root.AddCommand(a.newCheckCmd(), a.newCompleteCmd(), a.newASTCmd(), a.newConfigCmd())
	return root
}

// setup loads the configuration, applies flag overrides and installs the
// logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.semantics != "" {
		cfg.Semantics = a.semantics
	}
	if a.verbose {
		cfg.Logging.DebugMode = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	_, err = logging.Initialize(logging.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		File:       cfg.Logging.File,
		DebugMode:  cfg.Logging.DebugMode,
		Categories: cfg.Logging.Categories,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logging.Boot("%s: config %s, semantics %s", cmd.Name(), a.configPath, cfg.Semantics)
	logging.BootDebug("output %+v, watch debounce %s", cfg.Output, cfg.GetWatchDebounce())
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}
	if !errors.Is(err, errFindings) {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(1)
}
