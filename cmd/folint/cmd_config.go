package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"folint/internal/logging"
)

func (a *app) newConfigCmd() *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Prints the configuration after the file, environment and flags have been
applied. With --write it is saved to the --config path instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if write {
				if err := a.cfg.Save(a.configPath); err != nil {
					return err
				}
				logging.Boot("wrote %s", a.configPath)
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", a.configPath)
				return err
			}
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "Save the configuration to the --config path")
	return cmd
}
