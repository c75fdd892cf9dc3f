package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vstore/internal/config"
	"github.com/vango-dev/vstore/internal/errors"
)

func configCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config [command]",
		Short: "Manage vstore.json",
		Long: `Create or inspect the vstore.json read from the --config directory.

Commands:
  init       Write a vstore.json holding the defaults
  show       Print the effective configuration`,
	}

	cmd.AddCommand(
		configInitCmd(flags),
		configShowCmd(flags),
	)

	return cmd
}

func configInitCmd(flags *globalFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default vstore.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(flags.configDir, config.ConfigFileName)
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New("S010").
					WithDetailf("%s already exists", path).
					WithSuggestion("Pass --force to overwrite it")
			}

			if err := config.New().SaveTo(path); err != nil {
				return err
			}
			success(cmd.ErrOrStderr(), "Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing vstore.json")

	return cmd
}

func configShowCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults and flag overrides are applied,
followed by the file it was read from.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if err := writeJSON(cmd.OutOrStdout(), cfg); err != nil {
				return err
			}

			source := cfg.Path()
			if source == "" {
				source = "defaults"
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "source: %s\n", source)
			return nil
		},
	}
}
