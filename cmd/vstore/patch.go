package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/vstore/pkg/store"
)

func patchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patch <state> <partial>",
		Short: "Merge a partial document into a state document",
		Long: `Merge a partial YAML or JSON document into a state document.

Nested mappings are merged key by key; every other value, lists
included, replaces the value in the state. Keys missing from the
partial are kept. Use "-" to read one of the documents from stdin.`,
		Example: `  vstore patch state.yaml partial.yaml
  echo '{"nested": {"a": 2}}' | vstore patch state.json -`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := readDocument(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			partial, err := readDocument(args[1], cmd.InOrStdin())
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), store.Merge(state, partial))
		},
	}

	return cmd
}
