package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vstore/internal/errors"
)

func explainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <code>",
		Short: "Describe an error code",
		Long: `Print the category, message and explanation registered for an
error code such as S011.`,
		Example: `  vstore explain S011`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.ToUpper(args[0])
			t, ok := errors.Lookup(code)
			if !ok {
				return errors.Newf(errors.CategoryCLI, "Unknown error code %q", args[0])
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", code, t.Message)
			fmt.Fprintf(out, "  Category: %s\n", t.Category)
			if t.Detail != "" {
				fmt.Fprintf(out, "  %s\n", t.Detail)
			}
			return nil
		},
	}
}
