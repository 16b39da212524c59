package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query...>",
		Short: "Show the test case and script a query resolves to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.close()

			query := strings.Join(args, " ")
			lookup := a.orchestrator.Lookup(cmd.Context(), query)

			out := cmd.OutOrStdout()
			if !lookup.Matched {
				fmt.Fprintf(out, "No test case matches %q\n", query)
				return nil
			}
			fmt.Fprintf(out, "Title:       %s\n", lookup.Record.Title)
			fmt.Fprintf(out, "Description: %s\n", lookup.Record.Description)
			fmt.Fprintf(out, "Script:      %s\n", lookup.Resolution)
			fmt.Fprintf(out, "Source:      %s\n", lookup.Resolution.Source)
			return nil
		},
	}
}
