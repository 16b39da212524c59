package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type listOptions struct {
	artifacts bool
}

func newListCmd(flags *rootFlags) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog test cases",
		Example: `  casebot list
  casebot list --artifacts`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Test cases in %s (%d total):\n\n", a.catalog.Location(), a.catalog.Len())
			for _, rec := range a.catalog.Records() {
				script := rec.ScriptPath
				if !rec.HasScript() {
					script = "(no script_path)"
				}
				fmt.Fprintf(out, "  %-3d %-30s %s\n", rec.Index, rec.Title, script)
			}

			if !opts.artifacts {
				return nil
			}

			index := a.catalog.Artifacts()
			fmt.Fprintf(out, "\nScripts under %s (%d total):\n\n", index.Root(), index.Len())
			for _, p := range index.Paths() {
				fmt.Fprintf(out, "  %s\n", p)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.artifacts, "artifacts", false, "Also list the scanned test scripts")
	return cmd
}
