package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDispatchCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "dispatch <path>",
		Short: "Trigger the test workflow for a script path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(flags)
			if err != nil {
				return err
			}
			//nolint:errcheck // Sync fails on terminals
			defer logger.Sync()

			dispatcher := newDispatcher(cfg, logger)
			result := dispatcher.Trigger(cmd.Context(), args[0])

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Mode:     %s\n", result.Mode)
			fmt.Fprintf(out, "Workflow: %s\n", result.Target)
			fmt.Fprintf(out, "Request:  %s\n", result.RequestID)
			if !result.Success {
				return fmt.Errorf("dispatch failed: %s", result.Detail)
			}
			fmt.Fprintf(out, "Dispatched %s\n", args[0])
			return nil
		},
	}
}
