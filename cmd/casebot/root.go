package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

// rootFlags are shared by every subcommand
type rootFlags struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "casebot",
		Short: "Find UI test cases from chat requests and run them on GitHub Actions",
		Long: "casebot matches a free-text request against a test case catalog, resolves the\n" +
			"test script that implements it and triggers a GitHub Actions workflow for it.",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		Version: version,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", os.Getenv("CASEBOT_CONFIG"), "Path to a YAML or TOML config file")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newSimulateCmd(flags))
	cmd.AddCommand(newSearchCmd(flags))
	cmd.AddCommand(newDispatchCmd(flags))
	cmd.AddCommand(newListCmd(flags))
	return cmd
}
