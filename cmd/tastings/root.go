package main

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	storeType  string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "tastings",
		Short:         "tastings - Coffee Tasting Club records",
		Long:          "tastings records coffee tasting sessions in a CSV file, a Google Sheet or a local SQLite database.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/tastings/config.toml)")
	cmd.PersistentFlags().StringVar(&opts.storeType, "store", "", "Store type: csv, sheets, or sqlite")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, or error")

	cmd.AddCommand(newAddCmd(opts))
	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newShowCmd(opts))
	cmd.AddCommand(newEditCmd(opts))
	cmd.AddCommand(newDeleteCmd(opts))
	cmd.AddCommand(newChartCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newMCPCmd(opts))
	cmd.AddCommand(newShareCmd(opts))

	return cmd
}
