package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/staffreview/staffreview-sheets/commands"
)

var options = commands.Options{
	Config:    "",
	Debug:     false,
	LogFormat: "text",
}

var cli = []*cobra.Command{
	commands.Version(),
	commands.Authorise(&options),
	commands.Revoke(&options),
	commands.Get(&options),
	commands.Put(&options),
	commands.Append(&options),
	commands.Headers(&options),
	commands.Submit(&options),
	commands.List(&options),
	commands.Serve(&options),
}

func main() {
	root := cobra.Command{
		Use:           commands.APP,
		Short:         "Stores staff performance reviews in a Google Sheets spreadsheet",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return options.InitLogging(os.Stderr)
		},
	}

	root.PersistentFlags().StringVar(&options.Config, "config", options.Config, "Configuration file (default: <user config dir>/staffreview-sheets/staffreview-sheets.toml)")
	root.PersistentFlags().BoolVar(&options.Debug, "debug", options.Debug, "Enable debugging information")
	root.PersistentFlags().StringVar(&options.LogFormat, "log-format", options.LogFormat, "Log format ('text' or 'json')")
	root.AddCommand(cli...)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "\n   ERROR: %v\n\n", err)
		cancel()
		os.Exit(1)
	}
}
