package commands

import (
	"github.com/spf13/cobra"
)

// Version returns the 'version' command, which displays the current version.
func Version() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Displays the current version",
		Long:  "Displays the " + APP + " version in the format v<major>.<minor>.<build> e.g. v0.1.0",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Printf("%s\n", VERSION)
			return nil
		},
	}
}
