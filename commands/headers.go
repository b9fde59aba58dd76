package commands

import (
	"github.com/spf13/cobra"
)

// Headers returns the 'headers' command, which writes the review header row.
func Headers(options *Options) *cobra.Command {
	worksheet := ""

	cmd := cobra.Command{
		Use:     "headers",
		Short:   "Writes the staff performance review header row to the worksheet",
		Long:    "Writes the 23 column header row to row 1 of the worksheet (default: the configured worksheet), replacing any existing headers.",
		Example: `  staffreview-sheets headers --worksheet "Reviews"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			env, err := setup(ctx, options)
			if err != nil {
				return err
			}

			defer env.Close()

			update, err := env.forms.WriteHeaders(ctx, worksheet)
			if err != nil {
				return err
			}

			infof("wrote headers to %v", update.UpdatedRange)

			return nil
		},
	}

	cmd.Flags().StringVar(&worksheet, "worksheet", worksheet, "Worksheet name")

	return &cmd
}
