package commands

import (
	"github.com/spf13/cobra"

	"github.com/staffreview/staffreview-sheets/form"
)

// List returns the 'list' command, which lists the reviews stored in the worksheet.
func List(options *Options) *cobra.Command {
	cmd := cobra.Command{
		Use:     "list",
		Short:   "Lists the staff performance reviews in the worksheet",
		Long:    "Reads back the reviews in the configured worksheet and writes a TSV summary to stdout.",
		Example: `  staffreview-sheets list`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			env, err := setup(ctx, options)
			if err != nil {
				return err
			}

			defer env.Close()

			submissions, err := env.forms.Submissions(ctx)
			if err != nil {
				return err
			}

			if len(submissions) == 0 {
				infof("no reviews in worksheet %v", env.forms.Worksheet())
				return nil
			}

			return rowsToTSV(cmd.OutOrStdout(), summarise(submissions))
		},
	}

	return &cmd
}

func summarise(submissions []form.Submission) [][]any {
	rows := [][]any{
		{"Full Name", "Department/Unit(s)", "Performance Period", "KRAs", "Ideas", form.DateCreated},
	}

	for _, s := range submissions {
		rows = append(rows, []any{
			s.FullName,
			s.Department,
			s.PerformancePeriod,
			len(s.KRAs),
			len(s.Ideas),
			s.Created.Format(form.TIMESTAMP),
		})
	}

	return rows
}
