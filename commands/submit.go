package commands

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/staffreview/staffreview-sheets/form"
)

// Submit returns the 'submit' command, which appends a review from a TOML record file.
func Submit(options *Options) *cobra.Command {
	file := ""

	cmd := cobra.Command{
		Use:   "submit",
		Short: "Submits a staff performance review from a TOML file",
		Long: `Validates the review in a TOML record file and appends it as a new row of the configured
  worksheet. Up to three [[kra]] and three [[idea]] tables are allowed.`,
		Example: `  staffreview-sheets submit --file review.toml

  # review.toml
  full-name = "Ada Obi"
  job-title = "Youth Pastor"
  department = "Youth Ministry"
  supervisor = "Pastor John Doe"
  performance-period = "Q1 2025"
  group-pastor = "Nyanaya"
  church-pastor = "Pastor Jane Smith"

  [[kra]]
  area = "Outreach"
  achievements = "Three campus events"

  [[idea]]
  idea = "Online sign-up"
  impact = "Doubled registrations"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := loadRecord(file)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			env, err := setup(ctx, options)
			if err != nil {
				return err
			}

			defer env.Close()

			update, err := env.forms.Submit(ctx, *record)
			if err != nil {
				return err
			}

			infof("submitted review for %v to %v", record.FullName, update.UpdatedRange)

			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", file, "TOML record file")
	cmd.MarkFlagRequired("file")

	return &cmd
}

func loadRecord(file string) (*form.Record, error) {
	var record form.Record

	md, err := toml.DecodeFile(file, &record)
	if err != nil {
		return nil, fmt.Errorf("error reading record file %v (%v)", file, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown fields %v in record file %v", undecoded, file)
	}

	return &record, nil
}
