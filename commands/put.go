package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Put returns the 'put' command, which uploads a TSV file to a spreadsheet range.
func Put(options *Options) *cobra.Command {
	area := ""
	file := ""

	cmd := cobra.Command{
		Use:   "put",
		Short: "Uploads a TSV file to the Google Sheets spreadsheet",
		Long: `Uploads a TSV file to a Google Sheets range, overwriting the existing values. The first
  row of the file is written to the first row of the range.`,
		Example: `  staffreview-sheets --debug put --range "Sheet1!A1:W" --file "reviews.tsv"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkRange(area); err != nil {
				return err
			}

			f, err := os.Open(file)
			if err != nil {
				return err
			}

			defer f.Close()

			rows, err := tsvToRows(f)
			if err != nil {
				return fmt.Errorf("invalid TSV file (%v)", err)
			}

			ctx := cmd.Context()

			env, err := setup(ctx, options)
			if err != nil {
				return err
			}

			defer env.Close()

			update, err := env.gateway.Write(ctx, area, rows)
			if err != nil {
				return err
			}

			infof("uploaded TSV file %v to %v (%v cells)", file, update.UpdatedRange, update.UpdatedCells)

			return nil
		},
	}

	cmd.Flags().StringVar(&area, "range", area, "Spreadsheet range e.g. 'Sheet1!A1:W'")
	cmd.Flags().StringVar(&file, "file", file, "TSV file")
	cmd.MarkFlagRequired("range")
	cmd.MarkFlagRequired("file")

	return &cmd
}
