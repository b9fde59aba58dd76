package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Append returns the 'append' command, which adds rows after the last row of a table.
func Append(options *Options) *cobra.Command {
	area := ""
	file := ""
	cells := []string{}

	cmd := cobra.Command{
		Use:   "append",
		Short: "Appends rows to a table in the Google Sheets spreadsheet",
		Long: `Appends the rows from a TSV file (or a single row from --row) after the last row of the
  table in the range. Values are stored as is, without formula or date parsing.`,
		Example: `  staffreview-sheets append --range "Sheet1!A:B" --row "x,y"
  staffreview-sheets append --range "Sheet1!A:W" --file "reviews.tsv"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkRange(area); err != nil {
				return err
			}

			var rows [][]any

			switch {
			case file != "" && len(cells) > 0:
				return fmt.Errorf("--file and --row are mutually exclusive")

			case file != "":
				f, err := os.Open(file)
				if err != nil {
					return err
				}

				defer f.Close()

				if rows, err = tsvToRows(f); err != nil {
					return fmt.Errorf("invalid TSV file (%v)", err)
				}

			case len(cells) > 0:
				row := []any{}
				for _, v := range cells {
					row = append(row, v)
				}

				rows = [][]any{row}

			default:
				return fmt.Errorf("one of --file or --row is required")
			}

			ctx := cmd.Context()

			env, err := setup(ctx, options)
			if err != nil {
				return err
			}

			defer env.Close()

			update, err := env.gateway.Append(ctx, area, rows)
			if err != nil {
				return err
			}

			infof("appended %v rows to %v", update.UpdatedRows, update.UpdatedRange)

			return nil
		},
	}

	cmd.Flags().StringVar(&area, "range", area, "Spreadsheet range e.g. 'Sheet1!A:W'")
	cmd.Flags().StringVar(&file, "file", file, "TSV file with the rows to append")
	cmd.Flags().StringSliceVar(&cells, "row", cells, "Comma separated cells of a single row to append")
	cmd.MarkFlagRequired("range")

	return &cmd
}
