package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

// Get returns the 'get' command, which downloads a spreadsheet range to a TSV file.
func Get(options *Options) *cobra.Command {
	area := ""
	file := time.Now().Format("2006-01-02T150405.tsv")

	cmd := cobra.Command{
		Use:   "get",
		Short: "Retrieves a range from the Google Sheets spreadsheet and stores it to a local TSV file",
		Long: `Downloads a Google Sheets range to a TSV file. The file defaults to <yyyy-mm-ddTHHmmss>.tsv
  in the current directory, use --file - to write to stdout.`,
		Example: `  staffreview-sheets --debug get --range "Sheet1!A1:W" --file "reviews.tsv"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkRange(area); err != nil {
				return err
			}

			ctx := cmd.Context()

			env, err := setup(ctx, options)
			if err != nil {
				return err
			}

			defer env.Close()

			rows, err := env.gateway.Read(ctx, area)
			if err != nil {
				return err
			}

			if len(rows) == 0 {
				return fmt.Errorf("no data in spreadsheet/range")
			}

			if file == "-" {
				return rowsToTSV(cmd.OutOrStdout(), rows)
			}

			tmp, err := os.CreateTemp(os.TempDir(), APP)
			if err != nil {
				return err
			}

			defer func() {
				tmp.Close()
				os.Remove(tmp.Name())
			}()

			if err := rowsToTSV(tmp, rows); err != nil {
				return fmt.Errorf("error creating TSV file (%v)", err)
			}

			tmp.Close()

			dir := filepath.Dir(file)
			if err := os.MkdirAll(dir, 0770); err != nil {
				return err
			}

			if err := os.Rename(tmp.Name(), file); err != nil {
				return err
			}

			infof("retrieved %v rows to file %s", len(rows), file)

			return nil
		},
	}

	cmd.Flags().StringVar(&area, "range", area, "Spreadsheet range e.g. 'Sheet1!A1:W'")
	cmd.Flags().StringVar(&file, "file", file, "TSV file name, '-' for stdout")
	cmd.MarkFlagRequired("range")

	return &cmd
}
