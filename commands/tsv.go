package commands

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// rowsToTSV writes the rows of a range as tab separated values. Rows are written as is,
// without padding short rows.
func rowsToTSV(f io.Writer, rows [][]any) error {
	if len(rows) == 0 {
		return fmt.Errorf("Empty range")
	}

	w := csv.NewWriter(f)
	w.Comma = '\t'

	for _, row := range rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = clean(fmt.Sprintf("%v", v))
		}

		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()

	return w.Error()
}

// tsvToRows reads a TSV file into rows for a values.update or values.append.
func tsvToRows(f io.Reader) ([][]any, error) {
	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("TSV file is empty")
	}

	rows := make([][]any, 0, len(records))
	for _, record := range records {
		row := make([]any, len(record))
		for i, v := range record {
			row[i] = v
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// checkRange verifies that a range is in A1 notation with a sheet name e.g. 'Sheet1!A2:E'.
func checkRange(area string) error {
	if !regexp.MustCompile(`^(.+?)!([a-zA-Z]+)([0-9]+)?(:([a-zA-Z]+)([0-9]+)?)?$`).MatchString(strings.TrimSpace(area)) {
		return fmt.Errorf("Invalid spreadsheet range '%s' - expected something like 'Sheet1!A2:E'", area)
	}

	return nil
}

func clean(v string) string {
	return strings.TrimSpace(v)
}
