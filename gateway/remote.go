package gateway

import (
	"context"
)

// Update holds the counts reported by the Sheets API for an append or write.
type Update struct {
	SpreadsheetID  string `json:"spreadsheet-id"`
	UpdatedRange   string `json:"updated-range"`
	UpdatedRows    int64  `json:"updated-rows"`
	UpdatedColumns int64  `json:"updated-columns"`
	UpdatedCells   int64  `json:"updated-cells"`
}

// Remote is the tabular remote service: one method per Sheets 'values' call.
type Remote interface {
	Get(ctx context.Context, spreadsheet, area string) ([][]any, error)
	Append(ctx context.Context, spreadsheet, area string, rows [][]any) (*Update, error)
	Update(ctx context.Context, spreadsheet, area string, rows [][]any) (*Update, error)
}
