package gateway

import (
	"context"

	"github.com/go-faster/errors"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	RAW         = "RAW"
	INSERT_ROWS = "INSERT_ROWS"
)

// Sheets allows 60 requests per minute per user - the default pacing stays just under it.
var DefaultRate = rate.Limit(0.9)

const DefaultBurst = 5

// SheetsRemote implements Remote over the Google Sheets v4 REST API. Requests are paced
// by a token bucket so a burst of form submissions doesn't exhaust the per-user quota.
type SheetsRemote struct {
	google  *sheets.Service
	limiter *rate.Limiter
}

// NewSheetsRemote creates the Sheets client. Authentication is supplied by the options,
// typically option.WithTokenSource(manager).
func NewSheetsRemote(ctx context.Context, limiter *rate.Limiter, options ...option.ClientOption) (*SheetsRemote, error) {
	google, err := sheets.NewService(ctx, options...)
	if err != nil {
		return nil, errors.Wrap(err, "create Sheets client")
	}

	if limiter == nil {
		limiter = rate.NewLimiter(DefaultRate, DefaultBurst)
	}

	return &SheetsRemote{
		google:  google,
		limiter: limiter,
	}, nil
}

func (r *SheetsRemote) Get(ctx context.Context, spreadsheet, area string) ([][]any, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	response, err := r.google.Spreadsheets.Values.Get(spreadsheet, area).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	return response.Values, nil
}

func (r *SheetsRemote) Append(ctx context.Context, spreadsheet, area string, rows [][]any) (*Update, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	values := sheets.ValueRange{
		Values: rows,
	}

	response, err := r.google.Spreadsheets.Values.Append(spreadsheet, area, &values).
		ValueInputOption(RAW).
		InsertDataOption(INSERT_ROWS).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	update := Update{
		SpreadsheetID: response.SpreadsheetId,
	}

	if u := response.Updates; u != nil {
		update.UpdatedRange = u.UpdatedRange
		update.UpdatedRows = u.UpdatedRows
		update.UpdatedColumns = u.UpdatedColumns
		update.UpdatedCells = u.UpdatedCells
	}

	return &update, nil
}

func (r *SheetsRemote) Update(ctx context.Context, spreadsheet, area string, rows [][]any) (*Update, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	values := sheets.ValueRange{
		Values: rows,
	}

	response, err := r.google.Spreadsheets.Values.Update(spreadsheet, area, &values).
		ValueInputOption(RAW).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	return &Update{
		SpreadsheetID:  response.SpreadsheetId,
		UpdatedRange:   response.UpdatedRange,
		UpdatedRows:    response.UpdatedRows,
		UpdatedColumns: response.UpdatedColumns,
		UpdatedCells:   response.UpdatedCells,
	}, nil
}
