package form

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/staffreview/staffreview-sheets/gateway"
)

// Sheet is the subset of gateway.Gateway used to store reviews.
type Sheet interface {
	Read(ctx context.Context, area string) ([][]any, error)
	Append(ctx context.Context, area string, rows [][]any) (*gateway.Update, error)
	Write(ctx context.Context, area string, rows [][]any) (*gateway.Update, error)
}

// Service stores staff performance reviews in a worksheet.
type Service struct {
	sheet   Sheet
	name    string
	options Options
	now     func() time.Time
}

func NewService(sheet Sheet, worksheet string, options Options) *Service {
	return &Service{
		sheet:   sheet,
		name:    worksheet,
		options: options,
		now:     time.Now,
	}
}

func (s *Service) Options() Options {
	return s.options
}

func (s *Service) Worksheet() string {
	return s.name
}

// Submit validates the record and appends it as a new row of the worksheet.
func (s *Service) Submit(ctx context.Context, r Record) (*gateway.Update, error) {
	if err := r.Check(s.options); err != nil {
		return nil, err
	}

	area := fmt.Sprintf("%v!A:%v", s.name, column(len(Headers())))
	row := Row(r, s.now())

	update, err := s.sheet.Append(ctx, area, [][]any{row})
	if err != nil {
		return nil, err
	}

	slog.Info("review submitted", "name", clean(r.FullName), "period", clean(r.PerformancePeriod), "range", update.UpdatedRange)

	return update, nil
}

// WriteHeaders writes the header row to row 1 of the worksheet, replacing any existing
// headers.
func (s *Service) WriteHeaders(ctx context.Context, worksheet string) (*gateway.Update, error) {
	if worksheet == "" {
		worksheet = s.name
	}

	header := []any{}
	for _, h := range Headers() {
		header = append(header, h)
	}

	area := fmt.Sprintf("%v!A1", worksheet)
	update, err := s.sheet.Write(ctx, area, [][]any{header})
	if err != nil {
		return nil, err
	}

	slog.Info("headers written", "worksheet", worksheet, "columns", len(header))

	return update, nil
}

// Submissions reads back the reviews stored in the worksheet.
func (s *Service) Submissions(ctx context.Context) ([]Submission, error) {
	area := fmt.Sprintf("%v!A:%v", s.name, column(len(Headers())))

	rows, err := s.sheet.Read(ctx, area)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return []Submission{}, nil
	}

	return MakeSubmissions(rows)
}

// column converts a 1-based column number to its A1 letters.
func column(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+n%26)) + s
		n /= 26
	}

	return s
}
