package gateway

import (
	"context"
	"log/slog"

	"github.com/staffreview/staffreview-sheets/session"
)

// Session is the subset of session.Manager used by the Gateway.
type Session interface {
	Authenticated() bool
	SignIn(ctx context.Context) error
	Invalidate(reason string)
}

// Gateway guards every Sheets call with the session: a call made while unauthenticated
// first runs the interactive sign-in and only reaches the remote once it has succeeded.
type Gateway struct {
	spreadsheet string
	session     Session
	remote      Remote
}

func NewGateway(spreadsheet string, s Session, remote Remote) *Gateway {
	return &Gateway{
		spreadsheet: spreadsheet,
		session:     s,
		remote:      remote,
	}
}

func (g *Gateway) Spreadsheet() string {
	return g.spreadsheet
}

// Read returns the rows in the range. A failed remote call is logged and degrades to an
// empty result; only a failed sign-in is returned as an error.
func (g *Gateway) Read(ctx context.Context, area string) ([][]any, error) {
	if err := g.authorise(ctx, OpRead, area); err != nil {
		return nil, err
	}

	rows, err := g.remote.Get(ctx, g.spreadsheet, area)
	if err != nil {
		g.failed(OpRead, area, err)
		return [][]any{}, nil
	}

	if rows == nil {
		rows = [][]any{}
	}

	slog.Debug("read", "spreadsheet", g.spreadsheet, "range", area, "rows", len(rows))

	return rows, nil
}

// Append adds the rows after the last row of the table in the range.
func (g *Gateway) Append(ctx context.Context, area string, rows [][]any) (*Update, error) {
	if err := g.authorise(ctx, OpAppend, area); err != nil {
		return nil, err
	}

	update, err := g.remote.Append(ctx, g.spreadsheet, area, rows)
	if err != nil {
		g.failed(OpAppend, area, err)
		return nil, &RemoteOperationError{Op: OpAppend, Range: area, Err: err}
	}

	slog.Info("appended", "spreadsheet", g.spreadsheet, "range", update.UpdatedRange, "rows", update.UpdatedRows)

	return update, nil
}

// Write overwrites the range with the rows.
func (g *Gateway) Write(ctx context.Context, area string, rows [][]any) (*Update, error) {
	if err := g.authorise(ctx, OpWrite, area); err != nil {
		return nil, err
	}

	update, err := g.remote.Update(ctx, g.spreadsheet, area, rows)
	if err != nil {
		g.failed(OpWrite, area, err)
		return nil, &RemoteOperationError{Op: OpWrite, Range: area, Err: err}
	}

	slog.Info("updated", "spreadsheet", g.spreadsheet, "range", update.UpdatedRange, "cells", update.UpdatedCells)

	return update, nil
}

func (g *Gateway) authorise(ctx context.Context, op Operation, area string) error {
	if g.session.Authenticated() {
		return nil
	}

	slog.Debug("not signed in", "op", op, "range", area)

	if err := g.session.SignIn(ctx); err != nil {
		return err
	}

	// signed out again while the prompt was completing
	if !g.session.Authenticated() {
		return session.ErrNotAuthenticated
	}

	return nil
}

func (g *Gateway) failed(op Operation, area string, err error) {
	slog.Warn("remote operation failed", "op", op, "spreadsheet", g.spreadsheet, "range", area, "error", err)

	if IsUnauthorized(err) {
		g.session.Invalidate("remote rejected credential")
	}
}
