package httpd

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/errors"

	"github.com/staffreview/staffreview-sheets/form"
	"github.com/staffreview/staffreview-sheets/gateway"
	"github.com/staffreview/staffreview-sheets/session"
)

//go:embed html
var html embed.FS

const keepalive = 15 * time.Second

// Session is the subset of session.Manager used by the HTTP server.
type Session interface {
	Authenticated() bool
	Subscribe() (<-chan bool, func())
	SignIn(ctx context.Context) error
	SignOut(ctx context.Context)
}

// Forms is the subset of form.Service used by the HTTP server.
type Forms interface {
	Options() form.Options
	Submit(ctx context.Context, r form.Record) (*gateway.Update, error)
}

// Sheet is the subset of gateway.Gateway used by the HTTP server.
type Sheet interface {
	Read(ctx context.Context, area string) ([][]any, error)
}

type Server struct {
	session Session
	forms   Forms
	sheet   Sheet
}

type status struct {
	Authenticated bool `json:"authenticated"`
}

type validation struct {
	Valid  bool             `json:"valid"`
	Errors []form.FieldError `json:"errors,omitempty"`
}

func NewServer(s Session, forms Forms, sheet Sheet) *Server {
	return &Server{
		session: s,
		forms:   forms,
		sheet:   sheet,
	}
}

// Handler returns an http.Handler with all routes registered.
func (s *Server) Handler() http.Handler {
	static, _ := fs.Sub(html, "html")

	mux := http.NewServeMux()
	mux.Handle("GET /", http.FileServer(http.FS(static)))
	mux.HandleFunc("GET /api/options", s.handleOptions)
	mux.HandleFunc("GET /api/session", s.handleSession)
	mux.HandleFunc("GET /api/session/events", s.handleSessionEvents)
	mux.HandleFunc("POST /api/signin", s.handleSignIn)
	mux.HandleFunc("POST /api/signout", s.handleSignOut)
	mux.HandleFunc("POST /api/validate", s.handleValidate)
	mux.HandleFunc("POST /api/submit", s.handleSubmit)
	mux.HandleFunc("GET /api/rows", s.handleRows)

	return mux
}

// Run serves HTTP on the bind address until the context is cancelled.
func (s *Server) Run(ctx context.Context, bind string) error {
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return errors.Wrap(err, "listen")
	}

	return s.Serve(ctx, listener)
}

func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()

		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		srv.Shutdown(shutdown)
	}()

	slog.Info("serving staff performance form", "url", fmt.Sprintf("http://%v/", listener.Addr()))

	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.forms.Options())
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, status{Authenticated: s.session.Authenticated()})
}

// handleSessionEvents streams the authentication state as server-sent events: the current
// state first, then every transition.
func (s *Server) handleSessionEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	ch, cancel := s.session.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	ticker := time.NewTicker(keepalive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case authenticated, ok := <-ch:
			if !ok {
				return
			}

			data, _ := json.Marshal(status{Authenticated: authenticated})
			fmt.Fprintf(w, "event:session\ndata:%s\n\n", data)
			flusher.Flush()

		case <-ticker.C:
			fmt.Fprintf(w, ":keepalive\n\n")
			flusher.Flush()
		}
	}
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if err := s.session.SignIn(r.Context()); err != nil {
		slog.Warn("sign-in failed", "error", err)
		writeError(w, statusOf(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, status{Authenticated: s.session.Authenticated()})
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	s.session.SignOut(r.Context())

	writeJSON(w, http.StatusOK, status{Authenticated: s.session.Authenticated()})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	step, err := strconv.Atoi(r.URL.Query().Get("step"))
	if err != nil || step < 1 || step > form.Steps {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid step '%v'", r.URL.Query().Get("step")))
		return
	}

	var record form.Record
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid record (%v)", err))
		return
	}

	fields := record.Validate(step, s.forms.Options())

	writeJSON(w, http.StatusOK, validation{Valid: len(fields) == 0, Errors: fields})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var record form.Record
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid record (%v)", err))
		return
	}

	update, err := s.forms.Submit(r.Context(), record)
	if err != nil {
		var verr *form.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, validation{Valid: false, Errors: verr.Fields})
			return
		}

		slog.Warn("submit failed", "error", err)
		writeError(w, statusOf(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, update)
}

func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	area := r.URL.Query().Get("range")
	if area == "" {
		writeError(w, http.StatusBadRequest, "missing range")
		return
	}

	rows, err := s.sheet.Read(r.Context(), area)
	if err != nil {
		writeError(w, statusOf(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"range": area, "rows": rows})
}

func statusOf(err error) int {
	var serr *session.SignInError
	var rerr *gateway.RemoteOperationError

	switch {
	case errors.As(err, &serr), errors.Is(err, session.ErrNotAuthenticated):
		return http.StatusUnauthorized

	case errors.Is(err, session.ErrNotInitialized):
		return http.StatusServiceUnavailable

	case errors.As(err, &rerr):
		return http.StatusBadGateway

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout

	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
