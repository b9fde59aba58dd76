package identity

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-faster/errors"

	"github.com/staffreview/staffreview-sheets/session"
)

var ErrTimeout = errors.New("timed out waiting for authorisation")

var page = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
  <head><title>staffreview-sheets</title></head>
  <body style="font-family: sans-serif; text-align: center; margin-top: 4em">
    <h2>{{.Title}}</h2>
    <p>{{.Message}}</p>
  </body>
</html>
`))

type outcome struct {
	code string
	err  error
}

// listener receives the OAuth2 redirect on the loopback interface.
type listener struct {
	state   string
	port    int
	server  *http.Server
	outcome chan outcome
}

func listen(port int, state string) (*listener, error) {
	socket, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, errors.Wrap(err, "start redirect listener")
	}

	l := listener{
		state:   state,
		port:    socket.Addr().(*net.TCPAddr).Port,
		outcome: make(chan outcome, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", l.handle)

	l.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := l.server.Serve(socket); err != nil && err != http.ErrServerClosed {
			l.deliver(outcome{err: errors.Wrap(err, "redirect listener")})
		}
	}()

	return &l, nil
}

func (l *listener) redirectURL() string {
	return fmt.Sprintf("http://127.0.0.1:%d/", l.port)
}

func (l *listener) handle(w http.ResponseWriter, rq *http.Request) {
	if rq.URL.Path != "/" {
		http.NotFound(w, rq)
		return
	}

	state := rq.FormValue("state")
	code := rq.FormValue("code")

	slog.Debug("authorisation redirect", "state", state, "code", code != "", "scope", rq.FormValue("scope"))

	switch {
	case rq.FormValue("error") != "":
		l.deliver(outcome{
			err: &session.ProviderError{
				Code:        rq.FormValue("error"),
				Description: rq.FormValue("error_description"),
			},
		})
		render(w, http.StatusOK, "Authorisation failed", rq.FormValue("error"))

	case state != l.state:
		render(w, http.StatusBadRequest, "Authorisation failed", "Invalid state parameter")

	case code == "":
		render(w, http.StatusBadRequest, "Authorisation failed", "Missing authorisation code")

	default:
		l.deliver(outcome{code: code})
		render(w, http.StatusOK, "Authorisation successful", "You can close this window and return to staffreview-sheets")
	}
}

func (l *listener) deliver(o outcome) {
	select {
	case l.outcome <- o:
	default:
	}
}

func (l *listener) wait(ctx context.Context, timeout time.Duration) (string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case o := <-l.outcome:
		return o.code, o.err

	case <-ctx.Done():
		return "", ctx.Err()

	case <-timer.C:
		return "", ErrTimeout
	}
}

func (l *listener) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := l.server.Shutdown(ctx); err != nil {
		slog.Warn("redirect listener shutdown", "error", err)
	}
}

func render(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	page.Execute(w, map[string]string{
		"Title":   title,
		"Message": message,
	})
}
