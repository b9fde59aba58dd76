package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/staffreview/staffreview-sheets/session"
)

type outcomes chan outcome

func (o outcomes) callback(token *oauth2.Token, err error) {
	if err != nil {
		o <- outcome{err: err}
	} else {
		o <- outcome{code: token.AccessToken}
	}
}

func authServer(t *testing.T, verifiers chan<- string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/discovery", func(w http.ResponseWriter, rq *http.Request) {
		fmt.Fprint(w, `{"kind":"discovery#restDescription","name":"sheets","version":"v4","rootUrl":"https://sheets.googleapis.com/","servicePath":""}`)
	})

	mux.HandleFunc("/token", func(w http.ResponseWriter, rq *http.Request) {
		if err := rq.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if rq.PostForm.Get("code") != "4/authcode" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}

		if verifiers != nil {
			verifiers <- rq.PostForm.Get("code_verifier")
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"qwerty","token_type":"Bearer","expires_in":3600,"refresh_token":"uiop"}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func newTestProvider(srv *httptest.Server, browser func(string) error) *Google {
	return NewGoogle(Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Discovery:    srv.URL + "/discovery",
		Timeout:      5 * time.Second,
		Endpoint: oauth2.Endpoint{
			AuthURL:   srv.URL + "/auth",
			TokenURL:  srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		RevokeURL: srv.URL + "/revoke",
		Browser:   browser,
	})
}

// redirect simulates the user granting (or denying) access on the consent page.
func redirect(query func(state string) url.Values) func(string) error {
	return func(uri string) error {
		u, err := url.Parse(uri)
		if err != nil {
			return err
		}

		callback := u.Query().Get("redirect_uri") + "?" + query(u.Query().Get("state")).Encode()

		go func() {
			if response, err := http.Get(callback); err == nil {
				response.Body.Close()
			}
		}()

		return nil
	}
}

func TestLoad(t *testing.T) {
	srv := authServer(t, nil)
	g := newTestProvider(srv, nil)

	if err := g.Load(context.Background()); err != nil {
		t.Fatalf("Unexpected error loading provider (%v)", err)
	}

	expected := Discovery{
		Kind:    "discovery#restDescription",
		Name:    "sheets",
		Version: "v4",
		RootURL: "https://sheets.googleapis.com/",
	}

	if d := g.Discovery(); d == nil || *d != expected {
		t.Errorf("Incorrect discovery document\n   expected: %+v\n   got:      %+v", expected, d)
	}
}

func TestLoadWithoutClientID(t *testing.T) {
	g := NewGoogle(Config{})

	if err := g.Load(context.Background()); err == nil {
		t.Errorf("Expected error loading provider without client ID")
	}
}

func TestLoadWithInvalidDiscovery(t *testing.T) {
	srv := authServer(t, nil)
	g := newTestProvider(srv, nil)
	g.config.Discovery = srv.URL + "/missing"

	if err := g.Load(context.Background()); err == nil {
		t.Errorf("Expected error loading provider with missing discovery document")
	}
}

func TestInitTokenClientBeforeLoad(t *testing.T) {
	g := NewGoogle(Config{ClientID: "client-id"})

	if _, err := g.InitTokenClient(func(*oauth2.Token, error) {}); err == nil {
		t.Errorf("Expected error initializing token client before Load")
	}
}

func TestRequestAccessToken(t *testing.T) {
	verifiers := make(chan string, 1)
	srv := authServer(t, verifiers)

	challenge := make(chan url.Values, 1)
	grant := redirect(func(state string) url.Values {
		return url.Values{"state": {state}, "code": {"4/authcode"}, "scope": {SHEETS}}
	})

	g := newTestProvider(srv, func(uri string) error {
		u, _ := url.Parse(uri)
		challenge <- u.Query()
		return grant(uri)
	})

	if err := g.Load(context.Background()); err != nil {
		t.Fatalf("Unexpected error loading provider (%v)", err)
	}

	results := make(outcomes, 1)
	client, err := g.InitTokenClient(results.callback)
	if err != nil {
		t.Fatalf("Unexpected error initializing token client (%v)", err)
	}

	if err := client.RequestAccessToken(context.Background(), session.Prompt); err != nil {
		t.Fatalf("Unexpected error requesting access token (%v)", err)
	}

	select {
	case o := <-results:
		if o.err != nil {
			t.Fatalf("Unexpected token request error (%v)", o.err)
		}

		if o.code != "qwerty" {
			t.Errorf("Incorrect access token - expected:%v, got:%v", "qwerty", o.code)
		}

	case <-time.After(5 * time.Second):
		t.Fatalf("Timeout waiting for token callback")
	}

	q := <-challenge
	if q.Get("prompt") != session.Prompt {
		t.Errorf("Incorrect prompt - expected:%v, got:%v", session.Prompt, q.Get("prompt"))
	}

	if q.Get("code_challenge_method") != "S256" || q.Get("code_challenge") == "" {
		t.Errorf("Missing PKCE challenge in authorisation URL (%v)", q)
	}

	if v := <-verifiers; v == "" {
		t.Errorf("Missing PKCE verifier in token exchange")
	}
}

func TestRequestAccessTokenDenied(t *testing.T) {
	srv := authServer(t, nil)
	g := newTestProvider(srv, redirect(func(state string) url.Values {
		return url.Values{"state": {state}, "error": {"access_denied"}}
	}))

	if err := g.Load(context.Background()); err != nil {
		t.Fatalf("Unexpected error loading provider (%v)", err)
	}

	results := make(outcomes, 1)
	client, _ := g.InitTokenClient(results.callback)

	if err := client.RequestAccessToken(context.Background(), session.Prompt); err != nil {
		t.Fatalf("Unexpected error requesting access token (%v)", err)
	}

	select {
	case o := <-results:
		var perr *session.ProviderError
		if !errors.As(o.err, &perr) {
			t.Fatalf("Expected ProviderError, got %v", o.err)
		}

		if perr.Code != "access_denied" {
			t.Errorf("Incorrect error code - expected:%v, got:%v", "access_denied", perr.Code)
		}

	case <-time.After(5 * time.Second):
		t.Fatalf("Timeout waiting for token callback")
	}
}

func TestRequestAccessTokenTimeout(t *testing.T) {
	srv := authServer(t, nil)
	g := newTestProvider(srv, func(string) error { return nil })
	g.config.Timeout = 50 * time.Millisecond

	if err := g.Load(context.Background()); err != nil {
		t.Fatalf("Unexpected error loading provider (%v)", err)
	}

	results := make(outcomes, 1)
	client, _ := g.InitTokenClient(results.callback)

	if err := client.RequestAccessToken(context.Background(), ""); err != nil {
		t.Fatalf("Unexpected error requesting access token (%v)", err)
	}

	select {
	case o := <-results:
		if !errors.Is(o.err, ErrTimeout) {
			t.Errorf("Expected ErrTimeout, got %v", o.err)
		}

	case <-time.After(5 * time.Second):
		t.Fatalf("Timeout waiting for token callback")
	}
}

func TestRevoke(t *testing.T) {
	revoked := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		rq.ParseForm()
		revoked <- rq.PostForm.Get("token")
	}))
	defer srv.Close()

	g := NewGoogle(Config{ClientID: "client-id", RevokeURL: srv.URL})
	token := oauth2.Token{AccessToken: "qwerty", RefreshToken: "uiop"}

	if err := g.Revoke(context.Background(), &token); err != nil {
		t.Fatalf("Unexpected error revoking token (%v)", err)
	}

	if v := <-revoked; v != "uiop" {
		t.Errorf("Incorrect revoked token - expected:%v, got:%v", "uiop", v)
	}
}

func TestRevokeWithError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		http.Error(w, `{"error":"invalid_token"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	g := NewGoogle(Config{ClientID: "client-id", RevokeURL: srv.URL})

	if err := g.Revoke(context.Background(), &oauth2.Token{AccessToken: "qwerty"}); err == nil {
		t.Errorf("Expected error revoking invalid token")
	}
}
