package identity

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/staffreview/staffreview-sheets/session"
)

const (
	SHEETS    = "https://www.googleapis.com/auth/spreadsheets"
	DISCOVERY = "https://sheets.googleapis.com/$discovery/rest?version=v4"
	REVOKE    = "https://oauth2.googleapis.com/revoke"

	DEFAULT_TIMEOUT = 5 * time.Minute
)

// Config holds the OAuth2 client settings for the Google identity provider.
type Config struct {
	ClientID     string
	ClientSecret string
	Scopes       []string
	Discovery    string
	RedirectPort int
	Timeout      time.Duration
	Endpoint     oauth2.Endpoint
	RevokeURL    string
	HTTPClient   *http.Client
	Browser      func(string) error
}

// Google implements session.Provider with the OAuth2 authorization code flow (with PKCE)
// over a loopback redirect, as recommended for installed applications.
type Google struct {
	config Config

	sync.Mutex
	oauth     *oauth2.Config
	discovery *Discovery
}

func NewGoogle(config Config) *Google {
	if len(config.Scopes) == 0 {
		config.Scopes = []string{SHEETS}
	}

	if config.Timeout <= 0 {
		config.Timeout = DEFAULT_TIMEOUT
	}

	if config.Endpoint.AuthURL == "" {
		config.Endpoint = google.Endpoint
	}

	if config.RevokeURL == "" {
		config.RevokeURL = REVOKE
	}

	if config.HTTPClient == nil {
		config.HTTPClient = http.DefaultClient
	}

	if config.Browser == nil {
		config.Browser = openBrowser
	}

	return &Google{
		config: config,
	}
}

// Load validates the client configuration and fetches the API discovery document.
func (g *Google) Load(ctx context.Context) error {
	if strings.TrimSpace(g.config.ClientID) == "" {
		return errors.New("missing OAuth2 client ID")
	}

	var doc *Discovery
	if g.config.Discovery != "" {
		d, err := fetchDiscovery(ctx, g.config.HTTPClient, g.config.Discovery)
		if err != nil {
			return err
		}

		slog.Debug("loaded discovery document", "api", d.Name, "version", d.Version, "root", d.RootURL)
		doc = d
	}

	g.Lock()
	defer g.Unlock()

	g.discovery = doc
	g.oauth = &oauth2.Config{
		ClientID:     g.config.ClientID,
		ClientSecret: g.config.ClientSecret,
		Scopes:       g.config.Scopes,
		Endpoint:     g.config.Endpoint,
	}

	return nil
}

// Discovery returns the discovery document fetched by Load, if any.
func (g *Google) Discovery() *Discovery {
	g.Lock()
	defer g.Unlock()

	return g.discovery
}

func (g *Google) InitTokenClient(callback session.Callback) (session.TokenClient, error) {
	if callback == nil {
		return nil, errors.New("missing token callback")
	}

	g.Lock()
	conf := g.oauth
	g.Unlock()

	if conf == nil {
		return nil, errors.New("identity provider not loaded")
	}

	return &tokenClient{
		google:   g,
		oauth:    conf,
		callback: callback,
	}, nil
}

// TokenSource returns a source that refreshes the token through the Google token endpoint.
func (g *Google) TokenSource(ctx context.Context, token *oauth2.Token) oauth2.TokenSource {
	g.Lock()
	conf := g.oauth
	g.Unlock()

	if conf == nil {
		return oauth2.StaticTokenSource(token)
	}

	return conf.TokenSource(g.context(ctx), token)
}

// Revoke invalidates the credential with the authorization server. Revoking the refresh
// token also revokes every access token issued from it.
func (g *Google) Revoke(ctx context.Context, token *oauth2.Token) error {
	if token == nil {
		return nil
	}

	value := token.RefreshToken
	if value == "" {
		value = token.AccessToken
	}

	if value == "" {
		return nil
	}

	form := url.Values{"token": {value}}
	rq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.config.RevokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, "create revoke request")
	}

	rq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := g.config.HTTPClient.Do(rq)
	if err != nil {
		return errors.Wrap(err, "revoke token")
	}

	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("token revocation failed with status %v", response.StatusCode)
	}

	return nil
}

func (g *Google) context(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, g.config.HTTPClient)
}
