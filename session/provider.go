package session

import (
	"context"

	"golang.org/x/oauth2"
)

// Callback receives the outcome of an access token request: either a token or an error.
type Callback func(token *oauth2.Token, err error)

// Provider is the external identity service. Load performs the one-time client library
// setup, InitTokenClient registers the callback that receives acquired credentials.
type Provider interface {
	Load(ctx context.Context) error
	InitTokenClient(callback Callback) (TokenClient, error)
	TokenSource(ctx context.Context, token *oauth2.Token) oauth2.TokenSource
	Revoke(ctx context.Context, token *oauth2.Token) error
}

// TokenClient starts an interactive credential acquisition. RequestAccessToken returns
// once the prompt has been started - the result is delivered to the registered Callback.
type TokenClient interface {
	RequestAccessToken(ctx context.Context, prompt string) error
}
