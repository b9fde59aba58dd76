package identity

import (
	"context"
	"log/slog"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/staffreview/staffreview-sheets/session"
)

type tokenClient struct {
	google   *Google
	oauth    *oauth2.Config
	callback session.Callback
}

// RequestAccessToken starts the loopback listener, sends the user to the Google consent
// page and returns. The authorization code is exchanged in the background and the outcome
// delivered to the registered callback exactly once.
func (c *tokenClient) RequestAccessToken(ctx context.Context, prompt string) error {
	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()

	l, err := listen(c.google.config.RedirectPort, state)
	if err != nil {
		return err
	}

	conf := *c.oauth
	conf.RedirectURL = l.redirectURL()

	options := []oauth2.AuthCodeOption{
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	}

	if prompt != "" {
		options = append(options, oauth2.SetAuthURLParam("prompt", prompt))
	}

	uri := conf.AuthCodeURL(state, options...)

	go func() {
		defer l.close()

		code, err := l.wait(ctx, c.google.config.Timeout)
		if err != nil {
			c.callback(nil, err)
			return
		}

		token, err := conf.Exchange(c.google.context(ctx), code, oauth2.VerifierOption(verifier))
		if err != nil {
			c.callback(nil, errors.Wrap(err, "exchange authorization code"))
			return
		}

		c.callback(token, nil)
	}()

	slog.Info("authorise access in your browser", "url", uri)

	if err := c.google.config.Browser(uri); err != nil {
		slog.Warn("could not open authorisation page in your browser - please open the URL manually", "error", err)
	}

	return nil
}
