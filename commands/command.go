package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/staffreview/staffreview-sheets/config"
	"github.com/staffreview/staffreview-sheets/form"
	"github.com/staffreview/staffreview-sheets/gateway"
	"github.com/staffreview/staffreview-sheets/identity"
	"github.com/staffreview/staffreview-sheets/session"
)

const APP = config.APP

var VERSION = "v0.1.0"

// Options holds the global command line options.
type Options struct {
	Config    string
	Debug     bool
	LogFormat string
}

// InitLogging sets the default slog logger from the --debug and --log-format options.
func (o *Options) InitLogging(w io.Writer) error {
	level := slog.LevelInfo
	if o.Debug {
		level = slog.LevelDebug
	}

	opts := slog.HandlerOptions{
		Level: level,
	}

	switch strings.ToLower(o.LogFormat) {
	case "", "text":
		slog.SetDefault(slog.New(slog.NewTextHandler(w, &opts)))

	case "json":
		slog.SetDefault(slog.New(slog.NewJSONHandler(w, &opts)))

	default:
		return fmt.Errorf("invalid --log-format '%v' (expected 'text' or 'json')", o.LogFormat)
	}

	return nil
}

// environment is the application wiring shared by the commands: configuration, identity
// provider, session and the gated Sheets API.
type environment struct {
	config  *config.Config
	google  *identity.Google
	manager *session.Manager
	gateway *gateway.Gateway
	forms   *form.Service
}

func setup(ctx context.Context, options *Options) (*environment, error) {
	conf, err := config.Load(options.Config)
	if err != nil {
		return nil, err
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	debugf("spreadsheet:%v  worksheet:%v", conf.Spreadsheet, conf.Worksheet)

	idconf := identity.Config{
		ClientID:     conf.OAuth.ClientID,
		ClientSecret: conf.OAuth.ClientSecret,
		Scopes:       conf.OAuth.Scopes,
		Discovery:    conf.OAuth.Discovery,
		RedirectPort: conf.OAuth.RedirectPort,
		Timeout:      conf.OAuth.Timeout.Duration,
	}

	if !conf.OAuth.OpenBrowser {
		idconf.Browser = func(string) error {
			return nil
		}
	}

	google := identity.NewGoogle(idconf)

	var opts []session.Option
	if conf.OAuth.RefreshToken != "" {
		opts = append(opts, session.WithCredential(&oauth2.Token{RefreshToken: conf.OAuth.RefreshToken}))
	}

	manager := session.NewManager(google, opts...)
	if err := manager.Initialize(ctx); err != nil {
		return nil, err
	}

	limiter := rate.NewLimiter(gateway.DefaultRate, gateway.DefaultBurst)
	if conf.Sheets.Rate > 0 {
		burst := conf.Sheets.Burst
		if burst < 1 {
			burst = 1
		}

		limiter = rate.NewLimiter(rate.Limit(conf.Sheets.Rate), burst)
	}

	remote, err := gateway.NewSheetsRemote(ctx, limiter, option.WithTokenSource(manager))
	if err != nil {
		return nil, err
	}

	g := gateway.NewGateway(conf.Spreadsheet, manager, remote)

	return &environment{
		config:  conf,
		google:  google,
		manager: manager,
		gateway: g,
		forms:   form.NewService(g, conf.Worksheet, conf.Form),
	}, nil
}

func (e *environment) Close() {
	e.manager.Close()
}

func debugf(format string, args ...any) {
	slog.Debug(fmt.Sprintf(format, args...))
}

func infof(format string, args ...any) {
	slog.Info(fmt.Sprintf(format, args...))
}

func warnf(format string, args ...any) {
	slog.Warn(fmt.Sprintf(format, args...))
}
