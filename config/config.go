package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/oauth2/google"

	"github.com/staffreview/staffreview-sheets/form"
	"github.com/staffreview/staffreview-sheets/identity"
)

const APP = "staffreview-sheets"

const (
	ENV_CLIENT_ID     = "STAFFREVIEW_CLIENT_ID"
	ENV_CLIENT_SECRET = "STAFFREVIEW_CLIENT_SECRET"
	ENV_SPREADSHEET   = "STAFFREVIEW_SPREADSHEET"
	ENV_REFRESH_TOKEN = "STAFFREVIEW_REFRESH_TOKEN"
)

type Config struct {
	Spreadsheet string       `toml:"spreadsheet"`
	Worksheet   string       `toml:"worksheet"`
	OAuth       OAuth        `toml:"oauth"`
	Sheets      Sheets       `toml:"sheets"`
	HTTP        HTTP         `toml:"http"`
	Form        form.Options `toml:"form"`
}

type OAuth struct {
	ClientID     string   `toml:"client-id"`
	ClientSecret string   `toml:"client-secret"`
	Credentials  string   `toml:"credentials"`
	RefreshToken string   `toml:"refresh-token"`
	Scopes       []string `toml:"scopes"`
	Discovery    string   `toml:"discovery"`
	RedirectPort int      `toml:"redirect-port"`
	Timeout      Duration `toml:"timeout"`
	OpenBrowser  bool     `toml:"open-browser"`
}

type Sheets struct {
	// Requests per second, 0 for the default pacing.
	Rate  float64 `toml:"rate"`
	Burst int     `toml:"burst"`
}

type HTTP struct {
	Bind string `toml:"bind"`
}

// Duration is a time.Duration that decodes from a TOML string, e.g. timeout = "5m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration '%s' (%v)", text, err)
	}

	d.Duration = v

	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func NewConfig() *Config {
	return &Config{
		Worksheet: "Sheet1",
		OAuth: OAuth{
			Scopes:      []string{identity.SHEETS},
			Discovery:   identity.DISCOVERY,
			Timeout:     Duration{identity.DEFAULT_TIMEOUT},
			OpenBrowser: true,
		},
		HTTP: HTTP{
			Bind: "127.0.0.1:8080",
		},
		Form: form.DefaultOptions(),
	}
}

// DefaultConfigFile returns <user config dir>/staffreview-sheets/staffreview-sheets.toml.
func DefaultConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = DEFAULT_ETC
	}

	return filepath.Join(dir, APP, APP+".toml")
}

// Load reads the TOML configuration file and applies the environment overrides. A
// missing file is only an error if it was explicitly specified.
func Load(file string) (*Config, error) {
	c := NewConfig()
	explicit := file != ""

	if !explicit {
		file = DefaultConfigFile()
	}

	// lists in [form] replace the defaults individually
	c.Form = form.Options{}

	if md, err := toml.DecodeFile(file, c); err != nil {
		if !os.IsNotExist(err) || explicit {
			return nil, fmt.Errorf("error reading configuration file %v (%v)", file, err)
		}
	} else if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown configuration keys %v in %v", undecoded, file)
	}

	c.Form = form.DefaultOptions().Merge(c.Form)

	c.env(os.LookupEnv)

	if err := c.credentials(); err != nil {
		return nil, err
	}

	c.Spreadsheet = SpreadsheetID(c.Spreadsheet)

	return c, nil
}

func (c *Config) env(lookup func(string) (string, bool)) {
	if v, ok := lookup(ENV_CLIENT_ID); ok && v != "" {
		c.OAuth.ClientID = v
	}

	if v, ok := lookup(ENV_CLIENT_SECRET); ok && v != "" {
		c.OAuth.ClientSecret = v
	}

	if v, ok := lookup(ENV_SPREADSHEET); ok && v != "" {
		c.Spreadsheet = v
	}

	if v, ok := lookup(ENV_REFRESH_TOKEN); ok && v != "" {
		c.OAuth.RefreshToken = v
	}
}

// credentials fills in the client ID and secret from a Google 'credentials.json' file
// if they are not set explicitly.
func (c *Config) credentials() error {
	if c.OAuth.ClientID != "" {
		return nil
	}

	file := c.OAuth.Credentials
	if file == "" {
		if _, err := os.Stat(DEFAULT_CREDENTIALS); err != nil {
			return nil
		}

		file = DEFAULT_CREDENTIALS
	}

	bytes, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("error reading credentials file %v (%v)", file, err)
	}

	conf, err := google.ConfigFromJSON(bytes, c.OAuth.Scopes...)
	if err != nil {
		return fmt.Errorf("invalid credentials file %v (%v)", file, err)
	}

	c.OAuth.ClientID = conf.ClientID
	c.OAuth.ClientSecret = conf.ClientSecret

	return nil
}

// Validate reports every missing required value.
func (c *Config) Validate() error {
	missing := []string{}

	if c.Spreadsheet == "" {
		missing = append(missing, fmt.Sprintf("spreadsheet (or %v)", ENV_SPREADSHEET))
	}

	if c.OAuth.ClientID == "" {
		missing = append(missing, fmt.Sprintf("oauth.client-id (or oauth.credentials, %v)", ENV_CLIENT_ID))
	}

	if len(c.OAuth.Scopes) == 0 {
		missing = append(missing, "oauth.scopes")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing configuration: %v", strings.Join(missing, ", "))
	}

	return nil
}

// SpreadsheetID extracts the spreadsheet ID from a Google Sheets URL. Anything that
// is not a URL is assumed to already be an ID.
func SpreadsheetID(spreadsheet string) string {
	s := strings.TrimSpace(spreadsheet)

	match := regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`).FindStringSubmatch(s)
	if len(match) > 1 {
		return match[1]
	}

	return s
}
