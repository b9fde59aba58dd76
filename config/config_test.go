package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/staffreview/staffreview-sheets/form"
	"github.com/staffreview/staffreview-sheets/identity"
)

func write(t *testing.T, name, content string) string {
	t.Helper()

	file := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(file, []byte(content), 0600); err != nil {
		t.Fatalf("Error creating test file (%v)", err)
	}

	return file
}

func TestLoad(t *testing.T) {
	file := write(t, "staffreview-sheets.toml", `
spreadsheet = "https://docs.google.com/spreadsheets/d/1aBcD_eFgH/edit#gid=0"
worksheet = "Reviews"

[oauth]
client-id = "client-id"
client-secret = "client-secret"
redirect-port = 8765
timeout = "90s"

[sheets]
rate = 0.5
burst = 2

[http]
bind = "0.0.0.0:9090"
`)

	c, err := Load(file)
	if err != nil {
		t.Fatalf("Unexpected error loading configuration (%v)", err)
	}

	if c.Spreadsheet != "1aBcD_eFgH" {
		t.Errorf("Incorrect spreadsheet ID - expected:%v, got:%v", "1aBcD_eFgH", c.Spreadsheet)
	}

	if c.Worksheet != "Reviews" {
		t.Errorf("Incorrect worksheet - expected:%v, got:%v", "Reviews", c.Worksheet)
	}

	if c.OAuth.ClientID != "client-id" || c.OAuth.ClientSecret != "client-secret" {
		t.Errorf("Incorrect OAuth client - got:%v %v", c.OAuth.ClientID, c.OAuth.ClientSecret)
	}

	if c.OAuth.Timeout.Duration != 90*time.Second {
		t.Errorf("Incorrect timeout - expected:%v, got:%v", 90*time.Second, c.OAuth.Timeout)
	}

	if c.OAuth.RedirectPort != 8765 {
		t.Errorf("Incorrect redirect port - expected:%v, got:%v", 8765, c.OAuth.RedirectPort)
	}

	if !reflect.DeepEqual(c.OAuth.Scopes, []string{identity.SHEETS}) {
		t.Errorf("Incorrect default scopes - expected:%v, got:%v", []string{identity.SHEETS}, c.OAuth.Scopes)
	}

	if c.Sheets.Rate != 0.5 || c.Sheets.Burst != 2 {
		t.Errorf("Incorrect Sheets rate limit - got:%v %v", c.Sheets.Rate, c.Sheets.Burst)
	}

	if c.HTTP.Bind != "0.0.0.0:9090" {
		t.Errorf("Incorrect bind address - expected:%v, got:%v", "0.0.0.0:9090", c.HTTP.Bind)
	}

	if !reflect.DeepEqual(c.Form, form.DefaultOptions()) {
		t.Errorf("Expected default form options, got %+v", c.Form)
	}
}

func TestLoadWithFormOptions(t *testing.T) {
	file := write(t, "staffreview-sheets.toml", `
[form]
departments = ["Media", "Ushering"]

[[form.group]]
pastor = "Karu"
church-pastors = ["Pastor Ola Ade"]
`)

	c, err := Load(file)
	if err != nil {
		t.Fatalf("Unexpected error loading configuration (%v)", err)
	}

	if !reflect.DeepEqual(c.Form.Departments, []string{"Media", "Ushering"}) {
		t.Errorf("Incorrect departments - expected:%v, got:%v", []string{"Media", "Ushering"}, c.Form.Departments)
	}

	if !reflect.DeepEqual(c.Form.Periods, form.DefaultOptions().Periods) {
		t.Errorf("Expected default performance periods, got %v", c.Form.Periods)
	}

	expected := []form.Group{{Pastor: "Karu", ChurchPastors: []string{"Pastor Ola Ade"}}}
	if !reflect.DeepEqual(c.Form.Groups, expected) {
		t.Errorf("Incorrect groups\n   expected: %+v\n   got:      %+v", expected, c.Form.Groups)
	}
}

func TestLoadWithMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Errorf("Expected error loading missing configuration file")
	}
}

func TestLoadWithUnknownKey(t *testing.T) {
	file := write(t, "staffreview-sheets.toml", `spreedsheet = "1aBcD_eFgH"`)

	if _, err := Load(file); err == nil {
		t.Errorf("Expected error loading configuration with unknown key")
	}
}

func TestLoadWithInvalidTimeout(t *testing.T) {
	file := write(t, "staffreview-sheets.toml", "[oauth]\ntimeout = \"five minutes\"\n")

	if _, err := Load(file); err == nil {
		t.Errorf("Expected error loading configuration with invalid timeout")
	}
}

func TestLoadWithEnvironment(t *testing.T) {
	file := write(t, "staffreview-sheets.toml", "spreadsheet = \"from-file\"\n")

	t.Setenv(ENV_SPREADSHEET, "https://docs.google.com/spreadsheets/d/from-env")
	t.Setenv(ENV_CLIENT_ID, "env-client-id")
	t.Setenv(ENV_CLIENT_SECRET, "env-client-secret")
	t.Setenv(ENV_REFRESH_TOKEN, "1//refresh")

	c, err := Load(file)
	if err != nil {
		t.Fatalf("Unexpected error loading configuration (%v)", err)
	}

	if c.Spreadsheet != "from-env" {
		t.Errorf("Incorrect spreadsheet - expected:%v, got:%v", "from-env", c.Spreadsheet)
	}

	if c.OAuth.ClientID != "env-client-id" || c.OAuth.ClientSecret != "env-client-secret" {
		t.Errorf("Incorrect OAuth client - got:%v %v", c.OAuth.ClientID, c.OAuth.ClientSecret)
	}

	if c.OAuth.RefreshToken != "1//refresh" {
		t.Errorf("Incorrect refresh token - expected:%v, got:%v", "1//refresh", c.OAuth.RefreshToken)
	}
}

func TestLoadWithCredentialsFile(t *testing.T) {
	credentials := write(t, "credentials.json", `{
  "installed": {
    "client_id": "1234.apps.googleusercontent.com",
    "client_secret": "qwerty",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "redirect_uris": ["http://localhost"]
  }
}`)

	file := write(t, "staffreview-sheets.toml", "[oauth]\ncredentials = '"+credentials+"'\n")

	c, err := Load(file)
	if err != nil {
		t.Fatalf("Unexpected error loading configuration (%v)", err)
	}

	if c.OAuth.ClientID != "1234.apps.googleusercontent.com" {
		t.Errorf("Incorrect client ID - expected:%v, got:%v", "1234.apps.googleusercontent.com", c.OAuth.ClientID)
	}

	if c.OAuth.ClientSecret != "qwerty" {
		t.Errorf("Incorrect client secret - expected:%v, got:%v", "qwerty", c.OAuth.ClientSecret)
	}
}

func TestValidate(t *testing.T) {
	c := NewConfig()

	if err := c.Validate(); err == nil {
		t.Errorf("Expected error validating empty configuration")
	}

	c.Spreadsheet = "1aBcD_eFgH"
	c.OAuth.ClientID = "client-id"

	if err := c.Validate(); err != nil {
		t.Errorf("Unexpected error validating configuration (%v)", err)
	}
}

func TestSpreadsheetID(t *testing.T) {
	tests := map[string]string{
		"1aBcD_eFgH": "1aBcD_eFgH",
		"https://docs.google.com/spreadsheets/d/1aBcD_eFgH":                 "1aBcD_eFgH",
		"https://docs.google.com/spreadsheets/d/1aBcD_eFgH/edit#gid=0":      "1aBcD_eFgH",
		"  https://docs.google.com/spreadsheets/d/1aBcD_eFgH/edit?usp=sharing ": "1aBcD_eFgH",
	}

	for v, expected := range tests {
		if id := SpreadsheetID(v); id != expected {
			t.Errorf("Incorrect spreadsheet ID for '%v' - expected:%v, got:%v", v, expected, id)
		}
	}
}
