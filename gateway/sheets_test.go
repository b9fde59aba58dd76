package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

type request struct {
	method string
	path   string
	query  map[string]string
	values [][]any
}

func sheetsServer(t *testing.T, requests chan<- request, handler http.HandlerFunc) *SheetsRemote {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		r := request{
			method: rq.Method,
			path:   rq.URL.Path,
			query:  map[string]string{},
		}

		for k := range rq.URL.Query() {
			r.query[k] = rq.URL.Query().Get(k)
		}

		if rq.Body != nil && rq.Method != http.MethodGet {
			var body struct {
				Values [][]any `json:"values"`
			}

			if err := json.NewDecoder(rq.Body).Decode(&body); err == nil {
				r.values = body.Values
			}
		}

		requests <- r

		w.Header().Set("Content-Type", "application/json")
		handler(w, rq)
	}))

	t.Cleanup(srv.Close)

	remote, err := NewSheetsRemote(context.Background(),
		rate.NewLimiter(rate.Inf, 1),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("Unexpected error creating Sheets client (%v)", err)
	}

	return remote
}

func TestSheetsRemoteGet(t *testing.T) {
	requests := make(chan request, 1)
	remote := sheetsServer(t, requests, func(w http.ResponseWriter, rq *http.Request) {
		fmt.Fprint(w, `{"range":"Sheet1!A1:B2","majorDimension":"ROWS","values":[["Name","Title"],["Ada","Pastor"]]}`)
	})

	rows, err := remote.Get(context.Background(), "spreadsheet-id", "Sheet1!A1:B")
	if err != nil {
		t.Fatalf("Unexpected error reading range (%v)", err)
	}

	expected := [][]any{{"Name", "Title"}, {"Ada", "Pastor"}}
	if !reflect.DeepEqual(rows, expected) {
		t.Errorf("Incorrect rows\n   expected: %v\n   got:      %v", expected, rows)
	}

	rq := <-requests
	if rq.method != http.MethodGet {
		t.Errorf("Incorrect method - expected:%v, got:%v", http.MethodGet, rq.method)
	}

	if !strings.HasSuffix(rq.path, "/spreadsheets/spreadsheet-id/values/Sheet1!A1:B") {
		t.Errorf("Incorrect request path (%v)", rq.path)
	}
}

func TestSheetsRemoteAppend(t *testing.T) {
	requests := make(chan request, 1)
	remote := sheetsServer(t, requests, func(w http.ResponseWriter, rq *http.Request) {
		fmt.Fprint(w, `{"spreadsheetId":"spreadsheet-id","tableRange":"Sheet1!A1:B1","updates":{"spreadsheetId":"spreadsheet-id","updatedRange":"Sheet1!A2:B2","updatedRows":1,"updatedColumns":2,"updatedCells":2}}`)
	})

	update, err := remote.Append(context.Background(), "spreadsheet-id", "Sheet1!A:B", [][]any{{"x", "y"}})
	if err != nil {
		t.Fatalf("Unexpected error appending row (%v)", err)
	}

	expected := Update{
		SpreadsheetID:  "spreadsheet-id",
		UpdatedRange:   "Sheet1!A2:B2",
		UpdatedRows:    1,
		UpdatedColumns: 2,
		UpdatedCells:   2,
	}

	if !reflect.DeepEqual(*update, expected) {
		t.Errorf("Incorrect update\n   expected: %+v\n   got:      %+v", expected, *update)
	}

	rq := <-requests
	if rq.method != http.MethodPost || !strings.HasSuffix(rq.path, ":append") {
		t.Errorf("Incorrect request - expected:POST ...:append, got:%v %v", rq.method, rq.path)
	}

	if rq.query["valueInputOption"] != RAW {
		t.Errorf("Incorrect valueInputOption - expected:%v, got:%v", RAW, rq.query["valueInputOption"])
	}

	if rq.query["insertDataOption"] != INSERT_ROWS {
		t.Errorf("Incorrect insertDataOption - expected:%v, got:%v", INSERT_ROWS, rq.query["insertDataOption"])
	}

	if !reflect.DeepEqual(rq.values, [][]any{{"x", "y"}}) {
		t.Errorf("Incorrect values - expected:%v, got:%v", [][]any{{"x", "y"}}, rq.values)
	}
}

func TestSheetsRemoteUpdate(t *testing.T) {
	requests := make(chan request, 1)
	remote := sheetsServer(t, requests, func(w http.ResponseWriter, rq *http.Request) {
		fmt.Fprint(w, `{"spreadsheetId":"spreadsheet-id","updatedRange":"Sheet1!A1:B1","updatedRows":1,"updatedColumns":2,"updatedCells":2}`)
	})

	update, err := remote.Update(context.Background(), "spreadsheet-id", "Sheet1!A1", [][]any{{"Name", "Title"}})
	if err != nil {
		t.Fatalf("Unexpected error writing range (%v)", err)
	}

	if update.UpdatedCells != 2 || update.UpdatedRange != "Sheet1!A1:B1" {
		t.Errorf("Incorrect update (%+v)", *update)
	}

	rq := <-requests
	if rq.method != http.MethodPut {
		t.Errorf("Incorrect method - expected:%v, got:%v", http.MethodPut, rq.method)
	}

	if rq.query["valueInputOption"] != RAW {
		t.Errorf("Incorrect valueInputOption - expected:%v, got:%v", RAW, rq.query["valueInputOption"])
	}
}

func TestSheetsRemoteUnauthorized(t *testing.T) {
	requests := make(chan request, 1)
	remote := sheetsServer(t, requests, func(w http.ResponseWriter, rq *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"code":401,"message":"Request had invalid authentication credentials.","status":"UNAUTHENTICATED"}}`)
	})

	_, err := remote.Get(context.Background(), "spreadsheet-id", "Sheet1!A1:B")
	if err == nil {
		t.Fatalf("Expected error reading range with revoked credential")
	}

	if !IsUnauthorized(err) {
		t.Errorf("Expected googleapi 401, got %v", err)
	}
}
