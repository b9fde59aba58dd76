package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-faster/errors"
)

// Discovery is the subset of a Google API discovery document used to sanity check the
// configured API before any credential is requested.
type Discovery struct {
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	RootURL     string `json:"rootUrl"`
	ServicePath string `json:"servicePath"`
}

func fetchDiscovery(ctx context.Context, client *http.Client, uri string) (*Discovery, error) {
	rq, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "create discovery request")
	}

	response, err := client.Do(rq)
	if err != nil {
		return nil, errors.Wrap(err, "fetch discovery document")
	}

	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discovery document request failed with status %v", response.StatusCode)
	}

	var doc Discovery
	if err := json.NewDecoder(response.Body).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decode discovery document")
	}

	if doc.Name == "" || doc.RootURL == "" {
		return nil, fmt.Errorf("invalid discovery document at %v", uri)
	}

	return &doc, nil
}
