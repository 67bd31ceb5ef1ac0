// Package semanticclient is the HTTP client for the optional external
// semantic-analysis service: a generic JSON-over-HTTP contract, not a
// vendor-specific model API, so it stays on stdlib net/http and
// encoding/json. The request and response bodies are one JSON document
// each.
package semanticclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"constraintcore/internal/types"
)

// Client calls the external semantic-analysis service.
type Client struct {
	URL        string
	HTTPClient *http.Client
}

// New builds a Client with the given URL and timeout (default 30s when
// non-positive).
func New(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		URL:        url,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type request struct {
	Source              string             `json:"source"`
	Language            types.Language     `json:"language"`
	ExistingConstraints []types.Constraint `json:"existing_constraints"`
}

type response struct {
	Constraints []types.Constraint `json:"constraints"`
	Confidence  float64            `json:"confidence"`
}

// Candidates calls the service and returns the candidate constraints it
// proposes. Any failure (network, non-2xx, malformed body) is returned to
// the caller, who treats it as non-fatal and logs-and-skips rather than
// aborting extraction.
func (c *Client) Candidates(ctx context.Context, source []byte, language types.Language, existing []types.Constraint) ([]types.Constraint, error) {
	body, err := json.Marshal(request{
		Source:              string(source),
		Language:            language,
		ExistingConstraints: existing,
	})
	if err != nil {
		return nil, fmt.Errorf("semanticclient: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("semanticclient: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("semanticclient: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("semanticclient: unexpected status %d", resp.StatusCode)
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("semanticclient: decoding response: %w", err)
	}
	return out.Constraints, nil
}
