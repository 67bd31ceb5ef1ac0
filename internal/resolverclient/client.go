// Package resolverclient is the HTTP client for the optional external
// conflict-resolution service. Same generic JSON
// contract rationale as internal/semanticclient: stdlib net/http, no SDK.
package resolverclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"constraintcore/internal/types"
)

// Action is one of the five resolution actions an external resolver may
// choose.
type Action string

const (
	ActionDisableA Action = "disable-A"
	ActionDisableB Action = "disable-B"
	ActionMerge    Action = "merge"
	ActionModifyA  Action = "modify-A"
	ActionModifyB  Action = "modify-B"
)

func (a Action) Valid() bool {
	switch a {
	case ActionDisableA, ActionDisableB, ActionMerge, ActionModifyA, ActionModifyB:
		return true
	}
	return false
}

// Conflict is one unresolved pair the caller submits for a decision.
type Conflict struct {
	A, B   types.Constraint
	Reason string
}

// Resolution is the service's answer for one Conflict, in request order.
// Merged/ModifiedA/ModifiedB are populated only for the corresponding
// Action.
type Resolution struct {
	Action    Action            `json:"action"`
	Merged    *types.Constraint `json:"merged,omitempty"`
	ModifiedA *types.Constraint `json:"modified_a,omitempty"`
	ModifiedB *types.Constraint `json:"modified_b,omitempty"`
}

// Client calls the external conflict resolver.
type Client struct {
	URL        string
	HTTPClient *http.Client
}

// New builds a Client with the given URL and timeout (default 30s).
func New(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		URL:        url,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type conflictWire struct {
	A      types.Constraint `json:"a"`
	B      types.Constraint `json:"b"`
	Reason string           `json:"reason"`
}

type request struct {
	Conflicts []conflictWire `json:"conflicts"`
}

type response struct {
	Resolutions []Resolution `json:"resolutions"`
}

// Resolve submits conflicts and returns one Resolution per conflict, in the
// same order. Any failure is returned to the caller, who falls back to the
// default priority/confidence/order policy rather than treating it as
// fatal.
func (c *Client) Resolve(ctx context.Context, conflicts []Conflict) ([]Resolution, error) {
	wire := make([]conflictWire, len(conflicts))
	for i, cf := range conflicts {
		wire[i] = conflictWire{A: cf.A, B: cf.B, Reason: cf.Reason}
	}
	body, err := json.Marshal(request{Conflicts: wire})
	if err != nil {
		return nil, fmt.Errorf("resolverclient: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("resolverclient: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("resolverclient: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("resolverclient: unexpected status %d", resp.StatusCode)
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("resolverclient: decoding response: %w", err)
	}
	if len(out.Resolutions) != len(conflicts) {
		return nil, fmt.Errorf("resolverclient: expected %d resolutions, got %d", len(conflicts), len(out.Resolutions))
	}
	for _, r := range out.Resolutions {
		if !r.Action.Valid() {
			return nil, fmt.Errorf("resolverclient: unknown action %q", r.Action)
		}
	}
	return out.Resolutions, nil
}
