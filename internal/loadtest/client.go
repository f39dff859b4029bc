package loadtest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/areacheck/internal/domain/types"
)

// HTTPClient talks to /area-check.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// statusError reports a non-200 answer.
type statusError struct {
	Status int
	Reason string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Reason)
}

// health returns nil when /healthz answers 200.
func (c *HTTPClient) health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", http.NoBody)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return &statusError{Status: resp.StatusCode, Reason: http.StatusText(resp.StatusCode)}
	}
	return nil
}

func (c *HTTPClient) check(ctx context.Context, a Attempt) (types.CheckResponse, error) {
	return c.post(ctx, url.Values{
		"x":         {a.X},
		"y":         {a.Y},
		"r":         {a.R},
		"sessionId": {a.SessionID},
	})
}

func (c *HTTPClient) history(ctx context.Context, sessionID string) (types.CheckResponse, error) {
	return c.post(ctx, url.Values{"action": {"get_history"}, "sessionId": {sessionID}})
}

func (c *HTTPClient) clear(ctx context.Context, sessionID string) (types.CheckResponse, error) {
	return c.post(ctx, url.Values{"action": {"clear"}, "sessionId": {sessionID}})
}

func (c *HTTPClient) post(ctx context.Context, form url.Values) (types.CheckResponse, error) {
	var out types.CheckResponse
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/area-check", strings.NewReader(form.Encode()))
	if err != nil {
		return out, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return out, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var e types.ErrorResponse
		_ = json.Unmarshal(body, &e)
		return out, &statusError{Status: resp.StatusCode, Reason: e.Reason}
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("failed to decode response: %w", err)
	}
	return out, nil
}
