// Package tunnel calls the third-party provider that mints tunnel
// credentials for devices. The call is read-only from gridpay's
// perspective: no local state changes on success or failure.
package tunnel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Credentials is the token/id pair minted by the provider.
type Credentials struct {
	Token string `json:"token"`
	ID    string `json:"id"`
}

// StatusError is a provider failure that carried an HTTP status. The
// controller passes the status through to its own caller.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tunnel provider returned %d: %s", e.StatusCode, e.Body)
}

// Client talks to the tunnel credential provider.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a provider client with a bounded request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Provision requests tunnel credentials for userID.
func (c *Client) Provision(ctx context.Context, userID string) (*Credentials, error) {
	body, err := json.Marshal(map[string]string{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/credentials", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tunnel provider request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var creds Credentials
	if err := json.Unmarshal(respBody, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse provider response: %w", err)
	}

	return &creds, nil
}
