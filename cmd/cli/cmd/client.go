package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"gridpay/pkg/api"
)

// GridClient handles API calls to the gridpay controller.
type GridClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewGridClient creates a new client with the given base URL.
func NewGridClient(baseURL string) *GridClient {
	return &GridClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError represents an error response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// Devices sends GET /devices.
func (c *GridClient) Devices() ([]api.DeviceView, error) {
	var result []api.DeviceView
	if err := c.get("/devices", &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Jobs sends GET /jobs/{user_id}.
func (c *GridClient) Jobs(userID string) ([]api.JobView, error) {
	var result []api.JobView
	if err := c.get("/jobs/"+userID, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Budget sends GET /get-budget/{user_id}.
func (c *GridClient) Budget(userID string) (*api.BudgetResponse, error) {
	var result api.BudgetResponse
	if err := c.get("/get-budget/"+userID, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SubmitJob sends POST /submit-job.
func (c *GridClient) SubmitJob(req api.SubmitJobRequest) (*api.SubmitJobResponse, error) {
	var result api.SubmitJobResponse
	if err := c.post("/submit-job", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TunnelAccess sends POST /get-ngrok-access.
func (c *GridClient) TunnelAccess(userID string) (*api.TunnelAccessResponse, error) {
	var result api.TunnelAccessResponse
	if err := c.post("/get-ngrok-access", api.TunnelAccessRequest{UserID: userID}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *GridClient) get(path string, out interface{}) error {
	httpReq, err := http.NewRequest(http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(httpReq, out)
}

func (c *GridClient) post(path string, payload, out interface{}) error {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.BaseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Add("Content-Type", "application/json")
	return c.do(httpReq, out)
}

func (c *GridClient) do(httpReq *http.Request, out interface{}) error {
	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}
