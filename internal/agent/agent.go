// Package agent contains the device-side loop: heartbeat registration,
// job polling and result reporting against the controller.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"gridpay/internal/agent/runtime"
	"gridpay/internal/store"
	"gridpay/pkg/api"
)

// Config holds configuration for the device agent.
type Config struct {
	// UserID identifies this device's owner to the controller.
	UserID string

	// AdvertiseURL is the address other parties can reach this device on.
	AdvertiseURL string

	ControllerURL     string
	PollInterval      time.Duration
	HeartbeatInterval time.Duration

	// JobTimeout bounds a single payload execution (default: 5m).
	JobTimeout time.Duration
}

// Agent runs the heartbeat/poll/report loop for one device.
type Agent struct {
	config     Config
	runtime    runtime.Runtime
	httpClient *http.Client
	logger     *slog.Logger

	// running is set while a claimed job executes, so heartbeats
	// report BUSY instead of ACTIVE.
	running atomic.Bool
}

// New creates a new device agent.
func New(config Config, rt runtime.Runtime, logger *slog.Logger) *Agent {
	if config.PollInterval <= 0 {
		config.PollInterval = 2 * time.Second
	}
	if config.HeartbeatInterval <= 0 {
		config.HeartbeatInterval = 30 * time.Second
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = 5 * time.Minute
	}
	config.ControllerURL = strings.TrimSuffix(config.ControllerURL, "/")

	if logger == nil {
		logger = slog.Default()
	}

	return &Agent{
		config:  config,
		runtime: rt,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Run starts the agent loops. It blocks until the context is cancelled.
func (a *Agent) Run(ctx context.Context) error {
	a.logger.Info("agent starting",
		"user_id", a.config.UserID,
		"controller", a.config.ControllerURL)

	// Register immediately so the device shows up before the first tick.
	if err := a.Heartbeat(ctx); err != nil {
		a.logger.Warn("initial heartbeat failed", "error", err)
	}

	heartbeatTicker := time.NewTicker(a.config.HeartbeatInterval)
	defer heartbeatTicker.Stop()
	pollTicker := time.NewTicker(a.config.PollInterval)
	defer pollTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("agent stopping")
			return ctx.Err()

		case <-heartbeatTicker.C:
			if err := a.Heartbeat(ctx); err != nil {
				a.logger.Warn("heartbeat failed", "error", err)
			}

		case <-pollTicker.C:
			if a.running.Load() {
				continue
			}
			if err := a.pollOnce(ctx); err != nil {
				a.logger.Warn("poll failed", "error", err)
			}
		}
	}
}

// Heartbeat samples host resources and registers the device.
func (a *Agent) Heartbeat(ctx context.Context) error {
	stats := SampleStats()

	status := string(store.DeviceStatusActive)
	if a.running.Load() {
		status = string(store.DeviceStatusBusy)
	}

	req := api.HeartbeatRequest{
		UserID:   a.config.UserID,
		URL:      a.config.AdvertiseURL,
		CPUCores: &stats.CPUCores,
		CPULoad:  &stats.CPULoad,
		RAMTotal: &stats.RAMTotal,
		RAMUsed:  &stats.RAMUsed,
		DiskFree: &stats.DiskFree,
		Status:   status,
	}

	var resp api.SuccessResponse
	return a.postJSON(ctx, "/heartbeat", req, &resp)
}

// pollOnce claims at most one job and executes it to completion.
func (a *Agent) pollOnce(ctx context.Context) error {
	url := fmt.Sprintf("%s/check-for-jobs/%s", a.config.ControllerURL, a.config.UserID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("poll request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("poll returned %d: %s", resp.StatusCode, body)
	}

	var checkResp api.CheckForJobsResponse
	if err := json.NewDecoder(resp.Body).Decode(&checkResp); err != nil {
		return fmt.Errorf("failed to decode poll response: %w", err)
	}

	if checkResp.Job == nil {
		return nil
	}

	a.running.Store(true)
	defer a.running.Store(false)

	a.execute(ctx, checkResp.Job)
	return nil
}

// execute runs one claimed job and reports the result. Every outcome is
// reported: a runtime failure becomes the job's stderr so the requester
// sees why their job produced nothing.
func (a *Agent) execute(ctx context.Context, job *api.ClaimedJob) {
	a.logger.Info("executing job", "job_id", job.ID, "lang", job.Lang, "filename", job.Filename)

	result, err := a.runtime.Run(ctx, runtime.Spec{
		Lang:     store.Language(job.Lang),
		Filename: job.Filename,
		Code:     job.Code,
		Timeout:  a.config.JobTimeout,
	})
	if err != nil {
		a.logger.Error("runtime failed", "job_id", job.ID, "error", err)
		result = &runtime.Result{Stderr: fmt.Sprintf("execution failed: %v", err)}
	}

	report := api.UpdateJobRequest{
		JobID:  job.ID,
		Stdout: result.Stdout,
		Stderr: result.Stderr,
	}

	var resp api.SuccessResponse
	if err := a.postJSON(ctx, "/update-job", report, &resp); err != nil {
		a.logger.Error("failed to report result", "job_id", job.ID, "error", err)
		return
	}

	a.logger.Info("job finished", "job_id", job.ID, "exit_code", result.ExitCode)
}

func (a *Agent) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.ControllerURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}
