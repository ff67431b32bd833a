// Package config handles environment variable loading for ports, database strings, etc.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the application.
type Config struct {
	// Database connection string
	DatabaseURL string

	// HTTP server port for the controller
	HTTPPort int

	// Origins allowed to make cross-origin requests. Requests from
	// other origins have the first entry reflected back.
	CORSAllowedOrigins []string

	// API key for administrative endpoints. Empty disables the check.
	AdminAPIKey string

	// Base URL of the third-party tunnel credential provider
	TunnelProviderURL string

	// Timeout for outbound tunnel provisioning calls
	TunnelTimeout time.Duration

	// Submissions per second allowed per client. 0 disables limiting.
	SubmitRateLimit float64
	SubmitRateBurst int

	// OTLP collector address for tracing. Empty disables tracing.
	OTELEndpoint string

	// Agent-specific configuration
	AgentUserID       string
	AgentAdvertiseURL string
	AgentRuntime      string
	PollInterval      time.Duration
	HeartbeatInterval time.Duration

	// Kubernetes runtime settings (AGENT_RUNTIME=kubernetes)
	AgentK8sNamespace      string
	AgentK8sServiceAccount string

	// URL of the controller (e.g., "http://localhost:8090")
	ControllerURL string
}

// Load reads controller configuration from environment variables.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return cfg, nil
}

// LoadAgent reads agent configuration. The agent talks to the
// controller over HTTP and never touches the database directly.
func LoadAgent() (*Config, error) {
	return load()
}

func load() (*Config, error) {
	port := 8090 // Default
	if portStr := os.Getenv("PORT"); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
		port = p
	}

	origins := []string{"http://localhost:3000"}
	if originsStr := os.Getenv("CORS_ALLOWED_ORIGINS"); originsStr != "" {
		origins = origins[:0]
		for _, o := range strings.Split(originsStr, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) == 0 {
			return nil, fmt.Errorf("CORS_ALLOWED_ORIGINS must contain at least one origin")
		}
	}

	tunnelTimeout := 10 * time.Second
	if s := os.Getenv("TUNNEL_TIMEOUT"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid TUNNEL_TIMEOUT: %w", err)
		}
		tunnelTimeout = d
	}

	rateLimit := 0.0
	if s := os.Getenv("SUBMIT_RATE_LIMIT"); s != "" {
		r, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid SUBMIT_RATE_LIMIT: %w", err)
		}
		rateLimit = r
	}

	rateBurst := 5
	if s := os.Getenv("SUBMIT_RATE_BURST"); s != "" {
		b, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid SUBMIT_RATE_BURST: %w", err)
		}
		rateBurst = b
	}

	pollInterval := 2 * time.Second
	if s := os.Getenv("AGENT_POLL_INTERVAL"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid AGENT_POLL_INTERVAL: %w", err)
		}
		pollInterval = d
	}

	heartbeatInterval := 30 * time.Second
	if s := os.Getenv("AGENT_HEARTBEAT_INTERVAL"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid AGENT_HEARTBEAT_INTERVAL: %w", err)
		}
		heartbeatInterval = d
	}

	controllerURL := os.Getenv("CONTROLLER_URL")
	if controllerURL == "" {
		controllerURL = "http://localhost:8090"
	}

	agentRuntime := os.Getenv("AGENT_RUNTIME")
	if agentRuntime == "" {
		agentRuntime = "docker"
	}

	return &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		HTTPPort:           port,
		CORSAllowedOrigins: origins,
		AdminAPIKey:        os.Getenv("ADMIN_API_KEY"),
		TunnelProviderURL:  os.Getenv("TUNNEL_PROVIDER_URL"),
		TunnelTimeout:      tunnelTimeout,
		SubmitRateLimit:    rateLimit,
		SubmitRateBurst:    rateBurst,
		OTELEndpoint:       os.Getenv("OTEL_COLLECTOR_ADDR"),
		AgentUserID:        os.Getenv("AGENT_USER_ID"),
		AgentAdvertiseURL:  os.Getenv("AGENT_ADVERTISE_URL"),
		AgentRuntime:       agentRuntime,
		PollInterval:       pollInterval,
		HeartbeatInterval:  heartbeatInterval,

		AgentK8sNamespace:      os.Getenv("AGENT_K8S_NAMESPACE"),
		AgentK8sServiceAccount: os.Getenv("AGENT_K8S_SERVICE_ACCOUNT"),
		ControllerURL:          controllerURL,
	}, nil
}
