package config

import (
	"testing"
	"time"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestLoadAgent_NoDatabaseNeeded(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("AGENT_USER_ID", "bob")

	cfg, err := LoadAgent()
	if err != nil {
		t.Fatalf("LoadAgent failed: %v", err)
	}
	if cfg.AgentUserID != "bob" {
		t.Errorf("got agent user %q, want bob", cfg.AgentUserID)
	}
	if cfg.ControllerURL != "http://localhost:8090" {
		t.Errorf("got controller URL %q", cfg.ControllerURL)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/gridpay")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTPPort != 8090 {
		t.Errorf("got port %d, want 8090", cfg.HTTPPort)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("unexpected default origins: %v", cfg.CORSAllowedOrigins)
	}
	if cfg.TunnelTimeout != 10*time.Second {
		t.Errorf("got tunnel timeout %v, want 10s", cfg.TunnelTimeout)
	}
	if cfg.SubmitRateLimit != 0 {
		t.Errorf("rate limiting should be disabled by default, got %v", cfg.SubmitRateLimit)
	}
}

func TestLoad_ParsesOrigins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/gridpay")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := []string{"https://app.example.com", "https://staging.example.com"}
	if len(cfg.CORSAllowedOrigins) != len(want) {
		t.Fatalf("got %v, want %v", cfg.CORSAllowedOrigins, want)
	}
	for i := range want {
		if cfg.CORSAllowedOrigins[i] != want[i] {
			t.Errorf("origin %d: got %q, want %q", i, cfg.CORSAllowedOrigins[i], want[i])
		}
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/gridpay")
	t.Setenv("PORT", "not-a-number")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid PORT")
	}
}

func TestLoad_AgentIntervals(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/gridpay")
	t.Setenv("AGENT_POLL_INTERVAL", "500ms")
	t.Setenv("AGENT_HEARTBEAT_INTERVAL", "1m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.PollInterval != 500*time.Millisecond {
		t.Errorf("got poll interval %v, want 500ms", cfg.PollInterval)
	}
	if cfg.HeartbeatInterval != time.Minute {
		t.Errorf("got heartbeat interval %v, want 1m", cfg.HeartbeatInterval)
	}
}
