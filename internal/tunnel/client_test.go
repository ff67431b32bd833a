package tunnel

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestProvision_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/credentials" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}

		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req["user_id"] != "alice" {
			t.Errorf("got user_id %q, want alice", req["user_id"])
		}

		json.NewEncoder(w).Encode(Credentials{Token: "tok-123", ID: "tun-456"})
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second)
	creds, err := client.Provision(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Provision failed: %v", err)
	}
	if creds.Token != "tok-123" || creds.ID != "tun-456" {
		t.Errorf("got %+v, want token tok-123 id tun-456", creds)
	}
}

func TestProvision_UpstreamStatusPassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusPaymentRequired)
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second)
	_, err := client.Provision(context.Background(), "alice")

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("got %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusPaymentRequired {
		t.Errorf("got status %d, want 402", statusErr.StatusCode)
	}
}

func TestProvision_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := New(server.URL, 20*time.Millisecond)
	_, err := client.Provision(context.Background(), "alice")
	if err == nil {
		t.Fatal("expected timeout error")
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		t.Errorf("timeout should not be a StatusError, got %v", err)
	}
}
