package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"gridpay/pkg/api"
)

func resetViper() {
	viper.Reset()
	viper.SetEnvPrefix("GRIDPAY")
	viper.AutomaticEnv()
}

func TestDevicesCommand_Success(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/devices" || r.Method != http.MethodGet {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode([]api.DeviceView{
			{
				UserID:   "bob",
				URL:      "http://bob.example:9000",
				CPUCores: 8,
				CPULoad:  0.42,
				RAMTotal: 16384,
				RAMUsed:  4096,
				DiskFree: 51200,
			},
		})
	}))
	defer server.Close()

	viper.Set("url", server.URL)

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)
	rootCmd.SetArgs([]string{"devices"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := stdout.String()
	if !strings.Contains(output, "bob") {
		t.Errorf("expected device user id in output, got: %s", output)
	}
	if !strings.Contains(output, "http://bob.example:9000") {
		t.Errorf("expected device address in output, got: %s", output)
	}
	if !strings.Contains(output, "8 cores") {
		t.Errorf("expected cpu cores in output, got: %s", output)
	}
}

func TestDevicesCommand_Empty(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode([]api.DeviceView{})
	}))
	defer server.Close()

	viper.Set("url", server.URL)

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)
	rootCmd.SetArgs([]string{"devices"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stdout.String(), "No devices registered") {
		t.Errorf("expected empty message, got: %s", stdout.String())
	}
}

func TestDevicesCommand_ServerError(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("something went wrong"))
	}))
	defer server.Close()

	viper.Set("url", server.URL)

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)
	rootCmd.SetArgs([]string{"devices"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stdout.String(), "Request failed (500)") {
		t.Errorf("expected 500 error in output, got: %s", stdout.String())
	}
}
