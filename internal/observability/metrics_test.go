package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
)

func TestInitMetrics(t *testing.T) {
	handler, shutdown, err := InitMetrics("test-service")
	if err != nil {
		t.Fatalf("InitMetrics failed: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()
		_ = shutdown(shutdownCtx)
	}()

	if handler == nil {
		t.Fatal("expected handler to be non-nil")
	}

	// Smoke test: verify handler returns 200 and non-empty body
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}
	if rr.Body.Len() == 0 {
		t.Error("handler returned empty body")
	}
}

func TestInitMetrics_CustomMetricAppearsInOutput(t *testing.T) {
	ctx := context.Background()

	handler, shutdown, err := InitMetrics("test-service")
	if err != nil {
		t.Fatalf("InitMetrics failed: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()
		_ = shutdown(shutdownCtx)
	}()

	meter := otel.Meter("test-meter")
	counter, err := meter.Int64Counter("gridpay_test_counter")
	if err != nil {
		t.Fatalf("failed to create counter: %v", err)
	}
	counter.Add(ctx, 7)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}
	if !strings.Contains(rr.Body.String(), "gridpay_test_counter") {
		t.Errorf("expected custom metric in output, got:\n%s", rr.Body.String())
	}
}
