// Package handlers contains HTTP handlers for the controller API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"gridpay/internal/logger"
	"gridpay/internal/store"
	"gridpay/internal/tunnel"
	"gridpay/pkg/api"
)

// StoreFactory combines the interfaces needed for the controller to function.
type StoreFactory interface {
	BeginTx(ctx context.Context) (store.Tx, error)
	Ping(ctx context.Context) error
	store.DeviceStore
	store.JobStore
	store.LedgerStore
}

// TunnelProvisioner mints tunnel credentials from the third-party provider.
type TunnelProvisioner interface {
	Provision(ctx context.Context, userID string) (*tunnel.Credentials, error)
}

// Handlers holds all HTTP handlers and their dependencies.
type Handlers struct {
	store  StoreFactory
	tunnel TunnelProvisioner
	logger *slog.Logger
}

// New creates a new Handlers instance with the given dependencies.
// tunnelClient may be nil when provisioning is not configured.
func New(s StoreFactory, tunnelClient TunnelProvisioner, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{store: s, tunnel: tunnelClient, logger: logger}
}

// A helper function to write standard JSON responses.
func (h *Handlers) respondJson(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// A helper function to return consistent error messages.
func (h *Handlers) httpError(w http.ResponseWriter, message string, code int) {
	h.respondJson(w, code, api.ErrorResponse{
		Error: message,
		Code:  strconv.Itoa(code),
	})
}

// log returns the handler logger with the request id, if any, attached.
func (h *Handlers) log(ctx context.Context) *slog.Logger {
	return logger.FromContext(ctx, h.logger)
}

// storeError maps store failures to the response taxonomy: ErrNotFound
// becomes 404, everything else a generic 500 with the detail logged
// server-side only.
func (h *Handlers) storeError(ctx context.Context, w http.ResponseWriter, err error, notFoundMsg string) {
	if errors.Is(err, store.ErrNotFound) {
		h.httpError(w, notFoundMsg, http.StatusNotFound)
		return
	}
	h.log(ctx).Error("store operation failed", "error", err)
	h.httpError(w, "Internal server error", http.StatusInternalServerError)
}
