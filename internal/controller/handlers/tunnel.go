package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"gridpay/internal/tunnel"
	"gridpay/pkg/api"
)

// TunnelAccess handles POST /get-ngrok-access.
// The provisioning call is the one operation that crosses to a third
// party. It mutates no local state, its timeout is bounded by the
// client, and a provider failure with a status code is passed through
// unchanged.
func (h *Handlers) TunnelAccess(w http.ResponseWriter, r *http.Request) {
	var req api.TunnelAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.UserID == "" {
		h.httpError(w, "user_id is required", http.StatusBadRequest)
		return
	}

	if h.tunnel == nil {
		h.log(r.Context()).Error("tunnel provisioning requested but no provider configured")
		h.httpError(w, "Tunnel provisioning unavailable", http.StatusInternalServerError)
		return
	}

	creds, err := h.tunnel.Provision(r.Context(), req.UserID)
	if err != nil {
		var statusErr *tunnel.StatusError
		if errors.As(err, &statusErr) {
			h.httpError(w, "Tunnel provider rejected the request", statusErr.StatusCode)
			return
		}
		h.log(r.Context()).Error("tunnel provisioning failed", "error", err)
		h.httpError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.respondJson(w, http.StatusOK, api.TunnelAccessResponse{
		Token: creds.Token,
		ID:    creds.ID,
	})
}
