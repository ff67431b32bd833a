package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"gridpay/internal/store"
	"gridpay/pkg/api"

	"github.com/google/uuid"
)

// Heartbeat handles POST /heartbeat.
// A device registers itself or refreshes its registration. The row is
// fully replaced on every beat, including a freshly generated internal
// id; there are no merge semantics. Numeric fields use pointer presence
// so a real zero (cpu_load 0, disk_free 0) is not treated as missing.
func (h *Handlers) Heartbeat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.HeartbeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.UserID == "" || req.URL == "" || req.Status == "" {
		h.httpError(w, "user_id, url and status are required", http.StatusBadRequest)
		return
	}
	if req.CPUCores == nil || req.CPULoad == nil || req.RAMTotal == nil || req.RAMUsed == nil || req.DiskFree == nil {
		h.httpError(w, "cpu_cores, cpu_load, ram_total, ram_used and disk_free are required", http.StatusBadRequest)
		return
	}

	status := store.DeviceStatus(req.Status)
	if status != store.DeviceStatusActive && status != store.DeviceStatusBusy {
		h.httpError(w, "status must be ACTIVE or BUSY", http.StatusBadRequest)
		return
	}

	device := &store.Device{
		ID:       uuid.New(),
		UserID:   req.UserID,
		URL:      req.URL,
		CPUCores: *req.CPUCores,
		CPULoad:  *req.CPULoad,
		RAMTotal: *req.RAMTotal,
		RAMUsed:  *req.RAMUsed,
		DiskFree: *req.DiskFree,
		Status:   status,
		LastSeen: time.Now().UTC(),
	}

	if err := h.store.UpsertDevice(ctx, device); err != nil {
		h.storeError(r.Context(), w, err, "Device not found")
		return
	}

	h.respondJson(w, http.StatusOK, api.SuccessResponse{Success: true})
}

// ListDevices handles GET /devices.
// Returns the public projection of every ACTIVE device.
func (h *Handlers) ListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.store.ListActiveDevices(r.Context())
	if err != nil {
		h.storeError(r.Context(), w, err, "")
		return
	}

	views := make([]api.DeviceView, 0, len(devices))
	for _, d := range devices {
		views = append(views, api.DeviceView{
			URL:      d.URL,
			CPUCores: d.CPUCores,
			CPULoad:  d.CPULoad,
			RAMTotal: d.RAMTotal,
			RAMUsed:  d.RAMUsed,
			DiskFree: d.DiskFree,
			UserID:   d.UserID,
		})
	}

	h.respondJson(w, http.StatusOK, views)
}
