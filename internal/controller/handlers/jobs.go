package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"gridpay/internal/money"
	"gridpay/internal/store"
	"gridpay/pkg/api"

	"github.com/google/uuid"
)

// SubmitJob handles POST /submit-job.
// One transaction covers the whole submission: the QUEUED job row, the
// target device going BUSY, the ledger entry and both budget updates.
// A failure anywhere rolls everything back; a job must never exist
// without its ledger and budget effects.
func (h *Handlers) SubmitJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.SubmitJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Requester == "" || req.DeviceID == "" || req.Filename == "" || req.Code == "" {
		h.httpError(w, "requester, device_id, filename and code are required", http.StatusBadRequest)
		return
	}
	if !store.ValidLanguage(req.Lang) {
		h.httpError(w, "lang must be python or javascript", http.StatusBadRequest)
		return
	}
	if req.CostUSD == nil {
		h.httpError(w, "cost_usd is required", http.StatusBadRequest)
		return
	}

	amountCents, err := money.ToCents(*req.CostUSD)
	if err != nil {
		h.httpError(w, "cost_usd must be a finite number", http.StatusBadRequest)
		return
	}

	job := &store.Job{
		ID:        uuid.New(),
		Requester: req.Requester,
		DeviceID:  req.DeviceID,
		Filename:  req.Filename,
		Lang:      store.Language(req.Lang),
		Code:      req.Code,
		Status:    store.JobStatusQueued,
		CostUSD:   *req.CostUSD,
		CreatedAt: time.Now().UTC(),
	}

	entry := &store.LedgerEntry{
		ID:          uuid.New(),
		JobID:       job.ID,
		FromUser:    req.Requester,
		ToUser:      req.DeviceID,
		AmountCents: amountCents,
		CreatedAt:   time.Now().Unix(),
	}

	tx, err := h.store.BeginTx(ctx)
	if err != nil {
		h.log(ctx).Error("failed to begin transaction", "error", err)
		h.httpError(w, "Internal database error", http.StatusInternalServerError)
		return
	}
	defer tx.Rollback()

	if err := h.store.CreateJob(ctx, tx, job); err != nil {
		h.log(ctx).Error("failed to create job", "error", err)
		h.httpError(w, "Failed to create job", http.StatusInternalServerError)
		return
	}

	if err := h.store.SetDeviceStatus(ctx, tx, req.DeviceID, store.DeviceStatusBusy); err != nil {
		h.log(ctx).Error("failed to mark device busy", "error", err)
		h.httpError(w, "Failed to assign device", http.StatusInternalServerError)
		return
	}

	if err := h.store.AppendEntry(ctx, tx, entry); err != nil {
		h.log(ctx).Error("failed to append ledger entry", "error", err)
		h.httpError(w, "Failed to record charge", http.StatusInternalServerError)
		return
	}

	// Senders start at zero; receivers get the one-time earned baseline.
	if err := h.store.EnsureBudget(ctx, tx, req.Requester, 0); err != nil {
		h.log(ctx).Error("failed to ensure requester budget", "error", err)
		h.httpError(w, "Failed to record charge", http.StatusInternalServerError)
		return
	}
	if err := h.store.EnsureBudget(ctx, tx, req.DeviceID, store.ReceiverEarnedBaseline); err != nil {
		h.log(ctx).Error("failed to ensure device budget", "error", err)
		h.httpError(w, "Failed to record charge", http.StatusInternalServerError)
		return
	}

	if err := h.store.ApplyTransfer(ctx, tx, req.Requester, req.DeviceID, amountCents); err != nil {
		h.log(ctx).Error("failed to apply budget transfer", "error", err)
		h.httpError(w, "Failed to record charge", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(); err != nil {
		h.log(ctx).Error("failed to commit submission", "error", err)
		h.httpError(w, "Failed to commit transaction", http.StatusInternalServerError)
		return
	}

	h.respondJson(w, http.StatusOK, api.SubmitJobResponse{
		Success: true,
		JobID:   job.ID.String(),
	})
}

// CheckForJobs handles GET /check-for-jobs/{user_id}.
// The polling device claims at most one QUEUED job; the claim and the
// QUEUED -> RUNNING transition are atomic in the store, so concurrent
// polls never hand out the same job twice. An empty queue is job: null.
func (h *Handlers) CheckForJobs(w http.ResponseWriter, r *http.Request) {
	deviceUserID := r.PathValue("user_id")

	job, err := h.store.ClaimJob(r.Context(), deviceUserID)
	if err != nil {
		h.storeError(r.Context(), w, err, "")
		return
	}

	if job == nil {
		h.respondJson(w, http.StatusOK, api.CheckForJobsResponse{Job: nil})
		return
	}

	h.respondJson(w, http.StatusOK, api.CheckForJobsResponse{
		Job: &api.ClaimedJob{
			ID:       job.ID.String(),
			Lang:     string(job.Lang),
			Code:     job.Code,
			Filename: job.Filename,
		},
	})
}

// UpdateJob handles POST /update-job.
// The device reports its result: the job goes FINISHED with the captured
// outputs and the device returns to ACTIVE. An unknown job_id is a 404,
// never a silent success.
func (h *Handlers) UpdateJob(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.JobID == "" {
		h.httpError(w, "job_id is required", http.StatusBadRequest)
		return
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		h.httpError(w, "Invalid job id", http.StatusBadRequest)
		return
	}

	if err := h.store.FinishJob(r.Context(), jobID, req.Stdout, req.Stderr); err != nil {
		h.storeError(r.Context(), w, err, "Job not found")
		return
	}

	h.respondJson(w, http.StatusOK, api.SuccessResponse{Success: true})
}

// ListJobs handles GET /jobs/{user_id}.
// Returns the projection of every job the user has submitted.
func (h *Handlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")

	jobs, err := h.store.ListJobsForUser(r.Context(), userID)
	if err != nil {
		h.storeError(r.Context(), w, err, "")
		return
	}

	views := make([]api.JobView, 0, len(jobs))
	for _, j := range jobs {
		views = append(views, api.JobView{
			ID:       j.ID.String(),
			Filename: j.Filename,
			Lang:     string(j.Lang),
			Status:   string(j.Status),
			Stdout:   j.Stdout,
			Stderr:   j.Stderr,
		})
	}

	h.respondJson(w, http.StatusOK, views)
}
