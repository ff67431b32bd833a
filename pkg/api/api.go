// Package api contains shared JSON request/response structs.
// This package is shared between the CLI, the device agent and the controller.
package api

// HeartbeatRequest is the request body a device posts to register itself
// or refresh its registration. Numeric fields are pointers so that a
// legitimate zero value (cpu_load 0, disk_free 0) can be told apart from
// an absent field.
type HeartbeatRequest struct {
	UserID   string   `json:"user_id"`
	URL      string   `json:"url"`
	CPUCores *int     `json:"cpu_cores"`
	CPULoad  *float64 `json:"cpu_load"`
	RAMTotal *int64   `json:"ram_total"`
	RAMUsed  *int64   `json:"ram_used"`
	DiskFree *int64   `json:"disk_free"`
	Status   string   `json:"status"`
}

// SuccessResponse is the generic acknowledgement body.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// DeviceView is the public projection of a registered device.
type DeviceView struct {
	URL      string  `json:"url"`
	CPUCores int     `json:"cpu_cores"`
	CPULoad  float64 `json:"cpu_load"`
	RAMTotal int64   `json:"ram_total"`
	RAMUsed  int64   `json:"ram_used"`
	DiskFree int64   `json:"disk_free"`
	UserID   string  `json:"user_id"`
}

// SubmitJobRequest is the request body for submitting a job to a device.
// CostUSD is a pointer so a missing cost is distinguishable from 0.
type SubmitJobRequest struct {
	Requester string   `json:"requester"`
	DeviceID  string   `json:"device_id"`
	Filename  string   `json:"filename"`
	Lang      string   `json:"lang"`
	Code      string   `json:"code"`
	CostUSD   *float64 `json:"cost_usd"`
}

// SubmitJobResponse is returned after a successful job submission.
type SubmitJobResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"job_id"`
}

// JobView is the projection of a job returned to its requester.
type JobView struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Lang     string `json:"lang"`
	Status   string `json:"status"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
}

// ClaimedJob is the payload handed to a device that claims a queued job.
type ClaimedJob struct {
	ID       string `json:"id"`
	Lang     string `json:"lang"`
	Code     string `json:"code"`
	Filename string `json:"filename"`
}

// CheckForJobsResponse wraps the claim result. Job is null when nothing is
// queued for the polling device.
type CheckForJobsResponse struct {
	Job *ClaimedJob `json:"job"`
}

// UpdateJobRequest is the result report a device posts after executing a job.
// Stdout and stderr default to empty strings when absent.
type UpdateJobRequest struct {
	JobID  string `json:"job_id"`
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// BudgetResponse is the per-user spend/earn aggregate.
type BudgetResponse struct {
	SpentCents  int64 `json:"spent_cents"`
	EarnedCents int64 `json:"earned_cents"`
}

// TunnelAccessRequest is the request body for provisioning tunnel credentials.
type TunnelAccessRequest struct {
	UserID string `json:"user_id"`
}

// TunnelAccessResponse carries the credentials minted by the tunnel provider.
type TunnelAccessResponse struct {
	Token string `json:"token"`
	ID    string `json:"id"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
