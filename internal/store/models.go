// Package store contains the database layer for gridpay.
package store

import (
	"time"

	"github.com/google/uuid"
)

// DeviceStatus represents the availability of a registered device.
type DeviceStatus string

const (
	DeviceStatusActive DeviceStatus = "ACTIVE"
	DeviceStatusBusy   DeviceStatus = "BUSY"
)

// JobStatus represents the lifecycle state of a job.
// Transitions are strictly forward: QUEUED -> RUNNING -> FINISHED.
type JobStatus string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusFinished JobStatus = "FINISHED"
)

// Language is the execution language of a job payload.
type Language string

const (
	LangPython     Language = "python"
	LangJavaScript Language = "javascript"
)

// ValidLanguage reports whether lang is a supported execution language.
func ValidLanguage(lang string) bool {
	switch Language(lang) {
	case LangPython, LangJavaScript:
		return true
	}
	return false
}

// Device represents one compute endpoint registered via heartbeat.
// There is at most one row per UserID; every heartbeat fully replaces
// the row, including the internal ID.
type Device struct {
	ID       uuid.UUID
	UserID   string
	URL      string
	CPUCores int
	CPULoad  float64
	RAMTotal int64
	RAMUsed  int64
	DiskFree int64
	Status   DeviceStatus
	LastSeen time.Time
}

// Job represents a unit of remotely executed code.
// DeviceID is the user id of the device assigned to run it.
type Job struct {
	ID        uuid.UUID
	Requester string
	DeviceID  string
	Filename  string
	Lang      Language
	Code      string
	Status    JobStatus
	Stdout    string
	Stderr    string
	CostUSD   float64
	CreatedAt time.Time
}

// LedgerEntry is an immutable record of one job's cost transfer.
// CreatedAt is epoch seconds. Rows are append-only.
type LedgerEntry struct {
	ID          uuid.UUID
	JobID       uuid.UUID
	FromUser    string
	ToUser      string
	AmountCents int64
	CreatedAt   int64
}

// Budget is the per-user running total maintained in lockstep with
// ledger entries. SpentCents may go negative.
type Budget struct {
	UserID      string
	SpentCents  int64
	EarnedCents int64
}

// ReceiverEarnedBaseline is the earned_cents granted to a user the first
// time they appear as the receiving side of a job. A user with no budget
// row at all reads as {0, ReceiverEarnedBaseline}.
const ReceiverEarnedBaseline int64 = 1000
