package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Outcome is how a tracking job ended, or JobRunning while it is still polling.
type Outcome string

const (
	JobRunning   Outcome = "running"
	JobCompleted Outcome = "completed"
	JobFailed    Outcome = "failed"    // backend reported status=failed
	JobTimedOut  Outcome = "timed_out" // attempt budget exhausted
	JobAborted   Outcome = "aborted"   // transport or HTTP error while polling
	JobCancelled Outcome = "cancelled"
)

// TrackingJob is the gateway's record of one poll run over a Video or a Clip.
type TrackingJob struct {
	ID           uuid.UUID       `json:"id"`
	JobType      string          `json:"job_type"`
	EntityID     ID              `json:"entity_id"`
	EntityType   string          `json:"entity_type"`
	Status       Status          `json:"status"`             // last status observed on the resource
	Progress     *float64        `json:"progress,omitempty"` // clips only
	Outcome      Outcome         `json:"outcome"`
	Attempts     int             `json:"attempts"`
	ErrorMessage *string         `json:"error_message,omitempty"`
	Metadata     json.RawMessage `json:"metadata,omitempty"` // poll parameters
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}

// IsDone reports whether the job stopped polling.
func (j *TrackingJob) IsDone() bool {
	return j.Outcome != JobRunning
}
