package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	postgrest "github.com/supabase-community/postgrest-go"

	"viralclips/models"
)

// TrackingJobsTable is the table tracking jobs are upserted into.
const TrackingJobsTable = "tracking_jobs"

// Querier is satisfied by both *supabase.Client and *postgrest.Client.
type Querier interface {
	From(table string) *postgrest.QueryBuilder
}

// trackingJobRow maps to the tracking_jobs table.
// Pointers are used for nullable columns and `json.RawMessage` for the JSONB metadata column.
type trackingJobRow struct {
	JobID        string          `json:"job_id"`
	JobType      string          `json:"job_type"`
	EntityID     string          `json:"entity_id"`
	EntityType   string          `json:"entity_type"`
	Status       string          `json:"status"`
	Outcome      string          `json:"outcome"`
	Progress     *float64        `json:"progress,omitempty"`
	Attempts     int             `json:"attempts"`
	ErrorMessage *string         `json:"error_message,omitempty"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}

func rowFromJob(job models.TrackingJob) trackingJobRow {
	return trackingJobRow{
		JobID:        job.ID.String(),
		JobType:      job.JobType,
		EntityID:     job.EntityID.String(),
		EntityType:   job.EntityType,
		Status:       string(job.Status),
		Outcome:      string(job.Outcome),
		Progress:     job.Progress,
		Attempts:     job.Attempts,
		ErrorMessage: job.ErrorMessage,
		Metadata:     job.Metadata,
		CreatedAt:    job.CreatedAt,
		UpdatedAt:    job.UpdatedAt,
		CompletedAt:  job.CompletedAt,
	}
}

// Recorder persists tracking jobs through PostgREST.
type Recorder struct {
	client Querier
	logger logrus.FieldLogger
}

// NewRecorder creates a Recorder over an initialized Supabase or PostgREST client.
func NewRecorder(client Querier, logger logrus.FieldLogger) *Recorder {
	return &Recorder{client: client, logger: logger}
}

// Record upserts the job keyed on job_id, so every snapshot of a poll run updates one row.
func (r *Recorder) Record(ctx context.Context, job models.TrackingJob) error {
	if r.client == nil {
		return fmt.Errorf("Supabase client not initialized")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var results []trackingJobRow
	_, err := r.client.From(TrackingJobsTable).
		Insert(rowFromJob(job), true, "job_id", "representation", "").
		ExecuteTo(&results)
	if err != nil {
		return fmt.Errorf("failed to upsert tracking job %s: %w", job.ID, err)
	}

	if len(results) == 0 {
		return fmt.Errorf("no record returned after upsert, job_id: %s", job.ID)
	}

	r.logger.WithFields(logrus.Fields{
		"job_id":  job.ID,
		"status":  job.Status,
		"outcome": job.Outcome,
	}).Debug("Recorded tracking job")
	return nil
}
