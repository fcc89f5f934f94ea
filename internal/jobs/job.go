package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"viralclips/internal/poller"
	"viralclips/internal/tracker"
	"viralclips/models"
)

// PollJobPayload is stored as the metadata of a tracking job.
type PollJobPayload struct {
	EntityID    models.ID `json:"entity_id"`
	IntervalMS  int64     `json:"interval_ms"`
	MaxAttempts int       `json:"max_attempts"`
}

// Limiter bounds concurrent backend calls. *worker.Dispatcher implements it.
type Limiter interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// errSuperseded is recorded for a run replaced by a newer one.
var errSuperseded = errors.New("superseded by a newer poll")

// trackedRun holds the tracking record shared by the video and clip poll jobs.
type trackedRun struct {
	mu      sync.Mutex
	record  models.TrackingJob
	tracker *tracker.Tracker
	logger  logrus.FieldLogger

	// Limiter, when set, runs every fetch of the job.
	Limiter Limiter

	superseded context.Context
	supersede  context.CancelFunc
}

func newTrackedRun(jobType, entityType string, initial models.Status, payload PollJobPayload, t *tracker.Tracker, logger logrus.FieldLogger) *trackedRun {
	now := time.Now()
	metadata, _ := json.Marshal(payload)
	id := uuid.New()
	superseded, supersede := context.WithCancel(context.Background())
	return &trackedRun{
		superseded: superseded,
		supersede:  supersede,
		record: models.TrackingJob{
			ID:         id,
			JobType:    jobType,
			EntityID:   payload.EntityID,
			EntityType: entityType,
			Status:     initial,
			Outcome:    models.JobRunning,
			Metadata:   metadata,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		tracker: t,
		logger: logger.WithFields(logrus.Fields{
			"job_id":      id,
			"entity_type": entityType,
			"entity_id":   payload.EntityID,
		}),
	}
}

func (r *trackedRun) snapshot() models.TrackingJob {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.record
}

func (r *trackedRun) save(ctx context.Context, mutate func(*models.TrackingJob)) {
	r.mu.Lock()
	mutate(&r.record)
	r.record.UpdatedAt = time.Now()
	rec := r.record
	r.mu.Unlock()

	// recording must survive cancellation of the poll itself
	r.tracker.Save(context.WithoutCancel(ctx), rec)
}

// observe records one fetched snapshot.
func (r *trackedRun) observe(ctx context.Context, status models.Status, progress *float64) {
	r.save(ctx, func(job *models.TrackingJob) {
		job.Status = status
		job.Attempts++
		if progress == nil {
			return
		}
		// progress only moves forward while the resource is still working
		if job.Progress != nil && *progress < *job.Progress && !status.IsTerminal() {
			return
		}
		job.Progress = progress
	})
	r.logger.WithFields(logrus.Fields{"status": status, "attempt": r.snapshot().Attempts}).Debug("Observed snapshot")
}

// finish classifies how polling ended and records the outcome.
func (r *trackedRun) finish(ctx context.Context, failure error, pollErr error) {
	outcome := models.JobCompleted
	var message string

	switch {
	case pollErr == nil && failure != nil:
		outcome = models.JobFailed
		message = failure.Error()
	case pollErr == nil:
	case errors.Is(pollErr, poller.ErrTimeout):
		outcome = models.JobTimedOut
		message = pollErr.Error()
	case errors.Is(pollErr, context.Canceled), errors.Is(pollErr, context.DeadlineExceeded):
		outcome = models.JobCancelled
		message = pollErr.Error()
		if r.superseded.Err() != nil {
			message = errSuperseded.Error()
		}
	default:
		outcome = models.JobAborted
		message = pollErr.Error()
	}

	r.tracker.Detach(r.snapshot().ID)
	r.save(ctx, func(job *models.TrackingJob) {
		now := time.Now()
		job.Outcome = outcome
		job.CompletedAt = &now
		if message != "" {
			job.ErrorMessage = &message
		}
	})

	entry := r.logger.WithField("outcome", outcome)
	if message != "" {
		entry = entry.WithField("error", message)
	}
	if outcome == models.JobCompleted {
		entry.Info("Polling finished")
	} else {
		entry.Warn("Polling finished without success")
	}
}

// Track stores the initial record so the job is visible before its first fetch,
// and lets the tracker stop it.
func (r *trackedRun) Track(ctx context.Context) {
	r.tracker.Attach(r.snapshot().ID, r.Supersede)
	r.save(ctx, func(*models.TrackingJob) {})
}

// Supersede ends the run early. It finishes as cancelled.
func (r *trackedRun) Supersede() {
	r.supersede()
}

// bind derives the context the run polls with, which also ends on Supersede.
func (r *trackedRun) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	release := context.AfterFunc(r.superseded, cancel)
	if r.superseded.Err() != nil {
		cancel()
	}
	return ctx, func() {
		release()
		cancel()
	}
}

// call runs one fetch, through the Limiter when there is one.
func (r *trackedRun) call(ctx context.Context, fn func(ctx context.Context) error) error {
	if r.Limiter == nil {
		return fn(ctx)
	}
	return r.Limiter.Do(ctx, fn)
}

// Abort records a job that could not be started, e.g. because the queue was full.
func (r *trackedRun) Abort(ctx context.Context, err error) {
	r.finish(ctx, nil, err)
}

// Record returns the current tracking record.
func (r *trackedRun) Record() models.TrackingJob {
	return r.snapshot()
}
