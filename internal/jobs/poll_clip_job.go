package jobs

import (
	"context"

	"github.com/sirupsen/logrus"

	"viralclips/internal/poller"
	"viralclips/internal/tracker"
	"viralclips/models"
)

const (
	EntityClip  = "clip"
	JobPollClip = "POLL_CLIP"
)

// ClipFetcher loads a clip snapshot.
type ClipFetcher interface {
	GetClip(ctx context.Context, id models.ID) (*models.Clip, error)
}

// PollClipJob follows the rendering of a clip and records its progress percentage.
type PollClipJob struct {
	*trackedRun
	ClipID  models.ID
	client  ClipFetcher
	options poller.Options

	// OnUpdate, when set, receives every snapshot after it was recorded.
	OnUpdate func(clip *models.Clip)
	// OnFinish, when set, receives the last snapshot and the poll error.
	OnFinish func(clip *models.Clip, err error)
}

// NewPollClipJob creates a job for a clip whose latest known snapshot is clip.
func NewPollClipJob(clip *models.Clip, client ClipFetcher, t *tracker.Tracker, opts poller.Options, logger logrus.FieldLogger) *PollClipJob {
	payload := PollJobPayload{
		EntityID:    clip.ID,
		IntervalMS:  opts.Interval.Milliseconds(),
		MaxAttempts: opts.MaxAttempts,
	}
	run := newTrackedRun(JobPollClip, EntityClip, clip.Status, payload, t, logger)
	progress := float64(clip.ProgressPercentage)
	run.record.Progress = &progress

	return &PollClipJob{
		trackedRun: run,
		ClipID:     clip.ID,
		client:     client,
		options:    opts,
	}
}

// ID returns the tracking job id.
func (j *PollClipJob) ID() string {
	return j.record.ID.String()
}

// Type returns the type of the job.
func (j *PollClipJob) Type() string {
	return JobPollClip
}

// Payload returns the poll parameters.
func (j *PollClipJob) Payload() interface{} {
	return PollJobPayload{
		EntityID:    j.ClipID,
		IntervalMS:  j.options.Interval.Milliseconds(),
		MaxAttempts: j.options.MaxAttempts,
	}
}

// Execute polls the clip and records every snapshot.
func (j *PollClipJob) Execute(ctx context.Context) error {
	j.logger.Info("Polling clip status")

	ctx, cancel := j.bind(ctx)
	defer cancel()

	fetch := func(ctx context.Context, id string) (*models.Clip, error) {
		var clip *models.Clip
		err := j.call(ctx, func(ctx context.Context) error {
			var err error
			clip, err = j.client.GetClip(ctx, models.ID(id))
			return err
		})
		return clip, err
	}
	onUpdate := func(clip *models.Clip) {
		progress := float64(clip.ProgressPercentage)
		j.observe(ctx, clip.Status, &progress)
		if j.OnUpdate != nil {
			j.OnUpdate(clip)
		}
	}

	final, err := poller.Poll(ctx, j.ClipID.String(), fetch, onUpdate, j.options)

	var failure error
	if final != nil {
		failure = final.Failure()
	}
	j.finish(ctx, failure, err)

	if j.OnFinish != nil {
		j.OnFinish(final, err)
	}
	return err
}
