package jobs

import (
	"context"

	"github.com/sirupsen/logrus"

	"viralclips/internal/poller"
	"viralclips/internal/tracker"
	"viralclips/models"
)

const (
	EntityVideo  = "video"
	JobPollVideo = "POLL_VIDEO"
)

// VideoFetcher loads a video snapshot.
type VideoFetcher interface {
	GetVideo(ctx context.Context, id models.ID) (*models.Video, error)
}

// PollVideoJob follows the analysis of a video until it completes, fails or times out.
type PollVideoJob struct {
	*trackedRun
	VideoID models.ID
	client  VideoFetcher
	options poller.Options

	// OnUpdate, when set, receives every snapshot after it was recorded.
	OnUpdate func(video *models.Video)
	// OnFinish, when set, receives the last snapshot and the poll error.
	OnFinish func(video *models.Video, err error)
}

// NewPollVideoJob creates a job for a video whose latest known snapshot is video.
func NewPollVideoJob(video *models.Video, client VideoFetcher, t *tracker.Tracker, opts poller.Options, logger logrus.FieldLogger) *PollVideoJob {
	payload := PollJobPayload{
		EntityID:    video.ID,
		IntervalMS:  opts.Interval.Milliseconds(),
		MaxAttempts: opts.MaxAttempts,
	}
	return &PollVideoJob{
		trackedRun: newTrackedRun(JobPollVideo, EntityVideo, video.Status, payload, t, logger),
		VideoID:    video.ID,
		client:     client,
		options:    opts,
	}
}

// ID returns the tracking job id.
func (j *PollVideoJob) ID() string {
	return j.record.ID.String()
}

// Type returns the type of the job.
func (j *PollVideoJob) Type() string {
	return JobPollVideo
}

// Payload returns the poll parameters.
func (j *PollVideoJob) Payload() interface{} {
	return PollJobPayload{
		EntityID:    j.VideoID,
		IntervalMS:  j.options.Interval.Milliseconds(),
		MaxAttempts: j.options.MaxAttempts,
	}
}

// Execute polls the video and records every snapshot.
func (j *PollVideoJob) Execute(ctx context.Context) error {
	j.logger.Info("Polling video status")

	ctx, cancel := j.bind(ctx)
	defer cancel()

	fetch := func(ctx context.Context, id string) (*models.Video, error) {
		var video *models.Video
		err := j.call(ctx, func(ctx context.Context) error {
			var err error
			video, err = j.client.GetVideo(ctx, models.ID(id))
			return err
		})
		return video, err
	}
	onUpdate := func(video *models.Video) {
		j.observe(ctx, video.Status, nil)
		if j.OnUpdate != nil {
			j.OnUpdate(video)
		}
	}

	final, err := poller.Poll(ctx, j.VideoID.String(), fetch, onUpdate, j.options)

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
