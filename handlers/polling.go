package handlers

import (
	"context"

	"github.com/sirupsen/logrus"

	"viralclips/internal/jobs"
	"viralclips/models"
)

// startVideoPoll queues a poll for a non-terminal video and returns the id of
// the tracking job following it. A video that is already followed keeps its job.
func (h *ApplicationHandler) startVideoPoll(ctx context.Context, video *models.Video) string {
	if video == nil || video.IsTerminal() {
		return ""
	}
	if latest, ok := h.Tracker.LatestFor(jobs.EntityVideo, video.ID); ok && !latest.IsDone() {
		return latest.ID.String()
	}

	job := jobs.NewPollVideoJob(video, h.Client, h.Tracker, h.VideoPoll, h.Logger)
	job.Limiter = h.Dispatcher
	job.Track(ctx)
	if err := h.Dispatcher.SubmitJob(job); err != nil {
		h.Logger.WithFields(logrus.Fields{"video_id": video.ID, "job_id": job.ID()}).WithError(err).Warn("Could not queue video poll")
		job.Abort(ctx, err)
	}
	return job.ID()
}

// startClipPoll is startVideoPoll for clips.
func (h *ApplicationHandler) startClipPoll(ctx context.Context, clip *models.Clip) string {
	if clip == nil || clip.IsTerminal() {
		return ""
	}
	if latest, ok := h.Tracker.LatestFor(jobs.EntityClip, clip.ID); ok && !latest.IsDone() {
		return latest.ID.String()
	}
	return h.submitClipPoll(ctx, clip)
}

// restartClipPoll follows a clip whose rendering was just requested again.
// A running poll is stopped and the clip is followed from scratch; a clip
// still reporting the previous render as terminal is reset to pending.
func (h *ApplicationHandler) restartClipPoll(ctx context.Context, clip *models.Clip) string {
	if clip == nil {
		return ""
	}
	if h.Tracker.Stop(jobs.EntityClip, clip.ID) {
		h.Logger.WithField("clip_id", clip.ID).Debug("Stopped previous clip poll")
	}

	if clip.IsTerminal() {
		clip.Status = models.StatusPending
		clip.ProgressPercentage = 0
		clip.ErrorMessage = ""
	}
	return h.submitClipPoll(ctx, clip)
}

func (h *ApplicationHandler) submitClipPoll(ctx context.Context, clip *models.Clip) string {
	job := jobs.NewPollClipJob(clip, h.Client, h.Tracker, h.ClipPoll, h.Logger)
	job.Limiter = h.Dispatcher
	job.Track(ctx)
	if err := h.Dispatcher.SubmitJob(job); err != nil {
		h.Logger.WithFields(logrus.Fields{"clip_id": clip.ID, "job_id": job.ID()}).WithError(err).Warn("Could not queue clip poll")
		job.Abort(ctx, err)
	}
	return job.ID()
}

// activeJobID returns the running tracking job of an entity, or "".
func (h *ApplicationHandler) activeJobID(entityType string, id models.ID) string {
	if latest, ok := h.Tracker.LatestFor(entityType, id); ok && !latest.IsDone() {
		return latest.ID.String()
	}
	return ""
}
