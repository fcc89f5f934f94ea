// Package tracker keeps the gateway's view of ongoing work: poll jobs and
// their latest snapshot, and the clip-generation requests in flight per moment.
package tracker

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"viralclips/models"
)

// ErrInFlight is returned by Begin when a request for the same moment is outstanding.
var ErrInFlight = errors.New("a clip request for this moment is already in progress")

// Recorder persists tracking jobs. Failures are logged and never block tracking.
type Recorder interface {
	Record(ctx context.Context, job models.TrackingJob) error
}

// MomentKey identifies a moment of a video, the key of clip creation.
type MomentKey struct {
	VideoID     models.ID
	MomentIndex int
}

// Tracker is safe for concurrent use.
type Tracker struct {
	mu       sync.RWMutex
	jobs     map[uuid.UUID]models.TrackingJob
	byEntity map[string]uuid.UUID // "clip:12" -> latest job
	inFlight map[MomentKey]struct{}
	clips    map[MomentKey]models.ID
	stops    map[uuid.UUID]func()

	recorder Recorder
	logger   logrus.FieldLogger
}

// New creates a Tracker. recorder may be nil.
func New(recorder Recorder, logger logrus.FieldLogger) *Tracker {
	return &Tracker{
		jobs:     make(map[uuid.UUID]models.TrackingJob),
		byEntity: make(map[string]uuid.UUID),
		inFlight: make(map[MomentKey]struct{}),
		clips:    make(map[MomentKey]models.ID),
		stops:    make(map[uuid.UUID]func()),
		recorder: recorder,
		logger:   logger,
	}
}

func entityKey(entityType string, id models.ID) string {
	return entityType + ":" + id.String()
}

// Save stores the job and forwards it to the recorder. The job becomes the
// latest of its entity unless a newer job was already saved for it.
func (t *Tracker) Save(ctx context.Context, job models.TrackingJob) {
	key := entityKey(job.EntityType, job.EntityID)
	t.mu.Lock()
	t.jobs[job.ID] = job
	if current, ok := t.byEntity[key]; !ok || !t.jobs[current].CreatedAt.After(job.CreatedAt) {
		t.byEntity[key] = job.ID
	}
	t.mu.Unlock()

	if t.recorder == nil {
		return
	}
	if err := t.recorder.Record(ctx, job); err != nil {
		t.logger.WithFields(logrus.Fields{
			"job_id":    job.ID,
			"entity_id": job.EntityID,
		}).WithError(err).Warn("Failed to record tracking job")
	}
}

// Attach registers stop as the way to end the running job id early.
func (t *Tracker) Attach(id uuid.UUID, stop func()) {
	t.mu.Lock()
	t.stops[id] = stop
	t.mu.Unlock()
}

// Detach forgets the stop function of a finished job.
func (t *Tracker) Detach(id uuid.UUID) {
	t.mu.Lock()
	delete(t.stops, id)
	t.mu.Unlock()
}

// Stop ends the running job of an entity and reports whether there was one.
func (t *Tracker) Stop(entityType string, id models.ID) bool {
	t.mu.Lock()
	var stop func()
	if jobID, ok := t.byEntity[entityKey(entityType, id)]; ok {
		stop = t.stops[jobID]
		delete(t.stops, jobID)
	}
	t.mu.Unlock()

	if stop == nil {
		return false
	}
	stop()
	return true
}

// Job returns a tracking job by id.
func (t *Tracker) Job(id uuid.UUID) (models.TrackingJob, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	job, ok := t.jobs[id]
	return job, ok
}

// LatestFor returns the most recent job for an entity.
func (t *Tracker) LatestFor(entityType string, id models.ID) (models.TrackingJob, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	jobID, ok := t.byEntity[entityKey(entityType, id)]
	if !ok {
		return models.TrackingJob{}, false
	}
	job, ok := t.jobs[jobID]
	return job, ok
}

// IsPolling reports whether a running job exists for the entity.
func (t *Tracker) IsPolling(entityType string, id models.ID) bool {
	job, ok := t.LatestFor(entityType, id)
	return ok && !job.IsDone()
}

// Jobs returns all jobs, newest first.
func (t *Tracker) Jobs() []models.TrackingJob {
	t.mu.RLock()
	jobs := make([]models.TrackingJob, 0, len(t.jobs))
	for _, job := range t.jobs {
		jobs = append(jobs, job)
	}
	t.mu.RUnlock()

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	return jobs
}

// Begin marks a clip request for key as outstanding. The returned release
// function must be called once the request finished.
func (t *Tracker) Begin(key MomentKey) (release func(), err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, busy := t.inFlight[key]; busy {
		return nil, ErrInFlight
	}
	t.inFlight[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.inFlight, key)
			t.mu.Unlock()
		})
	}, nil
}

// InFlight reports whether a clip request for key is outstanding.
func (t *Tracker) InFlight(key MomentKey) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, busy := t.inFlight[key]
	return busy
}

// RememberClip associates the clip created for a moment with its key.
func (t *Tracker) RememberClip(key MomentKey, clipID models.ID) {
	t.mu.Lock()
	t.clips[key] = clipID
	t.mu.Unlock()
}

// ClipFor returns the clip previously created for a moment.
func (t *Tracker) ClipFor(key MomentKey) (models.ID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.clips[key]
	return id, ok
}

// ForgetClip drops every association to clipID, e.g. after the clip was deleted.
func (t *Tracker) ForgetClip(clipID models.ID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, id := range t.clips {
		if id == clipID {
			delete(t.clips, key)
		}
	}
}

// ForgetVideo drops the clip associations of a deleted video.
func (t *Tracker) ForgetVideo(videoID models.ID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key := range t.clips {
		if key.VideoID == videoID {
			delete(t.clips, key)
		}
	}
}
