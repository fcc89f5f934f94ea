package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"viralclips/internal/aiclient"
	"viralclips/internal/apiclient"
	"viralclips/internal/feedimport"
	"viralclips/internal/jobs"
	"viralclips/internal/poller"
	"viralclips/internal/tracker"
	"viralclips/internal/worker"
	"viralclips/models"
)

// fakeBackend is an in-memory stand-in for the backend API.
type fakeBackend struct {
	mu          sync.Mutex
	videos      map[models.ID]*models.Video
	clips       map[models.ID]*models.Clip
	nextID      int
	createClips int
	updateTimes int
	published   []models.PublishRequest
	failWith    error

	// when set, UpdateClipTimes answers with the clip's previous status
	staleUpdate bool

	// when set, CreateClip signals started and waits for gate
	gate    chan struct{}
	started chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		videos: map[models.ID]*models.Video{
			"1": {ID: "1", Status: models.StatusCompleted, Duration: 100, Moments: []models.ViralMoment{
				{StartTime: 10, EndTime: 40, Duration: 30, ViralScore: 9},
				{StartTime: 50, EndTime: 70, Duration: 20, ViralScore: 7},
			}},
		},
		clips:  map[models.ID]*models.Clip{},
		nextID: 100,
	}
}

func notFound(what string) error {
	return &apiclient.Error{Kind: apiclient.HTTPStatusError, StatusCode: http.StatusNotFound, Message: what + " não encontrado"}
}

func (f *fakeBackend) newID() models.ID {
	f.nextID++
	return models.ID(fmt.Sprint(f.nextID))
}

func (f *fakeBackend) CreateVideo(ctx context.Context, youtubeURL string) (*models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	v := &models.Video{ID: f.newID(), YouTubeURL: youtubeURL, Status: models.StatusPending}
	f.videos[v.ID] = v
	return v, nil
}

func (f *fakeBackend) GetVideo(ctx context.Context, id models.ID) (*models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	v, ok := f.videos[id]
	if !ok {
		return nil, notFound("Vídeo")
	}
	copied := *v
	return &copied, nil
}

func (f *fakeBackend) ListVideos(ctx context.Context) ([]models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Video
	for _, v := range f.videos {
		out = append(out, *v)
	}
	return out, nil
}

func (f *fakeBackend) DeleteVideo(ctx context.Context, id models.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.videos[id]; !ok {
		return notFound("Vídeo")
	}
	delete(f.videos, id)
	return nil
}

func (f *fakeBackend) ReanalyzeVideo(ctx context.Context, id models.ID) (*models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[id]
	if !ok {
		return nil, notFound("Vídeo")
	}
	v.Status = models.StatusProcessing
	copied := *v
	return &copied, nil
}

func (f *fakeBackend) CreateClip(ctx context.Context, videoID models.ID, momentIndex int) (*models.Clip, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.createClips++
	video, ok := f.videos[videoID]
	if !ok {
		return nil, notFound("Vídeo")
	}
	moment, ok := video.Moment(momentIndex)
	if !ok {
		return nil, &apiclient.Error{Kind: apiclient.HTTPStatusError, StatusCode: http.StatusBadRequest, Message: "Índice de momento inválido"}
	}
	clip := &models.Clip{
		ID: f.newID(), VideoID: videoID, MomentIndex: momentIndex,
		StartTime: moment.StartTime, EndTime: moment.EndTime, Duration: moment.Duration,
		Status: models.StatusPending,
	}
	f.clips[clip.ID] = clip
	return clip, nil
}

func (f *fakeBackend) GetClip(ctx context.Context, id models.ID) (*models.Clip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clips[id]
	if !ok {
		return nil, notFound("Clip")
	}
	copied := *c
	return &copied, nil
}

func (f *fakeBackend) ListClips(ctx context.Context, videoID models.ID) ([]models.Clip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Clip
	for _, c := range f.clips {
		if videoID == "" || c.VideoID == videoID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeBackend) UpdateClipTimes(ctx context.Context, id models.ID, start, end float64) (*models.Clip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateTimes++
	c, ok := f.clips[id]
	if !ok {
		return nil, notFound("Clip")
	}
	c.StartTime, c.EndTime, c.Duration = start, end, end-start
	if !f.staleUpdate {
		c.Status = models.StatusProcessing
		c.ProgressPercentage = 0
	}
	copied := *c
	return &copied, nil
}

func (f *fakeBackend) DeleteClip(ctx context.Context, id models.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.clips[id]; !ok {
		return notFound("Clip")
	}
	delete(f.clips, id)
	return nil
}

func (f *fakeBackend) DownloadURL(id models.ID) string {
	return "http://backend.test/api/clips/" + id.String() + "/download/"
}

func (f *fakeBackend) StreamURL(id models.ID) string {
	return "http://backend.test/api/clips/" + id.String() + "/stream/"
}

func (f *fakeBackend) YouTubeAuthURL(ctx context.Context) (string, error) {
	return "https://accounts.google.com/o/oauth2/auth?client_id=test", nil
}

func (f *fakeBackend) PublishToYouTube(ctx context.Context, id models.ID, req models.PublishRequest) (*models.PublishResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, req)
	return &models.PublishResult{YouTubeURL: "https://youtube.com/watch?v=abc", YouTubeVideoID: "abc"}, nil
}

func (f *fakeBackend) YouTubeStatus(ctx context.Context, id models.ID) (*models.PublishStatus, error) {
	return &models.PublishStatus{IsPublished: false}, nil
}

// fakeSubmitter records jobs without running them.
type fakeSubmitter struct {
	mu   sync.Mutex
	jobs []worker.Job
	err  error
}

func (s *fakeSubmitter) SubmitJob(job worker.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.jobs = append(s.jobs, job)
	return nil
}

func (s *fakeSubmitter) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *fakeSubmitter) job(i int) *jobs.PollClipJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[i].(*jobs.PollClipJob)
}

func (s *fakeSubmitter) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

type fakeHealth struct{ report aiclient.HealthReport }

func (f fakeHealth) Report(ctx context.Context) aiclient.HealthReport { return f.report }

type fakeImporter struct{ episodes []feedimport.Episode }

func (f fakeImporter) Fetch(ctx context.Context, feedURL string, limit int) ([]feedimport.Episode, error) {
	if len(f.episodes) == 0 {
		return nil, feedimport.ErrNoEpisodes
	}
	return f.episodes, nil
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

var testPoll = poller.Options{Interval: time.Millisecond, MaxAttempts: 3}

func newTestApp(backend *fakeBackend, sub *fakeSubmitter) (*fiber.App, *ApplicationHandler) {
	h := NewApplicationHandler(backend, tracker.New(nil, quietLogger()), sub, nil, fakeImporter{}, quietLogger(), testPoll, testPoll)
	app := fiber.New()
	app.Get("/health", h.Health)
	h.RegisterRoutes(app.Group("/api/v1"))
	return app, h
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("%s %s: response is not JSON: %s", method, path, raw)
		}
	}
	return resp, env
}

func TestCreateEpisode_StartsPoll(t *testing.T) {
	backend := newFakeBackend()
	sub := &fakeSubmitter{}
	app, _ := newTestApp(backend, sub)

	resp, env := doRequest(t, app, "POST", "/api/v1/episodes", map[string]string{"youtube_url": " https://youtu.be/dQw4w9WgXcQ "})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", resp.StatusCode, env.Message)
	}
	var data EpisodeResponse
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Video == nil || data.Video.YouTubeURL != "https://youtu.be/dQw4w9WgXcQ" {
		t.Fatalf("unexpected video %+v", data.Video)
	}
	if data.PollJobID == "" || sub.count() != 1 {
		t.Fatalf("expected one queued poll, got job %q and %d jobs", data.PollJobID, sub.count())
	}
	if _, ok := sub.jobs[0].(*jobs.PollVideoJob); !ok {
		t.Errorf("expected a video poll job, got %T", sub.jobs[0])
	}

	resp, env = doRequest(t, app, "GET", "/api/v1/jobs/"+data.PollJobID, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected job lookup to succeed, got %d", resp.StatusCode)
	}
	var job models.TrackingJob
	if err := json.Unmarshal(env.Data, &job); err != nil {
		t.Fatalf("decode job: %v", err)
	}
	if job.Status != models.StatusPending || job.Outcome != models.JobRunning {
		t.Errorf("unexpected job record %+v", job)
	}
}

func TestCreateEpisode_RejectsNonYouTubeURL(t *testing.T) {
	backend := newFakeBackend()
	app, _ := newTestApp(backend, &fakeSubmitter{})

	resp, env := doRequest(t, app, "POST", "/api/v1/episodes", map[string]string{"youtube_url": "https://vimeo.com/123"})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if len(env.Errors) != 1 || !strings.Contains(env.Errors[0], "youtube_url") {
		t.Errorf("unexpected validation errors %v", env.Errors)
	}
	if len(backend.videos) != 1 {
		t.Errorf("backend must not be called for an invalid URL")
	}
}

func TestCreateEpisode_QueueFullStillReturnsVideo(t *testing.T) {
	sub := &fakeSubmitter{err: worker.ErrQueueFull}
	app, h := newTestApp(newFakeBackend(), sub)

	resp, env := doRequest(t, app, "POST", "/api/v1/episodes", map[string]string{"youtube_url": "https://www.youtube.com/watch?v=abc123"})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var data EpisodeResponse
	json.Unmarshal(env.Data, &data)

	latest, ok := h.Tracker.LatestFor(jobs.EntityVideo, data.Video.ID)
	if !ok || latest.Outcome != models.JobAborted {
		t.Errorf("expected an aborted tracking job, got %+v", latest)
	}
}

func TestGenerateClip_RepeatedRequestReturnsExistingClip(t *testing.T) {
	backend := newFakeBackend()
	sub := &fakeSubmitter{}
	app, _ := newTestApp(backend, sub)

	resp, env := doRequest(t, app, "POST", "/api/v1/episodes/1/moments/1/clip", nil)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", resp.StatusCode, env.Message)
	}
	var first ClipResponse
	json.Unmarshal(env.Data, &first)
	if first.Clip.StartTime != 50 || first.Clip.EndTime != 70 {
		t.Errorf("expected the clip of the second moment, got %+v", first.Clip)
	}

	resp, env = doRequest(t, app, "POST", "/api/v1/episodes/1/moments/1/clip", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for a repeated request, got %d", resp.StatusCode)
	}
	var second ClipResponse
	json.Unmarshal(env.Data, &second)
	if !second.Existing || second.Clip.ID != first.Clip.ID {
		t.Errorf("expected existing clip %s, got %+v", first.Clip.ID, second)
	}
	if backend.createClips != 1 {
		t.Errorf("expected one create call, got %d", backend.createClips)
	}
	if second.PollJobID != first.PollJobID || sub.count() != 1 {
		t.Errorf("expected the running poll to be reused, got %q vs %q and %d jobs", second.PollJobID, first.PollJobID, sub.count())
	}
}

func TestGenerateClip_ConflictWhileInFlight(t *testing.T) {
	backend := newFakeBackend()
	backend.gate = make(chan struct{})
	backend.started = make(chan struct{}, 2)
	app, _ := newTestApp(backend, &fakeSubmitter{})

	firstStatus := make(chan int, 1)
	go func() {
		req := httptest.NewRequest("POST", "/api/v1/episodes/1/moments/0/clip", nil)
		resp, err := app.Test(req, -1)
		if err != nil {
			firstStatus <- -1
			return
		}
		firstStatus <- resp.StatusCode
	}()

	select {
	case <-backend.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first request never reached the backend")
	}

	resp, env := doRequest(t, app, "POST", "/api/v1/episodes/1/moments/0/clip", nil)
	if resp.StatusCode != fiber.StatusConflict {
		t.Errorf("expected 409 while in flight, got %d (%s)", resp.StatusCode, env.Message)
	}

	// a different moment is not blocked
	backend.started = nil
	close(backend.gate)
	resp, _ = doRequest(t, app, "POST", "/api/v1/episodes/1/moments/1/clip", nil)
	if resp.StatusCode != fiber.StatusCreated {
		t.Errorf("expected 201 for another moment, got %d", resp.StatusCode)
	}

	select {
	case status := <-firstStatus:
		if status != fiber.StatusCreated {
			t.Errorf("expected first request to create the clip, got %d", status)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("first request did not finish")
	}
	if backend.createClips != 2 {
		t.Errorf("expected 2 create calls, got %d", backend.createClips)
	}
}

func TestGenerateClip_RecreatesDeletedClip(t *testing.T) {
	backend := newFakeBackend()
	app, _ := newTestApp(backend, &fakeSubmitter{})

	_, env := doRequest(t, app, "POST", "/api/v1/episodes/1/moments/0/clip", nil)
	var first ClipResponse
	json.Unmarshal(env.Data, &first)

	backend.mu.Lock()
	delete(backend.clips, first.Clip.ID)
	backend.mu.Unlock()

	resp, env := doRequest(t, app, "POST", "/api/v1/episodes/1/moments/0/clip", nil)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected a new clip, got %d", resp.StatusCode)
	}
	var second ClipResponse
	json.Unmarshal(env.Data, &second)
	if second.Clip.ID == first.Clip.ID {
		t.Errorf("expected a new clip id, got %s again", second.Clip.ID)
	}
}

func TestGenerateClip_InvalidIndex(t *testing.T) {
	app, _ := newTestApp(newFakeBackend(), &fakeSubmitter{})

	for _, index := range []string{"-1", "abc"} {
		resp, _ := doRequest(t, app, "POST", "/api/v1/episodes/1/moments/"+index+"/clip", nil)
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("index %s: expected 400, got %d", index, resp.StatusCode)
		}
	}

	resp, env := doRequest(t, app, "POST", "/api/v1/episodes/1/moments/5/clip", nil)
	if resp.StatusCode != fiber.StatusBadRequest || env.Message != "Índice de momento inválido" {
		t.Errorf("expected backend 400 to pass through, got %d %q", resp.StatusCode, env.Message)
	}
}

func TestUpdateClipTimes(t *testing.T) {
	backend := newFakeBackend()
	backend.clips["7"] = &models.Clip{ID: "7", VideoID: "1", StartTime: 10, EndTime: 40, Status: models.StatusCompleted}
	sub := &fakeSubmitter{}
	app, _ := newTestApp(backend, sub)

	cases := []struct {
		name       string
		start, end float64
	}{
		{"beyond video duration", 90, 130},
		{"longer than 120 seconds", 0, 121},
		{"end before start", 30, 20},
		{"negative start", -1, 10},
	}
	for _, tc := range cases {
		resp, env := doRequest(t, app, "PATCH", "/api/v1/clips/7/times", map[string]float64{"start_time": tc.start, "end_time": tc.end})
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d (%s)", tc.name, resp.StatusCode, env.Message)
		}
	}
	if backend.updateTimes != 0 {
		t.Fatalf("expected no backend update for invalid windows, got %d", backend.updateTimes)
	}

	resp, _ := doRequest(t, app, "PATCH", "/api/v1/clips/7/times", map[string]float64{"start_time": 0, "end_time": 60})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if backend.updateTimes != 1 || sub.count() != 1 {
		t.Errorf("expected one update and a new clip poll, got %d updates and %d jobs", backend.updateTimes, sub.count())
	}

	resp, env := doRequest(t, app, "PATCH", "/api/v1/clips/7/times", map[string]float64{"end_time": 60})
	if resp.StatusCode != fiber.StatusBadRequest || len(env.Errors) == 0 {
		t.Errorf("expected a validation error for a missing start, got %d", resp.StatusCode)
	}
}

func TestGenerateClip_RemembersClipsPerVideo(t *testing.T) {
	backend := newFakeBackend()
	backend.videos["2"] = &models.Video{ID: "2", Status: models.StatusCompleted, Duration: 60, Moments: []models.ViralMoment{
		{StartTime: 5, EndTime: 25, Duration: 20, ViralScore: 8},
	}}
	app, h := newTestApp(backend, &fakeSubmitter{})

	created := map[string]models.ID{}
	for _, video := range []string{"1", "2"} {
		resp, env := doRequest(t, app, "POST", "/api/v1/episodes/"+video+"/moments/0/clip", nil)
		if resp.StatusCode != fiber.StatusCreated {
			t.Fatalf("video %s: expected 201, got %d (%s)", video, resp.StatusCode, env.Message)
		}
		var data ClipResponse
		json.Unmarshal(env.Data, &data)
		created[video] = data.Clip.ID
	}

	for video, clipID := range created {
		got, ok := h.Tracker.ClipFor(tracker.MomentKey{VideoID: models.ID(video), MomentIndex: 0})
		if !ok || got != clipID {
			t.Errorf("video %s: expected remembered clip %s, got %q (%v)", video, clipID, got, ok)
		}
	}

	resp, env := doRequest(t, app, "POST", "/api/v1/episodes/1/moments/0/clip", nil)
	var again ClipResponse
	json.Unmarshal(env.Data, &again)
	if resp.StatusCode != fiber.StatusOK || !again.Existing || again.Clip.ID != created["1"] {
		t.Errorf("expected the existing clip of video 1, got %d %+v", resp.StatusCode, again)
	}
	if backend.createClips != 2 {
		t.Errorf("expected 2 create calls, got %d", backend.createClips)
	}
}

func TestUpdateClipTimes_PollsEvenWhenReplyIsStillCompleted(t *testing.T) {
	backend := newFakeBackend()
	backend.staleUpdate = true
	backend.clips["7"] = &models.Clip{ID: "7", VideoID: "1", StartTime: 10, EndTime: 40, Status: models.StatusCompleted, ProgressPercentage: 100}
	sub := &fakeSubmitter{}
	app, h := newTestApp(backend, sub)

	resp, env := doRequest(t, app, "PATCH", "/api/v1/clips/7/times", map[string]float64{"start_time": 0, "end_time": 60})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", resp.StatusCode, env.Message)
	}
	var data ClipResponse
	json.Unmarshal(env.Data, &data)
	if data.PollJobID == "" || sub.count() != 1 {
		t.Fatalf("expected a clip poll, got job %q and %d jobs", data.PollJobID, sub.count())
	}
	if data.Clip.Status != models.StatusPending || data.Clip.ProgressPercentage != 0 {
		t.Errorf("expected the clip to be reported as rendering again, got %s at %d%%", data.Clip.Status, data.Clip.ProgressPercentage)
	}

	latest, ok := h.Tracker.LatestFor(jobs.EntityClip, "7")
	if !ok || latest.ID.String() != data.PollJobID || latest.IsDone() {
		t.Errorf("expected running job %s, got %+v", data.PollJobID, latest)
	}
	if latest.Progress == nil || *latest.Progress != 0 {
		t.Errorf("expected the new job to start at 0%%, got %v", latest.Progress)
	}
}

func TestUpdateClipTimes_SupersedesRunningPoll(t *testing.T) {
	backend := newFakeBackend()
	backend.clips["7"] = &models.Clip{ID: "7", VideoID: "1", StartTime: 10, EndTime: 40, Status: models.StatusProcessing, ProgressPercentage: 80}
	sub := &fakeSubmitter{}
	app, h := newTestApp(backend, sub)

	clip, _ := backend.GetClip(context.Background(), "7")
	first := h.startClipPoll(context.Background(), clip)
	if first == "" {
		t.Fatal("expected a poll for the processing clip")
	}

	resp, env := doRequest(t, app, "PATCH", "/api/v1/clips/7/times", map[string]float64{"start_time": 0, "end_time": 60})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", resp.StatusCode, env.Message)
	}
	var data ClipResponse
	json.Unmarshal(env.Data, &data)
	if data.PollJobID == "" || data.PollJobID == first || sub.count() != 2 {
		t.Fatalf("expected a new poll job, got %q (first %q) and %d jobs", data.PollJobID, first, sub.count())
	}

	// the replaced job ends as soon as it runs
	old := sub.job(0)
	if err := old.Execute(context.Background()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected the replaced job to be cancelled, got %v", err)
	}
	record := old.Record()
	if record.Outcome != models.JobCancelled || record.Attempts != 0 {
		t.Errorf("expected a cancelled job without fetches, got %s after %d attempts", record.Outcome, record.Attempts)
	}

	latest, _ := h.Tracker.LatestFor(jobs.EntityClip, "7")
	if latest.ID.String() != data.PollJobID {
		t.Errorf("expected job %s to stay the latest, got %s", data.PollJobID, latest.ID)
	}
	if latest.Attempts != 0 || latest.Progress == nil || *latest.Progress != 0 {
		t.Errorf("expected a fresh job, got %d attempts at %v", latest.Attempts, latest.Progress)
	}
}

func TestBackendErrorsAreMapped(t *testing.T) {
	backend := newFakeBackend()
	app, _ := newTestApp(backend, &fakeSubmitter{})

	resp, env := doRequest(t, app, "GET", "/api/v1/clips/999", nil)
	if resp.StatusCode != fiber.StatusNotFound || env.Message != "Clip não encontrado" {
		t.Errorf("expected backend 404 message, got %d %q", resp.StatusCode, env.Message)
	}

	backend.failWith = &apiclient.Error{Kind: apiclient.TransportError, Message: "connection refused", Err: errors.New("connection refused")}
	resp, env = doRequest(t, app, "GET", "/api/v1/episodes/1", nil)
	if resp.StatusCode != fiber.StatusBadGateway {
		t.Errorf("expected 502 for a transport error, got %d", resp.StatusCode)
	}
	if env.Status != "error" || !strings.Contains(env.Message, "connection refused") {
		t.Errorf("unexpected error envelope %+v", env)
	}
}

func TestDeleteEpisode_ForgetsClips(t *testing.T) {
	backend := newFakeBackend()
	app, h := newTestApp(backend, &fakeSubmitter{})

	doRequest(t, app, "POST", "/api/v1/episodes/1/moments/0/clip", nil)
	key := tracker.MomentKey{VideoID: "1", MomentIndex: 0}
	if _, ok := h.Tracker.ClipFor(key); !ok {
		t.Fatal("expected the clip to be remembered")
	}

	resp, _ := doRequest(t, app, "DELETE", "/api/v1/episodes/1", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if _, ok := h.Tracker.ClipFor(key); ok {
		t.Error("expected remembered clips to be dropped with the episode")
	}
}

func TestClipRedirects(t *testing.T) {
	app, _ := newTestApp(newFakeBackend(), &fakeSubmitter{})

	for path, want := range map[string]string{
		"/api/v1/clips/7/download": "http://backend.test/api/clips/7/download/",
		"/api/v1/clips/7/stream":   "http://backend.test/api/clips/7/stream/",
	} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if resp.StatusCode != fiber.StatusFound || resp.Header.Get("Location") != want {
			t.Errorf("%s: expected redirect to %s, got %d %s", path, want, resp.StatusCode, resp.Header.Get("Location"))
		}
	}
}

func TestPublishClip(t *testing.T) {
	backend := newFakeBackend()
	app, _ := newTestApp(backend, &fakeSubmitter{})

	resp, _ := doRequest(t, app, "POST", "/api/v1/clips/7/publish", map[string]interface{}{"title": "Best moment", "tags": []string{"podcast"}})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(backend.published) != 1 || backend.published[0].Privacy != "unlisted" {
		t.Errorf("expected privacy to default to unlisted, got %+v", backend.published)
	}

	resp, _ = doRequest(t, app, "POST", "/api/v1/clips/7/publish", map[string]interface{}{"title": "x", "privacy": "friends"})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400 for an unknown privacy, got %d", resp.StatusCode)
	}
	resp, _ = doRequest(t, app, "POST", "/api/v1/clips/7/publish", map[string]interface{}{"description": "no title"})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400 without a title, got %d", resp.StatusCode)
	}
}

func TestListJobs_Filter(t *testing.T) {
	backend := newFakeBackend()
	app, _ := newTestApp(backend, &fakeSubmitter{})

	doRequest(t, app, "POST", "/api/v1/episodes", map[string]string{"youtube_url": "https://youtu.be/aaaaaaaaaaa"})
	doRequest(t, app, "POST", "/api/v1/episodes/1/moments/0/clip", nil)

	_, env := doRequest(t, app, "GET", "/api/v1/jobs?entity_type=clip", nil)
	var list []models.TrackingJob
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode jobs: %v", err)
	}
	if len(list) != 1 || list[0].EntityType != jobs.EntityClip {
		t.Errorf("expected one clip job, got %+v", list)
	}

	resp, _ := doRequest(t, app, "GET", "/api/v1/jobs/not-a-uuid", nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400 for a malformed job id, got %d", resp.StatusCode)
	}
}

func TestImportFeed(t *testing.T) {
	backend := newFakeBackend()
	sub := &fakeSubmitter{}
	app, h := newTestApp(backend, sub)
	h.Importer = fakeImporter{episodes: []feedimport.Episode{
		{Title: "one", YouTubeURL: "https://www.youtube.com/watch?v=aaaaaaaaaaa", YouTubeID: "aaaaaaaaaaa"},
		{Title: "two", YouTubeURL: "https://www.youtube.com/watch?v=bbbbbbbbbbb", YouTubeID: "bbbbbbbbbbb"},
	}}

	resp, env := doRequest(t, app, "POST", "/api/v1/imports", map[string]interface{}{"feed_url": "https://podcast.example.com/feed.xml"})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", resp.StatusCode, env.Message)
	}
	var results []ImportedEpisode
	json.Unmarshal(env.Data, &results)
	if len(results) != 2 || results[0].Video == nil || results[1].PollJobID == "" {
		t.Fatalf("unexpected import results %+v", results)
	}
	if sub.count() != 2 {
		t.Errorf("expected a poll per imported episode, got %d", sub.count())
	}

	h.Importer = fakeImporter{}
	resp, _ = doRequest(t, app, "POST", "/api/v1/imports", map[string]interface{}{"feed_url": "https://podcast.example.com/empty.xml"})
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Errorf("expected 422 for a feed without episodes, got %d", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	app, h := newTestApp(newFakeBackend(), &fakeSubmitter{})

	resp, _ := doRequest(t, app, "GET", "/health", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 without an AI service, got %d", resp.StatusCode)
	}

	h.AIClient = fakeHealth{report: aiclient.HealthReport{Address: "ai:50051", Error: "connection refused"}}
	resp, env := doRequest(t, app, "GET", "/health", nil)
	if resp.StatusCode != fiber.StatusServiceUnavailable || env.Status != "degraded" {
		t.Errorf("expected a degraded 503, got %d %q", resp.StatusCode, env.Status)
	}
}
