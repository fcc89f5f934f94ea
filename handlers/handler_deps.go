package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"

	"viralclips/internal/aiclient"
	"viralclips/internal/feedimport"
	"viralclips/internal/poller"
	"viralclips/internal/tracker"
	"viralclips/internal/worker"
	"viralclips/models"
)

// BackendClient is the part of the backend API the handlers use.
// *apiclient.Client implements it.
type BackendClient interface {
	CreateVideo(ctx context.Context, youtubeURL string) (*models.Video, error)
	GetVideo(ctx context.Context, id models.ID) (*models.Video, error)
	ListVideos(ctx context.Context) ([]models.Video, error)
	DeleteVideo(ctx context.Context, id models.ID) error
	ReanalyzeVideo(ctx context.Context, id models.ID) (*models.Video, error)

	CreateClip(ctx context.Context, videoID models.ID, momentIndex int) (*models.Clip, error)
	GetClip(ctx context.Context, id models.ID) (*models.Clip, error)
	ListClips(ctx context.Context, videoID models.ID) ([]models.Clip, error)
	UpdateClipTimes(ctx context.Context, id models.ID, start, end float64) (*models.Clip, error)
	DeleteClip(ctx context.Context, id models.ID) error
	DownloadURL(id models.ID) string
	StreamURL(id models.ID) string

	YouTubeAuthURL(ctx context.Context) (string, error)
	PublishToYouTube(ctx context.Context, id models.ID, req models.PublishRequest) (*models.PublishResult, error)
	YouTubeStatus(ctx context.Context, id models.ID) (*models.PublishStatus, error)
}

// JobSubmitter queues poll jobs and bounds their backend calls.
// *worker.Dispatcher implements it.
type JobSubmitter interface {
	SubmitJob(job worker.Job) error
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// HealthReporter probes a collaborator service. *aiclient.AIClient implements it.
type HealthReporter interface {
	Report(ctx context.Context) aiclient.HealthReport
}

// FeedImporter finds YouTube episodes in a podcast feed. *feedimport.Importer implements it.
type FeedImporter interface {
	Fetch(ctx context.Context, feedURL string, limit int) ([]feedimport.Episode, error)
}

// ApplicationHandler holds shared dependencies for handlers.
type ApplicationHandler struct {
	Client     BackendClient
	Tracker    *tracker.Tracker
	Dispatcher JobSubmitter
	AIClient   HealthReporter // nil when no AI service is configured
	Importer   FeedImporter
	Logger     *logrus.Logger

	VideoPoll poller.Options
	ClipPoll  poller.Options

	validate *validator.Validate
}

// NewApplicationHandler creates a new ApplicationHandler with the given dependencies.
func NewApplicationHandler(client BackendClient, t *tracker.Tracker, dispatcher JobSubmitter, aiClient HealthReporter, importer FeedImporter, logger *logrus.Logger, videoPoll, clipPoll poller.Options) *ApplicationHandler {
	return &ApplicationHandler{
		Client:     client,
		Tracker:    t,
		Dispatcher: dispatcher,
		AIClient:   aiClient,
		Importer:   importer,
		Logger:     logger,
		VideoPoll:  videoPoll,
		ClipPoll:   clipPoll,
		validate:   newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	// registration only fails for an empty tag or a nil func
	_ = v.RegisterValidation("youtube_url", func(fl validator.FieldLevel) bool {
		return models.ExtractYouTubeID(fl.Field().String()) != ""
	})
	return v
}

// pathID parses a route parameter as an ID. The value is copied out of the
// request buffer since ids outlive the request as tracker keys.
func pathID(c *fiber.Ctx, name string) (models.ID, error) {
	return models.ParseID(fiberutils.CopyString(c.Params(name)))
}

// ErrorResponse defines a common structure for error responses.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
