package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"viralclips/internal/jobs"
	"viralclips/models"
	"viralclips/utils"
)

// CreateEpisodeRequest is the body of POST /episodes.
type CreateEpisodeRequest struct {
	YouTubeURL string `json:"youtube_url" validate:"required,youtube_url"`
}

// EpisodeResponse pairs a video with the tracking job following its analysis.
type EpisodeResponse struct {
	Video     *models.Video `json:"video"`
	PollJobID string        `json:"poll_job_id,omitempty"`
}

// EpisodeSuccessResponse defines the structure for a successful response for a single episode.
type EpisodeSuccessResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    EpisodeResponse `json:"data"`
}

// EpisodeListSuccessResponse defines the structure for a successful response when listing episodes.
type EpisodeListSuccessResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Data    []models.Video `json:"data"`
}

// CreateEpisode godoc
// @Summary Submit a YouTube episode
// @Description Submits a YouTube URL for download and viral moment analysis and starts following its status.
// @Tags episodes
// @Accept  json
// @Produce  json
// @Param   episode body CreateEpisodeRequest true "Episode to analyze"
// @Success 201 {object} EpisodeSuccessResponse "Episode submitted"
// @Failure 400 {object} ErrorResponse "Invalid or missing YouTube URL"
// @Failure 502 {object} ErrorResponse "Backend unavailable"
// @Router /episodes [post]
func (h *ApplicationHandler) CreateEpisode(c *fiber.Ctx) error {
	payload := new(CreateEpisodeRequest)
	if err := c.BodyParser(payload); err != nil {
		h.Logger.Errorf("Error parsing create episode payload: %v", err)
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	payload.YouTubeURL = utils.SanitizeInput(payload.YouTubeURL)
	if err := h.validate.Struct(payload); err != nil {
		return utils.RespondWithValidationErrors(c, err)
	}

	video, err := h.Client.CreateVideo(c.UserContext(), payload.YouTubeURL)
	if err != nil {
		h.Logger.WithError(err).WithField("youtube_url", payload.YouTubeURL).Error("Could not submit episode")
		return utils.RespondWithClientError(c, err)
	}

	jobID := h.startVideoPoll(c.UserContext(), video)
	h.Logger.WithFields(logrus.Fields{"video_id": video.ID, "job_id": jobID}).Info("Episode submitted")
	return utils.RespondWithJSON(c, fiber.StatusCreated, "Episode submitted successfully", EpisodeResponse{Video: video, PollJobID: jobID})
}

// ListEpisodes godoc
// @Summary List episodes
// @Tags episodes
// @Produce  json
// @Success 200 {object} EpisodeListSuccessResponse
// @Failure 502 {object} ErrorResponse "Backend unavailable"
// @Router /episodes [get]
func (h *ApplicationHandler) ListEpisodes(c *fiber.Ctx) error {
	videos, err := h.Client.ListVideos(c.UserContext())
	if err != nil {
		return utils.RespondWithClientError(c, err)
	}
	if videos == nil {
		videos = []models.Video{}
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, "Episodes retrieved successfully", videos)
}

// GetEpisode godoc
// @Summary Get an episode
// @Description Returns the current snapshot of an episode, its moments sorted by descending score, and the running poll job if any.
// @Tags episodes
// @Produce  json
// @Param   id path string true "Episode ID"
// @Success 200 {object} EpisodeSuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /episodes/{id} [get]
func (h *ApplicationHandler) GetEpisode(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid episode ID format")
	}

	video, err := h.Client.GetVideo(c.UserContext(), id)
	if err != nil {
		return utils.RespondWithClientError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, "Episode retrieved successfully", EpisodeResponse{
		Video:     video,
		PollJobID: h.activeJobID(jobs.EntityVideo, id),
	})
}

// DeleteEpisode godoc
// @Summary Delete an episode
// @Tags episodes
// @Produce  json
// @Param   id path string true "Episode ID"
// @Success 200 {object} ErrorResponse "Deleted"
// @Failure 404 {object} ErrorResponse
// @Router /episodes/{id} [delete]
func (h *ApplicationHandler) DeleteEpisode(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid episode ID format")
	}

	if err := h.Client.DeleteVideo(c.UserContext(), id); err != nil {
		return utils.RespondWithClientError(c, err)
	}
	h.Tracker.ForgetVideo(id)
	h.Logger.WithField("video_id", id).Info("Episode deleted")
	return utils.RespondWithJSON(c, fiber.StatusOK, "Episode deleted successfully", nil)
}

// ReanalyzeEpisode godoc
// @Summary Re-run the viral moment analysis
// @Description Asks the backend to analyze the episode again. Clips remembered for its moments are forgotten because moment order may change.
// @Tags episodes
// @Produce  json
// @Param   id path string true "Episode ID"
// @Success 202 {object} EpisodeSuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /episodes/{id}/reanalyze [post]
func (h *ApplicationHandler) ReanalyzeEpisode(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid episode ID format")
	}

	video, err := h.Client.ReanalyzeVideo(c.UserContext(), id)
	if err != nil {
		return utils.RespondWithClientError(c, err)
	}
	h.Tracker.ForgetVideo(id)

	jobID := h.startVideoPoll(c.UserContext(), video)
	return utils.RespondWithJSON(c, fiber.StatusAccepted, "Episode analysis restarted", EpisodeResponse{Video: video, PollJobID: jobID})
}
