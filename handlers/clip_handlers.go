package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"

	"viralclips/internal/apiclient"
	"viralclips/internal/jobs"
	"viralclips/internal/tracker"
	"viralclips/models"
	"viralclips/utils"
)

// ClipResponse pairs a clip with the tracking job following its rendering.
type ClipResponse struct {
	Clip      *models.Clip `json:"clip"`
	PollJobID string       `json:"poll_job_id,omitempty"`
	Existing  bool         `json:"existing"`
}

// ClipSuccessResponse defines the structure for a successful response for a single clip.
type ClipSuccessResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Data    ClipResponse `json:"data"`
}

// ClipListSuccessResponse defines the structure for a successful response when listing clips.
type ClipListSuccessResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Data    []models.Clip `json:"data"`
}

// UpdateClipTimesRequest is the body of PATCH /clips/:id/times.
type UpdateClipTimesRequest struct {
	StartTime *float64 `json:"start_time" validate:"required"`
	EndTime   *float64 `json:"end_time" validate:"required"`
}

// GenerateClip godoc
// @Summary Generate a clip for a viral moment
// @Description Creates the clip for the moment at the given index of the episode's score-sorted moments.
// @Description Repeated requests return the existing clip; a request while another for the same moment is outstanding is rejected.
// @Tags clips
// @Produce  json
// @Param   id path string true "Episode ID"
// @Param   index path int true "Moment index"
// @Success 200 {object} ClipSuccessResponse "Existing clip"
// @Success 201 {object} ClipSuccessResponse "Clip created"
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "A request for this moment is already in progress"
// @Router /episodes/{id}/moments/{index}/clip [post]
func (h *ApplicationHandler) GenerateClip(c *fiber.Ctx) error {
	videoID, err := pathID(c, "id")
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid episode ID format")
	}
	index, err := c.ParamsInt("index")
	if err != nil || index < 0 {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid moment index")
	}

	key := tracker.MomentKey{VideoID: videoID, MomentIndex: index}
	logger := h.Logger.WithFields(logrus.Fields{"video_id": videoID, "moment_index": index})

	release, err := h.Tracker.Begin(key)
	if err != nil {
		logger.Warn("Clip request rejected, another one is in progress")
		return utils.RespondWithClientError(c, err)
	}
	defer release()

	ctx := c.UserContext()
	if clipID, ok := h.Tracker.ClipFor(key); ok {
		clip, err := h.Client.GetClip(ctx, clipID)
		switch {
		case err == nil:
			logger.WithField("clip_id", clip.ID).Info("Returning existing clip")
			return utils.RespondWithJSON(c, fiber.StatusOK, "Clip already exists", ClipResponse{
				Clip:      clip,
				PollJobID: h.startClipPoll(ctx, clip),
				Existing:  true,
			})
		case isNotFound(err):
			h.Tracker.ForgetClip(clipID)
		default:
			return utils.RespondWithClientError(c, err)
		}
	}

	clip, err := h.Client.CreateClip(ctx, videoID, index)
	if err != nil {
		logger.WithError(err).Error("Could not create clip")
		return utils.RespondWithClientError(c, err)
	}
	h.Tracker.RememberClip(key, clip.ID)

	jobID := h.startClipPoll(ctx, clip)
	logger.WithFields(logrus.Fields{"clip_id": clip.ID, "job_id": jobID}).Info("Clip requested")
	return utils.RespondWithJSON(c, fiber.StatusCreated, "Clip created successfully", ClipResponse{Clip: clip, PollJobID: jobID})
}

// ListClips godoc
// @Summary List clips
// @Tags clips
// @Produce  json
// @Param   video query string false "Only clips of this episode"
// @Success 200 {object} ClipListSuccessResponse
// @Router /clips [get]
func (h *ApplicationHandler) ListClips(c *fiber.Ctx) error {
	var videoID models.ID
	if raw := c.Query("video"); raw != "" {
		id, err := models.ParseID(fiberutils.CopyString(raw))
		if err != nil {
			return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid episode ID format")
		}
		videoID = id
	}

	clips, err := h.Client.ListClips(c.UserContext(), videoID)
	if err != nil {
		return utils.RespondWithClientError(c, err)
	}
	if clips == nil {
		clips = []models.Clip{}
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, "Clips retrieved successfully", clips)
}

// GetClip godoc
// @Summary Get a clip
// @Tags clips
// @Produce  json
// @Param   id path string true "Clip ID"
// @Success 200 {object} ClipSuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /clips/{id} [get]
func (h *ApplicationHandler) GetClip(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid clip ID format")
	}

	clip, err := h.Client.GetClip(c.UserContext(), id)
	if err != nil {
		return utils.RespondWithClientError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, "Clip retrieved successfully", ClipResponse{
		Clip:      clip,
		PollJobID: h.activeJobID(jobs.EntityClip, id),
	})
}

// DeleteClip godoc
// @Summary Delete a clip
// @Tags clips
// @Produce  json
// @Param   id path string true "Clip ID"
// @Success 200 {object} ErrorResponse "Deleted"
// @Failure 404 {object} ErrorResponse
// @Router /clips/{id} [delete]
func (h *ApplicationHandler) DeleteClip(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid clip ID format")
	}

	if err := h.Client.DeleteClip(c.UserContext(), id); err != nil {
		return utils.RespondWithClientError(c, err)
	}
	h.Tracker.ForgetClip(id)
	h.Logger.WithField("clip_id", id).Info("Clip deleted")
	return utils.RespondWithJSON(c, fiber.StatusOK, "Clip deleted successfully", nil)
}

// UpdateClipTimes godoc
// @Summary Adjust a clip's time window
// @Description Validates the window against the episode duration and the 120 second limit, then re-renders the clip.
// @Tags clips
// @Accept  json
// @Produce  json
// @Param   id path string true "Clip ID"
// @Param   times body UpdateClipTimesRequest true "New window in seconds"
// @Success 200 {object} ClipSuccessResponse
// @Failure 400 {object} ErrorResponse "Invalid time range"
// @Failure 404 {object} ErrorResponse
// @Router /clips/{id}/times [patch]
func (h *ApplicationHandler) UpdateClipTimes(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid clip ID format")
	}

	payload := new(UpdateClipTimesRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(payload); err != nil {
		return utils.RespondWithValidationErrors(c, err)
	}
	start, end := *payload.StartTime, *payload.EndTime

	ctx := c.UserContext()
	clip, err := h.Client.GetClip(ctx, id)
	if err != nil {
		return utils.RespondWithClientError(c, err)
	}

	duration, err := h.videoDuration(c, clip)
	if err != nil {
		return utils.RespondWithClientError(c, err)
	}
	if err := models.ValidateTimeRange(start, end, duration); err != nil {
		return utils.RespondWithClientError(c, err)
	}

	updated, err := h.Client.UpdateClipTimes(ctx, id, start, end)
	if err != nil {
		return utils.RespondWithClientError(c, err)
	}

	jobID := h.restartClipPoll(ctx, updated)
	h.Logger.WithFields(logrus.Fields{"clip_id": id, "start_time": start, "end_time": end}).Info("Clip window updated")
	return utils.RespondWithJSON(c, fiber.StatusOK, "Clip times updated successfully", ClipResponse{Clip: updated, PollJobID: jobID})
}

// videoDuration returns the duration of the clip's episode, or 0 when unknown.
func (h *ApplicationHandler) videoDuration(c *fiber.Ctx, clip *models.Clip) (float64, error) {
	if clip.Video != nil && clip.Video.Duration > 0 {
		return clip.Video.Duration, nil
	}
	if clip.VideoID == "" {
		return 0, nil
	}
	video, err := h.Client.GetVideo(c.UserContext(), clip.VideoID)
	if err != nil {
		return 0, err
	}
	return video.Duration, nil
}

// DownloadClip godoc
// @Summary Download a rendered clip
// @Tags clips
// @Param   id path string true "Clip ID"
// @Success 302 "Redirect to the backend download URL"
// @Router /clips/{id}/download [get]
func (h *ApplicationHandler) DownloadClip(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid clip ID format")
	}
	return c.Redirect(h.Client.DownloadURL(id), fiber.StatusFound)
}

// StreamClip godoc
// @Summary Stream a rendered clip
// @Tags clips
// @Param   id path string true "Clip ID"
// @Success 302 "Redirect to the backend stream URL"
// @Router /clips/{id}/stream [get]
func (h *ApplicationHandler) StreamClip(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid clip ID format")
	}
	return c.Redirect(h.Client.StreamURL(id), fiber.StatusFound)
}

func isNotFound(err error) bool {
	var apiErr *apiclient.Error
	return errors.As(err, &apiErr) && apiErr.Kind == apiclient.HTTPStatusError && apiErr.StatusCode == http.StatusNotFound
}
