package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"viralclips/internal/feedimport"
	"viralclips/models"
	"viralclips/utils"
)

// ImportFeedRequest is the body of POST /imports.
type ImportFeedRequest struct {
	FeedURL string `json:"feed_url" validate:"required,url"`
	Limit   int    `json:"limit" validate:"omitempty,min=1,max=50"`
}

// ImportedEpisode is the result of submitting one feed episode.
type ImportedEpisode struct {
	Episode   feedimport.Episode `json:"episode"`
	Video     *models.Video      `json:"video,omitempty"`
	PollJobID string             `json:"poll_job_id,omitempty"`
	Error     string             `json:"error,omitempty"`
}

const defaultImportLimit = 5

// ImportFeed godoc
// @Summary Import episodes from a podcast feed
// @Description Finds YouTube links in an RSS/Atom feed and submits each episode for analysis.
// @Tags imports
// @Accept  json
// @Produce  json
// @Param   import body ImportFeedRequest true "Feed to import"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Feed has no YouTube episodes"
// @Router /imports [post]
func (h *ApplicationHandler) ImportFeed(c *fiber.Ctx) error {
	payload := new(ImportFeedRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	payload.FeedURL = utils.SanitizeInput(payload.FeedURL)
	if err := h.validate.Struct(payload); err != nil {
		return utils.RespondWithValidationErrors(c, err)
	}
	if payload.Limit == 0 {
		payload.Limit = defaultImportLimit
	}

	ctx := c.UserContext()
	episodes, err := h.Importer.Fetch(ctx, payload.FeedURL, payload.Limit)
	if errors.Is(err, feedimport.ErrNoEpisodes) {
		return utils.RespondWithError(c, fiber.StatusUnprocessableEntity, err.Error())
	}
	if err != nil {
		h.Logger.WithError(err).WithField("feed_url", payload.FeedURL).Warn("Feed import failed")
		return utils.RespondWithError(c, fiber.StatusBadGateway, err.Error())
	}

	results := make([]ImportedEpisode, 0, len(episodes))
	for _, episode := range episodes {
		result := ImportedEpisode{Episode: episode}
		video, err := h.Client.CreateVideo(ctx, episode.YouTubeURL)
		if err != nil {
			_, result.Error = utils.StatusForError(err)
		} else {
			result.Video = video
			result.PollJobID = h.startVideoPoll(ctx, video)
		}
		results = append(results, result)
	}

	h.Logger.WithFields(logrus.Fields{"feed_url": payload.FeedURL, "episodes": len(results)}).Info("Feed imported")
	return utils.RespondWithJSON(c, fiber.StatusOK, "Feed imported", results)
}
