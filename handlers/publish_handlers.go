package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"viralclips/models"
	"viralclips/utils"
)

const defaultPrivacy = "unlisted"

// YouTubeAuth godoc
// @Summary Get the YouTube authorization URL
// @Description Returns the OAuth URL the user must visit before clips can be published.
// @Tags youtube
// @Produce  json
// @Success 200 {object} map[string]interface{}
// @Failure 502 {object} ErrorResponse
// @Router /youtube/auth [get]
func (h *ApplicationHandler) YouTubeAuth(c *fiber.Ctx) error {
	authURL, err := h.Client.YouTubeAuthURL(c.UserContext())
	if err != nil {
		return utils.RespondWithClientError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, "Authorization URL retrieved", fiber.Map{"auth_url": authURL})
}

// PublishClip godoc
// @Summary Publish a clip to YouTube
// @Tags youtube
// @Accept  json
// @Produce  json
// @Param   id path string true "Clip ID"
// @Param   publish body models.PublishRequest true "Video metadata"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "YouTube account not connected"
// @Router /clips/{id}/publish [post]
func (h *ApplicationHandler) PublishClip(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid clip ID format")
	}

	payload := new(models.PublishRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	payload.Title = utils.SanitizeInput(payload.Title)
	if payload.Privacy == "" {
		payload.Privacy = defaultPrivacy
	}
	if err := h.validate.Struct(payload); err != nil {
		return utils.RespondWithValidationErrors(c, err)
	}

	result, err := h.Client.PublishToYouTube(c.UserContext(), id, *payload)
	if err != nil {
		h.Logger.WithError(err).WithField("clip_id", id).Error("Publishing to YouTube failed")
		return utils.RespondWithClientError(c, err)
	}

	h.Logger.WithFields(logrus.Fields{"clip_id": id, "youtube_video_id": result.YouTubeVideoID}).Info("Clip published to YouTube")
	return utils.RespondWithJSON(c, fiber.StatusOK, "Clip published successfully", result)
}

// YouTubeStatus godoc
// @Summary Get the YouTube publication status of a clip
// @Tags youtube
// @Produce  json
// @Param   id path string true "Clip ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /clips/{id}/youtube-status [get]
func (h *ApplicationHandler) YouTubeStatus(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid clip ID format")
	}

	status, err := h.Client.YouTubeStatus(c.UserContext(), id)
	if err != nil {
		return utils.RespondWithClientError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, "YouTube status retrieved", status)
}
