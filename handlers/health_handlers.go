package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const healthProbeTimeout = 2 * time.Second

// Health godoc
// @Summary Gateway health
// @Description Reports the gateway state and, when configured, the AI service's gRPC health.
// @Tags health
// @Produce  json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{} "AI service not serving"
// @Router /health [get]
func (h *ApplicationHandler) Health(c *fiber.Ctx) error {
	body := fiber.Map{
		"status":  "ok",
		"message": "Clip gateway is healthy",
	}
	if h.AIClient == nil {
		return c.Status(fiber.StatusOK).JSON(body)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), healthProbeTimeout)
	defer cancel()

	report := h.AIClient.Report(ctx)
	body["ai_service"] = report
	if !report.Serving {
		body["status"] = "degraded"
		body["message"] = "AI service is not serving"
		return c.Status(fiber.StatusServiceUnavailable).JSON(body)
	}
	return c.Status(fiber.StatusOK).JSON(body)
}
