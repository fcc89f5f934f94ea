package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"viralclips/models"
	"viralclips/utils"
)

// JobSuccessResponse defines the structure for a successful response for a single tracking job.
type JobSuccessResponse struct {
	Status  string             `json:"status"`
	Message string             `json:"message"`
	Data    models.TrackingJob `json:"data"`
}

// ListJobs godoc
// @Summary List poll tracking jobs
// @Description Returns tracking jobs newest first, optionally only those of one entity.
// @Tags jobs
// @Produce  json
// @Param   entity_type query string false "video or clip"
// @Param   entity_id query string false "Entity ID"
// @Success 200 {object} map[string]interface{}
// @Router /jobs [get]
func (h *ApplicationHandler) ListJobs(c *fiber.Ctx) error {
	entityType := c.Query("entity_type")
	entityID := models.ID(c.Query("entity_id"))

	all := h.Tracker.Jobs()
	jobs := make([]models.TrackingJob, 0, len(all))
	for _, job := range all {
		if entityType != "" && job.EntityType != entityType {
			continue
		}
		if entityID != "" && job.EntityID != entityID {
			continue
		}
		jobs = append(jobs, job)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, "Jobs retrieved successfully", jobs)
}

// GetJobStatus godoc
// @Summary Get a poll tracking job
// @Description Returns the observed status, progress and outcome of one poll run.
// @Tags jobs
// @Produce  json
// @Param   jobId path string true "Job ID"
// @Success 200 {object} JobSuccessResponse
// @Failure 400 {object} ErrorResponse "Invalid job ID format"
// @Failure 404 {object} ErrorResponse "Job not found"
// @Router /jobs/{jobId} [get]
func (h *ApplicationHandler) GetJobStatus(c *fiber.Ctx) error {
	jobIDStr := c.Params("jobId")
	jobID, err := uuid.Parse(jobIDStr)
	if err != nil {
		h.Logger.Debugf("Invalid job ID format: %s", jobIDStr)
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid job ID format")
	}

	job, ok := h.Tracker.Job(jobID)
	if !ok {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Job not found")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, "Job retrieved successfully", job)
}
