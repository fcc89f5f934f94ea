package handlers

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts the API v1 routes on router.
func (h *ApplicationHandler) RegisterRoutes(router fiber.Router) {
	// Episode routes
	router.Post("/episodes", h.CreateEpisode)
	router.Get("/episodes", h.ListEpisodes)
	router.Get("/episodes/:id", h.GetEpisode)
	router.Delete("/episodes/:id", h.DeleteEpisode)
	router.Post("/episodes/:id/reanalyze", h.ReanalyzeEpisode)
	router.Post("/episodes/:id/moments/:index/clip", h.GenerateClip)

	// Clip routes
	router.Get("/clips", h.ListClips)
	router.Get("/clips/:id", h.GetClip)
	router.Delete("/clips/:id", h.DeleteClip)
	router.Patch("/clips/:id/times", h.UpdateClipTimes)
	router.Get("/clips/:id/download", h.DownloadClip)
	router.Get("/clips/:id/stream", h.StreamClip)

	// YouTube publishing
	router.Get("/youtube/auth", h.YouTubeAuth)
	router.Post("/clips/:id/publish", h.PublishClip)
	router.Get("/clips/:id/youtube-status", h.YouTubeStatus)

	// Poll tracking
	router.Get("/jobs", h.ListJobs)
	router.Get("/jobs/:jobId", h.GetJobStatus)

	router.Post("/imports", h.ImportFeed)
}
