package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	"viralclips/config"
	_ "viralclips/docs"
	"viralclips/handlers"
	"viralclips/internal/aiclient"
	"viralclips/internal/apiclient"
	"viralclips/internal/db"
	"viralclips/internal/feedimport"
	"viralclips/internal/tracker"
	"viralclips/internal/worker"
	"viralclips/middleware"
	"viralclips/utils"
)

const shutdownTimeout = 10 * time.Second

// @title Clip Gateway API
// @version 1.0
// @description Gateway between the web UI and the podcast clip backend: episodes, viral moments, clips and YouTube publishing.
// @BasePath /api/v1
func main() {
	cfg := config.Load()
	log := config.InitLogger(cfg.LogLevel)

	supabaseClient, err := config.InitSupabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Supabase: %v", err)
	}
	var recorder tracker.Recorder
	if supabaseClient != nil {
		recorder = db.NewRecorder(supabaseClient, log)
	}
	jobTracker := tracker.New(recorder, log)

	client := apiclient.New(cfg.APIBaseURL, apiclient.WithTimeout(cfg.HTTPTimeout), apiclient.WithLogger(log))

	var aiHealth handlers.HealthReporter
	if cfg.AIServiceAddr != "" {
		aiClient, err := aiclient.NewAIClient(cfg.AIServiceAddr, log)
		if err != nil {
			log.Fatalf("Failed to create AI service client: %v", err)
		}
		defer aiClient.Close()
		aiHealth = aiClient
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dispatcher := worker.NewDispatcher(cfg.PollWorkers, cfg.PollQueueSize, log)
	dispatcher.Run(ctx)

	importer := feedimport.New(&http.Client{Timeout: cfg.HTTPTimeout}, log)
	h := handlers.NewApplicationHandler(client, jobTracker, dispatcher, aiHealth, importer, log, cfg.VideoPollOptions(), cfg.ClipPollOptions())

	app := fiber.New(fiber.Config{
		AppName:      "clip-gateway",
		ErrorHandler: errorHandler,
		Immutable:    true,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
	}))
	app.Use(middleware.RequestLogger(log))

	app.Get("/health", h.Health)
	app.Get("/swagger/*", fiberSwagger.WrapHandler)

	// API v1 routes
	h.RegisterRoutes(app.Group("/api/v1"))

	go func() {
		log.WithField("backend", client.BaseURL()).Infof("Starting clip gateway on port %s...", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down clip gateway")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server did not shut down cleanly")
	}
	dispatcher.Stop()
	log.Info("Clip gateway stopped")
}

// errorHandler renders errors no handler turned into a response.
func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return utils.RespondWithError(c, fiberErr.Code, fiberErr.Message)
	}
	return utils.RespondWithClientError(c, err)
}
