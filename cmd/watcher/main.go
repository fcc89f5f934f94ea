package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"viralclips/config"
	"viralclips/internal/apiclient"
	"viralclips/internal/jobs"
	"viralclips/internal/poller"
	"viralclips/internal/tracker"
	"viralclips/models"
)

type options struct {
	videoID    string
	clipID     string
	youtubeURL string
	moment     int
	videoPoll  poller.Options
	clipPoll   poller.Options
}

func main() {
	cfg := config.Load()

	apiURL := flag.String("api", cfg.APIBaseURL, "backend API base URL")
	videoID := flag.String("video", "", "follow the analysis of this video")
	clipID := flag.String("clip", "", "follow the rendering of this clip")
	youtubeURL := flag.String("url", "", "submit this YouTube URL and follow its analysis")
	moment := flag.Int("moment", -1, "after the analysis completed, generate and follow the clip of this moment index")
	interval := flag.Duration("interval", cfg.PollInterval, "poll interval")
	verbose := flag.Bool("v", false, "log at debug level")
	flag.Parse()

	level := cfg.LogLevel
	if *verbose {
		level = "debug"
	}
	log := config.InitLogger(level)

	opts := options{
		videoID:    *videoID,
		clipID:     *clipID,
		youtubeURL: *youtubeURL,
		moment:     *moment,
		videoPoll:  poller.Options{Interval: *interval, MaxAttempts: cfg.VideoPollMaxAttempts},
		clipPoll:   poller.Options{Interval: *interval, MaxAttempts: cfg.ClipPollMaxAttempts},
	}
	if err := opts.validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := apiclient.New(*apiURL, apiclient.WithTimeout(cfg.HTTPTimeout), apiclient.WithLogger(log))
	if err := run(ctx, client, opts, log); err != nil {
		log.WithError(err).Error("Watch failed")
		os.Exit(1)
	}
}

func (o options) validate() error {
	sources := 0
	for _, v := range []string{o.videoID, o.clipID, o.youtubeURL} {
		if v != "" {
			sources++
		}
	}
	if sources != 1 {
		return errors.New("exactly one of -video, -clip or -url is required")
	}
	if o.youtubeURL != "" && models.ExtractYouTubeID(o.youtubeURL) == "" {
		return fmt.Errorf("not a YouTube URL: %s", o.youtubeURL)
	}
	if o.clipID != "" && o.moment >= 0 {
		return errors.New("-moment needs -video or -url")
	}
	return nil
}

// run follows the requested resources until they finish. A backend-reported
// failure, a timeout and a transport error are all returned as errors.
func run(ctx context.Context, client *apiclient.Client, opts options, logger *logrus.Logger) error {
	t := tracker.New(nil, logger)

	video := &models.Video{}
	switch {
	case opts.youtubeURL != "":
		created, err := client.CreateVideo(ctx, opts.youtubeURL)
		if err != nil {
			return fmt.Errorf("submitting %s: %w", opts.youtubeURL, err)
		}
		logger.WithField("video_id", created.ID).Info("Video submitted")
		video = created
	case opts.videoID != "":
		id, err := models.ParseID(opts.videoID)
		if err != nil {
			return err
		}
		video.ID = id
	}

	clipID := models.ID(opts.clipID)
	if video.ID != "" {
		final, err := watchVideo(ctx, client, t, video, opts.videoPoll, logger)
		if err != nil {
			return err
		}
		if opts.moment < 0 {
			return nil
		}

		moment, ok := final.Moment(opts.moment)
		if !ok {
			return fmt.Errorf("video %s has %d viral moments, no index %d", final.ID, len(final.Moments), opts.moment)
		}
		logger.WithFields(logrus.Fields{
			"moment_index": opts.moment,
			"start_time":   moment.StartTime,
			"end_time":     moment.EndTime,
			"viral_score":  moment.ViralScore,
		}).Info("Generating clip")

		clip, err := client.CreateClip(ctx, final.ID, opts.moment)
		if err != nil {
			return fmt.Errorf("creating clip: %w", err)
		}
		clipID = clip.ID
	}

	if clipID == "" {
		return nil
	}
	clip, err := watchClip(ctx, client, t, clipID, opts.clipPoll, logger)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"clip_id":     clip.ID,
		"output_file": clip.OutputFilePath,
		"download":    client.DownloadURL(clip.ID),
	}).Info("Clip ready")
	return nil
}

func watchVideo(ctx context.Context, client *apiclient.Client, t *tracker.Tracker, video *models.Video, opts poller.Options, logger *logrus.Logger) (*models.Video, error) {
	job := jobs.NewPollVideoJob(video, client, t, opts, logger)
	job.OnUpdate = func(v *models.Video) {
		logger.WithFields(logrus.Fields{
			"video_id": v.ID,
			"status":   v.Status,
			"title":    v.Title,
			"moments":  len(v.Moments),
		}).Info("Video snapshot")
	}

	var final *models.Video
	job.OnFinish = func(v *models.Video, _ error) { final = v }

	if err := job.Execute(ctx); err != nil {
		return final, describe(err, job.Record())
	}
	if err := final.Failure(); err != nil {
		return final, err
	}
	return final, nil
}

func watchClip(ctx context.Context, client *apiclient.Client, t *tracker.Tracker, id models.ID, opts poller.Options, logger *logrus.Logger) (*models.Clip, error) {
	job := jobs.NewPollClipJob(&models.Clip{ID: id}, client, t, opts, logger)
	job.OnUpdate = func(c *models.Clip) {
		logger.WithFields(logrus.Fields{
			"clip_id":  c.ID,
			"status":   c.Status,
			"progress": c.ProgressPercentage,
		}).Info("Clip snapshot")
	}

	var final *models.Clip
	job.OnFinish = func(c *models.Clip, _ error) { final = c }

	if err := job.Execute(ctx); err != nil {
		return final, describe(err, job.Record())
	}
	if err := final.Failure(); err != nil {
		return final, err
	}
	return final, nil
}

// describe adds the elapsed attempts to poll errors.
func describe(err error, job models.TrackingJob) error {
	if errors.Is(err, poller.ErrTimeout) {
		elapsed := time.Duration(0)
		if job.CompletedAt != nil {
			elapsed = job.CompletedAt.Sub(job.CreatedAt).Round(time.Second)
		}
		return fmt.Errorf("%s %s still %q after %s: %w", job.EntityType, job.EntityID, job.Status, elapsed, err)
	}
	return err
}
