package models

import "regexp"

var youtubeIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?(?:[^#]*&)?v=|youtu\.be/)([^&\n?#/]+)`),
	regexp.MustCompile(`youtube\.com/embed/([^&\n?#/]+)`),
	regexp.MustCompile(`youtube\.com/v/([^&\n?#/]+)`),
	regexp.MustCompile(`youtube\.com/shorts/([^&\n?#/]+)`),
}

// ExtractYouTubeID returns the video id of a YouTube URL, or "" if the URL is not one the backend accepts.
func ExtractYouTubeID(url string) string {
	for _, pattern := range youtubeIDPatterns {
		if m := pattern.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}

// PublishRequest is the metadata sent when publishing a clip to YouTube.
type PublishRequest struct {
	Title       string   `json:"title" validate:"required,max=100"`
	Description string   `json:"description,omitempty" validate:"max=5000"`
	Tags        []string `json:"tags,omitempty"`
	Privacy     string   `json:"privacy" validate:"omitempty,oneof=public private unlisted"`
}

// PublishResult is returned once the upload to YouTube finished.
type PublishResult struct {
	YouTubeURL     string `json:"youtube_url"`
	YouTubeVideoID string `json:"youtube_video_id"`
}

// PublishStatus reports whether a clip has been published.
type PublishStatus struct {
	IsPublished    bool    `json:"is_published"`
	YouTubeURL     *string `json:"youtube_url"`
	YouTubeVideoID *string `json:"youtube_video_id"`
}
