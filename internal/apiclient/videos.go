package apiclient

import (
	"context"
	"net/http"

	"viralclips/models"
)

type createVideoRequest struct {
	YouTubeURL string `json:"youtube_url"`
}

// CreateVideo submits a YouTube URL for transcription and analysis.
func (c *Client) CreateVideo(ctx context.Context, youtubeURL string) (*models.Video, error) {
	var video models.Video
	if err := c.do(ctx, http.MethodPost, "/videos/", createVideoRequest{YouTubeURL: youtubeURL}, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

// GetVideo fetches a single video.
func (c *Client) GetVideo(ctx context.Context, id models.ID) (*models.Video, error) {
	var video models.Video
	if err := c.do(ctx, http.MethodGet, "/videos/"+escape(id)+"/", nil, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

// ListVideos returns every video known to the backend.
func (c *Client) ListVideos(ctx context.Context) ([]models.Video, error) {
	var videos []models.Video
	if err := c.do(ctx, http.MethodGet, "/videos/", nil, &videos); err != nil {
		return nil, err
	}
	if videos == nil {
		videos = []models.Video{}
	}
	return videos, nil
}

// DeleteVideo removes a video. The backend invalidates its clips.
func (c *Client) DeleteVideo(ctx context.Context, id models.ID) error {
	return c.do(ctx, http.MethodDelete, "/videos/"+escape(id)+"/", nil, nil)
}

// ReanalyzeVideo asks the backend to run the viral-moment analysis again.
// The returned video is non-terminal and should be polled.
func (c *Client) ReanalyzeVideo(ctx context.Context, id models.ID) (*models.Video, error) {
	var video models.Video
	if err := c.do(ctx, http.MethodPost, "/videos/"+escape(id)+"/reanalyze/", nil, &video); err != nil {
		return nil, err
	}
	return &video, nil
}
