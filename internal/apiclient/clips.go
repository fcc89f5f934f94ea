package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"viralclips/models"
)

type createClipRequest struct {
	VideoID     models.ID `json:"video_id"`
	MomentIndex int       `json:"moment_index"`
}

type updateTimesRequest struct {
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// CreateClip requests a clip for the moment at momentIndex of a video. The
// backend returns the existing clip when one was already created for the pair.
func (c *Client) CreateClip(ctx context.Context, videoID models.ID, momentIndex int) (*models.Clip, error) {
	var clip models.Clip
	payload := createClipRequest{VideoID: videoID, MomentIndex: momentIndex}
	if err := c.do(ctx, http.MethodPost, "/clips/", payload, &clip); err != nil {
		return nil, err
	}
	// the clip was created for this index whatever the reply carries
	clip.MomentIndex = momentIndex
	return &clip, nil
}

// GetClip fetches a single clip.
func (c *Client) GetClip(ctx context.Context, id models.ID) (*models.Clip, error) {
	var clip models.Clip
	if err := c.do(ctx, http.MethodGet, "/clips/"+escape(id)+"/", nil, &clip); err != nil {
		return nil, err
	}
	return &clip, nil
}

// ListClips returns all clips, or only those of videoID when it is non-empty.
func (c *Client) ListClips(ctx context.Context, videoID models.ID) ([]models.Clip, error) {
	path := "/clips/"
	if videoID != "" {
		path += "?" + url.Values{"video": {videoID.String()}}.Encode()
	}

	var clips []models.Clip
	if err := c.do(ctx, http.MethodGet, path, nil, &clips); err != nil {
		return nil, err
	}
	if clips == nil {
		clips = []models.Clip{}
	}
	return clips, nil
}

// UpdateClipTimes changes the clip window and triggers a re-render. The window
// is validated before any request is made. The returned clip is non-terminal
// and should be polled again.
func (c *Client) UpdateClipTimes(ctx context.Context, id models.ID, start, end float64) (*models.Clip, error) {
	if err := models.ValidateClipWindow(start, end); err != nil {
		return nil, err
	}

	var clip models.Clip
	payload := updateTimesRequest{StartTime: start, EndTime: end}
	if err := c.do(ctx, http.MethodPost, "/clips/"+escape(id)+"/update_times/", payload, &clip); err != nil {
		return nil, err
	}
	return &clip, nil
}

// DeleteClip removes a clip.
func (c *Client) DeleteClip(ctx context.Context, id models.ID) error {
	return c.do(ctx, http.MethodDelete, "/clips/"+escape(id)+"/", nil, nil)
}

// DownloadURL is the absolute URL of the rendered file. It is not fetched here.
func (c *Client) DownloadURL(id models.ID) string {
	return c.endpoint("/clips/" + escape(id) + "/download/")
}

// StreamURL is the absolute URL used as a video source for previews.
func (c *Client) StreamURL(id models.ID) string {
	return c.endpoint("/clips/" + escape(id) + "/stream/")
}
