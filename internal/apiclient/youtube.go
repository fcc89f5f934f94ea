package apiclient

import (
	"context"
	"net/http"

	"viralclips/models"
)

type authURLResponse struct {
	AuthURL string `json:"auth_url"`
}

// YouTubeAuthURL returns the OAuth consent URL the user must visit before publishing.
func (c *Client) YouTubeAuthURL(ctx context.Context) (string, error) {
	var resp authURLResponse
	if err := c.do(ctx, http.MethodGet, "/youtube/auth/", nil, &resp); err != nil {
		return "", err
	}
	return resp.AuthURL, nil
}

// PublishToYouTube uploads a rendered clip to the connected YouTube account.
func (c *Client) PublishToYouTube(ctx context.Context, id models.ID, req models.PublishRequest) (*models.PublishResult, error) {
	var result models.PublishResult
	if err := c.do(ctx, http.MethodPost, "/clips/"+escape(id)+"/publish-youtube/", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// YouTubeStatus reports whether a clip was already published.
func (c *Client) YouTubeStatus(ctx context.Context, id models.ID) (*models.PublishStatus, error) {
	var status models.PublishStatus
	if err := c.do(ctx, http.MethodGet, "/clips/"+escape(id)+"/youtube-status/", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
