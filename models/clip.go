package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Clip is a rendered vertical clip derived from one viral moment of a Video.
type Clip struct {
	ID                 ID        `json:"id"`
	VideoID            ID        `json:"video_id"`
	Video              *Video    `json:"video,omitempty"` // present when the backend embeds it
	MomentIndex        int       `json:"moment_index"`
	StartTime          float64   `json:"start_time"`
	EndTime            float64   `json:"end_time"`
	Duration           float64   `json:"duration"`
	Title              string    `json:"title"`
	Description        string    `json:"description,omitempty"`
	SubtitleText       string    `json:"subtitle_text,omitempty"`
	ViralScore         float64   `json:"viral_score,omitempty"`
	ViralReason        string    `json:"viral_reason,omitempty"`
	Status             Status    `json:"status"`
	ProgressPercentage int       `json:"progress_percentage"`
	ErrorMessage       string    `json:"error_message,omitempty"`
	OutputFilePath     string    `json:"output_file_path,omitempty"`
	YouTubeVideoID     string    `json:"youtube_video_id,omitempty"`
	YouTubeURL         string    `json:"youtube_url,omitempty"`
	PublishedToYouTube bool      `json:"is_published_youtube"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type clipWire struct {
	ID                 ID              `json:"id"`
	VideoID            ID              `json:"video_id"`
	Video              json.RawMessage `json:"video"`
	MomentIndex        *int            `json:"moment_index"`
	StartTime          float64         `json:"start_time"`
	EndTime            float64         `json:"end_time"`
	Duration           *float64        `json:"duration"`
	Title              *string         `json:"title"`
	Description        *string         `json:"description"`
	SubtitleText       *string         `json:"subtitle_text"`
	ViralScore         *float64        `json:"viral_score"`
	ViralityScore      *float64        `json:"virality_score"`
	ViralReason        *string         `json:"viral_reason"`
	Status             Status          `json:"status"`
	ProgressPercentage *float64        `json:"progress_percentage"`
	ErrorMessage       *string         `json:"error_message"`
	OutputFilePath     *string         `json:"output_file_path"`
	ProcessedClipPath  *string         `json:"processed_clip_path"`
	OriginalClipPath   *string         `json:"original_clip_path"`
	YouTubeVideoID     *string         `json:"youtube_video_id"`
	YouTubeURL         *string         `json:"youtube_url"`
	PublishedToYouTube bool            `json:"is_published_youtube"`
	CreatedAt          *time.Time      `json:"created_at"`
	UpdatedAt          *time.Time      `json:"updated_at"`
}

// UnmarshalJSON resolves the owning video from either "video_id" or "video",
// which may hold an embedded object or a bare identifier.
func (c *Clip) UnmarshalJSON(data []byte) error {
	var w clipWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*c = Clip{
		ID:                 w.ID,
		VideoID:            w.VideoID,
		StartTime:          w.StartTime,
		EndTime:            w.EndTime,
		Title:              deref(w.Title),
		Description:        deref(w.Description),
		SubtitleText:       deref(w.SubtitleText),
		ViralReason:        deref(w.ViralReason),
		Status:             w.Status,
		ErrorMessage:       deref(w.ErrorMessage),
		OutputFilePath:     firstNonEmpty(deref(w.OutputFilePath), deref(w.ProcessedClipPath), deref(w.OriginalClipPath)),
		YouTubeVideoID:     deref(w.YouTubeVideoID),
		YouTubeURL:         deref(w.YouTubeURL),
		PublishedToYouTube: w.PublishedToYouTube,
	}

	if w.MomentIndex != nil {
		c.MomentIndex = *w.MomentIndex
	}
	if w.Duration != nil {
		c.Duration = *w.Duration
	} else {
		c.Duration = c.EndTime - c.StartTime
	}
	switch {
	case w.ViralScore != nil:
		c.ViralScore = *w.ViralScore
	case w.ViralityScore != nil:
		c.ViralScore = *w.ViralityScore
	}
	if w.ProgressPercentage != nil {
		c.ProgressPercentage = clampPercentage(*w.ProgressPercentage)
	}
	if w.CreatedAt != nil {
		c.CreatedAt = *w.CreatedAt
	}
	if w.UpdatedAt != nil {
		c.UpdatedAt = *w.UpdatedAt
	}

	raw := bytes.TrimSpace(w.Video)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
	case raw[0] == '{':
		var v Video
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		c.Video = &v
		if c.VideoID == "" {
			c.VideoID = v.ID
		}
	default:
		var id ID
		if err := json.Unmarshal(raw, &id); err != nil {
			return err
		}
		if c.VideoID == "" {
			c.VideoID = id
		}
	}
	return nil
}

func clampPercentage(p float64) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return int(p)
}

func (c *Clip) IsTerminal() bool {
	return c.Status.IsTerminal()
}

func (c *Clip) CurrentStatus() Status {
	return c.Status
}

// Failure returns a *BackendFailure when the backend reported the render as failed.
func (c *Clip) Failure() error {
	if c.Status != StatusFailed {
		return nil
	}
	return &BackendFailure{Resource: "clip", ID: c.ID, Message: c.ErrorMessage}
}
