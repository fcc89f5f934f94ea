package models

import (
	"encoding/json"
	"sort"
	"time"
)

// Video is a submitted source video (an "episode") and the result of its analysis.
type Video struct {
	ID           ID            `json:"id"`
	YouTubeURL   string        `json:"youtube_url"`
	YouTubeID    string        `json:"youtube_id,omitempty"`
	Title        string        `json:"title"`
	Duration     float64       `json:"duration"` // seconds, 0 while unknown
	ThumbnailURL string        `json:"thumbnail_url,omitempty"`
	Status       Status        `json:"status"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Moments      []ViralMoment `json:"viral_moments"` // sorted by descending score
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type videoWire struct {
	ID                 ID            `json:"id"`
	YouTubeURL         string        `json:"youtube_url"`
	YouTubeID          string        `json:"youtube_id"`
	Title              *string       `json:"title"`
	Duration           *float64      `json:"duration"`
	ThumbnailURL       *string       `json:"thumbnail_url"`
	Status             Status        `json:"status"`
	ErrorMessage       *string       `json:"error_message"`
	ViralMoments       []ViralMoment `json:"viral_moments"`
	ViralMomentsSorted []ViralMoment `json:"viral_moments_sorted"`
	CreatedAt          *time.Time    `json:"created_at"`
	UpdatedAt          *time.Time    `json:"updated_at"`
}

// UnmarshalJSON accepts nullable fields and both moment list names, and keeps
// the moments in the score-sorted order that moment indexes refer to.
func (v *Video) UnmarshalJSON(data []byte) error {
	var w videoWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	moments := w.ViralMomentsSorted
	if moments == nil {
		moments = w.ViralMoments
	}
	if moments == nil {
		moments = []ViralMoment{}
	}

	*v = Video{
		ID:           w.ID,
		YouTubeURL:   w.YouTubeURL,
		YouTubeID:    w.YouTubeID,
		Title:        deref(w.Title),
		ThumbnailURL: deref(w.ThumbnailURL),
		Status:       w.Status,
		ErrorMessage: deref(w.ErrorMessage),
		Moments:      SortMoments(moments),
	}
	if w.Duration != nil {
		v.Duration = *w.Duration
	}
	if w.CreatedAt != nil {
		v.CreatedAt = *w.CreatedAt
	}
	if w.UpdatedAt != nil {
		v.UpdatedAt = *w.UpdatedAt
	}
	return nil
}

// SortMoments returns a copy of moments ordered by descending score. Ties keep their input order.
func SortMoments(moments []ViralMoment) []ViralMoment {
	sorted := make([]ViralMoment, len(moments))
	copy(sorted, moments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ViralScore > sorted[j].ViralScore
	})
	return sorted
}

// Moment returns the moment at index in the sorted view.
func (v *Video) Moment(index int) (ViralMoment, bool) {
	if index < 0 || index >= len(v.Moments) {
		return ViralMoment{}, false
	}
	return v.Moments[index], true
}

func (v *Video) IsTerminal() bool {
	return v.Status.IsTerminal()
}

func (v *Video) CurrentStatus() Status {
	return v.Status
}

// Failure returns a *BackendFailure when the backend reported the analysis as failed.
func (v *Video) Failure() error {
	if v.Status != StatusFailed {
		return nil
	}
	return &BackendFailure{Resource: "video", ID: v.ID, Message: v.ErrorMessage}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
