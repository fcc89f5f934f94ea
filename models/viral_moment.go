package models

import (
	"encoding/json"
	"strings"
)

// Category classifies why a moment is expected to perform well.
type Category string

const (
	CategoryStory       Category = "story"
	CategoryHumor       Category = "humor"
	CategoryAdvice      Category = "advice"
	CategoryControversy Category = "controversy"
	CategoryRevelation  Category = "revelation"
)

// categoryAliases maps every spelling the backend has produced onto the canonical set.
var categoryAliases = map[string]Category{
	"story":       CategoryStory,
	"historia":    CategoryStory,
	"história":    CategoryStory,
	"humor":       CategoryHumor,
	"advice":      CategoryAdvice,
	"conselho":    CategoryAdvice,
	"controversy": CategoryControversy,
	"polemica":    CategoryControversy,
	"polêmica":    CategoryControversy,
	"revelation":  CategoryRevelation,
	"revelacao":   CategoryRevelation,
	"revelação":   CategoryRevelation,
}

// ParseCategory returns the canonical category, or "" for unknown values.
func ParseCategory(raw string) Category {
	return categoryAliases[strings.ToLower(strings.TrimSpace(raw))]
}

// ViralMoment is a scored, time-bounded segment of a Video. Times are in seconds.
type ViralMoment struct {
	StartTime   float64  `json:"start_time"`
	EndTime     float64  `json:"end_time"`
	Duration    float64  `json:"duration"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	ViralScore  float64  `json:"viral_score"`
	Reason      string   `json:"reason,omitempty"`
	Category    Category `json:"category,omitempty"`
	Transcript  string   `json:"transcript,omitempty"`
}

// viralMomentWire lists every field name observed on the wire for a moment.
type viralMomentWire struct {
	StartTime     *float64 `json:"start_time"`
	Timestamp     *float64 `json:"timestamp"`
	EndTime       *float64 `json:"end_time"`
	Duration      *float64 `json:"duration"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	ViralScore    *float64 `json:"viral_score"`
	ViralityScore *float64 `json:"virality_score"`
	Reason        string   `json:"reason"`
	ViralReason   string   `json:"viral_reason"`
	Category      string   `json:"category"`
	Transcript    string   `json:"transcript"`
}

// UnmarshalJSON normalizes the field-name drift between backend versions into one schema.
func (m *ViralMoment) UnmarshalJSON(data []byte) error {
	var w viralMomentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*m = ViralMoment{
		Title:       w.Title,
		Description: w.Description,
		Reason:      firstNonEmpty(w.Reason, w.ViralReason),
		Category:    ParseCategory(w.Category),
		Transcript:  w.Transcript,
	}

	switch {
	case w.ViralScore != nil:
		m.ViralScore = *w.ViralScore
	case w.ViralityScore != nil:
		m.ViralScore = *w.ViralityScore
	}

	switch {
	case w.StartTime != nil:
		m.StartTime = *w.StartTime
	case w.Timestamp != nil:
		m.StartTime = *w.Timestamp
	}

	switch {
	case w.EndTime != nil:
		m.EndTime = *w.EndTime
	case w.Duration != nil:
		m.EndTime = m.StartTime + *w.Duration
	default:
		m.EndTime = m.StartTime
	}
	if m.EndTime < m.StartTime {
		// an end before the start is not trusted over a positive duration
		m.EndTime = m.StartTime
		if w.Duration != nil && *w.Duration > 0 {
			m.EndTime += *w.Duration
		}
	}

	// duration is always derived so that end - start == duration holds exactly
	m.Duration = m.EndTime - m.StartTime
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
