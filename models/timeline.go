package models

import (
	"errors"
	"fmt"
)

// MaxClipDuration is the longest clip the backend renders, in seconds.
const MaxClipDuration = 120.0

// ErrInvalidTimeRange is wrapped by every time-window validation failure.
var ErrInvalidTimeRange = errors.New("invalid time range")

// ValidateClipWindow checks the constraints that do not depend on the source video.
func ValidateClipWindow(start, end float64) error {
	if start < 0 {
		return fmt.Errorf("%w: start_time must not be negative", ErrInvalidTimeRange)
	}
	if end <= start {
		return fmt.Errorf("%w: end_time must be greater than start_time", ErrInvalidTimeRange)
	}
	if end-start > MaxClipDuration {
		return fmt.Errorf("%w: clip must be at most %.0f seconds long", ErrInvalidTimeRange, MaxClipDuration)
	}
	return nil
}

// ValidateTimeRange also bounds the window by the video duration. A non-positive
// duration means the length is not known yet and is not checked.
func ValidateTimeRange(start, end, videoDuration float64) error {
	if err := ValidateClipWindow(start, end); err != nil {
		return err
	}
	if videoDuration > 0 && end > videoDuration {
		return fmt.Errorf("%w: end_time exceeds the video duration of %.0f seconds", ErrInvalidTimeRange, videoDuration)
	}
	return nil
}
