package models

// Status is the processing state reported by the backend for a Video or a Clip.
type Status string

const (
	StatusPending     Status = "pending"
	StatusDownloading Status = "downloading" // clips only
	StatusProcessing  Status = "processing"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
)

// IsTerminal reports whether no further transitions are expected.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}
