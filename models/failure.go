package models

import "fmt"

// BackendFailure is a resource the backend moved to the failed status. It is an
// expected outcome of processing, not a transport problem.
type BackendFailure struct {
	Resource string
	ID       ID
	Message  string
}

func (e *BackendFailure) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s failed", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Resource, e.ID, e.Message)
}
