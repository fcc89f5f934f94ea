package apiclient

import (
	"encoding/json"
	"fmt"
)

// ErrorKind classifies a failed backend call.
type ErrorKind int

const (
	// TransportError: the request never produced a response.
	TransportError ErrorKind = iota + 1
	// HTTPStatusError: the backend answered with a non-2xx status.
	HTTPStatusError
	// DecodeError: a 2xx response whose body is not the expected JSON.
	DecodeError
)

func (k ErrorKind) String() string {
	switch k {
	case TransportError:
		return "transport"
	case HTTPStatusError:
		return "http_status"
	case DecodeError:
		return "decode"
	}
	return "unknown"
}

// Error is the single error type returned by Client. Message is what a user should see.
type Error struct {
	Kind       ErrorKind
	StatusCode int // 0 for transport errors
	Message    string
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// newStatusError builds an HTTPStatusError, taking the message from an
// {"error": "..."} body when there is one.
func newStatusError(statusCode int, body []byte) *Error {
	message := fmt.Sprintf("HTTP status %d", statusCode)

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		message = payload.Error
	}

	return &Error{Kind: HTTPStatusError, StatusCode: statusCode, Message: message}
}
