package clients

import (
	"encoding/json"
	"fmt"
)

// APIError is an error response from the remote API. Detail carries the
// server's human-readable message when the body had one.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// ParseAPIError decodes an error response body. The API reports failures as
// {"detail": "..."}; anything else (absent, malformed, or a structured
// validation detail) falls back to the generic status message.
func ParseAPIError(statusCode int, body []byte) *APIError {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return &APIError{StatusCode: statusCode, Detail: payload.Detail}
	}
	return &APIError{StatusCode: statusCode}
}
