package api

import (
	"encoding/json"
	"fmt"
)

// APIError is returned for any failed call. Status is zero when the request
// never produced a response (connection refused, timeout, ...).
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("api request failed: %v", e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("api returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api returned %d", e.Status)
}

func (e *APIError) Unwrap() error { return e.Err }

// errorPayload is what the backend sends with non-2xx responses.
type errorPayload struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func parseErrorPayload(body []byte) string {
	var p errorPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return ""
	}
	if p.Message != "" {
		return p.Message
	}
	return p.Error
}
