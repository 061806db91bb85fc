package webclient

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Request is one exchange made from an extension context: a page load for
// a content script, or a JSON call to the backend from the background or
// popup.
type Request struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
}

// NewJSONRequest encodes payload as the request body. A non-empty bearer
// token is sent as the Authorization header.
func NewJSONRequest(method, url string, payload any, bearer string) (*Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s %s: %w", method, url, err)
	}
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
	if bearer != "" {
		h.Set("Authorization", "Bearer "+bearer)
	}
	return &Request{Method: method, URL: url, Headers: h, Body: body}, nil
}

// Response is what came back. A non-2xx status is a Response, not an error.
type Response struct {
	Request    *Request
	Headers    http.Header
	Body       []byte
	StatusCode int

	// Truncated is set when the body was cut at the read limit.
	Truncated bool
}

// Success reports a 2xx status.
func (r *Response) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode <= 299
}
