package server

import (
	"github.com/raysh454/fraudeye/internal/bridge"
	"github.com/raysh454/fraudeye/internal/model"
)

// LoginRequest is the sign-in form payload.
type LoginRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"hunter2"`
}

// RegisterRequest is the sign-up form payload.
type RegisterRequest struct {
	Name     string `json:"name" example:"Alice"`
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"hunter2"`
}

// UserResponse wraps the signed-in user.
type UserResponse struct {
	User *model.User `json:"user"`
}

// FilterRequest toggles the "mine only" history filter.
type FilterRequest struct {
	MineOnly bool `json:"mineOnly" example:"true"`
}

// SubmitScanRequest is the new-scan form payload. The source is always
// dashboard.
type SubmitScanRequest struct {
	URL            string `json:"url" example:"https://news.example/article"`
	ContentSnippet string `json:"contentSnippet" example:"Researchers confirmed the findings..."`
}

// Frame kinds sent on /ws/bridge.
const (
	FrameWindow   = "window"
	FrameResponse = "response"
	FrameError    = "error"
)

// BridgeFrame is one server-to-client frame on /ws/bridge. Response and
// error frames carry the "id" of the inbound message they answer.
type BridgeFrame struct {
	Kind     string               `json:"kind" example:"window"`
	ID       string               `json:"id,omitempty" example:"req-1"`
	Window   *model.WindowMessage `json:"window,omitempty"`
	Response *bridge.Response     `json:"response,omitempty"`
	Error    string               `json:"error,omitempty"`
}

// ErrorResponse is a uniform error payload returned by the API.
type ErrorResponse struct {
	Error string `json:"error" example:"Failed to load scan history"`
}
