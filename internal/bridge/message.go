// Package bridge carries messages between the dashboard page and the
// extension's content script, background and popup contexts.
//
// Every exchange is a request with exactly one response, correlated by a
// request ID. Message types form a closed set; each context registers a
// single handler that switches on the concrete type.
package bridge

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/raysh454/fraudeye/internal/model"
)

type MessageType string

const (
	TypeSaveTokenFromPage MessageType = "SAVE_TOKEN_FROM_PAGE"
	TypeAutoScanRequest   MessageType = "AUTO_SCAN_REQUEST"
	TypeGetPageInfo       MessageType = "GET_PAGE_INFO"
)

// Message is implemented only by the types in this file.
type Message interface {
	Type() MessageType
	isMessage()
}

// SaveTokenFromPage asks the background to keep a token the dashboard
// broadcast.
type SaveTokenFromPage struct {
	Token string `json:"token"`
}

// AutoScanRequest asks the background to submit page text for analysis.
type AutoScanRequest struct {
	URL            string       `json:"url"`
	ContentSnippet string       `json:"contentSnippet"`
	Source         model.Source `json:"source"`
}

// GetPageInfo asks a tab's content script for its URL, title and selection.
type GetPageInfo struct{}

func (SaveTokenFromPage) Type() MessageType { return TypeSaveTokenFromPage }
func (AutoScanRequest) Type() MessageType   { return TypeAutoScanRequest }
func (GetPageInfo) Type() MessageType       { return TypeGetPageInfo }

func (SaveTokenFromPage) isMessage() {}
func (AutoScanRequest) isMessage()   {}
func (GetPageInfo) isMessage()       {}

// Envelope is a message in flight.
type Envelope struct {
	ID      string
	Message Message
}

// Response answers exactly one Envelope.
type Response struct {
	RequestID string          `json:"requestId"`
	OK        bool            `json:"ok"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
	PageInfo  *model.PageInfo `json:"pageInfo,omitempty"`
}

func errorResponse(err error) Response {
	return Response{OK: false, Error: err.Error()}
}

var ErrUnknownMessage = errors.New("unknown message type")

// Encode writes msg in its wire form: the message fields plus "type".
func Encode(msg Message) ([]byte, error) {
	fields, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(fields, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]any{}
	}
	m["type"] = msg.Type()
	return json.Marshal(m)
}

// Decode reads a wire-form message.
func Decode(data []byte) (Message, error) {
	var head struct {
		Type MessageType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}

	var msg Message
	switch head.Type {
	case TypeSaveTokenFromPage:
		var m SaveTokenFromPage
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", head.Type, err)
		}
		msg = m
	case TypeAutoScanRequest:
		var m AutoScanRequest
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", head.Type, err)
		}
		msg = m
	case TypeGetPageInfo:
		msg = GetPageInfo{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, head.Type)
	}
	return msg, nil
}

// DecodeRequest reads a wire-form message sent by an out-of-process
// caller, along with its optional "id". The id is echoed in the reply so
// the caller can match answers to requests that were in flight together.
func DecodeRequest(data []byte) (string, Message, error) {
	var head struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", nil, fmt.Errorf("decode message: %w", err)
	}
	msg, err := Decode(data)
	return head.ID, msg, err
}
