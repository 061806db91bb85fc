package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/raysh454/fraudeye/internal/logging"
)

// Handler answers one message. It runs on its own goroutine and must
// return exactly one Response.
type Handler func(ctx context.Context, env Envelope) Response

var (
	// ErrNoReceiver means no context is registered to receive the message.
	ErrNoReceiver = errors.New("could not establish connection: receiving end does not exist")

	ErrNoActiveTab = errors.New("no active tab")
)

// Runtime routes messages between extension contexts: SendMessage reaches
// the background handler, SendToTab reaches one tab's content script.
type Runtime struct {
	logger logging.Logger

	mu         sync.RWMutex
	background Handler
	tabs       map[int]Handler
	active     int
	hasActive  bool
}

func NewRuntime(logger logging.Logger) *Runtime {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Runtime{
		logger: logger.With(logging.Field{Key: "component", Value: "runtime"}),
		tabs:   make(map[int]Handler),
	}
}

// OnMessage installs the background handler, replacing any previous one.
func (r *Runtime) OnMessage(h Handler) {
	r.mu.Lock()
	r.background = h
	r.mu.Unlock()
}

// RegisterTab attaches a content script handler to tabID. The first tab
// registered becomes the active tab.
func (r *Runtime) RegisterTab(tabID int, h Handler) func() {
	r.mu.Lock()
	r.tabs[tabID] = h
	if !r.hasActive {
		r.active, r.hasActive = tabID, true
	}
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.tabs, tabID)
		if r.hasActive && r.active == tabID {
			r.hasActive = false
		}
	}
}

func (r *Runtime) SetActiveTab(tabID int) {
	r.mu.Lock()
	r.active, r.hasActive = tabID, true
	r.mu.Unlock()
}

func (r *Runtime) ActiveTab() (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active, r.hasActive
}

// SendMessage delivers msg to the background and waits for its response.
func (r *Runtime) SendMessage(ctx context.Context, msg Message) (Response, error) {
	r.mu.RLock()
	h := r.background
	r.mu.RUnlock()
	if h == nil {
		return Response{}, ErrNoReceiver
	}
	return r.call(ctx, h, msg)
}

// SendToTab delivers msg to the content script of tabID.
func (r *Runtime) SendToTab(ctx context.Context, tabID int, msg Message) (Response, error) {
	r.mu.RLock()
	h, ok := r.tabs[tabID]
	r.mu.RUnlock()
	if !ok {
		return Response{}, fmt.Errorf("tab %d: %w", tabID, ErrNoReceiver)
	}
	return r.call(ctx, h, msg)
}

func (r *Runtime) call(ctx context.Context, h Handler, msg Message) (Response, error) {
	env := Envelope{ID: uuid.NewString(), Message: msg}
	logger := r.logger.With(
		logging.Field{Key: "request_id", Value: env.ID},
		logging.Field{Key: "type", Value: string(msg.Type())})
	logger.Debug("sending message")

	done := make(chan Response, 1)
	go func() {
		resp := h(ctx, env)
		resp.RequestID = env.ID
		done <- resp
	}()

	select {
	case resp := <-done:
		logger.Debug("message answered", logging.Field{Key: "ok", Value: resp.OK})
		return resp, nil
	case <-ctx.Done():
		logger.Warn("message abandoned", logging.Field{Key: "error", Value: ctx.Err()})
		return Response{}, ctx.Err()
	}
}
