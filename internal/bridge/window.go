package bridge

import (
	"errors"
	"sync"

	"github.com/raysh454/fraudeye/internal/logging"
	"github.com/raysh454/fraudeye/internal/model"
)

// WindowEvent is one delivered window message. SameWindow is false for
// messages that arrived from another frame or window.
type WindowEvent struct {
	Message    model.WindowMessage
	SameWindow bool
}

var (
	ErrWindowClosed = errors.New("window closed")
	// ErrListenerBusy is returned when a listener's queue is full; the
	// message was delivered to every other listener.
	ErrListenerBusy = errors.New("window listener busy")
)

const listenerQueue = 16

// Window is a page's message bus. Posting never blocks; each listener
// receives events in posting order on its own channel.
type Window struct {
	logger logging.Logger

	mu        sync.Mutex
	listeners map[int]chan WindowEvent
	next      int
	closed    bool
}

func NewWindow(logger logging.Logger) *Window {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Window{
		logger:    logger.With(logging.Field{Key: "component", Value: "window"}),
		listeners: make(map[int]chan WindowEvent),
	}
}

// PostMessage posts msg from this window to itself. With no listeners the
// message is simply lost, as in a browser.
func (w *Window) PostMessage(msg model.WindowMessage) error {
	return w.dispatch(WindowEvent{Message: msg, SameWindow: true})
}

// Receive delivers a message that came from some other window.
func (w *Window) Receive(msg model.WindowMessage) error {
	return w.dispatch(WindowEvent{Message: msg, SameWindow: false})
}

func (w *Window) dispatch(ev WindowEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWindowClosed
	}
	var err error
	for id, ch := range w.listeners {
		select {
		case ch <- ev:
		default:
			w.logger.Warn("dropping window message for slow listener",
				logging.Field{Key: "listener", Value: id},
				logging.Field{Key: "type", Value: ev.Message.Type})
			err = ErrListenerBusy
		}
	}
	return err
}

// Listen subscribes to the window. The returned func removes the listener
// and closes its channel.
func (w *Window) Listen() (<-chan WindowEvent, func()) {
	ch := make(chan WindowEvent, listenerQueue)

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := w.next
	w.next++
	w.listeners[id] = ch
	w.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			if _, ok := w.listeners[id]; ok {
				delete(w.listeners, id)
				close(ch)
			}
		})
	}
}

// Close detaches every listener.
func (w *Window) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	for id, ch := range w.listeners {
		close(ch)
		delete(w.listeners, id)
	}
}
