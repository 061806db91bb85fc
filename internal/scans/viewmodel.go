// Package scans holds the dashboard's scan history state: the loaded list,
// the "mine only" filter, derived statistics and the new-scan form.
package scans

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/raysh454/fraudeye/internal/logging"
	"github.com/raysh454/fraudeye/internal/model"
)

const loadFailedMessage = "Failed to load scan history"

// ErrLoadFailed wraps the cause of a failed history load.
var ErrLoadFailed = errors.New("load scan history")

// ScansAPI is the subset of the backend client the view-model needs.
type ScansAPI interface {
	FetchScans(ctx context.Context, mine bool) ([]model.Scan, error)
	CreateScan(ctx context.Context, req model.CreateScanRequest) (*model.Scan, error)
}

// Form is the new-scan form input.
type Form struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

// State is a point-in-time copy of everything a renderer needs.
type State struct {
	Scans       []model.Scan      `json:"scans"`
	Loading     bool              `json:"loading"`
	Error       string            `json:"error,omitempty"`
	MineOnly    bool              `json:"mineOnly"`
	Session     model.AuthSession `json:"session"`
	Stats       model.Stats       `json:"stats"`
	SubmitError string            `json:"submitError,omitempty"`
	Submitting  bool              `json:"submitting"`
	Form        Form              `json:"form"`
}

type ViewModel struct {
	api    ScansAPI
	logger logging.Logger

	mu          sync.Mutex
	scans       []model.Scan
	loading     bool
	loadErr     string
	mineOnly    bool
	session     model.AuthSession
	generation  uint64
	submitting  bool
	submitErr   string
	form        Form
	subscribers map[int]chan State
	nextSub     int
}

func NewViewModel(a ScansAPI, logger logging.Logger) *ViewModel {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &ViewModel{
		api:         a,
		logger:      logger.With(logging.Field{Key: "component", Value: "scans"}),
		subscribers: make(map[int]chan State),
	}
}

// Load fetches the history for the current filter and session. The list is
// replaced on success and cleared on failure. If another load starts before
// this one returns, this result is dropped and Load returns nil.
func (vm *ViewModel) Load(ctx context.Context) error {
	vm.mu.Lock()
	vm.generation++
	gen := vm.generation
	mine := vm.mineOnly && !vm.session.Anonymous()
	vm.loading = true
	vm.mu.Unlock()
	vm.publish()

	scans, err := vm.api.FetchScans(ctx, mine)

	vm.mu.Lock()
	if gen != vm.generation {
		vm.mu.Unlock()
		vm.logger.Debug("dropping superseded load", logging.Field{Key: "generation", Value: gen})
		return nil
	}
	vm.loading = false
	if err != nil {
		vm.scans = nil
		vm.loadErr = loadFailedMessage
	} else {
		if scans == nil {
			scans = []model.Scan{}
		}
		vm.scans = scans
		vm.loadErr = ""
	}
	vm.mu.Unlock()
	vm.publish()

	if err != nil {
		vm.logger.Error("error fetching scans", logging.Field{Key: "error", Value: err})
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	vm.logger.Debug("scans loaded",
		logging.Field{Key: "count", Value: len(scans)},
		logging.Field{Key: "mine", Value: mine})
	return nil
}

// SetMineOnly changes the filter and reloads when it actually changed.
func (vm *ViewModel) SetMineOnly(ctx context.Context, v bool) error {
	vm.mu.Lock()
	changed := vm.mineOnly != v
	vm.mineOnly = v
	vm.mu.Unlock()
	if !changed {
		return nil
	}
	return vm.Load(ctx)
}

// SetSession records the session and reports whether the identity changed.
// It does not reload.
func (vm *ViewModel) SetSession(sess model.AuthSession) bool {
	vm.mu.Lock()
	changed := !vm.session.SameIdentity(sess)
	vm.session = sess
	vm.mu.Unlock()
	if changed {
		vm.publish()
	}
	return changed
}

// SessionSource is satisfied by *auth.Store.
type SessionSource interface {
	Session() model.AuthSession
	Subscribe() (<-chan model.AuthSession, func())
}

// Bind performs the initial load and then reloads whenever src reports a
// new identity, until ctx is done. Changes that arrive during a load are
// coalesced into one reload for the latest identity. Load failures are kept in the
// state, not returned.
func (vm *ViewModel) Bind(ctx context.Context, src SessionSource) error {
	updates, cancel := src.Subscribe()
	defer cancel()

	vm.SetSession(src.Session())
	_ = vm.Load(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sess, ok := <-updates:
			if !ok {
				return nil
			}
			if vm.SetSession(sess) {
				_ = vm.Load(ctx)
			}
		}
	}
}

// Stats is recomputed from the current list on every call.
func (vm *ViewModel) Stats() model.Stats {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return model.ComputeStats(vm.scans)
}

func (vm *ViewModel) Scans() []model.Scan {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return append([]model.Scan(nil), vm.scans...)
}

func (vm *ViewModel) Snapshot() State {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.snapshotLocked()
}

func (vm *ViewModel) snapshotLocked() State {
	scans := append([]model.Scan{}, vm.scans...)
	sess := vm.session
	if sess.User != nil {
		u := *sess.User
		sess.User = &u
	}
	return State{
		Scans:       scans,
		Loading:     vm.loading,
		Error:       vm.loadErr,
		MineOnly:    vm.mineOnly,
		Session:     sess,
		Stats:       model.ComputeStats(scans),
		SubmitError: vm.submitErr,
		Submitting:  vm.submitting,
		Form:        vm.form,
	}
}

// Subscribe streams state snapshots. A slow reader only sees the latest
// state; intermediate ones are replaced.
func (vm *ViewModel) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	vm.mu.Lock()
	id := vm.nextSub
	vm.nextSub++
	vm.subscribers[id] = ch
	ch <- vm.snapshotLocked()
	vm.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			vm.mu.Lock()
			delete(vm.subscribers, id)
			close(ch)
			vm.mu.Unlock()
		})
	}
}

func (vm *ViewModel) publish() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if len(vm.subscribers) == 0 {
		return
	}
	st := vm.snapshotLocked()
	for _, ch := range vm.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
}
