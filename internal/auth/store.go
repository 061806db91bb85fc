// Package auth owns the dashboard's session: who is signed in and with which
// bearer token. The session is persisted so it survives restarts, and
// dependents are notified whenever the signed-in identity changes.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/raysh454/fraudeye/internal/logging"
	"github.com/raysh454/fraudeye/internal/model"
	"github.com/raysh454/fraudeye/internal/storage"
)

// Broadcaster delivers a same-window message to whoever listens on the page,
// typically the extension's content script. Delivery is best effort.
type Broadcaster interface {
	PostMessage(msg model.WindowMessage) error
}

// persistedAuth is the serialized form stored under storage.KeyAuth.
type persistedAuth struct {
	User *model.User `json:"user"`
}

// Store is the single owner of the AuthSession. Create it with NewStore and
// call Initialize once before use.
type Store struct {
	storage     storage.Store
	broadcaster Broadcaster
	logger      logging.Logger

	mu      sync.RWMutex
	session model.AuthSession

	subsMu sync.Mutex
	subs   map[int]chan model.AuthSession
	nextID int
}

// NewStore builds a Store over the dashboard origin storage. broadcaster may
// be nil when no extension is expected to listen.
func NewStore(st storage.Store, broadcaster Broadcaster, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Store{
		storage:     st,
		broadcaster: broadcaster,
		logger:      logger.With(logging.Field{Key: "component", Value: "auth"}),
		subs:        make(map[int]chan model.AuthSession),
	}
}

// Initialize restores a persisted session. A missing record starts anonymous;
// an unreadable one is removed and also starts anonymous. It never fails.
func (s *Store) Initialize(ctx context.Context) {
	raw, err := s.storage.Get(ctx, storage.KeyAuth)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("reading persisted session", logging.Field{Key: "error", Value: err})
		}
		s.setSession(model.AuthSession{})
		return
	}

	var p persistedAuth
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		s.logger.Warn("discarding corrupt persisted session", logging.Field{Key: "error", Value: err})
		if rerr := s.storage.Remove(ctx, storage.KeyAuth); rerr != nil {
			s.logger.Warn("removing corrupt session", logging.Field{Key: "error", Value: rerr})
		}
		s.setSession(model.AuthSession{})
		return
	}

	sess := model.AuthSession{User: p.User}
	if p.User != nil {
		if tok, err := s.storage.Get(ctx, storage.KeyToken); err == nil {
			sess.Token = tok
		}
	}
	s.setSession(sess)
	s.logger.Info("session restored", logging.Field{Key: "anonymous", Value: sess.Anonymous()})
}

// SaveSession persists user and token, switches to the authenticated state
// and hands the token to a listening extension. Only storage failures are
// returned; a failed broadcast is logged.
func (s *Store) SaveSession(ctx context.Context, user model.User, token string) error {
	if err := s.storage.Set(ctx, storage.KeyToken, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	raw, err := json.Marshal(persistedAuth{User: &user})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.storage.Set(ctx, storage.KeyAuth, string(raw)); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	u := user
	s.setSession(model.AuthSession{User: &u, Token: token})
	s.logger.Info("session saved", logging.Field{Key: "user_id", Value: user.ID})

	s.broadcastToken(token)
	return nil
}

func (s *Store) broadcastToken(token string) {
	if s.broadcaster == nil {
		return
	}
	msg := model.WindowMessage{
		Source: model.WebappSource,
		Type:   model.TypeFraudeyeToken,
		Token:  token,
	}
	if err := s.broadcaster.PostMessage(msg); err != nil {
		s.logger.Warn("failed to post token to extension", logging.Field{Key: "error", Value: err})
	}
}

// Logout clears the persisted session. Calling it while anonymous does nothing.
func (s *Store) Logout(ctx context.Context) error {
	if s.Session().Anonymous() {
		return nil
	}
	if err := s.storage.Remove(ctx, storage.KeyToken); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	if err := s.storage.Remove(ctx, storage.KeyAuth); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	s.setSession(model.AuthSession{})
	s.logger.Info("logged out")
	return nil
}

// Session returns a copy of the current session.
func (s *Store) Session() model.AuthSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.session
	if out.User != nil {
		u := *out.User
		out.User = &u
	}
	return out
}

// Subscribe returns a channel that receives the new session each time the
// signed-in identity changes. Token-only changes are not reported. The
// returned func unsubscribes and closes the channel.
//
// Only the latest session is kept for a slow subscriber; delivery never
// blocks the store.
func (s *Store) Subscribe() (<-chan model.AuthSession, func()) {
	ch := make(chan model.AuthSession, 1)

	s.subsMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subsMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (s *Store) setSession(next model.AuthSession) {
	s.mu.Lock()
	prev := s.session
	s.session = next
	s.mu.Unlock()

	if prev.SameIdentity(next) {
		return
	}

	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	latest := s.Session()
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- latest
	}
}
