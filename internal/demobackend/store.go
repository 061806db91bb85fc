package demobackend

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/raysh454/fraudeye/internal/model"
)

var (
	errEmailTaken         = errors.New("email already registered")
	errInvalidCredentials = errors.New("invalid credentials")
)

type account struct {
	user         model.User
	passwordHash string
}

type scanRecord struct {
	scan   model.Scan
	userID string
}

// memStore keeps users, tokens and scans in memory. Scans are kept newest
// first.
type memStore struct {
	mu       sync.RWMutex
	accounts map[string]*account // by lower-cased email
	tokens   map[string]string   // token -> user ID
	scans    []scanRecord
}

func newMemStore() *memStore {
	return &memStore{
		accounts: make(map[string]*account),
		tokens:   make(map[string]string),
	}
}

func hashPassword(pw string) string {
	sum := sha256.Sum256([]byte(pw))
	return hex.EncodeToString(sum[:])
}

func (m *memStore) register(name, email, password string) (model.User, string, error) {
	key := strings.ToLower(email)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[key]; ok {
		return model.User{}, "", errEmailTaken
	}
	u := model.User{ID: uuid.NewString(), Name: name, Email: email}
	m.accounts[key] = &account{user: u, passwordHash: hashPassword(password)}
	tok := uuid.NewString()
	m.tokens[tok] = u.ID
	return u, tok, nil
}

func (m *memStore) login(email, password string) (model.User, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[strings.ToLower(email)]
	if !ok || acc.passwordHash != hashPassword(password) {
		return model.User{}, "", errInvalidCredentials
	}
	tok := uuid.NewString()
	m.tokens[tok] = acc.user.ID
	return acc.user, tok, nil
}

// userForToken returns "" for unknown tokens.
func (m *memStore) userForToken(tok string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tokens[tok]
}

func (m *memStore) addScan(s model.Scan, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scans = append([]scanRecord{{scan: s, userID: userID}}, m.scans...)
}

// listScans returns up to limit scans, newest first. A non-empty userID
// restricts the list to that user's scans.
func (m *memStore) listScans(userID string, limit int) []model.Scan {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Scan, 0, min(limit, len(m.scans)))
	for _, r := range m.scans {
		if len(out) == limit {
			break
		}
		if userID != "" && r.userID != userID {
			continue
		}
		out = append(out, r.scan)
	}
	return out
}
