// Package storage provides the durable key/value storage shared by the
// dashboard session and the extension's local token copy.
package storage

import (
	"context"
	"errors"
)

// Keys used by the dashboard origin and the extension.
const (
	KeyToken = "fraudeye_token"
	KeyAuth  = "fraudeye_auth"
)

// Namespaces keep the dashboard origin storage and the extension-local
// storage apart even when they share one database file.
const (
	NamespaceDashboard = "dashboard"
	NamespaceExtension = "extension"
)

var ErrNotFound = errors.New("storage: key not found")

// Store is a string key/value store. Writes to a single key are atomic.
type Store interface {
	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Remove is a no-op for absent keys.
	Remove(ctx context.Context, key string) error
}
