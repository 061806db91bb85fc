package server

import "github.com/raysh454/fraudeye/internal/logging"

type Config struct {
	// ListenAddr is the HTTP listen address for the dashboard server.
	ListenAddr string

	// Logger defaults to a stdout logger when nil.
	Logger logging.Logger
}
