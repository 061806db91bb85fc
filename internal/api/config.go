package api

import "time"

// DefaultBaseURL is where the dashboard expects the backend by default.
const DefaultBaseURL = "http://localhost:5000/api"

type Config struct {
	// BaseURL is the backend API root, including the /api prefix.
	BaseURL string

	// Timeout bounds each request. Zero means 30s.
	Timeout time.Duration

	// Debug turns on resty request/response dumps.
	Debug bool
}

func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: 30 * time.Second,
	}
}
