package demobackend

// Config holds configuration for the demo backend.
type Config struct {
	// ListenAddr is the address the backend listens on.
	ListenAddr string

	// MaxScans bounds how many scans GET /api/scans returns (newest first).
	MaxScans int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ListenAddr: ":5000",
		MaxScans:   50,
	}
}
