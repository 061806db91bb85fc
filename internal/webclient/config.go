package webclient

import "time"

type Client string

const (
	ClientNetHTTP  Client = "nethttp"
	ClientChromedp Client = "chromedp"
)

// Config selects and tunes a backend.
type Config struct {
	Client Client

	// Timeout bounds a whole request. Zero means 30s.
	Timeout time.Duration

	// IdleAfter is how long the chromedp backend waits with no network
	// activity before it considers a page loaded. Zero means 2s.
	IdleAfter time.Duration

	// Headful shows the browser window for the chromedp backend.
	Headful bool
}

func DefaultConfig() Config {
	return Config{
		Client:    ClientNetHTTP,
		Timeout:   30 * time.Second,
		IdleAfter: 2 * time.Second,
	}
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 30 * time.Second
	}
	return c.Timeout
}

func (c Config) idleAfter() time.Duration {
	if c.IdleAfter <= 0 {
		return 2 * time.Second
	}
	return c.IdleAfter
}
