package webclient

import "context"

// WebClient loads pages and performs plain HTTP calls for code that runs
// outside the dashboard's API client (the extension contexts).
type WebClient interface {
	Do(ctx context.Context, req *Request) (*Response, error)

	// Get is a convenience method for simple GET requests
	Get(ctx context.Context, url string) (*Response, error)

	Close() error
}
