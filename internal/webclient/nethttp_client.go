package webclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/raysh454/fraudeye/internal/logging"
)

// maxBodyBytes caps how much of a page or API answer is kept in memory.
const maxBodyBytes = 10 << 20

// UserAgent is sent when a request does not set its own.
const UserAgent = "fraudeye-extension/0.1"

// NetHTTPClient is the plain HTTP transport. It serves both page loads and
// the extension's POSTs to the backend.
type NetHTTPClient struct {
	client *http.Client
	logger logging.Logger
}

// NewNetHTTPClient wraps httpClient, or a fresh client with cfg's timeout
// when httpClient is nil.
func NewNetHTTPClient(cfg Config, logger logging.Logger, httpClient *http.Client) (WebClient, error) {
	if logger == nil {
		logger = logging.Nop{}
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.timeout()}
	}
	c := &NetHTTPClient{
		client: httpClient,
		logger: logger.With(logging.Field{Key: "backend", Value: "nethttp"}),
	}
	c.logger.Debug("created nethttp webclient",
		logging.Field{Key: "timeout", Value: httpClient.Timeout.String()})
	return c, nil
}

func (c *NetHTTPClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	log := c.logger.With(
		logging.Field{Key: "method", Value: httpReq.Method},
		logging.Field{Key: "url", Value: req.URL})

	resp, err := c.client.Do(httpReq)
	if err != nil {
		log.Warn("http request failed", logging.Field{Key: "error", Value: err.Error()})
		return nil, fmt.Errorf("%s %s: %w", httpReq.Method, req.URL, err)
	}
	defer resp.Body.Close()

	body, truncated, err := readCapped(resp.Body)
	if err != nil {
		log.Warn("reading response body", logging.Field{Key: "error", Value: err.Error()})
		return nil, fmt.Errorf("%s %s: read body: %w", httpReq.Method, req.URL, err)
	}
	if truncated {
		log.Warn("response body truncated", logging.Field{Key: "limit", Value: maxBodyBytes})
	}
	log.Debug("http request done", logging.Field{Key: "status", Value: resp.StatusCode})

	return &Response{
		Request:    req,
		Headers:    resp.Header,
		Body:       body,
		StatusCode: resp.StatusCode,
		Truncated:  truncated,
	}, nil
}

func (c *NetHTTPClient) newHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range req.Headers {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", UserAgent)
	}
	return httpReq, nil
}

// readCapped reads at most maxBodyBytes and reports whether more was there.
func readCapped(r io.Reader) ([]byte, bool, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxBodyBytes+1))
	if err != nil {
		return nil, false, err
	}
	if len(body) > maxBodyBytes {
		return body[:maxBodyBytes], true, nil
	}
	return body, false, nil
}

func (c *NetHTTPClient) Get(ctx context.Context, url string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, URL: url})
}

// Close is a no-op; the underlying http.Client holds no resources of ours.
func (c *NetHTTPClient) Close() error {
	return nil
}
