// Package api is the dashboard's request layer for the FraudEye backend.
//
// Every request passes through a single pre-request hook that reads the
// bearer token from durable storage and attaches it; there is no way to
// issue a request that skips the hook. The client never retries.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/raysh454/fraudeye/internal/logging"
	"github.com/raysh454/fraudeye/internal/model"
	"github.com/raysh454/fraudeye/internal/storage"
)

// TokenSource is where the client looks up the bearer token before each
// request. storage.Store satisfies it.
type TokenSource interface {
	Get(ctx context.Context, key string) (string, error)
}

type Client struct {
	rc     *resty.Client
	tokens TokenSource
	logger logging.Logger
}

// NewClient builds a Client. tokens may be nil for a client that always runs
// anonymous.
func NewClient(cfg Config, tokens TokenSource, logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.Nop{}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	componentLogger := logger.With(logging.Field{Key: "component", Value: "api"})

	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetDebug(cfg.Debug).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	rc.SetLogger(&restyLogger{logger: componentLogger})

	c := &Client{rc: rc, tokens: tokens, logger: componentLogger}
	rc.OnBeforeRequest(c.attachToken)

	componentLogger.Debug("created api client", logging.Field{Key: "base_url", Value: cfg.BaseURL})
	return c
}

// attachToken runs before every request.
func (c *Client) attachToken(_ *resty.Client, r *resty.Request) error {
	if c.tokens == nil {
		return nil
	}
	tok, err := c.tokens.Get(r.Context(), storage.KeyToken)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			c.logger.Warn("reading token", logging.Field{Key: "error", Value: err})
		}
		return nil
	}
	if tok != "" {
		r.SetHeader("Authorization", "Bearer "+tok)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, result any, query map[string]string) error {
	req := c.rc.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Warn("request failed",
			logging.Field{Key: "method", Value: method},
			logging.Field{Key: "path", Value: path},
			logging.Field{Key: "error", Value: err})
		return &APIError{Err: err}
	}
	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		msg := parseErrorPayload(resp.Body())
		c.logger.Warn("request rejected",
			logging.Field{Key: "method", Value: method},
			logging.Field{Key: "path", Value: path},
			logging.Field{Key: "status", Value: resp.StatusCode()},
			logging.Field{Key: "message", Value: msg})
		return &APIError{
			Status:  resp.StatusCode(),
			Message: msg,
			Err:     fmt.Errorf("%s %s: %s", method, path, resp.Status()),
		}
	}
	return nil
}

// FetchScans returns the global scan list, or only the caller's scans when
// mine is true.
func (c *Client) FetchScans(ctx context.Context, mine bool) ([]model.Scan, error) {
	var out model.ScanListResponse
	var query map[string]string
	if mine {
		query = map[string]string{"mine": "true"}
	}
	if err := c.do(ctx, http.MethodGet, "/scans", nil, &out, query); err != nil {
		return nil, err
	}
	if out.Scans == nil {
		out.Scans = []model.Scan{}
	}
	return out.Scans, nil
}

// CreateScan submits content for scoring and returns the stored scan.
func (c *Client) CreateScan(ctx context.Context, req model.CreateScanRequest) (*model.Scan, error) {
	var out model.ScanResponse
	if err := c.do(ctx, http.MethodPost, "/scans", req, &out, nil); err != nil {
		return nil, err
	}
	return &out.Scan, nil
}

func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	var out model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	var out model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}
