package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/raysh454/fraudeye/internal/logging"
	"github.com/raysh454/fraudeye/internal/model"
	"github.com/raysh454/fraudeye/internal/storage"
	"github.com/raysh454/fraudeye/internal/webclient"
)

// PostError is a non-2xx answer from the scans endpoint.
type PostError struct {
	Status  int
	Message string
}

func (e *PostError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

// scanPoster submits scans the way the extension contexts do: straight to
// the backend, with whatever token is in extension storage. It does not go
// through the dashboard's api client.
type scanPoster struct {
	web      webclient.WebClient
	endpoint string
	tokens   storage.Store
	logger   logging.Logger
}

func newScanPoster(web webclient.WebClient, apiBaseURL string, tokens storage.Store, logger logging.Logger) *scanPoster {
	return &scanPoster{
		web:      web,
		endpoint: strings.TrimRight(apiBaseURL, "/") + "/scans",
		tokens:   tokens,
		logger:   logger,
	}
}

func (p *scanPoster) token(ctx context.Context) string {
	tok, err := p.tokens.Get(ctx, storage.KeyToken)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			p.logger.Warn("reading extension token", logging.Field{Key: "error", Value: err})
		}
		return ""
	}
	return tok
}

// post returns the raw JSON body of a 2xx answer.
func (p *scanPoster) post(ctx context.Context, req model.CreateScanRequest) (json.RawMessage, error) {
	httpReq, err := webclient.NewJSONRequest(http.MethodPost, p.endpoint, req, p.token(ctx))
	if err != nil {
		return nil, err
	}
	resp, err := p.web.Do(ctx, httpReq)
	if err != nil {
		return nil, err
	}

	if !resp.Success() {
		var payload struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(resp.Body, &payload); err != nil {
			p.logger.Debug("scan rejection body is not JSON",
				logging.Field{Key: "status", Value: resp.StatusCode},
				logging.Field{Key: "error", Value: err})
		}
		msg := payload.Message
		if msg == "" {
			msg = payload.Error
		}
		return nil, &PostError{Status: resp.StatusCode, Message: msg}
	}
	if !json.Valid(resp.Body) {
		return nil, errors.New("backend returned invalid JSON")
	}
	return json.RawMessage(resp.Body), nil
}
