package bridge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/raysh454/fraudeye/internal/logging"
	"github.com/raysh454/fraudeye/internal/model"
	"github.com/raysh454/fraudeye/internal/storage"
	"github.com/raysh454/fraudeye/internal/webclient"
)

var errMissingToken = errors.New("missing token")

// Background is the extension's long-lived context. It owns the token copy
// in extension storage and performs auto-scan submissions for content
// scripts.
type Background struct {
	store  storage.Store
	poster *scanPoster
	logger logging.Logger
}

// NewBackground builds the background context over extension storage. Scans
// are posted to apiBaseURL + "/scans" through web.
func NewBackground(st storage.Store, web webclient.WebClient, apiBaseURL string, logger logging.Logger) *Background {
	if logger == nil {
		logger = logging.Nop{}
	}
	logger = logger.With(logging.Field{Key: "component", Value: "background"})
	return &Background{
		store:  st,
		poster: newScanPoster(web, apiBaseURL, st, logger),
		logger: logger,
	}
}

// Attach installs the background as rt's message handler.
func (b *Background) Attach(rt *Runtime) {
	rt.OnMessage(b.Handle)
}

func (b *Background) Handle(ctx context.Context, env Envelope) Response {
	switch m := env.Message.(type) {
	case SaveTokenFromPage:
		return b.saveToken(ctx, m)
	case AutoScanRequest:
		return b.autoScan(ctx, m)
	default:
		return errorResponse(fmt.Errorf("%w: %T", ErrUnknownMessage, env.Message))
	}
}

func (b *Background) saveToken(ctx context.Context, m SaveTokenFromPage) Response {
	if strings.TrimSpace(m.Token) == "" {
		return errorResponse(errMissingToken)
	}
	if err := b.store.Set(ctx, storage.KeyToken, m.Token); err != nil {
		b.logger.Error("saving token from page", logging.Field{Key: "error", Value: err})
		return errorResponse(err)
	}
	b.logger.Info("token saved to extension storage")
	return Response{OK: true}
}

func (b *Background) autoScan(ctx context.Context, m AutoScanRequest) Response {
	req := model.CreateScanRequest{
		ContentSnippet: m.ContentSnippet,
		Source:         m.Source,
	}
	if m.URL != "" {
		u := m.URL
		req.URL = &u
	}
	if req.Source == "" {
		req.Source = model.SourceAutoscan
	}

	data, err := b.poster.post(ctx, req)
	if err != nil {
		b.logger.Warn("auto-scan failed",
			logging.Field{Key: "url", Value: m.URL},
			logging.Field{Key: "error", Value: err})
		return errorResponse(err)
	}
	b.logger.Info("auto-scan submitted", logging.Field{Key: "url", Value: m.URL})
	return Response{OK: true, Data: data}
}
