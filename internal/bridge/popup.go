package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/raysh454/fraudeye/internal/logging"
	"github.com/raysh454/fraudeye/internal/model"
	"github.com/raysh454/fraudeye/internal/storage"
	"github.com/raysh454/fraudeye/internal/webclient"
)

// DashboardURL is where the popup's "open dashboard" action points.
const DashboardURL = "http://localhost:3000"

const (
	emptySnippetMessage   = "Please paste or select text."
	analysisFailedMessage = "Analysis failed."
)

var (
	ErrEmptySnippet = errors.New(emptySnippetMessage)
	ErrAnalyzing    = errors.New("analysis already in progress")
)

// PopupResult is what the popup shows after a successful analysis.
type PopupResult struct {
	Scan        model.Scan  `json:"scan"`
	Label       model.Label `json:"label"`
	Score       int         `json:"score"`
	Explanation string      `json:"explanation"`
}

// Popup is the extension's toolbar panel: it prefills from the active tab,
// posts one scan at a time and keeps the manual token entry.
type Popup struct {
	rt     *Runtime
	store  storage.Store
	poster *scanPoster
	logger logging.Logger

	mu        sync.Mutex
	pageURL   string
	snippet   string
	analyzing bool
}

func NewPopup(rt *Runtime, st storage.Store, web webclient.WebClient, apiBaseURL string, logger logging.Logger) *Popup {
	if logger == nil {
		logger = logging.Nop{}
	}
	logger = logger.With(logging.Field{Key: "component", Value: "popup"})
	return &Popup{
		rt:     rt,
		store:  st,
		poster: newScanPoster(web, apiBaseURL, st, logger),
		logger: logger,
	}
}

// Open asks the active tab for page info and prefills the URL and, when
// the user has selected text, the snippet.
func (p *Popup) Open(ctx context.Context) (*model.PageInfo, error) {
	tab, ok := p.rt.ActiveTab()
	if !ok {
		return nil, ErrNoActiveTab
	}
	resp, err := p.rt.SendToTab(ctx, tab, GetPageInfo{})
	if err != nil {
		return nil, err
	}
	if !resp.OK || resp.PageInfo == nil {
		return nil, fmt.Errorf("page info: %s", resp.Error)
	}

	info := *resp.PageInfo
	p.mu.Lock()
	p.pageURL = info.URL
	if info.Selection != "" {
		p.snippet = info.Selection
	}
	p.mu.Unlock()
	return &info, nil
}

func (p *Popup) SetSnippet(s string) {
	p.mu.Lock()
	p.snippet = s
	p.mu.Unlock()
}

func (p *Popup) Snippet() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snippet
}

func (p *Popup) PageURL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pageURL
}

// Analyze posts the snippet with source extension. Backend failures carry
// the backend's message when it gave one.
func (p *Popup) Analyze(ctx context.Context) (*PopupResult, error) {
	p.mu.Lock()
	if p.analyzing {
		p.mu.Unlock()
		return nil, ErrAnalyzing
	}
	snippet := strings.TrimSpace(p.snippet)
	pageURL := p.pageURL
	if snippet == "" {
		p.mu.Unlock()
		return nil, ErrEmptySnippet
	}
	p.analyzing = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.analyzing = false
		p.mu.Unlock()
	}()

	req := model.CreateScanRequest{ContentSnippet: snippet, Source: model.SourceExtension}
	if pageURL != "" {
		req.URL = &pageURL
	}

	data, err := p.poster.post(ctx, req)
	if err != nil {
		p.logger.Warn("analysis failed", logging.Field{Key: "error", Value: err})
		var pe *PostError
		if errors.As(err, &pe) && pe.Message != "" {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", analysisFailedMessage, err)
	}

	var out model.ScanResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", analysisFailedMessage, err)
	}
	return &PopupResult{
		Scan:        out.Scan,
		Label:       out.Scan.ResultLabel,
		Score:       out.Scan.CredibilityScore,
		Explanation: out.Scan.Explanation(),
	}, nil
}

// SaveToken stores a token pasted by the user. Blank input is ignored.
func (p *Popup) SaveToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if err := p.store.Set(ctx, storage.KeyToken, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	p.logger.Info("token saved manually")
	return nil
}

func (p *Popup) DashboardURL() string { return DashboardURL }
