package bridge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/raysh454/fraudeye/internal/extract"
	"github.com/raysh454/fraudeye/internal/logging"
	"github.com/raysh454/fraudeye/internal/model"
	"github.com/raysh454/fraudeye/internal/webclient"
)

// MinAutoScanChars is the shortest extracted text worth an automatic scan.
const MinAutoScanChars = 200

// ErrAutoScanSkipped is wrapped with the reason an auto-scan did not run.
var ErrAutoScanSkipped = errors.New("auto-scan skipped")

// ContentScript is attached to one tab. It relays the dashboard's token
// broadcasts to the background, answers page info requests from the popup
// and may submit the page once for automatic analysis.
type ContentScript struct {
	tabID  int
	rt     *Runtime
	win    *Window
	web    webclient.WebClient
	logger logging.Logger

	mu        sync.RWMutex
	page      *extract.Page
	selection string

	scanned atomic.Bool

	ready     chan struct{}
	readyOnce sync.Once
}

func NewContentScript(tabID int, rt *Runtime, win *Window, web webclient.WebClient, logger logging.Logger) *ContentScript {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &ContentScript{
		tabID:  tabID,
		rt:     rt,
		win:    win,
		web:    web,
		logger: logger.With(logging.Field{Key: "component", Value: "content_script"}, logging.Field{Key: "tab", Value: tabID}),
		ready:  make(chan struct{}),
	}
}

// Load fetches rawURL and attaches the script to the resulting page.
func (cs *ContentScript) Load(ctx context.Context, rawURL string) error {
	resp, err := cs.web.Get(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("load %s: %w", rawURL, err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("load %s: status %d", rawURL, resp.StatusCode)
	}
	page, err := extract.Parse(rawURL, resp.Body)
	if err != nil {
		return err
	}
	cs.Attach(page)
	cs.logger.Debug("page loaded",
		logging.Field{Key: "url", Value: rawURL},
		logging.Field{Key: "status", Value: resp.StatusCode})
	return nil
}

// Attach sets the page without fetching it.
func (cs *ContentScript) Attach(page *extract.Page) {
	cs.mu.Lock()
	cs.page = page
	cs.selection = ""
	cs.mu.Unlock()
}

// SetSelection records the text the user has selected on the page.
func (cs *ContentScript) SetSelection(s string) {
	cs.mu.Lock()
	cs.selection = s
	cs.mu.Unlock()
}

func (cs *ContentScript) PageInfo() model.PageInfo {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	info := model.PageInfo{Selection: strings.TrimSpace(cs.selection)}
	if cs.page != nil {
		info.URL = cs.page.URL
		info.Title = cs.page.Title()
	}
	return info
}

// Run registers the script with its tab and relays token broadcasts seen on
// the window until ctx is done or the window closes.
func (cs *ContentScript) Run(ctx context.Context) error {
	unregister := cs.rt.RegisterTab(cs.tabID, cs.handle)
	defer unregister()

	events, stop := cs.win.Listen()
	defer stop()
	cs.readyOnce.Do(func() { close(cs.ready) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			cs.onWindowMessage(ctx, ev)
		}
	}
}

// Ready is closed once Run has registered the tab and is listening.
func (cs *ContentScript) Ready() <-chan struct{} {
	return cs.ready
}

// TabID is the tab this script is attached to.
func (cs *ContentScript) TabID() int { return cs.tabID }

func (cs *ContentScript) onWindowMessage(ctx context.Context, ev WindowEvent) {
	if !ev.SameWindow || !ev.Message.IsTokenBroadcast() {
		return
	}
	resp, err := cs.rt.SendMessage(ctx, SaveTokenFromPage{Token: ev.Message.Token})
	if err != nil {
		cs.logger.Warn("relaying token to background", logging.Field{Key: "error", Value: err})
		return
	}
	if !resp.OK {
		cs.logger.Warn("background rejected token", logging.Field{Key: "error", Value: resp.Error})
		return
	}
	cs.logger.Debug("token relayed", logging.Field{Key: "request_id", Value: resp.RequestID})
}

func (cs *ContentScript) handle(_ context.Context, env Envelope) Response {
	switch env.Message.(type) {
	case GetPageInfo:
		info := cs.PageInfo()
		return Response{OK: true, PageInfo: &info}
	default:
		return errorResponse(fmt.Errorf("%w: %T", ErrUnknownMessage, env.Message))
	}
}

// AutoScan submits the page for analysis if it looks like an article with
// enough text. Only the first call per script does anything; later calls
// return ErrAutoScanSkipped.
func (cs *ContentScript) AutoScan(ctx context.Context) (Response, error) {
	if !cs.scanned.CompareAndSwap(false, true) {
		return Response{}, fmt.Errorf("%w: already scanned", ErrAutoScanSkipped)
	}

	cs.mu.RLock()
	page := cs.page
	cs.mu.RUnlock()
	if page == nil {
		return Response{}, fmt.Errorf("%w: no page loaded", ErrAutoScanSkipped)
	}
	if !page.IsArticle() {
		return Response{}, fmt.Errorf("%w: not an article page", ErrAutoScanSkipped)
	}
	snippet := page.MainText()
	if utf8.RuneCountInString(snippet) < MinAutoScanChars {
		return Response{}, fmt.Errorf("%w: text too short", ErrAutoScanSkipped)
	}

	resp, err := cs.rt.SendMessage(ctx, AutoScanRequest{
		URL:            page.URL,
		ContentSnippet: snippet,
		Source:         model.SourceAutoscan,
	})
	if err != nil {
		return Response{}, fmt.Errorf("auto-scan request: %w", err)
	}
	cs.logger.Info("auto-scan response",
		logging.Field{Key: "ok", Value: resp.OK},
		logging.Field{Key: "error", Value: resp.Error})
	return resp, nil
}
