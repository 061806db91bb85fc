package app

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raysh454/fraudeye/internal/bridge"
	"github.com/raysh454/fraudeye/internal/config"
	"github.com/raysh454/fraudeye/internal/demobackend"
	"github.com/raysh454/fraudeye/internal/extract"
	"github.com/raysh454/fraudeye/internal/model"
	"github.com/raysh454/fraudeye/internal/pageurl"
	"github.com/raysh454/fraudeye/internal/storage"
	"github.com/raysh454/fraudeye/internal/testutil"
	"github.com/raysh454/fraudeye/internal/webclient"
)

func newTestConfig(t *testing.T, storagePath string) *config.Config {
	t.Helper()
	backend := httptest.NewServer(demobackend.NewServer(demobackend.DefaultConfig(), &testutil.DummyLogger{}))
	t.Cleanup(backend.Close)

	cfg := config.DefaultConfig()
	cfg.API.BaseURL = backend.URL + "/api"
	cfg.Storage.Path = storagePath
	return cfg
}

func newStartedApp(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	a, err := New(cfg, &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return a
}

func TestRunRequiresStart(t *testing.T) {
	a, err := New(newTestConfig(t, ""), &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })

	if err := a.Run(context.Background()); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted, got %v", err)
	}
}

func TestShutdownFlushesTokenRelay(t *testing.T) {
	a := newStartedApp(t, newTestConfig(t, ""))
	ctx := context.Background()

	if _, err := a.Panel.Register(ctx, "Alice", "alice@example.com", "hunter2"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := a.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	dash, err := a.Dashboard.Get(ctx, storage.KeyToken)
	if err != nil {
		t.Fatalf("dashboard token: %v", err)
	}
	ext, err := a.Extension.Get(ctx, storage.KeyToken)
	if err != nil {
		t.Fatalf("extension token: %v", err)
	}
	if dash == "" || ext != dash {
		t.Fatalf("expected relayed token %q, extension has %q", dash, ext)
	}
}

func TestSessionSurvivesRestart(t *testing.T) {
	cfg := newTestConfig(t, filepath.Join(t.TempDir(), "fraudeye.db"))
	ctx := context.Background()

	first := newStartedApp(t, cfg)
	if _, err := first.Panel.Register(ctx, "Bob", "bob@example.com", "pw"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := first.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	second := newStartedApp(t, cfg)
	t.Cleanup(func() { _ = second.Shutdown(context.Background()) })

	sess := second.Auth.Session()
	if sess.Anonymous() || sess.User == nil || sess.User.Email != "bob@example.com" {
		t.Fatalf("expected restored session for bob, got %+v", sess)
	}
}

func TestOpenTabRejectsBadURL(t *testing.T) {
	a := newStartedApp(t, newTestConfig(t, ""))
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })

	if _, _, err := a.OpenTab(context.Background(), "ftp://example.com/x"); !errors.Is(err, pageurl.ErrScheme) {
		t.Fatalf("expected ErrScheme, got %v", err)
	}
}

func TestOpenTabBecomesActive(t *testing.T) {
	cfg := newTestConfig(t, "")
	a := newStartedApp(t, cfg)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })

	backendURL := cfg.API.BaseURL[:len(cfg.API.BaseURL)-len("/api")]
	cs, detach, err := a.OpenTab(context.Background(), backendURL+"/demo/articles/rainfall-study#top")
	if err != nil {
		t.Fatalf("OpenTab: %v", err)
	}
	defer detach()

	if cs.TabID() == DashboardTab {
		t.Fatal("opened tab reused the dashboard tab id")
	}
	if tab, ok := a.Runtime.ActiveTab(); !ok || tab != cs.TabID() {
		t.Fatalf("active tab = %d (%v), want %d", tab, ok, cs.TabID())
	}
	if got := cs.PageInfo().URL; got != backendURL+"/demo/articles/rainfall-study" {
		t.Fatalf("page URL = %q", got)
	}
}

func TestChromedpPagesStillPostOverHTTP(t *testing.T) {
	cfg := newTestConfig(t, "")
	cfg.WebClient.Client = string(webclient.ClientChromedp)
	a := newStartedApp(t, cfg)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	ctx := context.Background()

	if a.Transport == a.Web {
		t.Fatal("extension transport should not be the chromedp page loader")
	}

	resp, err := a.Runtime.SendMessage(ctx, bridge.AutoScanRequest{
		URL:            "https://news.example/a",
		ContentSnippet: strings.Repeat("Researchers confirmed the study results. ", 10),
		Source:         model.SourceAutoscan,
	})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if !resp.OK {
		t.Fatalf("auto-scan failed: %s", resp.Error)
	}

	// Popup analysis goes through the same transport.
	page, err := extract.Parse("https://news.example/b", []byte("<html><body><p>Hello</p></body></html>"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cs := bridge.NewContentScript(DashboardTab+1, a.Runtime, a.Window, a.Web, a.Logger)
	cs.Attach(page)
	cs.SetSelection("Officials announced the figures in a statement on Monday.")
	tabCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = cs.Run(tabCtx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	<-cs.Ready()
	a.Runtime.SetActiveTab(cs.TabID())

	popup := a.NewPopup()
	if _, err := popup.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := popup.Analyze(ctx); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	scans, err := a.API.FetchScans(ctx, false)
	if err != nil {
		t.Fatalf("FetchScans: %v", err)
	}
	if len(scans) != 2 {
		t.Fatalf("backend has %d scans, want 2", len(scans))
	}
}

func TestNetHTTPSharesTransport(t *testing.T) {
	a := newStartedApp(t, newTestConfig(t, ""))
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })

	if a.Transport != a.Web {
		t.Fatal("nethttp backend should serve pages and posts with one client")
	}
}
