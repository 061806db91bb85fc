package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/raysh454/fraudeye/internal/api"
	"github.com/raysh454/fraudeye/internal/auth"
	"github.com/raysh454/fraudeye/internal/bridge"
	"github.com/raysh454/fraudeye/internal/config"
	"github.com/raysh454/fraudeye/internal/logging"
	"github.com/raysh454/fraudeye/internal/pageurl"
	"github.com/raysh454/fraudeye/internal/scans"
	"github.com/raysh454/fraudeye/internal/storage"
	"github.com/raysh454/fraudeye/internal/webclient"
)

// DashboardTab is the tab the dashboard page itself is open in. Its content
// script relays token broadcasts to the background.
const DashboardTab = 0

var ErrNotStarted = errors.New("application not started")

// Application is the runtime state container shared by the CLI and the
// dashboard server. It owns storage, the backend client, the dashboard's
// auth and scan state, and the in-process extension contexts.
type Application struct {
	Config *config.Config
	Logger logging.Logger

	db        *storage.SQLiteDB
	Dashboard storage.Store
	Extension storage.Store

	API   *api.Client
	Auth  *auth.Store
	Panel *auth.Panel
	Scans *scans.ViewModel

	Window     *bridge.Window
	Runtime    *bridge.Runtime
	Background *bridge.Background
	Web        webclient.WebClient
	// Transport carries the extension's own POSTs. It is Web unless Web is
	// a page-rendering backend that cannot send them.
	Transport webclient.WebClient

	mu      sync.Mutex
	started bool
	nextTab int
	relay   *errgroup.Group

	// internal context for cancellation / lifecycle
	ctx    context.Context
	cancel context.CancelFunc
}

// New wires every component from cfg. Nothing runs until Start.
func New(cfg *config.Config, logger logging.Logger) (*Application, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = logging.NewStdoutLogger("fraudeye").SetLevel(logging.ParseLevel(cfg.Log.Level))
	}

	a := &Application{Config: cfg, Logger: logger, nextTab: DashboardTab + 1}
	if err := a.openStorage(); err != nil {
		return nil, err
	}

	webCfg := cfg.ForWebClient()
	web, err := webclient.NewWebClient(webCfg, logger)
	if err != nil {
		a.closeStorage()
		return nil, fmt.Errorf("creating webclient: %w", err)
	}
	a.Web = web
	a.Transport = web
	if !isNetHTTP(webCfg.Client) {
		webCfg.Client = webclient.ClientNetHTTP
		a.Transport, err = webclient.NewWebClient(webCfg, logger)
		if err != nil {
			_ = web.Close()
			a.closeStorage()
			return nil, fmt.Errorf("creating extension transport: %w", err)
		}
	}

	apiCfg := cfg.ForAPI()
	a.API = api.NewClient(apiCfg, a.Dashboard, logger)
	a.Window = bridge.NewWindow(logger)
	a.Auth = auth.NewStore(a.Dashboard, a.Window, logger)
	a.Panel = auth.NewPanel(a.API, a.Auth, logger)
	a.Scans = scans.NewViewModel(a.API, logger)

	a.Runtime = bridge.NewRuntime(logger)
	a.Background = bridge.NewBackground(a.Extension, a.Transport, apiCfg.BaseURL, logger)
	a.Background.Attach(a.Runtime)

	a.ctx, a.cancel = context.WithCancel(context.Background())
	return a, nil
}

func isNetHTTP(c webclient.Client) bool {
	name := strings.TrimSpace(string(c))
	return name == "" || strings.EqualFold(name, string(webclient.ClientNetHTTP))
}

func (a *Application) openStorage() error {
	path := a.Config.Storage.Path
	if path == "" {
		a.Dashboard = storage.NewMemoryStore()
		a.Extension = storage.NewMemoryStore()
		return nil
	}
	db, err := storage.OpenSQLite(path, a.Logger)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	a.db = db
	a.Dashboard = db.Namespace(storage.NamespaceDashboard)
	a.Extension = db.Namespace(storage.NamespaceExtension)
	return nil
}

func (a *Application) closeStorage() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		a.Logger.Warn("closing storage", logging.Field{Key: "error", Value: err})
	}
	a.db = nil
}

// Start restores the persisted session and starts the dashboard tab's
// content script so token broadcasts reach extension storage.
func (a *Application) Start(ctx context.Context) error {
	if a == nil {
		return errors.New("application is nil")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return nil
	}

	a.Auth.Initialize(ctx)
	a.Scans.SetSession(a.Auth.Session())

	relay := bridge.NewContentScript(DashboardTab, a.Runtime, a.Window, a.Web, a.Logger)
	g, gctx := errgroup.WithContext(a.ctx)
	g.Go(func() error {
		if err := relay.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	select {
	case <-relay.Ready():
	case <-ctx.Done():
		return ctx.Err()
	}

	a.relay = g
	a.started = true
	a.Logger.Info("application started",
		logging.Field{Key: "api", Value: a.Config.API.BaseURL},
		logging.Field{Key: "signed_in", Value: !a.Auth.Session().Anonymous()})
	return nil
}

// Run keeps the scan list in step with the signed-in identity until ctx is
// done. It does the initial load.
func (a *Application) Run(ctx context.Context) error {
	a.mu.Lock()
	started := a.started
	a.mu.Unlock()
	if !started {
		return ErrNotStarted
	}
	return a.Scans.Bind(ctx, a.Auth)
}

// OpenTab loads rawURL into a new tab with its own content script and makes
// it the active tab. The returned func detaches the script.
func (a *Application) OpenTab(ctx context.Context, rawURL string) (*bridge.ContentScript, func(), error) {
	pageURL, err := pageurl.Normalize(rawURL)
	if err != nil {
		return nil, nil, err
	}

	a.mu.Lock()
	id := a.nextTab
	a.nextTab++
	a.mu.Unlock()

	cs := bridge.NewContentScript(id, a.Runtime, a.Window, a.Web, a.Logger)
	if err := cs.Load(ctx, pageURL); err != nil {
		return nil, nil, err
	}

	tabCtx, cancel := context.WithCancel(a.ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = cs.Run(tabCtx)
	}()
	select {
	case <-cs.Ready():
	case <-ctx.Done():
		cancel()
		<-done
		return nil, nil, ctx.Err()
	}
	a.Runtime.SetActiveTab(id)

	return cs, func() {
		cancel()
		<-done
	}, nil
}

// NewPopup opens the extension popup against the active tab.
func (a *Application) NewPopup() *bridge.Popup {
	return bridge.NewPopup(a.Runtime, a.Extension, a.Transport, a.Config.API.BaseURL, a.Logger)
}

// Shutdown lets pending token relays finish, then stops everything and
// closes storage.
func (a *Application) Shutdown(ctx context.Context) error {
	if a == nil {
		return errors.New("application is nil")
	}
	a.Logger.Info("application shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	// Closing the window ends the relay once its queue is drained.
	a.Window.Close()
	var err error
	a.mu.Lock()
	relay := a.relay
	a.mu.Unlock()
	if relay != nil {
		done := make(chan error, 1)
		go func() { done <- relay.Wait() }()
		select {
		case err = <-done:
		case <-shutdownCtx.Done():
			err = fmt.Errorf("waiting for token relay: %w", shutdownCtx.Err())
		}
	}

	a.cancel()
	if cerr := a.Web.Close(); cerr != nil {
		a.Logger.Warn("closing webclient", logging.Field{Key: "error", Value: cerr})
	}
	if a.Transport != a.Web {
		if cerr := a.Transport.Close(); cerr != nil {
			a.Logger.Warn("closing extension transport", logging.Field{Key: "error", Value: cerr})
		}
	}
	a.closeStorage()
	return err
}
