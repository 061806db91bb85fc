package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"golang.org/x/sync/errgroup"

	"github.com/raysh454/fraudeye/internal/api"
	"github.com/raysh454/fraudeye/internal/app"
	"github.com/raysh454/fraudeye/internal/auth"
	"github.com/raysh454/fraudeye/internal/bridge"
	"github.com/raysh454/fraudeye/internal/logging"
	"github.com/raysh454/fraudeye/internal/model"
	"github.com/raysh454/fraudeye/internal/scans"
	_ "github.com/raysh454/fraudeye/internal/server/docs" // swagger spec
)

// Server is the HTTP + WebSocket surface for the FraudEye dashboard.
type Server struct {
	cfg      Config
	app      *app.Application
	router   chi.Router
	upgrader websocket.Upgrader
	logger   logging.Logger
}

// NewServer serves application. The application must already be started.
func NewServer(cfg Config, application *app.Application) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("Server")
	}

	r := chi.NewRouter()
	s := &Server{
		cfg:    cfg,
		app:    application,
		router: r,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: restrict to the dashboard and extension origins once the extension ID is configurable
				return true
			},
		},
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	// CORS preflight
	r.Options("/api/state", s.optionsHandler("GET"))
	r.Options("/api/auth/*", s.optionsHandler("POST"))
	r.Options("/api/filter", s.optionsHandler("PUT"))
	r.Options("/api/scans", s.optionsHandler("POST"))
	r.Options("/api/scans/reload", s.optionsHandler("POST"))

	r.Get("/api/state", s.handleState)

	// Auth
	r.Post("/api/auth/login", s.handleLogin)
	r.Post("/api/auth/register", s.handleRegister)
	r.Post("/api/auth/logout", s.handleLogout)

	// Scan history
	r.Put("/api/filter", s.handleSetFilter)
	r.Post("/api/scans", s.handleSubmitScan)
	r.Post("/api/scans/reload", s.handleReload)

	// WebSockets
	r.Get("/ws/state", s.handleStateWS)
	r.Get("/ws/bridge", s.handleBridgeWS)

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// sensitiveBody reports paths whose request bodies carry passwords.
func sensitiveBody(path string) bool {
	return strings.HasPrefix(path, "/api/auth/")
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}

	if r.Body != nil && !sensitiveBody(r.URL.Path) && (r.Method == http.MethodPost || r.Method == http.MethodPut) {
		if bodyBytes, err := io.ReadAll(r.Body); err == nil {
			fields = append(fields, logging.Field{Key: "body", Value: string(bodyBytes)})
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // allow streaming
	}
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := s.HTTPServer()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("dashboard listening", logging.Field{Key: "addr", Value: srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// upstreamStatus maps a backend failure to the status the dashboard returns.
// Backend client errors pass through; everything else is a bad gateway.
func upstreamStatus(err error) int {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		return apiErr.Status
	}
	return http.StatusBadGateway
}

// --- HTTP handlers ---

// handleState godoc
// @Summary Current dashboard state
// @Tags state
// @Produce json
// @Success 200 {object} scans.State
// @Router /api/state [get]
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Scans.Snapshot())
}

// handleLogin godoc
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/auth/login [post]
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	user, err := s.app.Panel.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		s.writeAuthError(w, "login", err)
		return
	}
	s.logger.Info("signed in", logging.Field{Key: "user_id", Value: user.ID})
	writeJSON(w, http.StatusOK, UserResponse{User: user})
}

// handleRegister godoc
// @Summary Create an account and sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Account"
// @Success 201 {object} UserResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/auth/register [post]
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	user, err := s.app.Panel.Register(r.Context(), body.Name, body.Email, body.Password)
	if err != nil {
		s.writeAuthError(w, "register", err)
		return
	}
	s.logger.Info("registered", logging.Field{Key: "user_id", Value: user.ID})
	writeJSON(w, http.StatusCreated, UserResponse{User: user})
}

func (s *Server) writeAuthError(w http.ResponseWriter, op string, err error) {
	s.logger.Warn(op+" failed", logging.Field{Key: "error", Value: err.Error()})
	msg := err.Error()
	var authErr *auth.AuthError
	if errors.As(err, &authErr) {
		msg = authErr.Message
	}
	writeError(w, upstreamStatus(err), msg)
}

// handleLogout godoc
// @Summary Sign out
// @Tags auth
// @Success 204
// @Failure 500 {object} ErrorResponse
// @Router /api/auth/logout [post]
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Panel.Logout(r.Context()); err != nil {
		s.logger.Warn("logout", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// handleSetFilter godoc
// @Summary Toggle the "mine only" history filter
// @Tags scans
// @Accept json
// @Produce json
// @Param body body FilterRequest true "Filter"
// @Success 200 {object} scans.State
// @Failure 502 {object} ErrorResponse
// @Router /api/filter [put]
func (s *Server) handleSetFilter(w http.ResponseWriter, r *http.Request) {
	var body FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := s.app.Scans.SetMineOnly(r.Context(), body.MineOnly); err != nil {
		s.writeLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.app.Scans.Snapshot())
}

// handleReload godoc
// @Summary Reload the scan history
// @Tags scans
// @Produce json
// @Success 200 {object} scans.State
// @Failure 502 {object} ErrorResponse
// @Router /api/scans/reload [post]
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Scans.Load(r.Context()); err != nil {
		s.writeLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.app.Scans.Snapshot())
}

func (s *Server) writeLoadError(w http.ResponseWriter, err error) {
	s.logger.Warn("loading scans", logging.Field{Key: "error", Value: err.Error()})
	writeError(w, http.StatusBadGateway, s.app.Scans.Snapshot().Error)
}

// handleSubmitScan godoc
// @Summary Analyze a new snippet
// @Tags scans
// @Accept json
// @Produce json
// @Param body body SubmitScanRequest true "Scan"
// @Success 201 {object} model.ScanResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/scans [post]
func (s *Server) handleSubmitScan(w http.ResponseWriter, r *http.Request) {
	var body SubmitScanRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	scan, err := s.app.Scans.Submit(r.Context(), body.URL, body.ContentSnippet, model.SourceDashboard)
	switch {
	case err == nil:
	case errors.Is(err, scans.ErrValidation):
		writeError(w, http.StatusBadRequest, scans.ErrValidation.Error())
		return
	case errors.Is(err, scans.ErrBusy):
		writeError(w, http.StatusConflict, err.Error())
		return
	default:
		s.logger.Warn("submitting scan", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusBadGateway, scans.ErrAnalyzeFailed.Error())
		return
	}

	s.logger.Info("scan submitted",
		logging.Field{Key: "id", Value: scan.ID},
		logging.Field{Key: "label", Value: string(scan.ResultLabel)})
	writeJSON(w, http.StatusCreated, model.ScanResponse{Scan: *scan})
}

// WebSockets

// readFrames reads until the peer goes away, then calls cancel. Frames from
// the peer are passed to onFrame; nil discards them.
func readFrames(conn *websocket.Conn, cancel context.CancelFunc, onFrame func([]byte)) {
	defer cancel()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if onFrame != nil {
			onFrame(data)
		}
	}
}

// handleStateWS streams a state snapshot on every change. The first frame is
// the current state.
func (s *Server) handleStateWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	states, unsubscribe := s.app.Scans.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go readFrames(conn, cancel, nil)

	s.logger.Info("state stream opened")
	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-states:
			if !ok {
				return
			}
			if err := conn.WriteJSON(st); err != nil {
				return
			}
		}
	}
}

// handleBridgeWS connects an out-of-process extension. Token broadcasts
// posted on the dashboard window go out as "window" frames; extension
// messages coming in are delivered to the background and answered with a
// "response" frame.
func (s *Server) handleBridgeWS(w http.ResponseWriter, r *http.Request) {
	// Listen first so nothing posted after the handshake is missed.
	events, stop := s.app.Window.Listen()
	defer stop()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	var writeMu sync.Mutex
	send := func(f BridgeFrame) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(f)
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go readFrames(conn, cancel, func(data []byte) {
		id, msg, err := bridge.DecodeRequest(data)
		if err != nil {
			_ = send(BridgeFrame{Kind: FrameError, ID: id, Error: err.Error()})
			return
		}
		// Replies may complete out of order; id is how the client matches them.
		go func() {
			resp, err := s.app.Runtime.SendMessage(ctx, msg)
			if err != nil {
				_ = send(BridgeFrame{Kind: FrameError, ID: id, Error: err.Error()})
				return
			}
			_ = send(BridgeFrame{Kind: FrameResponse, ID: id, Response: &resp})
		}()
	})

	s.logger.Info("extension bridge connected")
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if !ev.SameWindow || !ev.Message.IsTokenBroadcast() {
				continue
			}
			msg := ev.Message
			if err := send(BridgeFrame{Kind: FrameWindow, Window: &msg}); err != nil {
				return
			}
		}
	}
}
