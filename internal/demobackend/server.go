// Package demobackend is an in-memory FraudEye backend for local development
// and tests. It serves the REST contract the dashboard and extension talk
// to, scores text with a keyword classifier and hosts a few sample articles
// for trying out auto-scan.
package demobackend

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/raysh454/fraudeye/internal/logging"
	"github.com/raysh454/fraudeye/internal/model"
)

type Server struct {
	cfg    Config
	router chi.Router
	store  *memStore
	logger logging.Logger
	now    func() time.Time
}

func NewServer(cfg Config, logger logging.Logger) *Server {
	if cfg.MaxScans <= 0 {
		cfg.MaxScans = DefaultConfig().MaxScans
	}
	if logger == nil {
		logger = logging.NewStdoutLogger("demobackend")
	}
	s := &Server{
		cfg:    cfg,
		router: chi.NewRouter(),
		store:  newMemStore(),
		logger: logger,
		now:    time.Now,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(corsMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Options("/*", optionsHandler("GET, POST"))

		r.Get("/health", s.handleHealth)
		r.Post("/predict", s.handlePredict)

		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Get("/scans", s.handleListScans)
		r.Post("/scans", s.handleCreateScan)
	})

	r.Get("/demo/articles", s.handleArticleIndex)
	r.Get("/demo/articles/{slug}", s.handleArticle)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")
		next.ServeHTTP(w, r)
	})
}

func optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("http_request",
		logging.Field{Key: "method", Value: r.Method},
		logging.Field{Key: "path", Value: r.URL.Path})
	s.router.ServeHTTP(w, r)
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeMessage matches the backend's error shape: {"message": ...}.
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// bearerUser resolves the Authorization header to a user ID, or "".
func (s *Server) bearerUser(r *http.Request) string {
	h := r.Header.Get("Authorization")
	tok, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || tok == "" {
		return ""
	}
	return s.store.userForToken(tok)
}

// --- handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "FraudEye ML service is running",
		"model":   ModelVersion,
	})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content string `json:"content"`
		URL     string `json:"url"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body.Content == "" {
		writeMessage(w, http.StatusBadRequest, "content field is required")
		return
	}

	p := Classify(body.Content)
	writeJSON(w, http.StatusOK, struct {
		Prediction
		SourceURL string `json:"sourceUrl,omitempty"`
	}{p, body.URL})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if body.Name == "" || body.Email == "" || body.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	u, tok, err := s.store.register(body.Name, body.Email, body.Password)
	if errors.Is(err, errEmailTaken) {
		writeMessage(w, http.StatusBadRequest, "Email already registered")
		return
	}
	s.logger.Info("registered user", logging.Field{Key: "user_id", Value: u.ID})
	writeJSON(w, http.StatusCreated, model.AuthResponse{User: u, Token: tok})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	u, tok, err := s.store.login(body.Email, body.Password)
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	s.logger.Info("user logged in", logging.Field{Key: "user_id", Value: u.ID})
	writeJSON(w, http.StatusOK, model.AuthResponse{User: u, Token: tok})
}

func (s *Server) handleListScans(w http.ResponseWriter, r *http.Request) {
	userID := ""
	if r.URL.Query().Get("mine") == "true" {
		userID = s.bearerUser(r)
		if userID == "" {
			writeMessage(w, http.StatusUnauthorized, "Authentication required")
			return
		}
	}
	scans := s.store.listScans(userID, s.cfg.MaxScans)
	writeJSON(w, http.StatusOK, model.ScanListResponse{Scans: scans})
}

func (s *Server) handleCreateScan(w http.ResponseWriter, r *http.Request) {
	var body model.CreateScanRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	snippet := strings.TrimSpace(body.ContentSnippet)
	if snippet == "" {
		writeMessage(w, http.StatusBadRequest, "contentSnippet is required")
		return
	}

	p := Classify(snippet)
	meta, err := json.Marshal(map[string]any{
		"explanation":  p.Explanation,
		"modelVersion": p.ModelVersion,
	})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "encoding ml metadata failed")
		return
	}

	source := body.Source
	if source == "" {
		source = model.SourceDashboard
	}
	scan := model.Scan{
		ID:               uuid.NewString(),
		ContentSnippet:   snippet,
		ResultLabel:      p.Label,
		CredibilityScore: p.CredibilityScore,
		Source:           source,
		MLMeta:           meta,
		CreatedAt:        s.now().UTC(),
	}
	if body.URL != nil {
		scan.URL = strings.TrimSpace(*body.URL)
	}

	userID := s.bearerUser(r)
	s.store.addScan(scan, userID)
	s.logger.Info("scan created",
		logging.Field{Key: "id", Value: scan.ID},
		logging.Field{Key: "label", Value: string(scan.ResultLabel)},
		logging.Field{Key: "source", Value: string(scan.Source)},
		logging.Field{Key: "anonymous", Value: userID == ""})
	writeJSON(w, http.StatusCreated, model.ScanResponse{Scan: scan})
}
