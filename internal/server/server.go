package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/AdityaMalani1302/cms/internal/analytics"
	"github.com/AdityaMalani1302/cms/internal/chatbot"
	"github.com/AdityaMalani1302/cms/internal/config"
	"github.com/AdityaMalani1302/cms/internal/nlp"
	"github.com/AdityaMalani1302/cms/internal/responder"
	"github.com/AdityaMalani1302/cms/internal/store"
	"github.com/AdityaMalani1302/cms/internal/tracking"
	"github.com/AdityaMalani1302/cms/internal/types"
)

const apologyMessage = "I'm sorry, I'm having trouble processing your request right now. Please try again or contact our support team."

type Server struct {
	router    *chi.Mux
	engine    *chatbot.Engine
	analytics *analytics.Aggregator
	cfg       config.Config
	logger    *zap.Logger
	now       func() time.Time
}

type Option func(*options)

type options struct {
	now      func() time.Time
	provider tracking.Provider
}

// WithClock fixes the time source used for sessions, messages and
// analytics.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithTrackingProvider replaces the HTTP tracking client.
func WithTrackingProvider(p tracking.Provider) Option {
	return func(o *options) { o.provider = p }
}

func NewServer(cfg config.Config, logger *zap.Logger, opts ...Option) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := options{now: time.Now}
	for _, fn := range opts {
		fn(&o)
	}
	if o.provider == nil {
		o.provider = tracking.NewClient(cfg.CMSAPIURL, cfg.TrackingTimeout)
	}

	rules, err := nlp.LoadRuleSet(cfg.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load intent rules: %w", err)
	}
	logger.Info("intent rules loaded",
		zap.Int("intents", len(rules.Intents)),
		zap.Int("entities", len(rules.Entities)),
		zap.String("source", rulesSource(cfg.RulesFile)),
	)

	sessions := store.NewMemoryStore(store.WithClock(o.now))
	engine := chatbot.NewEngine(rules, responder.New(o.provider, logger), sessions, logger, chatbot.WithClock(o.now))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", "X-Session-Id"},
		ExposedHeaders:   []string{"X-Session-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s := &Server{
		router:    r,
		engine:    engine,
		analytics: analytics.NewAggregator(sessions, o.now),
		cfg:       cfg,
		logger:    logger,
		now:       o.now,
	}
	s.routes()
	return s, nil
}

func rulesSource(path string) string {
	if strings.TrimSpace(path) == "" {
		return "embedded"
	}
	return path
}

func (s *Server) routes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Post("/api/process", s.handleProcess)
	s.router.Get("/api/session/{id}", s.handleGetSession)
	s.router.Post("/api/session/reset", s.handleResetSession)
	s.router.Get("/api/analytics", s.handleAnalytics)
	s.router.Get("/api/ws", s.handleWS)
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, types.HealthResponse{
		Status:    "healthy",
		Service:   config.ServiceName,
		Version:   config.ServiceVersion,
		Timestamp: s.now(),
	})
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req types.ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeDecodeError(w, err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "Missing message in request")
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		req.SessionID = strings.TrimSpace(r.Header.Get("X-Session-Id"))
	}

	res, err := s.engine.Process(r.Context(), chatbot.Request{
		Message:   req.Message,
		SessionID: req.SessionID,
		UserID:    req.UserID,
		Context:   req.Context,
	})
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	w.Header().Set("X-Session-Id", res.SessionID)
	s.writeJSON(w, http.StatusOK, toProcessResponse(res))
}

func toProcessResponse(res chatbot.Result) types.ProcessResponse {
	ents := map[string][]string(res.Entities)
	if ents == nil {
		ents = map[string][]string{}
	}
	qr := res.QuickReplies
	if qr == nil {
		qr = []string{}
	}
	return types.ProcessResponse{
		Message:      res.Message,
		Intent:       res.Intent,
		Confidence:   res.Confidence,
		Entities:     ents,
		QuickReplies: qr,
		SessionID:    res.SessionID,
		Timestamp:    res.Timestamp,
	}
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.engine.Session(id)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	var req types.ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeDecodeError(w, err)
		return
	}
	if err := s.engine.ResetSession(req.SessionID); err != nil {
		if errors.Is(err, chatbot.ErrValidation) {
			s.writeError(w, http.StatusBadRequest, "Missing sessionId")
			return
		}
		s.writeEngineError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, types.MessageResponse{Message: "Session reset successfully"})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.analytics.Compute())
}

// writeEngineError maps engine errors onto HTTP statuses. Anything not
// recognized is logged and answered with a generic apology.
func (s *Server) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, chatbot.ErrValidation):
		s.writeError(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), chatbot.ErrValidation.Error()+": "))
	case errors.Is(err, store.ErrSessionNotFound):
		s.writeError(w, http.StatusNotFound, "Session not found")
	default:
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		s.writeInternalError(w)
	}
}

func (s *Server) writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrUnsupportedValue) {
		s.writeError(w, http.StatusBadRequest, store.ErrUnsupportedValue.Error())
		return
	}
	s.writeError(w, http.StatusBadRequest, "invalid JSON body")
}

func (s *Server) writeInternalError(w http.ResponseWriter) {
	s.writeJSON(w, http.StatusInternalServerError, types.ErrorResponse{
		Error:   "Internal server error",
		Message: apologyMessage,
	})
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, types.ErrorResponse{Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to encode response", zap.Error(err))
	}
}
