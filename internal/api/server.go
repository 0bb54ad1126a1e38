package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	enginev1 "github.com/Simon666Z/quantforge/internal/backtest/engine/engine_v1"
	"github.com/Simon666Z/quantforge/internal/logger"
	"github.com/Simon666Z/quantforge/internal/scan"
	"github.com/Simon666Z/quantforge/internal/store"
	"github.com/Simon666Z/quantforge/pkg/errors"
	"github.com/Simon666Z/quantforge/pkg/marketdata"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// Config holds the collaborators and limits of the API server.
type Config struct {
	Addr string
	// Engine is the base configuration every backtest request overlays.
	Engine      enginev1.BacktestEngineV1Config
	Source      marketdata.Source
	Presets     store.PresetStore
	Concurrency int
	// RequestTimeout bounds every request. Zero disables the timeout.
	RequestTimeout time.Duration
}

// DefaultConfig returns a config listening on localhost:8080 with default engine settings.
// Source and Presets must still be set.
func DefaultConfig() Config {
	return Config{
		Addr:           "127.0.0.1:8080",
		Engine:         enginev1.DefaultConfig(),
		Concurrency:    scan.DefaultConcurrency,
		RequestTimeout: 2 * time.Minute,
	}
}

// Server is the JSON HTTP API over the backtest engine.
type Server struct {
	config   Config
	router   *mux.Router
	runner   *scan.Runner
	metrics  *Metrics
	validate *validator.Validate
	log      *logger.Logger
}

// NewServer validates config and builds the router.
func NewServer(config Config, log *logger.Logger) (*Server, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	if config.Source == nil {
		return nil, errors.New(errors.ErrCodeMissingParameter, "market data source is required")
	}

	if config.Presets == nil {
		return nil, errors.New(errors.ErrCodeMissingParameter, "preset store is required")
	}

	runner, err := scan.NewRunner(config.Source, config.Engine, log, scan.WithConcurrency(config.Concurrency))
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:   config,
		router:   mux.NewRouter(),
		runner:   runner,
		metrics:  NewMetrics(),
		validate: validator.New(),
		log:      log,
	}

	s.setupRoutes()

	return s, nil
}

// Handler returns the root handler, for embedding or httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the Prometheus collectors of the server.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.requestLoggingMiddleware)
	s.router.Use(s.timeoutMiddleware)
	s.router.Use(s.corsMiddleware)

	s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/strategies", s.handleStrategies).Methods(http.MethodGet)
	api.HandleFunc("/strategies/{id}/schema", s.handleStrategySchema).Methods(http.MethodGet)
	api.HandleFunc("/scenarios", s.handleScenarios).Methods(http.MethodGet)
	api.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)
	api.HandleFunc("/market-data", s.handleMarketData).Methods(http.MethodGet)
	api.HandleFunc("/backtest", s.handleBacktest).Methods(http.MethodPost)
	api.HandleFunc("/screener", s.handleScreener).Methods(http.MethodPost)
	api.HandleFunc("/stress-test", s.handleStressTest).Methods(http.MethodPost)
	api.HandleFunc("/codegen", s.handleCodegen).Methods(http.MethodPost)
	api.HandleFunc("/users/{user}/presets", s.handleListPresets).Methods(http.MethodGet)
	api.HandleFunc("/users/{user}/presets", s.handleSavePreset).Methods(http.MethodPost)
	api.HandleFunc("/users/{user}/presets/{name}", s.handleGetPreset).Methods(http.MethodGet)
	api.HandleFunc("/users/{user}/presets/{name}", s.handleDeletePreset).Methods(http.MethodDelete)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "route not found: " + r.URL.Path})
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		s.log.Info("Starting HTTP server", zap.String("addr", s.config.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
		s.log.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	}
}

type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()[:8]
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}

		s.metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(wrapper.statusCode)).Inc()

		s.log.Debug("HTTP request",
			zap.Any("request_id", r.Context().Value(requestIDKey)),
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", wrapper.statusCode),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) timeoutMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.config.RequestTimeout <= 0 {
			next.ServeHTTP(w, r)

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), s.config.RequestTimeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)

			return
		}

		next.ServeHTTP(w, r)
	})
}
