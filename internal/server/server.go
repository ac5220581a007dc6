package server

import (
	"context"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/lacquerai/weighin/internal/history"
	"github.com/lacquerai/weighin/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

// SessionCookie carries the session id between requests.
const SessionCookie = "weighin_session"

// Config holds the server configuration
type Config struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	HistorySize     int           `mapstructure:"history-size"`
	SessionTTL      time.Duration `mapstructure:"session-ttl"`
	SweepInterval   time.Duration `mapstructure:"sweep-interval"`
	EnableMetrics   bool          `mapstructure:"metrics"`
	EnableCORS      bool          `mapstructure:"cors"`
	ReadTimeout     time.Duration `mapstructure:"read-timeout"`
	WriteTimeout    time.Duration `mapstructure:"write-timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle-timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
}

// DefaultConfig returns a default server configuration
func DefaultConfig() *Config {
	return &Config{
		Host:            "localhost",
		Port:            8080,
		HistorySize:     history.DefaultCapacity,
		SessionTTL:      30 * time.Minute,
		SweepInterval:   time.Minute,
		EnableMetrics:   true,
		EnableCORS:      true,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Server serves the prediction form, the JSON API and the history stream.
type Server struct {
	config   *Config
	sessions *session.Store
	metrics  *Metrics
	gatherer prometheus.Gatherer
	pages    *template.Template
	upgrader websocket.Upgrader

	server      *http.Server
	listener    net.Listener
	cancelSweep context.CancelFunc
}

// New creates a new server
func New(config *Config) (*Server, error) {
	if config == nil {
		config = DefaultConfig()
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:   config,
		sessions: session.NewStore(config.HistorySize, config.SessionTTL),
		gatherer: prometheus.DefaultGatherer,
		pages:    pages,
	}
	if config.EnableCORS {
		s.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}

	return s, nil
}

// initializeMetrics registers the default collectors if none were set
func (s *Server) initializeMetrics() {
	if s.metrics == nil {
		s.metrics = NewMetrics(s.sessions.Count)
	}
}

// Handler builds the router with every route and middleware applied.
func (s *Server) Handler() http.Handler {
	s.initializeMetrics()

	router := mux.NewRouter()
	router.Use(s.loggingMiddleware, s.recoveryMiddleware)

	// Form pages
	router.HandleFunc("/", s.index).Methods("GET")
	router.HandleFunc("/predict", s.predictForm).Methods("POST")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/predict", s.apiPredict).Methods("POST")
	api.HandleFunc("/categories", s.listCategories).Methods("GET")
	api.HandleFunc("/recommendations/{category}", s.getRecommendations).Methods("GET")
	api.HandleFunc("/history", s.getHistory).Methods("GET")
	api.HandleFunc("/history", s.clearHistory).Methods("DELETE")
	api.HandleFunc("/history/stream", s.streamHistory).Methods("GET")
	api.HandleFunc("/chart.svg", s.chartSVG).Methods("GET")

	if s.config.EnableMetrics {
		router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	router.HandleFunc("/health", s.healthCheck).Methods("GET")

	if !s.config.EnableCORS {
		return router
	}
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)
}

// Start starts the HTTP server and the session sweeper
func (s *Server) Start() error {
	handler := s.Handler()

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	s.server = &http.Server{
		Handler:      handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
	s.server.RegisterOnShutdown(s.sessions.Close)

	sweepCtx, cancel := context.WithCancel(context.Background())
	s.cancelSweep = cancel
	go s.sessions.Run(sweepCtx, s.config.SweepInterval)

	log.Info().
		Str("addr", listener.Addr().String()).
		Int("history_size", s.config.HistorySize).
		Dur("session_ttl", s.config.SessionTTL).
		Bool("metrics", s.config.EnableMetrics).
		Msg("Starting weighin server")

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Server stopped unexpectedly")
		}
	}()

	return nil
}

// Stop stops the HTTP server gracefully
func (s *Server) Stop(ctx context.Context) error {
	if s.cancelSweep != nil {
		s.cancelSweep()
	}
	if s.server == nil {
		return nil
	}

	log.Info().Msg("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// StartWithGracefulShutdown starts the server and blocks until ctx is done or
// the process receives SIGINT or SIGTERM.
func (s *Server) StartWithGracefulShutdown(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	log.Info().Msg("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info().Msg("Server shutdown complete")
	return nil
}

// GetAddr returns the address the server listens on
func (s *Server) GetAddr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// Sessions exposes the session store.
func (s *Server) Sessions() *session.Store {
	return s.sessions
}
