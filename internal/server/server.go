package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/omriShneor/salesdesk/internal/database"
	"github.com/omriShneor/salesdesk/internal/logger"
	"github.com/omriShneor/salesdesk/internal/notify"
	"github.com/omriShneor/salesdesk/internal/scheduler"
)

type Server struct {
	db            *database.DB
	scheduler     *scheduler.Scheduler
	notifyService *notify.Service
	providerName  string
	log           logger.Logger
	httpSrv       *http.Server
	port          int
}

// ServerConfig holds the collaborators the HTTP layer exposes.
type ServerConfig struct {
	DB            *database.DB
	Scheduler     *scheduler.Scheduler
	NotifyService *notify.Service
	ProviderName  string
	Logger        logger.Logger
	Port          int
	// ExtraRoutes registers additional handlers on the same mux (test control endpoints).
	ExtraRoutes func(mux *http.ServeMux)
}

func New(cfg ServerConfig) *Server {
	s := &Server{
		db:            cfg.DB,
		scheduler:     cfg.Scheduler,
		notifyService: cfg.NotifyService,
		providerName:  cfg.ProviderName,
		log:           cfg.Logger,
		port:          cfg.Port,
	}
	if s.log == nil {
		s.log = logger.NewNoOpLogger()
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)
	if cfg.ExtraRoutes != nil {
		cfg.ExtraRoutes(mux)
	}

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.corsMiddleware(s.loggingMiddleware(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /health", s.handleHealthCheck)

	// Scheduling building blocks
	mux.HandleFunc("POST /api/schedule/parse", s.handleParse)
	mux.HandleFunc("POST /api/schedule/availability", s.handleAvailability)
	mux.HandleFunc("GET /api/schedule/slots", s.handleSlots)
	mux.HandleFunc("POST /api/schedule/alternatives", s.handleAlternatives)
	mux.HandleFunc("GET /api/schedule/phrase", s.handlePhrase)

	// Full pipeline and its log
	mux.HandleFunc("POST /api/schedule", s.handleSchedule)
	mux.HandleFunc("GET /api/schedule/requests", s.handleListRequests)

	// Meetings
	mux.HandleFunc("POST /api/meetings/video", s.handleCreateVideoMeeting)
	mux.HandleFunc("POST /api/meetings/in-person", s.handleCreateInPersonMeeting)
}

func (s *Server) Start() error {
	s.log.Info("starting HTTP server", "addr", s.httpSrv.Addr)
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler returns the server's HTTP handler for testing purposes
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// corsMiddleware lets the chat widget call the API from another origin
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		began := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path,
			"status", rec.status, "duration", time.Since(began))
	})
}
