package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/pagination"
	"github.com/jonathan/resume-builder/internal/project"
	"github.com/jonathan/resume-builder/internal/render"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/jonathan/resume-builder/internal/store"
)

// Server represents the HTTP server. All project state lives in the
// in-memory state container; every committed mutation is written
// through to the persistence store.
type Server struct {
	httpServer  *http.Server
	cfg         config.Config
	state       *project.Store
	persist     store.Store
	renderer    *render.Renderer
	estimator   *pagination.Estimator
	exporter    *export.Exporter
	hub         *Hub
	rateLimiter *ratelimit.Limiter
	database    *db.DB
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
}

// New creates a new server instance. When cfg.DatabaseURL is set,
// projects persist to PostgreSQL and (optionally) routes require JWT
// auth; otherwise projects persist to JSON files under cfg.DataDir.
func New(cfg config.Config) (*Server, error) {
	renderer, err := render.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	s := &Server{
		cfg:       cfg,
		state:     project.NewStore(),
		renderer:  renderer,
		estimator: pagination.New(),
		exporter:  export.NewWithTimeout(time.Duration(cfg.ExportTimeoutSeconds) * time.Second),
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.EnsureSchema(context.Background()); err != nil {
			database.Close()
			return nil, err
		}
		s.database = database
		s.persist = store.NewDBStore(database)
	} else {
		fileStore, err := store.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		s.persist = fileStore
	}

	if err := s.hydrate(context.Background()); err != nil {
		return nil, err
	}

	s.hub = NewHub(s.estimator)
	s.state.Subscribe(s.hub.ProjectUpdated)

	s.rateLimiter = ratelimit.NewLimiter(cfg.RateLimitPerMinute)

	if cfg.RequireAuth {
		passwordConfig, err := config.NewPasswordConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create password config: %w", err)
		}
		s.userService = NewUserService(s.database, passwordConfig)

		jwtConfig, err := config.NewJWTConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create JWT config: %w", err)
		}
		s.jwtService = NewJWTService(jwtConfig)
		s.authHandler = NewAuthHandler(s.userService, s.jwtService)
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // PDF export holds the connection while Chromium renders
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// hydrate loads every persisted project into the state container so
// reads never touch storage on the request path.
func (s *Server) hydrate(ctx context.Context) error {
	metas, err := s.persist.ListMetadata(ctx)
	if err != nil {
		return fmt.Errorf("failed to list persisted projects: %w", err)
	}
	for _, meta := range metas {
		p, err := s.persist.LoadProject(ctx, meta.ID)
		if err != nil {
			log.Printf("Skipping project %s: %v", meta.ID, err)
			continue
		}
		if p != nil {
			s.state.Put(*p)
		}
	}
	if len(metas) > 0 {
		s.state.SetCurrent(metas[0].ID)
	}
	return nil
}

// routes builds the request mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	// Project CRUD. The literal /metadata segment wins over the {id}
	// wildcard in the 1.22 ServeMux, so "metadata" is not a usable
	// project id.
	mux.HandleFunc("GET /api/projects/metadata", s.handleListProjects)
	mux.HandleFunc("POST /api/projects", s.handleCreateProject)
	mux.HandleFunc("GET /api/projects/{id}", s.handleGetProject)
	mux.HandleFunc("PUT /api/projects/{id}", s.handleRenameProject)
	mux.HandleFunc("DELETE /api/projects/{id}", s.handleDeleteProject)

	// Header and contact
	mux.HandleFunc("PUT /api/projects/{id}/header", s.handleUpdateHeader)

	// Section operations
	mux.HandleFunc("POST /api/projects/{id}/sections", s.handleAddSection)
	mux.HandleFunc("PUT /api/projects/{id}/sections/{sid}", s.handleUpdateSection)
	mux.HandleFunc("DELETE /api/projects/{id}/sections/{sid}", s.handleDeleteSection)
	mux.HandleFunc("POST /api/projects/{id}/sections/{sid}/duplicate", s.handleDuplicateSection)
	mux.HandleFunc("POST /api/projects/{id}/sections/{sid}/move-up", s.handleMoveSectionUp)
	mux.HandleFunc("POST /api/projects/{id}/sections/{sid}/move-down", s.handleMoveSectionDown)

	// Style operations
	mux.HandleFunc("PUT /api/projects/{id}/styles/{role}", s.handleUpdateStyle)
	mux.HandleFunc("POST /api/projects/{id}/styles/reset", s.handleResetStyles)

	// Skills
	mux.HandleFunc("PUT /api/projects/{id}/skills", s.handleUpdateSkills)

	// Preview and export
	mux.HandleFunc("GET /api/projects/{id}/preview", s.handlePreview)
	mux.HandleFunc("GET /api/projects/{id}/page-breaks", s.handlePageBreaks)
	mux.HandleFunc("GET /api/projects/{id}/export.pdf", s.handleExportPDF)
	mux.HandleFunc("GET /api/projects/{id}/preview/ws", s.handlePreviewSocket)

	if !s.cfg.RequireAuth {
		return mux
	}

	// Auth routes stay outside the JWT gate; everything else under
	// /api/ goes through it.
	authed := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(mux)

	outer := http.NewServeMux()
	outer.HandleFunc("GET /health", s.handleHealth)
	outer.HandleFunc("POST /api/auth/register", s.authHandler.Register)
	outer.HandleFunc("POST /api/auth/login", s.authHandler.Login)
	outer.Handle("PUT /api/auth/password", middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(http.HandlerFunc(s.authHandler.UpdatePassword)))
	outer.Handle("/api/", authed)
	return outer
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.hub != nil {
		s.hub.Close()
	}
	if s.database != nil {
		s.database.Close()
	}
	log.Println("Server stopped")
	return nil
}

// Handler exposes the full middleware-wrapped handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r))

		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// extractClientID extracts the client identifier from the request.
// For now this uses the IP address from RemoteAddr; behind a trusted
// proxy it could use X-Forwarded-For instead.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// If parsing fails, use the whole RemoteAddr
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	if info.RetryAfter > 0 {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}
	errorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
}

// jsonResponse writes a success payload wrapped in {"data": ...}.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{"data": data}); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes a failure payload as {"message": ...}.
func errorResponse(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"message": message}); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}
