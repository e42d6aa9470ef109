// Package server provides the HTTP REST API for internship recommendations.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/smartmatch/internal/catalog"
	"github.com/jonathan/smartmatch/internal/config"
	"github.com/jonathan/smartmatch/internal/db"
	"github.com/jonathan/smartmatch/internal/logger"
	"github.com/jonathan/smartmatch/internal/matching"
	"github.com/jonathan/smartmatch/internal/server/middleware"
	"github.com/jonathan/smartmatch/internal/server/ratelimit"
	"go.uber.org/zap"
)

// Store is the persistence the API needs. *db.DB satisfies it.
type Store interface {
	UserStore

	Ping(ctx context.Context) error
	Name() string

	GetInternship(ctx context.Context, id uuid.UUID) (*db.Internship, error)
	CountActiveInternships(ctx context.Context) (int, error)

	GetProfile(ctx context.Context, userID uuid.UUID) (*db.Profile, error)
	UpsertProfile(ctx context.Context, p *db.Profile) (*db.Profile, error)

	CreateRegistration(ctx context.Context, userID, internshipID uuid.UUID) (*db.Registration, error)
	ListRegistrations(ctx context.Context, userID uuid.UUID) ([]db.Registration, error)
	UpdateRegistrationStatus(ctx context.Context, userID, id uuid.UUID, status db.RegistrationStatus) (*db.Registration, error)
}

// Deps are the collaborators of a Server.
type Deps struct {
	Server    config.ServerConfig
	RateLimit config.RateLimitConfig
	JWT       *config.JWTConfig
	Password  *config.PasswordConfig

	Engine  *matching.Engine
	Catalog catalog.Provider
	Store   Store
	Logger  *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	corsOrigin      string

	engine      *matching.Engine
	catalog     catalog.Provider
	store       Store
	log         *zap.Logger
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	authHandler *AuthHandler
}

// New creates a new server instance
func New(deps Deps) (*Server, error) {
	switch {
	case deps.Engine == nil:
		return nil, errors.New("server: engine is required")
	case deps.Catalog == nil:
		return nil, errors.New("server: catalog is required")
	case deps.Store == nil:
		return nil, errors.New("server: store is required")
	case deps.JWT == nil || deps.Password == nil:
		return nil, errors.New("server: auth configuration is required")
	}

	s := &Server{
		shutdownTimeout: deps.Server.ShutdownTimeout,
		corsOrigin:      deps.Server.CORSOrigin,
		engine:          deps.Engine,
		catalog:         deps.Catalog,
		store:           deps.Store,
		log:             logger.OrNop(deps.Logger),
		rateLimiter: ratelimit.NewLimiter(ratelimit.NewConfig(
			deps.RateLimit.Enabled, deps.RateLimit.RequestsPerMinute, deps.RateLimit.Burst)),
		jwtService: NewJWTService(deps.JWT),
	}
	if s.corsOrigin == "" {
		s.corsOrigin = "*"
	}
	s.authHandler = NewAuthHandler(NewUserService(deps.Store, deps.Password), s.jwtService, s.log)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", deps.Server.Port),
		Handler:      s.Handler(),
		ReadTimeout:  deps.Server.ReadTimeout,
		WriteTimeout: deps.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	requireAuth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /recommend", s.handleRecommend)
	mux.HandleFunc("GET /internships", s.handleListInternships)
	mux.HandleFunc("GET /internships/{id}", s.handleGetInternship)

	// Authentication
	mux.HandleFunc("POST /auth/signup", s.authHandler.Signup)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)

	// Authenticated user endpoints
	mux.Handle("GET /me/profile", requireAuth(http.HandlerFunc(s.handleGetProfile)))
	mux.Handle("PUT /me/profile", requireAuth(http.HandlerFunc(s.handlePutProfile)))
	mux.Handle("GET /me/recommendations", requireAuth(http.HandlerFunc(s.handleMyRecommendations)))
	mux.Handle("GET /me/registrations", requireAuth(http.HandlerFunc(s.handleListRegistrations)))
	mux.Handle("POST /me/registrations", requireAuth(http.HandlerFunc(s.handleCreateRegistration)))
	mux.Handle("PATCH /me/registrations/{id}", requireAuth(http.HandlerFunc(s.handleUpdateRegistration)))

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	defer s.rateLimiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	timeout := s.shutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients that exceed their request budget.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		)
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, data, s.log)
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	writeError(w, status, message, s.log)
}

func writeJSON(w http.ResponseWriter, status int, data any, log *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn("failed to encode JSON response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string, log *zap.Logger) {
	writeJSON(w, status, map[string]string{
		"error":   http.StatusText(status),
		"message": message,
	}, log)
}

// extractClientID uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	retryAfter := int(info.RetryAfter.Round(time.Second).Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

	s.log.Warn("rate limit exceeded",
		zap.String("client", s.extractClientID(r)),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
		"error":       "rate_limit_exceeded",
		"message":     "Rate limit exceeded. Please try again later.",
		"limit":       info.Limit,
		"remaining":   info.Remaining,
		"reset_at":    info.ResetTime.Format(time.RFC3339),
		"retry_after": retryAfter,
	})
}
