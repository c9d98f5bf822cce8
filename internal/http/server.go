// Package http exposes the JSON API.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"outgo/internal/auth"
	"outgo/internal/cache"
	"outgo/internal/middleware/ratelimit"
	"outgo/internal/middleware/security"
	"outgo/internal/middleware/trace"
	"outgo/internal/services"
)

// Pinger reports whether the storage layer is reachable. Backends without a
// real connection may leave it nil.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	http.Server

	activities *services.ActivityService
	auth       *auth.Service
	pinger     Pinger

	limiter    *ratelimit.Limiter
	ipResolver *security.IPResolver
	tracer     *trace.Middleware

	dashboardCache *cache.LRUCache[dashboardResponse]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// Options tunes server construction.
type Options struct {
	RequestsPerMinute int
	Pinger            Pinger
}

func NewServer(addr string, activities *services.ActivityService, authSvc *auth.Service, opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           nil, // set below, after middleware wiring
			ReadHeaderTimeout: 10 * time.Second,
		},
		activities: activities,
		auth:       authSvc,
		pinger:     opts.Pinger,
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RequestsPerMinute,
		}),
		ipResolver:       security.NewIPResolver(),
		dashboardCache:   cache.NewLRUCache[dashboardResponse](200, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}
	s.tracer = trace.NewMiddleware(s.ipResolver.ExtractClientIP)

	go s.cacheCleanupLoop()

	mux.HandleFunc("POST /api/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	mux.HandleFunc("GET /api/activities", s.withSession(s.handleListActivities))
	mux.HandleFunc("POST /api/activities", s.withSession(s.handleCreateActivity))
	mux.HandleFunc("PUT /api/activities/{id}", s.withSession(s.handleUpdateActivity))
	mux.HandleFunc("DELETE /api/activities/{id}", s.withSession(s.handleDeleteActivity))

	mux.HandleFunc("GET /api/categories", s.withSession(s.handleListCategories))
	mux.HandleFunc("GET /api/payment-methods", s.withSession(s.handleListPaymentMethods))
	mux.HandleFunc("GET /api/dashboard", s.withSession(s.handleDashboard))

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limited := s.limiter.Middleware(s.ipResolver.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
	})

	s.Handler = s.tracer.Middleware(headers.Middleware(limited(mux)))

	return s
}

func (s *Server) cacheCleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.dashboardCache.CleanExpired(); cleaned > 0 {
				slog.Debug("dashboard cache cleanup", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops background goroutines and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "readiness check failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "storage unavailable")
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	metrics := map[string]any{
		"total_requests":       s.tracer.TotalRequests(),
		"rate_limited_clients": s.limiter.ActiveClients(),
		"dashboard_cache_size": s.dashboardCache.Size(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(metrics)
}
