// Package http exposes the JSON API: authentication, transactions,
// payables and the dashboard aggregations.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"financas/internal/auth"
	"financas/internal/cache"
	"financas/internal/core"
	"financas/internal/middleware/ratelimit"
	"financas/internal/middleware/security"
	"financas/internal/middleware/trace"
	"financas/internal/services"
	"financas/internal/storage"
)

type Server struct {
	http.Server

	transactions *services.TransactionService
	payables     *services.PayableService
	dashboard    *services.DashboardService
	users        *storage.Repository
	tokens       *auth.TokenIssuer
	limiter      *ratelimit.Limiter

	summaryCache  *cache.LRU[core.Summary]
	calendarCache *cache.LRU[[]core.CalendarDay]
	cacheManager  *cache.Manager

	now func() time.Time

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware and returns a ready-to-run server.
func NewServer(
	addr string,
	transactions *services.TransactionService,
	payables *services.PayableService,
	dashboard *services.DashboardService,
	users *storage.Repository,
	tokens *auth.TokenIssuer,
) *Server {
	mux := http.NewServeMux()

	s := &Server{
		transactions:  transactions,
		payables:      payables,
		dashboard:     dashboard,
		users:         users,
		tokens:        tokens,
		limiter:       ratelimit.New(ratelimit.DefaultConfig()),
		summaryCache:  cache.NewLRU[core.Summary](100, 5*time.Minute),
		calendarCache: cache.NewLRU[[]core.CalendarDay](50, 5*time.Minute),
		cacheManager:  cache.NewManager(),
		now:           time.Now,
	}
	s.Server = http.Server{
		Addr:              addr,
		Handler:           security.Headers(trace.Middleware(mux)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.calendarCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/register", s.withRateLimit(s.handleRegister))
	mux.HandleFunc("POST /api/login", s.withRateLimit(s.handleLogin))

	authed := s.tokens.Middleware
	mux.HandleFunc("GET /api/summary", authed(s.handleSummary))
	mux.HandleFunc("GET /api/calendar", authed(s.handleCalendar))

	mux.HandleFunc("GET /api/transactions", authed(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", authed(s.withRateLimit(s.handleCreateTransaction)))
	mux.HandleFunc("GET /api/transactions/{id}", authed(s.handleGetTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", authed(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", authed(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/payables", authed(s.handleListPayables))
	mux.HandleFunc("POST /api/payables", authed(s.withRateLimit(s.handleCreatePayable)))
	mux.HandleFunc("POST /api/payables/{id}/pay", authed(s.handlePayPayable))

	return s
}

// withRateLimit guards write endpoints against bursts from one client.
func (s *Server) withRateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(trace.ClientIP(r)) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next(w, r)
	}
}

// invalidateAggregates drops cached dashboard data after any write.
func (s *Server) invalidateAggregates() {
	s.summaryCache.Purge()
	s.calendarCache.Purge()
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.transactions.Recent(r.Context(), 1); err != nil {
		writeError(w, http.StatusServiceUnavailable, "storage not ready")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Shutdown stops the HTTP listener and the background loops.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		s.cacheManager.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
