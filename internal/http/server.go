// Package http exposes the ledger over a JSON API. It is one possible
// front end: handlers feed raw field values through the editor workflow
// and report the accept/reject signal, so a browser form or another client
// drives the same validate-and-retry contract a terminal would.
package http

import (
	"net/http"
	"time"

	"fintrack/internal/cache"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

// Options tune the server; zero values get sensible defaults.
type Options struct {
	TopCategories   int
	ReportCacheSize int
	ReportCacheTTL  time.Duration
}

type Server struct {
	*http.Server
	svc        *services.LedgerService
	topDefault int
	reports    *cache.LRUCache[[]byte]
	limiter    *rateLimiter
}

// NewServer configures routes and returns a ready-to-run server.
func NewServer(addr string, svc *services.LedgerService, logger *applog.Logger, opts Options) *Server {
	if opts.TopCategories <= 0 {
		opts.TopCategories = 5
	}
	if opts.ReportCacheSize <= 0 {
		opts.ReportCacheSize = 64
	}
	if opts.ReportCacheTTL <= 0 {
		opts.ReportCacheTTL = 30 * time.Second
	}

	s := &Server{
		svc:        svc,
		topDefault: opts.TopCategories,
		reports:    cache.NewLRUCache[[]byte](opts.ReportCacheSize, opts.ReportCacheTTL),
		limiter:    newRateLimiter(60, time.Minute),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /transactions", s.handleListTransactions)
	mux.HandleFunc("POST /transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /transactions/{index}", s.handleGetTransaction)
	mux.HandleFunc("PUT /transactions/{index}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /transactions/{index}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /reports/categories", s.handleCategoryReport)
	mux.HandleFunc("GET /reports/monthly", s.handleMonthlyReport)

	handler := applog.Middleware(logger)(s.withSecurityHeaders(s.limiter.middleware(mux)))

	s.Server = &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
	return s
}

// ReportCache exposes the payload cache so the owner can run its janitor.
func (s *Server) ReportCache() *cache.LRUCache[[]byte] {
	return s.reports
}

func (s *Server) withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
