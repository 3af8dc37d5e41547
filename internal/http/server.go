// Package http exposes the ingestion and aggregation API as JSON over
// HTTP.
package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/aggregate"
	"fintrack/internal/cache"
	"fintrack/internal/services"
)

type Server struct {
	http.Server
	ingestSvc      *services.IngestService
	querySvc       *services.QueryService
	rateLimiter    *rateLimiter
	metrics        *metrics
	maxUploadBytes int64
	defaultBudget  float64

	// Aggregation responses are cached between writes.
	summaryCache *cache.LRUCache[aggregate.Summary]
	viewCache    *cache.LRUCache[[]byte]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// Options carries the tunables for NewServer.
type Options struct {
	Addr           string
	MaxUploadBytes int64
	DefaultBudget  float64
}

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(opts Options, ingestSvc *services.IngestService, querySvc *services.QueryService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              opts.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		ingestSvc:        ingestSvc,
		querySvc:         querySvc,
		rateLimiter:      newRateLimiter(),
		metrics:          &metrics{},
		maxUploadBytes:   opts.MaxUploadBytes,
		defaultBudget:    opts.DefaultBudget,
		summaryCache:     cache.NewLRUCache[aggregate.Summary](16, 5*time.Minute),
		viewCache:        cache.NewLRUCache[[]byte](64, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	s.summaryCache.StartJanitor(10*time.Minute, s.stopCacheCleanup)
	s.viewCache.StartJanitor(10*time.Minute, s.stopCacheCleanup)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/api/statements", s.withMiddleware(s.handleIngestStatement))
	mux.HandleFunc("/api/transactions", s.withMiddleware(s.handleTransactions))
	mux.HandleFunc("/api/summary", s.withMiddleware(s.handleSummary))
	mux.HandleFunc("/api/categories", s.withMiddleware(s.handleCategories))
	mux.HandleFunc("/api/monthly", s.withMiddleware(s.handleMonthly))
	mux.HandleFunc("/api/budget", s.withMiddleware(s.handleBudget))

	return s
}

// Shutdown stops the cleanup goroutines along with the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// invalidateViews drops every cached aggregate after a write.
func (s *Server) invalidateViews() {
	s.summaryCache.Purge()
	s.viewCache.Purge()
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleMetrics dumps the counters as plain text, one per line.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "requests_total %d\n", s.metrics.totalRequests.Load())
	fmt.Fprintf(w, "request_duration_avg_us %d\n", s.metrics.averageDurationUS())
	fmt.Fprintf(w, "rate_limit_rejects_total %d\n", s.metrics.rateLimitRejects.Load())
	fmt.Fprintf(w, "batches_ingested_total %d\n", s.metrics.batchesIngested.Load())
	fmt.Fprintf(w, "records_ingested_total %d\n", s.metrics.recordsIngested.Load())
	fmt.Fprintf(w, "rows_dropped_total %d\n", s.metrics.rowsDropped.Load())
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// Ready once the store answers a list call.
	if _, err := s.querySvc.List(r.Context()); err != nil {
		http.Error(w, "store not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
