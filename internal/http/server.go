// Package http exposes the JSON API over net/http. Handlers stay thin:
// parse, call a manager, encode. All domain rules live below this layer.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"duitku/internal/history"
	"duitku/internal/log"
	"duitku/internal/manager"
	"duitku/internal/worker"
)

type contextKey string

const requestIDKey contextKey = "request_id"

type Server struct {
	http.Server

	expenses   *manager.ExpenseManager
	categories *manager.CategoryManager
	sources    *manager.SourceManager
	history    *history.Logger
	poller     *worker.HistoryPoller
	logger     *log.Logger

	// now is the reference clock for time-windowed views.
	now func() time.Time
}

func NewServer(addr string, exp *manager.ExpenseManager, cat *manager.CategoryManager, src *manager.SourceManager, hist *history.Logger, poller *worker.HistoryPoller, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		expenses:   exp,
		categories: cat,
		sources:    src,
		history:    hist,
		poller:     poller,
		logger:     logger.WithComponent(log.ComponentHTTP),
		now:        time.Now,
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/dashboard", s.withMiddleware(s.handleDashboard))
	mux.HandleFunc("GET /api/expenses", s.withMiddleware(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.withMiddleware(s.handleCreateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.withMiddleware(s.handleDeleteExpense))

	mux.HandleFunc("GET /api/categories", s.withMiddleware(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.withMiddleware(s.handleCreateCategory))
	mux.HandleFunc("PUT /api/categories/{id}", s.withMiddleware(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.withMiddleware(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/sources", s.withMiddleware(s.handleListSources))
	mux.HandleFunc("POST /api/sources", s.withMiddleware(s.handleCreateSource))
	mux.HandleFunc("PUT /api/sources/{id}", s.withMiddleware(s.handleUpdateSource))
	mux.HandleFunc("DELETE /api/sources/{id}", s.withMiddleware(s.handleDeleteSource))

	mux.HandleFunc("GET /api/charts/trend", s.withMiddleware(s.handleTrendChart))
	mux.HandleFunc("GET /api/charts/categories", s.withMiddleware(s.handleCategoryChart))

	mux.HandleFunc("GET /api/history", s.withMiddleware(s.handleListHistory))
	mux.HandleFunc("DELETE /api/history", s.withMiddleware(s.handleClearHistory))

	return s
}

// withMiddleware adds security headers, a request id and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.InfoContext(ctx, "Request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, time.Since(start).Milliseconds())
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ok")
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ready")
}
