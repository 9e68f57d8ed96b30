package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"duitku/internal/log"
	"duitku/internal/stats"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed encoding response",
			log.FieldPath, r.URL.Path, log.FieldError, err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.writeJSON(w, r, status, errorResponse{Error: msg})
}

// decodeJSON enforces a sane body limit and rejects unknown fields so a
// typoed field name fails loudly instead of silently zeroing.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// parseTimeFrame reads the timeframe query parameter, defaulting to
// month.
func parseTimeFrame(r *http.Request) (stats.TimeFrame, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("timeframe"))
	if raw == "" {
		return stats.Month, true
	}
	tf := stats.TimeFrame(raw)
	return tf, tf.Valid()
}

// parseRef reads the optional ref query parameter (YYYY-MM-DD) used to
// anchor time windows, defaulting to now.
func (s *Server) parseRef(r *http.Request) (time.Time, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("ref"))
	if raw == "" {
		return s.now(), true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// filterValue maps an absent query parameter to the match-all sentinel.
func filterValue(r *http.Request, key string) string {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return stats.FilterAll
	}
	return v
}
