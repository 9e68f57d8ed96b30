package http

import (
	"errors"
	"net/http"
	"strings"

	"duitku/internal/core"
	"duitku/internal/manager"
	"duitku/internal/stats"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ref, ok := s.parseRef(r)
	if !ok {
		s.writeError(w, r, http.StatusBadRequest, "invalid ref date, want YYYY-MM-DD")
		return
	}
	dash := s.expenses.Dashboard(ref, s.categories.Categories(), s.sources.Sources())
	s.writeJSON(w, r, http.StatusOK, dash)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	tf, ok := parseTimeFrame(r)
	if !ok {
		s.writeError(w, r, http.StatusBadRequest, "invalid timeframe, want day, month or year")
		return
	}
	ref, ok := s.parseRef(r)
	if !ok {
		s.writeError(w, r, http.StatusBadRequest, "invalid ref date, want YYYY-MM-DD")
		return
	}

	filtered := s.expenses.Filtered(tf, filterValue(r, "category"), filterValue(r, "source"), ref)
	s.writeJSON(w, r, http.StatusOK, filtered)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var draft core.Expense
	if err := decodeJSON(w, r, &draft); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	created, err := s.expenses.Add(r.Context(), draft)
	if err != nil {
		if isValidationError(err) {
			s.writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.writeError(w, r, http.StatusInternalServerError, "failed to save expense")
		return
	}
	s.writeJSON(w, r, http.StatusCreated, created)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	found, err := s.expenses.Delete(r.Context(), id)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "failed to delete expense")
		return
	}
	if !found {
		s.writeError(w, r, http.StatusNotFound, "expense not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.categories.Categories())
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var draft core.Category
	if err := decodeJSON(w, r, &draft); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	created, err := s.categories.Add(r.Context(), draft)
	if err != nil {
		if isValidationError(err) {
			s.writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.writeError(w, r, http.StatusInternalServerError, "failed to save category")
		return
	}
	s.writeJSON(w, r, http.StatusCreated, created)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var updated core.Category
	if err := decodeJSON(w, r, &updated); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	updated.ID = strings.TrimSpace(r.PathValue("id"))

	err := s.categories.Update(r.Context(), updated)
	switch {
	case errors.Is(err, manager.ErrNotFound):
		s.writeError(w, r, http.StatusNotFound, "category not found")
	case err != nil && isValidationError(err):
		s.writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case err != nil:
		s.writeError(w, r, http.StatusInternalServerError, "failed to update category")
	default:
		s.writeJSON(w, r, http.StatusOK, updated)
	}
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	found, err := s.categories.Delete(r.Context(), id)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "failed to delete category")
		return
	}
	if !found {
		s.writeError(w, r, http.StatusNotFound, "category not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListSources(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.sources.Sources())
}

func (s *Server) handleCreateSource(w http.ResponseWriter, r *http.Request) {
	var draft core.Source
	if err := decodeJSON(w, r, &draft); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	created, err := s.sources.Add(r.Context(), draft)
	if err != nil {
		if isValidationError(err) {
			s.writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.writeError(w, r, http.StatusInternalServerError, "failed to save source")
		return
	}
	s.writeJSON(w, r, http.StatusCreated, created)
}

func (s *Server) handleUpdateSource(w http.ResponseWriter, r *http.Request) {
	var updated core.Source
	if err := decodeJSON(w, r, &updated); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	updated.ID = strings.TrimSpace(r.PathValue("id"))

	err := s.sources.Update(r.Context(), updated)
	switch {
	case errors.Is(err, manager.ErrNotFound):
		s.writeError(w, r, http.StatusNotFound, "source not found")
	case err != nil && isValidationError(err):
		s.writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case err != nil:
		s.writeError(w, r, http.StatusInternalServerError, "failed to update source")
	default:
		s.writeJSON(w, r, http.StatusOK, updated)
	}
}

func (s *Server) handleDeleteSource(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	found, err := s.sources.Delete(r.Context(), id)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "failed to delete source")
		return
	}
	if !found {
		s.writeError(w, r, http.StatusNotFound, "source not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTrendChart(w http.ResponseWriter, r *http.Request) {
	period := stats.TimeFrame(strings.TrimSpace(r.URL.Query().Get("period")))
	if period == "" {
		period = stats.Month
	}
	if period != stats.Month && period != stats.Year {
		s.writeError(w, r, http.StatusBadRequest, "invalid period, want month or year")
		return
	}
	ref, ok := s.parseRef(r)
	if !ok {
		s.writeError(w, r, http.StatusBadRequest, "invalid ref date, want YYYY-MM-DD")
		return
	}
	s.writeJSON(w, r, http.StatusOK, s.expenses.TrendSeries(period, ref))
}

func (s *Server) handleCategoryChart(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.expenses.CategorySeries())
}

// handleListHistory serves the poller's snapshot, not a live read. The
// feed is at most one poll interval stale.
func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.poller.Snapshot())
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.history.Clear(r.Context()); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "failed to clear history")
		return
	}
	s.poller.Refresh(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidAmount,
		core.ErrInvalidDate,
		core.ErrEmptyName,
		core.ErrEmptyCategory,
		core.ErrEmptySource,
		core.ErrInvalidColor,
		core.ErrInvalidType,
		core.ErrNotesTooLong,
		core.ErrNameTooLong,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
