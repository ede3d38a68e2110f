package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mrquarshie/huddle/internal/domain"
	"github.com/mrquarshie/huddle/pkg/httputil"
)

// UniversityHandler serves the static university directory used by
// registration and browse filters.
type UniversityHandler struct{}

// NewUniversityHandler creates a new university HTTP handler.
func NewUniversityHandler() *UniversityHandler {
	return &UniversityHandler{}
}

// List handles GET /api/universities
func (h *UniversityHandler) List(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"universities": domain.UniversityNames(),
	})
}

// Campuses handles GET /api/universities/{name}/campuses
func (h *UniversityHandler) Campuses(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	campuses := domain.Campuses(name)
	if campuses == nil {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.MessageResponse{Message: "University not found"})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"university": name,
		"campuses":   campuses,
	})
}
