package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mrquarshie/huddle/internal/service"
	"github.com/mrquarshie/huddle/pkg/apperrors"
	"github.com/mrquarshie/huddle/pkg/httputil"
	"github.com/mrquarshie/huddle/pkg/middleware"
	"github.com/mrquarshie/huddle/pkg/pagination"
)

// defaultReviewPageSize is the page size for review listings.
const defaultReviewPageSize = 10

// defaultItemPageSize is the page size for a user's item listings.
const defaultItemPageSize = 12

// UserHandler handles HTTP requests for public profiles, profile updates and
// peer reviews.
type UserHandler struct {
	users   *service.UserService
	items   *service.ItemService
	reviews *service.ReviewService
	logger  *slog.Logger
}

// NewUserHandler creates a new user HTTP handler.
func NewUserHandler(
	users *service.UserService,
	items *service.ItemService,
	reviews *service.ReviewService,
	logger *slog.Logger,
) *UserHandler {
	return &UserHandler{users: users, items: items, reviews: reviews, logger: logger}
}

// --- Request DTOs ---

// UpdateProfileRequest is the JSON request body for updating a profile.
type UpdateProfileRequest struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	ProfileImage *string `json:"profileImage"`
}

// CreateReviewRequest is the JSON request body for creating a review. Rating
// is a pointer so an absent field is distinguishable from zero.
type CreateReviewRequest struct {
	Rating  *float64 `json:"rating"`
	Comment string   `json:"comment"`
}

// --- Handlers ---

// GetProfile handles GET /api/users/{id}
//
// Anonymous viewers get the bundle with canReview false; authenticated
// viewers get their actual eligibility.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"), "User")
	if !ok {
		return
	}

	viewerID := middleware.UserIDFromContext(r.Context())

	profile, err := h.users.Profile(r.Context(), id.String(), viewerID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/users/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	userID := middleware.UserIDFromContext(r.Context())

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("Invalid request body"), h.logger)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, service.UpdateProfileInput{
		Name:         req.Name,
		Phone:        req.Phone,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// ListUserItems handles GET /api/users/{id}/items
func (h *UserHandler) ListUserItems(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"), "User")
	if !ok {
		return
	}

	p := pagination.FromRequest(r, defaultItemPageSize)

	page, err := h.items.ListBySeller(r.Context(), id.String(), true, p)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"items":       page.Items,
		"totalPages":  page.TotalPages,
		"currentPage": page.CurrentPage,
		"total":       page.Total,
	})
}

// ListReviews handles GET /api/users/{id}/reviews
func (h *UserHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"), "User")
	if !ok {
		return
	}

	p := pagination.FromRequest(r, defaultReviewPageSize)

	page, err := h.reviews.List(r.Context(), id.String(), p)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"reviews":       page.Reviews,
		"averageRating": page.Summary.AverageRating,
		"totalReviews":  page.Summary.TotalReviews,
		"totalPages":    page.TotalPages,
		"currentPage":   page.CurrentPage,
		"total":         page.Total,
	})
}

// CreateReview handles POST /api/users/{id}/reviews
func (h *UserHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"), "User")
	if !ok {
		return
	}

	reviewerID := middleware.UserIDFromContext(r.Context())

	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("Invalid request body"), h.logger)
		return
	}

	review, err := h.reviews.Create(r.Context(), service.CreateReviewInput{
		ReviewerID:     reviewerID,
		ReviewedUserID: id.String(),
		Rating:         req.Rating,
		Comment:        req.Comment,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Review created successfully",
		"review":  review,
	})
}
