package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mrquarshie/huddle/internal/domain"
	"github.com/mrquarshie/huddle/internal/service"
	"github.com/mrquarshie/huddle/pkg/apperrors"
	"github.com/mrquarshie/huddle/pkg/httputil"
	"github.com/mrquarshie/huddle/pkg/middleware"
	"github.com/mrquarshie/huddle/pkg/pagination"
)

// ItemHandler handles HTTP requests for marketplace listings.
type ItemHandler struct {
	service *service.ItemService
	logger  *slog.Logger
}

// NewItemHandler creates a new item HTTP handler.
func NewItemHandler(svc *service.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// CreateItemRequest is the JSON request body for creating a listing.
type CreateItemRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Condition   string   `json:"condition"`
	Type        string   `json:"type"`
	Images      []string `json:"images"`
}

// UpdateItemRequest is the JSON request body for updating a listing.
type UpdateItemRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Condition   *string  `json:"condition"`
	Images      []string `json:"images"`
	IsAvailable *bool    `json:"isAvailable"`
}

// --- Handlers ---

// List handles GET /api/items
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ItemFilter{
		Search:     q.Get("search"),
		University: q.Get("university"),
		Category:   q.Get("category"),
		Type:       q.Get("type"),
	}
	p := pagination.FromRequest(r, defaultItemPageSize)

	page, err := h.service.List(r.Context(), filter, p)
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

// Get handles GET /api/items/{id}
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"), "Item")
	if !ok {
		return
	}

	item, err := h.service.GetByID(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"item": item})
}

// Create handles POST /api/items
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	sellerID := middleware.UserIDFromContext(r.Context())

	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("Invalid request body"), h.logger)
		return
	}

	item, err := h.service.Create(r.Context(), sellerID, service.CreateItemInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Condition:   req.Condition,
		Type:        req.Type,
		Images:      req.Images,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Item created successfully",
		"item":    item,
	})
}

// Update handles PUT /api/items/{id}
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"), "Item")
	if !ok {
		return
	}
	callerID := middleware.UserIDFromContext(r.Context())

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("Invalid request body"), h.logger)
		return
	}

	item, err := h.service.Update(r.Context(), callerID, id.String(), service.UpdateItemInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Condition:   req.Condition,
		Images:      req.Images,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Item updated successfully",
		"item":    item,
	})
}

// Delete handles DELETE /api/items/{id}
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"), "Item")
	if !ok {
		return
	}
	callerID := middleware.UserIDFromContext(r.Context())

	if err := h.service.Delete(r.Context(), callerID, id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.MessageResponse{Message: "Item deleted successfully"})
}

// MyItems handles GET /api/items/my-items
func (h *ItemHandler) MyItems(w http.ResponseWriter, r *http.Request) {
	sellerID := middleware.UserIDFromContext(r.Context())
	p := pagination.FromRequest(r, defaultItemPageSize)

	page, err := h.service.ListBySeller(r.Context(), sellerID, false, p)
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
