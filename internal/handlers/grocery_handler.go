package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/whattoeat/backend/internal/models"
	"github.com/whattoeat/backend/internal/services"
)

type GroceryHandler struct {
	groceries services.GroceryService
	timeout   time.Duration
}

func NewGroceryHandler(groceries services.GroceryService, timeout time.Duration) *GroceryHandler {
	return &GroceryHandler{groceries: groceries, timeout: timeout}
}

func (h *GroceryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), h.timeout)
	defer cancel()

	items, err := h.groceries.List(ctx, userID)
	if err != nil {
		writeServiceError(w, "ListGrocery", userID, err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(items))
}

func (h *GroceryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req models.CreateGroceryItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), h.timeout)
	defer cancel()

	item, err := h.groceries.Create(ctx, userID, req.Title)
	if err != nil {
		writeServiceError(w, "CreateGrocery", userID, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(item))
}

func (h *GroceryHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req models.UpdateGroceryItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), h.timeout)
	defer cancel()

	item, err := h.groceries.Update(ctx, userID, chi.URLParam(r, "itemId"), &req)
	if err != nil {
		writeServiceError(w, "UpdateGrocery", userID, err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(item))
}

func (h *GroceryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.groceries.Delete(ctx, userID, chi.URLParam(r, "itemId")); err != nil {
		writeServiceError(w, "DeleteGrocery", userID, err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Item deleted successfully"}))
}

func (h *GroceryHandler) DeleteAllItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), h.timeout)
	defer cancel()

	n, err := h.groceries.DeleteAll(ctx, userID)
	if err != nil {
		writeServiceError(w, "DeleteAllGrocery", userID, err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]int64{"deleted": n}))
}
