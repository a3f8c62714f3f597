package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/whattoeat/backend/internal/models"
	"github.com/whattoeat/backend/internal/services"
)

type FavoriteHandler struct {
	favoriteService services.FavoriteService
	timeout         time.Duration
}

func NewFavoriteHandler(favoriteService services.FavoriteService, timeout time.Duration) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
		timeout:         timeout,
	}
}

func (h *FavoriteHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req models.AddFavoriteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), h.timeout)
	defer cancel()

	favorite, err := h.favoriteService.Add(ctx, userID, req.ID, req.Title)
	if err != nil {
		writeServiceError(w, "AddFavorite", userID, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(favorite))
}

func (h *FavoriteHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	recipeID, err := strconv.ParseInt(chi.URLParam(r, "recipeId"), 10, 64)
	if err != nil || recipeID <= 0 {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(models.CodeValidation, "Invalid recipe id"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.favoriteService.Remove(ctx, userID, recipeID); err != nil {
		writeServiceError(w, "RemoveFavorite", userID, err)
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Favorite removed successfully"}))
}

func (h *FavoriteHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), h.timeout)
	defer cancel()

	favorites, err := h.favoriteService.List(ctx, userID)
	if err != nil {
		writeServiceError(w, "ListFavorites", userID, err)
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(favorites))
}
