package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/whattoeat/backend/internal/middleware"
	"github.com/whattoeat/backend/internal/models"
	"github.com/whattoeat/backend/internal/services"
)

const defaultRequestTimeout = 10 * time.Second

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func contextWithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultRequestTimeout
	}
	return context.WithTimeout(parent, d)
}

// requireUser returns the session user id or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse(models.CodeUnauthorized, "Unauthorized"))
		return "", false
	}
	return userID, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(models.CodeValidation, "Invalid request body"))
		return false
	}
	return true
}

// writeServiceError maps service sentinel errors onto status codes. Anything
// unrecognised is logged and reported as a 500 without leaking details.
func writeServiceError(w http.ResponseWriter, tag, userID string, err error) {
	switch {
	case errors.Is(err, services.ErrGroceryNotFound):
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse(models.CodeNotFound, "Item not found or you don't have permission to modify it"))
	case errors.Is(err, services.ErrFavoriteNotFound):
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse(models.CodeNotFound, "Favorite not found"))
	case errors.Is(err, services.ErrAlreadyFavorited):
		writeJSON(w, http.StatusConflict, models.NewErrorResponse(models.CodeConflict, "Recipe already favorited"))
	case errors.Is(err, services.ErrGroceryBadInput), errors.Is(err, services.ErrFavoriteBadInput):
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(models.CodeValidation, err.Error()))
	case errors.Is(err, services.ErrQuotaExceeded):
		writeJSON(w, http.StatusPaymentRequired, models.NewErrorResponse(models.CodeQuotaExceeded, "Daily quota has been reached, please come back tomorrow!"))
	case errors.Is(err, services.ErrRecipeNotFound):
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse(models.CodeNotFound, "Recipe not found"))
	case errors.Is(err, services.ErrRecipeUpstream):
		log.Printf("[%s] user=%s upstream error=%v", tag, userID, err)
		writeJSON(w, http.StatusBadGateway, models.NewErrorResponse(models.CodeUpstream, "Recipe provider is unavailable"))
	case errors.Is(err, context.DeadlineExceeded):
		log.Printf("[%s] user=%s timeout error=%v", tag, userID, err)
		writeJSON(w, http.StatusGatewayTimeout, models.NewErrorResponse(models.CodeInternal, "Request timed out"))
	default:
		log.Printf("[%s] user=%s error=%v", tag, userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse(models.CodeInternal, "Internal server error"))
	}
}
