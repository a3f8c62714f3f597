package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/whattoeat/backend/internal/middleware"
	"github.com/whattoeat/backend/internal/models"
	"github.com/whattoeat/backend/internal/services"
)

// RecipeHandler proxies the external recipe API so the API key stays on the
// server.
type RecipeHandler struct {
	recipes services.RecipeProvider
	timeout time.Duration
}

func NewRecipeHandler(recipes services.RecipeProvider, timeout time.Duration) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, timeout: timeout}
}

func (h *RecipeHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := models.RecipeSearchRequest{
		Query: q.Get("query"),
		Diet:  q.Get("diet"),
	}
	req.IgnorePantry, _ = strconv.ParseBool(q.Get("ignorePantry"))
	if n := q.Get("number"); n != "" {
		req.Number, _ = strconv.Atoi(n)
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), h.timeout)
	defer cancel()

	results, err := h.recipes.Search(ctx, req)
	if err != nil {
		writeServiceError(w, "SearchRecipes", middleware.GetUserID(r.Context()), err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(results))
}

func (h *RecipeHandler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "recipeId"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(models.CodeValidation, "Invalid recipe id"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), h.timeout)
	defer cancel()

	recipe, err := h.recipes.Get(ctx, id)
	if err != nil {
		writeServiceError(w, "GetRecipe", middleware.GetUserID(r.Context()), err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(recipe))
}
