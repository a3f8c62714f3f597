package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whattoeat/backend/internal/database"
	"github.com/whattoeat/backend/internal/middleware"
	"github.com/whattoeat/backend/internal/models"
	"github.com/whattoeat/backend/internal/services"
)

const testSecret = "handler-test-secret"

type fakeRecipes struct {
	results []models.RecipeSummary
	detail  *models.RecipeDetail
	err     error
}

func (f *fakeRecipes) Search(ctx context.Context, req models.RecipeSearchRequest) ([]models.RecipeSummary, error) {
	return f.results, f.err
}

func (f *fakeRecipes) Get(ctx context.Context, id int64) (*models.RecipeDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.detail, nil
}

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Errors  map[string]string `json:"errors"`
}

type testServer struct {
	handler http.Handler
	recipes *fakeRecipes
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, nil)
}

func newTestServerWith(t *testing.T, configure func(*RouterConfig)) *testServer {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	recipes := &fakeRecipes{}
	cfg := RouterConfig{
		Groceries:      services.NewSQLGroceryService(db.SQL),
		Favorites:      services.NewSQLFavoriteService(db.SQL),
		Users:          services.NewSQLUserService(db.SQL),
		Recipes:        recipes,
		Auth:           middleware.JWTAuth(testSecret),
		JWTSecret:      testSecret,
		JWTExpiration:  time.Hour,
		RequestTimeout: 5 * time.Second,
	}
	if configure != nil {
		configure(&cfg)
	}
	return &testServer{handler: NewRouter(cfg), recipes: recipes}
}

func tokenFor(t *testing.T, id string) string {
	t.Helper()
	tok, err := middleware.IssueToken(testSecret, &models.User{ID: id, Name: id, Email: id + "@example.com"}, time.Hour)
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestGroceryRequiresSession(t *testing.T) {
	s := newTestServer(t)
	code, _ := s.do(t, http.MethodGet, "/api/grocery", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestGroceryLifecycle(t *testing.T) {
	s := newTestServer(t)
	alice := tokenFor(t, "alice")
	bob := tokenFor(t, "bob")

	code, env := s.do(t, http.MethodPost, "/api/grocery", alice, map[string]string{"title": "Milk: 2 gal"})
	require.Equal(t, http.StatusCreated, code)
	var item models.GroceryItem
	require.NoError(t, json.Unmarshal(env.Data, &item))
	assert.Equal(t, "alice", item.UserID)
	assert.False(t, item.Checked)

	code, env = s.do(t, http.MethodPost, "/api/grocery", alice, map[string]string{"title": "x"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, models.CodeValidation, env.Code)
	assert.Contains(t, env.Errors, "title")

	// Bob sees nothing and cannot touch Alice's row.
	code, env = s.do(t, http.MethodGet, "/api/grocery", bob, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, "[]", string(env.Data))

	code, env = s.do(t, http.MethodDelete, "/api/grocery/"+item.ID, bob, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, models.CodeNotFound, env.Code)

	code, env = s.do(t, http.MethodPut, "/api/grocery/"+item.ID, bob, map[string]interface{}{"title": "Stolen"})
	assert.Equal(t, http.StatusNotFound, code)

	checked := true
	code, env = s.do(t, http.MethodPut, "/api/grocery/"+item.ID, alice, models.UpdateGroceryItemRequest{Title: "Milk: 1 gal", Checked: &checked})
	require.Equal(t, http.StatusOK, code)
	var updated models.GroceryItem
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Milk: 1 gal", updated.Title)
	assert.True(t, updated.Checked)

	code, _ = s.do(t, http.MethodPost, "/api/grocery", alice, map[string]string{"title": "Eggs"})
	require.Equal(t, http.StatusCreated, code)

	code, env = s.do(t, http.MethodGet, "/api/grocery", alice, nil)
	require.Equal(t, http.StatusOK, code)
	var items []models.GroceryItem
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 2)
	assert.Equal(t, "Eggs", items[0].Title)

	for i := 0; i < 2; i++ {
		code, _ = s.do(t, http.MethodDelete, "/api/grocery", alice, nil)
		require.Equal(t, http.StatusOK, code)
		_, env = s.do(t, http.MethodGet, "/api/grocery", alice, nil)
		assert.JSONEq(t, "[]", string(env.Data))
	}
}

func TestFavoritesLifecycle(t *testing.T) {
	s := newTestServer(t)
	alice := tokenFor(t, "alice")

	code, _ := s.do(t, http.MethodPost, "/api/favorites", alice, models.AddFavoriteRequest{ID: 715538, Title: "Bruschetta"})
	require.Equal(t, http.StatusCreated, code)

	code, env := s.do(t, http.MethodPost, "/api/favorites", alice, models.AddFavoriteRequest{ID: 715538, Title: "Bruschetta"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, models.CodeConflict, env.Code)

	_, env = s.do(t, http.MethodGet, "/api/favorites", alice, nil)
	var favs []models.FavoriteRecipe
	require.NoError(t, json.Unmarshal(env.Data, &favs))
	require.Len(t, favs, 1)

	code, _ = s.do(t, http.MethodDelete, "/api/favorites/715538", alice, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = s.do(t, http.MethodDelete, "/api/favorites/715538", alice, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = s.do(t, http.MethodDelete, "/api/favorites/abc", alice, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	_, env = s.do(t, http.MethodGet, "/api/favorites", alice, nil)
	assert.JSONEq(t, "[]", string(env.Data))
}

func TestRegisterLoginSession(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "Cook@Example.com", "password": "secret123", "name": "Cook",
	})
	require.Equal(t, http.StatusCreated, code, env.Error)

	code, _ = s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "cook@example.com", "password": "secret123", "name": "Cook",
	})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "cook@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "cook@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, code)
	var auth models.AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &auth))
	require.NotEmpty(t, auth.Token)

	code, env = s.do(t, http.MethodGet, "/api/session", auth.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var sess models.Session
	require.NoError(t, json.Unmarshal(env.Data, &sess))
	assert.Equal(t, auth.User.ID, sess.User.ID)
	assert.Equal(t, "cook@example.com", sess.User.Email)
}

func TestExternalIdentityDisablesLocalAuth(t *testing.T) {
	s := newTestServerWith(t, func(cfg *RouterConfig) { cfg.ExternalIdentity = true })

	code, _ := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "cook@example.com", "password": "secret123", "name": "Cook",
	})
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "cook@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(t, http.MethodGet, "/api/session", tokenFor(t, "alice"), nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestDeleteAccount(t *testing.T) {
	s := newTestServer(t)
	alice := tokenFor(t, "alice")

	s.do(t, http.MethodPost, "/api/grocery", alice, map[string]string{"title": "Flour"})
	s.do(t, http.MethodPost, "/api/favorites", alice, models.AddFavoriteRequest{ID: 1, Title: "Bread"})

	code, env := s.do(t, http.MethodDelete, "/api/account", alice, nil)
	require.Equal(t, http.StatusOK, code)
	var result services.DeleteAccountResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.EqualValues(t, 1, result.GroceryItems)
	assert.EqualValues(t, 1, result.Favorites)
}

func TestRecipeSearch(t *testing.T) {
	s := newTestServer(t)
	alice := tokenFor(t, "alice")

	code, env := s.do(t, http.MethodGet, "/api/recipes/search", alice, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Errors, "query")

	s.recipes.results = []models.RecipeSummary{{ID: 1, Title: "Pancakes"}}
	code, env = s.do(t, http.MethodGet, "/api/recipes/search?query=eggs,flour&diet=vegetarian", alice, nil)
	require.Equal(t, http.StatusOK, code)
	var results []models.RecipeSummary
	require.NoError(t, json.Unmarshal(env.Data, &results))
	assert.Len(t, results, 1)

	s.recipes.err = services.ErrQuotaExceeded
	code, env = s.do(t, http.MethodGet, "/api/recipes/search?query=eggs", alice, nil)
	assert.Equal(t, http.StatusPaymentRequired, code)
	assert.Equal(t, models.CodeQuotaExceeded, env.Code)
	assert.Equal(t, "Daily quota has been reached, please come back tomorrow!", env.Error)

	s.recipes.err = services.ErrRecipeNotFound
	code, _ = s.do(t, http.MethodGet, "/api/recipes/42", alice, nil)
	assert.Equal(t, http.StatusNotFound, code)
}
