package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whattoeat/backend/internal/database"
	"github.com/whattoeat/backend/internal/handlers"
	"github.com/whattoeat/backend/internal/middleware"
	"github.com/whattoeat/backend/internal/models"
	"github.com/whattoeat/backend/internal/services"
	"github.com/whattoeat/backend/internal/view"
)

const testSecret = "cli-test-secret"

type stubRecipes struct {
	err error
}

func (s *stubRecipes) Search(ctx context.Context, req models.RecipeSearchRequest) ([]models.RecipeSummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.RecipeSummary{{ID: 11, Title: "Pancakes"}, {ID: 12, Title: "Omelette"}}, nil
}

func (s *stubRecipes) Get(ctx context.Context, id int64) (*models.RecipeDetail, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.RecipeDetail{
		ID:    id,
		Title: "Pancakes",
		ExtendedIngredients: []models.Ingredient{
			{Name: "Milk", Amount: 2, Unit: "gal"},
			{Name: "Eggs", Amount: 3, Unit: ""},
		},
	}, nil
}

type cli struct {
	t         *testing.T
	server    string
	configDir string
	recipes   *stubRecipes
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	color.NoColor = true

	db, err := database.Open(filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	recipes := &stubRecipes{}
	ts := httptest.NewServer(handlers.NewRouter(handlers.RouterConfig{
		Groceries:      services.NewSQLGroceryService(db.SQL),
		Favorites:      services.NewSQLFavoriteService(db.SQL),
		Users:          services.NewSQLUserService(db.SQL),
		Recipes:        recipes,
		Auth:           middleware.JWTAuth(testSecret),
		JWTSecret:      testSecret,
		JWTExpiration:  time.Hour,
		RequestTimeout: 5 * time.Second,
	}))
	t.Cleanup(ts.Close)

	return &cli{t: t, server: ts.URL, configDir: t.TempDir(), recipes: recipes}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	buf := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"--server", c.server, "--config-dir", c.configDir}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "%v failed:\n%s", args, out)
	return out
}

func TestRootHelp(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())
	assert.NotZero(t, buf.Len())
}

func TestGroceryRequiresLogin(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("grocery", "list")
	require.Error(t, err)
	assert.Contains(t, out, view.MsgSignedOut)
}

var idPattern = regexp.MustCompile(`\(([0-9a-f-]{36})\)`)

func TestGroceryWorkflow(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("register", "--email", "cook@example.com", "--password", "secret123", "--name", "Cook")
	assert.Contains(t, out, "Welcome, Cook!")

	out = c.mustRun("grocery", "list")
	assert.Equal(t, view.MsgNoEntries+"\n", out)

	out = c.mustRun("grocery", "add", "Milk:", "2", "gal")
	m := idPattern.FindStringSubmatch(out)
	require.NotNil(t, m, "expected created id in %q", out)
	id := m[1]

	out = c.mustRun("grocery", "check", id)
	assert.Contains(t, out, "[x] Milk: 2 gal")

	// Checked state survives a fresh load.
	out = c.mustRun("grocery", "list")
	assert.Equal(t, "[x] Milk: 2 gal\n", out)

	c.mustRun("grocery", "edit", id, "Oat", "milk")
	out = c.mustRun("grocery", "list", "--ids")
	assert.Contains(t, out, id)
	assert.Contains(t, out, "[x] Oat milk")

	c.mustRun("grocery", "rm", id)
	_, err := c.run("grocery", "rm", id)
	assert.Error(t, err, "removing a missing item")

	c.mustRun("grocery", "add", "Bread")
	c.mustRun("grocery", "clear")
	assert.Equal(t, view.MsgNoEntries+"\n", c.mustRun("grocery", "list"))
}

func TestRecipesAndFavorites(t *testing.T) {
	c := newCLI(t)
	c.mustRun("register", "--email", "cook@example.com", "--password", "secret123", "--name", "Cook")

	c.mustRun("favorites", "add", "11", "Pancakes")
	out := c.mustRun("recipes", "search", "eggs", "flour")
	assert.Contains(t, out, "♥ 11\tPancakes")
	assert.Contains(t, out, "♡ 12\tOmelette")

	out = c.mustRun("recipes", "to-list", "11")
	assert.Contains(t, out, "Added 2 ingredients")
	assert.Contains(t, out, "Milk: 2 gal")
	out = c.mustRun("recipes", "to-list", "11")
	assert.Contains(t, out, "Added 0 ingredients", "duplicates should be skipped")

	c.mustRun("favorites", "rm", "11")
	assert.Equal(t, view.MsgNoEntries+"\n", c.mustRun("favorites", "list"))

	c.recipes.err = services.ErrQuotaExceeded
	out = c.mustRun("recipes", "search", "eggs")
	assert.Equal(t, view.MsgQuota+"\n", out)
}

func TestLogoutForgetsSession(t *testing.T) {
	c := newCLI(t)
	c.mustRun("register", "--email", "cook@example.com", "--password", "secret123", "--name", "Cook")
	assert.Contains(t, c.mustRun("whoami"), "Welcome, Cook!")
	c.mustRun("logout")
	assert.Equal(t, view.MsgSignedOut+"\n", c.mustRun("whoami"))

	c.mustRun("login", "--email", "cook@example.com", "--password", "secret123")
	c.mustRun("account", "delete", "--yes")
	_, err := c.run("login", "--email", "cook@example.com", "--password", "secret123")
	assert.Error(t, err, "login should fail after account deletion")
}
