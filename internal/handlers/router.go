package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/whattoeat/backend/internal/services"
)

// RouterConfig carries everything the HTTP layer depends on.
type RouterConfig struct {
	Groceries services.GroceryService
	Favorites services.FavoriteService
	Users     services.UserService
	Recipes   services.RecipeProvider

	// Auth resolves the request session; JWTAuth or FirebaseAuth.
	Auth             func(http.Handler) http.Handler
	// ExternalIdentity is set when sessions come from Firebase. Local
	// register and login are not mounted since their tokens would be rejected.
	ExternalIdentity bool

	JWTSecret      string
	JWTExpiration  time.Duration
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func NewRouter(cfg RouterConfig) http.Handler {
	groceryHandler := NewGroceryHandler(cfg.Groceries, cfg.RequestTimeout)
	favoriteHandler := NewFavoriteHandler(cfg.Favorites, cfg.RequestTimeout)
	recipeHandler := NewRecipeHandler(cfg.Recipes, cfg.RequestTimeout)
	authHandler := NewAuthHandler(cfg.Users, cfg.JWTSecret, cfg.JWTExpiration)
	accountHandler := NewAccountHandler(services.NewAccountService(cfg.Groceries, cfg.Favorites, cfg.Users))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes
		if !cfg.ExternalIdentity {
			r.Post("/auth/register", authHandler.Register)
			r.Post("/auth/login", authHandler.Login)
		}

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(cfg.Auth)

			r.Get("/session", authHandler.GetSession)
			r.Delete("/account", accountHandler.DeleteAccount)

			r.Route("/grocery", func(r chi.Router) {
				r.Get("/", groceryHandler.ListItems)
				r.Post("/", groceryHandler.CreateItem)
				r.Delete("/", groceryHandler.DeleteAllItems)
				r.Put("/{itemId}", groceryHandler.UpdateItem)
				r.Delete("/{itemId}", groceryHandler.DeleteItem)
			})

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", favoriteHandler.ListFavorites)
				r.Post("/", favoriteHandler.AddFavorite)
				r.Delete("/{recipeId}", favoriteHandler.RemoveFavorite)
			})

			r.Route("/recipes", func(r chi.Router) {
				r.Get("/search", recipeHandler.Search)
				r.Get("/{recipeId}", recipeHandler.GetRecipe)
			})
		})
	})

	return r
}
