package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/whattoeat/backend/internal/config"
	"github.com/whattoeat/backend/internal/database"
	"github.com/whattoeat/backend/internal/handlers"
	appMiddleware "github.com/whattoeat/backend/internal/middleware"
	"github.com/whattoeat/backend/internal/services"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()

	var (
		groceries services.GroceryService
		favorites services.FavoriteService
		users     services.UserService
	)

	switch cfg.StoreBackend {
	case config.BackendMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		client, db, err := services.ConnectMongo(connectCtx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			cancel()
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer client.Disconnect(context.Background())

		g, err := services.NewMongoGroceryService(connectCtx, db)
		if err != nil {
			log.Fatalf("Failed to initialize grocery service: %v", err)
		}
		f, err := services.NewMongoFavoriteService(connectCtx, db)
		if err != nil {
			log.Fatalf("Failed to initialize favorite service: %v", err)
		}
		u, err := services.NewMongoUserService(connectCtx, db)
		if err != nil {
			log.Fatalf("Failed to initialize user service: %v", err)
		}
		cancel()
		groceries, favorites, users = g, f, u
	default:
		db, err := database.Open(cfg.DatabasePath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer db.Close()

		groceries = services.NewSQLGroceryService(db.SQL)
		favorites = services.NewSQLFavoriteService(db.SQL)
		users = services.NewSQLUserService(db.SQL)
	}

	recipes, err := services.NewRecipeClient(cfg.SpoonacularAPIKey, cfg.RecipeCacheSize)
	if err != nil {
		log.Fatalf("Failed to initialize recipe client: %v", err)
	}
	recipes.BaseURL = cfg.SpoonacularBaseURL
	if cfg.SpoonacularAPIKey == "" {
		log.Printf("Warning: SPOONACULAR_API_KEY is not set, recipe search will fail")
	}

	// Firebase ID tokens take over from local JWTs when a project is configured.
	auth := appMiddleware.JWTAuth(cfg.JWTSecret)
	externalIdentity := false
	if cfg.FirebaseProjectID != "" {
		authClient, err := appMiddleware.NewFirebaseAuthClient(ctx, appMiddleware.FirebaseAuthConfig{
			ProjectID:       cfg.FirebaseProjectID,
			CredentialsJSON: cfg.FirebaseCredentialsJSON,
		})
		if err != nil {
			log.Printf("Warning: failed to initialize Firebase Auth client: %v", err)
		} else {
			auth = appMiddleware.FirebaseAuth(authClient)
			externalIdentity = true
		}
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Groceries:        groceries,
		Favorites:        favorites,
		Users:            users,
		Recipes:          recipes,
		Auth:             auth,
		ExternalIdentity: externalIdentity,
		JWTSecret:        cfg.JWTSecret,
		JWTExpiration:    cfg.JWTExpiration,
		AllowedOrigins:   cfg.AllowedOrigins,
		RequestTimeout:   cfg.RequestTimeout,
	})

	log.Printf("whattoeat API server starting on %s (store=%s)", cfg.ServerAddress, cfg.StoreBackend)
	if err := http.ListenAndServe(cfg.ServerAddress, router); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
