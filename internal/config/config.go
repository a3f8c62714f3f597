package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

type Config struct {
	ServerAddress  string
	AllowedOrigins []string
	RequestTimeout time.Duration

	JWTSecret     string
	JWTExpiration time.Duration

	// Firebase ID tokens are accepted instead of local JWTs when a project id is set.
	FirebaseProjectID       string
	FirebaseCredentialsJSON string

	StoreBackend string
	DatabasePath string
	MongoURI     string
	MongoDB      string

	SpoonacularAPIKey  string
	SpoonacularBaseURL string
	RecipeCacheSize    int
}

func Load() *Config {
	return &Config{
		ServerAddress:           getEnv("SERVER_ADDRESS", ":8080"),
		AllowedOrigins:          getEnvList("ALLOWED_ORIGINS", []string{"*"}),
		RequestTimeout:          getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
		JWTSecret:               getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTExpiration:           getEnvDuration("JWT_EXPIRATION", 24*time.Hour),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsJSON: getEnv("FIREBASE_CREDENTIALS_JSON", ""),
		StoreBackend:            strings.ToLower(getEnv("STORE_BACKEND", BackendSQLite)),
		DatabasePath:            getEnv("DATABASE_PATH", "./data/whattoeat.db"),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDB:                 getEnv("MONGO_DB", "whattoeat"),
		SpoonacularAPIKey:       getEnv("SPOONACULAR_API_KEY", ""),
		SpoonacularBaseURL:      getEnv("SPOONACULAR_BASE_URL", "https://api.spoonacular.com"),
		RecipeCacheSize:         getEnvInt("RECIPE_CACHE_SIZE", 256),
	}
}

// Validate reports configuration that would make the server unusable.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendSQLite:
		if c.DatabasePath == "" {
			return fmt.Errorf("DATABASE_PATH is required for the sqlite backend")
		}
	case BackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for the mongo backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.FirebaseProjectID == "" && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when Firebase auth is not configured")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
