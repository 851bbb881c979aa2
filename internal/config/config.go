package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            string
	Environment     string
	CORSOrigins     string
	DatabaseURL     string // Postgres cloud snapshot store; empty disables cloud sync
	TablePrefix     string
	SupabaseURL     string
	SupabaseJWKSURL string // Constructed from SupabaseURL + /auth/v1/.well-known/jwks.json
	JWTSecret       string // HS256 shared secret, used when no JWKS URL is configured
	// LLM Configuration
	AnthropicAPIKey   string
	DefaultModel      string
	GenerationTimeout time.Duration
	// Local storage
	LocalDBPath      string
	CloudSyncTimeout time.Duration
	// Logging
	LogDir      string
	LogMaxFiles int
	// Debug flags
	Debug bool // Enables dev-only models and verbose logging
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)
	supabaseURL := getEnv("SUPABASE_URL", "")

	// Construct JWKS URL from Supabase URL
	jwksURL := ""
	if supabaseURL != "" {
		jwksURL = supabaseURL + "/auth/v1/.well-known/jwks.json"
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     env,
		CORSOrigins:     getEnv("CORS_ORIGINS", "http://localhost:3000"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		TablePrefix:     tablePrefix,
		SupabaseURL:     supabaseURL,
		SupabaseJWKSURL: jwksURL,
		JWTSecret:       getEnv("JWT_SECRET", ""),
		// LLM Configuration
		AnthropicAPIKey:   getEnv("ANTHROPIC_API_KEY", ""),
		DefaultModel:      getEnv("DEFAULT_MODEL", ""),
		GenerationTimeout: getDuration("GENERATION_TIMEOUT", 60*time.Second),
		// Local storage
		LocalDBPath:      getEnv("LOCAL_DB_PATH", "studyplan.db"),
		CloudSyncTimeout: getDuration("CLOUD_SYNC_TIMEOUT", 10*time.Second),
		// Logging
		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getInt("LOG_MAX_FILES", 10),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true" // Enable DEBUG in dev/test by default
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return defaultValue
}

// getDuration accepts Go duration strings ("90s") or plain seconds ("90").
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(value); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return defaultValue
}
