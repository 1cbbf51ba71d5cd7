package config

import (
	"os"
	"time"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	JWKSURL     string // Empty in dev means the stub auth middleware is used
	CORSOrigins string
	TablePrefix string
	LogDir      string // Optional; when set, logs are also written to rotated files here
	LogMaxFiles int
	DevUserID   string
	// Dashboard client configuration
	ServerURL  string
	APIToken   string
	ProjectRef string
	StaleTime  time.Duration
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWKSURL:     getEnv("JWKS_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: tablePrefix,
		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: DefaultLogMaxFiles,
		DevUserID:   getEnv("DEV_USER_ID", "00000000-0000-0000-0000-000000000001"),
		ServerURL:   getEnv("SNIPPETS_SERVER_URL", "http://localhost:8080"),
		APIToken:    getEnv("SNIPPETS_TOKEN", ""),
		ProjectRef:  getEnv("SNIPPETS_PROJECT", ""),
		StaleTime:   getDuration("SNIPPETS_STALE_TIME", DefaultStaleTime),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
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

// getDuration parses a Go duration string ("90s", "5m"); invalid values fall back to the default
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
