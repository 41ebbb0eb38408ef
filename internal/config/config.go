package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DatabaseURL         string
	FallbackDatabaseURL string
	DBMaxAttempts       int
	DBRetryBackoff      time.Duration

	RedisURL string

	MeiliSearchHost string
	MeiliMasterKey  string

	CloudinaryUploadFolder string

	JWTSecret string
	JWTTTL    time.Duration

	// StrictSubmissions turns on server-side required-field and value-type
	// enforcement at submission time. Off by default: the permissive behavior
	// is the documented contract, this flag is the opt-in tightening.
	StrictSubmissions bool
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:5173"),

		DatabaseURL:         os.Getenv("DATABASE_URL"),
		FallbackDatabaseURL: getEnv("FALLBACK_DATABASE_URL", "host=localhost user=postgres dbname=formforge port=5432 sslmode=disable"),

		RedisURL: os.Getenv("REDIS_URL"),

		MeiliSearchHost: getEnv("MEILISEARCH_HOST", "http://localhost:7700"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		CloudinaryUploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "formforge/avatars"),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),

		StrictSubmissions: getEnv("STRICT_SUBMISSIONS", "false") == "true",
	}

	var err error
	cfg.DBMaxAttempts, err = strconv.Atoi(getEnv("DB_MAX_ATTEMPTS", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_ATTEMPTS: %w", err)
	}
	cfg.DBRetryBackoff, err = time.ParseDuration(getEnv("DB_RETRY_BACKOFF", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_RETRY_BACKOFF: %w", err)
	}
	cfg.JWTTTL, err = time.ParseDuration(getEnv("JWT_TTL", "168h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
