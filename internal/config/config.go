// Package config resolves all runtime configuration at process start.
// Secrets are always injected through the environment, never hardcoded.
package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	RedisURL          string
	DatabaseURL       string // optional; audit trail disabled when empty
	GeminiAPIKey      string
	VisionCredentials string // optional; ambient credentials otherwise
	InstitutionAPIKey string
	ShareTokenSecret  string
	FrontendBaseURL   string
}

// Load reads .env if present, then the environment. Missing required
// values fail the process at startup rather than at first request.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file, using process environment")
	}

	cfg := Config{
		Port:              getenv("PORT", "8080"),
		RedisURL:          getenv("REDIS_URL", "redis://localhost:6379/0"),
		DatabaseURL:       os.Getenv("DB_URL"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		VisionCredentials: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		InstitutionAPIKey: os.Getenv("INSTITUTION_API_KEY"),
		ShareTokenSecret:  os.Getenv("SHARE_TOKEN_SECRET"),
		FrontendBaseURL:   getenv("FRONTEND_BASE_URL", "http://localhost:3000"),
	}

	for name, v := range map[string]string{
		"GEMINI_API_KEY":      cfg.GeminiAPIKey,
		"INSTITUTION_API_KEY": cfg.InstitutionAPIKey,
		"SHARE_TOKEN_SECRET":  cfg.ShareTokenSecret,
	} {
		if v == "" {
			return cfg, fmt.Errorf("missing required env %s", name)
		}
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
