package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment        string
	Port               string
	Timezone           string
	GeminiAPIKey       string
	GeminiModel        string
	CredentialsFile    string
	TokenFile          string
	DBPath             string
	FetchMaxResults    int64
	FetchWindowDays    int
	FetchFallbackMax   int64
	FetchProcessMax    int
	SummaryMinInterval time.Duration
	RefreshInterval    time.Duration
}

func NewConfig() (*Config, error) {
	env := os.Getenv("MOMO_ENV")
	if env == "" {
		env = "development"
	}

	if env == "development" {
		if err := godotenv.Load(); err != nil {
			fmt.Println("Warning: .env file not found, using environment variables")
		}
	}

	config := &Config{
		Environment:        env,
		Port:               getEnvOrDefault("PORT", "8000"),
		Timezone:           getEnvOrDefault("TZ", "America/New_York"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		CredentialsFile:    getEnvOrDefault("MOMO_CREDENTIALS_FILE", "credentials.json"),
		TokenFile:          getEnvOrDefault("MOMO_TOKEN_FILE", "token.json"),
		DBPath:             getEnvOrDefault("MOMO_DB_PATH", "momo.db"),
		FetchMaxResults:    int64(getEnvIntOrDefault("MOMO_FETCH_MAX", 20)),
		FetchWindowDays:    getEnvIntOrDefault("MOMO_FETCH_WINDOW_DAYS", 3),
		FetchFallbackMax:   int64(getEnvIntOrDefault("MOMO_FETCH_FALLBACK_MAX", 10)),
		FetchProcessMax:    getEnvIntOrDefault("MOMO_FETCH_PROCESS_MAX", 15),
		SummaryMinInterval: time.Duration(getEnvIntOrDefault("MOMO_SUMMARY_MIN_INTERVAL_MS", 1000)) * time.Millisecond,
		RefreshInterval:    time.Duration(getEnvIntOrDefault("MOMO_REFRESH_INTERVAL_MIN", 5)) * time.Minute,
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	if c.FetchProcessMax <= 0 {
		return fmt.Errorf("MOMO_FETCH_PROCESS_MAX must be positive")
	}

	if c.SummaryMinInterval < 0 {
		return fmt.Errorf("MOMO_SUMMARY_MIN_INTERVAL_MS must not be negative")
	}

	// GEMINI_API_KEY is optional: without it the deterministic summary
	// fallback is used.
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
