package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr               string
	DBPath             string
	LogLevel           string
	LogFormat          string
	HistoryLimit       int
	HeadToHeadLimit    int
	RecalcWorkerCount  int
	RecalcQueueSize    int
	CORSAllowedOrigins []string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:               envOr("ADDR", ":8080"),
		DBPath:             envOr("DB_PATH", "file:ringside.db"),
		LogLevel:           envOr("LOG_LEVEL", "INFO"),
		LogFormat:          envOr("LOG_FORMAT", "console"),
		HistoryLimit:       envIntOr("HISTORY_LIMIT", 20),
		HeadToHeadLimit:    envIntOr("HEAD_TO_HEAD_LIMIT", 10),
		RecalcWorkerCount:  envIntOr("RECALC_WORKER_COUNT", 1),
		RecalcQueueSize:    envIntOr("RECALC_QUEUE_SIZE", 8),
		CORSAllowedOrigins: envListOr("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Addr) == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("LOG_FORMAT must be console or json (got %q)", c.LogFormat))
	}
	if c.HistoryLimit < 1 || c.HistoryLimit > 500 {
		problems = append(problems, fmt.Sprintf("HISTORY_LIMIT must be between 1 and 500 (got %d)", c.HistoryLimit))
	}
	if c.HeadToHeadLimit < 1 || c.HeadToHeadLimit > 500 {
		problems = append(problems, fmt.Sprintf("HEAD_TO_HEAD_LIMIT must be between 1 and 500 (got %d)", c.HeadToHeadLimit))
	}
	if c.RecalcWorkerCount < 1 {
		problems = append(problems, fmt.Sprintf("RECALC_WORKER_COUNT must be at least 1 (got %d)", c.RecalcWorkerCount))
	}
	if c.RecalcQueueSize < 1 {
		problems = append(problems, fmt.Sprintf("RECALC_QUEUE_SIZE must be at least 1 (got %d)", c.RecalcQueueSize))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
