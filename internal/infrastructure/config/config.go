package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	DatabasePath string

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// Completion provider (OpenAI-compatible endpoint)
	LLMURL     string // e.g. "https://api.openai.com" or "http://localhost:1234"
	LLMModel   string // model name, e.g. "gpt-4o-mini"
	LLMAPIKey  string // optional for local endpoints
	LLMTimeout time.Duration

	// Uploads
	MaxUploadBytes int64
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		ServerAddress:   getenvDefault("SERVER_ADDRESS", ":8080"),
		ShutdownTimeout: getDurationDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
		DatabasePath:    getenvDefault("DATABASE_PATH", "studyhub.db"),
		JWTSecret:       mustGetenv("JWT_SECRET"),
		TokenTTL:        getDurationDefault("TOKEN_TTL", 24*time.Hour),
		LLMURL:          getenvDefault("LLM_URL", "https://api.openai.com"),
		LLMModel:        getenvDefault("LLM_MODEL", "gpt-4o-mini"),
		LLMAPIKey:       os.Getenv("LLM_API_KEY"),
		LLMTimeout:      getDurationDefault("LLM_TIMEOUT", 30*time.Second),
		MaxUploadBytes:  int64(getIntDefault("MAX_UPLOAD_MB", 10)) << 20,
	}
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getDurationDefault(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getIntDefault(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid integer: %v", k, v, err)
	}
	return n
}
