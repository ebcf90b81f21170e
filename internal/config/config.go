package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is required")

type Config struct {
	HTTPAddr       string
	LogLevel       string
	RequestTimeout time.Duration
	OpenAI         OpenAIConfig
	Retry          RetryConfig
}

type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
}

type RetryConfig struct {
	// MaxAttempts == 1 означает один запрос без повторов.
	MaxAttempts int
}

// Load читает конфигурацию из окружения. Файл .env подхватывается, если он есть.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv читает конфигурацию только из переменных окружения.
func FromEnv() (Config, error) {
	var cfg Config

	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	reqTimeout, err := parseDuration(getEnv("HTTP_CLIENT_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_CLIENT_TIMEOUT: %w", err)
	}
	cfg.RequestTimeout = reqTimeout

	maxTokens, err := strconv.Atoi(getEnv("OPENAI_MAX_TOKENS", "250"))
	if err != nil {
		return Config{}, fmt.Errorf("parse OPENAI_MAX_TOKENS: %w", err)
	}
	if maxTokens <= 0 {
		return Config{}, fmt.Errorf("OPENAI_MAX_TOKENS must be positive, got %d", maxTokens)
	}

	temperature, err := strconv.ParseFloat(getEnv("OPENAI_TEMPERATURE", "0.7"), 32)
	if err != nil {
		return Config{}, fmt.Errorf("parse OPENAI_TEMPERATURE: %w", err)
	}
	if temperature < 0 || temperature > 2 {
		return Config{}, fmt.Errorf("OPENAI_TEMPERATURE must be within [0, 2], got %v", temperature)
	}

	cfg.OpenAI = OpenAIConfig{
		APIKey:      getEnv("OPENAI_API_KEY", ""),
		BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		MaxTokens:   maxTokens,
		Temperature: float32(temperature),
	}
	if cfg.OpenAI.APIKey == "" {
		return Config{}, ErrMissingAPIKey
	}

	attempts, err := strconv.Atoi(getEnv("LLM_RETRY_MAX_ATTEMPTS", "1"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LLM_RETRY_MAX_ATTEMPTS: %w", err)
	}
	if attempts < 1 {
		attempts = 1
	}
	cfg.Retry = RetryConfig{MaxAttempts: attempts}

	return cfg, nil
}

func parseDuration(value string) (time.Duration, error) {
	if value == "" {
		return 0, fmt.Errorf("duration is empty")
	}
	return time.ParseDuration(value)
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}
