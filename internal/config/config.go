package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment    string
	LogLevel       string
	Port           string
	DatasetPath    string
	MaxUploadBytes int64
	ReadRetry      time.Duration
	EvaluatorName  string
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	return Config{
		Environment:    envOr("ENVIRONMENT", "local"),
		LogLevel:       envOr("LOG_LEVEL", "info"),
		Port:           envOr("PORT", "8080"),
		DatasetPath:    os.Getenv("DATASET_PATH"),
		MaxUploadBytes: int64(envInt("MAX_UPLOAD_MB", 32)) << 20,
		ReadRetry:      time.Duration(envInt("READ_RETRY_SECONDS", 10)) * time.Second,
		EvaluatorName:  envOr("EVALUATOR_NAME", "Monitoria de Qualidade"),
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	v, err := strconv.Atoi(os.Getenv(k))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
