package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr           string
	DBHost               string
	DBPort               int
	DBUser               string
	DBPassword           string
	DBName               string
	HFToken              string
	HFBaseURL            string
	HFTimeoutSec         int
	UploadDir            string
	OutputDir            string
	MaxUploadSizeBytes   int64
	TunnelingProbability float64
	DecayRate            float64
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:           getEnv("LISTEN_ADDR", ":8080"),
		DBHost:               getEnv("DB_HOST", "localhost"),
		DBPort:               getEnvInt("DB_PORT", 3306),
		DBUser:               getEnv("DB_USER", "sonic_ai_user"),
		DBPassword:           getEnv("DB_PASSWORD", ""),
		DBName:               getEnv("DB_NAME", "sonic_ai"),
		HFToken:              getEnv("HF_TOKEN", ""),
		HFBaseURL:            strings.TrimRight(getEnv("HF_BASE_URL", "https://api-inference.huggingface.co"), "/"),
		HFTimeoutSec:         getEnvInt("HF_TIMEOUT_SEC", 120),
		UploadDir:            getEnv("UPLOAD_DIR", "./uploads"),
		OutputDir:            getEnv("OUTPUT_DIR", "./static/images"),
		MaxUploadSizeBytes:   getEnvInt64("MAX_UPLOAD_SIZE_BYTES", 100*1024*1024),
		TunnelingProbability: getEnvFloat("QUANTUM_TUNNELING_PROBABILITY", 0.01),
		DecayRate:            getEnvFloat("QUANTUM_DECAY_RATE", 0.5),
	}

	if cfg.HFTimeoutSec <= 0 {
		return Config{}, errors.New("hf timeout sec must be > 0")
	}
	if cfg.MaxUploadSizeBytes <= 0 {
		return Config{}, errors.New("max upload size must be > 0")
	}
	if cfg.DBPort <= 0 {
		return Config{}, errors.New("db port must be > 0")
	}
	if cfg.TunnelingProbability < 0 || cfg.TunnelingProbability > 1 {
		return Config{}, errors.New("tunneling probability must be in [0,1]")
	}

	return cfg, nil
}

// DSN builds the MySQL connection string for database/sql.
func (c Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
