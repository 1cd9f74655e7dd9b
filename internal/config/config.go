package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/toolbox/toolbox-go/internal/crypto"
)

const devJWTSecret = "dev-secret-change-in-production"

var (
	ErrDevSecretInProduction    = errors.New("JWT_SECRET must be set in production environment")
	ErrPseudoRandomInProduction = errors.New("RANDOM_SOURCE=pseudo is not allowed in production environment")
)

type Config struct {
	Port           string
	Env            string
	LogLevel       slog.Level
	DatabaseDSN    string
	JWTSecret      string
	JWTExpiry      time.Duration
	RandomSource   string
	MaxUploadBytes int64
	RateLimitRPS   float64
	RateLimitBurst int
	HashParams     crypto.HashParams
}

// Load reads the configuration from the environment. Unparseable numeric
// values fall back to their defaults with a warning.
func Load() (Config, error) {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		LogLevel:       getLevel("LOG_LEVEL", slog.LevelInfo),
		DatabaseDSN:    getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/toolbox?parseTime=true"),
		JWTSecret:      getEnv("JWT_SECRET", devJWTSecret),
		JWTExpiry:      getDuration("JWT_EXPIRY", 24*time.Hour),
		RandomSource:   strings.ToLower(getEnv("RANDOM_SOURCE", "crypto")),
		MaxUploadBytes: int64(getInt("MAX_UPLOAD_BYTES", 10<<20)),
		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 10),
	}

	hp := crypto.DefaultHashParams()
	hp.Memory = uint32(getInt("HASH_MEMORY_KIB", int(hp.Memory)))
	hp.Iterations = uint32(getInt("HASH_ITERATIONS", int(hp.Iterations)))
	hp.Parallelism = uint8(min(getInt("HASH_PARALLELISM", int(hp.Parallelism)), 255))
	if err := hp.Validate(); err != nil {
		return Config{}, err
	}
	cfg.HashParams = hp

	if cfg.Env == "production" {
		if cfg.JWTSecret == devJWTSecret {
			return Config{}, ErrDevSecretInProduction
		}
		if cfg.RandomSource == "pseudo" {
			return Config{}, ErrPseudoRandomInProduction
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		slog.Warn("invalid number in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return f
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}

func getLevel(key string, fallback slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		slog.Warn("invalid log level in environment, using default", "key", key, "value", v)
		return fallback
	}
	return level
}

// String renders the non-secret settings for startup logs.
func (c Config) String() string {
	return fmt.Sprintf("env=%s port=%s random_source=%s max_upload_bytes=%d", c.Env, c.Port, c.RandomSource, c.MaxUploadBytes)
}
