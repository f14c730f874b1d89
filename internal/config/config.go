package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config 应用配置
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string

	LogLevel  string
	LogFormat string

	// Per-client token bucket settings
	RateLimitRPS     float64
	RateLimitBurst   int
	RateLimitClients int // size of the limiter table

	// ClusterProfile is an optional YAML file overriding the default
	// clustering weights, thresholds and labels
	ClusterProfile string
	// ClusterSeed fixes the k-means random source; 0 seeds from the clock
	ClusterSeed int64

	ShutdownTimeout time.Duration
}

// Load 加载配置
func Load() (*Config, error) {
	rps, err := parseFloat("RATE_LIMIT_RPS", 5)
	if err != nil {
		return nil, err
	}
	burst, err := parseInt("RATE_LIMIT_BURST", 10)
	if err != nil {
		return nil, err
	}
	clients, err := parseInt("RATE_LIMIT_CLIENTS", 1024)
	if err != nil {
		return nil, err
	}
	seed, err := strconv.ParseInt(envOrDefault("CLUSTER_SEED", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid CLUSTER_SEED: %w", err)
	}
	shutdown, err := time.ParseDuration(envOrDefault("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil || shutdown <= 0 {
		return nil, errors.New("invalid SHUTDOWN_TIMEOUT")
	}

	cfg := &Config{
		Port:             envOrDefault("PORT", ":8080"),
		DBPath:           envOrDefault("DB_PATH", "./data/dtp/dtp.db"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		LogFormat:        envOrDefault("LOG_FORMAT", "json"),
		RateLimitRPS:     rps,
		RateLimitBurst:   burst,
		RateLimitClients: clients,
		ClusterProfile:   os.Getenv("CLUSTER_PROFILE"),
		ClusterSeed:      seed,
		ShutdownTimeout:  shutdown,
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, errors.New("JWT_SECRET must be at least 32 bytes")
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 || cfg.RateLimitClients <= 0 {
		return nil, errors.New("rate limit settings must be positive")
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q", cfg.LogFormat)
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
