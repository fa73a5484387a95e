package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type TrainingConfig struct {
	DefaultClusters int   `json:"default_clusters"`
	MaxClusters     int   `json:"max_clusters"`
	MaxIterations   int   `json:"max_iterations"`
	Seed            int64 `json:"seed"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `json:"requests_per_second"`
	Burst             int     `json:"burst"`
}

type Config struct {
	DataDir         string          `json:"data_dir"`
	DBPath          string          `json:"db_path"`
	Host            string          `json:"host"`
	Port            int             `json:"port"`
	LogLevel        string          `json:"log_level"`
	MaxRequestBytes int64           `json:"max_request_bytes"`
	Training        TrainingConfig  `json:"training"`
	RateLimit       RateLimitConfig `json:"rate_limit"`
}

func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	dataDir := filepath.Join(home, ".kmeans-daemon")
	return Config{
		DataDir:         dataDir,
		DBPath:          filepath.Join(dataDir, "datasets.db"),
		Host:            "127.0.0.1",
		Port:            8743,
		LogLevel:        "info",
		MaxRequestBytes: 8 << 20,
		Training: TrainingConfig{
			DefaultClusters: 2,
			MaxClusters:     1024,
			MaxIterations:   1000,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 20,
			Burst:             40,
		},
	}
}

func LoadConfig() Config {
	cfg := DefaultConfig()

	if dataDir := os.Getenv("KM_DATA_DIR"); dataDir != "" {
		cfg.DataDir = dataDir
		cfg.DBPath = filepath.Join(dataDir, "datasets.db")
	}
	if host := os.Getenv("KM_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("KM_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if level := os.Getenv("KM_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if k := os.Getenv("KM_DEFAULT_CLUSTERS"); k != "" {
		if n, err := strconv.Atoi(k); err == nil && n > 0 {
			cfg.Training.DefaultClusters = n
		}
	}
	if k := os.Getenv("KM_MAX_CLUSTERS"); k != "" {
		if n, err := strconv.Atoi(k); err == nil && n > 0 {
			cfg.Training.MaxClusters = n
		}
	}
	if iters := os.Getenv("KM_MAX_ITERATIONS"); iters != "" {
		if n, err := strconv.Atoi(iters); err == nil && n > 0 {
			cfg.Training.MaxIterations = n
		}
	}
	if size := os.Getenv("KM_MAX_REQUEST_BYTES"); size != "" {
		if n, err := strconv.ParseInt(size, 10, 64); err == nil && n > 0 {
			cfg.MaxRequestBytes = n
		}
	}
	if seed := os.Getenv("KM_SEED"); seed != "" {
		if n, err := strconv.ParseInt(seed, 10, 64); err == nil {
			cfg.Training.Seed = n
		}
	}
	if rps := os.Getenv("KM_RATE_LIMIT"); rps != "" {
		if f, err := strconv.ParseFloat(rps, 64); err == nil && f > 0 {
			cfg.RateLimit.RequestsPerSecond = f
		}
	}
	if burst := os.Getenv("KM_RATE_BURST"); burst != "" {
		if n, err := strconv.Atoi(burst); err == nil && n > 0 {
			cfg.RateLimit.Burst = n
		}
	}

	return cfg
}

// EnsureDirs creates the data directory if it does not exist yet.
func (c *Config) EnsureDirs() error {
	return os.MkdirAll(c.DataDir, 0o755)
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to Info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
