package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable name
const Prefix = "ORDERDESK"

// DefaultDBPath is the database location used when DB_PATH is unset
const DefaultDBPath = "~/.orderdesk/orderdesk.db"

// Config holds process settings read from ORDERDESK_* variables
type Config struct {
	DBPath            string   `envconfig:"DB_PATH" default:"~/.orderdesk/orderdesk.db"`
	OrderNumberPrefix string   `envconfig:"ORDER_NUMBER_PREFIX" default:""`
	LogLevel          string   `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat         string   `envconfig:"LOG_FORMAT" default:"json"`
	MetricsAddr       string   `envconfig:"METRICS_ADDR" default:""`
	KafkaBrokers      []string `envconfig:"KAFKA_BROKERS"`
}

// Load reads an optional .env file from envFile (skipped when empty or
// missing), then processes the environment. Variables already set in the
// environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	path, err := expandHome(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	cfg.DBPath = path
	cfg.KafkaBrokers = compact(cfg.KafkaBrokers)
	return &cfg, nil
}

// EnsureDBDir creates the directory holding DBPath. In-memory paths are left
// alone.
func (c *Config) EnsureDBDir() error {
	if c.DBPath == ":memory:" || strings.HasPrefix(c.DBPath, "file:") {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.DBPath), 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func compact(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
