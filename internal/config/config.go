package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds process configuration. Precedence: defaults, then an optional
// YAML file, then DOORLOG_* environment variables.
type Config struct {
	HTTPAddr string `yaml:"http_addr"`

	// MetricsPath is the shard directory root; shards live at
	// <MetricsPath>/<year>/<year-month>.db.
	MetricsPath string `yaml:"metrics_path"`

	// Store selects the event store backend: "sqlite" | "memory".
	Store string `yaml:"store"`

	// UnlockSeconds is how long a granted badge scan holds the door
	// unlocked; the door-left-open threshold derives from it.
	UnlockSeconds int `yaml:"unlock_seconds"`

	IngestBatchSize int `yaml:"ingest_batch_size"`

	// LatencyQueueMax caps each badge's pending-scan queue in the
	// scan-to-open latency pairing.
	LatencyQueueMax int `yaml:"latency_queue_max"`
}

func Default() Config {
	return Config{
		HTTPAddr:        ":8080",
		MetricsPath:     "logs/metrics",
		Store:           "sqlite",
		UnlockSeconds:   5,
		IngestBatchSize: 500,
		LatencyQueueMax: 64,
	}
}

// FromEnv returns the defaults overlaid with environment variables.
func FromEnv() Config {
	cfg := Default()
	applyEnv(&cfg)
	cfg.normalize()
	return cfg
}

// Load reads the YAML file at path (skipped when path is empty), then
// overlays environment variables. A missing or unreadable file is an error;
// bad individual values fail soft back to defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)
	cfg.normalize()
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.HTTPAddr = getenvDefault("DOORLOG_HTTP_ADDR", cfg.HTTPAddr)
	cfg.MetricsPath = getenvDefault("DOORLOG_METRICS_PATH", cfg.MetricsPath)
	cfg.Store = getenvDefault("DOORLOG_STORE", cfg.Store)
	cfg.UnlockSeconds = getenvInt("DOORLOG_UNLOCK_SECONDS", cfg.UnlockSeconds)
	cfg.IngestBatchSize = getenvInt("DOORLOG_INGEST_BATCH_SIZE", cfg.IngestBatchSize)
	cfg.LatencyQueueMax = getenvInt("DOORLOG_LATENCY_QUEUE_MAX", cfg.LatencyQueueMax)
}

// normalize clamps bad values back to sane ones rather than failing: query
// and ingestion paths should degrade gracefully on odd configuration.
func (c *Config) normalize() {
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	if c.Store != "sqlite" && c.Store != "memory" {
		c.Store = "sqlite"
	}
	if c.UnlockSeconds < 0 {
		c.UnlockSeconds = Default().UnlockSeconds
	}
	if c.IngestBatchSize < 1 {
		c.IngestBatchSize = Default().IngestBatchSize
	}
	if c.LatencyQueueMax < 1 {
		c.LatencyQueueMax = Default().LatencyQueueMax
	}
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
