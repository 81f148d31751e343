package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/vecdist"
	"github.com/hupe1980/vecdist/distance"
	"github.com/hupe1980/vecdist/resource"
)

// Config is the CLI configuration. Values are layered: built-in defaults,
// then the YAML file, then VECDIST_* environment variables, then flags.
type Config struct {
	Store       StoreConfig    `yaml:"store"`
	Log         LogConfig      `yaml:"log"`
	Metrics     MetricsConfig  `yaml:"metrics"`
	Resources   ResourceConfig `yaml:"resources"`
	Tier        string         `yaml:"tier"`
	Metric      string         `yaml:"metric"`
	Concurrency int            `yaml:"concurrency"`
	MaxBytes    int64          `yaml:"max_bytes"`
}

// StoreConfig selects the blob store vector sets are read from.
//
// URL forms:
//
//	./data, file:///data          local directory
//	s3://bucket/prefix            Amazon S3 (or compatible, see Endpoint)
//	minio://host:port/bucket/pfx  MinIO
type StoreConfig struct {
	URL       string `yaml:"url"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Secure    bool   `yaml:"secure"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// ResourceConfig bounds what loads may consume. Zero values mean unlimited.
type ResourceConfig struct {
	MemoryLimitBytes   int64 `yaml:"memory_limit_bytes"`
	MaxConcurrentLoads int64 `yaml:"max_concurrent_loads"`
	IOLimitBytesPerSec int64 `yaml:"io_limit_bytes_per_sec"`
}

func (r ResourceConfig) enabled() bool {
	return r.MemoryLimitBytes > 0 || r.MaxConcurrentLoads > 0 || r.IOLimitBytesPerSec > 0
}

// controller returns nil when no limit is configured.
func (r ResourceConfig) controller() *resource.Controller {
	if !r.enabled() {
		return nil
	}
	return resource.NewController(resource.Config{
		MemoryLimitBytes:   r.MemoryLimitBytes,
		MaxConcurrentLoads: r.MaxConcurrentLoads,
		IOLimitBytesPerSec: r.IOLimitBytesPerSec,
	})
}

func defaultConfig() *Config {
	return &Config{
		Store:  StoreConfig{URL: "."},
		Log:    LogConfig{Level: "info", Format: "text"},
		Metric: "l2",
	}
}

// loadConfig reads path on top of the defaults. A missing file is only an
// error when required is set.
func loadConfig(path string, required bool) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// applyEnv overrides cfg with VECDIST_* variables looked up by getenv.
func applyEnv(cfg *Config, getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	str("VECDIST_STORE", &cfg.Store.URL)
	str("VECDIST_S3_REGION", &cfg.Store.Region)
	str("VECDIST_S3_ENDPOINT", &cfg.Store.Endpoint)
	str("VECDIST_ACCESS_KEY", &cfg.Store.AccessKey)
	str("VECDIST_SECRET_KEY", &cfg.Store.SecretKey)
	str("VECDIST_LOG_LEVEL", &cfg.Log.Level)
	str("VECDIST_LOG_FORMAT", &cfg.Log.Format)
	str("VECDIST_METRICS_ADDR", &cfg.Metrics.Addr)
	str("VECDIST_TIER", &cfg.Tier)
	str("VECDIST_METRIC", &cfg.Metric)

	if v := getenv("VECDIST_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("VECDIST_SECURE: %w", err)
		}
		cfg.Store.Secure = b
	}
	if v := getenv("VECDIST_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("VECDIST_CONCURRENCY: %w", err)
		}
		cfg.Concurrency = n
	}

	for key, dst := range map[string]*int64{
		"VECDIST_MAX_BYTES":            &cfg.MaxBytes,
		"VECDIST_MEMORY_LIMIT":         &cfg.Resources.MemoryLimitBytes,
		"VECDIST_MAX_CONCURRENT_LOADS": &cfg.Resources.MaxConcurrentLoads,
		"VECDIST_IO_LIMIT":             &cfg.Resources.IOLimitBytesPerSec,
	} {
		v := getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}
	return nil
}

func (c LogConfig) logger() (*vecdist.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	switch strings.ToLower(c.Format) {
	case "", "text":
		return vecdist.NewTextLogger(level), nil
	case "json":
		return vecdist.NewJSONLogger(level), nil
	case "none", "off":
		return vecdist.NoopLogger(), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", c.Format)
	}
}

// collectionOptions translates the configuration into facade options.
func (c *Config) collectionOptions() ([]vecdist.Option, error) {
	m, err := distance.ParseMetric(c.Metric)
	if err != nil {
		return nil, err
	}

	opts := []vecdist.Option{
		vecdist.WithMetric(m),
		vecdist.WithConcurrency(c.Concurrency),
		vecdist.WithMaxBytes(c.MaxBytes),
	}

	if c.Tier != "" {
		t, err := distance.ParseTier(c.Tier)
		if err != nil {
			return nil, err
		}
		opts = append(opts, vecdist.WithTier(t))
	}
	return opts, nil
}
