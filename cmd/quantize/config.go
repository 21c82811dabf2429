package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/quantize"
	"github.com/hupe1980/quantize/blobstore"
	"github.com/hupe1980/quantize/blobstore/minio"
	"github.com/hupe1980/quantize/indexed"
	"github.com/hupe1980/quantize/resource"
)

// Config mirrors the quantize.yaml file. Flags override file values.
type Config struct {
	Input   string `yaml:"input"`
	Output  string `yaml:"output"`
	Indexed string `yaml:"indexed"`
	Report  string `yaml:"report"`

	K     int   `yaml:"k"`
	Sweep []int `yaml:"sweep"`

	Tolerance     float64 `yaml:"tolerance"`
	MaxIterations int     `yaml:"max_iterations"`
	Seed          uint64  `yaml:"seed"`
	EmptyPolicy   string  `yaml:"empty_policy"`
	Workers       int     `yaml:"workers"`
	CostHistory   bool    `yaml:"cost_history"`

	Compression string `yaml:"compression"`
	Codec       string `yaml:"codec"`

	MetricsAddr string `yaml:"metrics_addr"`

	Log       LogConfig      `yaml:"log"`
	Resources ResourceConfig `yaml:"resources"`
	Retry     RetryConfig    `yaml:"retry"`
	S3        S3Config       `yaml:"s3"`
	MinIO     minio.Config   `yaml:"minio"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ResourceConfig maps onto resource.Config.
type ResourceConfig struct {
	MemoryLimitBytes   int64 `yaml:"memory_limit_bytes"`
	MaxConcurrentRuns  int64 `yaml:"max_concurrent_runs"`
	IOLimitBytesPerSec int64 `yaml:"io_limit_bytes_per_sec"`
}

// RetryConfig tunes retries for remote stores.
type RetryConfig struct {
	MaxRetries      uint64        `yaml:"max_retries"`
	InitialInterval time.Duration `yaml:"initial_interval"`
	MaxElapsedTime  time.Duration `yaml:"max_elapsed_time"`
}

// S3Config holds settings for s3:// URIs. Credentials come from the
// standard AWS chain.
type S3Config struct {
	Region string `yaml:"region"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		K:             8,
		Tolerance:     quantize.DefaultTolerance,
		MaxIterations: quantize.DefaultMaxIterations,
		Seed:          quantize.DefaultSeed,
		EmptyPolicy:   quantize.FreezeAll.String(),
		Compression:   indexed.CompressionZSTD.String(),
		Codec:         "json",
		Log:           LogConfig{Level: "info", Format: "text"},
		Resources:     ResourceConfig{MaxConcurrentRuns: 1},
	}
}

// LoadConfig reads a YAML file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// parseConfig loads -config (if any) and applies the flags that were set.
func parseConfig(args []string, stderr io.Writer) (Config, error) {
	fs := flag.NewFlagSet("quantize", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath  = fs.String("config", "", "YAML config file")
		in          = fs.String("in", "", "input image URI (path, file://, s3://bucket/key, minio://bucket/key)")
		out         = fs.String("out", "", "output image URI")
		indexedOut  = fs.String("indexed", "", "optional palette+labels output URI")
		report      = fs.String("report", "", "JSON report URI (default stdout)")
		k           = fs.Int("k", 0, "number of colors")
		sweep       = fs.String("sweep", "", "comma separated k values to evaluate instead of quantizing")
		tol         = fs.Float64("tolerance", 0, "convergence tolerance")
		maxIter     = fs.Int("max-iterations", 0, "iteration cap")
		seed        = fs.Uint64("seed", 0, "seed for initial centers")
		policy      = fs.String("empty-policy", "", "empty cluster policy (freeze-all, keep-empty)")
		workers     = fs.Int("workers", 0, "assignment goroutines")
		compression = fs.String("compression", "", "indexed label compression (none, lz4, zstd)")
		metricsAddr = fs.String("metrics-addr", "", "serve Prometheus metrics on this address")
		logLevel    = fs.String("log-level", "", "log level (debug, info, warn, error)")
	)

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = LoadConfig(*configPath); err != nil {
			return Config{}, err
		}
	}

	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "in":
			cfg.Input = *in
		case "out":
			cfg.Output = *out
		case "indexed":
			cfg.Indexed = *indexedOut
		case "report":
			cfg.Report = *report
		case "k":
			cfg.K = *k
		case "sweep":
			ks, err := parseKs(*sweep)
			if err != nil {
				flagErr = err
				return
			}
			cfg.Sweep = ks
		case "tolerance":
			cfg.Tolerance = *tol
		case "max-iterations":
			cfg.MaxIterations = *maxIter
		case "seed":
			cfg.Seed = *seed
		case "empty-policy":
			cfg.EmptyPolicy = *policy
		case "workers":
			cfg.Workers = *workers
		case "compression":
			cfg.Compression = *compression
		case "metrics-addr":
			cfg.MetricsAddr = *metricsAddr
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})
	if flagErr != nil {
		return Config{}, flagErr
	}

	return cfg, cfg.Validate()
}

func parseKs(s string) ([]int, error) {
	var ks []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid sweep value %q: %w", part, err)
		}
		ks = append(ks, k)
	}
	return ks, nil
}

// Validate checks the settings the CLI itself interprets. Clustering
// parameters are validated by the quantizer.
func (c Config) Validate() error {
	if c.Input == "" {
		return errors.New("input is required")
	}
	if len(c.Sweep) == 0 && c.Output == "" {
		return errors.New("output is required unless sweeping")
	}
	if _, err := c.emptyPolicy(); err != nil {
		return err
	}
	if _, err := indexed.ParseCompression(c.Compression); err != nil {
		return err
	}
	if _, err := c.logLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

func (c Config) emptyPolicy() (quantize.EmptyClusterPolicy, error) {
	switch c.EmptyPolicy {
	case "", quantize.FreezeAll.String():
		return quantize.FreezeAll, nil
	case quantize.KeepEmpty.String():
		return quantize.KeepEmpty, nil
	default:
		return 0, fmt.Errorf("unknown empty cluster policy %q", c.EmptyPolicy)
	}
}

func (c Config) logLevel() (slog.Level, error) {
	var level slog.Level
	if c.Log.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	return level, nil
}

func (c Config) logger(w io.Writer) *quantize.Logger {
	level, _ := c.logLevel()
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return quantize.NewLogger(slog.NewJSONHandler(w, opts))
	}
	return quantize.NewLogger(slog.NewTextHandler(w, opts))
}

func (c Config) resourceConfig() resource.Config {
	return resource.Config{
		MemoryLimitBytes:   c.Resources.MemoryLimitBytes,
		MaxConcurrentRuns:  c.Resources.MaxConcurrentRuns,
		IOLimitBytesPerSec: c.Resources.IOLimitBytesPerSec,
	}
}

func (c Config) retryConfig() blobstore.RetryConfig {
	rc := blobstore.DefaultRetryConfig()
	if c.Retry.MaxRetries > 0 {
		rc.MaxRetries = c.Retry.MaxRetries
	}
	if c.Retry.InitialInterval > 0 {
		rc.InitialInterval = c.Retry.InitialInterval
	}
	if c.Retry.MaxElapsedTime > 0 {
		rc.MaxElapsedTime = c.Retry.MaxElapsedTime
	}
	return rc
}

// options translates the clustering settings into quantizer options.
func (c Config) options() []quantize.Option {
	policy, _ := c.emptyPolicy()
	opts := []quantize.Option{
		quantize.WithTolerance(c.Tolerance),
		quantize.WithMaxIterations(c.MaxIterations),
		quantize.WithSeed(c.Seed),
		quantize.WithEmptyClusterPolicy(policy),
		quantize.WithWorkers(c.Workers),
	}
	if c.CostHistory {
		opts = append(opts, quantize.WithCostHistory())
	}
	return opts
}
