// Package config loads and validates sweep configuration from YAML files
// with environment-variable overrides. It provides typed structs for every
// subsystem (Sweep, Corpora, Report, Database, Kafka, Redis, etc.).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/errors"
)

// Supported corpus formats.
var corpusFormats = map[string]struct{}{
	"cacm": {}, "cran": {}, "med": {}, "npl": {}, "time": {},
}

// Config is the top-level application configuration.
type Config struct {
	Sweep    SweepConfig    `yaml:"sweep"`
	Corpora  []CorpusConfig `yaml:"corpora"`
	Report   ReportConfig   `yaml:"report"`
	Database DatabaseConfig `yaml:"database"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Redis    RedisConfig    `yaml:"redis"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// SweepConfig controls the weighting-scheme sweep.
type SweepConfig struct {
	Workers int `yaml:"workers"`
	// TrueAugmentedTF switches tf method "a" from the historical identity
	// transform to 0.5 + 0.5*count/max_count.
	TrueAugmentedTF bool   `yaml:"trueAugmentedTF"`
	Stemming        []bool `yaml:"stemming"`
}

// CorpusConfig names a benchmark collection and where its files live.
// Relative file paths are resolved against DataDir.
type CorpusConfig struct {
	Name      string `yaml:"name"`
	Format    string `yaml:"format"`
	DataDir   string `yaml:"dataDir"`
	Documents string `yaml:"documents"`
	Queries   string `yaml:"queries"`
	Judgments string `yaml:"judgments"`
	Stopwords string `yaml:"stopwords"`
}

// Path resolves a corpus file against DataDir. An empty name stays empty.
func (c CorpusConfig) Path(name string) string {
	if name == "" || filepath.IsAbs(name) || c.DataDir == "" {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// ReportConfig controls how ranked results are written.
type ReportConfig struct {
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	Top    int    `yaml:"top"`
}

// DatabaseConfig holds SQL result-store parameters. Driver is "postgres" or
// "sqlite"; Path is only used by sqlite.
type DatabaseConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Driver          string        `yaml:"driver"`
	Path            string        `yaml:"path"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Database        string        `yaml:"database"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslMode"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// DSN returns a data source name for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.Path
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// KafkaConfig holds Kafka broker and topic settings for result publishing.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// RedisConfig holds Redis connection and score-cache parameters.
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	PoolSize int           `yaml:"poolSize"`
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided), applies environment-variable
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the sweep cannot run with.
func (c *Config) Validate() error {
	if c.Sweep.Workers <= 0 {
		return apperrors.Newf(apperrors.ErrInvalidConfig, "sweep.workers must be positive, got %d", c.Sweep.Workers)
	}
	if len(c.Sweep.Stemming) == 0 {
		return apperrors.New(apperrors.ErrInvalidConfig, "sweep.stemming must list at least one setting")
	}
	seen := make(map[string]struct{}, len(c.Corpora))
	for i, corpus := range c.Corpora {
		if corpus.Name == "" {
			return apperrors.Newf(apperrors.ErrInvalidConfig, "corpora[%d]: name is required", i)
		}
		if _, dup := seen[corpus.Name]; dup {
			return apperrors.Newf(apperrors.ErrInvalidConfig, "corpora[%d]: duplicate name %q", i, corpus.Name)
		}
		seen[corpus.Name] = struct{}{}
		if _, ok := corpusFormats[corpus.Format]; !ok {
			return apperrors.Newf(apperrors.ErrInvalidConfig, "corpus %s: unknown format %q", corpus.Name, corpus.Format)
		}
		if corpus.Documents == "" || corpus.Queries == "" || corpus.Judgments == "" {
			return apperrors.Newf(apperrors.ErrInvalidConfig, "corpus %s: documents, queries and judgments are required", corpus.Name)
		}
	}
	switch c.Report.Format {
	case "text", "json":
	default:
		return apperrors.Newf(apperrors.ErrInvalidConfig, "report.format must be text or json, got %q", c.Report.Format)
	}
	if c.Database.Enabled {
		switch c.Database.Driver {
		case "postgres", "sqlite":
		default:
			return apperrors.Newf(apperrors.ErrInvalidConfig, "database.driver must be postgres or sqlite, got %q", c.Database.Driver)
		}
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		return apperrors.New(apperrors.ErrInvalidConfig, "kafka requires brokers and topic when enabled")
	}
	return nil
}

// FilterCorpora keeps only the named corpora, preserving configured order.
// An empty names list keeps everything.
func (c *Config) FilterCorpora(names []string) error {
	if len(names) == 0 {
		return nil
	}
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[strings.TrimSpace(n)] = struct{}{}
	}
	kept := make([]CorpusConfig, 0, len(names))
	for _, corpus := range c.Corpora {
		if _, ok := wanted[corpus.Name]; ok {
			kept = append(kept, corpus)
			delete(wanted, corpus.Name)
		}
	}
	for n := range wanted {
		return apperrors.Newf(apperrors.ErrInvalidConfig, "unknown corpus %q", n)
	}
	c.Corpora = kept
	return nil
}

// defaultConfig returns a Config mirroring the historical per-corpus
// drivers: five collections under ./data, both stemming settings.
func defaultConfig() *Config {
	return &Config{
		Sweep: SweepConfig{
			Workers:  runtime.NumCPU(),
			Stemming: []bool{false, true},
		},
		Corpora: []CorpusConfig{
			{Name: "cacm", Format: "cacm", DataDir: "data/cacm", Documents: "cacm.all", Queries: "query.text", Judgments: "qrels.text", Stopwords: "common_words"},
			{Name: "cran", Format: "cran", DataDir: "data/cran", Documents: "cran.all.1400", Queries: "cran.qry", Judgments: "cranqrel"},
			{Name: "med", Format: "med", DataDir: "data/med", Documents: "MED.ALL", Queries: "MED.QRY", Judgments: "MED.REL"},
			{Name: "npl", Format: "npl", DataDir: "data/npl", Documents: "doc-text", Queries: "query-text", Judgments: "rlv-ass"},
			{Name: "time", Format: "time", DataDir: "data/time", Documents: "TIME.ALL", Queries: "TIME.QUE", Judgments: "TIME.REL", Stopwords: "TIME.STP"},
		},
		Report: ReportConfig{
			Format: "text",
		},
		Database: DatabaseConfig{
			Driver:          "sqlite",
			Path:            "results.db",
			Host:            "localhost",
			Port:            5432,
			Database:        "smarteval",
			User:            "smarteval",
			Password:        "localdev",
			SSLMode:         "disable",
			MaxOpenConns:    4,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topic:   "weighting-results",
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			PoolSize: 10,
			CacheTTL: 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
		},
	}
}

// applyEnvOverrides reads SE_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SE_SWEEP_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Sweep.Workers = n
		}
	}
	if v := os.Getenv("SE_SWEEP_TRUE_AUGMENTED_TF"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Sweep.TrueAugmentedTF = b
		}
	}
	if v := os.Getenv("SE_DATA_ROOT"); v != "" {
		for i := range cfg.Corpora {
			cfg.Corpora[i].DataDir = filepath.Join(v, cfg.Corpora[i].Name)
		}
	}
	if v := os.Getenv("SE_REPORT_FORMAT"); v != "" {
		cfg.Report.Format = v
	}
	if v := os.Getenv("SE_REPORT_OUTPUT"); v != "" {
		cfg.Report.Output = v
	}
	if v := os.Getenv("SE_DATABASE_DRIVER"); v != "" {
		cfg.Database.Enabled = true
		cfg.Database.Driver = v
	}
	if v := os.Getenv("SE_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("SE_DATABASE_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("SE_DATABASE_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("SE_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Enabled = true
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("SE_REDIS_ADDR"); v != "" {
		cfg.Redis.Enabled = true
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("SE_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("SE_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SE_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("SE_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Enabled = true
			cfg.Metrics.Port = port
		}
	}
}
