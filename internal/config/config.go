// Package config loads and validates crawler configuration via Viper.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes every environment override, e.g. LEGISLATION_REQUEST_TIMEOUT=10s.
const EnvPrefix = "LEGISLATION"

// DefaultUserAgent mimics a desktop browser; the site serves the same HTML to it.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Scraper ScraperConfig `mapstructure:"scraper"`
	Request RequestConfig `mapstructure:"request"`
	Proxy   ProxyConfig   `mapstructure:"proxy"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Mirror  MirrorConfig  `mapstructure:"mirror"`
}

// ScraperConfig governs what is crawled and where snapshots land.
type ScraperConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	ListingPath   string `mapstructure:"listing_path"`
	OutputDir     string `mapstructure:"output_dir"`
	ForceRescrape bool   `mapstructure:"force_rescrape"`
	MaxPages      int    `mapstructure:"max_pages"`
	MergeExisting bool   `mapstructure:"merge_existing"`
}

// RequestConfig configures HTTP timeouts, retries and politeness.
type RequestConfig struct {
	Timeout              time.Duration `mapstructure:"timeout"`
	RetryAttempts        int           `mapstructure:"retry_attempts"`
	RetryBackoff         time.Duration `mapstructure:"retry_backoff"`
	DelayBetweenRequests time.Duration `mapstructure:"delay_between_requests"`
	UserAgent            string        `mapstructure:"user_agent"`
}

// ProxyConfig lists forward proxies used round-robin.
type ProxyConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Rotation bool          `mapstructure:"rotation"`
	Timeout  time.Duration `mapstructure:"timeout"`
	URLs     []string      `mapstructure:"urls"`
}

// LoggingConfig toggles zap output.
type LoggingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// MetricsConfig sets where the end-of-run textfile is written. Empty disables it.
type MetricsConfig struct {
	TextfilePath string `mapstructure:"textfile_path"`
}

// MirrorConfig holds the optional post-persist mirrors.
type MirrorConfig struct {
	GCS      GCSConfig      `mapstructure:"gcs"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	PubSub   PubSubConfig   `mapstructure:"pubsub"`
}

// GCSConfig names the bucket receiving snapshot copies.
type GCSConfig struct {
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
}

// PostgresConfig controls the record mirror table.
type PostgresConfig struct {
	DSN   string `mapstructure:"dsn"`
	Table string `mapstructure:"table"`
}

// PubSubConfig holds metadata for run notifications.
type PubSubConfig struct {
	ProjectID string `mapstructure:"project_id"`
	TopicID   string `mapstructure:"topic_id"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return LoadViper(v, path)
}

// LoadViper applies defaults to v, reads path when given, and decodes the
// result. Flags bound to v by the caller take precedence over the file.
func LoadViper(v *viper.Viper, path string) (Config, error) {
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("scraper.base_url", "https://www.chambredesrepresentants.ma")
	v.SetDefault("scraper.listing_path", "/fr/legislation/projets-de-loi")
	v.SetDefault("scraper.output_dir", "data")
	v.SetDefault("scraper.force_rescrape", false)
	v.SetDefault("scraper.max_pages", 0)
	v.SetDefault("scraper.merge_existing", false)
	v.SetDefault("request.timeout", 30*time.Second)
	v.SetDefault("request.retry_attempts", 3)
	v.SetDefault("request.retry_backoff", 2*time.Second)
	v.SetDefault("request.delay_between_requests", 2*time.Second)
	v.SetDefault("request.user_agent", DefaultUserAgent)
	v.SetDefault("proxy.enabled", false)
	v.SetDefault("proxy.rotation", true)
	v.SetDefault("proxy.timeout", 10*time.Second)
	v.SetDefault("proxy.urls", []string{})
	v.SetDefault("logging.enabled", true)
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("metrics.textfile_path", "")
	v.SetDefault("mirror.gcs.bucket", "")
	v.SetDefault("mirror.gcs.prefix", "snapshots")
	v.SetDefault("mirror.postgres.dsn", "")
	v.SetDefault("mirror.postgres.table", "legislation_records")
	v.SetDefault("mirror.pubsub.project_id", "")
	v.SetDefault("mirror.pubsub.topic_id", "")
}

// Validate performs sanity checks on config values.
func (c Config) Validate() error {
	base, err := url.Parse(c.Scraper.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return fmt.Errorf("scraper.base_url must be an absolute URL, got %q", c.Scraper.BaseURL)
	}
	if c.Scraper.OutputDir == "" {
		return errors.New("scraper.output_dir is required")
	}
	if c.Scraper.MaxPages < 0 {
		return errors.New("scraper.max_pages must be >= 0")
	}
	if c.Request.Timeout <= 0 {
		return errors.New("request.timeout must be > 0")
	}
	if c.Request.RetryAttempts < 0 {
		return errors.New("request.retry_attempts must be >= 0")
	}
	if c.Request.RetryBackoff < 0 || c.Request.DelayBetweenRequests < 0 {
		return errors.New("request delays must be >= 0")
	}
	if c.Proxy.Enabled && len(c.Proxy.URLs) == 0 {
		return errors.New("proxy.urls must be set when proxy.enabled is true")
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Mirror.PubSub.TopicID != "" && c.Mirror.PubSub.ProjectID == "" {
		return errors.New("mirror.pubsub.project_id is required when a topic is set")
	}
	return nil
}

// BaseURL returns the parsed site root.
func (c Config) BaseURL() *url.URL {
	u, err := url.Parse(c.Scraper.BaseURL)
	if err != nil {
		return &url.URL{}
	}
	return u
}

// ListingURL returns the absolute listing endpoint.
func (c Config) ListingURL() string {
	return c.BaseURL().ResolveReference(&url.URL{Path: c.Scraper.ListingPath}).String()
}
