package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	jterrors "careerwatch/jobtracker/pkg/errors"
)

// AdapterSite selects the selector-configured site adapter, AdapterGeneric
// the heuristic one. An empty adapter falls back to generic unless the
// company carries its own selectors.
const (
	AdapterSite    = "site"
	AdapterGeneric = "generic"
)

// Selectors holds the CSS selectors a site adapter uses to locate postings
type Selectors struct {
	List        string `yaml:"list"`
	Title       string `yaml:"title"`
	Link        string `yaml:"link"`
	Location    string `yaml:"location"`
	ClassFilter string `yaml:"class_filter"`
}

// Company represents one configured career page. Companies are read-only
// inputs; the run never mutates them.
type Company struct {
	Name      string    `yaml:"name"`
	URL       string    `yaml:"url"`
	Notes     string    `yaml:"notes"`
	Adapter   string    `yaml:"adapter"`
	Selectors Selectors `yaml:"selectors"`
}

// ScrapingConfig controls the fetcher and pacing between companies
type ScrapingConfig struct {
	TimeoutSeconds      int `yaml:"timeout"`
	RetryAttempts       int `yaml:"retry_attempts"`
	RetryDelaySeconds   int `yaml:"retry_delay"`
	RequestDelaySeconds int `yaml:"request_delay"`
}

// Timeout returns the per-request timeout
func (s ScrapingConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// RetryDelay returns the base delay before the first retry
func (s ScrapingConfig) RetryDelay() time.Duration {
	return time.Duration(s.RetryDelaySeconds) * time.Second
}

// RequestDelay returns the pause between two companies
func (s ScrapingConfig) RequestDelay() time.Duration {
	return time.Duration(s.RequestDelaySeconds) * time.Second
}

// NotificationsConfig controls the notifier
type NotificationsConfig struct {
	Enabled                bool `yaml:"enabled"`
	SendSummary            bool `yaml:"send_summary"`
	MaxJobsPerNotification int  `yaml:"max_jobs_per_notification"`
}

// StoreConfig locates the persisted seen-set state
type StoreConfig struct {
	Dir string `yaml:"dir"`
}

// CacheConfig configures the optional cross-run block cache
type CacheConfig struct {
	MemcacheAddr string `yaml:"memcache_addr"`
}

// PublisherConfig configures the optional Redis stream sink
type PublisherConfig struct {
	RedisAddr       string `yaml:"redis_addr"`
	RedisDB         int    `yaml:"redis_db"`
	Stream          string `yaml:"stream"`
	StreamMaxLength int    `yaml:"stream_max_length"`
}

// Config represents the application configuration
type Config struct {
	SearchKeywords []string            `yaml:"search_keywords"`
	Companies      []Company           `yaml:"companies"`
	Scraping       ScrapingConfig      `yaml:"scraping"`
	Notifications  NotificationsConfig `yaml:"notifications"`
	Store          StoreConfig         `yaml:"store"`
	Cache          CacheConfig         `yaml:"cache"`
	Publisher      PublisherConfig     `yaml:"publisher"`

	// Secrets and environment come from env vars, never from the file.
	TelegramBotToken string `yaml:"-"`
	TelegramChatID   int64  `yaml:"-"`
	Environment      string `yaml:"-"`
}

// Default returns the configuration used when a section is absent from the
// file. The keyword set matches the tracker's historical default search.
func Default() *Config {
	return &Config{
		SearchKeywords: []string{
			"Project Manager",
			"Programme Manager",
			"Program Manager",
			"Technical Project Manager",
			"Senior Project Manager",
			"Junior Project Manager",
		},
		Scraping: ScrapingConfig{
			TimeoutSeconds:      10,
			RetryAttempts:       3,
			RetryDelaySeconds:   2,
			RequestDelaySeconds: 2,
		},
		Notifications: NotificationsConfig{
			Enabled:                true,
			SendSummary:            true,
			MaxJobsPerNotification: 10,
		},
		Store: StoreConfig{
			Dir: "state",
		},
		Publisher: PublisherConfig{
			RedisDB:         0,
			Stream:          "jobpostings",
			StreamMaxLength: 500,
		},
	}
}

// Load reads the YAML configuration file, fills in defaults for missing
// sections and applies environment overrides. A missing or unparsable file
// is a configuration error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, jterrors.NewConfiguration(fmt.Sprintf("cannot read config file %s", path), err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, jterrors.NewConfiguration(fmt.Sprintf("cannot parse config file %s", path), err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays environment variables on top of the file values
func (c *Config) applyEnv() {
	c.Environment = getEnv("JOBTRACKER_ENVIRONMENT", "development")
	c.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
			c.TelegramChatID = id
		}
	}
	if addr := os.Getenv("MEMCACHE_ADDR"); addr != "" {
		c.Cache.MemcacheAddr = addr
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c.Publisher.RedisAddr = addr
	}
}

// Validate checks the configuration for fatal problems. Anything reported
// here aborts the run before the first company is processed.
func (c *Config) Validate() error {
	if len(c.SearchKeywords) == 0 {
		// The matcher treats an empty set as match-all, which would turn a
		// misconfigured file into notify-everything. Refuse it here instead.
		return jterrors.NewConfiguration("search_keywords must not be empty", nil)
	}
	if len(c.Companies) == 0 {
		return jterrors.NewConfiguration("no companies configured", nil)
	}
	for i, company := range c.Companies {
		if company.Name == "" {
			return jterrors.NewConfiguration(fmt.Sprintf("company %d has no name", i), nil)
		}
		if company.URL == "" {
			return jterrors.NewConfiguration(fmt.Sprintf("company %q has no URL", company.Name), nil)
		}
		switch company.Adapter {
		case "", AdapterSite, AdapterGeneric:
		default:
			return jterrors.NewConfiguration(
				fmt.Sprintf("company %q has unknown adapter %q", company.Name, company.Adapter), nil)
		}
		if company.Adapter == AdapterSite && company.Selectors.List == "" {
			return jterrors.NewConfiguration(
				fmt.Sprintf("company %q uses the site adapter but has no list selector", company.Name), nil)
		}
	}
	if c.Scraping.TimeoutSeconds <= 0 {
		return jterrors.NewConfiguration("scraping.timeout must be positive", nil)
	}
	if c.Scraping.RetryAttempts <= 0 {
		return jterrors.NewConfiguration("scraping.retry_attempts must be positive", nil)
	}
	if c.Notifications.MaxJobsPerNotification <= 0 {
		return jterrors.NewConfiguration("notifications.max_jobs_per_notification must be positive", nil)
	}
	if c.Notifications.Enabled && (c.TelegramBotToken == "" || c.TelegramChatID == 0) {
		return jterrors.NewConfiguration(
			"notifications are enabled but TELEGRAM_BOT_TOKEN / TELEGRAM_CHAT_ID are not set", nil)
	}
	if c.Store.Dir == "" {
		return jterrors.NewConfiguration("store.dir must not be empty", nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
