package shared

import (
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

// UnifiedConfiguration holds all configuration parameters for the gateway
type UnifiedConfiguration struct {
	Service      ServiceConfig      `json:"service"`
	Database     DatabaseConfig     `json:"database"`
	Cache        CacheConfig        `json:"cache"`
	Pagination   PaginationConfig   `json:"pagination"`
	Presentation PresentationConfig `json:"presentation"`
	Logging      LoggingConfig      `json:"logging"`
}

// ServiceConfig holds market API client configuration
type ServiceConfig struct {
	BaseURL            string        `json:"base_url"`
	HTTPRequestTimeout time.Duration `json:"http_timeout"`
	RequestsPerSecond  float64       `json:"requests_per_second"`
	RequestBurst       int           `json:"request_burst"`
	EnableMetrics      bool          `json:"enable_metrics"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	URL             string        `json:"-"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time"`
	PingTimeout     time.Duration `json:"ping_timeout"`
}

// CacheConfig holds response cache configuration. A zero WarmupInterval disables
// the GMP warmup job.
type CacheConfig struct {
	DefaultTTL     time.Duration `json:"default_ttl"`
	MaxSize        int           `json:"max_size"`
	PurgeInterval  time.Duration `json:"purge_interval"`
	WarmupInterval time.Duration `json:"warmup_interval"`
}

// PaginationConfig holds list coordinator configuration
type PaginationConfig struct {
	PageSize int `json:"page_size"`
}

// PresentationConfig holds display formatting configuration
type PresentationConfig struct {
	CurrencyLocale string `json:"currency_locale"`
	CurrencySymbol string `json:"currency_symbol"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string `json:"level"`
	Format      string `json:"format"`
	ServiceName string `json:"service_name"`
}

const (
	DefaultBaseURL        = "http://localhost:3000/api"
	DefaultHTTPTimeout    = 10 * time.Second
	DefaultPageSize       = 20
	DefaultCacheTTL       = 5 * time.Minute
	DefaultCacheMaxSize   = 500
	DefaultCurrencyLocale = "en-IN"
	DefaultCurrencySymbol = "₹"
)

// NewDefaultUnifiedConfiguration returns production-ready default configuration
func NewDefaultUnifiedConfiguration() *UnifiedConfiguration {
	return &UnifiedConfiguration{
		Service: ServiceConfig{
			BaseURL:            DefaultBaseURL,
			HTTPRequestTimeout: DefaultHTTPTimeout,
			RequestsPerSecond:  5,
			RequestBurst:       5,
			EnableMetrics:      true,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
			PingTimeout:     5 * time.Second,
		},
		Cache: CacheConfig{
			DefaultTTL:     DefaultCacheTTL,
			MaxSize:        DefaultCacheMaxSize,
			PurgeInterval:  10 * time.Minute,
			WarmupInterval: 15 * time.Minute,
		},
		Pagination: PaginationConfig{
			PageSize: DefaultPageSize,
		},
		Presentation: PresentationConfig{
			CurrencyLocale: DefaultCurrencyLocale,
			CurrencySymbol: DefaultCurrencySymbol,
		},
		Logging: LoggingConfig{
			Level:       "info",
			Format:      "json",
			ServiceName: "ipo-companion",
		},
	}
}

// ValidateAndApplyDefaults validates configuration and applies defaults for invalid values
func (c *UnifiedConfiguration) ValidateAndApplyDefaults() {
	logger := logrus.WithField("component", "UnifiedConfiguration")
	defaults := NewDefaultUnifiedConfiguration()

	if c.Service.BaseURL == "" {
		c.Service.BaseURL = defaults.Service.BaseURL
		logger.Debug("Applied default Service.BaseURL")
	}

	if c.Service.HTTPRequestTimeout <= 0 {
		c.Service.HTTPRequestTimeout = defaults.Service.HTTPRequestTimeout
		logger.Debug("Applied default Service.HTTPRequestTimeout")
	}

	if c.Service.RequestsPerSecond < 0 {
		c.Service.RequestsPerSecond = defaults.Service.RequestsPerSecond
		logger.Debug("Applied default Service.RequestsPerSecond")
	}

	if c.Service.RequestBurst <= 0 {
		c.Service.RequestBurst = defaults.Service.RequestBurst
		logger.Debug("Applied default Service.RequestBurst")
	}

	if c.Database.MaxOpenConns <= 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
		logger.Debug("Applied default Database.MaxOpenConns")
	}

	if c.Database.MaxIdleConns <= 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
		logger.Debug("Applied default Database.MaxIdleConns")
	}

	if c.Database.ConnMaxLifetime <= 0 {
		c.Database.ConnMaxLifetime = defaults.Database.ConnMaxLifetime
		logger.Debug("Applied default Database.ConnMaxLifetime")
	}

	if c.Database.PingTimeout <= 0 {
		c.Database.PingTimeout = defaults.Database.PingTimeout
		logger.Debug("Applied default Database.PingTimeout")
	}

	if c.Cache.DefaultTTL <= 0 {
		c.Cache.DefaultTTL = defaults.Cache.DefaultTTL
		logger.Debug("Applied default Cache.DefaultTTL")
	}

	if c.Cache.MaxSize <= 0 {
		c.Cache.MaxSize = defaults.Cache.MaxSize
		logger.Debug("Applied default Cache.MaxSize")
	}

	if c.Cache.PurgeInterval <= 0 {
		c.Cache.PurgeInterval = defaults.Cache.PurgeInterval
		logger.Debug("Applied default Cache.PurgeInterval")
	}

	if c.Cache.WarmupInterval < 0 {
		c.Cache.WarmupInterval = defaults.Cache.WarmupInterval
		logger.Debug("Applied default Cache.WarmupInterval")
	}

	if c.Pagination.PageSize <= 0 {
		c.Pagination.PageSize = defaults.Pagination.PageSize
		logger.Debug("Applied default Pagination.PageSize")
	}

	if c.Presentation.CurrencyLocale == "" {
		c.Presentation.CurrencyLocale = defaults.Presentation.CurrencyLocale
		logger.Debug("Applied default Presentation.CurrencyLocale")
	}

	if c.Presentation.CurrencySymbol == "" {
		c.Presentation.CurrencySymbol = defaults.Presentation.CurrencySymbol
		logger.Debug("Applied default Presentation.CurrencySymbol")
	}

	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
		logger.Debug("Applied default Logging.Level")
	}

	if c.Logging.Format == "" {
		c.Logging.Format = defaults.Logging.Format
		logger.Debug("Applied default Logging.Format")
	}

	if c.Logging.ServiceName == "" {
		c.Logging.ServiceName = defaults.Logging.ServiceName
		logger.Debug("Applied default Logging.ServiceName")
	}
}

// ToJSON serializes the configuration to JSON
func (c *UnifiedConfiguration) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
