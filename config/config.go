package config

import (
	"os"
	"strconv"
	"time"

	"github.com/fenilmodi00/ipo-companion/shared"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	ServerPort           string
	APIBaseURL           string
	HTTPTimeoutSeconds   string
	DatabaseURL          string
	CacheTTLMinutes      string
	GMPWarmupMinutes     string
	PageSize             string
	RequestRatePerSecond string
	CurrencyLocale       string
	CurrencySymbol       string
	LogLevel             string
	LogFormat            string
}

// GetHTTPTimeout returns the market API timeout from environment or the 10 second default
func (c *Config) GetHTTPTimeout() time.Duration {
	seconds, err := strconv.Atoi(c.HTTPTimeoutSeconds)
	if err != nil || seconds <= 0 {
		if c.HTTPTimeoutSeconds != "" {
			logrus.Warnf("Invalid HTTP_TIMEOUT_SECONDS value: %s, using default 10 seconds", c.HTTPTimeoutSeconds)
		}
		return shared.DefaultHTTPTimeout
	}
	return time.Duration(seconds) * time.Second
}

// GetCacheTTL returns the response cache TTL from environment or default
func (c *Config) GetCacheTTL() time.Duration {
	minutes, err := strconv.Atoi(c.CacheTTLMinutes)
	if err != nil || minutes <= 0 {
		if c.CacheTTLMinutes != "" {
			logrus.Warnf("Invalid CACHE_TTL_MINUTES value: %s, using default 5 minutes", c.CacheTTLMinutes)
		}
		return 5 * time.Minute
	}
	return time.Duration(minutes) * time.Minute
}

// GetGMPWarmupInterval returns the GMP warmup interval; 0 disables the job
func (c *Config) GetGMPWarmupInterval() time.Duration {
	minutes, err := strconv.Atoi(c.GMPWarmupMinutes)
	if err != nil || minutes < 0 {
		if c.GMPWarmupMinutes != "" {
			logrus.Warnf("Invalid GMP_WARMUP_MINUTES value: %s, using default 15 minutes", c.GMPWarmupMinutes)
		}
		return 15 * time.Minute
	}
	return time.Duration(minutes) * time.Minute
}

// GetPageSize returns the list page size from environment or default
func (c *Config) GetPageSize() int {
	size, err := strconv.Atoi(c.PageSize)
	if err != nil || size <= 0 {
		if c.PageSize != "" {
			logrus.Warnf("Invalid PAGE_SIZE value: %s, using default %d", c.PageSize, shared.DefaultPageSize)
		}
		return shared.DefaultPageSize
	}
	return size
}

// GetRequestRate returns the outbound request rate; 0 disables limiting
func (c *Config) GetRequestRate() float64 {
	rate, err := strconv.ParseFloat(c.RequestRatePerSecond, 64)
	if err != nil || rate < 0 {
		if c.RequestRatePerSecond != "" {
			logrus.Warnf("Invalid REQUEST_RATE_PER_SECOND value: %s, using default 5", c.RequestRatePerSecond)
		}
		return 5
	}
	return rate
}

// Unified converts the environment view into the validated unified configuration
func (c *Config) Unified() *shared.UnifiedConfiguration {
	unified := shared.NewDefaultUnifiedConfiguration()
	unified.Service.BaseURL = c.APIBaseURL
	unified.Service.HTTPRequestTimeout = c.GetHTTPTimeout()
	unified.Service.RequestsPerSecond = c.GetRequestRate()
	unified.Database.URL = c.DatabaseURL
	unified.Cache.DefaultTTL = c.GetCacheTTL()
	unified.Cache.WarmupInterval = c.GetGMPWarmupInterval()
	unified.Pagination.PageSize = c.GetPageSize()
	unified.Presentation.CurrencyLocale = c.CurrencyLocale
	unified.Presentation.CurrencySymbol = c.CurrencySymbol
	unified.Logging.Level = c.LogLevel
	unified.Logging.Format = c.LogFormat
	unified.ValidateAndApplyDefaults()
	return unified
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		logrus.Warn("Error loading .env file, using system environment variables")
	}

	return &Config{
		ServerPort:           getEnv("SERVER_PORT", "8080"),
		APIBaseURL:           getEnv("API_BASE_URL", shared.DefaultBaseURL),
		HTTPTimeoutSeconds:   getEnv("HTTP_TIMEOUT_SECONDS", "10"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		CacheTTLMinutes:      getEnv("CACHE_TTL_MINUTES", "5"),
		GMPWarmupMinutes:     getEnv("GMP_WARMUP_MINUTES", "15"),
		PageSize:             getEnv("PAGE_SIZE", "20"),
		RequestRatePerSecond: getEnv("REQUEST_RATE_PER_SECOND", "5"),
		CurrencyLocale:       getEnv("CURRENCY_LOCALE", shared.DefaultCurrencyLocale),
		CurrencySymbol:       getEnv("CURRENCY_SYMBOL", shared.DefaultCurrencySymbol),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "json"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
