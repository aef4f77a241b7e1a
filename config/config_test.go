package config

import (
	"testing"
	"time"

	"github.com/fenilmodi00/ipo-companion/shared"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "API_BASE_URL", "PAGE_SIZE", "GMP_WARMUP_MINUTES", "DATABASE_URL"} {
		t.Setenv(key, "")
	}
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PAGE_SIZE", "25")

	cfg := LoadConfig()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 25, cfg.GetPageSize())
	assert.Equal(t, "", cfg.DatabaseURL)
}

func TestConfig_Getters(t *testing.T) {
	cfg := &Config{
		HTTPTimeoutSeconds:   "3",
		CacheTTLMinutes:      "2",
		GMPWarmupMinutes:     "0",
		PageSize:             "50",
		RequestRatePerSecond: "1.5",
	}

	assert.Equal(t, 3*time.Second, cfg.GetHTTPTimeout())
	assert.Equal(t, 2*time.Minute, cfg.GetCacheTTL())
	assert.Equal(t, time.Duration(0), cfg.GetGMPWarmupInterval(), "zero disables the warmup job")
	assert.Equal(t, 50, cfg.GetPageSize())
	assert.Equal(t, 1.5, cfg.GetRequestRate())
}

func TestConfig_InvalidValuesFallBack(t *testing.T) {
	cfg := &Config{
		HTTPTimeoutSeconds:   "soon",
		CacheTTLMinutes:      "-1",
		GMPWarmupMinutes:     "-5",
		PageSize:             "0",
		RequestRatePerSecond: "fast",
	}

	assert.Equal(t, shared.DefaultHTTPTimeout, cfg.GetHTTPTimeout())
	assert.Equal(t, 5*time.Minute, cfg.GetCacheTTL())
	assert.Equal(t, 15*time.Minute, cfg.GetGMPWarmupInterval())
	assert.Equal(t, shared.DefaultPageSize, cfg.GetPageSize())
	assert.Equal(t, 5.0, cfg.GetRequestRate())
}

func TestConfig_Unified(t *testing.T) {
	cfg := &Config{
		APIBaseURL:           "https://api.example.com/v1",
		HTTPTimeoutSeconds:   "4",
		DatabaseURL:          "postgres://localhost/ipo",
		CacheTTLMinutes:      "1",
		GMPWarmupMinutes:     "30",
		PageSize:             "10",
		RequestRatePerSecond: "0",
		LogLevel:             "debug",
	}

	unified := cfg.Unified()

	assert.Equal(t, "https://api.example.com/v1", unified.Service.BaseURL)
	assert.Equal(t, 4*time.Second, unified.Service.HTTPRequestTimeout)
	assert.Equal(t, 0.0, unified.Service.RequestsPerSecond)
	assert.Equal(t, "postgres://localhost/ipo", unified.Database.URL)
	assert.Equal(t, time.Minute, unified.Cache.DefaultTTL)
	assert.Equal(t, 30*time.Minute, unified.Cache.WarmupInterval)
	assert.Equal(t, 10, unified.Pagination.PageSize)
	assert.Equal(t, shared.DefaultCurrencyLocale, unified.Presentation.CurrencyLocale)
	assert.Equal(t, shared.DefaultCurrencySymbol, unified.Presentation.CurrencySymbol)
	assert.Equal(t, "debug", unified.Logging.Level)
	assert.Equal(t, "json", unified.Logging.Format)
}
