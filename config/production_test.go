package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *ProductionConfig {
	return &ProductionConfig{
		Database: DatabaseConfig{Host: "localhost", Port: 5432, Name: "meals", User: "meals", Password: "secret"},
		Server:   ServerConfig{Port: 8080, ReadTimeout: time.Second, WriteTimeout: time.Second, IdleTimeout: time.Second},
		JWT: JWTConfig{
			SecretKey:      "0123456789abcdef0123456789abcdef",
			AccessTokenTTL: time.Hour,
			Issuer:         "meal-campaign-stats",
			Algorithm:      "HS256",
		},
		Logging: LoggingConfig{Level: "info", Output: "stdout"},
		Cache:   CacheConfig{Enabled: true, RedisURL: "redis://localhost:6379"},
		Stats:   DefaultStatsConfig(),
	}
}

func TestValidateProductionConfig(t *testing.T) {
	require.NoError(t, ValidateProductionConfig(validConfig()))

	tests := []struct {
		name    string
		mutate  func(*ProductionConfig)
		message string
	}{
		{"missing db password", func(c *ProductionConfig) { c.Database.Password = "" }, "DB_PASSWORD is required"},
		{"short jwt secret", func(c *ProductionConfig) { c.JWT.SecretKey = "short" }, "JWT_SECRET_KEY must be at least 32 characters long"},
		{"bad log level", func(c *ProductionConfig) { c.Logging.Level = "trace" }, "LOG_LEVEL must be one of"},
		{"file output without path", func(c *ProductionConfig) { c.Logging.Output = "file" }, "LOG_FILE_PATH is required"},
		{"bad timezone", func(c *ProductionConfig) { c.Stats.Timezone = "Nowhere/Special" }, "STATS_TIMEZONE is invalid"},
		{"zero timeline", func(c *ProductionConfig) { c.Stats.TimelineDays = 0 }, "STATS_TIMELINE_DAYS must be at least 1"},
		{"zero top n", func(c *ProductionConfig) { c.Stats.TopN = 0 }, "STATS_TOP_N must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := ValidateProductionConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidateProductionConfigAggregatesErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Host = ""
	cfg.Stats.TopN = 0

	err := ValidateProductionConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_HOST is required")
	assert.Contains(t, err.Error(), "STATS_TOP_N must be at least 1")
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("MCS_TEST_INT", "42")
	t.Setenv("MCS_TEST_BAD_INT", "forty")
	t.Setenv("MCS_TEST_DURATION", "90s")
	t.Setenv("MCS_TEST_SLICE", " a, b ,,c ")

	assert.Equal(t, 42, getEnvInt("MCS_TEST_INT", 1))
	assert.Equal(t, 1, getEnvInt("MCS_TEST_BAD_INT", 1))
	assert.Equal(t, 90*time.Second, getEnvDuration("MCS_TEST_DURATION", time.Second))
	assert.Equal(t, []string{"a", "b", "c"}, getEnvStringSlice("MCS_TEST_SLICE", nil))
	assert.Equal(t, "fallback", getEnvString("MCS_TEST_UNSET", "fallback"))
}
