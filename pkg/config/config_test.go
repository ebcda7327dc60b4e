package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapterhq/ams/pkg/observability"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "9090", cfg.Server.HealthPort)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, []string{"memory"}, cfg.Audit.Sinks)
	assert.Equal(t, 730, cfg.Audit.RetentionDays)
	assert.Equal(t, observability.InfoLevel, cfg.Observability.LogLevel)
	assert.True(t, cfg.Observability.MetricsEnabled)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("AMS_PORT", "8181")
	t.Setenv("AMS_CACHE_BACKEND", "redis")
	t.Setenv("AMS_REDIS_ADDR", "redis.internal:6379")
	t.Setenv("AMS_CACHE_TTL", "2m")
	t.Setenv("AMS_AUDIT_SINKS", "file, postgres")
	t.Setenv("AMS_AUDIT_POSTGRES_URL", "postgres://localhost/ams")
	t.Setenv("AMS_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8181", cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "redis.internal:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, []string{"file", "postgres"}, cfg.Audit.Sinks)
	assert.Equal(t, observability.DebugLevel, cfg.Observability.LogLevel)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := LoadConfig()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "same ports",
			mutate:  func(c *Config) { c.Server.HealthPort = c.Server.Port },
			wantErr: "must be different",
		},
		{
			name:    "unknown cache backend",
			mutate:  func(c *Config) { c.Cache.Backend = "memcached" },
			wantErr: "invalid cache backend",
		},
		{
			name: "redis backend without address",
			mutate: func(c *Config) {
				c.Cache.Backend = "redis"
				c.Cache.RedisAddr = ""
			},
			wantErr: "redis address is required",
		},
		{
			name:    "non-positive TTL",
			mutate:  func(c *Config) { c.Cache.TTL = 0 },
			wantErr: "TTL must be positive",
		},
		{
			name:    "unknown audit sink",
			mutate:  func(c *Config) { c.Audit.Sinks = []string{"syslog"} },
			wantErr: "invalid audit sink",
		},
		{
			name: "postgres sink without URL",
			mutate: func(c *Config) {
				c.Audit.Sinks = []string{"postgres"}
				c.Audit.PostgresURL = ""
			},
			wantErr: "postgres URL is required",
		},
		{
			name:    "zero retention",
			mutate:  func(c *Config) { c.Audit.RetentionDays = 0 },
			wantErr: "retention days must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, observability.DebugLevel, parseLogLevel("debug"))
	assert.Equal(t, observability.WarnLevel, parseLogLevel("WARNING"))
	assert.Equal(t, observability.ErrorLevel, parseLogLevel("error"))
	assert.Equal(t, observability.InfoLevel, parseLogLevel("nonsense"))
}
