package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	for k, v := range map[string]string{
		"USERS_PRIMARY.ENV":                   "test",
		"USERS_SERVER.PORT":                   "8080",
		"USERS_SERVER.READ_TIMEOUT":           "30",
		"USERS_SERVER.WRITE_TIMEOUT":          "30",
		"USERS_SERVER.IDLE_TIMEOUT":           "60",
		"USERS_SERVER.CORS_ALLOWED_ORIGINS":   "http://localhost:3000,http://localhost:5173",
		"USERS_DATABASE.HOST":                 "localhost",
		"USERS_DATABASE.PORT":                 "5432",
		"USERS_DATABASE.USER":                 "postgres",
		"USERS_DATABASE.PASSWORD":             "postgres",
		"USERS_DATABASE.NAME":                 "users",
		"USERS_DATABASE.SSL_MODE":             "disable",
		"USERS_DATABASE.MAX_OPEN_CONNS":       "25",
		"USERS_DATABASE.MAX_IDLE_CONNS":       "25",
		"USERS_DATABASE.CONN_MAX_LIFETIME":    "300",
		"USERS_DATABASE.CONN_MAX_IDLE_TIME":   "300",
		"USERS_REDIS.ADDRESS":                 "localhost:6379",
	} {
		t.Setenv(k, v)
	}
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.Server.CORSAllowedOrigins)

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, "test", cfg.Observability.Environment)

	require.NotNil(t, cfg.Cache)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.NotEmpty(t, cfg.Integration.EmailFrom)
}

func TestEnvKeyValue(t *testing.T) {
	testCases := []struct {
		desc      string
		key       string
		value     string
		wantKey   string
		wantValue any
	}{
		{desc: "scalar", key: "USERS_SERVER.PORT", value: "8080", wantKey: "server.port", wantValue: "8080"},
		{desc: "scalar keeps commas", key: "USERS_DATABASE.PASSWORD", value: "a,b", wantKey: "database.password", wantValue: "a,b"},
		{desc: "list", key: "USERS_SERVER.CORS_ALLOWED_ORIGINS", value: "https://a.com,https://b.com", wantKey: "server.cors_allowed_origins", wantValue: []string{"https://a.com", "https://b.com"}},
		{desc: "list trims blanks", key: "USERS_SERVER.CORS_ALLOWED_ORIGINS", value: " https://a.com , ,https://b.com ", wantKey: "server.cors_allowed_origins", wantValue: []string{"https://a.com", "https://b.com"}},
		{desc: "single item list", key: "USERS_SERVER.CORS_ALLOWED_ORIGINS", value: "*", wantKey: "server.cors_allowed_origins", wantValue: []string{"*"}},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			key, value := envKeyValue(tc.key, tc.value)
			assert.Equal(t, tc.wantKey, key)
			assert.Equal(t, tc.wantValue, value)
		})
	}
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("USERS_DATABASE.HOST", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestLoadConfig_InvalidBcryptCost(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("USERS_AUTH.BCRYPT_COST", "2")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestObservabilityConfig_Validate(t *testing.T) {
	testCases := []struct {
		desc    string
		mutate  func(c *ObservabilityConfig)
		wantErr bool
	}{
		{desc: "defaults", mutate: func(c *ObservabilityConfig) {}},
		{desc: "unknown level", mutate: func(c *ObservabilityConfig) { c.Logging.Level = "verbose" }, wantErr: true},
		{desc: "empty service name", mutate: func(c *ObservabilityConfig) { c.ServiceName = "" }, wantErr: true},
		{desc: "negative threshold", mutate: func(c *ObservabilityConfig) { c.Logging.SlowQueryThreshold = -time.Second }, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			cfg := DefaultObservabilityConfig()
			tc.mutate(cfg)
			if tc.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestObservabilityConfig_GetLogLevel(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	cfg.Logging.Level = ""

	cfg.Environment = "production"
	assert.Equal(t, "info", cfg.GetLogLevel())

	cfg.Environment = "development"
	assert.Equal(t, "debug", cfg.GetLogLevel())

	cfg.Logging.Level = "warn"
	assert.Equal(t, "warn", cfg.GetLogLevel())
}

func TestObservabilityConfig_HealthCheckEnabled(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	assert.True(t, cfg.HealthCheckEnabled("database"))
	assert.False(t, cfg.HealthCheckEnabled("kafka"))

	cfg.HealthChecks.Enabled = false
	assert.False(t, cfg.HealthCheckEnabled("database"))
}
