package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("HF_TEST_HOST", "db.internal")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"set variable", "postgres://${HF_TEST_HOST}/ats", "postgres://db.internal/ats"},
		{"unset variable", "x${HF_TEST_UNSET}y", "xy"},
		{"default used", "${HF_TEST_UNSET:-memory}", "memory"},
		{"default ignored", "${HF_TEST_HOST:-other}", "db.internal"},
		{"bare dollar untouched", "pa$$word", "pa$$word"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandEnvVars(tt.in))
		})
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Setenv("HF_TEST_SECRET", testSecret)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
store:
  driver: memory
auth:
  session_secret: "${HF_TEST_SECRET}"
  careers_url: "/jobs-board"
redis:
  role_cache_ttl: 1m
logging:
  level: debug
  adapters:
    - name: console
      type: stdout
      enabled: true
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, testSecret, cfg.Auth.SessionSecret)
	assert.Equal(t, "/jobs-board", cfg.Auth.CareersURL)
	assert.Equal(t, "/sign-in", cfg.Auth.SignInURL)
	assert.Equal(t, time.Minute, cfg.Redis.RoleCacheTTL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	require.Len(t, cfg.Logging.Adapters, 1)
	assert.Equal(t, "stdout", cfg.Logging.Adapters[0].Type)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("PORT", "7070")
	t.Setenv("DATABASE_URL", "postgres://localhost/ats")
	t.Setenv("RATE_LIMIT_RPM", "5")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/ats", cfg.Store.DatabaseURL)
	assert.Equal(t, 5, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, "0.0.0.0:7070", cfg.Address())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults with secret", func(c *Config) {}, ""},
		{"missing secret", func(c *Config) { c.Auth.SessionSecret = "" }, "session_secret is required"},
		{"short secret", func(c *Config) { c.Auth.SessionSecret = "short" }, "at least 32 bytes"},
		{"postgres without url", func(c *Config) { c.Store.Driver = "postgres" }, "database_url is required"},
		{"unknown driver", func(c *Config) { c.Store.Driver = "mongo" }, "unsupported store driver"},
		{"zero burst", func(c *Config) { c.RateLimit.Burst = 0 }, "must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Auth.SessionSecret = testSecret
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestSpacesEnabled(t *testing.T) {
	cfg := Default()
	assert.False(t, cfg.SpacesEnabled())

	cfg.DigitalOcean.Spaces.AccessKeyID = "key"
	cfg.DigitalOcean.Spaces.AccessKeySecret = "secret"
	assert.True(t, cfg.SpacesEnabled())
}

func TestSpacesEnvOverrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("BUCKET_ENDPOINT", "http://localhost:9000")
	t.Setenv("BUCKET_NAME", "applicant-docs")
	t.Setenv("BUCKET_REGION", "fra1")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	spaces := cfg.DigitalOcean.Spaces
	assert.Equal(t, "http://localhost:9000", spaces.Endpoint)
	assert.Equal(t, "applicant-docs", spaces.BucketName)
	assert.Equal(t, "fra1", spaces.Region)
	assert.Equal(t, 15*time.Minute, spaces.UploadURLTTL)
}

func TestTrustedProxiesEnvOverride(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.0/12")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "172.16.0.0/12"}, cfg.Server.TrustedProxies)
}
