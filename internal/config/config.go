package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port           int           `yaml:"port" default:"8080"`
		Host           string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout    time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout   time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout    time.Duration `yaml:"idle_timeout" default:"60s"`
		AllowOrigins   []string      `yaml:"allow_origins"`
		TrustedProxies []string      `yaml:"trusted_proxies"` // CIDRs allowed to set X-Forwarded-For
	} `yaml:"server"`

	Store struct {
		Driver      string `yaml:"driver" default:"memory"` // memory or postgres
		DatabaseURL string `yaml:"database_url"`
		MaxConns    int32  `yaml:"max_conns" default:"10"`
		Migrate     bool   `yaml:"migrate" default:"true"`
	} `yaml:"store"`

	Redis RedisConfig `yaml:"redis"`

	Auth struct {
		SessionSecret     string        `yaml:"session_secret"`
		SessionCookie     string        `yaml:"session_cookie" default:"__session"`
		SignInURL         string        `yaml:"sign_in_url" default:"/sign-in"`
		CareersURL        string        `yaml:"careers_url" default:"/careers"`
		IdentityAPIURL    string        `yaml:"identity_api_url" default:"https://api.clerk.com"`
		IdentitySecretKey string        `yaml:"identity_secret_key"`
		LookupTimeout     time.Duration `yaml:"lookup_timeout" default:"5s"`
	} `yaml:"auth"`

	DigitalOcean struct {
		Spaces SpacesConfig `yaml:"spaces"`
	} `yaml:"digitalocean"`

	RateLimit struct {
		RequestsPerMinute int           `yaml:"requests_per_minute" default:"30"`
		Burst             int           `yaml:"burst" default:"10"`
		IdleTTL           time.Duration `yaml:"idle_ttl" default:"10m"`
	} `yaml:"rate_limit"`

	Logging LoggingConfig `yaml:"logging"`
}

// SpacesConfig configures the S3 compatible bucket holding applicant
// documents. Endpoint defaults to the regional DigitalOcean endpoint.
type SpacesConfig struct {
	BucketURL       string        `yaml:"bucket_url"`
	Endpoint        string        `yaml:"endpoint"`
	AccessKeyID     string        `yaml:"access_key_id"`
	AccessKeySecret string        `yaml:"access_key_secret"`
	Region          string        `yaml:"region" default:"blr1"`
	BucketName      string        `yaml:"bucket_name" default:"hireflow-documents"`
	UploadURLTTL    time.Duration `yaml:"upload_url_ttl" default:"15m"`
}

// RedisConfig configures the shared Redis connection. An empty URL
// disables every Redis backed feature.
type RedisConfig struct {
	URL           string        `yaml:"url"`
	Password      string        `yaml:"password"`
	DB            int           `yaml:"db" default:"0"`
	Timeout       time.Duration `yaml:"timeout" default:"5s"`
	EventsChannel string        `yaml:"events_channel" default:"hireflow.events"`
	RoleCacheTTL  time.Duration `yaml:"role_cache_ttl" default:"5m"`
}

// LoggingConfig configures the logging adapters
type LoggingConfig struct {
	Level  string `yaml:"level" default:"info"`
	Format string `yaml:"format" default:"json"`

	Adapters []AdapterConfig `yaml:"adapters"`
}

// AdapterConfig configures a single logging adapter
type AdapterConfig struct {
	Name    string                 `yaml:"name"`
	Type    string                 `yaml:"type"`
	Enabled bool                   `yaml:"enabled"`
	Options map[string]interface{} `yaml:"options"`
}

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// expandEnvVars expands ${VAR} and ${VAR:-default} references. Unset
// variables without a default expand to the empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if val := os.Getenv(groups[1]); val != "" {
			return val
		}
		return groups[3]
	})
}

// Default returns a configuration populated with built-in defaults
func Default() *Config {
	config := &Config{}

	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second
	config.Server.AllowOrigins = []string{"*"}

	config.Store.Driver = "memory"
	config.Store.MaxConns = 10
	config.Store.Migrate = true

	config.Redis.Timeout = 5 * time.Second
	config.Redis.EventsChannel = "hireflow.events"
	config.Redis.RoleCacheTTL = 5 * time.Minute

	config.Auth.SessionCookie = "__session"
	config.Auth.SignInURL = "/sign-in"
	config.Auth.CareersURL = "/careers"
	config.Auth.IdentityAPIURL = "https://api.clerk.com"
	config.Auth.LookupTimeout = 5 * time.Second

	config.DigitalOcean.Spaces.Region = "blr1"
	config.DigitalOcean.Spaces.BucketName = "hireflow-documents"
	config.DigitalOcean.Spaces.UploadURLTTL = 15 * time.Minute

	config.RateLimit.RequestsPerMinute = 30
	config.RateLimit.Burst = 10
	config.RateLimit.IdleTTL = 10 * time.Minute

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	return config
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := Default()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, fmt.Errorf("parse %s: %w", configPath, err)
			}
		}
	}

	config.loadFromEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects configurations the server cannot start with
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "memory":
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("store.database_url is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported store driver: %s", c.Store.Driver)
	}

	if c.Auth.SessionSecret == "" {
		return fmt.Errorf("auth.session_secret is required")
	}
	if len(c.Auth.SessionSecret) < 32 {
		return fmt.Errorf("auth.session_secret must be at least 32 bytes")
	}

	if c.RateLimit.RequestsPerMinute <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate_limit.requests_per_minute and rate_limit.burst must be positive")
	}

	return nil
}

// SpacesEnabled reports whether object storage credentials are configured
func (c *Config) SpacesEnabled() bool {
	s := c.DigitalOcean.Spaces
	return s.AccessKeyID != "" && s.AccessKeySecret != ""
}

// Address returns the host:port the server listens on
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if origins := os.Getenv("ALLOW_ORIGINS"); origins != "" {
		c.Server.AllowOrigins = splitList(origins)
	}

	if proxies := os.Getenv("TRUSTED_PROXIES"); proxies != "" {
		c.Server.TrustedProxies = splitList(proxies)
	}

	if driver := os.Getenv("STORE_DRIVER"); driver != "" {
		c.Store.Driver = driver
	}

	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		c.Store.DatabaseURL = databaseURL
		if os.Getenv("STORE_DRIVER") == "" {
			c.Store.Driver = "postgres"
		}
	}

	if maxConns := os.Getenv("DATABASE_MAX_CONNS"); maxConns != "" {
		if n, err := strconv.Atoi(maxConns); err == nil {
			c.Store.MaxConns = int32(n)
		}
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if redisTimeout := os.Getenv("REDIS_TIMEOUT"); redisTimeout != "" {
		if timeout, err := time.ParseDuration(redisTimeout); err == nil {
			c.Redis.Timeout = timeout
		}
	}

	if ttl := os.Getenv("ROLE_CACHE_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			c.Redis.RoleCacheTTL = d
		}
	}

	if secret := os.Getenv("SESSION_SECRET"); secret != "" {
		c.Auth.SessionSecret = secret
	}

	if apiURL := os.Getenv("IDENTITY_API_URL"); apiURL != "" {
		c.Auth.IdentityAPIURL = apiURL
	}

	if secretKey := os.Getenv("IDENTITY_SECRET_KEY"); secretKey != "" {
		c.Auth.IdentitySecretKey = secretKey
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if rpm := os.Getenv("RATE_LIMIT_RPM"); rpm != "" {
		if n, err := strconv.Atoi(rpm); err == nil {
			c.RateLimit.RequestsPerMinute = n
		}
	}

	if burst := os.Getenv("RATE_LIMIT_BURST"); burst != "" {
		if n, err := strconv.Atoi(burst); err == nil {
			c.RateLimit.Burst = n
		}
	}

	// DigitalOcean Spaces configuration
	if bucketURL := os.Getenv("BUCKET_URL"); bucketURL != "" {
		c.DigitalOcean.Spaces.BucketURL = bucketURL
	}

	if accessKeyID := os.Getenv("BUCKET_ACCESS_KEY_ID"); accessKeyID != "" {
		c.DigitalOcean.Spaces.AccessKeyID = accessKeyID
	}

	if accessKeySecret := os.Getenv("BUCKET_ACCESS_KEY_SECRET"); accessKeySecret != "" {
		c.DigitalOcean.Spaces.AccessKeySecret = accessKeySecret
	}

	if endpoint := os.Getenv("BUCKET_ENDPOINT"); endpoint != "" {
		c.DigitalOcean.Spaces.Endpoint = endpoint
	}

	if region := os.Getenv("BUCKET_REGION"); region != "" {
		c.DigitalOcean.Spaces.Region = region
	}

	if bucketName := os.Getenv("BUCKET_NAME"); bucketName != "" {
		c.DigitalOcean.Spaces.BucketName = bucketName
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
