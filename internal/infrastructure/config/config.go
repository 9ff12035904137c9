package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/TradeTrust/api-storage/internal/domain/policy"
	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Policy        PolicyConfig        `mapstructure:"policy"`
	Auth          AuthConfig          `mapstructure:"auth"`
	Validation    ValidationConfig    `mapstructure:"validation"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Features      map[string]bool     `mapstructure:"features"`
	Version       string              `mapstructure:"version"`
	InstanceID    string              `mapstructure:"instance_id"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	CORS              CORSConfig    `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	MaxConnections  int           `mapstructure:"max_connections"`
	MinConnections  int           `mapstructure:"min_connections"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	SSLMode         string        `mapstructure:"ssl_mode"`
}

type RedisConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	DB                int           `mapstructure:"db"`
	Password          string        `mapstructure:"password"`
	ConnectRetries    int           `mapstructure:"connect_retries"`
	ConnectRetryDelay time.Duration `mapstructure:"connect_retry_delay"`
}

type StorageConfig struct {
	Bucket string `mapstructure:"bucket"`
	// Prefix is prepended to every document object name.
	Prefix string `mapstructure:"prefix"`
}

// PolicyConfig selects and configures the quota policy source.
type PolicyConfig struct {
	// Source is "static" (policies from this config) or "remote"
	// (external policy service).
	Source         string                  `mapstructure:"source"`
	Endpoint       string                  `mapstructure:"endpoint"`
	RequestTimeout time.Duration           `mapstructure:"request_timeout"`
	CacheTTL       time.Duration           `mapstructure:"cache_ttl"`
	Static         map[string]StaticPolicy `mapstructure:"static"`
}

// StaticPolicy is one category's quota rule as written in configuration.
type StaticPolicy struct {
	Quota  int64         `mapstructure:"quota"`
	Window time.Duration `mapstructure:"window"`
}

// StaticPolicies converts the configured table to domain policies, windows
// in epoch milliseconds, ordered by category for stable /version output.
func (c *PolicyConfig) StaticPolicies() []policy.Policy {
	categories := make([]string, 0, len(c.Static))
	for category := range c.Static {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	policies := make([]policy.Policy, 0, len(categories))
	for _, category := range categories {
		p := c.Static[category]
		policies = append(policies, policy.Policy{
			Category:    category,
			Quota:       p.Quota,
			MaxDuration: p.Window.Milliseconds(),
		})
	}
	return policies
}

type AuthConfig struct {
	AccessKey  string        `mapstructure:"access_key"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// ValidationConfig is the runtime toggle for customer identity checking.
type ValidationConfig struct {
	NRICEnabled bool `mapstructure:"nric_enabled"`
}

// IsValidationEnabled satisfies the capability the transaction service
// consults on every call.
func (c *ValidationConfig) IsValidationEnabled() bool {
	return c.NRICEnabled
}

type ObservabilityConfig struct {
	LogLevel       string `mapstructure:"log_level"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
	EnableMetrics  bool   `mapstructure:"enable_metrics"`
	EnableTracing  bool   `mapstructure:"enable_tracing"`
}

func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("RATION")
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/api-storage")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.read_timeout must be positive"))
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.write_timeout must be positive"))
	}
	if c.Database.Host == "" {
		errs = append(errs, fmt.Errorf("database.host is required"))
	}
	if c.Database.Port <= 0 {
		errs = append(errs, fmt.Errorf("database.port must be positive"))
	}
	if c.Redis.Port <= 0 {
		errs = append(errs, fmt.Errorf("redis.port must be positive"))
	}
	if c.Auth.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("auth.session_ttl must be positive"))
	}

	switch c.Policy.Source {
	case "static":
		if len(c.Policy.Static) == 0 {
			errs = append(errs, fmt.Errorf("policy.static must not be empty when policy.source is static"))
		}
	case "remote":
		if c.Policy.Endpoint == "" {
			errs = append(errs, fmt.Errorf("policy.endpoint is required when policy.source is remote"))
		}
	default:
		errs = append(errs, fmt.Errorf("policy.source must be static or remote, got %q", c.Policy.Source))
	}

	for category, p := range c.Policy.Static {
		if p.Quota < 0 {
			errs = append(errs, fmt.Errorf("policy.static.%s.quota must not be negative", category))
		}
		if p.Window <= 0 {
			errs = append(errs, fmt.Errorf("policy.static.%s.window must be positive", category))
		}
	}

	env := os.Getenv("ENV")
	if env == "production" || env == "prod" {
		if c.Database.Password == "" {
			errs = append(errs, fmt.Errorf("database.password required in production"))
		}
		if c.Auth.AccessKey == "" {
			errs = append(errs, fmt.Errorf("auth.access_key required in production"))
		}
	}

	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.requests_per_minute", 300)
	v.SetDefault("server.cors.allowed_origins", []string{"*"})
	v.SetDefault("server.cors.allow_credentials", false)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "ration")
	v.SetDefault("database.database", "ration")
	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.min_connections", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.ssl_mode", "disable")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.connect_retries", 5)
	v.SetDefault("redis.connect_retry_delay", "1s")

	// Storage defaults
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.prefix", "documents/")

	// Policy defaults: a small static table so the service runs out of the box
	v.SetDefault("policy.source", "static")
	v.SetDefault("policy.request_timeout", "5s")
	v.SetDefault("policy.cache_ttl", "1m")
	v.SetDefault("policy.static.category-a.quota", 30)
	v.SetDefault("policy.static.category-a.window", "336h") // 14 days
	v.SetDefault("policy.static.category-b.quota", 30)
	v.SetDefault("policy.static.category-b.window", "336h")

	// Auth defaults
	v.SetDefault("auth.session_ttl", "24h")

	// Validation defaults
	v.SetDefault("validation.nric_enabled", false)

	// Observability defaults
	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.jaeger_endpoint", "http://localhost:14268/api/traces")
	v.SetDefault("observability.enable_metrics", true)
	v.SetDefault("observability.enable_tracing", true)

	// Feature flags surfaced on /version
	v.SetDefault("features.transactions", true)
	v.SetDefault("features.documents", true)

	v.SetDefault("version", "dev")
	v.SetDefault("instance_id", "api-storage-1")
}

func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
