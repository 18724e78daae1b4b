package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	StorageFile     = "file"
	StoragePostgres = "postgres"

	RateLimitMemory = "memory"
	RateLimitRedis  = "redis"
)

type AppConfig struct {
	API       *APIConfig       `mapstructure:"api"`
	Gin       *GinConfig       `mapstructure:"gin"`
	Log       *LogConfig       `mapstructure:"log"`
	Static    *StaticConfig    `mapstructure:"static"`
	Storage   *StorageConfig   `mapstructure:"storage"`
	Postgres  *PostgresConfig  `mapstructure:"postgres"`
	RateLimit *RateLimitConfig `mapstructure:"rate_limit"`
	Redis     *RedisConfig     `mapstructure:"redis"`
	Security  *SecurityConfig  `mapstructure:"security"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	Port               string   `mapstructure:"port"`
	BaseURL            string   `mapstructure:"base_url"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
	TrustedProxies     []string `mapstructure:"trusted_proxies"`
	ExposeMessages     bool     `mapstructure:"expose_messages"`
	Swagger            bool     `mapstructure:"swagger"`
	MaxBodyBytes       int64    `mapstructure:"max_body_bytes"`
}

func (c *APIConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type StaticConfig struct {
	Dir string `mapstructure:"dir"`
}

type StorageConfig struct {
	Driver   string `mapstructure:"driver"`
	FilePath string `mapstructure:"file_path"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"db_name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Backend string        `mapstructure:"backend"`
	Window  time.Duration `mapstructure:"window"`
	Max     int           `mapstructure:"max"`
	Message string        `mapstructure:"message"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type SecurityConfig struct {
	ContentSecurityPolicy string `mapstructure:"content_security_policy"`
	HSTSSeconds           int64  `mapstructure:"hsts_seconds"`
}

const defaultCSP = "default-src 'self'; " +
	"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com https://cdnjs.cloudflare.com; " +
	"script-src 'self'; " +
	"img-src 'self' data: https: blob:; " +
	"font-src 'self' https://fonts.gstatic.com https://cdnjs.cloudflare.com; " +
	"connect-src 'self'; " +
	"frame-src 'none'; " +
	"object-src 'none'"

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", EnvDevelopment)
	v.SetDefault("api.port", "3004")
	v.SetDefault("api.base_url", "localhost:3004")
	v.SetDefault("api.allowed_cors_domains", []string{"https://yourdomain.com"})
	v.SetDefault("api.trusted_proxies", []string{})
	v.SetDefault("api.expose_messages", true)
	v.SetDefault("api.swagger", true)
	v.SetDefault("api.max_body_bytes", 10*1024)

	v.SetDefault("gin.mode", "debug")
	v.SetDefault("log.level", "info")
	v.SetDefault("static.dir", "public")

	v.SetDefault("storage.driver", StorageFile)
	v.SetDefault("storage.file_path", "contact-messages.json")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "postgres")
	v.SetDefault("postgres.db_name", "portfolio")
	v.SetDefault("postgres.ssl_mode", "disable")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.backend", RateLimitMemory)
	v.SetDefault("rate_limit.window", 15*time.Minute)
	v.SetDefault("rate_limit.max", 100)
	v.SetDefault("rate_limit.message", "Too many requests from this IP, please try again later.")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "portfolio:ratelimit")

	v.SetDefault("security.content_security_policy", defaultCSP)
	v.SetDefault("security.hsts_seconds", 15552000)
}

// Load reads the YAML file at path, if it exists, on top of the defaults and
// applies environment overrides such as API_PORT or STORAGE_FILE_PATH.
func Load(path string) (*AppConfig, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}

	return unmarshal(v)
}

func newViper(path string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Names used by existing deployments. The first one set wins.
	_ = v.BindEnv("api.environment", "API_ENVIRONMENT", "NODE_ENV")
	_ = v.BindEnv("api.allowed_cors_domains", "API_ALLOWED_CORS_DOMAINS", "ALLOWED_ORIGIN")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
			}
		}
	}

	return v, nil
}

func unmarshal(v *viper.Viper) (*AppConfig, error) {
	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	// PORT is what most hosting platforms set.
	if port := os.Getenv("PORT"); port != "" {
		conf.API.Port = port
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

func (c *AppConfig) validate() error {
	switch c.Storage.Driver {
	case StorageFile:
		if c.Storage.FilePath == "" {
			return fmt.Errorf("storage.file_path is required for the %q driver", StorageFile)
		}
	case StoragePostgres:
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}

	switch c.RateLimit.Backend {
	case RateLimitMemory, RateLimitRedis:
	default:
		return fmt.Errorf("unknown rate_limit.backend %q", c.RateLimit.Backend)
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.Window <= 0 {
			return fmt.Errorf("rate_limit.window must be > 0")
		}
		if c.RateLimit.Max <= 0 {
			return fmt.Errorf("rate_limit.max must be > 0")
		}
	}

	if c.API.MaxBodyBytes <= 0 {
		return fmt.Errorf("api.max_body_bytes must be > 0")
	}

	return nil
}

// CORSOrigins returns the origins allowed to call the API. Outside production
// only the local dev server is allowed.
func (c *AppConfig) CORSOrigins() []string {
	if c.API.IsProduction() {
		return c.API.AllowedCORSDomains
	}

	return []string{
		"http://localhost:" + c.API.Port,
		"http://127.0.0.1:" + c.API.Port,
	}
}
