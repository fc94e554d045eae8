package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"calendario.app/errors"
)

// Config represents the application configuration structure
type Config struct {
	Server     ServerConfig    `split_words:"true"`
	Database   DatabaseConfig  `split_words:"true"`
	Cache      CacheConfig     `split_words:"true"`
	Push       PushConfig      `split_words:"true"`
	Providers  ProvidersConfig `split_words:"true"`
	Scheduler  SchedulerConfig `split_words:"true"`
	Location   LocationConfig  `split_words:"true"`
	AppBaseURL string          `envconfig:"APP_URL" default:"http://localhost:8080"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port int `envconfig:"SERVER_PORT" default:"8080"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"calendario"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

// GetDSN returns a formatted database connection string
func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// CacheConfig contains settings for the provider response cache
type CacheConfig struct {
	Type          string `envconfig:"CACHE_TYPE" default:"memory"`
	RedisAddr     string `envconfig:"CACHE_REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"CACHE_REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"CACHE_REDIS_DB" default:"0"`
	TTLMinutes    int    `envconfig:"CACHE_TTL_MINUTES" default:"360"`
}

// PushConfig contains Web Push (VAPID) settings. The keys are not marked
// required: when absent the notification subsystem is disabled and the rest
// of the application keeps running.
type PushConfig struct {
	VAPIDPublicKey  string `envconfig:"PUSH_VAPID_PUBLIC_KEY" default:""`
	VAPIDPrivateKey string `envconfig:"PUSH_VAPID_PRIVATE_KEY" default:""`
	Subscriber      string `envconfig:"PUSH_SUBSCRIBER" default:"mailto:noreply@calendario.app"`
}

// Configured reports whether VAPID keys are present
func (p PushConfig) Configured() bool {
	return p.VAPIDPublicKey != "" && p.VAPIDPrivateKey != ""
}

// ProvidersConfig contains settings for the external data providers
type ProvidersConfig struct {
	SunriseSunsetBaseURL string `envconfig:"SUNRISE_SUNSET_BASE_URL" default:"https://api.sunrise-sunset.org"`
	WorldTidesAPIKey     string `envconfig:"WORLDTIDES_API_KEY" default:""`
	WorldTidesBaseURL    string `envconfig:"WORLDTIDES_BASE_URL" default:"https://www.worldtides.info/api/v3"`
	FootballAPIKey       string `envconfig:"FOOTBALL_API_KEY" default:""`
	FootballBaseURL      string `envconfig:"FOOTBALL_BASE_URL" default:"https://v3.football.api-sports.io"`
}

// SchedulerConfig contains settings for the background task scheduler
type SchedulerConfig struct {
	DigestIntervalMinutes    int `envconfig:"DIGEST_INTERVAL_MINUTES" default:"15"`
	ImmediateIntervalMinutes int `envconfig:"IMMEDIATE_INTERVAL_MINUTES" default:"15"`
	ImportIntervalMinutes    int `envconfig:"IMPORT_INTERVAL_MINUTES" default:"1440"`
	SendWindowMinutes        int `envconfig:"SEND_WINDOW_MINUTES" default:"15"`
}

// LocationConfig is the reference coordinate for tide and astronomy lookups
type LocationConfig struct {
	Name      string  `envconfig:"LOCATION_NAME" default:"Lisboa"`
	Latitude  float64 `envconfig:"LOCATION_LATITUDE" default:"38.7223"`
	Longitude float64 `envconfig:"LOCATION_LONGITUDE" default:"-9.1393"`
}

// LoadConfig loads and validates application configuration from environment variables
func LoadConfig() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, errors.NewConfigurationError("error processing config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	if err := c.Scheduler.Validate(); err != nil {
		return err
	}
	if err := c.validateAppBaseURL(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAppBaseURL() error {
	if c.AppBaseURL == "" {
		return errors.NewConfigurationError("APP_URL cannot be empty", nil)
	}
	if !strings.HasPrefix(c.AppBaseURL, "http://") && !strings.HasPrefix(c.AppBaseURL, "https://") {
		return errors.NewConfigurationError("APP_URL must start with http:// or https://", nil)
	}
	return nil
}

// Validate checks server configuration
func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return errors.NewConfigurationError("SERVER_PORT must be between 1 and 65535", nil)
	}
	return nil
}

// Validate checks database configuration
func (d *DatabaseConfig) Validate() error {
	if d.Host == "" {
		return errors.NewConfigurationError("DB_HOST cannot be empty", nil)
	}
	if d.Port < 1 || d.Port > 65535 {
		return errors.NewConfigurationError("DB_PORT must be between 1 and 65535", nil)
	}
	if d.User == "" {
		return errors.NewConfigurationError("DB_USER cannot be empty", nil)
	}
	if d.Name == "" {
		return errors.NewConfigurationError("DB_NAME cannot be empty", nil)
	}
	return d.ValidateSSLMode()
}

// ValidateSSLMode validates the SSL mode configuration
func (d *DatabaseConfig) ValidateSSLMode() error {
	validSSLModes := []string{"disable", "require", "verify-ca", "verify-full"}
	for _, mode := range validSSLModes {
		if d.SSLMode == mode {
			return nil
		}
	}
	return errors.NewConfigurationError(
		fmt.Sprintf("DB_SSL_MODE must be one of: %s", strings.Join(validSSLModes, ", ")), nil)
}

// Validate checks cache configuration
func (c *CacheConfig) Validate() error {
	if c.Type != "memory" && c.Type != "redis" {
		return errors.NewConfigurationError("CACHE_TYPE must be either 'memory' or 'redis'", nil)
	}
	if c.TTLMinutes < 1 {
		return errors.NewConfigurationError("CACHE_TTL_MINUTES must be positive", nil)
	}
	return nil
}

// Validate checks scheduler configuration
func (s *SchedulerConfig) Validate() error {
	if s.DigestIntervalMinutes < 1 {
		return errors.NewConfigurationError("DIGEST_INTERVAL_MINUTES must be positive", nil)
	}
	if s.ImmediateIntervalMinutes < 1 {
		return errors.NewConfigurationError("IMMEDIATE_INTERVAL_MINUTES must be positive", nil)
	}
	if s.ImportIntervalMinutes < 1 {
		return errors.NewConfigurationError("IMPORT_INTERVAL_MINUTES must be positive", nil)
	}
	if s.SendWindowMinutes < 1 || s.SendWindowMinutes > 1440 {
		return errors.NewConfigurationError("SEND_WINDOW_MINUTES must be between 1 and 1440", nil)
	}
	return nil
}
