// Package config loads the service configuration from the environment.
//
// Variables use the COMPANIES_ prefix and dotted keys for nesting, e.g.
//
//	COMPANIES_SERVER.PORT=8080         -> server.port
//	COMPANIES_DATABASE.DRIVER=sqlite   -> database.driver
//
// A `.env` file in the working directory is loaded first when present.
// Values are validated with go-playground/validator struct tags plus the
// cross-field rules in Validate, so the process fails fast on bad config.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Loads .env into the process environment before anything reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "COMPANIES_"

// ServiceName tags logs, traces and metrics.
const ServiceName = "company-tracker"

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the root configuration object.
//
// Observability is a pointer so a missing block can be told apart from an
// empty one; defaults are injected before unmarshalling.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Notifications NotificationsConfig  `koanf:"notifications"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig holds the HTTP listener settings. Timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
	// RateLimit is the sustained requests per second allowed per client IP.
	RateLimit float64 `koanf:"rate_limit" validate:"gte=0"`
	// TrustedProxies are the CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []string `koanf:"trusted_proxies" validate:"dive,cidr"`
}

// DatabaseConfig selects the store and carries its connection parameters.
// The PostgreSQL fields are only required when Driver is "postgres".
type DatabaseConfig struct {
	Driver          string `koanf:"driver" validate:"required,oneof=postgres sqlite"`
	Host            string `koanf:"host" validate:"required_if=Driver postgres"`
	Port            int    `koanf:"port" validate:"required_if=Driver postgres"`
	User            string `koanf:"user" validate:"required_if=Driver postgres"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name" validate:"required_if=Driver postgres"`
	SSLMode         string `koanf:"ssl_mode" validate:"required_if=Driver postgres"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"min=1"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"min=0"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"min=0"`
	SQLitePath      string `koanf:"sqlite_path" validate:"required_if=Driver sqlite"`
}

// RedisConfig is optional. Without an address the service runs with no
// background worker and the health check skips redis.
type RedisConfig struct {
	Address string `koanf:"address" validate:"omitempty,hostname_port"`
}

type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
}

// NotificationsConfig controls the "company created" e-mail.
type NotificationsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Recipient string `koanf:"recipient" validate:"omitempty,email"`
	Sender    string `koanf:"sender" validate:"omitempty"`
}

// LoadConfig reads, validates and returns the configuration.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, any) {
		key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

		// Lists come in comma separated.
		if key == "server.cors_allowed_origins" || key == "server.trusted_proxies" {
			return key, splitList(value)
		}

		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := defaultConfig()
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Validate(); err != nil {
		return nil, err
	}

	return mainConfig, nil
}

// Validate applies the rules struct tags can't express.
func (c *Config) Validate() error {
	if c.Notifications.Enabled {
		var problems []string
		if c.Redis.Address == "" {
			problems = append(problems, "redis.address")
		}
		if c.Integration.ResendAPIKey == "" {
			problems = append(problems, "integration.resend_api_key")
		}
		if c.Notifications.Recipient == "" {
			problems = append(problems, "notifications.recipient")
		}
		if len(problems) > 0 {
			return fmt.Errorf("notifications enabled but missing: %s", strings.Join(problems, ", "))
		}
	}

	if c.Observability == nil {
		return errors.New("observability config is missing")
	}

	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("invalid observability config: %w", err)
	}

	return nil
}

// IsLocal reports whether the service runs on a developer machine.
func (c *Config) IsLocal() bool {
	return c.Primary.Env == "local"
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  60,
			RateLimit:    20,
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    25,
			ConnMaxLifetime: 300,
			ConnMaxIdleTime: 300,
		},
		Notifications: NotificationsConfig{
			Sender: "Company Tracker <onboarding@resend.dev>",
		},
		Observability: DefaultObservabilityConfig(),
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
