// Package config loads service configuration from defaults, an optional
// registry.yaml, REGISTRY_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Events   EventsConfig   `mapstructure:"events"`
	LogLevel string         `mapstructure:"log_level"`
}

// ServerConfig captures HTTP server level configuration.
type ServerConfig struct {
	Addr              string        `mapstructure:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig selects the store. Driver "memory" keeps everything in
// process; sqlite, postgres, pgx and mysql go through bun.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// AuthConfig configures bearer token verification.
type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	Issuer     string        `mapstructure:"issuer"`
	Audience   string        `mapstructure:"audience"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	// LoginAttempts failed logins inside LoginWindow lock an email and client
	// IP pair for LoginLockout.
	LoginAttempts int           `mapstructure:"login_attempts"`
	LoginWindow   time.Duration `mapstructure:"login_window"`
	LoginLockout  time.Duration `mapstructure:"login_lockout"`
	// Bypass treats every caller as authenticated with every scope.
	// Local development only.
	Bypass bool `mapstructure:"bypass"`
}

// RedisConfig configures the shared token revocation list. Empty URL keeps
// revocations in memory.
type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// EventsConfig selects where committed audit events are relayed.
type EventsConfig struct {
	Broker        string        `mapstructure:"broker"`
	KafkaBrokers  []string      `mapstructure:"kafka_brokers"`
	Topic         string        `mapstructure:"topic"`
	NATSURL       string        `mapstructure:"nats_url"`
	SubjectPrefix string        `mapstructure:"subject_prefix"`
	RelayInterval time.Duration `mapstructure:"relay_interval"`
	RelayBatch    int           `mapstructure:"relay_batch"`
}

const (
	BrokerNone  = "none"
	BrokerKafka = "kafka"
	BrokerNATS  = "nats"
)

// DevSigningKey is used when no signing key is configured. Never use it in production.
const DevSigningKey = "dev-secret-key-change-in-production"

// Defaults returns the default value of every key.
func Defaults() map[string]any {
	return map[string]any{
		"server.addr":                ":8080",
		"server.read_header_timeout": 5 * time.Second,
		"server.request_timeout":     30 * time.Second,
		"server.shutdown_timeout":    10 * time.Second,
		"database.driver":            "memory",
		"database.dsn":               "",
		"database.max_open_conns":    25,
		"database.max_idle_conns":    25,
		"database.conn_max_lifetime": 5 * time.Minute,
		"database.auto_migrate":      true,
		"auth.signing_key":           DevSigningKey,
		"auth.issuer":                "drone-registry",
		"auth.audience":              "drone-registry-api",
		"auth.token_ttl":             time.Hour,
		"auth.login_attempts":        5,
		"auth.login_window":          15 * time.Minute,
		"auth.login_lockout":         15 * time.Minute,
		"auth.bypass":                false,
		"redis.url":                  "",
		"redis.pool_size":            10,
		"redis.min_idle_conns":       2,
		"redis.dial_timeout":         5 * time.Second,
		"redis.read_timeout":         3 * time.Second,
		"redis.write_timeout":        3 * time.Second,
		"events.broker":              BrokerNone,
		"events.kafka_brokers":       []string{},
		"events.topic":               "registry.audit",
		"events.nats_url":            "",
		"events.subject_prefix":      "registry.audit",
		"events.relay_interval":      2 * time.Second,
		"events.relay_batch":         100,
		"log_level":                  "info",
	}
}

// Load reads configuration for cmd. Flags bound on cmd override environment
// variables, which override the config file, which overrides defaults.
func Load(cmd *cobra.Command, configFile string) (Config, error) {
	var c Config
	v := viper.New()
	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	v.SetConfigName("registry")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/drone-registry")
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("registry")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, fmt.Errorf("bind flags: %w", err)
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}
	return c, c.Validate()
}

// Validate rejects combinations the service cannot start with.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case "memory":
	case "sqlite", "postgres", "pgx", "mysql":
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for driver %s", c.Database.Driver)
		}
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	switch c.Events.Broker {
	case BrokerNone:
	case BrokerKafka:
		if len(c.Events.KafkaBrokers) == 0 {
			return errors.New("events.kafka_brokers is required for the kafka broker")
		}
	case BrokerNATS:
		if c.Events.NATSURL == "" {
			return errors.New("events.nats_url is required for the nats broker")
		}
	default:
		return fmt.Errorf("unsupported events.broker %q", c.Events.Broker)
	}
	if c.Auth.SigningKey == "" && !c.Auth.Bypass {
		return errors.New("auth.signing_key is required")
	}
	return nil
}
