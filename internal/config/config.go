// Package config provides functionality for managing configuration options
// for the application using command-line flags, a YAML config file, a .env
// file and environment variables.
package config

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// Options holds the configuration values for the application.
type Options struct {
	// Address defines the server's listening address (ip:port).
	Address string `yaml:"address" env:"SERVER_ADDRESS, overwrite"`

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string `yaml:"database_dsn" env:"DATABASE_DSN, overwrite"`

	// Config is the path to the YAML config file.
	Config string `yaml:"-" env:"CONFIG, overwrite"`

	// EnvFile is the path to an optional .env file.
	EnvFile string `yaml:"-"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL, overwrite"`

	// FieldKey keys the encryption of stored credentials.
	FieldKey string `yaml:"field_key" env:"FIELD_KEY, overwrite"`

	// Redis holds the optional Redis connection; an empty address keeps
	// sessions and the import report in process memory.
	Redis RedisOptions `yaml:"redis" env:", prefix=REDIS_"`

	// SMTP configures suggestion notifications; an empty host disables them.
	SMTP SMTPOptions `yaml:"smtp" env:", prefix=SMTP_"`

	// TLSCertFile and TLSKeyFile switch the listener to HTTPS; both or
	// neither must be set.
	TLSCertFile string `yaml:"tls_cert_file" env:"TLS_CERT_FILE, overwrite"`
	TLSKeyFile  string `yaml:"tls_key_file" env:"TLS_KEY_FILE, overwrite"`

	// TrustProxy derives client addresses from X-Forwarded-For and
	// related headers. Leave it off unless a reverse proxy sets them.
	TrustProxy bool `yaml:"trust_proxy" env:"TRUST_PROXY, overwrite"`

	SessionTTL            time.Duration `yaml:"session_ttl" env:"SESSION_TTL, overwrite"`
	MaxFailedAttempts     int           `yaml:"max_failed_attempts" env:"MAX_FAILED_ATTEMPTS, overwrite"`
	LockoutDuration       time.Duration `yaml:"lockout_duration" env:"LOCKOUT_DURATION, overwrite"`
	LoginFailureDelay     time.Duration `yaml:"login_failure_delay" env:"LOGIN_FAILURE_DELAY, overwrite"`
	TOTPIssuer            string        `yaml:"totp_issuer" env:"TOTP_ISSUER, overwrite"`
	DiscountSweepInterval time.Duration `yaml:"discount_sweep_interval" env:"DISCOUNT_SWEEP_INTERVAL, overwrite"`
}

// RedisOptions addresses the Redis server.
type RedisOptions struct {
	Address  string `yaml:"address" env:"ADDRESS, overwrite"`
	Password string `yaml:"password" env:"PASSWORD, overwrite"`
	DB       int    `yaml:"db" env:"DB, overwrite"`
}

// SMTPOptions addresses the outgoing mail server.
type SMTPOptions struct {
	Host     string `yaml:"host" env:"HOST, overwrite"`
	Port     string `yaml:"port" env:"PORT, overwrite"`
	User     string `yaml:"user" env:"USER, overwrite"`
	Password string `yaml:"password" env:"PASSWORD, overwrite"`
	From     string `yaml:"from" env:"FROM, overwrite"`
	// AdminEmail receives the notifications.
	AdminEmail string `yaml:"admin_email" env:"ADMIN_EMAIL, overwrite"`
}

func defaults() *Options {
	return &Options{
		Address:               "localhost:8080",
		Config:                "config.yaml",
		EnvFile:               ".env",
		LogLevel:              "info",
		SessionTTL:            2 * time.Hour,
		MaxFailedAttempts:     5,
		LockoutDuration:       30 * time.Minute,
		LoginFailureDelay:     2 * time.Second,
		TOTPIssuer:            "GophStore",
		DiscountSweepInterval: time.Minute,
		SMTP:                  SMTPOptions{Port: "587"},
	}
}

// Parse builds the options from, in increasing priority: defaults,
// command-line flags, the config file, the .env file and the process
// environment. Missing config and .env files are ignored.
func Parse(args []string) (*Options, error) {
	return parse(args, envconfig.OsLookuper())
}

func parse(args []string, env envconfig.Lookuper) (*Options, error) {
	options := defaults()

	flags := flag.NewFlagSet("server", flag.ContinueOnError)
	flags.StringVar(&options.Address, "a", options.Address, "run on ip:port server")
	flags.StringVar(&options.DatabaseDSN, "d", options.DatabaseDSN, "db address")
	flags.StringVar(&options.Config, "config", options.Config, "path to config file")
	flags.StringVar(&options.Config, "c", options.Config, "path to config file (shorthand)")
	flags.StringVar(&options.EnvFile, "env-file", options.EnvFile, "path to .env file")
	flags.StringVar(&options.LogLevel, "l", options.LogLevel, "log level")
	flags.StringVar(&options.Redis.Address, "r", options.Redis.Address, "redis address")
	flags.StringVar(&options.FieldKey, "k", options.FieldKey, "credential encryption key")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	dotenv, err := readEnvFile(options.EnvFile)
	if err != nil {
		return nil, err
	}
	env = envconfig.MultiLookuper(env, envconfig.MapLookuper(dotenv))

	// The config file path itself may come from the environment.
	if path, ok := env.Lookup("CONFIG"); ok && path != "" {
		options.Config = path
	}
	if err := readConfigFile(options.Config, options); err != nil {
		return nil, err
	}

	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   options,
		Lookuper: env,
	}); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := options.Validate(); err != nil {
		return nil, err
	}
	return options, nil
}

func readEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error while reading env file: %w", err)
	}
	return values, nil
}

func readConfigFile(path string, options *Options) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, options); err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}
	return nil
}

// Validate reports settings the server cannot start with.
func (o *Options) Validate() error {
	switch {
	case o.DatabaseDSN == "":
		return errors.New("database DSN is required")
	case o.FieldKey == "":
		return errors.New("field encryption key is required")
	case o.SessionTTL <= 0:
		return errors.New("session TTL must be positive")
	case o.MaxFailedAttempts <= 0:
		return errors.New("max failed attempts must be positive")
	case o.DiscountSweepInterval <= 0:
		return errors.New("discount sweep interval must be positive")
	case (o.TLSCertFile == "") != (o.TLSKeyFile == ""):
		return errors.New("TLS needs both a certificate and a key file")
	}
	return nil
}
