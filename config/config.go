// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"errors"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	validEnvironments = []string{"local", "production"}
	validLogLevels    = []string{"debug", "info", "warn", "error", "fatal"}
	validDrivers      = []string{"postgres", "sqlite"}
	validTransports   = []string{"api", "smtp"}
)

var (
	configDir = pflag.String("config-dir", "configuration", "Directory holding base.yaml and the per-environment files")
	logLevel  = pflag.String("log-level", "", "Overrides application.log_level")
)

type Settings struct {
	Environment string              `mapstructure:"-"`
	Application ApplicationSettings `mapstructure:"application"`
	Database    DatabaseSettings    `mapstructure:"database"`
	EmailClient EmailClientSettings `mapstructure:"email_client"`
}

type ApplicationSettings struct {
	Host                  string            `mapstructure:"host"`
	Port                  int               `mapstructure:"port"`
	BaseURL               string            `mapstructure:"base_url"`
	LogLevel              string            `mapstructure:"log_level"`
	MaxBodyBytes          int64             `mapstructure:"max_body_bytes"`
	CORSOrigins           []string          `mapstructure:"cors_origins"`
	RateLimit             RateLimitSettings `mapstructure:"rate_limit"`
	PendingReportInterval time.Duration     `mapstructure:"pending_report_interval"`
}

type RateLimitSettings struct {
	RequestsPerSecond int `mapstructure:"requests_per_second"`
	Burst             int `mapstructure:"burst"`
}

// Addr returns the host:port pair the HTTP server binds to.
func (a ApplicationSettings) Addr() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

type DatabaseSettings struct {
	Driver       string `mapstructure:"driver"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	DatabaseName string `mapstructure:"database_name"`
	RequireSSL   bool   `mapstructure:"require_ssl"`
	Path         string `mapstructure:"path"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// DSN returns the connection string for the configured database
func (d DatabaseSettings) DSN() string {
	if d.Driver == "sqlite" {
		return d.Path
	}

	return d.DSNWithoutDB() + " dbname=" + dsnValue(d.DatabaseName)
}

// DSNWithoutDB points at the server without selecting a database, which
// is what is needed to CREATE DATABASE before the real one exists.
func (d DatabaseSettings) DSNWithoutDB() string {
	sslMode := "prefer"
	if d.RequireSSL {
		sslMode = "require"
	}

	return fmt.Sprintf("host=%s port=%d user=%s password=%s sslmode=%s",
		dsnValue(d.Host), d.Port, dsnValue(d.Username), dsnValue(d.Password), sslMode)
}

// dsnValue single-quotes a libpq keyword value that would otherwise be
// empty or split by the parser
func dsnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, " \t\n\r'\\") {
		return v
	}

	v = strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v)
	return "'" + v + "'"
}

type EmailClientSettings struct {
	Transport           string       `mapstructure:"transport"`
	BaseURL             string       `mapstructure:"base_url"`
	SenderEmail         string       `mapstructure:"sender_email"`
	AuthorizationToken  string       `mapstructure:"authorization_token"`
	TimeoutMilliseconds int          `mapstructure:"timeout_milliseconds"`
	SMTP                SMTPSettings `mapstructure:"smtp"`
}

func (e EmailClientSettings) Timeout() time.Duration {
	return time.Duration(e.TimeoutMilliseconds) * time.Millisecond
}

type SMTPSettings struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// Setup parses command line flags, loads a .env file if one exists and
// reads the configuration for the environment selected by APP_ENV.
// Function will return an error if something is critically wrong and
// the application can't run because of that.
func Setup() (*Settings, error) {
	pflag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file, %w", err)
	}

	s, err := Load(*configDir, os.Getenv("APP_ENV"))
	if err != nil {
		return nil, err
	}

	if *logLevel != "" {
		s.Application.LogLevel = *logLevel
	}

	return s, validate(s)
}

// Load reads base.yaml from dir, merges <env>.yaml on top of it and then
// applies APP_ prefixed environment overrides, using "__" to separate
// nested keys (APP_DATABASE__PASSWORD -> database.password).
func Load(dir, env string) (*Settings, error) {
	env = strings.ToLower(strings.TrimSpace(env))
	if env == "" {
		env = "local"
	}

	if !slices.Contains(validEnvironments, env) {
		return nil, fmt.Errorf("%s is not a supported environment, use either 'local' or 'production'", env)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	v.SetConfigFile(filepath.Join(dir, "base.yaml"))
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read base configuration, %w", err)
	}

	v.SetConfigFile(filepath.Join(dir, env+".yaml"))
	if err := v.MergeInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read %s configuration, %w", env, err)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode configuration, %w", err)
	}

	s.Environment = env
	s.Application.BaseURL = strings.TrimRight(s.Application.BaseURL, "/")
	s.EmailClient.Transport = strings.ToLower(s.EmailClient.Transport)
	s.Database.Driver = strings.ToLower(s.Database.Driver)

	return &s, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("application.host", "127.0.0.1")
	v.SetDefault("application.port", 8000)
	v.SetDefault("application.base_url", "http://127.0.0.1:8000")
	v.SetDefault("application.log_level", "info")
	v.SetDefault("application.max_body_bytes", 1<<20)
	v.SetDefault("application.cors_origins", []string{})
	v.SetDefault("application.rate_limit.requests_per_second", 5)
	v.SetDefault("application.rate_limit.burst", 10)
	v.SetDefault("application.pending_report_interval", time.Hour)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.username", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database_name", "newsletter")
	v.SetDefault("database.require_ssl", false)
	v.SetDefault("database.path", "newsletter.db")
	v.SetDefault("database.max_open_conns", 10)

	v.SetDefault("email_client.transport", "api")
	v.SetDefault("email_client.base_url", "")
	v.SetDefault("email_client.sender_email", "")
	v.SetDefault("email_client.authorization_token", "")
	v.SetDefault("email_client.timeout_milliseconds", 10000)
	v.SetDefault("email_client.smtp.host", "")
	v.SetDefault("email_client.smtp.port", 587)
	v.SetDefault("email_client.smtp.username", "")
	v.SetDefault("email_client.smtp.password", "")
}

func validate(s *Settings) error {
	if !slices.Contains(validLogLevels, s.Application.LogLevel) {
		return errors.New("invalid log level provided")
	}

	if s.Application.Port <= 0 {
		return errors.New("invalid port provided")
	}

	if s.Application.BaseURL == "" {
		return errors.New("application.base_url can't be empty")
	}

	if s.Application.MaxBodyBytes <= 0 {
		return errors.New("application.max_body_bytes must be bigger than 0")
	}

	if !slices.Contains(validDrivers, s.Database.Driver) {
		return errors.New("invalid database driver provided")
	}

	if s.Database.Driver == "postgres" && s.Database.DatabaseName == "" {
		return errors.New("database.database_name can't be empty")
	}

	if !slices.Contains(validTransports, s.EmailClient.Transport) {
		return errors.New("invalid email transport provided")
	}

	if _, err := mail.ParseAddress(s.EmailClient.SenderEmail); err != nil {
		return fmt.Errorf("invalid email_client.sender_email, %w", err)
	}

	if s.EmailClient.TimeoutMilliseconds <= 0 {
		return errors.New("email_client.timeout_milliseconds must be bigger than 0")
	}

	switch s.EmailClient.Transport {
	case "api":
		if s.EmailClient.BaseURL == "" {
			return errors.New("email_client.base_url can't be empty")
		}
	case "smtp":
		if s.EmailClient.SMTP.Host == "" {
			return errors.New("email_client.smtp.host can't be empty")
		}
	}

	return nil
}
