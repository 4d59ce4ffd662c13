package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Database configuration. DBDriver is "postgres" or "sqlite".
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Migrations
	MigrationsDir string
	AutoMigrate   bool

	// Redis configuration
	RedisURL      string
	RedisPassword string

	// JWT configuration
	JWTSecret string

	// Logging
	LogLevel  string
	LogFormat string

	// Safety validation
	VerdictCacheTTL     time.Duration
	RateLimitRequests   int
	RateLimitWindow     time.Duration
	SubstitutionsBucket string
	SubstitutionsKey    string
	SubstitutionsFile   string
	AWSRegion           string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", "8080")
	v.SetDefault("cors_origins", "http://localhost:3000")
	v.SetDefault("db_driver", "postgres")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_name", "alchemorsel")
	v.SetDefault("db_ssl_mode", "disable")
	v.SetDefault("sqlite_path", "alchemorsel.db")
	v.SetDefault("migrations_dir", "migrations")
	v.SetDefault("auto_migrate", true)
	v.SetDefault("redis_url", "redis://localhost:6379")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("verdict_cache_ttl", "24h")
	v.SetDefault("rate_limit_requests", 60)
	v.SetDefault("rate_limit_window", "1m")
	v.SetDefault("substitutions_key", "substitutions.json")
	v.SetDefault("aws_region", "us-east-1")
}

// LoadConfig reads configuration from an optional config file, environment
// variables and, outside CI, the secrets directory.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/alchemorsel")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Environment:         env,
		ServerHost:          v.GetString("server_host"),
		ServerPort:          v.GetString("server_port"),
		CORSOrigins:         splitList(v.GetString("cors_origins")),
		DBDriver:            strings.ToLower(v.GetString("db_driver")),
		DBHost:              v.GetString("db_host"),
		DBPort:              v.GetString("db_port"),
		DBUser:              v.GetString("db_user"),
		DBName:              v.GetString("db_name"),
		DBSSLMode:           v.GetString("db_ssl_mode"),
		SQLitePath:          v.GetString("sqlite_path"),
		MigrationsDir:       v.GetString("migrations_dir"),
		AutoMigrate:         v.GetBool("auto_migrate"),
		RedisURL:            v.GetString("redis_url"),
		LogLevel:            v.GetString("log_level"),
		LogFormat:           v.GetString("log_format"),
		VerdictCacheTTL:     v.GetDuration("verdict_cache_ttl"),
		RateLimitRequests:   v.GetInt("rate_limit_requests"),
		RateLimitWindow:     v.GetDuration("rate_limit_window"),
		SubstitutionsBucket: v.GetString("substitutions_bucket"),
		SubstitutionsKey:    v.GetString("substitutions_key"),
		SubstitutionsFile:   v.GetString("substitutions_file"),
		AWSRegion:           v.GetString("aws_region"),
	}

	switch env {
	case CI:
		loadCISecrets(cfg)
	case Development, Test, Production:
		loadSecrets(cfg, v)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadCISecrets reads credentials from the CI runner's environment.
func loadCISecrets(cfg *Config) {
	cfg.DBPassword = os.Getenv("TEST_DB_PASSWORD")
	cfg.JWTSecret = os.Getenv("TEST_JWT_SECRET")
	cfg.RedisPassword = os.Getenv("TEST_REDIS_PASSWORD")
	if url := os.Getenv("TEST_REDIS_URL"); url != "" {
		cfg.RedisURL = url
	}
}

// loadSecrets reads credentials from the secrets directory. In development
// and test an environment variable may stand in for a missing secret file.
func loadSecrets(cfg *Config, v *viper.Viper) {
	secret := func(name string) string {
		if value := readSecret(name); value != "" {
			return value
		}
		if cfg.Environment != Production {
			return v.GetString(name)
		}
		return ""
	}

	if user := secret("db_user"); user != "" {
		cfg.DBUser = user
	}
	cfg.DBPassword = secret("db_password")
	cfg.JWTSecret = secret("jwt_secret")
	cfg.RedisPassword = secret("redis_password")
}

// DSN returns the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
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

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
