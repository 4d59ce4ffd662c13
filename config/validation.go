package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// ValidateConfig checks the configuration against what its environment needs.
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	require := func(field, value, msg string) {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, ValidationError{Field: field, Message: msg})
		}
	}

	require("server_port", cfg.ServerPort, "is required")
	require("jwt_secret", cfg.JWTSecret, "is required")

	switch cfg.DBDriver {
	case "postgres":
		require("db_host", cfg.DBHost, "is required for postgres")
		require("db_name", cfg.DBName, "is required for postgres")
		if cfg.Environment == Production || cfg.Environment == CI {
			require("db_password", cfg.DBPassword, "is required in "+string(cfg.Environment))
		}
	case "sqlite":
		require("sqlite_path", cfg.SQLitePath, "is required for sqlite")
		if cfg.Environment == Production {
			errs = append(errs, ValidationError{Field: "db_driver", Message: "sqlite is not supported in production"})
		}
	default:
		errs = append(errs, ValidationError{Field: "db_driver", Message: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if cfg.Environment == Production {
		require("redis_url", cfg.RedisURL, "is required in production")
	}
	if cfg.VerdictCacheTTL < 0 {
		errs = append(errs, ValidationError{Field: "verdict_cache_ttl", Message: "must not be negative"})
	}
	if cfg.RateLimitRequests < 0 {
		errs = append(errs, ValidationError{Field: "rate_limit_requests", Message: "must not be negative"})
	}
	if cfg.SubstitutionsBucket != "" && cfg.SubstitutionsKey == "" {
		errs = append(errs, ValidationError{Field: "substitutions_key", Message: "is required when substitutions_bucket is set"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
