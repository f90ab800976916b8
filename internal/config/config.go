// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	JWTSecret                string  `mapstructure:"JWT_SECRET"`
	TokenTTLHours            int     `mapstructure:"TOKEN_TTL_HOURS"`
	Port                     string  `mapstructure:"PORT"`
	Env                      string  `mapstructure:"APP_ENV"`
	DBDriver                 string  `mapstructure:"DB_DRIVER"`
	DBPath                   string  `mapstructure:"DB_PATH"`
	DBHost                   string  `mapstructure:"DB_HOST"`
	DBPort                   string  `mapstructure:"DB_PORT"`
	DBUser                   string  `mapstructure:"DB_USER"`
	DBPassword               string  `mapstructure:"DB_PASSWORD"`
	DBName                   string  `mapstructure:"DB_NAME"`
	DBSSLMode                string  `mapstructure:"DB_SSLMODE"`
	DBMaxOpenConns           int     `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns           int     `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetimeMinutes int     `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	RedisURL                 string  `mapstructure:"REDIS_URL"`
	AllowedOrigins           string  `mapstructure:"ALLOWED_ORIGINS"`
	Timezone                 string  `mapstructure:"TIMEZONE"`
	StreakMaxLookbackDays    int     `mapstructure:"STREAK_MAX_LOOKBACK_DAYS"`
	SeedPredefinedOnStart    bool    `mapstructure:"SEED_PREDEFINED_ON_START"`
	TracingEnabled           bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter          string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint             string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampleRatio       float64 `mapstructure:"TRACING_SAMPLE_RATIO"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base config file is optional.
	_ = viper.ReadInConfig()

	env := strings.ToLower(strings.TrimSpace(viper.GetString("APP_ENV")))
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "test" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	viper.SetDefault("PORT", "8000")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("TOKEN_TTL_HOURS", 24*7)
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_PATH", "neuroflow.db")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "neuroflow")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 5)
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("TIMEZONE", "UTC")
	viper.SetDefault("STREAK_MAX_LOOKBACK_DAYS", 3650)
	viper.SetDefault("SEED_PREDEFINED_ON_START", false)
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLE_RATIO", 1.0)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.DBSSLMode = strings.ToLower(strings.TrimSpace(c.DBSSLMode))
	c.TracingExporter = strings.ToLower(strings.TrimSpace(c.TracingExporter))
	c.Timezone = strings.TrimSpace(c.Timezone)
}

// IsProduction reports whether the config targets a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Location resolves the configured timezone used for calendar-day boundaries.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// TokenTTL returns the lifetime of issued access tokens.
func (c *Config) TokenTTL() time.Duration {
	if c.TokenTTLHours <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver)
	}
	if c.DBDriver == "sqlite" && c.DBPath == "" {
		return errors.New("DB_PATH is required for the sqlite driver")
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("TIMEZONE %q is not a valid IANA zone: %w", c.Timezone, err)
		}
	}
	if c.StreakMaxLookbackDays <= 0 {
		return errors.New("STREAK_MAX_LOOKBACK_DAYS must be positive")
	}

	if c.IsProduction() {
		if c.JWTSecret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBDriver == "postgres" && (c.DBPassword == "password" || c.DBPassword == "") {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	} else if len(c.JWTSecret) < 32 {
		log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
	}

	return nil
}
