package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:                  "8000",
		JWTSecret:             "secure-secret-at-least-32-chars-long",
		DBDriver:              "sqlite",
		DBPath:                ":memory:",
		DBPassword:            "secure-password",
		Timezone:              "UTC",
		StreakMaxLookbackDays: 365,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"valid sqlite", func(*Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"sqlite without path", func(c *Config) { c.DBPath = "" }, true},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, true},
		{"zero lookback", func(c *Config) { c.StreakMaxLookbackDays = 0 }, true},
		{"production default secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = defaultJWTSecret
		}, true},
		{"production short secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "short"
		}, true},
		{"production postgres weak password", func(c *Config) {
			c.Env = "production"
			c.DBDriver = "postgres"
			c.DBPassword = "password"
		}, true},
		{"production postgres strong password", func(c *Config) {
			c.Env = "production"
			c.DBDriver = "postgres"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Location(t *testing.T) {
	c := validConfig()
	assert.Equal(t, time.UTC, c.Location())

	c.Timezone = "Europe/Vilnius"
	loc := c.Location()
	assert.Equal(t, "Europe/Vilnius", loc.String())
}

func TestConfig_TokenTTL(t *testing.T) {
	c := validConfig()
	assert.Equal(t, 7*24*time.Hour, c.TokenTTL())
	c.TokenTTLHours = 2
	assert.Equal(t, 2*time.Hour, c.TokenTTL())
}

func TestLoadConfig_Normalization(t *testing.T) {
	defer viper.Reset()

	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "  SQLite ")
	t.Setenv("JWT_SECRET", "test-secret-key-12345678901234567890")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, "test", c.Env)
	assert.Equal(t, 3650, c.StreakMaxLookbackDays)
	assert.Equal(t, "8000", c.Port)
}
