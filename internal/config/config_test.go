package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Port:      "8480",
			JWTSecret: "secure-secret-at-least-32-chars-long",
			DBDriver:  "postgres",
			DBSSLMode: "disable",
			Env:       "development",
		}
	}

	t.Run("development defaults pass", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("missing port", func(t *testing.T) {
		c := base()
		c.Port = ""
		assert.Error(t, c.Validate())
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		c := base()
		c.JWTSecret = ""
		assert.Error(t, c.Validate())
	})

	t.Run("unknown driver", func(t *testing.T) {
		c := base()
		c.DBDriver = "oracle"
		assert.Error(t, c.Validate())
	})

	t.Run("sqlite driver needs no db password in production", func(t *testing.T) {
		c := base()
		c.Env = "production"
		c.DBDriver = "sqlite"
		c.DBPath = "framez.db"
		assert.NoError(t, c.Validate())
	})
}

func TestConfig_ValidateProduction(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"default jwt secret rejected", func(c *Config) {
			c.JWTSecret = "your-secret-key-change-in-production"
		}, true},
		{"short jwt secret rejected", func(c *Config) {
			c.JWTSecret = "short"
		}, true},
		{"default db password rejected", func(c *Config) {
			c.DBPassword = "password"
		}, true},
		{"strong settings accepted", func(c *Config) {}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				Port:       "8480",
				JWTSecret:  "secure-secret-at-least-32-chars-long",
				DBDriver:   "postgres",
				DBPassword: "secure-password",
				DBSSLMode:  "require",
				Env:        "production",
			}
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
