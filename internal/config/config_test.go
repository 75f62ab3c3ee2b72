package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:           "3000",
		BackendURL:     "http://localhost:8080",
		RedisURL:       "localhost:6379",
		SessionCookie:  "amumal_sid",
		Env:            "development",
		RequestTimeout: 10,
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRejectsMissingFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing port", func(c *Config) { c.Port = "" }, "PORT is required"},
		{"missing backend url", func(c *Config) { c.BackendURL = "" }, "BACKEND_URL is required"},
		{"backend url without scheme", func(c *Config) { c.BackendURL = "localhost:8080" }, "must be an http(s) URL"},
		{"missing session cookie", func(c *Config) { c.SessionCookie = "" }, "SESSION_COOKIE is required"},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, "must be positive"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestValidateAllowsHTTPSProduction(t *testing.T) {
	cfg := validConfig()
	cfg.Env = "production"
	cfg.BackendURL = "https://api.example.com"
	cfg.CookieSecure = true
	require.NoError(t, cfg.Validate())
}
