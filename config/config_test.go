package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			BaseURL:        "https://5280sourcegroup.com",
			AllowedOrigins: []string{"https://5280sourcegroup.com"},
		},
		FormToken: FormTokenConfig{
			FormTTLMinutes:    120,
			ConfirmTTLMinutes: 10,
		},
	}
}

// chdirTemp moves into an empty directory so a developer .env file cannot leak into tests
func chdirTemp(t *testing.T) {
	t.Helper()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(originalDir) })
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected bool
	}{
		{
			name:     "development environment",
			config:   &Config{Server: ServerConfig{AppEnv: "development"}},
			expected: true,
		},
		{
			name:     "debug gin mode",
			config:   &Config{Server: ServerConfig{GinMode: "debug"}},
			expected: true,
		},
		{
			name:     "production release",
			config:   &Config{Server: ServerConfig{GinMode: "release", AppEnv: "production"}},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.IsDevelopment())
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	assert.True(t, (&Config{Server: ServerConfig{AppEnv: "production"}}).IsProduction())
	assert.False(t, (&Config{Server: ServerConfig{AppEnv: "staging"}}).IsProduction())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *Config)
		errorMsg string
	}{
		{
			name:   "valid minimal config",
			mutate: func(c *Config) {},
		},
		{
			name:     "missing port",
			mutate:   func(c *Config) { c.Server.Port = "" },
			errorMsg: "PORT is required",
		},
		{
			name:     "missing origins",
			mutate:   func(c *Config) { c.Server.AllowedOrigins = nil },
			errorMsg: "ALLOWED_CORS_ORIGINS is required",
		},
		{
			name: "storage credentials without bucket",
			mutate: func(c *Config) {
				c.Storage.AccessKeyID = "key"
				c.Storage.SecretAccessKey = "secret"
			},
			errorMsg: "STORAGE_BUCKET_NAME is required",
		},
		{
			name: "mailgun without sender",
			mutate: func(c *Config) {
				c.Mail.MailgunDomain = "mg.example.com"
				c.Mail.MailgunAPIKey = "key"
				c.Mail.NotifyEmail = "order@5280sourcegroup.com"
			},
			errorMsg: "MAIL_FROM_EMAIL is required",
		},
		{
			name: "short form token secret",
			mutate: func(c *Config) {
				c.FormToken.Secret = "short"
				c.FormToken.RequireFormToken = true
			},
			errorMsg: "FORM_TOKEN_SECRET must be at least 32 characters",
		},
		{
			name:     "zero token ttl",
			mutate:   func(c *Config) { c.FormToken.ConfirmTTLMinutes = 0 },
			errorMsg: "token TTLs must be positive",
		},
		{
			name:     "profiling without endpoint",
			mutate:   func(c *Config) { c.Profiling.Enabled = true },
			errorMsg: "O11Y_PROFILING_ENDPOINT is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestIntegrationToggles(t *testing.T) {
	assert.False(t, DatabaseConfig{}.Enabled())
	assert.True(t, DatabaseConfig{URL: "postgres://localhost/quotes"}.Enabled())

	assert.False(t, StorageConfig{AccessKeyID: "a", SecretAccessKey: "b"}.Enabled())
	assert.True(t, StorageConfig{AccessKeyID: "a", SecretAccessKey: "b", BucketName: "quotes"}.Enabled())

	assert.False(t, MailConfig{MailgunDomain: "mg.example.com"}.Enabled())
	assert.True(t, MailConfig{MailgunDomain: "mg.example.com", MailgunAPIKey: "key"}.Enabled())
}

func TestLoad_WithDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "production", cfg.Server.AppEnv)
	assert.Equal(t, []string{"https://5280sourcegroup.com", "https://www.5280sourcegroup.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "order@5280sourcegroup.com", cfg.Mail.NotifyEmail)
	assert.Equal(t, 120, cfg.FormToken.FormTTLMinutes)
	assert.Equal(t, 10, cfg.FormToken.ConfirmTTLMinutes)
	assert.False(t, cfg.FormToken.RequireFormToken)
	assert.False(t, cfg.Database.Enabled())
	assert.False(t, cfg.Storage.Enabled())
	assert.False(t, cfg.Mail.Enabled())
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	chdirTemp(t)

	t.Setenv("PORT", "9000")
	t.Setenv("APP_ENV", "development")
	t.Setenv("ALLOWED_CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/quotes")
	t.Setenv("STORAGE_ACCESS_KEY_ID", "key")
	t.Setenv("STORAGE_SECRET_ACCESS_KEY", "secret")
	t.Setenv("STORAGE_BUCKET_NAME", "quote-attachments")
	t.Setenv("FORM_TOKEN_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("CONTENT_FILE", "/etc/site/content.yaml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Database.Enabled())
	assert.True(t, cfg.Storage.Enabled())
	assert.Equal(t, "auto", cfg.Storage.Region)
	assert.True(t, cfg.FormToken.RequireFormToken)
	assert.Equal(t, "/etc/site/content.yaml", cfg.Content.File)
}

func TestLoad_ValidationFailure(t *testing.T) {
	chdirTemp(t)
	t.Setenv("FORM_TOKEN_SECRET", "too-short")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}
