package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Content       ContentConfig
	Database      DatabaseConfig
	Storage       StorageConfig
	Mail          MailConfig
	FormToken     FormTokenConfig
	ReCAPTCHA     ReCAPTCHAConfig
	EventTriggers EventTriggersConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	BaseURL        string
	AllowedOrigins []string
}

// ContentConfig points at an optional marketing copy override; empty uses the embedded copy
type ContentConfig struct {
	File string
}

// DatabaseConfig configures the optional quote request store
type DatabaseConfig struct {
	URL        string
	MaxConns   int32
	MinConns   int32
	CACertPath string
}

// Enabled reports whether quote requests should be persisted
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// StorageConfig configures the S3-compatible bucket for quote attachments
type StorageConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Endpoint        string
	Region          string
}

// Enabled reports whether attachments should be uploaded
func (s StorageConfig) Enabled() bool {
	return s.AccessKeyID != "" && s.SecretAccessKey != "" && s.BucketName != ""
}

type MailConfig struct {
	MailgunDomain string
	MailgunAPIKey string
	FromEmail     string
	FromName      string
	NotifyEmail   string
}

// Enabled reports whether quote notifications should be e-mailed
func (m MailConfig) Enabled() bool {
	return m.MailgunDomain != "" && m.MailgunAPIKey != ""
}

type FormTokenConfig struct {
	Secret             string
	Issuer             string
	FormTTLMinutes     int
	ConfirmTTLMinutes  int
	CookieSecure       bool
	RequireFormToken   bool
	DuplicateWindowMin int
}

type ReCAPTCHAConfig struct {
	SecretKey string
	SiteKey   string
}

type EventTriggersConfig struct {
	QuoteCreatedTriggerURL string
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint  string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("BASE_URL", "https://5280sourcegroup.com")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "https://5280sourcegroup.com,https://www.5280sourcegroup.com")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 1)
	v.SetDefault("STORAGE_REGION", "auto")
	v.SetDefault("MAIL_FROM_NAME", "5280 Source Group")
	v.SetDefault("MAIL_NOTIFY_EMAIL", "order@5280sourcegroup.com")
	v.SetDefault("FORM_TOKEN_ISSUER", "5280sourcegroup-web")
	v.SetDefault("FORM_TOKEN_TTL_MINUTES", 120)
	v.SetDefault("CONFIRM_TOKEN_TTL_MINUTES", 10)
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("DUPLICATE_WINDOW_MINUTES", 10)
	v.SetDefault("O11Y_BE_SERVICE_NAME", "sourcegroup-web")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "5280sourcegroup")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "sourcegroup-web")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,goroutines")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			BaseURL:        v.GetString("BASE_URL"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
		},
		Content: ContentConfig{
			File: v.GetString("CONTENT_FILE"),
		},
		Database: DatabaseConfig{
			URL:        v.GetString("DATABASE_URL"),
			MaxConns:   v.GetInt32("DB_MAX_CONNS"),
			MinConns:   v.GetInt32("DB_MIN_CONNS"),
			CACertPath: v.GetString("DATABASE_CA_CERT"),
		},
		Storage: StorageConfig{
			AccessKeyID:     v.GetString("STORAGE_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("STORAGE_SECRET_ACCESS_KEY"),
			BucketName:      v.GetString("STORAGE_BUCKET_NAME"),
			Endpoint:        v.GetString("STORAGE_ENDPOINT"),
			Region:          v.GetString("STORAGE_REGION"),
		},
		Mail: MailConfig{
			MailgunDomain: v.GetString("MAILGUN_DOMAIN"),
			MailgunAPIKey: v.GetString("MAILGUN_API_KEY"),
			FromEmail:     v.GetString("MAIL_FROM_EMAIL"),
			FromName:      v.GetString("MAIL_FROM_NAME"),
			NotifyEmail:   v.GetString("MAIL_NOTIFY_EMAIL"),
		},
		FormToken: FormTokenConfig{
			Secret:             v.GetString("FORM_TOKEN_SECRET"),
			Issuer:             v.GetString("FORM_TOKEN_ISSUER"),
			FormTTLMinutes:     v.GetInt("FORM_TOKEN_TTL_MINUTES"),
			ConfirmTTLMinutes:  v.GetInt("CONFIRM_TOKEN_TTL_MINUTES"),
			CookieSecure:       v.GetBool("COOKIE_SECURE"),
			RequireFormToken:   v.GetString("FORM_TOKEN_SECRET") != "",
			DuplicateWindowMin: v.GetInt("DUPLICATE_WINDOW_MINUTES"),
		},
		ReCAPTCHA: ReCAPTCHAConfig{
			SecretKey: v.GetString("RECAPTCHA_SECRET_KEY"),
			SiteKey:   v.GetString("RECAPTCHA_SITE_KEY"),
		},
		EventTriggers: EventTriggersConfig{
			QuoteCreatedTriggerURL: v.GetString("QUOTE_CREATED_TRIGGER_URL"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint:  v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_BE_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	// Server configuration
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Server.BaseURL == "" {
		return fmt.Errorf("BASE_URL is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}

	// Partially configured integrations are almost always a deployment mistake
	if c.Storage.AccessKeyID != "" && c.Storage.BucketName == "" {
		return fmt.Errorf("STORAGE_BUCKET_NAME is required when storage credentials are set")
	}
	if c.Mail.Enabled() && c.Mail.FromEmail == "" {
		return fmt.Errorf("MAIL_FROM_EMAIL is required when Mailgun is configured")
	}
	if c.Mail.Enabled() && c.Mail.NotifyEmail == "" {
		return fmt.Errorf("MAIL_NOTIFY_EMAIL is required when Mailgun is configured")
	}

	if c.FormToken.RequireFormToken && len(c.FormToken.Secret) < 32 {
		return fmt.Errorf("FORM_TOKEN_SECRET must be at least 32 characters")
	}
	if c.FormToken.FormTTLMinutes <= 0 || c.FormToken.ConfirmTTLMinutes <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}

// splitList parses a comma-separated list, dropping blanks
func splitList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
