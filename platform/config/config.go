// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetLeadFormAllowedOrigin() string
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// MetaConfig provides settings for the Meta Lead Ads webhook integration.
type MetaConfig interface {
	GetMetaAppSecret() string
	GetMetaAccessToken() string
	GetWebhookVerifyToken() string
	GetMetaGraphBase() string
	GetMetaGraphVersion() string
	GetMetaFetchTimeout() time.Duration
}

// EmailConfig provides settings for lead alert emails.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetAlertFromName() string
	GetAlertFromAddress() string
	GetAlertToAddress() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                   string
	HTTPAddr              string
	DatabaseURL           string
	MetaAppSecret         string
	MetaAccessToken       string
	WebhookVerifyToken    string
	MetaGraphBase         string
	MetaGraphVersion      string
	MetaFetchTimeout      time.Duration
	LeadFormAllowedOrigin string
	RateLimitRPS          float64
	RateLimitBurst        int
	EmailEnabled          bool
	SMTPHost              string
	SMTPPort              int
	SMTPUsername          string
	SMTPPassword          string
	AlertFromName         string
	AlertFromAddress      string
	AlertToAddress        string
}

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string              { return c.HTTPAddr }
func (c *Config) GetLeadFormAllowedOrigin() string { return c.LeadFormAllowedOrigin }
func (c *Config) GetRateLimitRPS() float64         { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int           { return c.RateLimitBurst }

// MetaConfig implementation
func (c *Config) GetMetaAppSecret() string           { return c.MetaAppSecret }
func (c *Config) GetMetaAccessToken() string         { return c.MetaAccessToken }
func (c *Config) GetWebhookVerifyToken() string      { return c.WebhookVerifyToken }
func (c *Config) GetMetaGraphBase() string           { return c.MetaGraphBase }
func (c *Config) GetMetaGraphVersion() string        { return c.MetaGraphVersion }
func (c *Config) GetMetaFetchTimeout() time.Duration { return c.MetaFetchTimeout }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetAlertFromName() string    { return c.AlertFromName }
func (c *Config) GetAlertFromAddress() string { return c.AlertFromAddress }
func (c *Config) GetAlertToAddress() string   { return c.AlertToAddress }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	smtpHost := getEnv("SMTP_HOST", "")
	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		MetaAppSecret:         getEnv("META_APP_SECRET", ""),
		MetaAccessToken:       getEnv("META_ACCESS_TOKEN", ""),
		WebhookVerifyToken:    getEnv("WEBHOOK_VERIFY_TOKEN", ""),
		MetaGraphBase:         getEnv("META_GRAPH_BASE", "https://graph.facebook.com"),
		MetaGraphVersion:      getEnv("META_GRAPH_VERSION", "v20.0"),
		MetaFetchTimeout:      mustDuration(getEnv("META_FETCH_TIMEOUT", "15s")),
		LeadFormAllowedOrigin: getEnv("LEAD_FORM_ALLOWED_ORIGIN", "*"),
		RateLimitRPS:          mustFloat(getEnv("RATE_LIMIT_RPS", "20")),
		RateLimitBurst:        mustInt(getEnv("RATE_LIMIT_BURST", "40")),
		EmailEnabled:          emailEnabled && smtpHost != "",
		SMTPHost:              smtpHost,
		SMTPPort:              mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:          getEnv("SMTP_USERNAME", ""),
		SMTPPassword:          getEnv("SMTP_PASSWORD", ""),
		AlertFromName:         getEnv("ALERT_FROM_NAME", "Lead Desk"),
		AlertFromAddress:      getEnv("ALERT_FROM_ADDRESS", ""),
		AlertToAddress:        getEnv("ALERT_TO_ADDRESS", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.MetaAppSecret == "" || cfg.MetaAccessToken == "" {
		return nil, fmt.Errorf("META_APP_SECRET and META_ACCESS_TOKEN are required")
	}
	if cfg.WebhookVerifyToken == "" {
		return nil, fmt.Errorf("WEBHOOK_VERIFY_TOKEN is required")
	}
	if cfg.EmailEnabled && (cfg.AlertFromAddress == "" || cfg.AlertToAddress == "") {
		return nil, fmt.Errorf("ALERT_FROM_ADDRESS and ALERT_TO_ADDRESS are required when email is enabled")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return result
}
