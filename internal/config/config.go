package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port     string
	Env      string // development, production
	LogLevel string

	// Webhook
	WebhookURL     string
	WebhookTimeout time.Duration

	// Limits, 0 means unbounded
	MaxBodySizeMB int
}

// Load reads configuration from a .env file, the environment and the
// command line, in increasing order of precedence.
func Load() (*Config, error) {
	// Load .env file if it exists (don't error if missing)
	_ = godotenv.Load()

	return Parse(os.Args[1:])
}

// Parse builds a Config from args with environment fallbacks.
func Parse(args []string) (*Config, error) {
	cfg := &Config{}
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	var timeout string
	fs.StringVar(&cfg.Port, "port", getEnv("PORT", "8080"), "Server port")
	fs.StringVar(&cfg.Env, "env", getEnv("ENV", "development"), "Environment (development, production)")
	fs.StringVar(&cfg.LogLevel, "log-level", getEnv("LOG_LEVEL", ""), "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.WebhookURL, "webhook-url", getEnv("FORWARD_WEBHOOK_URL", ""), "Destination webhook URL")
	fs.StringVar(&timeout, "webhook-timeout", getEnv("WEBHOOK_TIMEOUT", "10s"), "Timeout for the outbound webhook call (0 disables)")
	fs.IntVar(&cfg.MaxBodySizeMB, "max-body-size-mb", getEnvInt("MAX_BODY_SIZE_MB", 0), "Maximum request body size in MB (0 is unbounded)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	d, err := time.ParseDuration(timeout)
	if err != nil {
		return nil, fmt.Errorf("WEBHOOK_TIMEOUT: %w", err)
	}
	cfg.WebhookTimeout = d
	cfg.WebhookURL = strings.TrimSpace(cfg.WebhookURL)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks settings needed to start the server. A missing webhook URL
// is not an error here; requests report it instead.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.WebhookTimeout < 0 {
		return fmt.Errorf("WEBHOOK_TIMEOUT must not be negative")
	}

	if c.MaxBodySizeMB < 0 {
		return fmt.Errorf("MAX_BODY_SIZE_MB must not be negative")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// MaxBodyBytes returns the request body limit in bytes, 0 when unbounded.
func (c *Config) MaxBodyBytes() int64 {
	return int64(c.MaxBodySizeMB) << 20
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}
