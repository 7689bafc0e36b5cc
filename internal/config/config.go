package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Provider exposes the configuration values the application depends on.
// Handlers and the server take a Provider so tests can stub single values.
type Provider interface {
	GetServerAddr() string
	GetAPIBaseURL() string
	GetSessionSecret() string
	GetTheme() string
	GetAPITimeout() time.Duration
	GetCSRFEnabled() bool
	GetCookieSecure() bool
}

// Config holds all configuration for the application.
type Config struct {
	ServerAddr    string
	APIBaseURL    string
	SessionSecret string
	Theme         string
	APITimeout    time.Duration
	CSRFEnabled   bool
	CookieSecure  bool
}

const (
	defaultServerAddr = ":8080"
	defaultTheme      = "light"
	defaultAPITimeout = 15 * time.Second
)

// New loads configuration from a .env file (if present) and the environment.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := FromEnv()
	if cfg.APIBaseURL == "" {
		log.Fatal("Required environment variable API_BASE_URL is not set.")
	}
	return cfg
}

// FromEnv reads the configuration from environment variables only,
// applying defaults for anything unset.
func FromEnv() *Config {
	return &Config{
		ServerAddr:    getEnv("SERVER_ADDR", defaultServerAddr),
		APIBaseURL:    os.Getenv("API_BASE_URL"),
		SessionSecret: getEnv("SESSION_SECRET", "insecure-dev-session-secret-change-me"),
		Theme:         getEnv("APP_THEME", defaultTheme),
		APITimeout:    getDuration("API_TIMEOUT", defaultAPITimeout),
		CSRFEnabled:   getBool("CSRF_ENABLED", true),
		CookieSecure:  getBool("COOKIE_SECURE", false),
	}
}

func (c *Config) GetServerAddr() string { return c.ServerAddr }
func (c *Config) GetAPIBaseURL() string { return c.APIBaseURL }
func (c *Config) GetSessionSecret() string { return c.SessionSecret }
func (c *Config) GetTheme() string { return c.Theme }
func (c *Config) GetAPITimeout() time.Duration { return c.APITimeout }
func (c *Config) GetCSRFEnabled() bool { return c.CSRFEnabled }
func (c *Config) GetCookieSecure() bool { return c.CookieSecure }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("Invalid %s=%q, using default %s", key, v, fallback)
		return fallback
	}
	return d
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %t", key, v, fallback)
		return fallback
	}
	return b
}
