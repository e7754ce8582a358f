package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Control API (localhost UI surface) configuration
	Control ControlConfig

	// Push channel configuration
	Stream StreamConfig

	// REST side-channel configuration
	API APIConfig

	// Session credential
	Session SessionConfig

	// Notification pipeline tuning
	Notifications NotificationsConfig

	// Logging configuration
	Logging LoggingConfig

	// Application metadata
	App AppConfig
}

// ControlConfig holds the local control API server configuration
type ControlConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// StreamConfig holds push channel configuration
type StreamConfig struct {
	// URL of the inbound event stream. ws:// or wss:// for the websocket
	// strategy, http:// or https:// for long-poll.
	URL string

	// Transport selects the connection strategy: "websocket" or "longpoll".
	Transport string

	// ReconnectDelay is the fixed interval before an automatic reconnect.
	ReconnectDelay   time.Duration
	HandshakeTimeout time.Duration

	// PollInterval is the pause between empty long-poll rounds.
	PollInterval time.Duration
}

// APIConfig holds the REST side-channel configuration
type APIConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

// SessionConfig holds the issued bearer credential for this session
type SessionConfig struct {
	Token string
}

// NotificationsConfig holds pipeline tuning and side-effect preferences
type NotificationsConfig struct {
	DedupCapacity   int
	HistoryCapacity int
	SoundEnabled    bool
	CuePath         string
	IconPath        string

	// OSPermission seeds the permission gate: "default", "granted" or "denied".
	OSPermission string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		Control: ControlConfig{
			Addr:            getEnvOrDefault("CONTROL_ADDR", "127.0.0.1:7180"),
			ReadTimeout:     getDurationOrDefault("CONTROL_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDurationOrDefault("CONTROL_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:     getDurationOrDefault("CONTROL_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationOrDefault("CONTROL_SHUTDOWN_TIMEOUT", 10*time.Second),
			AllowedOrigins:  getStringSliceOrDefault("CONTROL_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		},
		Stream: StreamConfig{
			URL:              os.Getenv("STREAM_URL"),
			Transport:        getEnvOrDefault("STREAM_TRANSPORT", "websocket"),
			ReconnectDelay:   getDurationOrDefault("STREAM_RECONNECT_DELAY", 5*time.Second),
			HandshakeTimeout: getDurationOrDefault("STREAM_HANDSHAKE_TIMEOUT", 10*time.Second),
			PollInterval:     getDurationOrDefault("STREAM_POLL_INTERVAL", 2*time.Second),
		},
		API: APIConfig{
			BaseURL:        os.Getenv("API_BASE_URL"),
			RequestTimeout: getDurationOrDefault("API_REQUEST_TIMEOUT", 10*time.Second),
		},
		Session: SessionConfig{
			Token: os.Getenv("SESSION_TOKEN"),
		},
		Notifications: NotificationsConfig{
			DedupCapacity:   getIntOrDefault("DEDUP_CAPACITY", 100),
			HistoryCapacity: getIntOrDefault("HISTORY_CAPACITY", 50),
			SoundEnabled:    getBoolOrDefault("SOUND_ENABLED", true),
			CuePath:         getEnvOrDefault("CUE_PATH", "assets/notification.wav"),
			IconPath:        getEnvOrDefault("ICON_PATH", "assets/icon.png"),
			OSPermission:    getEnvOrDefault("OS_NOTIFY_PERMISSION", "default"),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
		App: AppConfig{
			Name:        getEnvOrDefault("APP_NAME", "estate-notify"),
			Version:     getEnvOrDefault("APP_VERSION", "dev"),
			Environment: getEnvOrDefault("APP_ENV", "development"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []string

	// Required fields
	if c.Stream.URL == "" {
		errs = append(errs, "STREAM_URL is required")
	}

	if c.API.BaseURL == "" {
		errs = append(errs, "API_BASE_URL is required")
	}

	if c.Session.Token == "" {
		errs = append(errs, "SESSION_TOKEN is required")
	}

	// Logical validations
	switch c.Stream.Transport {
	case "websocket", "longpoll":
	default:
		errs = append(errs, "STREAM_TRANSPORT must be websocket or longpoll")
	}

	switch c.Notifications.OSPermission {
	case "default", "granted", "denied":
	default:
		errs = append(errs, "OS_NOTIFY_PERMISSION must be default, granted or denied")
	}

	if c.Notifications.DedupCapacity <= 0 {
		errs = append(errs, "DEDUP_CAPACITY must be positive")
	}

	if c.Notifications.HistoryCapacity <= 0 {
		errs = append(errs, "HISTORY_CAPACITY must be positive")
	}

	if len(errs) > 0 {
		return errors.New("configuration errors:\n  - " + strings.Join(errs, "\n  - "))
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// String returns a redacted string representation of the config (safe for logging)
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Control: %s, Stream: %s (%s), API: %s, Token: [REDACTED], Environment: %s}",
		c.Control.Addr,
		c.Stream.URL,
		c.Stream.Transport,
		c.API.BaseURL,
		c.App.Environment,
	)
}
