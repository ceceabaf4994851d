// Package config provides environment configuration for the chat server.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/pflag"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	AllowedOrigins     []string

	// Chat behavior
	ReplyDelay      time.Duration
	DefaultLanguage string

	// Local device storage
	PreferencesFile string

	// NATS event mirror (disabled when URL is empty)
	NATSURL      string
	NATSCAFile   string
	NATSCertFile string
	NATSKeyFile  string
	NATSToken    string

	// Reply text generation (canned when no key is set)
	AnthropicAPIKey string
	OpenAIAPIKey    string
	ReplyModel      string
	ReplyTimeout    time.Duration

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		// Server
		ServerPort:         getEnv("PORT", "8080"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 0),
		AllowedOrigins:     []string{getEnv("ALLOWED_ORIGIN", "http://localhost:5173")},

		// Chat
		ReplyDelay:      getDurationEnv("REPLY_DELAY", 900*time.Millisecond),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "vi"),

		// Storage
		PreferencesFile: getEnv("PREFS_FILE", defaultPreferencesFile()),

		// NATS
		NATSURL:      getEnv("NATS_URL", ""),
		NATSCAFile:   getEnv("NATS_CA_FILE", ""),
		NATSCertFile: getEnv("NATS_CERT_FILE", ""),
		NATSKeyFile:  getEnv("NATS_KEY_FILE", ""),
		NATSToken:    getEnv("NATS_TOKEN", ""),

		// Replies
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		ReplyModel:      getEnv("REPLY_MODEL", ""),
		ReplyTimeout:    getDurationEnv("REPLY_TIMEOUT", 10*time.Second),

		// Rate limiting
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 120),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

// BindFlags registers command-line overrides for the most common settings.
// Values already loaded from the environment become the flag defaults.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.ServerPort, "port", c.ServerPort, "HTTP listen port")
	fs.StringVar(&c.PreferencesFile, "prefs-file", c.PreferencesFile, "path of the local preferences file")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	fs.DurationVar(&c.ReplyDelay, "reply-delay", c.ReplyDelay, "delay before the simulated auto-reply")
	fs.StringVar(&c.DefaultLanguage, "language", c.DefaultLanguage, "language used when none is stored (en or vi)")
	fs.StringSliceVar(&c.AllowedOrigins, "allowed-origin", c.AllowedOrigins, "origins allowed to call the API")
	fs.StringVar(&c.NATSURL, "nats-url", c.NATSURL, "NATS server for the event mirror (empty disables it)")
}

func defaultPreferencesFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "enet-chat", "preferences.yaml")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
