package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Audio delivery modes. One mode applies to the whole deployment.
const (
	AudioDeliveryProxy  = "proxy"
	AudioDeliveryInline = "inline"
)

// Config holds application configuration loaded from environment and file.
// Priority: Env vars → config.toml → defaults
type Config struct {
	// ServerPort is the address to bind the server to (e.g., ":8080")
	ServerPort string `env:"SERVER_PORT"`

	// APIPrefix is the version prefix every API route is mounted under.
	APIPrefix string `env:"API_PREFIX"`

	// CORSAllowOrigins lists allowed origins; "*" allows any.
	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envSeparator:","`

	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`

	GoogleAPIKey  string `env:"GOOGLE_API_KEY"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	CohereAPIKey  string `env:"COHERE_API_KEY"`

	// BackendTimeout bounds each outbound provider call.
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT"`
	// VideoTimeout bounds a whole video generation including polling.
	VideoTimeout time.Duration `env:"VIDEO_TIMEOUT"`
	// StreamIdleTimeout bounds the wait for each streamed text event.
	// Streams have no overall deadline.
	StreamIdleTimeout time.Duration `env:"STREAM_IDLE_TIMEOUT"`

	MediaTimeout             time.Duration `env:"MEDIA_TIMEOUT"`
	MediaMaxIdleConns        int           `env:"MEDIA_MAX_IDLE_CONNS"`
	MediaMaxIdleConnsPerHost int           `env:"MEDIA_MAX_IDLE_CONNS_PER_HOST"`
	MediaMaxConnsPerHost     int           `env:"MEDIA_MAX_CONNS_PER_HOST"`

	AudioDelivery string        `env:"AUDIO_DELIVERY"`
	AudioTTL      time.Duration `env:"AUDIO_TTL"`
	AudioMaxBytes int64         `env:"AUDIO_MAX_BYTES"`

	EnableRequestLog bool   `env:"ENABLE_REQUEST_LOG"`
	RequestLogPath   string `env:"REQUEST_LOG_PATH"`

	// RequestLogRetention prunes older log rows at startup; 0 keeps all.
	RequestLogRetention time.Duration `env:"REQUEST_LOG_RETENTION"`
	EnableMetrics       bool          `env:"ENABLE_METRICS"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() *Config {
	return &Config{
		ServerPort:               ":8080",
		APIPrefix:                "/v1",
		CORSAllowOrigins:         []string{"*"},
		LogLevel:                 "info",
		LogFormat:                "text",
		BackendTimeout:           60 * time.Second,
		VideoTimeout:             10 * time.Minute,
		StreamIdleTimeout:        60 * time.Second,
		MediaTimeout:             60 * time.Second,
		MediaMaxIdleConns:        100,
		MediaMaxIdleConnsPerHost: 20,
		MediaMaxConnsPerHost:     50,
		AudioDelivery:            AudioDeliveryProxy,
		AudioTTL:                 time.Hour,
		AudioMaxBytes:            256 << 20,
		EnableRequestLog:         true,
		RequestLogPath:           DBPath(),
		RequestLogRetention:      30 * 24 * time.Hour,
		EnableMetrics:            true,
		ShutdownTimeout:          10 * time.Second,
	}
}

// Load reads configuration from file and environment variables.
// Environment variables override file config values.
func Load() (*Config, error) {
	fileConfig, err := LoadFile()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", ConfigPath(), err)
	}
	return build(fileConfig, env.Options{})
}

// build layers file values and then the environment over the defaults.
func build(fileConfig *FileConfig, opts env.Options) (*Config, error) {
	cfg := Defaults()
	fileConfig.apply(cfg)

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.APIPrefix = "/" + strings.Trim(c.APIPrefix, "/")
	if c.APIPrefix == "/" {
		c.APIPrefix = ""
	}

	origins := c.CORSAllowOrigins[:0]
	for _, o := range c.CORSAllowOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c.CORSAllowOrigins = origins

	c.AudioDelivery = strings.ToLower(strings.TrimSpace(c.AudioDelivery))
	switch c.AudioDelivery {
	case AudioDeliveryProxy, AudioDeliveryInline:
	default:
		return fmt.Errorf("invalid AUDIO_DELIVERY %q: want %q or %q", c.AudioDelivery, AudioDeliveryProxy, AudioDeliveryInline)
	}

	c.LogFormat = strings.ToLower(c.LogFormat)
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid LOG_FORMAT %q: want text or json", c.LogFormat)
	}
	if c.StreamIdleTimeout <= 0 {
		return fmt.Errorf("invalid STREAM_IDLE_TIMEOUT %s: must be positive", c.StreamIdleTimeout)
	}
	if c.RequestLogRetention < 0 {
		return fmt.Errorf("invalid REQUEST_LOG_RETENTION %s: must not be negative", c.RequestLogRetention)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
