package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file structure.
// Unset keys leave the default in place.
type FileConfig struct {
	ServerPort       string   `toml:"server_port"`
	APIPrefix        *string  `toml:"api_prefix"`
	CORSAllowOrigins []string `toml:"cors_allow_origins"`
	LogLevel         string   `toml:"log_level"`
	LogFormat        string   `toml:"log_format"`

	Providers ProviderKeys `toml:"providers"`

	BackendTimeout    duration `toml:"backend_timeout"`
	VideoTimeout      duration `toml:"video_timeout"`
	StreamIdleTimeout duration `toml:"stream_idle_timeout"`

	Media MediaFile `toml:"media"`
	Audio AudioFile `toml:"audio"`

	EnableRequestLog    *bool     `toml:"enable_request_log"`
	RequestLogPath      string    `toml:"request_log_path"`
	RequestLogRetention *duration `toml:"request_log_retention"`
	EnableMetrics       *bool     `toml:"enable_metrics"`
	ShutdownTimeout     duration  `toml:"shutdown_timeout"`
}

// ProviderKeys holds upstream credentials from the [providers] table.
type ProviderKeys struct {
	GoogleAPIKey  string `toml:"google_api_key"`
	OpenAIAPIKey  string `toml:"openai_api_key"`
	OpenAIBaseURL string `toml:"openai_base_url"`
	CohereAPIKey  string `toml:"cohere_api_key"`
}

// MediaFile is the [media] table.
type MediaFile struct {
	Timeout             duration `toml:"timeout"`
	MaxIdleConns        int      `toml:"max_idle_conns"`
	MaxIdleConnsPerHost int      `toml:"max_idle_conns_per_host"`
	MaxConnsPerHost     int      `toml:"max_conns_per_host"`
}

// AudioFile is the [audio] table.
type AudioFile struct {
	Delivery string   `toml:"delivery"`
	TTL      duration `toml:"ttl"`
	MaxBytes int64    `toml:"max_bytes"`
}

// duration decodes TOML strings such as "90s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// apply copies every set file value onto cfg.
func (f *FileConfig) apply(cfg *Config) {
	setString(&cfg.ServerPort, f.ServerPort)
	if f.APIPrefix != nil {
		cfg.APIPrefix = *f.APIPrefix
	}
	if len(f.CORSAllowOrigins) > 0 {
		cfg.CORSAllowOrigins = f.CORSAllowOrigins
	}
	setString(&cfg.LogLevel, f.LogLevel)
	setString(&cfg.LogFormat, f.LogFormat)

	setString(&cfg.GoogleAPIKey, f.Providers.GoogleAPIKey)
	setString(&cfg.OpenAIAPIKey, f.Providers.OpenAIAPIKey)
	setString(&cfg.OpenAIBaseURL, f.Providers.OpenAIBaseURL)
	setString(&cfg.CohereAPIKey, f.Providers.CohereAPIKey)

	setDuration(&cfg.BackendTimeout, f.BackendTimeout)
	setDuration(&cfg.VideoTimeout, f.VideoTimeout)
	setDuration(&cfg.StreamIdleTimeout, f.StreamIdleTimeout)

	setDuration(&cfg.MediaTimeout, f.Media.Timeout)
	setInt(&cfg.MediaMaxIdleConns, f.Media.MaxIdleConns)
	setInt(&cfg.MediaMaxIdleConnsPerHost, f.Media.MaxIdleConnsPerHost)
	setInt(&cfg.MediaMaxConnsPerHost, f.Media.MaxConnsPerHost)

	setString(&cfg.AudioDelivery, f.Audio.Delivery)
	setDuration(&cfg.AudioTTL, f.Audio.TTL)
	if f.Audio.MaxBytes > 0 {
		cfg.AudioMaxBytes = f.Audio.MaxBytes
	}

	if f.EnableRequestLog != nil {
		cfg.EnableRequestLog = *f.EnableRequestLog
	}
	setString(&cfg.RequestLogPath, f.RequestLogPath)
	if f.RequestLogRetention != nil {
		cfg.RequestLogRetention = f.RequestLogRetention.Duration
	}
	if f.EnableMetrics != nil {
		cfg.EnableMetrics = *f.EnableMetrics
	}
	setDuration(&cfg.ShutdownTimeout, f.ShutdownTimeout)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v duration) {
	if v.Duration > 0 {
		*dst = v.Duration
	}
}

// ConfigPath returns the path to the config file (~/.celeste/config.toml).
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.toml")
}

// LoadFile loads configuration from the TOML file.
// Returns an empty FileConfig if the file doesn't exist.
func LoadFile() (*FileConfig, error) {
	return loadFile(ConfigPath())
}

func loadFile(path string) (*FileConfig, error) {
	cfg := &FileConfig{}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EnsureConfigFile creates a default config file with commented examples if none exists.
func EnsureConfigFile() error {
	path := ConfigPath()

	// If config already exists, do nothing
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	// Ensure directory exists
	if err := EnsureDataDir(); err != nil {
		return err
	}

	defaultConfig := `# Celeste gateway configuration
# Environment variables (SERVER_PORT, GOOGLE_API_KEY, ...) override these values.

# server_port = ":8080"
# api_prefix = "/v1"
# cors_allow_origins = ["*"]
# log_level = "info"
# log_format = "text"
# backend_timeout = "60s"
# video_timeout = "10m"
# stream_idle_timeout = "60s"   # max gap between streamed text events
# enable_request_log = true
# request_log_retention = "720h"   # "0s" keeps every row
# enable_metrics = true

# [providers]
# google_api_key = ""
# openai_api_key = ""
# cohere_api_key = ""

# [media]
# timeout = "60s"
# max_idle_conns = 100
# max_idle_conns_per_host = 20
# max_conns_per_host = 50

# [audio]
# delivery = "proxy"   # or "inline"
# ttl = "1h"
# max_bytes = 268435456
`

	return os.WriteFile(path, []byte(defaultConfig), 0600)
}
