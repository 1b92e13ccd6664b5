package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Backends BackendsConfig `mapstructure:"backends"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigin      string        `mapstructure:"cors_origin"`
}

type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	Output    string `mapstructure:"output"`
	AddSource bool   `mapstructure:"add_source"`
}

type UploadConfig struct {
	Dir string `mapstructure:"dir"`
}

// BackendsConfig describes the text-generation backends. Endpoints maps a
// model id to its URL; File optionally points at a YAML registry file whose
// entries take precedence.
type BackendsConfig struct {
	DefaultModel string            `mapstructure:"default_model"`
	Endpoints    map[string]string `mapstructure:"endpoints"`
	File         string            `mapstructure:"file"`
	Timeout      time.Duration     `mapstructure:"timeout"`
	Mock         bool              `mapstructure:"mock"`
}

const envPrefix = "CHAT"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.cors_origin", "*")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.add_source", false)

	v.SetDefault("upload.dir", "uploads")

	v.SetDefault("backends.default_model", "model_a")
	v.SetDefault("backends.endpoints", map[string]string{})
	v.SetDefault("backends.file", "")
	v.SetDefault("backends.timeout", time.Duration(0))
	v.SetDefault("backends.mock", false)
}

// Load reads configuration from defaults, an optional YAML file and CHAT_*
// environment variables, in increasing order of precedence.
//
// An empty configPath searches ./configs and . for config.yaml and tolerates
// its absence. An explicit path must exist.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid server mode: %s, must be 'debug', 'release' or 'test'", c.Server.Mode)
	}

	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("invalid server shutdown timeout: %s", c.Server.ShutdownTimeout)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("invalid log format: %s, must be 'json' or 'text'", c.Log.Format)
	}

	if c.Log.Output != "stdout" && c.Log.Output != "stderr" {
		return fmt.Errorf("invalid log output: %s, must be 'stdout' or 'stderr'", c.Log.Output)
	}

	if c.Upload.Dir == "" {
		return fmt.Errorf("upload.dir is required")
	}

	if c.Backends.DefaultModel == "" {
		return fmt.Errorf("backends.default_model is required")
	}

	if c.Backends.Timeout < 0 {
		return fmt.Errorf("invalid backends timeout: %s", c.Backends.Timeout)
	}

	for id, url := range c.Backends.Endpoints {
		if url == "" {
			return fmt.Errorf("backends.endpoints.%s has an empty url", id)
		}
	}

	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
