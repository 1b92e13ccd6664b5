package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Fatalf("port: got %d want 8000", cfg.Server.Port)
	}
	if cfg.Upload.Dir != "uploads" {
		t.Fatalf("upload dir: got %q", cfg.Upload.Dir)
	}
	if cfg.Backends.DefaultModel != "model_a" {
		t.Fatalf("default model: got %q", cfg.Backends.DefaultModel)
	}
	if cfg.Backends.Timeout != 0 {
		t.Fatalf("backend timeout: got %s want 0", cfg.Backends.Timeout)
	}
	if cfg.Addr() != "0.0.0.0:8000" {
		t.Fatalf("addr: got %q", cfg.Addr())
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("CHAT_SERVER_PORT", "9001")
	t.Setenv("CHAT_BACKENDS_DEFAULT_MODEL", "model_b")
	t.Setenv("CHAT_BACKENDS_TIMEOUT", "5s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9001 {
		t.Fatalf("port: got %d want 9001", cfg.Server.Port)
	}
	if cfg.Backends.DefaultModel != "model_b" {
		t.Fatalf("default model: got %q", cfg.Backends.DefaultModel)
	}
	if cfg.Backends.Timeout != 5*time.Second {
		t.Fatalf("timeout: got %s", cfg.Backends.Timeout)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "chat.yaml")
	body := `
server:
  port: 8081
  mode: debug
upload:
  dir: /tmp/chat-uploads
backends:
  endpoints:
    model_c: http://localhost:9999/generate
  mock: true
`
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("prep: %v", err)
	}

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8081 || cfg.Server.Mode != "debug" {
		t.Fatalf("server: got %+v", cfg.Server)
	}
	if cfg.Upload.Dir != "/tmp/chat-uploads" {
		t.Fatalf("upload dir: got %q", cfg.Upload.Dir)
	}
	if got := cfg.Backends.Endpoints["model_c"]; got != "http://localhost:9999/generate" {
		t.Fatalf("endpoint: got %q", got)
	}
	if !cfg.Backends.Mock {
		t.Fatal("expected mock backend enabled")
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:   ServerConfig{Host: "127.0.0.1", Port: 8000, Mode: "release", ShutdownTimeout: time.Second},
			Log:      LogConfig{Level: "info", Format: "text", Output: "stdout"},
			Upload:   UploadConfig{Dir: "uploads"},
			Backends: BackendsConfig{DefaultModel: "model_a"},
		}
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		errContains string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }, errContains: "port"},
		{name: "port too large", mutate: func(c *Config) { c.Server.Port = 70000 }, errContains: "port"},
		{name: "bad mode", mutate: func(c *Config) { c.Server.Mode = "prod" }, errContains: "mode"},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "loud" }, errContains: "log level"},
		{name: "bad format", mutate: func(c *Config) { c.Log.Format = "xml" }, errContains: "log format"},
		{name: "bad output", mutate: func(c *Config) { c.Log.Output = "file" }, errContains: "log output"},
		{name: "empty upload dir", mutate: func(c *Config) { c.Upload.Dir = "" }, errContains: "upload.dir"},
		{name: "empty default model", mutate: func(c *Config) { c.Backends.DefaultModel = "" }, errContains: "default_model"},
		{name: "negative timeout", mutate: func(c *Config) { c.Backends.Timeout = -time.Second }, errContains: "timeout"},
		{
			name:        "empty endpoint",
			mutate:      func(c *Config) { c.Backends.Endpoints = map[string]string{"model_a": ""} },
			errContains: "empty url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errContains == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.errContains)
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Fatalf("error = %v, want it to contain %q", err, tt.errContains)
			}
		})
	}
}
