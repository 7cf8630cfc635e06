package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"HOST", "PORT", "LOG_LEVEL", "MAX_QUEUE_SIZE", "FRAME_TIMEOUT", "MAX_RETRIES", "RETRY_DELAY"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Host != "0.0.0.0" || cfg.Port != 8000 {
		t.Errorf("addr = %s, want 0.0.0.0:8000", cfg.Addr())
	}
	if cfg.LogLevel != "warning" {
		t.Errorf("LogLevel = %q, want warning", cfg.LogLevel)
	}
	if cfg.MaxQueueSize != 1 {
		t.Errorf("MaxQueueSize = %d, want 1", cfg.MaxQueueSize)
	}
	if cfg.FrameTimeout != time.Second {
		t.Errorf("FrameTimeout = %s, want 1s", cfg.FrameTimeout)
	}
	if cfg.MaxRetries != 5 || cfg.RetryDelay != 500*time.Millisecond {
		t.Errorf("retry budget = %d x %s, want 5 x 500ms", cfg.MaxRetries, cfg.RetryDelay)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadSecondsAndDurations(t *testing.T) {
	t.Setenv("FRAME_TIMEOUT", "0.25")
	t.Setenv("RETRY_DELAY", "10ms")
	t.Setenv("MAX_RETRIES", "2")

	cfg := Load()
	if cfg.FrameTimeout != 250*time.Millisecond {
		t.Errorf("FrameTimeout = %s, want 250ms", cfg.FrameTimeout)
	}
	if cfg.RetryDelay != 10*time.Millisecond {
		t.Errorf("RetryDelay = %s, want 10ms", cfg.RetryDelay)
	}
	if cfg.MaxRetries != 2 {
		t.Errorf("MaxRetries = %d, want 2", cfg.MaxRetries)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("PORT", "eighty")
	t.Setenv("FRAME_TIMEOUT", "soon")

	cfg := Load()
	if cfg.Port != 8000 {
		t.Errorf("Port = %d, want default 8000", cfg.Port)
	}
	if cfg.FrameTimeout != time.Second {
		t.Errorf("FrameTimeout = %s, want default 1s", cfg.FrameTimeout)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		t.Setenv("MAX_QUEUE_SIZE", "")
		return Load()
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"queue size", func(c *Config) { c.MaxQueueSize = 4 }},
		{"frame timeout", func(c *Config) { c.FrameTimeout = 0 }},
		{"retries", func(c *Config) { c.MaxRetries = 0 }},
		{"retry delay", func(c *Config) { c.RetryDelay = -time.Second }},
		{"port", func(c *Config) { c.Port = 70000 }},
		{"quality", func(c *Config) { c.OutputQuality = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate() = nil, want error")
			}
		})
	}
}
