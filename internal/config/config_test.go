package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.MonitorPollDelay != 100*time.Millisecond {
		t.Fatalf("expected default poll delay 100ms, got %s", cfg.MonitorPollDelay)
	}
	if cfg.MonitorWorkers != 50 {
		t.Fatalf("expected default 50 monitor workers, got %d", cfg.MonitorWorkers)
	}
}

func TestLoadRejectsInvalidMonitorSettings(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"zero poll delay", "MONITOR_POLL_DELAY", "0s"},
		{"negative poll delay", "MONITOR_POLL_DELAY", "-5ms"},
		{"zero workers", "MONITOR_WORKERS", "0"},
		{"negative workers", "MONITOR_WORKERS", "-2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("MONITOR_POLL_DELAY", "250ms")
	t.Setenv("MONITOR_WORKERS", "8")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MonitorPollDelay != 250*time.Millisecond {
		t.Fatalf("expected poll delay 250ms, got %s", cfg.MonitorPollDelay)
	}
	if cfg.MonitorWorkers != 8 {
		t.Fatalf("expected 8 workers, got %d", cfg.MonitorWorkers)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected lowercased log level, got %s", cfg.LogLevel)
	}
}

func TestAddress(t *testing.T) {
	if got := (Config{Port: "9090"}).Address(); got != ":9090" {
		t.Fatalf("expected :9090, got %s", got)
	}
	if got := (Config{Port: ":9090"}).Address(); got != ":9090" {
		t.Fatalf("expected :9090, got %s", got)
	}
}
