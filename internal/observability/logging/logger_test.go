package logging

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("expected default level 'info', got %s", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("expected default format 'json', got %s", cfg.Format)
	}
	if cfg.TimeFormat != time.RFC3339 {
		t.Errorf("expected RFC3339 time format, got %s", cfg.TimeFormat)
	}
}

func TestInit_Levels(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	tests := []struct {
		level    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"not-a-level", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			Init(Config{Level: tt.level, Format: "json"})
			if got := zerolog.GlobalLevel(); got != tt.expected {
				t.Errorf("Init(%q) global level = %v, want %v", tt.level, got, tt.expected)
			}
		})
	}
}
