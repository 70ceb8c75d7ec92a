package openai

import "testing"

func TestFileName(t *testing.T) {
	tests := []struct {
		format   string
		expected string
	}{
		{"", "voice.ogg"},
		{"ogg", "voice.ogg"},
		{"OGA", "voice.ogg"},
		{".opus", "voice.ogg"},
		{"mpeg", "voice.mp3"},
		{"mp3", "voice.mp3"},
		{"wav", "voice.wav"},
		{" m4a ", "voice.m4a"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := fileName(tt.format); got != tt.expected {
				t.Errorf("fileName(%q) = %s, want %s", tt.format, got, tt.expected)
			}
		})
	}
}

func TestNew_DefaultModel(t *testing.T) {
	a := New(nil, "")
	if a.model != DefaultModel {
		t.Errorf("expected default model %s, got %s", DefaultModel, a.model)
	}
	if a.Name() != "openai" {
		t.Errorf("expected name 'openai', got %s", a.Name())
	}
}
