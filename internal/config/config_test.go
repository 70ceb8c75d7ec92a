package config

import (
	"os"
	"testing"
	"time"
)

var configEnvVars = []string{
	"SERVICE_PRINCIPAL", "HTTP_PORT", "GRPC_PORT", "METRICS_ADDR", "LOG_LEVEL", "LOG_FORMAT",
	"TELEGRAM_BOT_TOKEN", "TELEGRAM_POLL_TIMEOUT",
	"STT_PROVIDER", "LLM_PROVIDER", "TTS_PROVIDER", "OPENAI_API_KEY", "GEMINI_API_KEY",
	"OPENAI_CHAT_MODEL", "STT_SAMPLE_RATE_HZ", "STT_AUDIO_ENCODING",
	"PROVIDER_TIMEOUT", "PROVIDER_MAX_ATTEMPTS", "PROVIDER_RETRY_BASE_DELAY", "SYNTHESIS_TIMEOUT",
	"VOICE_MAX_AUDIO_BYTES", "VOICE_DEFAULT_SPEECH_REPLIES",
	"KAFKA_ENABLED", "KAFKA_BROKERS", "KAFKA_PRINCIPAL", "JOURNAL_DB_PATH", "LANGUAGE_CATALOG_PATH",
}

func clearEnv() {
	for _, v := range configEnvVars {
		os.Unsetenv(v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv()

	cfg := Load()

	if cfg.Service.Principal != "svc-language-tutor" {
		t.Errorf("expected default principal 'svc-language-tutor', got %s", cfg.Service.Principal)
	}
	if cfg.Service.HTTPPort != "8080" {
		t.Errorf("expected default HTTP port '8080', got %s", cfg.Service.HTTPPort)
	}
	if cfg.Service.GRPCPort != "50051" {
		t.Errorf("expected default gRPC port '50051', got %s", cfg.Service.GRPCPort)
	}
	if cfg.Providers.STT != "mock" || cfg.Providers.LLM != "mock" || cfg.Providers.TTS != "mock" {
		t.Errorf("expected mock providers by default, got %+v", cfg.Providers)
	}
	if cfg.Providers.TranscriptionModel != "whisper-1" {
		t.Errorf("expected default transcription model 'whisper-1', got %s", cfg.Providers.TranscriptionModel)
	}
	if cfg.Providers.GoogleSampleRateHz != 48000 {
		t.Errorf("expected default sample rate 48000, got %d", cfg.Providers.GoogleSampleRateHz)
	}
	if cfg.Resilience.Timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %v", cfg.Resilience.Timeout)
	}
	if cfg.Resilience.MaxAttempts != 3 {
		t.Errorf("expected default max attempts 3, got %d", cfg.Resilience.MaxAttempts)
	}
	if cfg.Voice.MaxAudioBytes != 20*1024*1024 {
		t.Errorf("expected default max audio bytes 20MB, got %d", cfg.Voice.MaxAudioBytes)
	}
	if cfg.Kafka.Enabled {
		t.Error("expected Kafka disabled by default")
	}
	if cfg.Observability.LogLevel != "info" {
		t.Errorf("expected default log level 'info', got %s", cfg.Observability.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default configuration to be valid, got %v", err)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv()
	os.Setenv("SERVICE_PRINCIPAL", "custom-principal")
	os.Setenv("HTTP_PORT", "9999")
	os.Setenv("LLM_PROVIDER", "OpenAI")
	os.Setenv("OPENAI_API_KEY", "sk-test")
	os.Setenv("OPENAI_CHAT_MODEL", "gpt-4o-mini")
	os.Setenv("PROVIDER_TIMEOUT", "5s")
	os.Setenv("PROVIDER_MAX_ATTEMPTS", "5")
	os.Setenv("VOICE_DEFAULT_SPEECH_REPLIES", "true")
	os.Setenv("KAFKA_ENABLED", "true")
	os.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	os.Setenv("LOG_LEVEL", "debug")
	defer clearEnv()

	cfg := Load()

	if cfg.Service.Principal != "custom-principal" {
		t.Errorf("expected principal 'custom-principal', got %s", cfg.Service.Principal)
	}
	if cfg.Service.HTTPPort != "9999" {
		t.Errorf("expected port '9999', got %s", cfg.Service.HTTPPort)
	}
	if cfg.Providers.LLM != "openai" {
		t.Errorf("expected provider names lowercased, got %s", cfg.Providers.LLM)
	}
	if cfg.Providers.ChatModel != "gpt-4o-mini" {
		t.Errorf("expected chat model 'gpt-4o-mini', got %s", cfg.Providers.ChatModel)
	}
	if cfg.Resilience.Timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", cfg.Resilience.Timeout)
	}
	if cfg.Resilience.MaxAttempts != 5 {
		t.Errorf("expected max attempts 5, got %d", cfg.Resilience.MaxAttempts)
	}
	if !cfg.Voice.DefaultSpeechReplies {
		t.Error("expected speech replies enabled")
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[0] != "k1:9092" || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("unexpected brokers: %v", cfg.Kafka.Brokers)
	}
	if cfg.Observability.LogLevel != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Observability.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid configuration, got %v", err)
	}
}

func TestLoad_InvalidValues_FallbackToDefaults(t *testing.T) {
	clearEnv()
	os.Setenv("STT_SAMPLE_RATE_HZ", "not-a-number")
	os.Setenv("PROVIDER_TIMEOUT", "invalid")
	os.Setenv("VOICE_DEFAULT_SPEECH_REPLIES", "invalid")
	os.Setenv("VOICE_MAX_AUDIO_BYTES", "invalid")
	defer clearEnv()

	cfg := Load()

	if cfg.Providers.GoogleSampleRateHz != 48000 {
		t.Errorf("expected default sample rate on invalid input, got %d", cfg.Providers.GoogleSampleRateHz)
	}
	if cfg.Resilience.Timeout != 30*time.Second {
		t.Errorf("expected default timeout on invalid input, got %v", cfg.Resilience.Timeout)
	}
	if cfg.Voice.DefaultSpeechReplies {
		t.Error("expected default speech replies on invalid input")
	}
	if cfg.Voice.MaxAudioBytes != 20*1024*1024 {
		t.Errorf("expected default max audio bytes on invalid input, got %d", cfg.Voice.MaxAudioBytes)
	}
}

func TestLoad_KafkaPrincipal_FallsBackToServicePrincipal(t *testing.T) {
	clearEnv()
	os.Setenv("SERVICE_PRINCIPAL", "my-service")
	defer clearEnv()

	cfg := Load()

	if cfg.Kafka.Principal != "my-service" {
		t.Errorf("expected Kafka principal to fall back to service principal, got %s", cfg.Kafka.Principal)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Configuration)
		wantErr bool
	}{
		{"defaults", func(c *Configuration) {}, false},
		{"openai llm without key", func(c *Configuration) { c.Providers.LLM = "openai" }, true},
		{"openai stt without key", func(c *Configuration) { c.Providers.STT = "openai" }, true},
		{"openai tts without key", func(c *Configuration) { c.Providers.TTS = "openai" }, true},
		{"gemini without key", func(c *Configuration) { c.Providers.LLM = "gemini" }, true},
		{"gemini with key", func(c *Configuration) { c.Providers.LLM = "gemini"; c.Providers.GeminiAPIKey = "k" }, false},
		{"google stt", func(c *Configuration) { c.Providers.STT = "google" }, false},
		{"unknown tts", func(c *Configuration) { c.Providers.TTS = "espeak" }, true},
		{"zero attempts", func(c *Configuration) { c.Resilience.MaxAttempts = 0 }, true},
		{"kafka without brokers", func(c *Configuration) { c.Kafka.Enabled = true }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv()
			cfg := Load()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnvOrDefaultBool(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		def      bool
		expected bool
	}{
		{"true string", "true", false, true},
		{"false string", "false", true, false},
		{"1", "1", false, true},
		{"0", "0", true, false},
		{"TRUE uppercase", "TRUE", false, true},
		{"invalid", "invalid", true, true},
		{"empty", "", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_BOOL_VAR"
			if tt.envValue != "" {
				os.Setenv(key, tt.envValue)
			} else {
				os.Unsetenv(key)
			}
			defer os.Unsetenv(key)

			got := envOrDefaultBool(key, tt.def)
			if got != tt.expected {
				t.Errorf("envOrDefaultBool(%s, %v) = %v, want %v", tt.envValue, tt.def, got, tt.expected)
			}
		})
	}
}
