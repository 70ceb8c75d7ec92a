// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Configuration holds all service configuration.
type Configuration struct {
	Service       ServiceConfig
	Telegram      TelegramConfig
	Providers     ProvidersConfig
	Resilience    ResilienceConfig
	Voice         VoiceConfig
	Catalog       CatalogConfig
	Kafka         KafkaConfig
	Journal       JournalConfig
	Observability ObservabilityConfig
}

// ServiceConfig holds listener and identity settings.
type ServiceConfig struct {
	Principal   string
	HTTPPort    string
	GRPCPort    string
	MetricsAddr string
}

// TelegramConfig holds chat transport settings. An empty token disables the transport.
type TelegramConfig struct {
	Token       string
	PollTimeout int
	Debug       bool
}

// ProvidersConfig selects and configures the AI collaborators.
type ProvidersConfig struct {
	STT string // mock, openai, google
	LLM string // mock, openai, gemini
	TTS string // mock, openai

	OpenAIAPIKey       string
	OpenAIBaseURL      string
	ChatModel          string
	TranscriptionModel string
	SpeechModel        string

	GeminiAPIKey string
	GeminiModel  string

	GoogleAudioEncoding string
	GoogleSampleRateHz  int
}

// ResilienceConfig is the single configuration point for collaborator deadlines and retries.
type ResilienceConfig struct {
	Timeout          time.Duration
	MaxAttempts      int
	RetryBaseDelay   time.Duration
	SynthesisTimeout time.Duration
}

// VoiceConfig holds voice turn settings.
type VoiceConfig struct {
	MaxAudioBytes        int64
	DefaultSpeechReplies bool
}

// CatalogConfig points at an optional YAML language catalog.
type CatalogConfig struct {
	Path string
}

// KafkaConfig holds turn event publishing settings.
type KafkaConfig struct {
	Enabled     bool
	Brokers     []string
	TopicTurns  string
	TopicStages string
	Principal   string
}

// JournalConfig holds the conversation journal location. Empty disables it.
type JournalConfig struct {
	DBPath string
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables. Values that fail to parse
// fall back to their defaults.
func Load() *Configuration {
	principal := envOrDefault("SERVICE_PRINCIPAL", "svc-language-tutor")

	return &Configuration{
		Service: ServiceConfig{
			Principal:   principal,
			HTTPPort:    envOrDefault("HTTP_PORT", "8080"),
			GRPCPort:    envOrDefault("GRPC_PORT", "50051"),
			MetricsAddr: envOrDefault("METRICS_ADDR", ":9090"),
		},
		Telegram: TelegramConfig{
			Token:       envOrDefault("TELEGRAM_BOT_TOKEN", ""),
			PollTimeout: envOrDefaultInt("TELEGRAM_POLL_TIMEOUT", 60),
			Debug:       envOrDefaultBool("TELEGRAM_DEBUG", false),
		},
		Providers: ProvidersConfig{
			STT:                 strings.ToLower(envOrDefault("STT_PROVIDER", "mock")),
			LLM:                 strings.ToLower(envOrDefault("LLM_PROVIDER", "mock")),
			TTS:                 strings.ToLower(envOrDefault("TTS_PROVIDER", "mock")),
			OpenAIAPIKey:        envOrDefault("OPENAI_API_KEY", ""),
			OpenAIBaseURL:       envOrDefault("OPENAI_BASE_URL", ""),
			ChatModel:           envOrDefault("OPENAI_CHAT_MODEL", "gpt-4o"),
			TranscriptionModel:  envOrDefault("OPENAI_TRANSCRIPTION_MODEL", "whisper-1"),
			SpeechModel:         envOrDefault("OPENAI_SPEECH_MODEL", "tts-1"),
			GeminiAPIKey:        envOrDefault("GEMINI_API_KEY", ""),
			GeminiModel:         envOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
			GoogleAudioEncoding: envOrDefault("STT_AUDIO_ENCODING", "OGG_OPUS"),
			GoogleSampleRateHz:  envOrDefaultInt("STT_SAMPLE_RATE_HZ", 48000),
		},
		Resilience: ResilienceConfig{
			Timeout:          envOrDefaultDuration("PROVIDER_TIMEOUT", 30*time.Second),
			MaxAttempts:      envOrDefaultInt("PROVIDER_MAX_ATTEMPTS", 3),
			RetryBaseDelay:   envOrDefaultDuration("PROVIDER_RETRY_BASE_DELAY", 500*time.Millisecond),
			SynthesisTimeout: envOrDefaultDuration("SYNTHESIS_TIMEOUT", 30*time.Second),
		},
		Voice: VoiceConfig{
			MaxAudioBytes:        int64(envOrDefaultInt("VOICE_MAX_AUDIO_BYTES", 20*1024*1024)),
			DefaultSpeechReplies: envOrDefaultBool("VOICE_DEFAULT_SPEECH_REPLIES", false),
		},
		Catalog: CatalogConfig{
			Path: envOrDefault("LANGUAGE_CATALOG_PATH", ""),
		},
		Kafka: KafkaConfig{
			Enabled:     envOrDefaultBool("KAFKA_ENABLED", false),
			Brokers:     envOrDefaultList("KAFKA_BROKERS", nil),
			TopicTurns:  envOrDefault("KAFKA_TOPIC_TURNS", "tutor.turns"),
			TopicStages: envOrDefault("KAFKA_TOPIC_STAGES", "tutor.stages"),
			Principal:   envOrDefault("KAFKA_PRINCIPAL", principal),
		},
		Journal: JournalConfig{
			DBPath: envOrDefault("JOURNAL_DB_PATH", ""),
		},
		Observability: ObservabilityConfig{
			LogLevel:  envOrDefault("LOG_LEVEL", "info"),
			LogFormat: envOrDefault("LOG_FORMAT", "json"),
		},
	}
}

// Validate checks that the selected providers have the settings they need.
func (c *Configuration) Validate() error {
	if c.Service.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}
	switch c.Providers.STT {
	case "mock", "google":
	case "openai":
		if c.Providers.OpenAIAPIKey == "" {
			return fmt.Errorf("STT_PROVIDER=openai requires OPENAI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown STT_PROVIDER %q", c.Providers.STT)
	}
	switch c.Providers.LLM {
	case "mock":
	case "openai":
		if c.Providers.OpenAIAPIKey == "" {
			return fmt.Errorf("LLM_PROVIDER=openai requires OPENAI_API_KEY")
		}
	case "gemini":
		if c.Providers.GeminiAPIKey == "" {
			return fmt.Errorf("LLM_PROVIDER=gemini requires GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.Providers.LLM)
	}
	switch c.Providers.TTS {
	case "mock":
	case "openai":
		if c.Providers.OpenAIAPIKey == "" {
			return fmt.Errorf("TTS_PROVIDER=openai requires OPENAI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown TTS_PROVIDER %q", c.Providers.TTS)
	}
	if c.Resilience.MaxAttempts < 1 {
		return fmt.Errorf("PROVIDER_MAX_ATTEMPTS must be >= 1")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_ENABLED requires KAFKA_BROKERS")
	}
	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

func envOrDefaultBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return b
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return d
}

func envOrDefaultList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
