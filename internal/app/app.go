// Package app wires the tutor's collaborators together from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"ai-language-tutor-service/internal/config"
	"ai-language-tutor-service/internal/events"
	"ai-language-tutor-service/internal/observability/logging"
	"ai-language-tutor-service/internal/service/llm"
	llmgemini "ai-language-tutor-service/internal/service/llm/gemini"
	llmmock "ai-language-tutor-service/internal/service/llm/mock"
	llmopenai "ai-language-tutor-service/internal/service/llm/openai"
	"ai-language-tutor-service/internal/service/prompt"
	"ai-language-tutor-service/internal/service/provider"
	"ai-language-tutor-service/internal/service/quiz"
	"ai-language-tutor-service/internal/service/router"
	"ai-language-tutor-service/internal/service/session"
	"ai-language-tutor-service/internal/service/stt"
	sttgoogle "ai-language-tutor-service/internal/service/stt/google"
	sttmock "ai-language-tutor-service/internal/service/stt/mock"
	sttopenai "ai-language-tutor-service/internal/service/stt/openai"
	"ai-language-tutor-service/internal/service/tts"
	ttsmock "ai-language-tutor-service/internal/service/tts/mock"
	ttsopenai "ai-language-tutor-service/internal/service/tts/openai"
	"ai-language-tutor-service/internal/service/voice"
	"ai-language-tutor-service/internal/store"
)

// Application holds process-wide state for the service.
type Application struct {
	StartupTime time.Time
	Logger      zerolog.Logger
	Cfg         *config.Configuration

	Sessions  *session.Store
	Catalog   *prompt.Catalog
	Router    *router.Router
	Publisher *events.Publisher
	Journal   store.Journal

	closers []func() error
	ready   atomic.Bool
}

// New builds the application: logger, catalog, collaborators behind their
// retry policies, session store, publisher, journal and router.
func New(ctx context.Context, cfg *config.Configuration) (*Application, error) {
	logging.Init(logging.Config{
		Level:      cfg.Observability.LogLevel,
		Format:     cfg.Observability.LogFormat,
		TimeFormat: time.RFC3339,
	})

	a := &Application{
		Cfg:    cfg,
		Logger: logging.WithComponent("application"),
	}

	catalog := prompt.DefaultCatalog()
	if cfg.Catalog.Path != "" {
		loaded, err := prompt.LoadCatalog(cfg.Catalog.Path)
		if err != nil {
			return nil, fmt.Errorf("load language catalog: %w", err)
		}
		catalog = loaded
	}
	a.Catalog = catalog

	policy := provider.Policy{
		Timeout:     cfg.Resilience.Timeout,
		MaxAttempts: cfg.Resilience.MaxAttempts,
		BaseDelay:   cfg.Resilience.RetryBaseDelay,
	}
	synthesisPolicy := policy
	synthesisPolicy.Timeout = cfg.Resilience.SynthesisTimeout

	transcriber, err := a.newTranscriber(ctx)
	if err != nil {
		a.closeAll()
		return nil, err
	}
	generator, err := a.newGenerator(ctx)
	if err != nil {
		a.closeAll()
		return nil, err
	}
	synthesizer, err := a.newSynthesizer()
	if err != nil {
		a.closeAll()
		return nil, err
	}

	transcriber = stt.WithPolicy(transcriber, policy)
	generator = llm.WithPolicy(generator, policy)
	synthesizer = tts.WithPolicy(synthesizer, synthesisPolicy)

	a.Journal = store.Noop{}
	if cfg.Journal.DBPath != "" {
		journal, err := store.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			a.closeAll()
			return nil, fmt.Errorf("open journal: %w", err)
		}
		a.Journal = journal
		a.closers = append(a.closers, journal.Close)
	}

	a.Publisher = events.New(&events.Config{
		Brokers:     cfg.Kafka.Brokers,
		TopicTurns:  cfg.Kafka.TopicTurns,
		TopicStages: cfg.Kafka.TopicStages,
		Principal:   cfg.Kafka.Principal,
		Enabled:     cfg.Kafka.Enabled,
	})
	a.closers = append(a.closers, a.Publisher.Close)

	a.Sessions = session.NewStore()
	a.Router = router.New(router.Deps{
		Store:                a.Sessions,
		Catalog:              catalog,
		Generator:            generator,
		Quizzes:              quiz.NewService(generator),
		Voice:                voice.New(transcriber, generator, synthesizer, catalog, cfg.Voice.MaxAudioBytes),
		Events:               a.Publisher,
		Journal:              a.Journal,
		DefaultSpeechReplies: cfg.Voice.DefaultSpeechReplies,
	})

	a.Logger.Info().
		Str("stt", transcriber.Name()).
		Str("llm", generator.Name()).
		Str("tts", synthesizer.Name()).
		Int("languages", len(catalog.Languages)).
		Bool("journal", cfg.Journal.DBPath != "").
		Bool("kafka", cfg.Kafka.Enabled).
		Msg("AI language tutor application created")
	return a, nil
}

func (a *Application) newTranscriber(ctx context.Context) (stt.Transcriber, error) {
	p := a.Cfg.Providers
	switch p.STT {
	case "openai":
		return sttopenai.New(provider.NewOpenAIClient(p.OpenAIAPIKey, p.OpenAIBaseURL), p.TranscriptionModel), nil
	case "google":
		gcfg := sttgoogle.DefaultConfig()
		if p.GoogleAudioEncoding != "" {
			gcfg.AudioEncoding = p.GoogleAudioEncoding
		}
		if p.GoogleSampleRateHz > 0 {
			gcfg.SampleRateHz = p.GoogleSampleRateHz
		}
		adapter, err := sttgoogle.New(ctx, gcfg)
		if err != nil {
			return nil, fmt.Errorf("create google transcriber: %w", err)
		}
		a.closers = append(a.closers, adapter.Close)
		return adapter, nil
	case "mock", "":
		return sttmock.New(), nil
	default:
		return nil, fmt.Errorf("unknown STT provider %q", p.STT)
	}
}

func (a *Application) newGenerator(ctx context.Context) (llm.Generator, error) {
	p := a.Cfg.Providers
	switch p.LLM {
	case "openai":
		return llmopenai.New(provider.NewOpenAIClient(p.OpenAIAPIKey, p.OpenAIBaseURL), p.ChatModel), nil
	case "gemini":
		adapter, err := llmgemini.New(ctx, p.GeminiAPIKey, p.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("create gemini generator: %w", err)
		}
		return adapter, nil
	case "mock", "":
		return llmmock.New(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", p.LLM)
	}
}

func (a *Application) newSynthesizer() (tts.Synthesizer, error) {
	p := a.Cfg.Providers
	switch p.TTS {
	case "openai":
		return ttsopenai.New(provider.NewOpenAIClient(p.OpenAIAPIKey, p.OpenAIBaseURL), p.SpeechModel), nil
	case "mock", "":
		return ttsmock.New(), nil
	default:
		return nil, fmt.Errorf("unknown TTS provider %q", p.TTS)
	}
}

// Start marks the application ready to serve traffic.
func (a *Application) Start() error {
	a.StartupTime = time.Now().UTC()
	a.ready.Store(true)
	a.Logger.Info().
		Time("startupTime", a.StartupTime).
		Msg("AI language tutor starting")
	return nil
}

// Ready reports whether the application started and its journal is reachable.
func (a *Application) Ready() bool {
	if !a.ready.Load() {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return a.Journal.Ping(ctx) == nil
}

// Shutdown stops accepting traffic and closes the publisher, journal and
// provider clients. Close errors are logged and returned joined.
func (a *Application) Shutdown() error {
	a.ready.Store(false)
	a.Logger.Info().Msg("AI language tutor shutting down")
	return a.closeAll()
}

func (a *Application) closeAll() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.Warn().Err(err).Msg("Close failed during shutdown")
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
