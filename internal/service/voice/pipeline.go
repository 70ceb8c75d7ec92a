// Package voice sequences a voice turn: transcription, reply generation and
// optional speech synthesis.
package voice

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"ai-language-tutor-service/internal/models"
	"ai-language-tutor-service/internal/observability/logging"
	"ai-language-tutor-service/internal/observability/metrics"
	"ai-language-tutor-service/internal/service/llm"
	"ai-language-tutor-service/internal/service/prompt"
	"ai-language-tutor-service/internal/service/stt"
	"ai-language-tutor-service/internal/service/tts"
)

// Errors returned before any collaborator is called.
var (
	ErrNoAudio            = errors.New("voice note is empty")
	ErrAudioTooLarge      = errors.New("voice note exceeds size limit")
	ErrNoLearningLanguage = errors.New("learning language not chosen")
)

// Request is one voice turn.
type Request struct {
	Audio            []byte
	Format           string
	LearningLanguage string // display name, e.g. "German"
	Level            models.Level
	WantsSpeech      bool
}

// Result carries the reply as text, and as audio when speech was requested and
// synthesis succeeded. Degraded is set when synthesis failed and only text is left.
type Result struct {
	Transcript string
	Text       string
	Audio      *models.Audio
	Degraded   bool
}

// Pipeline runs voice turns against the three collaborators.
type Pipeline struct {
	transcriber   stt.Transcriber
	generator     llm.Generator
	synthesizer   tts.Synthesizer
	catalog       *prompt.Catalog
	maxAudioBytes int64
	metrics       *metrics.Metrics
	logger        zerolog.Logger
}

// New creates a pipeline. maxAudioBytes <= 0 disables the size check.
func New(t stt.Transcriber, g llm.Generator, s tts.Synthesizer, catalog *prompt.Catalog, maxAudioBytes int64) *Pipeline {
	return &Pipeline{
		transcriber:   t,
		generator:     g,
		synthesizer:   s,
		catalog:       catalog,
		maxAudioBytes: maxAudioBytes,
		metrics:       metrics.DefaultMetrics,
		logger:        logging.WithComponent("voice"),
	}
}

// Run transcribes the voice note, generates a reply in the learning language and,
// when requested, synthesizes it with the language's voice. Transcription and
// generation failures abort the turn with the collaborator's error.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	if req.LearningLanguage == "" {
		return Result{}, ErrNoLearningLanguage
	}
	if len(req.Audio) == 0 {
		p.metrics.RecordVoiceRejected("empty")
		return Result{}, ErrNoAudio
	}
	if p.maxAudioBytes > 0 && int64(len(req.Audio)) > p.maxAudioBytes {
		p.metrics.RecordVoiceRejected("too_large")
		return Result{}, fmt.Errorf("%w: %d bytes", ErrAudioTooLarge, len(req.Audio))
	}
	p.metrics.RecordVoiceReceived(len(req.Audio))

	sttReq := stt.Request{Audio: req.Audio, Format: req.Format}
	if lang, ok := p.catalog.Match(req.LearningLanguage); ok {
		sttReq.Language = lang.Code
		sttReq.Locale = lang.Locale
	}
	transcript, err := p.transcriber.Transcribe(ctx, sttReq)
	if err != nil {
		return Result{}, fmt.Errorf("transcribe: %w", err)
	}

	reply, err := p.generator.Generate(ctx, []llm.Message{
		llm.System(prompt.TurnReply(req.LearningLanguage, req.Level)),
		llm.User(transcript),
	})
	if err != nil {
		return Result{}, fmt.Errorf("generate reply: %w", err)
	}

	res := Result{Transcript: transcript, Text: reply}
	if !req.WantsSpeech {
		return res, nil
	}

	voice := p.catalog.VoiceFor(req.LearningLanguage)
	audio, err := p.synthesizer.Synthesize(ctx, reply, voice)
	if err != nil {
		p.logger.Warn().
			Err(err).
			Str("voice", voice).
			Msg("Synthesis failed, replying with text")
		res.Degraded = true
		return res, nil
	}
	res.Audio = &models.Audio{Data: audio, MimeType: models.MimeTypeMPEG}
	return res, nil
}
