package quiz

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"ai-language-tutor-service/internal/models"
	"ai-language-tutor-service/internal/observability/logging"
	"ai-language-tutor-service/internal/observability/metrics"
	"ai-language-tutor-service/internal/service/llm"
	"ai-language-tutor-service/internal/service/prompt"
)

// Service generates a quiz with the generation collaborator and parses it.
type Service struct {
	gen     llm.Generator
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewService creates a quiz service.
func NewService(gen llm.Generator) *Service {
	return &Service{
		gen:     gen,
		metrics: metrics.DefaultMetrics,
		logger:  logging.WithComponent("quiz"),
	}
}

// Generate asks for a quiz in language at level. A reply with no usable block
// yields an empty Result and no error.
func (s *Service) Generate(ctx context.Context, language string, level models.Level) (Result, error) {
	raw, err := s.gen.Generate(ctx, []llm.Message{llm.System(prompt.Quiz(language, level))})
	if err != nil {
		return Result{}, fmt.Errorf("generate quiz: %w", err)
	}

	res := Parse(raw)
	s.metrics.RecordQuizParse(len(res.Questions), res.Skipped)
	if res.Skipped > 0 || len(res.Questions) == 0 {
		s.logger.Warn().
			Str("language", language).
			Int("parsed", len(res.Questions)).
			Int("skipped", res.Skipped).
			Msg("Quiz output partially unusable")
	}
	return res, nil
}
