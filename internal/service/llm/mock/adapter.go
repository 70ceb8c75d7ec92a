// Package mock provides a deterministic generator for running without API keys.
package mock

import (
	"context"
	"strings"

	"ai-language-tutor-service/internal/service/llm"
	"ai-language-tutor-service/internal/service/provider"
)

// SampleQuiz is returned for quiz requests. It follows the numbered layout the
// quiz parser accepts, with the correct option flagged.
const SampleQuiz = `1. Which article goes with "Haus"?
A) der
B) die
C) das *
D) den

2. How do you say "thank you"?
A) Bitte
B) Danke *
C) Hallo
D) Tschüss

3. Which verb form is correct: "Ich ___ müde"?
A) bin *
B) bist
C) ist
D) sind`

// Adapter implements llm.Generator by echoing the learner.
type Adapter struct{}

// New creates a mock generator.
func New() *Adapter {
	return &Adapter{}
}

// Name returns the provider identifier.
func (a *Adapter) Name() string { return "mock" }

// Generate returns SampleQuiz when asked for a quiz, and otherwise echoes the
// last user message.
func (a *Adapter) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", provider.Wrap(llm.Op, a.Name(), provider.KindCanceled, err)
	}
	if len(messages) == 0 {
		return "", provider.Wrap(llm.Op, a.Name(), provider.KindBadResponse, provider.ErrEmptyResult)
	}

	var lastUser string
	for _, m := range messages {
		if strings.Contains(strings.ToLower(m.Content), "multiple-choice") {
			return SampleQuiz, nil
		}
		if m.Role == llm.RoleUser {
			lastUser = m.Content
		}
	}
	if lastUser == "" {
		return "Hallo! Let's practice together.", nil
	}
	return "You said: " + lastUser, nil
}
