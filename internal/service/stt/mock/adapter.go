// Package mock provides a canned transcriber for running without cloud credentials.
package mock

import (
	"context"
	"fmt"
	"sync"

	"ai-language-tutor-service/internal/service/provider"
	"ai-language-tutor-service/internal/service/stt"
)

// DefaultUtterances are learner phrases returned in rotation.
var DefaultUtterances = []string{
	"Ich möchte einen Kaffee, bitte",
	"¿Dónde está la estación de tren?",
	"Je voudrais réserver une table pour deux",
	"How much does this cost?",
	"Можно мне чай с лимоном?",
}

// Adapter implements stt.Transcriber with canned responses. It cycles through its
// utterances, one per call, regardless of the audio content.
type Adapter struct {
	mu         sync.Mutex
	utterances []string
	next       int
}

// New creates a mock transcriber over DefaultUtterances.
func New() *Adapter {
	return NewWithUtterances(DefaultUtterances)
}

// NewWithUtterances creates a mock transcriber over the given phrases.
func NewWithUtterances(utterances []string) *Adapter {
	return &Adapter{utterances: utterances}
}

// Name returns the provider identifier.
func (a *Adapter) Name() string { return "mock" }

// Transcribe returns the next canned utterance.
func (a *Adapter) Transcribe(ctx context.Context, req stt.Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", provider.Wrap(stt.Op, a.Name(), provider.KindCanceled, err)
	}
	if len(req.Audio) == 0 {
		return "", provider.Wrap(stt.Op, a.Name(), provider.KindBadResponse, fmt.Errorf("no audio"))
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.utterances) == 0 {
		return "", provider.Wrap(stt.Op, a.Name(), provider.KindBadResponse, provider.ErrEmptyResult)
	}
	text := a.utterances[a.next%len(a.utterances)]
	a.next++
	return text, nil
}
