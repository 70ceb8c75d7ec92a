// Package stt defines the speech-to-text collaborator used for voice turns.
package stt

import (
	"context"

	"ai-language-tutor-service/internal/service/provider"
)

// Op names transcription in metrics, logs and provider errors.
const Op = "transcribe"

// Request is one recorded voice note to transcribe.
type Request struct {
	Audio    []byte
	Format   string // container hint such as "ogg" or "mp3"
	Language string // ISO 639-1 hint, may be empty
	Locale   string // BCP-47 hint, may be empty
}

// Transcriber turns recorded speech into text. Implementations return
// *provider.Error on failure.
type Transcriber interface {
	Transcribe(ctx context.Context, req Request) (string, error)
	Name() string
}

// WithPolicy wraps t so that every call is bounded and retried by p.
func WithPolicy(t Transcriber, p provider.Policy) Transcriber {
	return &resilient{next: t, policy: p}
}

type resilient struct {
	next   Transcriber
	policy provider.Policy
}

func (r *resilient) Name() string { return r.next.Name() }

func (r *resilient) Transcribe(ctx context.Context, req Request) (string, error) {
	var text string
	err := r.policy.Do(ctx, Op, r.next.Name(), func(ctx context.Context) error {
		var err error
		text, err = r.next.Transcribe(ctx, req)
		return err
	})
	return text, err
}
