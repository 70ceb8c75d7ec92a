// Package tts defines the speech synthesis collaborator used for spoken replies.
package tts

import (
	"context"

	"ai-language-tutor-service/internal/service/provider"
)

// Op names synthesis in metrics, logs and provider errors.
const Op = "synthesize"

// Synthesizer renders text as MP3 audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
	Name() string
}

// WithPolicy bounds every call by the policy timeout. Synthesis is attempted once.
func WithPolicy(s Synthesizer, p provider.Policy) Synthesizer {
	return &bounded{next: s, policy: p.Once()}
}

type bounded struct {
	next   Synthesizer
	policy provider.Policy
}

func (b *bounded) Name() string { return b.next.Name() }

func (b *bounded) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	var audio []byte
	err := b.policy.Do(ctx, Op, b.next.Name(), func(ctx context.Context) error {
		var err error
		audio, err = b.next.Synthesize(ctx, text, voice)
		return err
	})
	return audio, err
}
