// Package mock provides a synthesizer that returns placeholder audio.
package mock

import (
	"context"
	"fmt"

	"ai-language-tutor-service/internal/service/provider"
	"ai-language-tutor-service/internal/service/tts"
)

// frameHeader is an MPEG-1 Layer III frame sync so clients sniff the payload as MP3.
var frameHeader = []byte{0xFF, 0xFB, 0x90, 0x64}

// Adapter implements tts.Synthesizer without calling any service.
type Adapter struct{}

// New creates a mock synthesizer.
func New() *Adapter {
	return &Adapter{}
}

// Name returns the provider identifier.
func (a *Adapter) Name() string { return "mock" }

// Synthesize returns an MP3 frame header followed by the voice and text.
func (a *Adapter) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, provider.Wrap(tts.Op, a.Name(), provider.KindCanceled, err)
	}
	if text == "" {
		return nil, provider.Wrap(tts.Op, a.Name(), provider.KindBadResponse, provider.ErrEmptyResult)
	}
	out := append([]byte{}, frameHeader...)
	return append(out, fmt.Sprintf("%s:%s", voice, text)...), nil
}
