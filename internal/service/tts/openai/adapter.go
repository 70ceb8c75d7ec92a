// Package openai provides a text-to-speech adapter.
package openai

import (
	"context"
	"io"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"ai-language-tutor-service/internal/service/prompt"
	"ai-language-tutor-service/internal/service/provider"
	"ai-language-tutor-service/internal/service/tts"
)

// Adapter implements tts.Synthesizer using the OpenAI speech API.
type Adapter struct {
	client *goopenai.Client
	model  goopenai.SpeechModel
}

// New creates a speech adapter on a shared client.
func New(client *goopenai.Client, model string) *Adapter {
	if model == "" {
		model = string(goopenai.TTSModel1)
	}
	return &Adapter{client: client, model: goopenai.SpeechModel(model)}
}

// Name returns the provider identifier.
func (a *Adapter) Name() string { return "openai" }

// Synthesize returns MP3 audio for text spoken by voice.
func (a *Adapter) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, provider.Wrap(tts.Op, a.Name(), provider.KindBadResponse, provider.ErrEmptyResult)
	}
	if voice == "" {
		voice = prompt.DefaultVoice
	}

	resp, err := a.client.CreateSpeech(ctx, goopenai.CreateSpeechRequest{
		Model:          a.model,
		Input:          text,
		Voice:          goopenai.SpeechVoice(voice),
		ResponseFormat: goopenai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, provider.ClassifyOpenAI(tts.Op, err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, provider.Wrap(tts.Op, a.Name(), provider.KindUnavailable, err)
	}
	if len(audio) == 0 {
		return nil, provider.Wrap(tts.Op, a.Name(), provider.KindBadResponse, provider.ErrEmptyResult)
	}
	return audio, nil
}
