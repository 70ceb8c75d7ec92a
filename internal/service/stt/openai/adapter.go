// Package openai provides a Whisper transcription adapter.
package openai

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"ai-language-tutor-service/internal/service/provider"
	"ai-language-tutor-service/internal/service/stt"
)

// DefaultModel is used when no transcription model is configured.
const DefaultModel = goopenai.Whisper1

// Adapter implements stt.Transcriber using the OpenAI audio API.
type Adapter struct {
	client *goopenai.Client
	model  string
}

// New creates a transcription adapter on a shared client.
func New(client *goopenai.Client, model string) *Adapter {
	if model == "" {
		model = DefaultModel
	}
	return &Adapter{client: client, model: model}
}

// Name returns the provider identifier.
func (a *Adapter) Name() string { return "openai" }

// Transcribe uploads the voice note and returns the recognized text.
func (a *Adapter) Transcribe(ctx context.Context, req stt.Request) (string, error) {
	if len(req.Audio) == 0 {
		return "", provider.Wrap(stt.Op, a.Name(), provider.KindBadResponse, fmt.Errorf("no audio"))
	}

	resp, err := a.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    a.model,
		Reader:   bytes.NewReader(req.Audio),
		FilePath: fileName(req.Format),
		Language: req.Language,
	})
	if err != nil {
		return "", provider.ClassifyOpenAI(stt.Op, err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", provider.Wrap(stt.Op, a.Name(), provider.KindBadResponse, provider.ErrEmptyResult)
	}
	return text, nil
}

// fileName gives the upload an extension the API can detect the codec from.
func fileName(format string) string {
	format = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(format)), ".")
	switch format {
	case "", "oga", "opus":
		format = "ogg"
	case "mpeg":
		format = "mp3"
	}
	return "voice." + format
}
