// Package gemini provides a Gemini text generation adapter.
package gemini

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"

	"ai-language-tutor-service/internal/service/llm"
	"ai-language-tutor-service/internal/service/provider"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// Adapter implements llm.Generator using the Gemini API.
type Adapter struct {
	client *genai.Client
	model  string
}

// New creates a Gemini adapter for the given API key.
func New(ctx context.Context, apiKey, model string) (*Adapter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = DefaultModel
	}
	return &Adapter{client: client, model: model}, nil
}

// Name returns the provider identifier.
func (a *Adapter) Name() string { return "gemini" }

// Generate sends the conversation as contents, with system messages joined into
// the system instruction.
func (a *Adapter) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	system, contents := toContents(messages)

	var cfg *genai.GenerateContentConfig
	if system != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		}
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, cfg)
	if err != nil {
		return "", classify(err)
	}

	reply := strings.TrimSpace(resp.Text())
	if reply == "" {
		return "", provider.Wrap(llm.Op, a.Name(), provider.KindBadResponse, provider.ErrEmptyResult)
	}
	return reply, nil
}

func toContents(messages []llm.Message) (string, []*genai.Content) {
	var system []string
	var contents []*genai.Content
	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			system = append(system, m.Content)
		case llm.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	// The API rejects a request without contents.
	if len(contents) == 0 && len(system) > 0 {
		contents = append(contents, genai.NewContentFromText(system[len(system)-1], genai.RoleUser))
		system = system[:len(system)-1]
	}
	return strings.Join(system, "\n\n"), contents
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return provider.Wrap(llm.Op, "gemini", provider.KindUnavailable, err)
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code != 0 {
		return &provider.Error{Op: llm.Op, Provider: "gemini", Kind: provider.KindFromStatus(apiErr.Code), Err: err}
	}

	// Transport failures carry no status; fall back to the message.
	msg := err.Error()
	kind := provider.KindUnavailable
	switch {
	case strings.Contains(msg, "RESOURCE_EXHAUSTED"):
		kind = provider.KindRateLimit
	case strings.Contains(msg, "DEADLINE_EXCEEDED"):
		kind = provider.KindTimeout
	case strings.Contains(msg, "INVALID_ARGUMENT") || strings.Contains(msg, "PERMISSION_DENIED"):
		kind = provider.KindRejected
	}
	return &provider.Error{Op: llm.Op, Provider: "gemini", Kind: kind, Err: err}
}
