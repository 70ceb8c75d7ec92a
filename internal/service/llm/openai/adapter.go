// Package openai provides a chat completion adapter.
package openai

import (
	"context"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"ai-language-tutor-service/internal/service/llm"
	"ai-language-tutor-service/internal/service/provider"
)

// Adapter implements llm.Generator using the OpenAI chat completions API.
type Adapter struct {
	client *goopenai.Client
	model  string
}

// New creates a chat adapter on a shared client.
func New(client *goopenai.Client, model string) *Adapter {
	if model == "" {
		model = goopenai.GPT4o
	}
	return &Adapter{client: client, model: model}
}

// Name returns the provider identifier.
func (a *Adapter) Name() string { return "openai" }

// Generate returns the first choice of a chat completion.
func (a *Adapter) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:    a.model,
		Messages: toChatMessages(messages),
	})
	if err != nil {
		return "", provider.ClassifyOpenAI(llm.Op, err)
	}
	if len(resp.Choices) == 0 {
		return "", provider.Wrap(llm.Op, a.Name(), provider.KindBadResponse, provider.ErrEmptyResult)
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", provider.Wrap(llm.Op, a.Name(), provider.KindBadResponse, provider.ErrEmptyResult)
	}
	return reply, nil
}

func toChatMessages(messages []llm.Message) []goopenai.ChatCompletionMessage {
	out := make([]goopenai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := goopenai.ChatMessageRoleUser
		switch m.Role {
		case llm.RoleSystem:
			role = goopenai.ChatMessageRoleSystem
		case llm.RoleAssistant:
			role = goopenai.ChatMessageRoleAssistant
		}
		out = append(out, goopenai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}
