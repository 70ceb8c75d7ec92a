package provider

import (
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// NewOpenAIClient builds the client shared by the OpenAI transcription, chat and
// speech adapters. An empty baseURL keeps the library default.
func NewOpenAIClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return openai.NewClientWithConfig(cfg)
}

// ClassifyOpenAI converts a go-openai error into an Error.
func ClassifyOpenAI(op string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return Wrap(op, "openai", KindFromStatus(apiErr.HTTPStatusCode), err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return Wrap(op, "openai", KindFromStatus(reqErr.HTTPStatusCode), err)
	}
	return Wrap(op, "openai", KindUnavailable, err)
}
