// Package llm defines the text-generation collaborator.
package llm

import (
	"context"

	"ai-language-tutor-service/internal/service/provider"
)

// Op names generation in metrics, logs and provider errors.
const Op = "generate"

// Role of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the conversation sent to the model.
type Message struct {
	Role    Role
	Content string
}

// System builds a system message.
func System(content string) Message { return Message{Role: RoleSystem, Content: content} }

// User builds a user message.
func User(content string) Message { return Message{Role: RoleUser, Content: content} }

// Generator produces a reply for a list of messages. Implementations return
// *provider.Error on failure and never return an empty reply without an error.
type Generator interface {
	Generate(ctx context.Context, messages []Message) (string, error)
	Name() string
}

// WithPolicy wraps g so that every call is bounded and retried by p.
func WithPolicy(g Generator, p provider.Policy) Generator {
	return &resilient{next: g, policy: p}
}

type resilient struct {
	next   Generator
	policy provider.Policy
}

func (r *resilient) Name() string { return r.next.Name() }

func (r *resilient) Generate(ctx context.Context, messages []Message) (string, error) {
	var reply string
	err := r.policy.Do(ctx, Op, r.next.Name(), func(ctx context.Context) error {
		var err error
		reply, err = r.next.Generate(ctx, messages)
		return err
	})
	return reply, err
}
