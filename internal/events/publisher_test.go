package events

import (
	"context"
	"testing"

	"ai-language-tutor-service/internal/models"
)

func TestNew_DisabledMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"nil config", nil},
		{"disabled", &Config{Enabled: false, Brokers: []string{"localhost:9092"}}},
		{"no brokers", &Config{Enabled: true, Brokers: []string{}}},
		{"empty brokers", &Config{Enabled: true, Brokers: nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.cfg)
			if p == nil {
				t.Fatal("expected non-nil publisher")
			}
			if p.enabled {
				t.Error("expected publisher to be disabled")
			}
			if p.writerTurns != nil || p.writerStages != nil {
				t.Error("expected nil writers when disabled")
			}
		})
	}
}

func TestNew_ConfigValues(t *testing.T) {
	p := New(&Config{
		Enabled:     false,
		Brokers:     []string{"localhost:9092"},
		TopicTurns:  "test.turns",
		TopicStages: "test.stages",
		Principal:   "test-principal",
	})

	if p.principal != "test-principal" {
		t.Errorf("expected principal 'test-principal', got %s", p.principal)
	}
	if p.topicTurns != "test.turns" {
		t.Errorf("expected turns topic 'test.turns', got %s", p.topicTurns)
	}
	if p.topicStages != "test.stages" {
		t.Errorf("expected stages topic 'test.stages', got %s", p.topicStages)
	}
}

func TestNew_EnabledCreatesWriters(t *testing.T) {
	p := New(&Config{
		Enabled:     true,
		Brokers:     []string{"localhost:9092"},
		TopicTurns:  "test.turns",
		TopicStages: "test.stages",
	})
	defer p.Close()

	if !p.enabled {
		t.Fatal("expected publisher enabled")
	}
	if p.writerTurns.Topic != "test.turns" || p.writerStages.Topic != "test.stages" {
		t.Errorf("unexpected writer topics %s, %s", p.writerTurns.Topic, p.writerStages.Topic)
	}
}

func TestPublisher_PublishTurn_Disabled(t *testing.T) {
	p := New(&Config{Enabled: false, TopicTurns: "test.turns", Principal: "test-svc"})

	err := p.PublishTurn(context.Background(), models.TurnCompleted{
		EventType: models.EventTurnCompleted,
		UserID:    "u1",
		TurnID:    "u1-turn-1",
		Kind:      "text",
		Stage:     "conversation",
		Outcome:   "ok",
	})
	if err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
}

func TestPublisher_PublishStage_Disabled(t *testing.T) {
	p := New(&Config{Enabled: false, TopicStages: "test.stages"})

	err := p.PublishStage(context.Background(), models.StageChanged{
		EventType: models.EventStageChanged,
		UserID:    "u1",
		From:      "choose_language",
		To:        "choose_level",
	})
	if err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
}

func TestPublisher_Publish_InvalidJSON(t *testing.T) {
	p := New(&Config{Enabled: false})

	// Channels cannot be marshaled.
	err := p.publish(context.Background(), nil, "test", "test", "key", make(chan int))
	if err == nil {
		t.Error("expected error for unmarshalable event")
	}
}

func TestPublisher_Close_NoWriters(t *testing.T) {
	if err := New(&Config{Enabled: false}).Close(); err != nil {
		t.Errorf("expected no error closing disabled publisher, got %v", err)
	}
	if err := (&Publisher{}).Close(); err != nil {
		t.Errorf("expected no error closing publisher with nil writers, got %v", err)
	}
}
