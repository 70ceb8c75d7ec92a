package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	goopenai "github.com/sashabaranov/go-openai"

	"ai-language-tutor-service/internal/service/prompt"
	"ai-language-tutor-service/internal/service/provider"
)

func TestNew_DefaultModel(t *testing.T) {
	if a := New(nil, ""); a.model != goopenai.TTSModel1 {
		t.Errorf("expected default model %s, got %s", goopenai.TTSModel1, a.model)
	}
	if a := New(nil, "tts-1-hd"); a.model != goopenai.TTSModel1HD {
		t.Errorf("expected configured model, got %s", a.model)
	}
}

func TestSynthesize_EmptyText(t *testing.T) {
	_, err := New(nil, "").Synthesize(context.Background(), "  ", "alloy")
	if provider.KindOf(err) != provider.KindBadResponse {
		t.Errorf("expected bad_response for empty text, got %v", err)
	}
}

func TestSynthesize_Voice(t *testing.T) {
	tests := []struct {
		name  string
		voice string
		want  string
	}{
		{"catalog fallback when empty", "", prompt.DefaultVoice},
		{"explicit voice", "nova", "nova"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got goopenai.CreateSpeechRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
					t.Errorf("decode speech request: %v", err)
				}
				w.Header().Set("Content-Type", "audio/mpeg")
				_, _ = w.Write([]byte{0xFF, 0xFB})
			}))
			defer srv.Close()

			a := New(provider.NewOpenAIClient("test-key", srv.URL+"/v1"), "")
			audio, err := a.Synthesize(context.Background(), "Hola", tt.voice)
			if err != nil {
				t.Fatalf("Synthesize() error = %v", err)
			}
			if len(audio) != 2 {
				t.Errorf("expected 2 audio bytes, got %d", len(audio))
			}
			if string(got.Voice) != tt.want {
				t.Errorf("voice = %q, want %q", got.Voice, tt.want)
			}
		})
	}
}
