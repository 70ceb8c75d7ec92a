package google

import (
	"errors"
	"testing"

	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ai-language-tutor-service/internal/service/provider"
	"ai-language-tutor-service/internal/service/stt"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LanguageCode != "en-US" {
		t.Errorf("expected default language 'en-US', got %s", cfg.LanguageCode)
	}
	if cfg.SampleRateHz != 48000 {
		t.Errorf("expected default sample rate 48000, got %d", cfg.SampleRateHz)
	}
	if cfg.AudioEncoding != "OGG_OPUS" {
		t.Errorf("expected default encoding 'OGG_OPUS', got %s", cfg.AudioEncoding)
	}
	if !cfg.Punctuation {
		t.Error("expected punctuation enabled by default")
	}
}

func TestParseAudioEncoding(t *testing.T) {
	tests := []struct {
		input    string
		expected speechpb.RecognitionConfig_AudioEncoding
	}{
		{"LINEAR16", speechpb.RecognitionConfig_LINEAR16},
		{"MULAW", speechpb.RecognitionConfig_MULAW},
		{"FLAC", speechpb.RecognitionConfig_FLAC},
		{"AMR", speechpb.RecognitionConfig_AMR},
		{"AMR_WB", speechpb.RecognitionConfig_AMR_WB},
		{"OGG_OPUS", speechpb.RecognitionConfig_OGG_OPUS},
		{"SPEEX_WITH_HEADER_BYTE", speechpb.RecognitionConfig_SPEEX_WITH_HEADER_BYTE},
		{"WEBM_OPUS", speechpb.RecognitionConfig_WEBM_OPUS},
		{"MP3", speechpb.RecognitionConfig_MP3},
		{"linear16", speechpb.RecognitionConfig_LINEAR16},
		{" flac ", speechpb.RecognitionConfig_FLAC},
		{"UNKNOWN", speechpb.RecognitionConfig_OGG_OPUS},
		{"", speechpb.RecognitionConfig_OGG_OPUS},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseAudioEncoding(tt.input)
			if got != tt.expected {
				t.Errorf("parseAudioEncoding(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestBuildRequest_LocaleFallback(t *testing.T) {
	a := &Adapter{cfg: DefaultConfig()}

	req := a.buildRequest(stt.Request{Audio: []byte{1, 2}})
	if req.GetConfig().GetLanguageCode() != "en-US" {
		t.Errorf("expected fallback language, got %s", req.GetConfig().GetLanguageCode())
	}
	if req.GetConfig().GetSampleRateHertz() != 48000 {
		t.Errorf("expected sample rate 48000, got %d", req.GetConfig().GetSampleRateHertz())
	}

	req = a.buildRequest(stt.Request{Audio: []byte{1, 2}, Locale: "de-DE"})
	if req.GetConfig().GetLanguageCode() != "de-DE" {
		t.Errorf("expected request locale, got %s", req.GetConfig().GetLanguageCode())
	}
	if len(req.GetAudio().GetContent()) != 2 {
		t.Error("expected audio content to be forwarded")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want provider.Kind
	}{
		{"deadline", status.Error(codes.DeadlineExceeded, "slow"), provider.KindTimeout},
		{"quota", status.Error(codes.ResourceExhausted, "quota"), provider.KindRateLimit},
		{"bad audio", status.Error(codes.InvalidArgument, "bad"), provider.KindRejected},
		{"unavailable", status.Error(codes.Unavailable, "down"), provider.KindUnavailable},
		{"plain", errors.New("boom"), provider.KindUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := provider.KindOf(classify(tt.err)); got != tt.want {
				t.Errorf("classify() kind = %s, want %s", got, tt.want)
			}
		})
	}
}
