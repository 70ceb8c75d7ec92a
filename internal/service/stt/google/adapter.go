// Package google provides a Google Cloud Speech-to-Text adapter.
package google

import (
	"context"
	"errors"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ai-language-tutor-service/internal/service/provider"
	"ai-language-tutor-service/internal/service/stt"
)

// Config holds recognition settings.
type Config struct {
	LanguageCode  string // fallback when the request carries no locale
	SampleRateHz  int
	AudioEncoding string // OGG_OPUS, LINEAR16, MP3, ...
	Punctuation   bool
}

// DefaultConfig matches Telegram voice notes: Opus in Ogg at 48 kHz.
func DefaultConfig() Config {
	return Config{
		LanguageCode:  "en-US",
		SampleRateHz:  48000,
		AudioEncoding: "OGG_OPUS",
		Punctuation:   true,
	}
}

// Adapter implements stt.Transcriber using synchronous recognition.
// Requires GOOGLE_APPLICATION_CREDENTIALS to be set.
type Adapter struct {
	client *speech.Client
	cfg    Config
}

// New creates a new Google STT adapter.
func New(ctx context.Context, cfg Config) (*Adapter, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Adapter{client: c, cfg: cfg}, nil
}

// Name returns the provider identifier.
func (a *Adapter) Name() string { return "google" }

// Transcribe sends the whole voice note and joins the best alternative of each result.
func (a *Adapter) Transcribe(ctx context.Context, req stt.Request) (string, error) {
	if len(req.Audio) == 0 {
		return "", provider.Wrap(stt.Op, a.Name(), provider.KindBadResponse, fmt.Errorf("no audio"))
	}

	resp, err := a.client.Recognize(ctx, a.buildRequest(req))
	if err != nil {
		return "", classify(err)
	}

	var parts []string
	for _, r := range resp.GetResults() {
		if len(r.GetAlternatives()) == 0 {
			continue
		}
		if t := strings.TrimSpace(r.GetAlternatives()[0].GetTranscript()); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return "", provider.Wrap(stt.Op, a.Name(), provider.KindBadResponse, provider.ErrEmptyResult)
	}
	return strings.Join(parts, " "), nil
}

// Close releases the underlying gRPC connection.
func (a *Adapter) Close() error {
	return a.client.Close()
}

func (a *Adapter) buildRequest(req stt.Request) *speechpb.RecognizeRequest {
	lang := req.Locale
	if lang == "" {
		lang = a.cfg.LanguageCode
	}
	return &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   parseAudioEncoding(a.cfg.AudioEncoding),
			SampleRateHertz:            int32(a.cfg.SampleRateHz),
			LanguageCode:               lang,
			EnableAutomaticPunctuation: a.cfg.Punctuation,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: req.Audio},
		},
	}
}

// parseAudioEncoding maps an encoding name to the API enum. Unknown names fall back to OGG_OPUS.
func parseAudioEncoding(encoding string) speechpb.RecognitionConfig_AudioEncoding {
	switch strings.ToUpper(strings.TrimSpace(encoding)) {
	case "LINEAR16":
		return speechpb.RecognitionConfig_LINEAR16
	case "MULAW":
		return speechpb.RecognitionConfig_MULAW
	case "FLAC":
		return speechpb.RecognitionConfig_FLAC
	case "AMR":
		return speechpb.RecognitionConfig_AMR
	case "AMR_WB":
		return speechpb.RecognitionConfig_AMR_WB
	case "SPEEX_WITH_HEADER_BYTE":
		return speechpb.RecognitionConfig_SPEEX_WITH_HEADER_BYTE
	case "WEBM_OPUS":
		return speechpb.RecognitionConfig_WEBM_OPUS
	case "MP3":
		return speechpb.RecognitionConfig_MP3
	default:
		return speechpb.RecognitionConfig_OGG_OPUS
	}
}

func classify(err error) error {
	kind := provider.KindUnavailable
	switch status.Code(err) {
	case codes.DeadlineExceeded:
		kind = provider.KindTimeout
	case codes.ResourceExhausted:
		kind = provider.KindRateLimit
	case codes.InvalidArgument, codes.PermissionDenied, codes.Unauthenticated, codes.FailedPrecondition:
		kind = provider.KindRejected
	case codes.Canceled:
		kind = provider.KindCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		kind = provider.KindTimeout
	}
	return &provider.Error{Op: stt.Op, Provider: "google", Kind: kind, Err: err}
}
