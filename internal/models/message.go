package models

// InboundKind distinguishes text and voice events.
type InboundKind string

const (
	InboundText  InboundKind = "text"
	InboundVoice InboundKind = "voice"
)

// Voice is a downloaded voice note.
type Voice struct {
	Ref    string `json:"ref,omitempty"`
	Audio  []byte `json:"audio"`
	Format string `json:"format"`
}

// InboundEvent is one event delivered by a transport.
type InboundEvent struct {
	UserID     string      `json:"userId"`
	LocaleHint string      `json:"locale,omitempty"`
	Kind       InboundKind `json:"kind"`
	Text       string      `json:"text,omitempty"`
	Voice      *Voice      `json:"voice,omitempty"`
}

// Audio is synthesized speech ready for delivery.
type Audio struct {
	Data     []byte `json:"data"`
	MimeType string `json:"mimeType"`
}

// OutboundMessage is one message the core hands back to a transport.
type OutboundMessage struct {
	DestinationID string         `json:"destinationId"`
	Text          string         `json:"text,omitempty"`
	Audio         *Audio         `json:"audio,omitempty"`
	Choices       []string       `json:"choices,omitempty"`
	RemoveChoices bool           `json:"removeChoices,omitempty"`
	Quiz          []QuizQuestion `json:"quiz,omitempty"`
}

// MimeTypeMPEG is the format of synthesized replies.
const MimeTypeMPEG = "audio/mpeg"
