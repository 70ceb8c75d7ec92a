// Package schema validates inbound events before they reach the router.
package schema

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"ai-language-tutor-service/internal/models"
)

// MaxTextLength bounds the text of one inbound event, in characters.
const MaxTextLength = 4096

// ErrInvalidEvent is wrapped by every validation failure.
var ErrInvalidEvent = errors.New("invalid event")

// Validator checks the shape of inbound events.
type Validator struct {
	maxTextLength int
}

// New creates a validator with the default limits.
func New() *Validator {
	return &Validator{maxTextLength: MaxTextLength}
}

// Validate reports the first problem found in ev.
func (v *Validator) Validate(ev models.InboundEvent) error {
	if ev.UserID == "" {
		return invalid("userId is required")
	}
	switch ev.Kind {
	case models.InboundText:
		if ev.Voice != nil {
			return invalid("text event must not carry voice")
		}
		if !utf8.ValidString(ev.Text) {
			return invalid("text is not valid UTF-8")
		}
		if n := utf8.RuneCountInString(ev.Text); n > v.maxTextLength {
			return invalid(fmt.Sprintf("text has %d characters, limit is %d", n, v.maxTextLength))
		}
	case models.InboundVoice:
		if ev.Voice == nil {
			return invalid("voice event requires voice")
		}
	default:
		return invalid(fmt.Sprintf("unknown kind %q", ev.Kind))
	}
	return nil
}

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidEvent, reason)
}
