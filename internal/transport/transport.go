// Package transport defines what chat transports share: the error they report
// for delivery problems and the contract between a transport and the router.
package transport

import (
	"context"
	"errors"
	"fmt"

	"ai-language-tutor-service/internal/models"
)

// Error is a failure to download inbound media or deliver outbound messages.
type Error struct {
	Op  string // download, send
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether err is, or wraps, a transport Error.
func IsTransportError(err error) bool {
	var te *Error
	return errors.As(err, &te)
}

// Handler turns one inbound event into the messages to deliver.
type Handler interface {
	Handle(ctx context.Context, ev models.InboundEvent) []models.OutboundMessage
}

// Sender delivers outbound messages to one destination, in order.
type Sender interface {
	Send(ctx context.Context, destinationID string, msgs []models.OutboundMessage) error
}
