package models

import (
	"errors"
	"fmt"
)

// Errors for session lookups and invalid stages.
var (
	ErrNoSession    = errors.New("no session for user")
	ErrUnknownStage = errors.New("unknown stage")
)

// StateError reports an action attempted in a stage that does not permit it.
// The session is never modified when a StateError is returned.
type StateError struct {
	Stage  Stage
	Action string
	Reason string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("state error: %s not allowed in stage %s: %s", e.Action, e.Stage, e.Reason)
}

// IsStateError reports whether err is, or wraps, a StateError or ErrNoSession.
func IsStateError(err error) bool {
	var se *StateError
	return errors.As(err, &se) || errors.Is(err, ErrNoSession)
}
