package session

import (
	"fmt"
	"sync/atomic"
)

// TurnIDs hands out process-unique turn identifiers for log and event correlation.
type TurnIDs struct {
	counter uint64
}

func NewTurnIDs() *TurnIDs {
	return &TurnIDs{}
}

func (g *TurnIDs) Next(userID string) string {
	n := atomic.AddUint64(&g.counter, 1)
	return fmt.Sprintf("%s-turn-%d", userID, n)
}
