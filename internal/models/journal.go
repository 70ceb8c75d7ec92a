package models

import "time"

// Direction of a journaled message.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// JournalEntry is one message of a turn, kept for audit only.
type JournalEntry struct {
	UserID    string
	TurnID    string
	Direction Direction
	Kind      string // text, voice, audio, quiz
	Stage     string
	Text      string
	CreatedAt time.Time
}
