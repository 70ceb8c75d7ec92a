package models

// TurnCompleted is published after every turn.
type TurnCompleted struct {
	EventType    string `json:"eventType"`
	UserID       string `json:"userId"`
	TurnID       string `json:"turnId"`
	Kind         string `json:"kind"`
	Stage        string `json:"stage"`
	Outcome      string `json:"outcome"`
	MessagesSent int    `json:"messagesSent"`
	DurationMs   int64  `json:"durationMs"`
	Timestamp    int64  `json:"timestamp"`
}

// StageChanged is published whenever a session moves between stages.
type StageChanged struct {
	EventType string `json:"eventType"`
	UserID    string `json:"userId"`
	TurnID    string `json:"turnId"`
	From      string `json:"from"`
	To        string `json:"to"`
	Timestamp int64  `json:"timestamp"`
}

// Event type names.
const (
	EventTurnCompleted = "tutor.turn.completed"
	EventStageChanged  = "tutor.session.stage_changed"
)
