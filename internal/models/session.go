// Package models defines the data structures shared by the tutor services.
package models

import (
	"fmt"
	"strings"
)

// Stage is the phase of a user's onboarding/conversation flow.
type Stage int

const (
	// StageUnstarted - no onboarding has happened yet.
	StageUnstarted Stage = iota
	// StageChooseLanguage - waiting for the user to pick a learning language.
	StageChooseLanguage
	// StageChooseLevel - learning language set, waiting for a proficiency level.
	StageChooseLevel
	// StageConversation - free conversation in the learning language.
	StageConversation
	// StageDailyChallengeAnswer - a daily challenge was sent, the next turn is its answer.
	StageDailyChallengeAnswer
)

// String returns the string representation of the stage.
func (s Stage) String() string {
	switch s {
	case StageUnstarted:
		return "unstarted"
	case StageChooseLanguage:
		return "choose_language"
	case StageChooseLevel:
		return "choose_level"
	case StageConversation:
		return "conversation"
	case StageDailyChallengeAnswer:
		return "daily_challenge_answer"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// IsOnboarding returns true while the user has not reached the conversation stage.
func (s Stage) IsOnboarding() bool {
	return s == StageUnstarted || s == StageChooseLanguage || s == StageChooseLevel
}

// Level is a CEFR proficiency level.
type Level string

const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
	LevelC2 Level = "C2"
)

// Levels lists the proficiency levels in ascending order.
var Levels = []Level{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2}

// ParseLevel matches input case-insensitively against the six levels.
func ParseLevel(input string) (Level, bool) {
	candidate := Level(strings.ToUpper(strings.TrimSpace(input)))
	for _, l := range Levels {
		if l == candidate {
			return l, true
		}
	}
	return "", false
}

// Session is the per-user record of language preference, proficiency and stage.
//
// Transitions:
//
//	unstarted → choose_language → choose_level → conversation ⇄ daily_challenge_answer
//
// Restart resets the session to choose_language; nothing else moves a stage backwards.
type Session struct {
	UserID           string
	NativeLanguage   string
	LearningLanguage string
	ProficiencyLevel Level
	Stage            Stage
	SpeechReplies    bool
}

// NewSession creates a session waiting for a learning language choice.
func NewSession(userID, nativeLanguage string) Session {
	return Session{
		UserID:         userID,
		NativeLanguage: nativeLanguage,
		Stage:          StageChooseLanguage,
	}
}

// HasLearningLanguage reports whether a learning language was chosen.
func (s *Session) HasLearningLanguage() bool {
	return s.LearningLanguage != ""
}

// SelectLanguage sets the learning language and advances to choose_level.
func (s *Session) SelectLanguage(language string) error {
	if s.Stage != StageChooseLanguage {
		return &StateError{Stage: s.Stage, Action: "select_language", Reason: "language already chosen"}
	}
	if language == "" {
		return &StateError{Stage: s.Stage, Action: "select_language", Reason: "empty language"}
	}
	s.LearningLanguage = language
	s.Stage = StageChooseLevel
	return nil
}

// SelectLevel sets the proficiency level and advances to conversation.
func (s *Session) SelectLevel(level Level) error {
	if s.Stage != StageChooseLevel || !s.HasLearningLanguage() {
		return &StateError{Stage: s.Stage, Action: "select_level", Reason: "learning language not chosen"}
	}
	s.ProficiencyLevel = level
	s.Stage = StageConversation
	return nil
}

// BeginChallenge moves a conversation into daily_challenge_answer.
func (s *Session) BeginChallenge() error {
	if s.Stage != StageConversation {
		return &StateError{Stage: s.Stage, Action: "begin_challenge", Reason: "conversation not started"}
	}
	s.Stage = StageDailyChallengeAnswer
	return nil
}

// CompleteChallenge returns from daily_challenge_answer to conversation.
func (s *Session) CompleteChallenge() error {
	if s.Stage != StageDailyChallengeAnswer {
		return &StateError{Stage: s.Stage, Action: "complete_challenge", Reason: "no challenge pending"}
	}
	s.Stage = StageConversation
	return nil
}

// Validate checks the stage invariants.
func (s *Session) Validate() error {
	switch s.Stage {
	case StageUnstarted, StageChooseLanguage:
		return nil
	case StageChooseLevel:
		if !s.HasLearningLanguage() {
			return &StateError{Stage: s.Stage, Action: "validate", Reason: "learning language missing"}
		}
	case StageConversation, StageDailyChallengeAnswer:
		if !s.HasLearningLanguage() || s.ProficiencyLevel == "" {
			return &StateError{Stage: s.Stage, Action: "validate", Reason: "language or level missing"}
		}
	default:
		return ErrUnknownStage
	}
	return nil
}
