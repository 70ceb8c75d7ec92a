package prompt

import (
	"strings"
	"testing"

	"ai-language-tutor-service/internal/models"
)

func TestBuilders_MentionLanguageAndLevel(t *testing.T) {
	tests := []struct {
		name  string
		build func(string, models.Level) string
	}{
		{"opening greeting", OpeningGreeting},
		{"turn reply", TurnReply},
		{"quiz", Quiz},
		{"daily challenge", DailyChallenge},
		{"challenge feedback", ChallengeFeedback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.build("German", models.LevelB1)
			if !strings.Contains(got, "German") {
				t.Errorf("expected language in instruction: %s", got)
			}
			if !strings.Contains(got, "B1") {
				t.Errorf("expected level in instruction: %s", got)
			}
		})
	}
}

func TestBuilders_Deterministic(t *testing.T) {
	if OpeningGreeting("French", models.LevelA2) != OpeningGreeting("French", models.LevelA2) {
		t.Error("expected identical output for identical input")
	}
	if TurnReply("French", models.LevelA2) == TurnReply("French", models.LevelC1) {
		t.Error("expected register to depend on level")
	}
}

func TestTurnReply_ExclusiveLanguage(t *testing.T) {
	got := TurnReply("French", models.LevelB2)
	for _, want := range []string{"exclusively in French", "correct", "follow-up question"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %s", want, got)
		}
	}
}

func TestQuiz_RequestsParsableLayout(t *testing.T) {
	got := Quiz("Spanish", models.LevelA1)
	for _, want := range []string{"exactly 3 multiple-choice", "exactly 4 options", "A) ...", "\"1.\""} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %s", want, got)
		}
	}
}

func TestTranslation(t *testing.T) {
	got := Translation("German", "English")
	if !strings.Contains(got, "from German to English") {
		t.Errorf("unexpected translation instruction: %s", got)
	}
}

func TestDailyChallenge_Duration(t *testing.T) {
	if got := DailyChallenge("Italian", models.LevelB1); !strings.Contains(got, "5 to 10 minutes") {
		t.Errorf("expected duration in %s", got)
	}
}
