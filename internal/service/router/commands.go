package router

import (
	"context"
	"strings"

	"ai-language-tutor-service/internal/models"
	"ai-language-tutor-service/internal/service/llm"
	"ai-language-tutor-service/internal/service/prompt"
)

// Commands understood by the router.
const (
	cmdStart     = "start"
	cmdRestart   = "restart"
	cmdStop      = "stop"
	cmdHelp      = "help"
	cmdQuiz      = "quiz"
	cmdTranslate = "translate"
	cmdChallenge = "challenge"
	cmdVoice     = "voice"
)

// parseCommand splits "/name@bot arg..." into a lowercase name and the trimmed argument.
func parseCommand(text string) (name, arg string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") || len(text) < 2 {
		return "", "", false
	}
	head, rest, _ := strings.Cut(text[1:], " ")
	if i := strings.IndexByte(head, '@'); i >= 0 {
		head = head[:i]
	}
	if head == "" {
		return "", "", false
	}
	return strings.ToLower(head), strings.TrimSpace(rest), true
}

func (t *turn) command(ctx context.Context, name, arg string) string {
	switch name {
	case cmdStart:
		return t.start()
	case cmdRestart:
		return t.restart()
	case cmdStop:
		t.r.deps.Store.Delete(t.ev.UserID)
		t.out = append(t.out, models.OutboundMessage{DestinationID: t.ev.UserID, Text: t.texts.Goodbye, RemoveChoices: true})
		return OutcomeOK
	case cmdHelp:
		t.say(t.texts.Help)
		return OutcomeOK
	}

	sess, err := t.r.deps.Store.Get(t.ev.UserID)
	if err != nil {
		return t.fail(err)
	}

	switch name {
	case cmdVoice:
		return t.setSpeechReplies(arg)
	case cmdQuiz:
		return t.quiz(ctx, sess)
	case cmdTranslate:
		return t.translate(ctx, sess, arg)
	case cmdChallenge:
		return t.challenge(ctx, sess)
	default:
		t.say(t.texts.UnknownCommand)
		return OutcomeReprompt
	}
}

// start creates a session on first contact. A user who already has one is shown
// the prompt of their current stage.
func (t *turn) start() string {
	sess, created := t.r.deps.Store.GetOrCreate(t.ev.UserID, t.locale)
	if created {
		if t.r.deps.DefaultSpeechReplies {
			_, _ = t.r.deps.Store.Update(t.ev.UserID, func(s *models.Session) error {
				s.SpeechReplies = true
				return nil
			})
		}
		t.choices(t.texts.Welcome, t.r.deps.Catalog.Names())
		return OutcomeOK
	}

	switch sess.Stage {
	case models.StageChooseLanguage:
		t.choices(t.texts.Welcome, t.r.deps.Catalog.Names())
	case models.StageChooseLevel:
		t.choices(t.texts.Resume, levelNames())
	default:
		t.say(t.texts.Resume)
	}
	return OutcomeOK
}

func (t *turn) restart() string {
	t.r.deps.Store.Reset(t.ev.UserID, t.locale)
	t.choices(t.texts.Welcome, t.r.deps.Catalog.Names())
	return OutcomeOK
}

func (t *turn) setSpeechReplies(arg string) string {
	var on bool
	switch strings.ToLower(arg) {
	case "on":
		on = true
	case "off":
	default:
		t.say(t.texts.VoiceUsage)
		return OutcomeReprompt
	}

	if _, err := t.r.deps.Store.Update(t.ev.UserID, func(s *models.Session) error {
		s.SpeechReplies = on
		return nil
	}); err != nil {
		return t.fail(err)
	}
	if on {
		t.say(t.texts.VoiceOn)
	} else {
		t.say(t.texts.VoiceOff)
	}
	return OutcomeOK
}

func (t *turn) quiz(ctx context.Context, sess models.Session) string {
	if sess.Stage != models.StageConversation {
		return t.fail(&models.StateError{Stage: sess.Stage, Action: cmdQuiz, Reason: "conversation not started"})
	}

	res, err := t.r.deps.Quizzes.Generate(ctx, sess.LearningLanguage, sess.ProficiencyLevel)
	if err != nil {
		return t.fail(err)
	}
	if len(res.Questions) == 0 {
		t.say(t.texts.QuizUnavailable)
		return OutcomeApology
	}
	t.out = append(t.out, models.OutboundMessage{
		DestinationID: t.ev.UserID,
		Text:          t.texts.QuizIntro,
		Quiz:          res.Questions,
	})
	return OutcomeOK
}

// translate renders text from the learning language into the user's native language.
func (t *turn) translate(ctx context.Context, sess models.Session, text string) string {
	if sess.Stage != models.StageConversation {
		return t.fail(&models.StateError{Stage: sess.Stage, Action: cmdTranslate, Reason: "conversation not started"})
	}
	if text == "" {
		t.say(t.texts.TranslateUsage)
		return OutcomeReprompt
	}

	native := t.r.deps.Catalog.DisplayName(sess.NativeLanguage)
	translation, err := t.reply(ctx, prompt.Translation(sess.LearningLanguage, native), text)
	if err != nil {
		return t.fail(err)
	}
	t.say(translation)
	return OutcomeOK
}

// challenge sends a daily challenge and waits for its answer. The stage only
// changes once the challenge was generated.
func (t *turn) challenge(ctx context.Context, sess models.Session) string {
	if sess.Stage != models.StageConversation {
		return t.fail(&models.StateError{Stage: sess.Stage, Action: cmdChallenge, Reason: "conversation not started"})
	}

	exercise, err := t.r.deps.Generator.Generate(ctx, []llm.Message{
		llm.System(prompt.DailyChallenge(sess.LearningLanguage, sess.ProficiencyLevel)),
	})
	if err != nil {
		return t.fail(err)
	}
	if _, err := t.r.deps.Store.Update(t.ev.UserID, func(s *models.Session) error {
		return s.BeginChallenge()
	}); err != nil {
		return t.fail(err)
	}
	t.say(exercise)
	return OutcomeOK
}
