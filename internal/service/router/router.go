// Package router dispatches inbound events to the handler of the user's current
// stage and turns handler failures into user-facing replies.
package router

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ai-language-tutor-service/internal/models"
	"ai-language-tutor-service/internal/observability/logging"
	"ai-language-tutor-service/internal/observability/metrics"
	"ai-language-tutor-service/internal/service/llm"
	"ai-language-tutor-service/internal/service/prompt"
	"ai-language-tutor-service/internal/service/provider"
	"ai-language-tutor-service/internal/service/quiz"
	"ai-language-tutor-service/internal/service/session"
	"ai-language-tutor-service/internal/service/voice"
)

// Turn outcomes reported in metrics and events.
const (
	OutcomeOK         = "ok"
	OutcomeReprompt   = "reprompt"
	OutcomeNoSession  = "no_session"
	OutcomeStateError = "state_error"
	OutcomeRejected   = "rejected"
	OutcomeApology    = "apology"
)

// QuizGenerator produces a parsed quiz for a language and level.
type QuizGenerator interface {
	Generate(ctx context.Context, language string, level models.Level) (quiz.Result, error)
}

// VoiceRunner runs one voice turn.
type VoiceRunner interface {
	Run(ctx context.Context, req voice.Request) (voice.Result, error)
}

// EventPublisher receives turn and stage-transition events.
type EventPublisher interface {
	PublishTurn(ctx context.Context, ev models.TurnCompleted) error
	PublishStage(ctx context.Context, ev models.StageChanged) error
}

// Journal records the text of every turn.
type Journal interface {
	Record(ctx context.Context, entries []models.JournalEntry) error
}

// Deps are the collaborators of a Router. Events and Journal are optional.
type Deps struct {
	Store     *session.Store
	Catalog   *prompt.Catalog
	Generator llm.Generator
	Quizzes   QuizGenerator
	Voice     VoiceRunner
	Events    EventPublisher
	Journal   Journal

	// DefaultSpeechReplies seeds the preference of new sessions.
	DefaultSpeechReplies bool
}

// Router is the top-level dispatcher for inbound events.
type Router struct {
	deps    Deps
	locker  *session.Locker
	turnIDs *session.TurnIDs
	metrics *metrics.Metrics
}

// New creates a router.
func New(deps Deps) *Router {
	return &Router{
		deps:    deps,
		locker:  session.NewLocker(),
		turnIDs: session.NewTurnIDs(),
		metrics: metrics.DefaultMetrics,
	}
}

// turn holds the state of one inbound event while it is handled.
type turn struct {
	r      *Router
	ev     models.InboundEvent
	id     string
	texts  Texts
	locale string
	logger zerolog.Logger
	out    []models.OutboundMessage
}

// Handle processes one inbound event and returns the messages to deliver, in order.
// Turns of the same user are serialized. Handle never panics on collaborator
// failures; they become apology messages.
func (r *Router) Handle(ctx context.Context, ev models.InboundEvent) []models.OutboundMessage {
	unlock := r.locker.Lock(ev.UserID)
	defer unlock()

	start := time.Now()
	r.metrics.RecordTurnStart()

	before := models.StageUnstarted
	locale := NormalizeLocale(ev.LocaleHint)
	if sess, err := r.deps.Store.Get(ev.UserID); err == nil {
		before = sess.Stage
		locale = sess.NativeLanguage
	}

	t := &turn{
		r:      r,
		ev:     ev,
		id:     r.turnIDs.Next(ev.UserID),
		texts:  TextsFor(locale),
		locale: locale,
	}
	t.logger = logging.WithTurn(ev.UserID, t.id, before.String())

	outcome := t.dispatch(ctx)

	after := models.StageUnstarted
	if sess, err := r.deps.Store.Get(ev.UserID); err == nil {
		after = sess.Stage
	}

	elapsed := time.Since(start)
	r.metrics.RecordTurnEnd(string(ev.Kind), outcome, elapsed.Seconds())
	t.logger.Info().
		Str("kind", string(ev.Kind)).
		Str("outcome", outcome).
		Str("stageAfter", after.String()).
		Int("messages", len(t.out)).
		Dur("duration", elapsed).
		Msg("Turn handled")

	r.publish(ctx, t, before, after, outcome, elapsed)
	r.journal(ctx, t, after)
	return t.out
}

func (t *turn) dispatch(ctx context.Context) string {
	if t.ev.Kind == models.InboundText {
		if name, arg, ok := parseCommand(t.ev.Text); ok {
			return t.command(ctx, name, arg)
		}
	}

	sess, err := t.r.deps.Store.Get(t.ev.UserID)
	if err != nil {
		return t.fail(err)
	}

	if t.ev.Kind == models.InboundVoice {
		return t.voice(ctx, sess)
	}

	text := strings.TrimSpace(t.ev.Text)
	if text == "" {
		t.say(t.texts.TextOnly)
		return OutcomeReprompt
	}

	switch sess.Stage {
	case models.StageChooseLanguage:
		return t.chooseLanguage(text)
	case models.StageChooseLevel:
		return t.chooseLevel(ctx, sess, text)
	case models.StageConversation:
		return t.converse(ctx, sess, text)
	case models.StageDailyChallengeAnswer:
		return t.answerChallenge(ctx, sess, text)
	default:
		t.logger.Warn().Str("stage", sess.Stage.String()).Msg("Session in unexpected stage")
		t.say(t.texts.Restart)
		return OutcomeStateError
	}
}

func (t *turn) chooseLanguage(text string) string {
	lang, ok := t.r.deps.Catalog.Match(text)
	if !ok {
		t.choices(t.texts.UnknownLanguage, t.r.deps.Catalog.Names())
		return OutcomeReprompt
	}

	_, err := t.r.deps.Store.Update(t.ev.UserID, func(s *models.Session) error {
		return s.SelectLanguage(lang.Name)
	})
	if err != nil {
		return t.fail(err)
	}
	t.choices(fmt.Sprintf(t.texts.ChooseLevel, lang.Name), levelNames())
	return OutcomeOK
}

// chooseLevel sets the level and continues the conversation with a generated
// opening greeting. That greeting is the first conversation turn: the level
// token ("B1") is a menu pick, not something the learner said in the target
// language, so it is never sent to the model as a user message. One
// generation happens per level selection.
func (t *turn) chooseLevel(ctx context.Context, sess models.Session, text string) string {
	level, ok := models.ParseLevel(text)
	if !ok {
		t.choices(t.texts.UnknownLevel, levelNames())
		return OutcomeReprompt
	}

	sess, err := t.r.deps.Store.Update(t.ev.UserID, func(s *models.Session) error {
		return s.SelectLevel(level)
	})
	if err != nil {
		return t.fail(err)
	}

	greeting, err := t.r.deps.Generator.Generate(ctx, []llm.Message{
		llm.System(prompt.OpeningGreeting(sess.LearningLanguage, sess.ProficiencyLevel)),
	})
	if err != nil {
		return t.fail(err)
	}
	t.out = append(t.out, models.OutboundMessage{
		DestinationID: t.ev.UserID,
		Text:          greeting,
		RemoveChoices: true,
	})
	return OutcomeOK
}

func (t *turn) converse(ctx context.Context, sess models.Session, text string) string {
	reply, err := t.reply(ctx, prompt.TurnReply(sess.LearningLanguage, sess.ProficiencyLevel), text)
	if err != nil {
		return t.fail(err)
	}
	t.say(reply)
	return OutcomeOK
}

// answerChallenge sends an acknowledgment and the feedback, then returns to
// conversation. On failure the challenge stays open.
func (t *turn) answerChallenge(ctx context.Context, sess models.Session, text string) string {
	reply, err := t.reply(ctx, prompt.ChallengeFeedback(sess.LearningLanguage, sess.ProficiencyLevel), text)
	if err != nil {
		return t.fail(err)
	}
	if err := t.completeChallenge(); err != nil {
		return t.fail(err)
	}
	t.say(t.texts.ChallengeAck)
	t.say(reply)
	return OutcomeOK
}

func (t *turn) completeChallenge() error {
	_, err := t.r.deps.Store.Update(t.ev.UserID, func(s *models.Session) error {
		return s.CompleteChallenge()
	})
	return err
}

// voice runs the voice pipeline whatever the stage; it only needs a learning language.
func (t *turn) voice(ctx context.Context, sess models.Session) string {
	if !sess.HasLearningLanguage() {
		return t.fail(&models.StateError{Stage: sess.Stage, Action: actionVoiceTurn, Reason: "learning language not chosen"})
	}

	req := voice.Request{
		LearningLanguage: sess.LearningLanguage,
		Level:            sess.ProficiencyLevel,
		WantsSpeech:      sess.SpeechReplies,
	}
	if v := t.ev.Voice; v != nil {
		req.Audio = v.Audio
		req.Format = v.Format
	}

	res, err := t.r.deps.Voice.Run(ctx, req)
	if err != nil {
		return t.fail(err)
	}
	t.logger.Debug().
		Str("transcript", res.Transcript).
		Bool("degraded", res.Degraded).
		Msg("Voice turn transcribed")

	if sess.Stage == models.StageDailyChallengeAnswer {
		if err := t.completeChallenge(); err != nil {
			return t.fail(err)
		}
		t.say(t.texts.ChallengeAck)
	}
	if res.Audio != nil {
		t.out = append(t.out, models.OutboundMessage{DestinationID: t.ev.UserID, Audio: res.Audio})
	} else {
		t.say(res.Text)
	}
	return OutcomeOK
}

func (t *turn) reply(ctx context.Context, instruction, text string) (string, error) {
	return t.r.deps.Generator.Generate(ctx, []llm.Message{
		llm.System(instruction),
		llm.User(text),
	})
}

const actionVoiceTurn = "voice_turn"

// fail converts a handler error into a reply and returns the turn outcome.
// Session state is never modified here.
func (t *turn) fail(err error) string {
	var se *models.StateError
	switch {
	case errors.Is(err, models.ErrNoSession):
		t.say(t.texts.PleaseStart)
		return OutcomeNoSession
	case errors.As(err, &se) && se.Action == actionVoiceTurn:
		t.logger.Info().Err(err).Msg("Voice before language choice")
		t.choices(t.texts.ChooseLanguageFirst, t.r.deps.Catalog.Names())
		return OutcomeStateError
	case errors.As(err, &se) && se.Stage == models.StageDailyChallengeAnswer:
		t.logger.Info().Err(err).Msg("Action not allowed while a challenge is pending")
		t.say(t.texts.AnswerFirst)
		return OutcomeStateError
	case errors.As(err, &se):
		t.logger.Info().Err(err).Msg("Action not allowed in stage")
		t.say(t.texts.NotNow)
		return OutcomeStateError
	case errors.Is(err, models.ErrUnknownStage):
		t.logger.Warn().Err(err).Msg("Session failed validation")
		t.say(t.texts.Restart)
		return OutcomeStateError
	case errors.Is(err, voice.ErrAudioTooLarge):
		t.say(t.texts.VoiceTooLarge)
		return OutcomeRejected
	case errors.Is(err, voice.ErrNoAudio):
		t.say(t.texts.VoiceEmpty)
		return OutcomeRejected
	}

	class := "internal"
	if provider.IsProviderError(err) {
		class = string(provider.KindOf(err))
	}
	t.logger.Error().Err(err).Str("class", class).Msg("Turn failed, sending apology")
	t.r.metrics.RecordApology(class)
	t.say(t.texts.Apology)
	return OutcomeApology
}

func (t *turn) say(text string) {
	t.out = append(t.out, models.OutboundMessage{DestinationID: t.ev.UserID, Text: text})
}

func (t *turn) choices(text string, choices []string) {
	t.out = append(t.out, models.OutboundMessage{DestinationID: t.ev.UserID, Text: text, Choices: choices})
}

func levelNames() []string {
	names := make([]string, len(models.Levels))
	for i, l := range models.Levels {
		names[i] = string(l)
	}
	return names
}

func (r *Router) publish(ctx context.Context, t *turn, before, after models.Stage, outcome string, elapsed time.Duration) {
	if r.deps.Events == nil {
		return
	}
	now := time.Now().UnixMilli()
	if before != after {
		err := r.deps.Events.PublishStage(ctx, models.StageChanged{
			EventType: models.EventStageChanged,
			UserID:    t.ev.UserID,
			TurnID:    t.id,
			From:      before.String(),
			To:        after.String(),
			Timestamp: now,
		})
		if err != nil {
			t.logger.Warn().Err(err).Msg("Failed to publish stage change")
		}
	}
	err := r.deps.Events.PublishTurn(ctx, models.TurnCompleted{
		EventType:    models.EventTurnCompleted,
		UserID:       t.ev.UserID,
		TurnID:       t.id,
		Kind:         string(t.ev.Kind),
		Stage:        after.String(),
		Outcome:      outcome,
		MessagesSent: len(t.out),
		DurationMs:   elapsed.Milliseconds(),
		Timestamp:    now,
	})
	if err != nil {
		t.logger.Warn().Err(err).Msg("Failed to publish turn")
	}
}

func (r *Router) journal(ctx context.Context, t *turn, stage models.Stage) {
	if r.deps.Journal == nil {
		return
	}
	now := time.Now().UTC()
	entries := []models.JournalEntry{{
		UserID:    t.ev.UserID,
		TurnID:    t.id,
		Direction: models.DirectionInbound,
		Kind:      string(t.ev.Kind),
		Stage:     stage.String(),
		Text:      t.ev.Text,
		CreatedAt: now,
	}}
	for _, m := range t.out {
		kind, text := "text", m.Text
		switch {
		case m.Audio != nil:
			kind = "audio"
		case len(m.Quiz) > 0:
			kind, text = "quiz", quiz.Format(m.Quiz)
		}
		entries = append(entries, models.JournalEntry{
			UserID:    t.ev.UserID,
			TurnID:    t.id,
			Direction: models.DirectionOutbound,
			Kind:      kind,
			Stage:     stage.String(),
			Text:      text,
			CreatedAt: now,
		})
	}
	if err := r.deps.Journal.Record(ctx, entries); err != nil {
		t.logger.Warn().Err(err).Msg("Failed to journal turn")
	}
}
