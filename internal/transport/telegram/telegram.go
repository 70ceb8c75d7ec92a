// Package telegram connects the router to Telegram through long polling.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"ai-language-tutor-service/internal/models"
	"ai-language-tutor-service/internal/observability/logging"
	"ai-language-tutor-service/internal/observability/metrics"
	"ai-language-tutor-service/internal/schema"
	"ai-language-tutor-service/internal/service/quiz"
	"ai-language-tutor-service/internal/service/router"
	"ai-language-tutor-service/internal/transport"
)

const (
	opDownload = "download"
	opSend     = "send"

	// Telegram limits, in characters.
	maxMessageLength  = 4096
	maxPollQuestion   = 300
	maxPollOption     = 100
	keyboardRowLength = 3
)

// Config holds Telegram transport settings.
type Config struct {
	Token         string
	PollTimeout   time.Duration
	Debug         bool
	Workers       int
	MaxAudioBytes int64
}

// botAPI is the part of *tgbotapi.BotAPI the transport uses.
type botAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Transport polls Telegram for updates and delivers the router's replies.
type Transport struct {
	bot        botAPI
	handler    transport.Handler
	validator  *schema.Validator
	httpClient *http.Client
	cfg        Config
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// New authenticates against the Bot API and returns a transport.
func New(cfg Config, handler transport.Handler) (*Transport, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}
	bot.Debug = cfg.Debug

	t := newTransport(bot, cfg, handler)
	t.logger.Info().Str("bot", bot.Self.UserName).Msg("Telegram bot authorized")
	return t, nil
}

func newTransport(bot botAPI, cfg Config, handler transport.Handler) *Transport {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 30 * time.Second
	}
	return &Transport{
		bot:        bot,
		handler:    handler,
		validator:  schema.New(),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cfg:        cfg,
		metrics:    metrics.DefaultMetrics,
		logger:     logging.WithComponent("telegram"),
	}
}

// Run polls until ctx is canceled. Updates of one chat are always handled by
// the same worker, so a user's messages are answered in the order they were sent.
func (t *Transport) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(t.cfg.PollTimeout.Seconds())
	updates := t.bot.GetUpdatesChan(u)

	shards := make([]chan *tgbotapi.Message, t.cfg.Workers)
	var wg sync.WaitGroup
	for i := range shards {
		shards[i] = make(chan *tgbotapi.Message, 16)
		wg.Add(1)
		go func(in <-chan *tgbotapi.Message) {
			defer wg.Done()
			for msg := range in {
				// queued updates are dropped once shutdown began
				if ctx.Err() != nil {
					continue
				}
				t.process(ctx, msg)
			}
		}(shards[i])
	}

	t.logger.Info().Int("workers", t.cfg.Workers).Msg("Telegram polling started")

	defer func() {
		for _, s := range shards {
			close(s)
		}
		wg.Wait()
		t.logger.Info().Msg("Telegram polling stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			t.bot.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.Chat == nil {
				continue
			}
			select {
			case shards[shardFor(update.Message.Chat.ID, len(shards))] <- update.Message:
			case <-ctx.Done():
				t.bot.StopReceivingUpdates()
				return nil
			}
		}
	}
}

func shardFor(chatID int64, n int) int {
	h := fnv.New32a()
	h.Write([]byte(strconv.FormatInt(chatID, 10)))
	return int(h.Sum32() % uint32(n))
}

// process handles one message. A panic is logged and the update dropped.
func (t *Transport) process(ctx context.Context, msg *tgbotapi.Message) {
	userID := strconv.FormatInt(msg.Chat.ID, 10)
	logger := logging.WithUser(userID)

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("Recovered while handling telegram update")
		}
	}()

	ev, err := t.toEvent(ctx, msg)
	if err != nil {
		if transport.IsTransportError(err) {
			logger.Error().Err(err).Msg("Voice download failed")
			t.metrics.RecordApology("transport")
			t.deliver(ctx, logger, userID, []models.OutboundMessage{{
				DestinationID: userID,
				Text:          router.TextsFor(router.NormalizeLocale(localeOf(msg))).Apology,
			}})
			return
		}
		logger.Debug().Err(err).Msg("Ignoring unsupported message")
		return
	}

	if err := t.validator.Validate(ev); err != nil {
		logger.Warn().Err(err).Msg("Dropping invalid event")
		return
	}

	t.deliver(ctx, logger, userID, t.handler.Handle(ctx, ev))
}

func (t *Transport) deliver(ctx context.Context, logger zerolog.Logger, userID string, out []models.OutboundMessage) {
	if err := t.Send(ctx, userID, out); err != nil {
		logger.Error().Err(err).Msg("Reply delivery failed")
	}
}

var errUnsupported = errors.New("unsupported message type")

// toEvent maps a Telegram message to an inbound event, downloading voice notes.
func (t *Transport) toEvent(ctx context.Context, msg *tgbotapi.Message) (models.InboundEvent, error) {
	ev := models.InboundEvent{
		UserID:     strconv.FormatInt(msg.Chat.ID, 10),
		LocaleHint: localeOf(msg),
	}

	switch {
	case msg.Voice != nil:
		audio, err := t.download(ctx, msg.Voice.FileID)
		if err != nil {
			return ev, err
		}
		ev.Kind = models.InboundVoice
		ev.Voice = &models.Voice{
			Ref:    msg.Voice.FileID,
			Audio:  audio,
			Format: formatFromMime(msg.Voice.MimeType),
		}
	case msg.Text != "":
		ev.Kind = models.InboundText
		ev.Text = msg.Text
	default:
		return ev, errUnsupported
	}
	return ev, nil
}

// download fetches a file, reading at most one byte past the audio limit so
// oversized notes are still recognized as too large.
func (t *Transport) download(ctx context.Context, fileID string) ([]byte, error) {
	fileURL, err := t.bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, &transport.Error{Op: opDownload, Err: fmt.Errorf("resolve file: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, &transport.Error{Op: opDownload, Err: err}
	}
	resp, err := t.httpClient.Do(req)
	if err != nil {
		// The URL embeds the bot token; keep it out of the error.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, &transport.Error{Op: opDownload, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &transport.Error{Op: opDownload, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var body io.Reader = resp.Body
	if t.cfg.MaxAudioBytes > 0 {
		body = io.LimitReader(resp.Body, t.cfg.MaxAudioBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, &transport.Error{Op: opDownload, Err: fmt.Errorf("read body: %w", err)}
	}
	return data, nil
}

// Send delivers msgs to a chat in order, stopping at the first failure.
func (t *Transport) Send(ctx context.Context, destinationID string, msgs []models.OutboundMessage) error {
	chatID, err := strconv.ParseInt(destinationID, 10, 64)
	if err != nil {
		return &transport.Error{Op: opSend, Err: fmt.Errorf("invalid chat id %q: %w", destinationID, err)}
	}

	for _, m := range msgs {
		for _, c := range buildChattables(chatID, m) {
			if err := ctx.Err(); err != nil {
				return &transport.Error{Op: opSend, Err: err}
			}
			if _, err := t.bot.Send(c); err != nil {
				return &transport.Error{Op: opSend, Err: err}
			}
		}
	}
	return nil
}

// buildChattables renders one outbound message as Telegram requests.
func buildChattables(chatID int64, m models.OutboundMessage) []tgbotapi.Chattable {
	var out []tgbotapi.Chattable

	if m.Audio != nil {
		audio := tgbotapi.NewAudio(chatID, tgbotapi.FileBytes{Name: "reply.mp3", Bytes: m.Audio.Data})
		if m.Text != "" && len([]rune(m.Text)) <= 1024 {
			audio.Caption = m.Text
			return append(out, audio)
		}
		out = append(out, audio)
		if m.Text == "" {
			return out
		}
	}

	chunks := splitText(m.Text, maxMessageLength)
	for i, chunk := range chunks {
		msg := tgbotapi.NewMessage(chatID, chunk)
		if i == len(chunks)-1 {
			switch {
			case len(m.Choices) > 0:
				msg.ReplyMarkup = keyboard(m.Choices)
			case m.RemoveChoices:
				msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
			}
		}
		out = append(out, msg)
	}

	if len(m.Quiz) > 0 {
		out = append(out, quizChattables(chatID, m.Quiz)...)
	}
	return out
}

// quizChattables sends native quiz polls when every question has a known answer
// and fits the poll limits, and a numbered text block otherwise.
func quizChattables(chatID int64, questions []models.QuizQuestion) []tgbotapi.Chattable {
	if !pollable(questions) {
		var out []tgbotapi.Chattable
		for _, chunk := range splitText(quiz.Format(withoutAnswers(questions)), maxMessageLength) {
			out = append(out, tgbotapi.NewMessage(chatID, chunk))
		}
		return out
	}

	out := make([]tgbotapi.Chattable, 0, len(questions))
	for _, q := range questions {
		poll := tgbotapi.NewPoll(chatID, q.PromptText, q.OptionTexts()...)
		poll.Type = "quiz"
		poll.IsAnonymous = false
		poll.CorrectOptionID = int64(q.CorrectIndex())
		out = append(out, poll)
	}
	return out
}

// withoutAnswers copies questions with every correct flag cleared.
func withoutAnswers(questions []models.QuizQuestion) []models.QuizQuestion {
	out := make([]models.QuizQuestion, len(questions))
	for i, q := range questions {
		opts := make([]models.Option, len(q.Options))
		for j, o := range q.Options {
			opts[j] = models.Option{Letter: o.Letter, Text: o.Text}
		}
		out[i] = models.QuizQuestion{PromptText: q.PromptText, Options: opts}
	}
	return out
}

func pollable(questions []models.QuizQuestion) bool {
	for _, q := range questions {
		if q.CorrectIndex() < 0 || len([]rune(q.PromptText)) > maxPollQuestion {
			return false
		}
		for _, o := range q.Options {
			if len([]rune(o.Text)) > maxPollOption {
				return false
			}
		}
	}
	return true
}

func keyboard(choices []string) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	for start := 0; start < len(choices); start += keyboardRowLength {
		end := min(start+keyboardRowLength, len(choices))
		var row []tgbotapi.KeyboardButton
		for _, c := range choices[start:end] {
			row = append(row, tgbotapi.NewKeyboardButton(c))
		}
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(row...))
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.OneTimeKeyboard = true
	kb.ResizeKeyboard = true
	return kb
}

// splitText cuts text into pieces of at most limit characters, preferring
// line breaks. Empty text yields no pieces.
func splitText(text string, limit int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	runes := []rune(text)
	var chunks []string
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, strings.TrimRight(string(runes[:cut]), "\n"))
		runes = runes[cut:]
	}
	return append(chunks, string(runes))
}

func localeOf(msg *tgbotapi.Message) string {
	if msg.From == nil {
		return ""
	}
	return msg.From.LanguageCode
}

// formatFromMime turns "audio/ogg" into "ogg". Telegram voice notes are OGG/Opus
// when no type is given.
func formatFromMime(mime string) string {
	_, sub, ok := strings.Cut(strings.ToLower(mime), "/")
	if !ok || sub == "" {
		return "ogg"
	}
	sub, _, _ = strings.Cut(sub, ";")
	return strings.TrimSpace(sub)
}
