// Package http exposes the tutor over HTTP: one endpoint for inbound events and
// read-only views of sessions and the journal.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ai-language-tutor-service/internal/models"
	"ai-language-tutor-service/internal/observability/logging"
	"ai-language-tutor-service/internal/schema"
	"ai-language-tutor-service/internal/transport"
)

// SessionReader looks up a user's session.
type SessionReader interface {
	Get(userID string) (models.Session, error)
}

// JournalReader lists a user's latest journal entries.
type JournalReader interface {
	Recent(ctx context.Context, userID string, limit int) ([]models.JournalEntry, error)
}

// Deps are the collaborators of the HTTP router. Journal and Ready are optional.
type Deps struct {
	Handler  transport.Handler
	Sessions SessionReader
	Journal  JournalReader
	Ready    func() bool

	// MaxBodyBytes bounds a POST /v1/events body; base64 voice audio counts in full.
	MaxBodyBytes int64
}

type eventResponse struct {
	Messages []models.OutboundMessage `json:"messages"`
}

type sessionResponse struct {
	UserID           string `json:"userId"`
	NativeLanguage   string `json:"nativeLanguage"`
	LearningLanguage string `json:"learningLanguage,omitempty"`
	ProficiencyLevel string `json:"proficiencyLevel,omitempty"`
	Stage            string `json:"stage"`
	SpeechReplies    bool   `json:"speechReplies"`
}

type journalEntryResponse struct {
	TurnID    string `json:"turnId"`
	Direction string `json:"direction"`
	Kind      string `json:"kind"`
	Stage     string `json:"stage"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewRouter constructs the HTTP router for the service.
func NewRouter(deps Deps) http.Handler {
	if deps.MaxBodyBytes <= 0 {
		deps.MaxBodyBytes = 32 << 20
	}
	validator := schema.New()
	logger := logging.WithComponent("http")

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/v1/liveness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/v1/readiness", func(w http.ResponseWriter, _ *http.Request) {
		if deps.Ready != nil && !deps.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/events", func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, deps.MaxBodyBytes)

			var ev models.InboundEvent
			if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
					return
				}
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed event: " + err.Error()})
				return
			}
			if err := validator.Validate(ev); err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
				return
			}

			out := deps.Handler.Handle(r.Context(), ev)
			if out == nil {
				out = []models.OutboundMessage{}
			}
			writeJSON(w, http.StatusOK, eventResponse{Messages: out})
		})

		r.Get("/users/{userID}/session", func(w http.ResponseWriter, r *http.Request) {
			userID := chi.URLParam(r, "userID")
			sess, err := deps.Sessions.Get(userID)
			if errors.Is(err, models.ErrNoSession) {
				writeJSON(w, http.StatusNotFound, errorResponse{Error: "no session for user"})
				return
			}
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
				return
			}
			writeJSON(w, http.StatusOK, sessionResponse{
				UserID:           sess.UserID,
				NativeLanguage:   sess.NativeLanguage,
				LearningLanguage: sess.LearningLanguage,
				ProficiencyLevel: string(sess.ProficiencyLevel),
				Stage:            sess.Stage.String(),
				SpeechReplies:    sess.SpeechReplies,
			})
		})

		r.Get("/users/{userID}/journal", func(w http.ResponseWriter, r *http.Request) {
			if deps.Journal == nil {
				writeJSON(w, http.StatusNotFound, errorResponse{Error: "journal disabled"})
				return
			}
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
			entries, err := deps.Journal.Recent(r.Context(), chi.URLParam(r, "userID"), limit)
			if err != nil {
				logger.Error().Err(err).Msg("Journal query failed")
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "journal unavailable"})
				return
			}
			resp := make([]journalEntryResponse, 0, len(entries))
			for _, e := range entries {
				resp = append(resp, journalEntryResponse{
					TurnID:    e.TurnID,
					Direction: string(e.Direction),
					Kind:      e.Kind,
					Stage:     e.Stage,
					Text:      e.Text,
					CreatedAt: e.CreatedAt.UnixMilli(),
				})
			}
			writeJSON(w, http.StatusOK, resp)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger := logging.WithComponent("http")
		logger.Warn().Err(err).Msg("Failed to write response")
	}
}
