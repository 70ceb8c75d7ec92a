package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ai-language-tutor-service/internal/models"
)

type fakeHandler struct {
	last models.InboundEvent
}

func (f *fakeHandler) Handle(ctx context.Context, ev models.InboundEvent) []models.OutboundMessage {
	f.last = ev
	return []models.OutboundMessage{{DestinationID: ev.UserID, Text: "echo: " + ev.Text}}
}

type fakeSessions map[string]models.Session

func (f fakeSessions) Get(userID string) (models.Session, error) {
	s, ok := f[userID]
	if !ok {
		return models.Session{}, models.ErrNoSession
	}
	return s, nil
}

type fakeJournal struct {
	entries []models.JournalEntry
	err     error
}

func (f *fakeJournal) Recent(ctx context.Context, userID string, limit int) ([]models.JournalEntry, error) {
	return f.entries, f.err
}

func newTestRouter(handler *fakeHandler, journal JournalReader, ready bool) http.Handler {
	return NewRouter(Deps{
		Handler: handler,
		Sessions: fakeSessions{"u1": {
			UserID:           "u1",
			NativeLanguage:   "de",
			LearningLanguage: "Spanish",
			ProficiencyLevel: models.LevelB1,
			Stage:            models.StageConversation,
		}},
		Journal:      journal,
		Ready:        func() bool { return ready },
		MaxBodyBytes: 1024,
	})
}

func TestHealthEndpoints(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		ready      bool
		wantStatus int
	}{
		{"liveness", "/v1/liveness", false, http.StatusOK},
		{"ready", "/v1/readiness", true, http.StatusOK},
		{"not ready", "/v1/readiness", false, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&fakeHandler{}, nil, tt.ready)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestPostEvent(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"text event", `{"userId":"u1","kind":"text","text":"hola","locale":"de-DE"}`, http.StatusOK},
		{"voice event", `{"userId":"u1","kind":"voice","voice":{"audio":"T2dnUw==","format":"ogg"}}`, http.StatusOK},
		{"malformed json", `{"userId":`, http.StatusBadRequest},
		{"missing user", `{"kind":"text","text":"hola"}`, http.StatusBadRequest},
		{"voice without audio", `{"userId":"u1","kind":"voice"}`, http.StatusBadRequest},
		{"too large", `{"userId":"u1","kind":"text","text":"` + strings.Repeat("a", 2000) + `"}`, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &fakeHandler{}
			r := newTestRouter(handler, nil, true)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/events", strings.NewReader(tt.body))
			r.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if rec.Code != http.StatusOK {
				return
			}

			var resp eventResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if len(resp.Messages) != 1 || resp.Messages[0].DestinationID != "u1" {
				t.Errorf("unexpected response %+v", resp)
			}
		})
	}
}

func TestPostEvent_DecodesBase64Audio(t *testing.T) {
	handler := &fakeHandler{}
	r := newTestRouter(handler, nil, true)

	body := `{"userId":"u1","kind":"voice","voice":{"audio":"T2dnUw==","format":"ogg"}}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/events", strings.NewReader(body)))

	if handler.last.Voice == nil || string(handler.last.Voice.Audio) != "OggS" {
		t.Errorf("expected decoded audio, got %+v", handler.last.Voice)
	}
}

func TestGetSession(t *testing.T) {
	r := newTestRouter(&fakeHandler{}, nil, true)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/users/u1/session", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Stage != "conversation" || resp.LearningLanguage != "Spanish" || resp.ProficiencyLevel != "B1" {
		t.Errorf("unexpected session %+v", resp)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/users/nobody/session", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown user, got %d", rec.Code)
	}
}

func TestGetJournal(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		r := newTestRouter(&fakeHandler{}, nil, true)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/users/u1/journal", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("entries", func(t *testing.T) {
		journal := &fakeJournal{entries: []models.JournalEntry{{
			UserID: "u1", TurnID: "u1-turn-1", Direction: models.DirectionInbound,
			Kind: "text", Stage: "conversation", Text: "hola", CreatedAt: time.UnixMilli(1000),
		}}}
		r := newTestRouter(&fakeHandler{}, journal, true)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/users/u1/journal?limit=5", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp []journalEntryResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(resp) != 1 || resp[0].TurnID != "u1-turn-1" || resp[0].CreatedAt != 1000 {
			t.Errorf("unexpected journal %+v", resp)
		}
	})

	t.Run("failure", func(t *testing.T) {
		r := newTestRouter(&fakeHandler{}, &fakeJournal{err: errors.New("disk")}, true)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/users/u1/journal", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})
}
