package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/decisiondeft/decision-deft/internal/domain"
	"github.com/decisiondeft/decision-deft/internal/services"
	"github.com/decisiondeft/decision-deft/internal/services/chat"
	"github.com/decisiondeft/decision-deft/internal/store"
)

type memoryAdapter struct {
	snapshot []domain.Conversation
}

func (m *memoryAdapter) Load() ([]domain.Conversation, error) { return m.snapshot, nil }
func (m *memoryAdapter) Save(c []domain.Conversation) error {
	m.snapshot = append([]domain.Conversation{}, c...)
	return nil
}
func (m *memoryAdapter) Clear() error { m.snapshot = nil; return nil }

type stubProvider struct {
	reply string
	err   error
}

func (p *stubProvider) SendMessage(ctx context.Context, history []domain.Message, systemPrompt, newMessage string) (string, error) {
	return p.reply, p.err
}

func newTestRouter(provider *stubProvider) (*mux.Router, *store.Store) {
	logger := &services.NoOpLogger{}
	s := store.New(&memoryAdapter{}, logger)
	h := NewChatHandler(s, chat.NewOrchestrator(s, provider, logger))

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", h.GetState).Methods("GET")
	api.HandleFunc("/mode", h.SetMode).Methods("PUT")
	api.HandleFunc("/conversations", h.CreateConversation).Methods("POST")
	api.HandleFunc("/conversations/{id}/select", h.SelectConversation).Methods("POST")
	api.HandleFunc("/conversations/{id}", h.DeleteConversation).Methods("DELETE")
	api.HandleFunc("/conversations/{id}/messages", h.GetMessages).Methods("GET")
	api.HandleFunc("/conversations/{id}/messages", h.SendMessage).Methods("POST")
	api.HandleFunc("/conversations/{id}/export", h.ExportConversation).Methods("GET")
	return r, s
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndState(t *testing.T) {
	r, _ := newTestRouter(&stubProvider{reply: "ok"})

	rec := doJSON(t, r, "POST", "/api/conversations", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var conv domain.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conv))
	require.NotEmpty(t, conv.ID)
	require.Equal(t, domain.DefaultTitle, conv.Title)

	rec = doJSON(t, r, "GET", "/api/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var state struct {
		Conversations []conversationSummary `json:"conversations"`
		ActiveID      string                `json:"activeId"`
		Anonymous     bool                  `json:"anonymous"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	require.Len(t, state.Conversations, 1)
	require.Equal(t, conv.ID, state.ActiveID)
	require.False(t, state.Anonymous)
}

func TestSendMessageRoundTrip(t *testing.T) {
	r, s := newTestRouter(&stubProvider{reply: "Tell me more about the offer."})
	conv := s.Create()

	rec := doJSON(t, r, "POST", "/api/conversations/"+conv.ID+"/messages",
		map[string]string{"message": "Should I take the job offer?"})
	require.Equal(t, http.StatusOK, rec.Code)

	var reply messageView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	require.Equal(t, "assistant", reply.Role)
	require.Equal(t, "Tell me more about the offer.", reply.Text)
	require.Contains(t, reply.HTML, "<p>")

	got, ok := s.Get(conv.ID)
	require.True(t, ok)
	require.Len(t, got.History, 2)
	require.Equal(t, "Should I take the job offer?", got.Title)
}

func TestSendMessageFailureSurfacesAsChatReply(t *testing.T) {
	r, s := newTestRouter(&stubProvider{err: errors.New("boom")})
	conv := s.Create()

	rec := doJSON(t, r, "POST", "/api/conversations/"+conv.ID+"/messages",
		map[string]string{"message": "hello"})
	// A failed chat call is not an HTTP error, only a placeholder reply.
	require.Equal(t, http.StatusOK, rec.Code)

	var reply messageView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	require.Equal(t, chat.ErrorReplyText, reply.Text)
}

func TestSendMessageValidation(t *testing.T) {
	r, s := newTestRouter(&stubProvider{reply: "ok"})
	conv := s.Create()

	rec := doJSON(t, r, "POST", "/api/conversations/"+conv.ID+"/messages",
		map[string]string{"message": "   "})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, "POST", "/api/conversations/missing/messages",
		map[string]string{"message": "hello"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteConversation(t *testing.T) {
	r, s := newTestRouter(&stubProvider{reply: "ok"})
	conv := s.Create()

	rec := doJSON(t, r, "DELETE", "/api/conversations/"+conv.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, s.List())

	// Unknown ids still answer 204.
	rec = doJSON(t, r, "DELETE", "/api/conversations/"+conv.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestExportConversation(t *testing.T) {
	r, s := newTestRouter(&stubProvider{reply: "ok"})
	conv := s.Create()
	s.AppendUserMessage(conv.ID, "Should I take the job offer?")

	rec := doJSON(t, r, "GET", "/api/conversations/"+conv.ID+"/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "decision_log_should_i_take_the_job_offer_.md")
	require.Contains(t, rec.Body.String(), "# Decision Log: Should I take the job offer?")
}

func TestSetMode(t *testing.T) {
	r, s := newTestRouter(&stubProvider{reply: "ok"})
	conv := s.Create()
	s.AppendUserMessage(conv.ID, "secret dilemma")

	rec := doJSON(t, r, "PUT", "/api/mode", map[string]bool{"anonymous": true})
	require.Equal(t, http.StatusOK, rec.Code)

	var state struct {
		Conversations []conversationSummary `json:"conversations"`
		Anonymous     bool                  `json:"anonymous"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	require.True(t, state.Anonymous)
	require.Empty(t, state.Conversations)

	rec = doJSON(t, r, "PUT", "/api/mode", map[string]bool{"anonymous": false})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	require.False(t, state.Anonymous)
	require.Empty(t, state.Conversations, "data from before private mode was wiped")
}
