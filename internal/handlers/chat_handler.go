// File: internal/handlers/chat_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/decisiondeft/decision-deft/internal/domain"
	"github.com/decisiondeft/decision-deft/internal/export"
	"github.com/decisiondeft/decision-deft/internal/services/chat"
	"github.com/decisiondeft/decision-deft/internal/services/render"
	"github.com/decisiondeft/decision-deft/internal/store"
)

type ChatHandler struct {
	Store        *store.Store
	Orchestrator *chat.Orchestrator
}

func NewChatHandler(s *store.Store, o *chat.Orchestrator) *ChatHandler {
	return &ChatHandler{Store: s, Orchestrator: o}
}

type conversationSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	Messages  int       `json:"messages"`
}

type messageView struct {
	Role string `json:"role"`
	Text string `json:"text"`
	HTML string `json:"html"`
}

func summarize(convs []domain.Conversation) []conversationSummary {
	out := make([]conversationSummary, len(convs))
	for i, c := range convs {
		out[i] = conversationSummary{
			ID:        c.ID,
			Title:     c.Title,
			CreatedAt: c.CreatedAt,
			Messages:  len(c.History),
		}
	}
	return out
}

// GetState returns the conversation list, active selection and
// persistence mode in one call; the page re-renders from this.
func (h *ChatHandler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"conversations": summarize(h.Store.List()),
		"activeId":      h.Store.ActiveID(),
		"anonymous":     h.Store.Anonymous(),
	})
}

// CreateConversation starts a new empty conversation and makes it active.
func (h *ChatHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	conv := h.Store.Create()
	writeJSON(w, http.StatusCreated, conv)
}

// SelectConversation makes the given conversation active. Unknown ids
// leave the selection unchanged, matching the store's defensive no-op.
func (h *ChatHandler) SelectConversation(w http.ResponseWriter, r *http.Request) {
	h.Store.Select(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

// DeleteConversation removes a conversation. Deleting an unknown id is
// still a 204; the store treats it as a no-op.
func (h *ChatHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	h.Store.Delete(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

// GetMessages returns one conversation's history with rendered HTML.
func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	conv, ok := h.Store.Get(mux.Vars(r)["id"])
	if !ok {
		writeError(w, "Conversation not found", http.StatusNotFound)
		return
	}

	views := make([]messageView, len(conv.History))
	for i, m := range conv.History {
		views[i] = messageView{Role: string(m.Role), Text: m.Text, HTML: render.ToHTML(m.Text)}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":       conv.ID,
		"title":    conv.Title,
		"messages": views,
		"sending":  h.Store.Sending(conv.ID),
	})
}

// SendMessage runs the send orchestration synchronously. A failed chat
// call still answers 200: the failure surfaces only as the fixed error
// reply inside the conversation.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	reply, err := h.Orchestrator.Send(r.Context(), mux.Vars(r)["id"], req.Message)
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		writeError(w, "Message text is required", http.StatusBadRequest)
		return
	case errors.Is(err, chat.ErrConversationNotFound):
		writeError(w, "Conversation not found", http.StatusNotFound)
		return
	case errors.Is(err, chat.ErrSendInFlight):
		writeError(w, "A reply is already pending for this conversation", http.StatusConflict)
		return
	case err != nil:
		writeError(w, "Could not process message", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, messageView{
		Role: string(reply.Role),
		Text: reply.Text,
		HTML: render.ToHTML(reply.Text),
	})
}

// ExportConversation streams the markdown transcript as a download.
func (h *ChatHandler) ExportConversation(w http.ResponseWriter, r *http.Request) {
	conv, ok := h.Store.Get(mux.Vars(r)["id"])
	if !ok {
		writeError(w, "Conversation not found", http.StatusNotFound)
		return
	}

	body := export.Markdown(conv)
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(conv.Title)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// SetMode switches anonymous mode on or off.
func (h *ChatHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Anonymous bool `json:"anonymous"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	h.Store.SetAnonymous(req.Anonymous)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"conversations": summarize(h.Store.List()),
		"activeId":      h.Store.ActiveID(),
		"anonymous":     h.Store.Anonymous(),
	})
}

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
