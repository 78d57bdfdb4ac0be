// File: internal/services/chat/orchestrator.go
package chat

import (
	"context"
	"strings"

	"github.com/decisiondeft/decision-deft/internal/domain"
	"github.com/decisiondeft/decision-deft/internal/services"
	"github.com/decisiondeft/decision-deft/internal/services/ai"
	"github.com/decisiondeft/decision-deft/internal/store"
)

// Orchestrator runs the send-message flow: append the user turn, call
// the model with the history as it was before that turn, then append the
// reply or the fixed error placeholder.
type Orchestrator struct {
	store    *store.Store
	provider ai.Provider
	logger   services.Logger
}

func NewOrchestrator(s *store.Store, provider ai.Provider, logger services.Logger) *Orchestrator {
	return &Orchestrator{store: s, provider: provider, logger: logger}
}

// SendToActive runs Send against the active conversation.
func (o *Orchestrator) SendToActive(ctx context.Context, text string) (domain.Message, error) {
	id := o.store.ActiveID()
	if id == "" {
		return domain.Message{}, ErrConversationNotFound
	}
	return o.Send(ctx, id, text)
}

// Send appends the user message and resolves the assistant's reply.
// Chat failures are swallowed here: the returned message then carries the
// fixed apology text, and the error is only logged. If the conversation
// is deleted while the call is in flight, the reply is silently dropped.
func (o *Orchestrator) Send(ctx context.Context, conversationID, text string) (domain.Message, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Message{}, ErrEmptyMessage
	}

	if _, ok := o.store.Get(conversationID); !ok {
		return domain.Message{}, ErrConversationNotFound
	}
	if !o.store.BeginSend(conversationID) {
		return domain.Message{}, ErrSendInFlight
	}
	defer o.store.EndSend(conversationID)

	conv, ok := o.store.Get(conversationID)
	if !ok {
		return domain.Message{}, ErrConversationNotFound
	}

	// The model must not see the just-sent message as prior context; it
	// travels as the separate new-message argument.
	priorHistory := conv.History
	o.store.AppendUserMessage(conversationID, text)

	replyText, err := o.provider.SendMessage(ctx, priorHistory, SystemInstruction, text)
	if err != nil {
		o.logger.Error("chat call failed", "conversation_id", conversationID, "error", err.Error())
		replyText = ErrorReplyText
	}

	reply := domain.NewAssistantMessage(replyText)
	if !o.store.AppendAssistantMessage(conversationID, replyText) {
		o.logger.Debug("conversation deleted before reply arrived, discarding", "conversation_id", conversationID)
	}
	return reply, nil
}
