// File: internal/services/chat/errors.go
package chat

import "errors"

var (
	// ErrConversationNotFound means the send targeted a conversation that
	// does not exist (or there is no active conversation).
	ErrConversationNotFound = errors.New("conversation not found")
	// ErrEmptyMessage means the message text was empty after trimming.
	ErrEmptyMessage = errors.New("message text is empty")
	// ErrSendInFlight means the conversation is already awaiting a reply.
	ErrSendInFlight = errors.New("a send is already in flight for this conversation")
)
