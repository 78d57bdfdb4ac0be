// File: internal/domain/conversation.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTitle is the placeholder every new conversation starts with.
// It is replaced by the first user message, see DeriveTitle.
const DefaultTitle = "New Decision"

const (
	titleMaxRunes   = 30
	titleTruncRunes = 27
)

// Conversation is a single decision-making thread.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	History   []Message `json:"history"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewConversation creates an empty conversation with a fresh id and
// the default title.
func NewConversation() Conversation {
	return Conversation{
		ID:        uuid.NewString(),
		Title:     DefaultTitle,
		History:   []Message{},
		CreatedAt: time.Now(),
	}
}

// DeriveTitle turns the first user message into a conversation title.
// Messages longer than 30 runes are cut to 27 runes plus an ellipsis marker.
func DeriveTitle(text string) string {
	runes := []rune(text)
	if len(runes) > titleMaxRunes {
		return string(runes[:titleTruncRunes]) + "..."
	}
	return text
}
