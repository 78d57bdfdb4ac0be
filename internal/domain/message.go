// File: internal/domain/message.go
package domain

// Role identifies who produced a message turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single turn within a conversation.
// A message's role and text never change once created.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// NewUserMessage builds a user turn.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Text: text}
}

// NewAssistantMessage builds an assistant turn.
func NewAssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Text: text}
}
