// File: internal/services/ai/interface.go
package ai

import (
	"context"

	"github.com/decisiondeft/decision-deft/internal/domain"
)

// Provider sends one chat turn to the model. The remote endpoint is
// treated as stateless: every call carries the entire prior history, with
// the new message passed separately so the model never sees it as prior
// context.
type Provider interface {
	SendMessage(ctx context.Context, history []domain.Message, systemPrompt, newMessage string) (string, error)
}
