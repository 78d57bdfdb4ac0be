// File: internal/storage/interface.go
package storage

import "github.com/decisiondeft/decision-deft/internal/domain"

// Adapter persists the conversation collection as a single snapshot
// under a fixed key, the way browser local storage holds one JSON blob.
type Adapter interface {
	// Load returns the stored collection. An absent or unreadable
	// snapshot yields an empty collection, not an error.
	Load() ([]domain.Conversation, error)
	// Save replaces the snapshot with the full collection.
	Save(collection []domain.Conversation) error
	// Clear removes the snapshot outright.
	Clear() error
}
