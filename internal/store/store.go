// File: internal/store/store.go
package store

import (
	"strings"
	"sync"

	"github.com/decisiondeft/decision-deft/internal/domain"
	"github.com/decisiondeft/decision-deft/internal/services"
	"github.com/decisiondeft/decision-deft/internal/storage"
)

// Store owns the conversation collection and the active selection.
// It is the only place conversations are mutated. Every mutation while
// persistence is on writes the full collection through to the adapter.
type Store struct {
	mu            sync.Mutex
	adapter       storage.Adapter
	logger        services.Logger
	conversations []domain.Conversation
	activeID      string
	anonymous     bool
	sending       map[string]bool
}

// New creates a Store and loads the persisted collection.
func New(adapter storage.Adapter, logger services.Logger) *Store {
	s := &Store{
		adapter: adapter,
		logger:  logger,
		sending: make(map[string]bool),
	}
	s.conversations = s.loadCollection()
	return s
}

func (s *Store) loadCollection() []domain.Conversation {
	collection, err := s.adapter.Load()
	if err != nil {
		s.logger.Error("failed to load conversations, starting empty", "error", err.Error())
		return []domain.Conversation{}
	}
	return collection
}

// persist mirrors the collection to storage. Failures are logged and
// swallowed: persistence is best effort, never user-visible.
func (s *Store) persist() {
	if s.anonymous {
		return
	}
	if err := s.adapter.Save(s.conversations); err != nil {
		s.logger.Error("failed to save conversations", "error", err.Error())
	}
}

func (s *Store) indexOf(id string) int {
	for i := range s.conversations {
		if s.conversations[i].ID == id {
			return i
		}
	}
	return -1
}

// Create prepends a new empty conversation and makes it active.
func (s *Store) Create() domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := domain.NewConversation()
	s.conversations = append([]domain.Conversation{conv}, s.conversations...)
	s.activeID = conv.ID
	s.persist()
	return conv
}

// Select makes the given conversation active. Unknown ids leave the
// selection unchanged.
func (s *Store) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) >= 0 {
		s.activeID = id
	}
}

// Delete removes a conversation. Deleting the active one selects the
// first remaining conversation, or nothing when the collection is empty.
// Unknown ids are a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.conversations = append(s.conversations[:i], s.conversations[i+1:]...)
	if s.activeID == id {
		s.activeID = ""
		if len(s.conversations) > 0 {
			s.activeID = s.conversations[0].ID
		}
	}
	s.persist()
}

// AppendUserMessage appends a user turn. Empty text after trimming and
// unknown ids are contract violations and no-op. The first message of a
// conversation derives its title.
func (s *Store) AppendUserMessage(id, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		return false
	}
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	conv := &s.conversations[i]
	if len(conv.History) == 0 {
		conv.Title = domain.DeriveTitle(text)
	}
	conv.History = append(conv.History, domain.NewUserMessage(text))
	s.persist()
	return true
}

// AppendAssistantMessage appends an assistant turn, used both for real
// replies and for the error placeholder. Unknown ids no-op, which is how
// a reply for a conversation deleted mid-flight gets discarded.
func (s *Store) AppendAssistantMessage(id, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.conversations[i].History = append(s.conversations[i].History, domain.NewAssistantMessage(text))
	s.persist()
	return true
}

// SetAnonymous switches the persistence mode. Entering anonymous mode
// wipes the in-memory collection, the active selection and the persisted
// snapshot; leaving it reloads whatever storage holds.
func (s *Store) SetAnonymous(anonymous bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if anonymous == s.anonymous {
		return
	}
	s.anonymous = anonymous
	if anonymous {
		s.conversations = []domain.Conversation{}
		s.activeID = ""
		if err := s.adapter.Clear(); err != nil {
			s.logger.Error("failed to clear persisted conversations", "error", err.Error())
		}
		return
	}
	s.conversations = s.loadCollection()
	s.activeID = ""
	if len(s.conversations) > 0 {
		s.activeID = s.conversations[0].ID
	}
}

// Anonymous reports the current persistence mode.
func (s *Store) Anonymous() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.anonymous
}

// ActiveID returns the id of the active conversation, or "".
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Get returns a copy of one conversation.
func (s *Store) Get(id string) (domain.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Conversation{}, false
	}
	return copyConversation(s.conversations[i]), true
}

// List returns a copy of the collection, newest-first.
func (s *Store) List() []domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Conversation, len(s.conversations))
	for i, c := range s.conversations {
		out[i] = copyConversation(c)
	}
	return out
}

// BeginSend marks a conversation as awaiting a reply. It fails when the
// conversation is unknown or already has a send in flight.
func (s *Store) BeginSend(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) < 0 || s.sending[id] {
		return false
	}
	s.sending[id] = true
	return true
}

// EndSend clears the awaiting-reply marker.
func (s *Store) EndSend(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sending, id)
}

// Sending reports whether a conversation is awaiting a reply.
func (s *Store) Sending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending[id]
}

func copyConversation(c domain.Conversation) domain.Conversation {
	out := c
	out.History = make([]domain.Message, len(c.History))
	copy(out.History, c.History)
	return out
}
