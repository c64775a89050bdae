package repo

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/schema"

	"github.com/aura-uw-poc/server/internal/underwriting/model"
)

type memorySession struct {
	messages []*schema.Message
	profile  model.Profile
}

// MemorySessionRepository is the in-process implementation used by the demo
// driver when no redis is configured, and by tests. Sessions are isolated by
// ID; the mutex only guards the map itself and per-session slices.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*memorySession
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]*memorySession)}
}

func (r *MemorySessionRepository) session(sessionID string) *memorySession {
	s, ok := r.sessions[sessionID]
	if !ok {
		s = &memorySession{}
		r.sessions[sessionID] = s
	}
	return s
}

func (r *MemorySessionRepository) AppendMessage(_ context.Context, sessionID string, message *schema.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.session(sessionID)
	s.messages = append(s.messages, message)
	return nil
}

func (r *MemorySessionRepository) LoadHistory(_ context.Context, sessionID string) (*model.ConversationHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return &model.ConversationHistory{SessionID: sessionID, Messages: []*schema.Message{}}, nil
	}
	msgs := make([]*schema.Message, len(s.messages))
	copy(msgs, s.messages)
	return &model.ConversationHistory{SessionID: sessionID, Messages: msgs}, nil
}

func (r *MemorySessionRepository) SaveProfile(_ context.Context, sessionID string, profile model.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session(sessionID).profile = profile
	return nil
}

func (r *MemorySessionRepository) LoadProfile(_ context.Context, sessionID string) (model.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return model.Profile{}, nil
	}
	return s.profile, nil
}

func (r *MemorySessionRepository) Clear(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}

func (r *MemorySessionRepository) MessageCount(_ context.Context, sessionID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return 0, nil
	}
	return len(s.messages), nil
}

var _ model.SessionRepository = (*MemorySessionRepository)(nil)
