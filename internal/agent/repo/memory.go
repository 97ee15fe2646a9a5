package repo

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/schema"

	"github.com/logis-assistant/server/internal/agent/model"
)

// MemoryConversationRepository keeps session logs in process memory. It backs
// tests and single-process local runs; deployments use the Redis repository.
type MemoryConversationRepository struct {
	mu       sync.RWMutex
	sessions map[string][]*schema.Message
}

var _ model.ConversationRepository = (*MemoryConversationRepository)(nil)

func NewMemoryConversationRepository() *MemoryConversationRepository {
	return &MemoryConversationRepository{sessions: make(map[string][]*schema.Message)}
}

func (r *MemoryConversationRepository) AddMessage(ctx context.Context, sessionID string, message *schema.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionID] = append(r.sessions[sessionID], message)
	return nil
}

func (r *MemoryConversationRepository) LoadHistory(ctx context.Context, sessionID string) (*model.ConversationHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	msgs := make([]*schema.Message, len(r.sessions[sessionID]))
	copy(msgs, r.sessions[sessionID])
	return &model.ConversationHistory{SessionID: sessionID, Messages: msgs}, nil
}

func (r *MemoryConversationRepository) ClearHistory(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}

func (r *MemoryConversationRepository) MessageCount(ctx context.Context, sessionID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions[sessionID]), nil
}
