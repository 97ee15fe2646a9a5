package conversations

import (
	"context"

	"github.com/cloudwego/eino/schema"

	"github.com/logis-assistant/server/internal/agent/model"
)

// SessionManager mediates between the orchestration loop and the persisted
// session log. Only the orchestration machinery touches a session while a
// request is in flight.
type SessionManager struct {
	repo model.ConversationRepository
}

func NewSessionManager(repo model.ConversationRepository) *SessionManager {
	return &SessionManager{repo: repo}
}

// SeedDelegate records the user's message for a delegated request and returns
// the message sequence to hand the reasoning engine: the system instruction
// followed by the session history including the new message. The system
// instruction is rebuilt per request and never persisted.
func (m *SessionManager) SeedDelegate(ctx context.Context, sessionID, systemPrompt, query string) ([]*schema.Message, error) {
	if err := m.repo.AddMessage(ctx, sessionID, schema.UserMessage(query)); err != nil {
		return nil, err
	}

	history, err := m.repo.LoadHistory(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	messages := make([]*schema.Message, 0, len(history.Messages)+1)
	messages = append(messages, schema.SystemMessage(systemPrompt))
	messages = append(messages, history.Messages...)
	return messages, nil
}

// SaveAnswer records the final assistant answer in the session log.
func (m *SessionManager) SaveAnswer(ctx context.Context, sessionID, answer string) error {
	return m.repo.AddMessage(ctx, sessionID, schema.AssistantMessage(answer, nil))
}

// History exposes the persisted log, used by callers that need to inspect a
// session (tests, debugging endpoints).
func (m *SessionManager) History(ctx context.Context, sessionID string) ([]*schema.Message, error) {
	history, err := m.repo.LoadHistory(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return history.Messages, nil
}

// Size returns how many messages the session log currently holds.
func (m *SessionManager) Size(ctx context.Context, sessionID string) (int, error) {
	return m.repo.MessageCount(ctx, sessionID)
}

// Clear drops the persisted log for a session. The next message starts the
// conversation over.
func (m *SessionManager) Clear(ctx context.Context, sessionID string) error {
	return m.repo.ClearHistory(ctx, sessionID)
}
