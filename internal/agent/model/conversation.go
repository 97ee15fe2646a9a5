package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

type ConversationRepository interface {
	// AddMessage appends a message to the session's conversation log.
	AddMessage(ctx context.Context, sessionID string, message *schema.Message) error

	// LoadHistory retrieves the conversation log for a session.
	LoadHistory(ctx context.Context, sessionID string) (*ConversationHistory, error)

	// ClearHistory removes all conversation history for a session.
	ClearHistory(ctx context.Context, sessionID string) error

	// MessageCount returns the number of messages in the session log.
	MessageCount(ctx context.Context, sessionID string) (int, error)
}

// ConversationHistory represents loaded session data with metadata.
type ConversationHistory struct {
	SessionID string
	Messages  []*schema.Message
}
