package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// SessionRepository owns the per-session state: the append-only reasoning
// history and the accumulated applicant profile. Sessions are isolated by ID
// and share no state.
type SessionRepository interface {
	// AppendMessage appends a message to the session's reasoning history.
	AppendMessage(ctx context.Context, sessionID string, message *schema.Message) error

	// LoadHistory retrieves the full reasoning history for a session.
	LoadHistory(ctx context.Context, sessionID string) (*ConversationHistory, error)

	// SaveProfile stores the accumulated profile for a session.
	SaveProfile(ctx context.Context, sessionID string, profile Profile) error

	// LoadProfile retrieves the accumulated profile; an unknown session yields
	// an empty profile, not an error.
	LoadProfile(ctx context.Context, sessionID string) (Profile, error)

	// Clear removes all state for a session (full reset).
	Clear(ctx context.Context, sessionID string) error

	// MessageCount returns the number of messages in the session history.
	MessageCount(ctx context.Context, sessionID string) (int, error)
}

// ConversationHistory represents loaded session history with metadata.
type ConversationHistory struct {
	SessionID string
	Messages  []*schema.Message
}
