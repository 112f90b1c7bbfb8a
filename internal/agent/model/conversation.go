package model

import (
	"context"
)

// SessionRepository persists ConversationState between turns. The core is
// stateless between calls; correctness depends on the repository returning
// the exact previously-stored state.
//
// The repository (or the layer in front of it) must also guarantee at most
// one concurrent turn execution per session: concurrent turns on the same
// session would race on slot updates and risk double capture.
type SessionRepository interface {
	// Load returns the stored state for a session, or a fresh empty state
	// when the session is unknown.
	Load(ctx context.Context, sessionID string) (*ConversationState, error)

	// Save stores the state for a session, replacing any previous value.
	Save(ctx context.Context, sessionID string, state *ConversationState) error

	// Clear removes all state for a session.
	Clear(ctx context.Context, sessionID string) error
}
