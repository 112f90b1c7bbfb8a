package model

import (
	"strings"

	"github.com/cloudwego/eino/schema"
)

// Intent is the coarse classification of a single user turn.
type Intent string

const (
	IntentGreeting       Intent = "greeting"
	IntentInquiry        Intent = "inquiry"
	IntentHighIntentLead Intent = "high_intent_lead"
)

// Valid reports whether the intent is one of the three known labels.
func (i Intent) Valid() bool {
	switch i {
	case IntentGreeting, IntentInquiry, IntentHighIntentLead:
		return true
	}
	return false
}

// LeadSlots holds the structured fields collected during a lead-capture flow.
// A slot, once set, is never overwritten by later extraction.
type LeadSlots struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Platform string `json:"platform,omitempty"`
}

// ConversationState is the full per-session state of the agent. It is owned by
// the turn graph for the duration of one invocation and by the session
// repository between turns.
type ConversationState struct {
	History      []*schema.Message `json:"history"`
	Intent       Intent            `json:"intent,omitempty"`
	Slots        LeadSlots         `json:"slots"`
	LeadCaptured bool              `json:"lead_captured"`

	// Context holds the knowledge snippets retrieved for the current turn.
	// It is transient and not persisted across turns.
	Context string `json:"-"`
}

// NewConversationState returns the empty state for a fresh session.
func NewConversationState() *ConversationState {
	return &ConversationState{History: []*schema.Message{}}
}

// LastUserText returns the content of the most recent user message.
func (s *ConversationState) LastUserText() string {
	for i := len(s.History) - 1; i >= 0; i-- {
		m := s.History[i]
		if m != nil && m.Role == schema.User {
			return strings.TrimSpace(m.Content)
		}
	}
	return ""
}

// TurnInput is the graph input for processing one user turn.
type TurnInput struct {
	SessionID string
	Query     string
	State     *ConversationState
}

// TurnOutput is the graph output for one turn: the agent reply plus the
// updated state the caller is expected to persist.
type TurnOutput struct {
	Reply        string
	Intent       Intent
	LeadCaptured bool
	State        *ConversationState
}

// TurnState stores per-invocation state for the Eino graph.
// Concurrency model:
//   - Registered as graph local state via compose.WithGenLocalState.
//   - All reads/writes happen only inside Eino state handlers
//     (WithStatePreHandler, WithStatePostHandler, compose.ProcessState),
//     which Eino serializes, so no mutex is required.
//   - Persistence is not this struct's job; the caller saves Conv through a
//     SessionRepository after a successful turn.
type TurnState struct {
	SessionID string
	Query     string
	Conv      *ConversationState

	// Accumulated LLM cost (USD) across model invocations for this turn.
	TotalCostUSD float64
}
