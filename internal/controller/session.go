package controller

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/lowball-labs/go-lowball-agent/internal/chat"
)

// SessionState tracks where the agent is in the browse-and-haggle flow.
// DealClosed and Walked are terminal for the current target; a new search
// resets to Searching.
type SessionState string

const (
	StateIdle        SessionState = "idle"
	StateSearching   SessionState = "searching"
	StateListed      SessionState = "listed"
	StateChatOpen    SessionState = "chat_open"
	StateNegotiating SessionState = "negotiating"
	StateDealClosed  SessionState = "deal_closed"
	StateWalked      SessionState = "walked"
)

// Session is the per-run agent state: an ID for log correlation, the
// current flow state and the chat handle of the listing being worked.
type Session struct {
	ID    string
	State SessionState
	trace []SessionState
	chat  *chat.Handle
}

func NewSession() *Session {
	return &Session{
		ID:    uuid.NewString(),
		State: StateIdle,
	}
}

// To moves the session to a new state, logging the transition.
func (s *Session) To(next SessionState) {
	if s.State == next {
		return
	}
	fmt.Printf("SESSION %s: %s → %s\n", s.ID[:8], s.State, next)
	s.State = next
	s.trace = append(s.trace, next)
}

// Trace returns every state the session has entered, in order.
func (s *Session) Trace() []SessionState {
	return s.trace
}

// AttachChat stores the open conversation handle for the active listing.
func (s *Session) AttachChat(h *chat.Handle) {
	s.chat = h
}

// Chat returns the attached conversation handle, nil when no chat is open.
func (s *Session) Chat() *chat.Handle {
	return s.chat
}
