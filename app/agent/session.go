package agent

import (
	"sync"

	"jejubot/types"
)

// Session is the append-only conversation log for one chat session.
// The full sequence is kept for the session lifetime; only a recent
// window is surfaced into new prompts.
type Session struct {
	mu    sync.Mutex
	turns []types.Turn
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) Append(user, assistant string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, types.Turn{User: user, Assistant: assistant})
}

// Recent returns the last n turns, oldest first.
func (s *Session) Recent(n int) []types.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > len(s.turns) {
		n = len(s.turns)
	}
	out := make([]types.Turn, n)
	copy(out, s.turns[len(s.turns)-n:])
	return out
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}
