package api

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"jejubot/app/agent"
	"jejubot/types"
)

// ChatHandler owns the per-session conversation logs and delegates each
// turn to the agent. Sessions live for the process lifetime.
type ChatHandler struct {
	agent *agent.Agent

	mu       sync.Mutex
	sessions map[string]*agent.Session
}

func NewChatHandler(a *agent.Agent) *ChatHandler {
	return &ChatHandler{
		agent:    a,
		sessions: make(map[string]*agent.Session),
	}
}

func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var params types.ChatParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}

	if errors := types.Validate(&params); len(errors) > 0 {
		return NewValidationError(errors)
	}

	sessionID, sess := h.session(params.SessionID)
	answer, places := h.agent.Answer(c.Context(), sess, params.Message)

	return c.JSON(&types.ChatResponse{
		SessionID: sessionID,
		Answer:    answer,
		Places:    places,
		Timestamp: time.Now(),
	})
}

// session returns an existing session or creates one under a fresh id.
func (h *ChatHandler) session(id string) (string, *agent.Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if id != "" {
		if sess, ok := h.sessions[id]; ok {
			return id, sess
		}
	}
	id = uuid.NewString()
	sess := agent.NewSession()
	h.sessions[id] = sess
	return id, sess
}
