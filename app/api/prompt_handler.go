package api

import (
	"os"

	"github.com/gofiber/fiber/v2"

	"jejubot/app/agent"
	"jejubot/types"
)

// PromptHandler exposes the hot-reloadable system instruction file. The
// agent re-reads it each turn, so an update takes effect on the next
// exchange without a restart.
type PromptHandler struct {
	promptFile string
}

func NewPromptHandler(promptFile string) *PromptHandler {
	return &PromptHandler{promptFile: promptFile}
}

func (h *PromptHandler) HandleGetPrompt(c *fiber.Ctx) error {
	data, err := os.ReadFile(h.promptFile)
	if err != nil {
		return c.JSON(&types.PromptResponse{Prompt: agent.FallbackPrompt})
	}
	return c.JSON(&types.PromptResponse{Prompt: string(data)})
}

func (h *PromptHandler) HandleSetPrompt(c *fiber.Ctx) error {
	var params types.PromptParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}

	if errors := types.Validate(&params); len(errors) > 0 {
		return NewValidationError(errors)
	}

	if err := os.WriteFile(h.promptFile, []byte(params.Prompt), 0o644); err != nil {
		return err
	}
	return c.JSON(&types.PromptResponse{Prompt: params.Prompt})
}
