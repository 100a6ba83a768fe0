package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatParams_RequiresMessage(t *testing.T) {
	errors := Validate(&ChatParams{SessionID: "abc"})
	assert.Contains(t, errors, "Message")

	errors = Validate(&ChatParams{Message: "해산물 맛집"})
	assert.Empty(t, errors, "session_id is optional")
}

func TestPromptParams_RequiresPrompt(t *testing.T) {
	errors := Validate(&PromptParams{})
	assert.Contains(t, errors, "Prompt")
}
