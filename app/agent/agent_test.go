package agent

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jejubot/retrieval"
	"jejubot/types"
)

type fakeLLM struct {
	answer   string
	fail     bool
	messages []types.Message
}

func (f *fakeLLM) Chat(ctx context.Context, messages []types.Message) (string, error) {
	f.messages = messages
	if f.fail {
		return "", fmt.Errorf("model unreachable")
	}
	return f.answer, nil
}

type fakeSearcher struct {
	places []types.Place
}

func (f *fakeSearcher) Search(ctx context.Context, query string, n int) []types.Place {
	return f.places
}

func (f *fakeLLM) userMessage(t *testing.T) string {
	t.Helper()
	require.Len(t, f.messages, 2)
	require.Equal(t, "system", f.messages[0].Role)
	require.Equal(t, "user", f.messages[1].Role)
	return f.messages[1].Content
}

func TestAnswer_AppendsTurnOnSuccess(t *testing.T) {
	llm := &fakeLLM{answer: "흑돼지를 추천합니다."}
	a := New(llm, &fakeSearcher{}, filepath.Join(t.TempDir(), "prompt.txt"))
	sess := NewSession()

	answer, _ := a.Answer(context.Background(), sess, "뭐 먹을까?")

	assert.Equal(t, "흑돼지를 추천합니다.", answer)
	assert.Equal(t, 1, sess.Len())
}

func TestAnswer_ModelFailureReturnsApologyAndKeepsHistory(t *testing.T) {
	llm := &fakeLLM{fail: true}
	a := New(llm, &fakeSearcher{}, filepath.Join(t.TempDir(), "prompt.txt"))
	sess := NewSession()
	sess.Append("이전 질문", "이전 답변")

	answer, _ := a.Answer(context.Background(), sess, "뭐 먹을까?")

	assert.Contains(t, answer, "죄송합니다")
	assert.Equal(t, 1, sess.Len(), "a failed turn is not recorded")
}

func TestAnswer_HistoryWindowIsThreeTurns(t *testing.T) {
	llm := &fakeLLM{answer: "네"}
	a := New(llm, &fakeSearcher{}, filepath.Join(t.TempDir(), "prompt.txt"))

	sess := NewSession()
	for i := 1; i <= 10; i++ {
		sess.Append(fmt.Sprintf("질문-%02d", i), fmt.Sprintf("답변-%02d", i))
	}

	a.Answer(context.Background(), sess, "마지막 질문")
	prompt := llm.userMessage(t)

	assert.Contains(t, prompt, "=== 이전 대화 ===")
	for _, want := range []string{"질문-08", "질문-09", "질문-10", "답변-08", "답변-09", "답변-10"} {
		assert.Contains(t, prompt, want)
	}
	for _, older := range []string{"질문-01", "질문-07", "답변-07"} {
		assert.NotContains(t, prompt, older)
	}
}

func TestAnswer_NoHistoryBlockForFreshSession(t *testing.T) {
	llm := &fakeLLM{answer: "네"}
	a := New(llm, &fakeSearcher{}, filepath.Join(t.TempDir(), "prompt.txt"))

	a.Answer(context.Background(), NewSession(), "첫 질문")

	assert.NotContains(t, llm.userMessage(t), "이전 대화")
}

func TestAnswer_PromptContainsContextAndQuestion(t *testing.T) {
	llm := &fakeLLM{answer: "네"}
	searcher := &fakeSearcher{places: []types.Place{
		{Name: "바다식당", Category: "음식", Address: "제주시", Phone: retrieval.NoPhone, Tags: "해산물", Description: "회", Distance: 0.1},
	}}
	a := New(llm, searcher, filepath.Join(t.TempDir(), "prompt.txt"))

	a.Answer(context.Background(), NewSession(), "해산물 맛집 알려줘")
	prompt := llm.userMessage(t)

	assert.Contains(t, prompt, "바다식당")
	assert.Contains(t, prompt, "사용자 질문: 해산물 맛집 알려줘")
}

func TestAnswer_EmptyRetrievalUsesSentinelContext(t *testing.T) {
	llm := &fakeLLM{answer: "네"}
	a := New(llm, &fakeSearcher{}, filepath.Join(t.TempDir(), "prompt.txt"))

	a.Answer(context.Background(), NewSession(), "아무거나")

	assert.Contains(t, llm.userMessage(t), retrieval.NoContext)
}

func TestAnswer_SystemPromptHotReload(t *testing.T) {
	promptFile := filepath.Join(t.TempDir(), "prompt.txt")
	llm := &fakeLLM{answer: "네"}
	a := New(llm, &fakeSearcher{}, promptFile)
	sess := NewSession()

	// Missing file falls back to the default instruction.
	a.Answer(context.Background(), sess, "질문1")
	assert.Equal(t, FallbackPrompt, llm.messages[0].Content)

	require.NoError(t, os.WriteFile(promptFile, []byte("새로운 지시문"), 0o644))
	a.Answer(context.Background(), sess, "질문2")
	assert.Equal(t, "새로운 지시문", llm.messages[0].Content, "edits take effect on the very next turn")
}
