package agent

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"jejubot/retrieval"
	"jejubot/types"
)

// FallbackPrompt is used when the system instruction file is absent.
const FallbackPrompt = "당신은 제주도 여행 전문가입니다. 사용자에게 유용한 여행 정보를 제공해주세요."

const (
	historyWindow = 3
	resultCount   = 3
)

// ChatModel is the slice of the LLM client the agent needs.
type ChatModel interface {
	Chat(ctx context.Context, messages []types.Message) (string, error)
}

// Searcher produces ranked places for a user query.
type Searcher interface {
	Search(ctx context.Context, query string, n int) []types.Place
}

// Agent assembles the grounded prompt for each turn and calls the model.
type Agent struct {
	logger     *slog.Logger
	llm        ChatModel
	retriever  Searcher
	promptFile string
}

func New(llm ChatModel, retriever Searcher, promptFile string) *Agent {
	if promptFile == "" {
		promptFile = "prompt.txt"
	}
	return &Agent{
		logger:     slog.Default(),
		llm:        llm,
		retriever:  retriever,
		promptFile: promptFile,
	}
}

// Answer runs one chat turn: retrieve context, render recent history,
// call the model once, and append the exchange on success. A model failure
// becomes a user-visible apology and leaves the history untouched.
func (a *Agent) Answer(ctx context.Context, sess *Session, input string) (string, []types.Place) {
	systemPrompt := a.loadPrompt()

	places := a.retriever.Search(ctx, input, resultCount)
	contextBlock := retrieval.FormatContext(places)
	historyBlock := renderHistory(sess.Recent(historyWindow))

	userMessage := fmt.Sprintf("%s\n\n%s\n\n사용자 질문: %s", contextBlock, historyBlock, input)
	messages := []types.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userMessage},
	}

	if count, err := countTokens(systemPrompt + userMessage); err == nil {
		a.logger.Info("[AGENT] prompt assembled", "tokens", count, "places", len(places))
	}

	answer, err := a.llm.Chat(ctx, messages)
	if err != nil {
		a.logger.Error("[AGENT] model call failed", "error", err)
		return fmt.Sprintf("죄송합니다. 응답 생성 중 오류가 발생했습니다: %v", err), places
	}

	sess.Append(input, answer)
	return answer, places
}

// loadPrompt re-reads the system instruction file every turn so edits take
// effect on the very next exchange.
func (a *Agent) loadPrompt() string {
	data, err := os.ReadFile(a.promptFile)
	if err != nil || len(strings.TrimSpace(string(data))) == 0 {
		return FallbackPrompt
	}
	return string(data)
}

// renderHistory formats recent turns, oldest first, as labeled exchanges.
func renderHistory(turns []types.Turn) string {
	if len(turns) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n=== 이전 대화 ===\n")
	for i, turn := range turns {
		fmt.Fprintf(&sb, "사용자 %d: %s\n", i+1, turn.User)
		fmt.Fprintf(&sb, "챗봇 %d: %s\n\n", i+1, turn.Assistant)
	}
	return sb.String()
}

func countTokens(text string) (int, error) {
	enc, err := tiktoken.EncodingForModel("gpt-3.5-turbo")
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}
