package model

import (
	"context"
	"log/slog"
	"os"

	"jejubot/types"
)

// Embedder produces vectors with distinct passage and query models.
// Passage embeddings are used only during ingestion, query embeddings
// only at retrieval time.
type Embedder struct {
	client       *UpstageClient
	passageModel string
	queryModel   string
}

// NewEmbedder reads its configuration from the environment and fails fast
// before any data processing begins.
func NewEmbedder() (*Embedder, error) {
	apiKey := os.Getenv("UPSTAGE_API_KEY")
	if apiKey == "" {
		return nil, types.NewConfigError("UPSTAGE_API_KEY")
	}
	passageModel := os.Getenv("PASSAGE_MODEL")
	if passageModel == "" {
		passageModel = "solar-embedding-1-large-passage"
	}
	queryModel := os.Getenv("QUERY_MODEL")
	if queryModel == "" {
		queryModel = "solar-embedding-1-large-query"
	}

	slog.Info("[EMBEDDER] using Upstage embeddings", "passage_model", passageModel, "query_model", queryModel)

	return &Embedder{
		client:       NewUpstageClient(os.Getenv("EMBEDDING_URL"), apiKey),
		passageModel: passageModel,
		queryModel:   queryModel,
	}, nil
}

// EmbedPassages embeds a batch of documents with the passage model.
// One round trip per call.
func (e *Embedder) EmbedPassages(ctx context.Context, texts []string) ([][]float32, error) {
	return e.client.Embed(ctx, e.passageModel, texts)
}

// EmbedQuery embeds a single user query with the query model.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.client.Embed(ctx, e.queryModel, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}
