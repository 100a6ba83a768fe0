// Package retrieval turns a user query into ranked travel records and
// renders them into the context block injected into the model prompt.
package retrieval

import (
	"context"
	"log/slog"

	"jejubot/store"
	"jejubot/types"
)

// Display-field sentinels used when no metadata key resolves.
const (
	NoName        = "제목 없음"
	NoCategory    = "카테고리 없음"
	NoAddress     = "주소 없음"
	NoPhone       = "전화번호 없음"
	NoTags        = "태그 없음"
	NoDescription = "설명 없음"
)

// QueryEmbedder is the slice of the embedding client the retriever needs.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Retriever embeds a query and resolves the nearest documents into Places.
// It degrades to an empty result on any failure rather than blocking chat.
type Retriever struct {
	logger     *slog.Logger
	embedder   QueryEmbedder
	store      store.VectorStorer
	collection string
}

func New(embedder QueryEmbedder, storer store.VectorStorer, collection string) *Retriever {
	return &Retriever{
		logger:     slog.Default(),
		embedder:   embedder,
		store:      storer,
		collection: collection,
	}
}

// Search returns up to n places ranked by ascending distance. Exactly one
// query embedding is computed per call.
func (r *Retriever) Search(ctx context.Context, query string, n int) []types.Place {
	if n <= 0 {
		n = 3
	}

	embedding, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		r.logger.Error("[RETRIEVER] query embedding failed", "error", err)
		return nil
	}

	hits, err := r.store.QueryNearest(ctx, r.collection, embedding, n)
	if err != nil {
		r.logger.Error("[RETRIEVER] index query failed", "error", err)
		return nil
	}

	places := make([]types.Place, 0, len(hits))
	for _, hit := range hits {
		places = append(places, resolvePlace(hit))
	}
	return places
}

// resolvePlace maps the sparse, category-dependent metadata bag onto fixed
// display fields. Event records use a different key set, hence the
// fallback keys.
func resolvePlace(hit types.SearchHit) types.Place {
	meta := hit.Metadata
	return types.Place{
		Name:        lookup(meta, NoName, "이름", "title"),
		Category:    lookup(meta, NoCategory, "category"),
		Address:     lookup(meta, NoAddress, "주소", "roadaddress"),
		Phone:       lookup(meta, NoPhone, "전화번호"),
		Tags:        lookup(meta, NoTags, "태그", "alltag"),
		Description: lookup(meta, NoDescription, "소개", "introduction"),
		Distance:    hit.Distance,
	}
}

func lookup(meta map[string]string, fallback string, keys ...string) string {
	for _, key := range keys {
		if v, ok := meta[key]; ok && v != "" {
			return v
		}
	}
	return fallback
}
