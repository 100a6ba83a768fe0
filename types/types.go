package types

import "time"

// Category labels match the source datasets and are stored verbatim
// in document ids and metadata.
const (
	CategoryFood  = "음식"
	CategoryHotel = "숙소"
	CategoryTour  = "관광지"
	CategoryEvent = "행사"
)

// Categories in fixed ingestion order.
var Categories = []string{CategoryFood, CategoryHotel, CategoryTour, CategoryEvent}

// IndexedDocument is the unit stored in the vector index.
type IndexedDocument struct {
	ID        string            // {category}_{source row index}, stable across rebuilds
	Document  string            // normalized text the embedding was produced from
	Metadata  map[string]string // original fields (null coerced to "") plus "category"
	Embedding []float32
}

// SearchHit is one raw nearest-neighbor row from the vector index,
// ordered by ascending distance (smaller = more similar).
type SearchHit struct {
	ID       string
	Document string
	Metadata map[string]string
	Distance float64
}

// Place is one retrieval result with display fields already resolved
// through the per-category fallback keys.
type Place struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Address     string  `json:"address"`
	Phone       string  `json:"phone"`
	Tags        string  `json:"tags"`
	Description string  `json:"description"`
	Distance    float64 `json:"distance"`
}

// Turn is one completed user/assistant exchange.
type Turn struct {
	User      string
	Assistant string
}

// Message is a role-tagged chat message sent to the language model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatResponse struct {
	SessionID string    `json:"session_id"`
	Answer    string    `json:"answer"`
	Places    []Place   `json:"places"`
	Timestamp time.Time `json:"timestamp"`
}

type PromptResponse struct {
	Prompt string `json:"prompt"`
}

// IngestReport summarizes one full ingestion run.
type IngestReport struct {
	Processed     int // records written to the index
	Skipped       int // malformed records skipped
	FailedBatches int // batches lost to embedding or upsert failures
	Elapsed       time.Duration
}
