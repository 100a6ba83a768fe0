package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"jejubot/loader/normalize"
	"jejubot/store"
	"jejubot/types"
)

// PassageEmbedder is the slice of the embedding client the pipeline needs.
type PassageEmbedder interface {
	EmbedPassages(ctx context.Context, texts []string) ([][]float32, error)
}

type Config struct {
	DataDir    string
	Collection string
	Dim        int
	BatchSize  int
}

// Service drives the full drop-and-rebuild ingestion run: reset the
// collection, then load, normalize, embed and upsert every category source.
type Service struct {
	logger   *slog.Logger
	store    store.VectorStorer
	embedder PassageEmbedder
	cfg      Config
}

// source binds one dataset file to its category label. Ingestion order is
// fixed so document ids stay stable across rebuilds.
type source struct {
	file     string
	category string
}

var sources = []source{
	{"visitjeju_food.json", types.CategoryFood},
	{"visitjeju_hotel.json", types.CategoryHotel},
	{"visitjeju_tour.json", types.CategoryTour},
	{"visitjeju_event.json", types.CategoryEvent},
}

func New(storer store.VectorStorer, embedder PassageEmbedder, cfg Config) *Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.Dim <= 0 {
		cfg.Dim = 4096
	}
	return &Service{
		logger:   slog.Default(),
		store:    storer,
		embedder: embedder,
		cfg:      cfg,
	}
}

// Run rebuilds the collection from scratch. Per-record and per-batch
// failures are logged and skipped; only setup failures abort the run.
func (s *Service) Run(ctx context.Context) (*types.IngestReport, error) {
	start := time.Now()

	if err := s.store.ResetCollection(ctx, s.cfg.Collection, s.cfg.Dim); err != nil {
		return nil, fmt.Errorf("collection reset failed: %w", err)
	}

	report := &types.IngestReport{}
	for _, src := range sources {
		path := filepath.Join(s.cfg.DataDir, src.file)
		rows, err := loadRows(path)
		if err != nil {
			if os.IsNotExist(err) {
				s.logger.Warn("[LOADER] source file missing, skipping", "file", path)
			} else {
				s.logger.Error("[LOADER] failed to load source, skipping", "file", path, "error", err)
			}
			continue
		}
		s.logger.Info("[LOADER] source loaded", "file", path, "records", len(rows))

		docs, skipped := s.normalizeRows(src.category, rows)
		report.Skipped += skipped
		report.Processed += s.upsertAll(ctx, docs, &report.FailedBatches)
	}

	report.Elapsed = time.Since(start)
	s.logger.Info("[LOADER] ingestion complete",
		"processed", report.Processed,
		"skipped", report.Skipped,
		"failed_batches", report.FailedBatches,
		"elapsed", report.Elapsed,
	)
	return report, nil
}

// normalizeRows turns source rows into documents without embeddings.
// A malformed row never aborts the rest of its file.
func (s *Service) normalizeRows(category string, rows []json.RawMessage) ([]types.IndexedDocument, int) {
	docs := make([]types.IndexedDocument, 0, len(rows))
	skipped := 0
	for i, raw := range rows {
		row, err := decodeRow(raw)
		if err != nil {
			s.logger.Error("[LOADER] skipping malformed record", "category", category, "row", i, "error", err)
			skipped++
			continue
		}
		document, metadata := normalize.Record(category, row)
		docs = append(docs, types.IndexedDocument{
			ID:       fmt.Sprintf("%s_%d", category, i),
			Document: document,
			Metadata: metadata,
		})
	}
	return docs, skipped
}

// upsertAll embeds and writes documents in bounded batches. Embeddings are
// computed per batch, one embedding-service round trip each, from the
// document text of that same batch.
func (s *Service) upsertAll(ctx context.Context, docs []types.IndexedDocument, failedBatches *int) int {
	stored := 0
	for batchStart := 0; batchStart < len(docs); batchStart += s.cfg.BatchSize {
		batchEnd := min(batchStart+s.cfg.BatchSize, len(docs))
		batch := docs[batchStart:batchEnd]

		texts := make([]string, len(batch))
		for i := range batch {
			texts[i] = batch[i].Document
		}

		embeddings, err := s.embedder.EmbedPassages(ctx, texts)
		if err != nil {
			s.logger.Error("[LOADER] batch embedding failed, skipping batch",
				"from", batchStart, "to", batchEnd, "error", err)
			*failedBatches++
			continue
		}
		for i := range batch {
			batch[i].Embedding = embeddings[i]
		}

		if err := s.store.UpsertBatch(ctx, s.cfg.Collection, batch); err != nil {
			s.logger.Error("[LOADER] batch upsert failed, skipping batch",
				"from", batchStart, "to", batchEnd, "error", err)
			*failedBatches++
			continue
		}
		stored += len(batch)
	}
	return stored
}

// loadRows reads one source file as a list of raw JSON rows. Rows are kept
// raw here so that one bad row cannot poison the whole file.
func loadRows(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("not a JSON array: %w", err)
	}
	return rows, nil
}

func decodeRow(raw json.RawMessage) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var row map[string]any
	if err := dec.Decode(&row); err != nil {
		return nil, err
	}
	return row, nil
}
