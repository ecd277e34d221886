// Package search answers similarity queries against the vector index and
// decorates each hit with a source citation: the page it came from and the
// best matching line inside the chunk.
package search

import (
	"context"
	"log/slog"
	"time"

	"github.com/jakops88-hub/Nordicsecure/internal/cite"
	"github.com/jakops88-hub/Nordicsecure/internal/common"
	"github.com/jakops88-hub/Nordicsecure/internal/store"
)

// Result is one scored hit. Page is 0 when the chunk carries no page number
// (single-chunk documents).
type Result struct {
	ID          string         `json:"id"`
	Text        string         `json:"document"`
	Metadata    map[string]any `json:"metadata"`
	Distance    float64        `json:"distance"`
	Page        int            `json:"page,omitempty"`
	Row         int            `json:"row"`
	MatchedLine string         `json:"matched_line"`
}

type Service struct {
	store    store.VectorStore
	embedder store.EmbeddingBackend
	logger   *slog.Logger
}

func NewService(st store.VectorStore, embedder store.EmbeddingBackend, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, embedder: embedder, logger: logger}
}

// Search embeds the query, retrieves the nearest chunks, and locates the
// best matching line in each so callers can cite page and row.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	start := time.Now()

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, common.WrapError(err, "embed query")
	}
	hits, err := s.store.Query(ctx, embedding, limit)
	if err != nil {
		return nil, common.WrapError(err, "query index")
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		match := cite.Locate(hit.Text, query)
		results = append(results, Result{
			ID:          hit.ID,
			Text:        hit.Text,
			Metadata:    hit.Metadata,
			Distance:    hit.Distance,
			Page:        metadataPage(hit.Metadata),
			Row:         match.LineNumber,
			MatchedLine: match.LineText,
		})
	}

	s.logger.Info("search.ok",
		"query_chars", len(query),
		"hits", len(results),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return results, nil
}

// metadataPage tolerates both int and float64 encodings; JSON round-trips
// through the stores turn numbers into float64.
func metadataPage(meta map[string]any) int {
	switch v := meta["page_number"].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
