// Package ingest runs the parse pipeline over an uploaded PDF and stores the
// outcome in the vector index, one chunk per page so search results can cite
// a page and line.
package ingest

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jakops88-hub/Nordicsecure/constants"
	"github.com/jakops88-hub/Nordicsecure/internal/common"
	"github.com/jakops88-hub/Nordicsecure/internal/extract"
	"github.com/jakops88-hub/Nordicsecure/internal/pipeline"
	"github.com/jakops88-hub/Nordicsecure/internal/store"
)

// Summary reports what one ingest call wrote to the index.
type Summary struct {
	DocumentID   string    `json:"document_id"`
	ChunksStored int       `json:"chunks_stored"`
	EmbeddingDim int       `json:"embedding_dim"`
	StoredAt     time.Time `json:"stored_at"`
}

type Service struct {
	pipeline *pipeline.Pipeline
	store    store.VectorStore
	embedder store.EmbeddingBackend
	logger   *slog.Logger
}

func NewService(p *pipeline.Pipeline, st store.VectorStore, embedder store.EmbeddingBackend, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{pipeline: p, store: st, embedder: embedder, logger: logger}
}

// IngestDocument parses pdfBytes and stores one chunk per sampled page.
// Empty pages are kept under a placeholder so page numbering in the index
// stays aligned with the document. When parsing yields no pages at all the
// whole raw text goes in as a single chunk.
func (s *Service) IngestDocument(ctx context.Context, pdfBytes []byte, filename string, opts pipeline.Options) (*extract.Result, Summary, error) {
	result, err := s.pipeline.Parse(ctx, pdfBytes, filename, opts)
	if err != nil {
		return nil, Summary{}, err
	}

	storedAt := time.Now().UTC()
	baseID := "doc_" + storedAt.Format("20060102150405")

	keyValuesJSON, err := json.Marshal(result.KeyValues)
	if err != nil {
		return nil, Summary{}, common.WrapError(err, "encode key values")
	}
	baseMeta := map[string]any{
		"filename":          filename,
		"pages_count":       result.Metadata.PagesCount,
		"detected_language": result.Metadata.DetectedLanguage,
		"key_values":        string(keyValuesJSON),
		"stored_at":         storedAt.Format(time.RFC3339),
	}

	var chunks []store.Chunk
	if len(result.Pages) > 0 {
		for _, page := range result.Pages {
			text := page.Text
			if strings.TrimSpace(text) == "" {
				text = fmt.Sprintf(constants.EmptyPagePlaceholder, page.PageNumber)
				s.logger.Debug("ingest.empty_page", "page", page.PageNumber)
			}
			meta := make(map[string]any, len(baseMeta)+2)
			for k, v := range baseMeta {
				meta[k] = v
			}
			meta["page_number"] = page.PageNumber
			meta["total_pages"] = len(result.Pages)

			embedding, err := s.embedder.Embed(ctx, text)
			if err != nil {
				return nil, Summary{}, common.WrapError(err, fmt.Sprintf("embed page %d", page.PageNumber))
			}
			chunks = append(chunks, store.Chunk{
				ID:        fmt.Sprintf("%s_page%d_%s", baseID, page.PageNumber, shortHash(text)),
				Text:      text,
				Embedding: embedding,
				Metadata:  meta,
			})
		}
	} else {
		embedding, err := s.embedder.Embed(ctx, result.RawText)
		if err != nil {
			return nil, Summary{}, common.WrapError(err, "embed document")
		}
		chunks = append(chunks, store.Chunk{
			ID:        baseID + "_" + shortHash(result.RawText),
			Text:      result.RawText,
			Embedding: embedding,
			Metadata:  baseMeta,
		})
	}

	if err := s.store.Add(ctx, chunks); err != nil {
		return nil, Summary{}, common.WrapError(err, "store chunks")
	}

	summary := Summary{
		DocumentID:   baseID,
		ChunksStored: len(chunks),
		EmbeddingDim: len(chunks[0].Embedding),
		StoredAt:     storedAt,
	}
	s.logger.Info("ingest.ok",
		"filename", filename,
		"document_id", summary.DocumentID,
		"chunks", summary.ChunksStored,
		"dim", summary.EmbeddingDim,
	)
	return result, summary, nil
}

// shortHash is a stable 8-hex-char content fingerprint used in chunk IDs.
func shortHash(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])[:8]
}
