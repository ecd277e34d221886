// Package store holds the vector-storage and embedding collaborators the
// extraction core talks to. The index internals live behind these narrow
// interfaces; the core only ever hands over pre-chunked text plus embeddings
// and reads back nearest-neighbor hits.
package store

import "context"

// Chunk is one embeddable unit of a document, usually a single page.
type Chunk struct {
	ID        string
	Text      string
	Embedding []float32
	Metadata  map[string]any
}

// Hit is one nearest-neighbor result. Lower distance is better.
type Hit struct {
	ID       string
	Text     string
	Metadata map[string]any
	Distance float64
}

// VectorStore persists chunks and answers nearest-neighbor queries.
type VectorStore interface {
	Add(ctx context.Context, chunks []Chunk) error
	Query(ctx context.Context, embedding []float32, limit int) ([]Hit, error)
	Close() error
}

// EmbeddingBackend maps text to a fixed-length vector. It is a black box;
// the core never inspects vector contents beyond their length.
type EmbeddingBackend interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
