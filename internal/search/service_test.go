package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakops88-hub/Nordicsecure/internal/store"
)

type fakeStore struct {
	hits      []store.Hit
	lastLimit int
}

func (f *fakeStore) Add(context.Context, []store.Chunk) error { return nil }

func (f *fakeStore) Query(_ context.Context, _ []float32, limit int) ([]store.Hit, error) {
	f.lastLimit = limit
	return f.hits, nil
}

func (f *fakeStore) Close() error { return nil }

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(context.Context, string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func TestSearchEnrichesHits(t *testing.T) {
	t.Parallel()

	st := &fakeStore{hits: []store.Hit{
		{
			ID:       "doc_1_page3_abc",
			Text:     "Header\nTotal amount due today\nFooter",
			Metadata: map[string]any{"page_number": float64(3), "filename": "inv.pdf"},
			Distance: 0.12,
		},
		{
			ID:       "doc_1_xyz",
			Text:     "single chunk without page info",
			Metadata: map[string]any{"filename": "other.pdf"},
			Distance: 0.5,
		},
	}}
	svc := NewService(st, fakeEmbedder{}, nil)

	results, err := svc.Search(context.Background(), "amount due", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 2, st.lastLimit)

	first := results[0]
	assert.Equal(t, "doc_1_page3_abc", first.ID)
	assert.Equal(t, 3, first.Page)
	assert.Equal(t, 2, first.Row)
	assert.Equal(t, "Total amount due today", first.MatchedLine)
	assert.InDelta(t, 0.12, first.Distance, 1e-9)

	second := results[1]
	assert.Zero(t, second.Page, "chunks without page metadata cite no page")
	assert.Equal(t, 1, second.Row)
	assert.Equal(t, "single chunk without page info", second.MatchedLine)
}

func TestSearchNoHits(t *testing.T) {
	t.Parallel()

	svc := NewService(&fakeStore{}, fakeEmbedder{}, nil)
	results, err := svc.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}
