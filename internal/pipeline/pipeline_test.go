package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakops88-hub/Nordicsecure/constants"
	"github.com/jakops88-hub/Nordicsecure/internal/common"
	"github.com/jakops88-hub/Nordicsecure/internal/extract"
)

// stubAcquirer serves canned pages so the pipeline can be exercised without
// real PDF bytes.
type stubAcquirer struct {
	pages   []extract.Page
	total   int
	usedOCR bool
	err     error
}

func (s *stubAcquirer) PageCount([]byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.total, nil
}

func (s *stubAcquirer) Acquire(_ context.Context, _ []byte, indices []int) (extract.Acquisition, error) {
	if s.err != nil {
		return extract.Acquisition{}, s.err
	}
	var pages []extract.Page
	for _, idx := range indices {
		if idx < len(s.pages) {
			pages = append(pages, s.pages[idx])
		}
	}
	return extract.Acquisition{Pages: pages, TotalPages: s.total, UsedOCR: s.usedOCR}, nil
}

func TestParseInvoice(t *testing.T) {
	t.Parallel()

	acq := &stubAcquirer{
		total: 2,
		pages: []extract.Page{
			{PageNumber: 1, Text: "Acme Supplies AB\nSupplier: Acme Supplies AB\nInvoice No: INV-2024-001\nInvoice Date: 2024-03-15\nTotal: 10000.00 SEK"},
			{PageNumber: 2, Text: "Item | Qty | Price\nWidget | 2 | 5000.00\nThank you for your business"},
		},
	}
	p := New(acq, nil)

	result, err := p.Parse(context.Background(), []byte("%PDF"), "invoice.pdf", Options{})
	require.NoError(t, err)

	assert.Equal(t, "invoice.pdf", result.Metadata.FileName)
	assert.Equal(t, 2, result.Metadata.PagesCount)
	assert.Equal(t, "en", result.Metadata.DetectedLanguage)
	assert.False(t, result.UsedOCR)
	assert.Len(t, result.Pages, 2)
	assert.True(t, strings.HasPrefix(result.RawText, "Acme Supplies AB"))

	require.NotNil(t, result.KeyValues[constants.FieldInvoiceNumber])
	assert.Equal(t, "INV-2024-001", *result.KeyValues[constants.FieldInvoiceNumber])
	require.NotNil(t, result.KeyValues[constants.FieldTotalAmount])
	assert.Equal(t, "10000.00", *result.KeyValues[constants.FieldTotalAmount])
	require.NotNil(t, result.KeyValues[constants.FieldCurrency])
	assert.Equal(t, "SEK", *result.KeyValues[constants.FieldCurrency])

	require.Len(t, result.Tables, 1)
	assert.Equal(t, 2, result.Tables[0].PageNumber)
	assert.Equal(t, [][]string{
		{"Item", "Qty", "Price"},
		{"Widget", "2", "5000.00"},
	}, result.Tables[0].Rows)

	// Same key set on both maps.
	for _, key := range constants.FieldKeys {
		_, ok := result.KeyValues[key]
		assert.True(t, ok, "key_values missing %q", key)
		_, ok = result.KeyValuesConfidence[key]
		assert.True(t, ok, "confidence missing %q", key)
	}
}

func TestParseSamplingLimitsPages(t *testing.T) {
	t.Parallel()

	acq := &stubAcquirer{
		total: 10,
		pages: func() []extract.Page {
			var pages []extract.Page
			for i := 1; i <= 10; i++ {
				pages = append(pages, extract.Page{PageNumber: i, Text: strings.Repeat("invoice amount text here ", 10)})
			}
			return pages
		}(),
	}
	p := New(acq, nil)

	result, err := p.Parse(context.Background(), []byte("%PDF"), "big.pdf", Options{MaxPages: 3, Strategy: constants.StrategyRandom})
	require.NoError(t, err)

	// Spread sampling reads start, middle, end; the metadata still reports
	// the real document size.
	assert.Len(t, result.Pages, 3)
	assert.Equal(t, []int{1, 5, 10}, []int{result.Pages[0].PageNumber, result.Pages[1].PageNumber, result.Pages[2].PageNumber})
	assert.Equal(t, 10, result.Metadata.PagesCount)
}

func TestParseReportsOCRUse(t *testing.T) {
	t.Parallel()

	acq := &stubAcquirer{
		total:   1,
		usedOCR: true,
		pages: []extract.Page{
			{PageNumber: 1, Text: "Faktura 42\nTotalt belopp: 1 234,56 kr\nMoms: 246,91"},
		},
	}
	p := New(acq, nil)

	result, err := p.Parse(context.Background(), []byte("%PDF"), "scan.pdf", Options{})
	require.NoError(t, err)
	assert.True(t, result.UsedOCR)
	assert.Equal(t, "sv", result.Metadata.DetectedLanguage)
}

func TestParseFailures(t *testing.T) {
	t.Parallel()

	t.Run("whitespace-only text", func(t *testing.T) {
		t.Parallel()
		acq := &stubAcquirer{
			total: 1,
			pages: []extract.Page{{PageNumber: 1, Text: "   \n  "}},
		}
		p := New(acq, nil)

		_, err := p.Parse(context.Background(), []byte("%PDF"), "blank.pdf", Options{})
		assert.ErrorIs(t, err, common.ErrNoExtractableText)
	})

	t.Run("acquirer failure propagates", func(t *testing.T) {
		t.Parallel()
		acq := &stubAcquirer{err: common.ErrDocumentEncrypted}
		p := New(acq, nil)

		_, err := p.Parse(context.Background(), []byte("%PDF"), "locked.pdf", Options{})
		assert.ErrorIs(t, err, common.ErrDocumentEncrypted)
	})
}
