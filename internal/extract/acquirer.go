package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/jakops88-hub/Nordicsecure/internal/common"
	"github.com/jakops88-hub/Nordicsecure/internal/ocr"
)

// minTextForDigitalExtraction is the shortest trimmed concatenation,
// counted in runes, the digital path may produce before the document is
// judged scanned.
const minTextForDigitalExtraction = 100

// Acquisition is what the text acquirer hands to the pipeline.
type Acquisition struct {
	Pages      []Page
	TotalPages int
	UsedOCR    bool
}

// TextAcquirer turns PDF bytes into per-page text, deciding between digital
// extraction and OCR fallback.
type TextAcquirer interface {
	PageCount(pdfBytes []byte) (int, error)
	Acquire(ctx context.Context, pdfBytes []byte, pageIndices []int) (Acquisition, error)
}

// PDFAcquirer extracts digital text and falls back to an OCR backend when
// the result looks like a scanned document.
type PDFAcquirer struct {
	ocr    ocr.Backend
	logger *slog.Logger
}

func NewPDFAcquirer(backend ocr.Backend, logger *slog.Logger) *PDFAcquirer {
	if backend == nil {
		backend = ocr.Disabled{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFAcquirer{ocr: backend, logger: logger}
}

// PageCount opens the document and returns its total page count, surfacing
// the same failure taxonomy as Acquire.
func (a *PDFAcquirer) PageCount(pdfBytes []byte) (int, error) {
	r, err := openReader(pdfBytes)
	if err != nil {
		return 0, err
	}
	n := r.NumPage()
	if n == 0 {
		return 0, common.ErrDocumentEmpty
	}
	return n, nil
}

// Acquire extracts text for the selected 0-based page indices. Per-page
// digital extraction failures degrade to empty text for that page only. The
// scanned-document heuristic runs on the whole concatenation; when it fires,
// OCR output replaces the digital pages entirely.
func (a *PDFAcquirer) Acquire(ctx context.Context, pdfBytes []byte, pageIndices []int) (Acquisition, error) {
	r, err := openReader(pdfBytes)
	if err != nil {
		return Acquisition{}, err
	}

	total := r.NumPage()
	if total == 0 {
		return Acquisition{}, common.ErrDocumentEmpty
	}

	pages := make([]Page, 0, len(pageIndices))
	for _, idx := range pageIndices {
		if err := ctx.Err(); err != nil {
			return Acquisition{}, err
		}
		if idx < 0 || idx >= total {
			continue
		}
		text := a.extractPageText(r, idx)
		pages = append(pages, Page{PageNumber: idx + 1, Text: text})
	}

	joined := joinPages(pages)
	if !likelyScanned(joined) {
		return Acquisition{Pages: pages, TotalPages: total}, nil
	}

	a.logger.Info("acquire.ocr_fallback", "pages", len(pageIndices), "digital_chars", utf8.RuneCountInString(joined))
	if !a.ocr.Available() {
		return Acquisition{}, common.ErrOCRUnavailable
	}

	texts, err := a.ocr.Recognize(ctx, pdfBytes, pageIndices)
	if err != nil {
		return Acquisition{}, fmt.Errorf("ocr fallback: %w", err)
	}
	ocrPages := make([]Page, 0, len(texts))
	for i, txt := range texts {
		if i >= len(pageIndices) {
			break
		}
		ocrPages = append(ocrPages, Page{PageNumber: pageIndices[i] + 1, Text: txt})
	}
	return Acquisition{Pages: ocrPages, TotalPages: total, UsedOCR: true}, nil
}

func (a *PDFAcquirer) extractPageText(r *pdf.Reader, idx int) string {
	defer func() {
		if rec := recover(); rec != nil {
			a.logger.Warn("acquire.page.panic", "page", idx+1, "panic", rec)
		}
	}()

	p := r.Page(idx + 1)
	if p.V.IsNull() {
		a.logger.Warn("acquire.page.missing", "page", idx+1)
		return ""
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		// Tolerated: the page is recorded with empty text and the
		// document keeps going.
		a.logger.Warn("acquire.page.failed", "page", idx+1, "error", err)
		return ""
	}
	return text
}

// openReader classifies open failures into the document error taxonomy.
// Some malformed files make the underlying parser panic, so that is caught
// and reported as an invalid document too.
func openReader(pdfBytes []byte) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r = nil
			err = fmt.Errorf("%w: %v", common.ErrDocumentInvalid, rec)
		}
	}()

	r, err = pdf.NewReaderEncrypted(bytes.NewReader(pdfBytes), int64(len(pdfBytes)), func() string { return "" })
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return nil, common.ErrDocumentEncrypted
		}
		return nil, fmt.Errorf("%w: %v", common.ErrDocumentInvalid, err)
	}
	return r, nil
}

func joinPages(pages []Page) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		parts = append(parts, p.Text)
	}
	return strings.Join(parts, "\n")
}

// likelyScanned reports whether digital extraction probably hit a scanned
// document: almost no text, or mostly non-alphabetic noise. It looks at the
// whole concatenation, not per page, so a few text-bearing pages among many
// blank scanned ones can mask the need for OCR.
func likelyScanned(text string) bool {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minTextForDigitalExtraction {
		return true
	}
	var alpha, total int
	for _, r := range text {
		total++
		if unicode.IsLetter(r) {
			alpha++
		}
	}
	return alpha*2 < total
}
