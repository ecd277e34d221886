// Package pipeline orchestrates page sampling, text acquisition, table
// detection, and field extraction into one parse call.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jakops88-hub/Nordicsecure/internal/common"
	"github.com/jakops88-hub/Nordicsecure/internal/extract"
	"github.com/jakops88-hub/Nordicsecure/internal/fields"
	"github.com/jakops88-hub/Nordicsecure/internal/tables"
)

// Options control page sampling for one parse call. MaxPages <= 0 reads the
// whole document; an unrecognized strategy behaves as linear.
type Options struct {
	MaxPages int
	Strategy string
}

// Pipeline is the sole entry point external collaborators use for
// extraction. It holds no per-document state, so separate Parse calls may
// run in parallel freely.
type Pipeline struct {
	acquirer extract.TextAcquirer
	logger   *slog.Logger
}

func New(acquirer extract.TextAcquirer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{acquirer: acquirer, logger: logger}
}

// Parse extracts text, tables, and invoice fields from PDF bytes. Document
// failures (invalid, encrypted, empty, ocr unavailable, no extractable text)
// abort the whole call; per-page extraction failures degrade to empty page
// text. No partial result is returned on error.
func (p *Pipeline) Parse(ctx context.Context, pdfBytes []byte, filename string, opts Options) (*extract.Result, error) {
	start := time.Now()

	total, err := p.acquirer.PageCount(pdfBytes)
	if err != nil {
		p.logger.Error("pipeline.parse.open_failed", "file", filename, "error", err)
		return nil, err
	}

	indices := extract.SelectPages(total, opts.MaxPages, opts.Strategy)
	acq, err := p.acquirer.Acquire(ctx, pdfBytes, indices)
	if err != nil {
		p.logger.Error("pipeline.parse.acquire_failed", "file", filename, "error", err)
		return nil, err
	}

	rawText := strings.TrimSpace(joinPageText(acq.Pages))
	if rawText == "" {
		p.logger.Error("pipeline.parse.no_text", "file", filename, "used_ocr", acq.UsedOCR)
		return nil, common.ErrNoExtractableText
	}

	// Table detection and field extraction read the same immutable pages
	// and text, so the two branches run concurrently.
	var (
		detectedTables []extract.Table
		keyValues      map[string]*string
		confidences    map[string]float64
		language       string
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		detectedTables = tables.Detect(acq.Pages)
		return nil
	})
	g.Go(func() error {
		keyValues, confidences, language = fields.Extract(rawText)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &extract.Result{
		RawText: rawText,
		Pages:   acq.Pages,
		Tables:  detectedTables,
		Metadata: extract.Metadata{
			FileName:         filename,
			PagesCount:       acq.TotalPages,
			DetectedLanguage: language,
		},
		KeyValues:           keyValues,
		KeyValuesConfidence: confidences,
		UsedOCR:             acq.UsedOCR,
	}

	p.logger.Info("pipeline.parse.ok",
		"file", filename,
		"pages_total", acq.TotalPages,
		"pages_read", len(acq.Pages),
		"tables", len(detectedTables),
		"language", language,
		"used_ocr", acq.UsedOCR,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func joinPageText(pages []extract.Page) string {
	parts := make([]string, 0, len(pages))
	for _, page := range pages {
		parts = append(parts, page.Text)
	}
	return strings.Join(parts, "\n")
}
