package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jakops88-hub/Nordicsecure/internal/common"
	"github.com/jakops88-hub/Nordicsecure/internal/extract"
	"github.com/jakops88-hub/Nordicsecure/internal/ingest"
	"github.com/jakops88-hub/Nordicsecure/internal/ocr"
	"github.com/jakops88-hub/Nordicsecure/internal/pipeline"
	"github.com/jakops88-hub/Nordicsecure/internal/search"
	"github.com/jakops88-hub/Nordicsecure/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		file     = flag.String("file", "", "PDF file to parse (required)")
		maxPages = flag.Int("max-pages", 0, "max pages to extract (0 = all)")
		strategy = flag.String("strategy", "linear", "page sampling strategy: linear or random")
		noOCR    = flag.Bool("no-ocr", false, "disable the OCR fallback for scanned documents")
		doStore  = flag.Bool("store", false, "also embed and store the document in the local index")
		query    = flag.String("query", "", "after storing, run a similarity search for this text")
		limit    = flag.Int("limit", 5, "max search results")
	)
	flag.Parse()

	if *file == "" {
		logger.Error("usage", "cmd", "parsepdf -file <path.pdf> [-max-pages N] [-strategy linear|random] [-store] [-query text]")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	pdfBytes, err := os.ReadFile(*file)
	if err != nil {
		logger.Error("read file", "file", *file, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var backend ocr.Backend = ocr.Disabled{}
	if !*noOCR {
		backend = ocr.NewTesseractBackend(ocr.Config{
			Pdftoppm:  cfg.OCR.Pdftoppm,
			Tesseract: cfg.OCR.Tesseract,
			Language:  cfg.OCR.Language,
			DPI:       cfg.OCR.DPI,
		}, logger)
	}
	acquirer := extract.NewPDFAcquirer(backend, logger)
	p := pipeline.New(acquirer, logger)

	opts := pipeline.Options{MaxPages: *maxPages, Strategy: *strategy}
	filename := filepath.Base(*file)

	start := time.Now()
	var result *extract.Result
	if *doStore {
		st, err := store.OpenSQLite(ctx, cfg.Store.SQLitePath, logger)
		if err != nil {
			logger.Error("open store", "error", err)
			os.Exit(1)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logger.Error("close store", "error", cerr)
			}
		}()
		embedder := store.NewOllamaEmbedder(cfg.Embed.OllamaURL, cfg.Embed.Model, cfg.Embed.Timeout, logger)

		svc := ingest.NewService(p, st, embedder, logger)
		res, summary, err := svc.IngestDocument(ctx, pdfBytes, filename, opts)
		if err != nil {
			logger.Error("ingest failed", "file", filename, "error", err)
			os.Exit(1)
		}
		result = res
		logger.Info("document stored",
			"document_id", summary.DocumentID,
			"chunks", summary.ChunksStored,
			"dim", summary.EmbeddingDim,
		)

		if *query != "" {
			searcher := search.NewService(st, embedder, logger)
			hits, err := searcher.Search(ctx, *query, *limit)
			if err != nil {
				logger.Error("search failed", "error", err)
				os.Exit(1)
			}
			printJSON(hits)
			return
		}
	} else {
		result, err = p.Parse(ctx, pdfBytes, filename, opts)
		if err != nil {
			logger.Error("parse failed", "file", filename, "error", err)
			os.Exit(1)
		}
	}

	logger.Info("parse OK",
		"file", filename,
		"pages", result.Metadata.PagesCount,
		"language", result.Metadata.DetectedLanguage,
		"used_ocr", result.UsedOCR,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	printJSON(result)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "encode output: %v\n", err)
		os.Exit(1)
	}
}
