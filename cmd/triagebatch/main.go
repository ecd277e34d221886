package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jakops88-hub/Nordicsecure/internal/common"
	"github.com/jakops88-hub/Nordicsecure/internal/extract"
	"github.com/jakops88-hub/Nordicsecure/internal/llm"
	"github.com/jakops88-hub/Nordicsecure/internal/ocr"
	"github.com/jakops88-hub/Nordicsecure/internal/pipeline"
	"github.com/jakops88-hub/Nordicsecure/internal/rename"
	"github.com/jakops88-hub/Nordicsecure/internal/triage"
)

func main() {
	// Logger
	zlog, _ := zap.NewProduction()
	defer func() { _ = zlog.Sync() }()
	log := zlog.Sugar()

	slogger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(slogger)

	var (
		src        = flag.String("src", "", "source folder with PDFs (required)")
		relevant   = flag.String("relevant", "", "target folder for relevant files")
		irrelevant = flag.String("irrelevant", "", "target folder for irrelevant files")
		criteria   = flag.String("criteria", "", "classification criteria (required for triage)")
		maxPages   = flag.Int("max-pages", 5, "pages to read per file")
		strategy   = flag.String("strategy", "linear", "page sampling strategy: linear or random")
		auditOut   = flag.String("audit-out", "", "write the audit log as XLSX to this path")
		doRename   = flag.Bool("rename", false, "rename files from content instead of triaging")
	)
	flag.Parse()

	if *src == "" {
		log.Fatal("--src is required")
	}
	if !*doRename && *criteria == "" {
		log.Fatal("--criteria is required")
	}
	if *relevant == "" {
		*relevant = filepath.Join(*src, "relevant")
	}
	if *irrelevant == "" {
		*irrelevant = filepath.Join(*src, "irrelevant")
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	backend := ocr.NewTesseractBackend(ocr.Config{
		Pdftoppm:  cfg.OCR.Pdftoppm,
		Tesseract: cfg.OCR.Tesseract,
		Language:  cfg.OCR.Language,
		DPI:       cfg.OCR.DPI,
	}, slogger)
	p := pipeline.New(extract.NewPDFAcquirer(backend, slogger), slogger)

	client := llm.NewClient(llm.Config{
		BaseURL:    cfg.LLM.OllamaURL,
		Model:      cfg.LLM.Model,
		Timeout:    cfg.LLM.Timeout,
		MaxRetries: uint64(cfg.LLM.MaxRetries),
	}, slogger)

	if *doRename {
		svc := rename.NewService(p, client, slogger)
		stats, err := svc.RenameBatch(ctx, *src, *maxPages)
		if err != nil {
			log.Fatalf("rename batch: %v", err)
		}
		log.Infow("rename batch done",
			"total", stats.TotalFiles,
			"renamed", stats.Renamed,
			"failed", stats.Failed,
		)
		return
	}

	svc := triage.NewService(p, client, slogger)
	stats, err := svc.Run(ctx, triage.Options{
		SourceDir:     *src,
		RelevantDir:   *relevant,
		IrrelevantDir: *irrelevant,
		Criteria:      *criteria,
		MaxPages:      *maxPages,
		Strategy:      *strategy,
		Workers:       cfg.Triage.Workers,
		RatePerSec:    cfg.Triage.RatePerSec,
	})
	if err != nil {
		log.Fatalf("triage batch: %v", err)
	}
	log.Infow("triage batch done",
		"total", stats.TotalFiles,
		"relevant", stats.Relevant,
		"irrelevant", stats.Irrelevant,
		"errors", stats.Errors,
	)

	if *auditOut != "" {
		data, err := triage.ExportAuditXLSX(svc.AuditLog())
		if err != nil {
			log.Fatalf("export audit log: %v", err)
		}
		if err := os.WriteFile(*auditOut, data, 0o644); err != nil {
			log.Fatalf("write audit log: %v", err)
		}
		log.Infof("audit log written to %s", *auditOut)
	}
}
