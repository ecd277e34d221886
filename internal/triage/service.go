// Package triage sorts a folder of PDFs into relevant/irrelevant directories
// by classifying an excerpt of each file against user criteria.
package triage

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/jakops88-hub/Nordicsecure/constants"
	"github.com/jakops88-hub/Nordicsecure/internal/llm"
	"github.com/jakops88-hub/Nordicsecure/internal/pipeline"
)

// Record is one audit-log entry. Every processed file produces exactly one,
// including failures.
type Record struct {
	Filename  string                   `json:"filename"`
	Timestamp time.Time                `json:"timestamp"`
	Decision  constants.TriageDecision `json:"decision"`
	Reason    string                   `json:"reason"`
	MovedTo   string                   `json:"moved_to"`
	Err       string                   `json:"error,omitempty"`
}

// Stats aggregates one batch run.
type Stats struct {
	TotalFiles int `json:"total_files"`
	Processed  int `json:"processed"`
	Relevant   int `json:"relevant"`
	Irrelevant int `json:"irrelevant"`
	Errors     int `json:"errors"`
}

// Options configures one batch run.
type Options struct {
	SourceDir     string
	RelevantDir   string
	IrrelevantDir string
	Criteria      string
	MaxPages      int
	Strategy      string
	Workers       int
	RatePerSec    float64
}

type Service struct {
	pipeline *pipeline.Pipeline
	client   *llm.Client
	logger   *slog.Logger

	mu    sync.Mutex
	audit []Record
}

func NewService(p *pipeline.Pipeline, client *llm.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{pipeline: p, client: client, logger: logger}
}

// AuditLog returns a copy of the audit trail from the most recent batch.
func (s *Service) AuditLog() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.audit))
	copy(out, s.audit)
	return out
}

func (s *Service) appendRecord(r Record) {
	s.mu.Lock()
	s.audit = append(s.audit, r)
	s.mu.Unlock()
}

// Run processes every PDF in opts.SourceDir. Per-file failures are recorded
// and the batch continues; only setup problems (bad source dir, unwritable
// targets) or context cancellation abort the run.
func (s *Service) Run(ctx context.Context, opts Options) (Stats, error) {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = 5
	}

	files, err := findPDFs(opts.SourceDir)
	if err != nil {
		return Stats{}, err
	}
	if err := ensureDirs(opts.RelevantDir, opts.IrrelevantDir); err != nil {
		return Stats{}, err
	}

	s.logger.Info("triage.batch.start",
		"source", opts.SourceDir,
		"files", len(files),
		"workers", opts.Workers,
	)

	s.mu.Lock()
	s.audit = nil
	s.mu.Unlock()

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RatePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSec), 1)
	}

	var (
		statsMu sync.Mutex
		stats   = Stats{TotalFiles: len(files)}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for _, path := range files {
		path := path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec := s.processFile(gctx, path, opts, limiter)
			s.appendRecord(rec)

			statsMu.Lock()
			stats.Processed++
			switch {
			case rec.Err != "":
				stats.Errors++
			case rec.Decision == constants.DecisionRelevant:
				stats.Relevant++
			case rec.Decision == constants.DecisionIrrelevant:
				stats.Irrelevant++
			}
			statsMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}

	s.logger.Info("triage.batch.done",
		"processed", stats.Processed,
		"relevant", stats.Relevant,
		"irrelevant", stats.Irrelevant,
		"errors", stats.Errors,
	)
	return stats, nil
}

func (s *Service) processFile(ctx context.Context, path string, opts Options, limiter *rate.Limiter) Record {
	filename := filepath.Base(path)
	rec := Record{Filename: filename, Timestamp: time.Now(), MovedTo: "N/A"}

	text, err := s.extractExcerpt(ctx, path, opts)
	if err != nil {
		s.logger.Error("triage.file.failed", "file", filename, "error", err)
		rec.Decision = constants.DecisionError
		rec.Reason = err.Error()
		rec.Err = err.Error()
		return rec
	}

	if err := limiter.Wait(ctx); err != nil {
		rec.Decision = constants.DecisionError
		rec.Reason = err.Error()
		rec.Err = err.Error()
		return rec
	}
	cls, outcome, _ := s.client.Classify(ctx, text, opts.Criteria)
	if outcome == llm.OutcomeTransportError {
		s.logger.Warn("triage.file.classify_degraded", "file", filename, "outcome", outcome.String())
	}

	targetDir := opts.IrrelevantDir
	rec.Decision = constants.DecisionIrrelevant
	if cls.IsRelevant {
		targetDir = opts.RelevantDir
		rec.Decision = constants.DecisionRelevant
	}
	rec.Reason = cls.Reason
	if rec.Reason == "" {
		rec.Reason = "No reason provided"
	}

	moved, err := SafeMove(path, targetDir)
	if err != nil {
		s.logger.Error("triage.file.move_failed", "file", filename, "error", err)
		rec.Decision = constants.DecisionError
		rec.Reason = err.Error()
		rec.Err = err.Error()
		rec.MovedTo = "N/A"
		return rec
	}
	rec.MovedTo = filepath.Base(filepath.Dir(moved))

	s.logger.Info("triage.file.done",
		"file", filename,
		"decision", string(rec.Decision),
		"moved_to", rec.MovedTo,
	)
	return rec
}

func (s *Service) extractExcerpt(ctx context.Context, path string, opts Options) (string, error) {
	pdfBytes, err := readFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	result, err := s.pipeline.Parse(ctx, pdfBytes, filepath.Base(path), pipeline.Options{
		MaxPages: opts.MaxPages,
		Strategy: opts.Strategy,
	})
	if err != nil {
		return "", err
	}
	texts := make([]string, 0, len(result.Pages))
	for _, p := range result.Pages {
		texts = append(texts, p.Text)
	}
	joined := strings.Join(texts, "\n")
	if strings.TrimSpace(joined) == "" {
		return "", fmt.Errorf("no text could be extracted from document")
	}
	return joined, nil
}
