// Package rename retitles PDF files from their content: the opening pages go
// to the language model, which answers with author and title, and the file
// becomes "Author - Title.pdf".
package rename

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jakops88-hub/Nordicsecure/constants"
	"github.com/jakops88-hub/Nordicsecure/internal/llm"
	"github.com/jakops88-hub/Nordicsecure/internal/pipeline"
)

// Record is the outcome for one file. On failure NewName equals OriginalName
// and the file is left untouched.
type Record struct {
	OriginalName string    `json:"original_name"`
	NewName      string    `json:"new_name"`
	Success      bool      `json:"success"`
	Author       string    `json:"author,omitempty"`
	Title        string    `json:"title,omitempty"`
	Confidence   float64   `json:"confidence,omitempty"`
	Err          string    `json:"error,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Stats aggregates one batch run.
type Stats struct {
	TotalFiles int `json:"total_files"`
	Processed  int `json:"processed"`
	Renamed    int `json:"renamed"`
	Failed     int `json:"failed"`
}

type Service struct {
	pipeline *pipeline.Pipeline
	client   *llm.Client
	logger   *slog.Logger

	renameLog []Record
}

func NewService(p *pipeline.Pipeline, client *llm.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{pipeline: p, client: client, logger: logger}
}

// RenameLog returns the records from the most recent batch.
func (s *Service) RenameLog() []Record {
	out := make([]Record, len(s.renameLog))
	copy(out, s.renameLog)
	return out
}

// RenameFile retitles one PDF from its first maxPages pages.
func (s *Service) RenameFile(ctx context.Context, path string, maxPages int) Record {
	originalName := filepath.Base(path)
	rec := Record{OriginalName: originalName, NewName: originalName, Timestamp: time.Now()}

	if maxPages <= 0 {
		maxPages = 3
	}

	pdfBytes, err := os.ReadFile(path)
	if err != nil {
		rec.Err = err.Error()
		s.logger.Error("rename.file.read_failed", "file", originalName, "error", err)
		return rec
	}

	result, err := s.pipeline.Parse(ctx, pdfBytes, originalName, pipeline.Options{
		MaxPages: maxPages,
		Strategy: constants.StrategyLinear,
	})
	if err != nil {
		rec.Err = err.Error()
		s.logger.Error("rename.file.parse_failed", "file", originalName, "error", err)
		return rec
	}
	texts := make([]string, 0, len(result.Pages))
	for _, p := range result.Pages {
		texts = append(texts, p.Text)
	}
	text := strings.Join(texts, "\n")
	if strings.TrimSpace(text) == "" {
		rec.Err = "no text could be extracted from document"
		return rec
	}

	fields, outcome, err := s.client.ExtractAuthorTitle(ctx, text)
	if outcome != llm.OutcomeParsed {
		if err != nil {
			rec.Err = fmt.Sprintf("API error: %v", err)
		} else {
			rec.Err = "extraction failed"
		}
		s.logger.Warn("rename.file.extraction_failed", "file", originalName, "outcome", outcome.String())
		return rec
	}

	newName := GenerateFilename(fields.Author, fields.Title)
	newPath, ok := safeRename(path, newName, s.logger)
	rec.Author = fields.Author
	rec.Title = fields.Title
	rec.Confidence = fields.Confidence
	rec.NewName = filepath.Base(newPath)
	rec.Success = ok
	if !ok {
		rec.Err = "rename operation failed"
	} else {
		s.logger.Info("rename.file.done", "from", originalName, "to", rec.NewName)
	}
	return rec
}

// RenameBatch retitles every PDF in a folder. Per-file failures are recorded
// and the batch continues.
func (s *Service) RenameBatch(ctx context.Context, dir string, maxPages int) (Stats, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return Stats{}, fmt.Errorf("folder does not exist: %s", dir)
	}

	seen := map[string]struct{}{}
	var files []string
	for _, pattern := range constants.PDFPatterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return Stats{}, fmt.Errorf("glob %s: %w", pattern, err)
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)

	s.logger.Info("rename.batch.start", "folder", dir, "files", len(files))
	s.renameLog = nil

	stats := Stats{TotalFiles: len(files)}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		rec := s.RenameFile(ctx, path, maxPages)
		s.renameLog = append(s.renameLog, rec)
		stats.Processed++
		if rec.Success {
			stats.Renamed++
		} else {
			stats.Failed++
		}
	}

	s.logger.Info("rename.batch.done",
		"processed", stats.Processed,
		"renamed", stats.Renamed,
		"failed", stats.Failed,
	)
	return stats, nil
}

// safeRename renames within the file's own directory, appending _1, _2, ...
// on collision. Renaming a file onto its current name is a no-op success.
func safeRename(sourcePath, newFilename string, logger *slog.Logger) (string, bool) {
	dir := filepath.Dir(sourcePath)
	targetPath := filepath.Join(dir, newFilename)
	if targetPath == sourcePath {
		return sourcePath, true
	}

	if _, err := os.Stat(targetPath); err == nil {
		ext := filepath.Ext(newFilename)
		stem := strings.TrimSuffix(newFilename, ext)
		counter := 1
		for {
			targetPath = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
			if _, err := os.Stat(targetPath); os.IsNotExist(err) {
				break
			}
			counter++
			if counter > 1000 {
				logger.Error("rename.file.too_many_collisions", "target", newFilename)
				return sourcePath, false
			}
		}
	}

	if err := os.Rename(sourcePath, targetPath); err != nil {
		logger.Error("rename.file.rename_failed", "file", filepath.Base(sourcePath), "error", err)
		return sourcePath, false
	}
	return targetPath, true
}
