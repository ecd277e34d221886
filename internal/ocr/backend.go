// Package ocr rasterizes PDF pages and runs optical character recognition on
// them. It is the fallback path when digital text extraction looks like it
// hit a scanned document.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
)

// Backend is the OCR capability consumed by the text acquirer. Recognize
// returns one text per requested 0-based page index, in the same order.
type Backend interface {
	// Available reports whether the backend can actually run. The acquirer
	// checks this before committing to the OCR path so it can fail with a
	// specific "ocr unavailable" error instead of a generic one.
	Available() bool
	Recognize(ctx context.Context, pdfBytes []byte, pageIndices []int) ([]string, error)
}

// Config holds the external tool settings for the tesseract backend.
type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Language  string // tesseract language pack, default "swe"
	DPI       int    // rasterization DPI, default 300
}

// TesseractBackend shells out to pdftoppm and tesseract.
type TesseractBackend struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewTesseractBackend(cfg Config, logger *slog.Logger) *TesseractBackend {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "swe"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &TesseractBackend{cfg: cfg, runner: execRunner{}, logger: logger}
}

func (b *TesseractBackend) Available() bool {
	if _, err := exec.LookPath(b.cfg.Pdftoppm); err != nil {
		return false
	}
	if _, err := exec.LookPath(b.cfg.Tesseract); err != nil {
		return false
	}
	return true
}

// Recognize rasterizes each requested page and OCRs it. A single page that
// fails to OCR degrades to empty text; only rasterization of the whole
// document is fatal.
func (b *TesseractBackend) Recognize(ctx context.Context, pdfBytes []byte, pageIndices []int) ([]string, error) {
	tmpDir, err := os.MkdirTemp("", "ns-ocr-*")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			b.logger.Warn("ocr.tmpdir.cleanup_failed", "dir", tmpDir, "error", err)
		}
	}()

	src := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(src, pdfBytes, 0o600); err != nil {
		return nil, fmt.Errorf("write temp pdf: %w", err)
	}

	texts := make([]string, 0, len(pageIndices))
	for _, idx := range pageIndices {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		txt, err := b.recognizePage(ctx, src, tmpDir, idx)
		if err != nil {
			b.logger.Warn("ocr.page.failed", "page", idx+1, "error", err)
			txt = ""
		}
		texts = append(texts, txt)
	}
	return texts, nil
}

func (b *TesseractBackend) recognizePage(ctx context.Context, src, tmpDir string, pageIndex int) (string, error) {
	pageNum := pageIndex + 1
	prefix := filepath.Join(tmpDir, fmt.Sprintf("page-%d", pageNum))

	// pdftoppm -f N -l N -r 300 -png <in.pdf> <tmp/page-N>
	_, errb, err := b.runner.Run(ctx, b.cfg.Pdftoppm,
		"-f", fmt.Sprintf("%d", pageNum),
		"-l", fmt.Sprintf("%d", pageNum),
		"-r", fmt.Sprintf("%d", b.cfg.DPI),
		"-png", src, prefix)
	if err != nil {
		return "", fmt.Errorf("pdftoppm page %d: %w (%s)", pageNum, err, truncate(string(errb), 512))
	}

	matches, _ := filepath.Glob(prefix + "*.png")
	if len(matches) == 0 {
		return "", fmt.Errorf("pdftoppm rendered no image for page %d", pageNum)
	}
	sort.Strings(matches)

	// tesseract <img> stdout -l swe
	out, errb, err := b.runner.Run(ctx, b.cfg.Tesseract, matches[0], "stdout", "-l", b.cfg.Language)
	if err != nil {
		return "", fmt.Errorf("tesseract page %d: %w (%s)", pageNum, err, truncate(string(errb), 512))
	}
	return string(out), nil
}

// Disabled is the "not configured" backend. It reports unavailable and
// refuses to recognize, so callers fail fast instead of silently degrading.
type Disabled struct{}

func (Disabled) Available() bool { return false }

func (Disabled) Recognize(context.Context, []byte, []int) ([]string, error) {
	return nil, fmt.Errorf("ocr backend not configured")
}
