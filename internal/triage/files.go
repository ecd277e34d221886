package triage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jakops88-hub/Nordicsecure/constants"
)

// findPDFs globs the source directory for PDFs under every case variation
// and deduplicates; on case-insensitive filesystems the patterns overlap.
func findPDFs(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("source folder does not exist: %s", dir)
	}

	seen := map[string]struct{}{}
	var files []string
	for _, pattern := range constants.PDFPatterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
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
	return files, nil
}

func ensureDirs(dirs ...string) error {
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("create target directory %s: %w", d, err)
		}
	}
	return nil
}

// SafeMove moves a file into targetDir, appending _1, _2, ... before the
// extension when the name is taken. It falls back to copy+remove when the
// rename crosses filesystems.
func SafeMove(sourcePath, targetDir string) (string, error) {
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", fmt.Errorf("create target directory %s: %w", targetDir, err)
	}

	name := filepath.Base(sourcePath)
	targetPath := filepath.Join(targetDir, name)

	if _, err := os.Stat(targetPath); err == nil {
		ext := filepath.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		counter := 1
		for {
			targetPath = filepath.Join(targetDir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
			if _, err := os.Stat(targetPath); os.IsNotExist(err) {
				break
			}
			counter++
			if counter > 10000 {
				return "", fmt.Errorf("too many files with similar names in %s", targetDir)
			}
		}
	}

	if err := os.Rename(sourcePath, targetPath); err != nil {
		if err := copyFile(sourcePath, targetPath); err != nil {
			return "", fmt.Errorf("move %s: %w", name, err)
		}
		if err := os.Remove(sourcePath); err != nil {
			return "", fmt.Errorf("remove source %s: %w", name, err)
		}
	}
	return targetPath, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
