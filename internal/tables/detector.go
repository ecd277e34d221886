// Package tables finds runs of tabular-looking lines in extracted page text.
package tables

import (
	"regexp"
	"strings"

	"github.com/jakops88-hub/Nordicsecure/internal/extract"
)

// minRowsPerTable guards against false positives: a single table-like line
// is almost always an address block or a spaced-out heading.
const minRowsPerTable = 2

var multiSpace = regexp.MustCompile(`\s{2,}`)

// Detect groups contiguous table-like lines per page into row sets. A
// non-table-like line (or the end of a page) flushes the pending group.
func Detect(pages []extract.Page) []extract.Table {
	var tables []extract.Table

	for _, page := range pages {
		var rows [][]string

		flush := func() {
			if len(rows) >= minRowsPerTable {
				tables = append(tables, extract.Table{
					PageNumber: page.PageNumber,
					Rows:       rows,
				})
			}
			rows = nil
		}

		for _, line := range strings.Split(page.Text, "\n") {
			if looksLikeTableRow(line) {
				rows = append(rows, splitRow(line))
			} else {
				flush()
			}
		}
		flush()
	}

	return tables
}

// looksLikeTableRow matches lines with pipes, tabs, or at least three
// multi-space separated columns.
func looksLikeTableRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if strings.Contains(trimmed, "|") || strings.Contains(trimmed, "\t") {
		return true
	}
	return len(multiSpace.Split(trimmed, -1)) >= 3
}

// splitRow splits on the strongest delimiter present: pipes beat tabs beat
// multi-space runs. Empty cells are dropped.
func splitRow(line string) []string {
	var parts []string
	switch {
	case strings.Contains(line, "|"):
		parts = strings.Split(line, "|")
	case strings.Contains(line, "\t"):
		parts = strings.Split(line, "\t")
	default:
		parts = multiSpace.Split(strings.TrimSpace(line), -1)
	}

	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		if c := strings.TrimSpace(p); c != "" {
			cells = append(cells, c)
		}
	}
	return cells
}
