package extract

import (
	"sort"
	"strings"

	"github.com/jakops88-hub/Nordicsecure/constants"
)

// SelectPages returns the sorted, de-duplicated 0-based page indices to read.
// maxPages <= 0 means no limit. Strategy matching is case-insensitive; any
// value other than "random" behaves as linear. This is a safe default, not an
// error: a misconfigured caller still gets a usable prefix of the document.
//
// The "random" strategy is deterministic despite its name: it probes the
// start, middle, and end of the document, which is enough signal for triage
// decisions on large files without reading every page.
func SelectPages(totalPages, maxPages int, strategy string) []int {
	if totalPages <= 0 {
		return nil
	}

	if maxPages <= 0 {
		return sequence(totalPages)
	}

	if strings.EqualFold(strategy, constants.StrategyRandom) {
		return selectSpread(totalPages, maxPages)
	}

	n := maxPages
	if n > totalPages {
		n = totalPages
	}
	return sequence(n)
}

func sequence(n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return indices
}

// selectSpread picks {first, middle, last} for documents of 4+ pages, all
// pages for tiny documents, truncated to maxPages.
func selectSpread(totalPages, maxPages int) []int {
	if totalPages <= 3 {
		return sequence(totalPages)
	}

	seen := map[int]struct{}{}
	var indices []int
	for _, idx := range []int{0, (totalPages - 1) / 2, totalPages - 1} {
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	if len(indices) > maxPages {
		indices = indices[:maxPages]
	}
	return indices
}
