// Package cite resolves a query against a stored text chunk to a 1-based
// line number, so search hits can point back to an exact place in the source
// document.
package cite

import "strings"

// Match is the citation for one chunk: the best line for the query. It
// always resolves to some line; an entirely blank chunk cites line 1 with
// empty text.
type Match struct {
	LineNumber int    `json:"line_number"`
	LineText   string `json:"line_text"`
}

// Locate finds the line that best supports the query. An exact case-
// insensitive phrase match wins immediately; otherwise lines are scored by
// word overlap with the query, first strictly-greater score winning. With no
// overlap at all the first non-blank line is cited.
func Locate(chunkText, query string) Match {
	lines := strings.Split(chunkText, "\n")

	queryLower := strings.ToLower(query)
	queryWords := wordSet(queryLower)

	best := Match{LineNumber: 1, LineText: strings.TrimSpace(lines[0])}
	bestScore := 0

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lineLower := strings.ToLower(line)

		if queryLower != "" && strings.Contains(lineLower, queryLower) {
			return Match{LineNumber: i + 1, LineText: strings.TrimSpace(line)}
		}

		overlap := 0
		for word := range wordSet(lineLower) {
			if _, ok := queryWords[word]; ok {
				overlap++
			}
		}
		if overlap > bestScore {
			bestScore = overlap
			best = Match{LineNumber: i + 1, LineText: strings.TrimSpace(line)}
		}
	}

	if bestScore > 0 {
		return best
	}

	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			return Match{LineNumber: i + 1, LineText: strings.TrimSpace(line)}
		}
	}
	return Match{LineNumber: 1, LineText: ""}
}

func wordSet(s string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}
