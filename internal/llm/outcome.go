package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

// OutcomeKind tags how a model answer was obtained.
type OutcomeKind int

const (
	// OutcomeParsed means the answer was valid JSON, either directly or
	// extracted from surrounding prose.
	OutcomeParsed OutcomeKind = iota
	// OutcomeMalformed means no JSON could be recovered and the answer was
	// reconstructed from textual hints.
	OutcomeMalformed
	// OutcomeTransportError means the model was never reached or never
	// produced a usable body.
	OutcomeTransportError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeParsed:
		return "parsed"
	case OutcomeMalformed:
		return "malformed"
	case OutcomeTransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Classification is the decision for one document against the user criteria.
type Classification struct {
	IsRelevant bool   `json:"is_relevant"`
	Reason     string `json:"reason"`
}

var embeddedClassification = regexp.MustCompile(`(?s)\{[^{}]*"is_relevant"[^{}]*\}`)

// ParseClassification recovers a Classification from model output. It tries
// a direct JSON parse, then scans for an embedded object carrying
// "is_relevant", and finally falls back to sniffing an affirmative word out
// of the raw text.
func ParseClassification(responseText string) (Classification, OutcomeKind) {
	var c Classification
	if err := json.Unmarshal([]byte(responseText), &c); err == nil && hasClassificationKeys(responseText) {
		return c, OutcomeParsed
	}

	if m := embeddedClassification.FindString(responseText); m != "" {
		var ec Classification
		if err := json.Unmarshal([]byte(m), &ec); err == nil && hasClassificationKeys(m) {
			return ec, OutcomeParsed
		}
	}

	lower := strings.ToLower(responseText)
	relevant := strings.Contains(lower, "true") || strings.Contains(lower, "yes")
	return Classification{
		IsRelevant: relevant,
		Reason:     "Could not parse detailed reasoning",
	}, OutcomeMalformed
}

func hasClassificationKeys(raw string) bool {
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return false
	}
	_, hasRelevant := m["is_relevant"]
	_, hasReason := m["reason"]
	return hasRelevant && hasReason
}

// BiblioFields is the author/title pair extracted from a document opening.
type BiblioFields struct {
	Author     string  `json:"author"`
	Title      string  `json:"title"`
	Confidence float64 `json:"confidence"`
}

// ParseBiblio recovers BiblioFields from model output. When the whole answer
// is not JSON it walks the text for the first balanced top-level object, so
// answers wrapped in prose still parse.
func ParseBiblio(responseText string) (BiblioFields, OutcomeKind) {
	if b, ok := decodeBiblio(responseText); ok {
		return b, OutcomeParsed
	}

	start := strings.IndexByte(responseText, '{')
	if start >= 0 {
		depth := 0
		for i := start; i < len(responseText); i++ {
			switch responseText[i] {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					if b, ok := decodeBiblio(responseText[start : i+1]); ok {
						// Balanced-brace extraction is weaker evidence.
						if b.Confidence == 0 {
							b.Confidence = 0.7
						}
						return b, OutcomeParsed
					}
					return BiblioFields{}, OutcomeMalformed
				}
			}
		}
	}
	return BiblioFields{}, OutcomeMalformed
}

func decodeBiblio(raw string) (BiblioFields, bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return BiblioFields{}, false
	}
	if _, ok := m["author"]; !ok {
		return BiblioFields{}, false
	}
	if _, ok := m["title"]; !ok {
		return BiblioFields{}, false
	}
	var b BiblioFields
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		return BiblioFields{}, false
	}
	b.Author = strings.TrimSpace(b.Author)
	b.Title = strings.TrimSpace(b.Title)
	if b.Confidence == 0 {
		b.Confidence = 0.8
	}
	return b, true
}
