// Package fields infers invoice key-values from extracted text using ordered
// keyword-anchored heuristics. Confidence values are heuristic self-reports
// in [0,1], not calibrated probabilities.
package fields

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jakops88-hub/Nordicsecure/constants"
)

var (
	datePattern = regexp.MustCompile(
		`\b(\d{4}[/.\-]\d{1,2}[/.\-]\d{1,2}|\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4})\b`)
	amountPattern = regexp.MustCompile(
		`([+-]?\d{1,3}(?:[ .]\d{3})*(?:[.,]\d{2})|\d+[.,]\d{2})`)

	invoiceNumberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)invoice\s*(?:no|number|nr|#)\s*[:#-]?\s*([A-Za-z0-9-]{3,})`),
		regexp.MustCompile(`(?i)inv\.\s*[:#-]?\s*([A-Za-z0-9-]{3,})`),
		regexp.MustCompile(`(?i)faktura(?:nr|nummer)?\s*[:#-]?\s*([A-Za-z0-9-]{3,})`),
	}
	invoiceNumberFallback = regexp.MustCompile(`(?i)\bINV[-\s]?[A-Z0-9]{3,}\b`)

	supplierPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)supplier`),
		regexp.MustCompile(`(?i)leverantör`),
	}
	customerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)customer`),
		regexp.MustCompile(`(?i)kund`),
	}

	partySeparator = regexp.MustCompile(`[:\-]`)
)

var (
	invoiceDateKeywords = []string{"invoice date", "issue date", "fakturadatum", "datum"}
	dueDateKeywords     = []string{"due date", "due", "förfallodatum", "forfallodatum"}
	totalKeywords       = []string{"total", "totalt", "amount due", "total belopp"}
	subtotalKeywords    = []string{"subtotal", "delsumma", "net total"}
	vatKeywords         = []string{"vat", "moms", "tax"}
)

// candidate is one heuristic attempt at a field value.
type candidate struct {
	value      *string
	confidence float64
}

func found(value string, confidence float64) candidate {
	return candidate{value: &value, confidence: confidence}
}

var nothing = candidate{}

// Extract runs the field waterfall over raw text. The returned key_values and
// confidence maps always carry the same key set.
func Extract(rawText string) (map[string]*string, map[string]float64, string) {
	normalized := normalizeText(rawText)
	lines := splitIntoLines(normalized)
	language := DetectLanguage(normalized)

	results := map[string]candidate{
		constants.FieldInvoiceNumber:  detectInvoiceNumber(lines, normalized),
		constants.FieldInvoiceDate:    detectDate(lines, normalized, invoiceDateKeywords),
		constants.FieldDueDate:        detectDate(lines, normalized, dueDateKeywords),
		constants.FieldTotalAmount:    detectAmount(lines, totalKeywords, true),
		constants.FieldSubtotalAmount: detectAmount(lines, subtotalKeywords, false),
		constants.FieldVATAmount:      detectAmount(lines, vatKeywords, false),
		constants.FieldCurrency:       detectCurrency(lines, normalized),
		constants.FieldSupplierName:   detectPartyName(lines, supplierPatterns, 0),
		constants.FieldCustomerName:   detectPartyName(lines, customerPatterns, 2),
	}

	keyValues := make(map[string]*string, len(results))
	confidences := make(map[string]float64, len(results))
	for _, key := range constants.FieldKeys {
		c := results[key]
		keyValues[key] = c.value
		confidences[key] = ClampConfidence(c.confidence)
	}
	return keyValues, confidences, language
}

func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\t", " ")
	return strings.TrimSpace(text)
}

func splitIntoLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func detectInvoiceNumber(lines []string, fullText string) candidate {
	for _, line := range lines {
		lower := strings.ToLower(line)
		// "Invoice Date: ..." lines would otherwise match the "invoice"
		// keyword and swallow the date as the number.
		if strings.Contains(lower, "invoice date") || strings.Contains(lower, "fakturadatum") {
			continue
		}
		for _, pattern := range invoiceNumberPatterns {
			if m := pattern.FindStringSubmatch(line); m != nil {
				return found(m[1], 0.9)
			}
		}
	}

	if m := invoiceNumberFallback.FindString(fullText); m != "" {
		return found(m, 0.5)
	}
	return nothing
}

func detectDate(lines []string, fullText string, keywords []string) candidate {
	for _, line := range lines {
		if !containsAny(strings.ToLower(line), keywords) {
			continue
		}
		if m := datePattern.FindStringSubmatch(line); m != nil {
			return found(m[1], 0.85)
		}
	}

	if m := datePattern.FindStringSubmatch(fullText); m != nil {
		return found(m[1], 0.4)
	}
	return nothing
}

// detectAmount collects every amount on keyword-bearing lines and picks the
// numerically highest or lowest. Totals tend to be the largest figure on an
// invoice; subtotal and VAT lines with several numbers usually list the
// smaller component first.
func detectAmount(lines []string, keywords []string, preferHighest bool) candidate {
	type scored struct {
		value   string
		numeric float64
	}
	var candidates []scored

	for _, line := range lines {
		if !containsAny(strings.ToLower(line), keywords) {
			continue
		}
		if m := amountPattern.FindStringSubmatch(line); m != nil {
			normalized := NormalizeAmount(m[1])
			candidates = append(candidates, scored{value: normalized, numeric: amountToNumber(normalized)})
		}
	}

	if len(candidates) > 0 {
		sort.SliceStable(candidates, func(i, j int) bool {
			if preferHighest {
				return candidates[i].numeric > candidates[j].numeric
			}
			return candidates[i].numeric < candidates[j].numeric
		})
		return found(candidates[0].value, 0.85)
	}

	for _, line := range lines {
		if m := amountPattern.FindStringSubmatch(line); m != nil {
			return found(NormalizeAmount(m[1]), 0.3)
		}
	}
	return nothing
}

func detectCurrency(lines []string, fullText string) candidate {
	for _, line := range lines {
		if token := findCurrencyToken(line); token != "" {
			return found(normalizeCurrency(token), 0.8)
		}
	}
	if token := findCurrencyToken(fullText); token != "" {
		return found(normalizeCurrency(token), 0.5)
	}
	return nothing
}

func findCurrencyToken(text string) string {
	lower := strings.ToLower(text)
	for _, currency := range constants.KnownCurrencies {
		if strings.Contains(lower, strings.ToLower(currency)) {
			return currency
		}
	}
	return ""
}

func normalizeCurrency(token string) string {
	upper := strings.ToUpper(token)
	switch upper {
	case "$":
		return "USD"
	case "€":
		return "EUR"
	case "KR":
		return "SEK"
	}
	return upper
}

// detectPartyName looks for a role keyword line; the value is the text after
// a ':' or '-' on that line, else the next line. With no keyword match at all
// the line at fallbackIndex is used at low confidence (invoices commonly open
// with the supplier, with the customer a couple of lines below).
func detectPartyName(lines []string, patterns []*regexp.Regexp, fallbackIndex int) candidate {
	for i, line := range lines {
		if !matchesAny(line, patterns) {
			continue
		}
		parts := partySeparator.Split(line, -1)
		if len(parts) > 1 {
			if value := strings.TrimSpace(parts[1]); value != "" {
				return found(value, 0.8)
			}
		}
		if i+1 < len(lines) {
			return found(lines[i+1], 0.7)
		}
	}

	if fallbackIndex < len(lines) {
		return found(lines[fallbackIndex], 0.3)
	}
	return nothing
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func matchesAny(s string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
