package fields

import (
	"strings"

	"github.com/jakops88-hub/Nordicsecure/constants"
)

var (
	swedishKeywords = []string{
		"faktura", "belopp", "förfallodatum", "org.nr",
		"kundnummer", "leverantör", "moms",
	}
	englishKeywords = []string{
		"invoice", "amount", "due date", "customer",
		"supplier", "tax", "subtotal",
	}
)

// DetectLanguage picks "sv" or "en" by counting keyword hits, "unknown" when
// neither vocabulary appears. Ties favor Swedish: the deployment base is
// Swedish and most mixed invoices carry English boilerplate.
func DetectLanguage(text string) string {
	lower := strings.ToLower(text)

	var swedish, english int
	for _, kw := range swedishKeywords {
		if strings.Contains(lower, kw) {
			swedish++
		}
	}
	for _, kw := range englishKeywords {
		if strings.Contains(lower, kw) {
			english++
		}
	}

	if swedish == 0 && english == 0 {
		return constants.LangUnknown
	}
	if swedish >= english {
		return constants.LangSwedish
	}
	return constants.LangEnglish
}
