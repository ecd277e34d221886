package fields

import (
	"math"
	"strconv"
	"strings"
)

// NormalizeAmount canonicalizes an amount string: spaces stripped, comma
// treated as the decimal separator, and with more than one dot left over,
// everything but the last dot collapsed as thousands separators. The
// operation is idempotent.
func NormalizeAmount(amount string) string {
	amount = strings.ReplaceAll(amount, " ", "")
	amount = strings.ReplaceAll(amount, ",", ".")

	parts := strings.Split(amount, ".")
	if len(parts) > 2 {
		amount = strings.Join(parts[:len(parts)-1], "") + "." + parts[len(parts)-1]
	}
	return amount
}

func amountToNumber(amount string) float64 {
	normalized := strings.ReplaceAll(strings.ReplaceAll(amount, " ", ""), ",", ".")
	f, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0
	}
	return f
}

// ClampConfidence rounds to 2 decimals and clamps into [0,1]. NaN and
// infinities clamp to 0.
func ClampConfidence(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	rounded := math.Round(value*100) / 100
	return math.Max(0, math.Min(1, rounded))
}
