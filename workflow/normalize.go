package workflow

import (
	"math"
	"strconv"
	"strings"
)

// Digit transliteration tables for Persian (۰-۹) and Arabic-Indic (٠-٩)
// numerals as they appear in marketplace statements.
var digitReplacer = strings.NewReplacer(
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
)

// NormalizeAmount converts any statement cell value (native number, or text
// with Persian/Arabic digits, thousands separators and a leading sign) to a
// signed rial integer. It never fails; anything unparseable becomes 0.
func NormalizeAmount(val any) int64 {
	switch v := val.(type) {
	case nil:
		return 0
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		if math.IsNaN(v) {
			return 0
		}
		return int64(math.Round(v))
	case string:
		return normalizeAmountString(v)
	default:
		return 0
	}
}

func normalizeAmountString(s string) int64 {
	// Thousands separators: ASCII comma and Arabic thousands separator.
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "٬", "")
	s = digitReplacer.Replace(s)
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	// Cells carrying a plain (possibly fractional) number, e.g. excel
	// rendering a numeric cell as "1234.56".
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) {
		return int64(math.Round(f))
	}

	// Fallback: keep a leading minus, strip every other non-digit rune.
	isNegative := strings.HasPrefix(s, "-")
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return 0
	}
	if isNegative {
		digits = "-" + digits
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
