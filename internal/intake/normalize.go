// internal/intake/normalize.go
package intake

import (
	"strconv"
	"strings"

	"policyfund-intake/internal/models"
)

// Mobile carrier prefixes accepted for applicant phone numbers.
var validPhonePrefixes = []string{"010", "011", "016", "017", "018", "019"}

// revenueUnitSuffix is appended to formatted revenue values (manwon,
// 10,000 currency units).
const revenueUnitSuffix = "만원"

// OnlyDigits strips every character that is not an ASCII digit.
func OnlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatPhone renders an 11-digit number as DDD-DDDD-DDDD and a 10-digit
// number as DDD-DDD-DDDD. Any other length is returned unchanged; the
// caller validates separately.
func FormatPhone(raw string) string {
	d := OnlyDigits(raw)
	switch len(d) {
	case 11:
		return d[0:3] + "-" + d[3:7] + "-" + d[7:11]
	case 10:
		return d[0:3] + "-" + d[3:6] + "-" + d[6:10]
	default:
		return raw
	}
}

// IsValidPhone reports whether the input strips to 10 or 11 digits starting
// with an accepted carrier prefix.
func IsValidPhone(raw string) bool {
	d := OnlyDigits(raw)
	if len(d) != 10 && len(d) != 11 {
		return false
	}
	for _, prefix := range validPhonePrefixes {
		if strings.HasPrefix(d, prefix) {
			return true
		}
	}
	return false
}

// FormatRevenue renders the digit content of raw as a thousands-separated
// integer with the manwon suffix. Empty digit content yields an empty string.
func FormatRevenue(raw string) string {
	d := OnlyDigits(raw)
	if d == "" {
		return ""
	}
	n, err := strconv.Atoi(d)
	if err != nil {
		// Digit strings too long for int keep their raw digits.
		return d + revenueUnitSuffix
	}
	return formatThousands(n) + revenueUnitSuffix
}

// ParseRevenue extracts the digit content of raw as a non-negative manwon
// integer. Already-formatted input (separators, unit suffix) is tolerated,
// which makes the parse idempotent through formatting.
func ParseRevenue(raw string) int {
	d := OnlyDigits(raw)
	if d == "" {
		return 0
	}
	n, err := strconv.Atoi(d)
	if err != nil {
		return 0
	}
	return n
}

// TenureToMonths maps a tenure bucket to its nominal month count.
// Unrecognized values fall through to the 3-plus-years case.
func TenureToMonths(bucket models.TenureBucket) int {
	switch bucket {
	case models.TenureUnderOneYear:
		return 6
	case models.TenureOneToThree:
		return 24
	default:
		return 48
	}
}

func formatThousands(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
