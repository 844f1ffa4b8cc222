// Package format holds the small text helpers shared by handlers and templates.
package format

import (
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var (
	// \s is ASCII-only in RE2; \p{Z} adds no-break and other Unicode spaces
	reNonWord  = regexp.MustCompile(`[^\w\s\p{Z}-]`)
	reSeparate = regexp.MustCompile(`[\s\p{Z}_-]+`)
)

// Slugify lowercases s, drops punctuation and joins words with single hyphens.
// "Men's Wear!!" becomes "mens-wear".
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = reNonWord.ReplaceAllString(s, "")
	s = reSeparate.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

const currencySymbol = "₦"

// Price renders an amount in naira with grouping and two decimals.
func Price(p decimal.NullDecimal) string {
	if !p.Valid {
		return "Price on request"
	}
	return Amount(p.Decimal)
}

func Amount(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole := d.Truncate(0)
	frac := d.Sub(whole).StringFixed(2) // "0.50"
	return sign + currencySymbol + humanize.BigComma(whole.BigInt()) + frac[1:]
}

// Date renders day-first long dates, "17 February 2026".
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2 January 2006")
}

// Truncate cuts s to n runes and appends "..." when it was longer.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
