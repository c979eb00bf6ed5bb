package main

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePrice is the single normalization boundary for money values. Prices
// arrive as numbers or as comma-grouped decimal strings ("1,290.00"); the
// thousands separators are stripped before conversion. Every price read from
// storage, JSON, or a form must pass through here before arithmetic.
// Unparseable input yields zero.
func ParsePrice(v interface{}) decimal.Decimal {
	switch t := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return t
	case float64:
		return decimal.NewFromFloat(t)
	case int:
		return decimal.NewFromInt(int64(t))
	case int64:
		return decimal.NewFromInt(t)
	case []byte:
		return parsePriceString(string(t))
	case string:
		return parsePriceString(t)
	default:
		return decimal.Zero
	}
}

func parsePriceString(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatPrice renders a decimal for DECIMAL(10,2) columns.
func FormatPrice(d decimal.Decimal) string {
	return d.StringFixed(2)
}
