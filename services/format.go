// Package services turns a priced quote into what the engineer hands over:
// customer summary text, spec text, installation notes, and PDF, Excel, JSON
// and zip exports.
package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatGBP formats an amount as pounds sterling with thousands separators
// and exactly 2 decimal places, e.g. £12,345.60. Rounding happens here and
// nowhere earlier.
func FormatGBP(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	d := decimal.NewFromFloat(amount).Round(2)

	negative := d.IsNegative()
	if negative {
		d = d.Neg()
	}

	raw := d.StringFixed(2)
	parts := strings.SplitN(raw, ".", 2)
	whole := d.Truncate(0).IntPart()

	result := "£" + humanize.Comma(whole) + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

// FormatHours renders labour hours: whole numbers without decimals,
// fractional values with up to 2.
func FormatHours(hours float64) string {
	unit := "hrs"
	if hours == 1 {
		unit = "hr"
	}
	return formatQty(hours) + " " + unit
}

// formatQty returns a string representation of a quantity.
// Whole numbers are formatted without decimals; fractional values get up to 2 decimal places.
func formatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return decimal.NewFromFloat(qty).Round(2).String()
}
