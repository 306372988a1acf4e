// Package money converts between stored minor units (kopecks) and the decimal
// major-unit strings payment gateways put on the wire.
package money

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

const minorExp = 2

// ToMajor formats kopecks as a fixed two-decimal ruble string, e.g. 1050 -> "10.50".
func ToMajor(minor int64) string {
	return decimal.New(minor, -minorExp).StringFixed(minorExp)
}

// ToMajorNumber formats kopecks as a JSON number in rubles.
func ToMajorNumber(minor int64) json.Number {
	return json.Number(ToMajor(minor))
}

// FromMajor parses a ruble amount ("10.5", "10.50", "10") into kopecks.
// Amounts with more than two fractional digits are rejected rather than rounded.
func FromMajor(major string) (int64, error) {
	d, err := decimal.NewFromString(major)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", major, err)
	}
	return fromDecimal(d)
}

// FromMajorFloat converts a ruble amount received as a JSON number into kopecks.
func FromMajorFloat(major float64) (int64, error) {
	return fromDecimal(decimal.NewFromFloat(major))
}

func fromDecimal(d decimal.Decimal) (int64, error) {
	minor := d.Shift(minorExp)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has sub-kopeck precision", d.String())
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount %s is negative", d.String())
	}
	return minor.IntPart(), nil
}
