package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits every stored amount carries.
const MoneyScale int32 = 2

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// Round2 rounds to the canonical scale, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// IsCanonical reports whether d carries no more than MoneyScale fractional digits.
func IsCanonical(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyScale))
}

// ParseMoney parses a decimal string and rejects values with sub-cent precision.
func ParseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a decimal amount", ErrInvalidAmount, s)
	}

	if !IsCanonical(d) {
		return decimal.Zero, fmt.Errorf("%w: %s has more than %d fractional digits", ErrInvalidAmount, s, MoneyScale)
	}

	return d, nil
}

// FormatMoney renders an amount at canonical scale.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(MoneyScale)
}

// monthlyRate computes round2(round2(balance * rate / 100) / 12).
func monthlyRate(balance, annualPercent decimal.Decimal) decimal.Decimal {
	annual := balance.Mul(annualPercent).DivRound(hundred, MoneyScale)
	return annual.DivRound(twelve, MoneyScale)
}
