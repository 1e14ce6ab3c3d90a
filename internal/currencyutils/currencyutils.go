// Package currencyutils provides the decimal parsing and formatting used
// throughout the application.
package currencyutils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a string representation of an amount into a decimal
// value. It handles both Brazilian ("1.234,56") and plain ("1234.56")
// formats, plus the "R$" currency prefix.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	if strings.TrimSpace(amountStr) == "" {
		return decimal.Zero, nil
	}

	standardized := StandardizeAmount(amountStr)

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}

	return amount, nil
}

// StandardizeAmount converts amount strings to a form decimal.NewFromString
// accepts. Handles "R$ 1.234,56", "1234,56", "1,234.56" and "1234.56".
func StandardizeAmount(amountStr string) string {
	amountStr = strings.TrimSpace(amountStr)
	amountStr = strings.TrimPrefix(amountStr, "R$")
	amountStr = strings.ReplaceAll(amountStr, " ", "")

	hasComma := strings.Contains(amountStr, ",")
	hasDot := strings.Contains(amountStr, ".")

	switch {
	case hasComma && hasDot:
		if strings.LastIndex(amountStr, ".") < strings.LastIndex(amountStr, ",") {
			// Brazilian format: dot thousands, comma decimals
			amountStr = strings.ReplaceAll(amountStr, ".", "")
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			// US format: comma thousands, dot decimals
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	case hasComma:
		amountStr = strings.ReplaceAll(amountStr, ",", ".")
	}

	return amountStr
}

// FormatBR renders an amount the way the accounting import expects: two
// decimal places and a comma decimal separator, no thousands grouping.
// The sign is preserved; callers strip it with Abs where needed.
func FormatBR(amount decimal.Decimal) string {
	return strings.ReplaceAll(amount.StringFixed(2), ".", ",")
}
