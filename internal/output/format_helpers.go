package output

import (
	"strconv"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const currencyCode = "USD"

// FormatCurrency formats a decimal as USD with thousands separators and 2 decimals.
// Half cents round away from zero.
func FormatCurrency(amount decimal.Decimal) string {
	cents := amount.Shift(2).Round(0).IntPart()
	return money.New(cents, currencyCode).Display()
}

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatRate formats a fractional rate (0.05) as a percentage (5.00%).
func FormatRate(rate decimal.Decimal) string { return FormatPercentage(rate.Shift(2)) }

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }
