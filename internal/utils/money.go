package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatMoney keeps consistent decimal formatting for amount fields.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// FormatCurrency renders an amount with its currency symbol and thousand
// separators, e.g. "R12 500.00" or "$1 200.50".
func FormatCurrency(amount float64, currency string) string {
	symbol := "R"
	if strings.EqualFold(strings.TrimSpace(currency), "USD") {
		symbol = "$"
	}
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	whole := int64(amount)
	cents := int64(math.Round((amount - float64(whole)) * 100))
	if cents >= 100 {
		whole++
		cents -= 100
	}
	return fmt.Sprintf("%s%s%s.%02d", sign, symbol, formatThousand(whole), cents)
}

// FormatPercent renders a percentage to one decimal.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func formatThousand(n int64) string {
	str := fmt.Sprintf("%d", n)
	var out strings.Builder
	for i, c := range str {
		if i != 0 && (len(str)-i)%3 == 0 {
			out.WriteByte(' ')
		}
		out.WriteRune(c)
	}
	return out.String()
}
