// Package format renders monetary amounts for people.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/solar-simulator/pkg/mathutil"
)

var symbols = map[string]string{
	"BRL": "R$",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// Symbol returns the display symbol for an ISO 4217 code, or the code itself
// when no symbol is known.
func Symbol(code string) string {
	upper := strings.ToUpper(strings.TrimSpace(code))
	if symbol, ok := symbols[upper]; ok {
		return symbol
	}
	return upper
}

// Currency returns a currency string with the code's symbol and thousands
// separators (e.g., "-R$ 1,234.56").
func Currency(amount float64, code string) string {
	numeric := NumericCurrency(amount)
	if strings.HasPrefix(numeric, "-") {
		return "-" + Symbol(code) + " " + numeric[1:]
	}
	return Symbol(code) + " " + numeric
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	sign := ""
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		sign = "-"
	}
	return sign + formatted
}

func formatPositiveCurrency(value float64) string {
	formatted := fmt.Sprintf("%.2f", mathutil.Round(value))
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
