// internal/pkg/money/brl.go
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBRL renders an amount in centavos as Brazilian reais, e.g. 129900 -> "R$ 1.299,00".
// A plain space separates the symbol so the text survives URL encoding and chat clients unchanged.
func FormatBRL(cents int64) string {
	value := ToDecimal(cents)

	sign := ""
	if value.IsNegative() {
		sign = "-"
		value = value.Neg()
	}

	fixed := value.StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	return sign + "R$ " + groupThousands(intPart) + "," + fracPart
}

// ToDecimal converts centavos to a decimal amount in reais
func ToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
