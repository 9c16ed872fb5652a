package export

import (
	"strings"

	"github.com/biter777/countries"
	"github.com/shopspring/decimal"
)

// NumberFormatter turns amounts and currency codes into display strings.
// Round is the single rounding rule the aggregation applies; everything
// upstream of it stays exact.
type NumberFormatter interface {
	Format(d decimal.Decimal) string
	CurrencyName(code string) string
	Round(d decimal.Decimal) decimal.Decimal
}

// PlainFormatter formats with two decimals, a comma decimal separator and
// dot thousands grouping. Callers with stricter locale requirements inject
// their own NumberFormatter.
type PlainFormatter struct{}

func (PlainFormatter) Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func (f PlainFormatter) Format(d decimal.Decimal) string {
	s := d.Round(2).StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(intPart[i])
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}

func (PlainFormatter) CurrencyName(code string) string {
	cur := countries.CurrencyCodeByName(code)
	if cur == countries.CurrencyUnknown {
		return code
	}
	return cur.String()
}
