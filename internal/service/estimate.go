package service

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Estimate is one predicted price.
type Estimate struct {
	Value   float64
	Price   decimal.Decimal // rounded to cents
	Display string
}

func NewEstimate(v float64) Estimate {
	return Estimate{
		Value:   v,
		Price:   decimal.NewFromFloat(v).Round(2),
		Display: FormatCurrency(v),
	}
}

func (e Estimate) Message() string {
	return "Estimated Property Price: " + e.Display
}

// FormatCurrency renders v as dollars with thousands separators and two
// decimals, e.g. $1,234,567.89 or $-12.50.
func FormatCurrency(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	frac := fixed[strings.IndexByte(fixed, '.'):]
	return "$" + sign + humanize.BigComma(d.Truncate(0).BigInt()) + frac
}
