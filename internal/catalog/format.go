package catalog

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var colombia = language.MustParse("es-CO")

// FormatNumber groups f the Colombian way ("1.500.000", "85,5"), with at
// most two decimals.
func FormatNumber(f float64) string {
	return message.NewPrinter(colombia).Sprint(number.Decimal(f, number.MaxFractionDigits(2)))
}

// Display renders a cell for people: currency as whole pesos, areas in m²,
// percentages with one decimal. Null renders as "-".
func (c Column) Display(v Value, yes, no string) string {
	if v.Null() {
		return "-"
	}
	switch {
	case v.Num != nil:
		f := *v.Num
		switch c.Kind {
		case KindCurrency:
			return "$ " + message.NewPrinter(colombia).Sprint(number.Decimal(f, number.MaxFractionDigits(0)))
		case KindArea:
			return FormatNumber(f) + " m²"
		case KindPercent:
			return message.NewPrinter(colombia).Sprint(number.Decimal(f, number.Scale(1))) + "%"
		}
		return FormatNumber(f)
	case v.Bool != nil:
		if *v.Bool {
			return yes
		}
		return no
	case v.Time != nil:
		return v.Time.Format(DateLayout)
	}
	if *v.Str == "" {
		return "-"
	}
	return *v.Str
}
