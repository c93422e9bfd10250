package render

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencyFormatter renders monetary amounts with a locale-aware symbol
// and digit grouping. Both the HTML preview and the PDF document format
// through the same instance, which is what keeps "$1,234.50" identical
// across surfaces.
type CurrencyFormatter struct {
	printer *message.Printer
}

// NewCurrencyFormatter builds a formatter for the given BCP 47 locale
// tag. An unparsable tag falls back to English.
func NewCurrencyFormatter(locale string) *CurrencyFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &CurrencyFormatter{printer: message.NewPrinter(tag)}
}

// Format renders amount in the given ISO 4217 currency, e.g. "USD" to
// "$1,234.50". Unknown currency codes degrade to the raw code as prefix
// instead of failing the render.
func (f *CurrencyFormatter) Format(amount decimal.Decimal, code string) string {
	value, _ := amount.Round(2).Float64()
	formatted := f.printer.Sprintf("%v", number.Decimal(value,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))

	unit, err := currency.ParseISO(code)
	if err != nil {
		if code == "" {
			return formatted
		}
		return strings.ToUpper(code) + " " + formatted
	}
	symbol := f.printer.Sprintf("%v", currency.Symbol(unit))
	return symbol + formatted
}
