package presentation

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DefaultLocale   = "en"
	DefaultCurrency = "R$"
)

// Formatter renders KPI values for display.
type Formatter struct {
	printer  *message.Printer
	currency string
}

func NewFormatter(locale, currency string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	return &Formatter{
		printer:  message.NewPrinter(tag),
		currency: currency,
	}, nil
}

// DefaultFormatter formats with the "en" locale and the R$ symbol.
func DefaultFormatter() *Formatter {
	return &Formatter{
		printer:  message.NewPrinter(language.English),
		currency: DefaultCurrency,
	}
}

func (f *Formatter) CurrencySymbol() string {
	return f.currency
}

// Currency formats d with two decimals and the locale's grouping.
func (f *Formatter) Currency(d decimal.Decimal) string {
	return f.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

func (f *Formatter) Rating(v float64) string {
	return f.printer.Sprintf("%.2f", v)
}

func (f *Formatter) Count(n int) string {
	return strconv.Itoa(n)
}
