package shared

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencyFormatter renders amounts with a locale's digit grouping and a manually
// prefixed currency symbol. Negative amounts always render as "-<symbol><digits>".
type CurrencyFormatter struct {
	symbol  string
	printer *message.Printer
}

// NewCurrencyFormatter builds a formatter for a BCP 47 locale such as "en-IN".
// An unparseable locale falls back to en-IN.
func NewCurrencyFormatter(locale, symbol string) *CurrencyFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"component": "CurrencyFormatter",
			"locale":    locale,
		}).Warn("Invalid currency locale, using en-IN")
		tag = language.MustParse(DefaultCurrencyLocale)
	}
	return &CurrencyFormatter{
		symbol:  symbol,
		printer: message.NewPrinter(tag),
	}
}

// DefaultCurrencyFormatter returns the en-IN rupee formatter
func DefaultCurrencyFormatter() *CurrencyFormatter {
	return NewCurrencyFormatter(DefaultCurrencyLocale, DefaultCurrencySymbol)
}

// Symbol returns the currency symbol prefixed to amounts
func (f *CurrencyFormatter) Symbol() string {
	return f.symbol
}

// FormatNumber renders |value| with grouping and at most two fraction digits
func (f *CurrencyFormatter) FormatNumber(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "0"
	}
	return f.printer.Sprintf("%v", number.Decimal(math.Abs(value), number.MaxFractionDigits(2)))
}

// Format renders a float amount, e.g. "₹1,23,456.5" or "-₹12"
func (f *CurrencyFormatter) Format(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	rounded := math.Round(value*100) / 100
	text := f.symbol + f.FormatNumber(rounded)
	if rounded < 0 {
		return "-" + text
	}
	return text
}

// FormatDecimal renders a decimal amount
func (f *CurrencyFormatter) FormatDecimal(value decimal.Decimal) string {
	return f.Format(value.Round(2).InexactFloat64())
}

// FormatSigned renders an amount with an explicit sign, e.g. "+₹25" or "-₹12".
// Zero renders without a sign.
func (f *CurrencyFormatter) FormatSigned(value decimal.Decimal) string {
	rounded := value.Round(2)
	if rounded.IsPositive() {
		return "+" + f.FormatDecimal(rounded)
	}
	return f.FormatDecimal(rounded)
}

// FormatPercentage renders a percentage rounded to two decimals with trailing zeros
// removed, e.g. 23.5 -> "23.5%", 25 -> "25%", -3.125 -> "-3.13%"
func FormatPercentage(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "0%"
	}
	rounded := RoundTo(value, 2)
	if rounded == 0 {
		rounded = 0 // drop negative zero
	}
	text := strconv.FormatFloat(rounded, 'f', 2, 64)
	text = strings.TrimRight(strings.TrimRight(text, "0"), ".")
	return text + "%"
}

// RoundTo rounds half away from zero to the given number of decimal places
func RoundTo(value float64, places int32) float64 {
	return decimal.NewFromFloat(value).Round(places).InexactFloat64()
}
