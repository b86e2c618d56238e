// Package format renders dashboard numbers for display. Every function is
// total: numeric input always yields a string, anything else is returned
// as-is.
package format

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter formats numbers for one locale and currency.
type Formatter struct {
	printer *message.Printer
	symbol  string
	scale   int
}

// New builds a Formatter. An empty symbol is derived from the currency for
// the locale (R$ for BRL).
func New(locale, code, symbol string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("currency %q: %w", code, err)
	}
	p := message.NewPrinter(tag)
	if symbol == "" {
		symbol = p.Sprint(currency.Symbol(unit))
	}
	scale, _ := currency.Standard.Rounding(unit)
	return &Formatter{printer: p, symbol: symbol, scale: scale}, nil
}

// MustNew is New for values known at compile time.
func MustNew(locale, code, symbol string) *Formatter {
	f, err := New(locale, code, symbol)
	if err != nil {
		panic(err)
	}
	return f
}

// Default formats for the Brazilian dashboard.
var Default = MustNew("pt-BR", "BRL", "R$")

func (f *Formatter) Symbol() string { return f.symbol }

// Currency prefixes the symbol and uses the currency's minor units.
func (f *Formatter) Currency(v any) string {
	x, ok := toFloat(v)
	if !ok {
		return passthrough(v)
	}
	return f.symbol + " " + f.fixed(x, f.scale)
}

// Integer groups thousands. digits overrides the default of no fraction.
func (f *Formatter) Integer(v any, digits ...int) string {
	x, ok := toFloat(v)
	if !ok {
		return passthrough(v)
	}
	d := 0
	if len(digits) > 0 && digits[0] > 0 {
		d = digits[0]
	}
	return f.Decimal(x, d)
}

// Ratio is a two-decimal number followed by suffix, e.g. 7,33x.
func (f *Formatter) Ratio(v any, suffix string) string {
	x, ok := toFloat(v)
	if !ok {
		return passthrough(v)
	}
	return f.Decimal(x, 2) + suffix
}

// Percent expects a value already in percent (12.5 means 12,50%).
func (f *Formatter) Percent(v any) string { return f.Ratio(v, "%") }

// Decimal formats with exactly digits fraction digits.
func (f *Formatter) Decimal(v any, digits int) string {
	x, ok := toFloat(v)
	if !ok {
		return passthrough(v)
	}
	if digits < 0 {
		digits = 0
	}
	return f.fixed(x, digits)
}

// fixed redondea antes de formatear, así -0.001 sale como 0 y no "-0"
func (f *Formatter) fixed(x float64, digits int) string {
	r := decimal.NewFromFloat(x).Round(int32(digits))
	if r.IsZero() {
		return f.printer.Sprint(number.Decimal(0, number.Scale(digits)))
	}
	return f.printer.Sprint(number.Decimal(r.InexactFloat64(), number.Scale(digits)))
}

func toFloat(v any) (float64, bool) {
	var x float64
	switch n := v.(type) {
	case float64:
		x = n
	case float32:
		x = float64(n)
	case int:
		x = float64(n)
	case int8:
		x = float64(n)
	case int16:
		x = float64(n)
	case int32:
		x = float64(n)
	case int64:
		x = float64(n)
	case uint:
		x = float64(n)
	case uint8:
		x = float64(n)
	case uint16:
		x = float64(n)
	case uint32:
		x = float64(n)
	case uint64:
		x = float64(n)
	case decimal.Decimal:
		x = n.InexactFloat64()
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		x = f
	default:
		return 0, false
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, false
	}
	return x, true
}

func passthrough(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
