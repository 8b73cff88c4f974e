package dashboard

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLocale is used when the configured locale is empty or invalid.
var DefaultLocale = language.AmericanEnglish

// Formatter renders amounts and ratios according to the configuration:
// the base currency is the default currency and the locale drives digit
// grouping, decimal separators and the side of the currency symbol.
//
// Formatter follows the dashboard convention that nothing is shown for a
// zero amount: every method returns "" where a figure would be 0.
type Formatter struct {
	cfg     Config
	printer *message.Printer
	after   bool // currency symbol after the amount
}

// NewFormatter returns a Formatter for cfg.
func NewFormatter(cfg Config) *Formatter {
	tag, err := language.Parse(cfg.LanguageLocale)
	if err != nil || cfg.LanguageLocale == "" {
		tag = DefaultLocale
	}
	return &Formatter{cfg: cfg, printer: message.NewPrinter(tag), after: symbolAfter(tag)}
}

// symbolAfterLanguages are the languages whose CLDR currency pattern puts the
// symbol after the amount, separated by a no-break space ("1.234,50 €").
var symbolAfterLanguages = map[string]bool{
	"be": true, "bg": true, "ca": true, "cs": true, "da": true, "de": true,
	"el": true, "es": true, "et": true, "eu": true, "fi": true, "fr": true,
	"gl": true, "hr": true, "hu": true, "is": true, "it": true, "lt": true,
	"lv": true, "nb": true, "nn": true, "no": true, "pl": true, "pt": true,
	"ro": true, "ru": true, "sk": true, "sl": true, "sr": true, "sv": true,
	"uk": true,
}

// symbolBeforeRegions overrides symbolAfterLanguages for regional variants
// putting the symbol first.
var symbolBeforeRegions = map[string]bool{
	"de-CH": true, "de-LI": true, "it-CH": true, "pt-BR": true,
	"es-MX": true, "es-US": true, "es-419": true,
}

// symbolAfter reports whether tag writes the currency symbol after the amount.
func symbolAfter(tag language.Tag) bool {
	base, _ := tag.Base()
	region, _ := tag.Region()
	if symbolBeforeRegions[base.String()+"-"+region.String()] {
		return false
	}
	return symbolAfterLanguages[base.String()]
}

// Config returns the configuration the formatter was built with.
func (f *Formatter) Config() Config { return f.cfg }

type currencyOptions struct {
	currency string
	signed   bool
}

// CurrencyOption customizes Formatter.Currency.
type CurrencyOption func(*currencyOptions)

// WithCurrency overrides the base currency. An empty code keeps the base currency.
func WithCurrency(code string) CurrencyOption {
	return func(o *currencyOptions) { o.currency = code }
}

// Signed displays a '+' in front of positive amounts.
func Signed() CurrencyOption {
	return func(o *currencyOptions) { o.signed = true }
}

// Currency formats v as a currency amount.
//
// It returns "" when v is zero, or when no currency can be resolved from the
// options or the base currency.
func (f *Formatter) Currency(v decimal.Decimal, opts ...CurrencyOption) string {
	o := currencyOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	code := o.currency
	if code == "" {
		code = f.cfg.BaseCurrency
	}
	if v.IsZero() || code == "" {
		return ""
	}
	cur := money.GetCurrency(strings.ToUpper(code))
	if cur == nil {
		return ""
	}

	amount := f.printer.Sprint(number.Decimal(v.Abs().InexactFloat64(), number.Scale(cur.Fraction)))
	s := cur.Grapheme + amount
	if f.after {
		s = amount + "\u00a0" + cur.Grapheme
	}

	switch {
	case v.IsNegative():
		return "-" + s
	case o.signed:
		return "+" + s
	}
	return s
}

// Percents formats a ratio as a percentage with one fraction digit (0.15 -> "15.0%").
//
// It returns "" for 0, NaN and infinities, the latter being the result of a
// Ratio with a zero denominator.
func (f *Formatter) Percents(v float64) string {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return f.printer.Sprint(number.Percent(v, number.Scale(1)))
}

// Number formats a plain quantity (volumes, splits) with the locale separators.
// Zero returns "".
func (f *Formatter) Number(v decimal.Decimal) string {
	if v.IsZero() {
		return ""
	}
	return f.printer.Sprint(number.Decimal(v.InexactFloat64(), number.MaxFractionDigits(8)))
}

// Ratio returns num/den as a float. A zero denominator is not guarded: it
// yields NaN or an infinity, like a plain float division would.
func Ratio(num, den decimal.Decimal) float64 {
	return num.InexactFloat64() / den.InexactFloat64()
}
