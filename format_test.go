package dashboard

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

func usd() *Formatter { return NewFormatter(Config{BaseCurrency: "USD", LanguageLocale: "en-US"}) }

func TestFormatter_Currency_Zero(t *testing.T) {
	for _, f := range []*Formatter{usd(), NewFormatter(Config{})} {
		if got := f.Currency(decimal.Zero); got != "" {
			t.Errorf("Currency(0) = %q, want empty", got)
		}
		if got := f.Currency(decimal.Zero, WithCurrency("EUR")); got != "" {
			t.Errorf("Currency(0, EUR) = %q, want empty", got)
		}
	}
}

func TestFormatter_Currency(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		v    float64
		opts []CurrencyOption
		want string
	}{
		{"base", Config{BaseCurrency: "USD", LanguageLocale: "en-US"}, 1234.5, nil, "$1,234.50"},
		{"negative", Config{BaseCurrency: "USD", LanguageLocale: "en-US"}, -20, nil, "-$20.00"},
		{"signed", Config{BaseCurrency: "USD", LanguageLocale: "en-US"}, 20, []CurrencyOption{Signed()}, "+$20.00"},
		{"signed negative", Config{BaseCurrency: "USD", LanguageLocale: "en-US"}, -20, []CurrencyOption{Signed()}, "-$20.00"},
		{"override", Config{BaseCurrency: "EUR", LanguageLocale: "en-US"}, 10, []CurrencyOption{WithCurrency("USD")}, "$10.00"},
		{"no base but override", Config{LanguageLocale: "en-US"}, 10, []CurrencyOption{WithCurrency("USD")}, "$10.00"},
		{"empty override keeps base", Config{BaseCurrency: "USD", LanguageLocale: "en-US"}, 10, []CurrencyOption{WithCurrency("")}, "$10.00"},
		{"no currency", Config{LanguageLocale: "en-US"}, 10, nil, ""},
		{"unknown currency", Config{BaseCurrency: "XXXX", LanguageLocale: "en-US"}, 10, nil, ""},
		{"invalid locale falls back", Config{BaseCurrency: "USD", LanguageLocale: "not a locale"}, 1000, nil, "$1,000.00"},
		{"zero fraction currency", Config{BaseCurrency: "JPY", LanguageLocale: "en-US"}, 1500, nil, "¥1,500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewFormatter(tt.cfg).Currency(decimal.NewFromFloat(tt.v), tt.opts...)
			if got != tt.want {
				t.Errorf("Currency(%v) = %q, want %q", tt.v, got, tt.want)
			}
		})
	}
}

func TestFormatter_Currency_Locale(t *testing.T) {
	tests := []struct {
		cfg  Config
		v    string
		opts []CurrencyOption
		want string
	}{
		{Config{BaseCurrency: "EUR", LanguageLocale: "de-DE"}, "1234.5", nil, "1.234,50\u00a0€"},
		{Config{BaseCurrency: "EUR", LanguageLocale: "de-DE"}, "-1234.5", nil, "-1.234,50\u00a0€"},
		{Config{BaseCurrency: "EUR", LanguageLocale: "de-DE"}, "20", []CurrencyOption{Signed()}, "+20,00\u00a0€"},
		{Config{BaseCurrency: "EUR", LanguageLocale: "fr-FR"}, "-12.5", nil, "-12,50\u00a0€"},
		{Config{BaseCurrency: "EUR", LanguageLocale: "fr"}, "12.5", []CurrencyOption{WithCurrency("USD")}, "12,50\u00a0$"},
		{Config{BaseCurrency: "CZK", LanguageLocale: "cs-CZ"}, "12.5", nil, "12,50\u00a0Kč"},
		{Config{BaseCurrency: "EUR", LanguageLocale: "en-US"}, "-1234.5", nil, "-€1,234.50"},
		{Config{BaseCurrency: "CZK", LanguageLocale: "en-US"}, "12.5", nil, "Kč12.50"},
		{Config{BaseCurrency: "BRL", LanguageLocale: "pt-BR"}, "12.5", nil, "R$12,50"},
	}
	for _, tt := range tests {
		t.Run(tt.cfg.LanguageLocale+" "+tt.v, func(t *testing.T) {
			got := NewFormatter(tt.cfg).Currency(decimal.RequireFromString(tt.v), tt.opts...)
			if got != tt.want {
				t.Errorf("Currency(%s) = %q, want %q", tt.v, got, tt.want)
			}
		})
	}
}

func TestSymbolAfter(t *testing.T) {
	tests := []struct {
		tag  string
		want bool
	}{
		{"en-US", false},
		{"en-GB", false},
		{"ja-JP", false},
		{"de-DE", true},
		{"de-CH", false},
		{"fr-CA", true},
		{"pt-PT", true},
		{"pt-BR", false},
	}
	for _, tt := range tests {
		if got := symbolAfter(language.MustParse(tt.tag)); got != tt.want {
			t.Errorf("symbolAfter(%s) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestFormatter_Percents(t *testing.T) {
	f := usd()
	tests := []struct {
		v    float64
		want string
	}{
		{0.15, "15.0%"},
		{1, "100.0%"},
		{-10.0 / 300, "-3.3%"},
		{0, ""},
		{math.NaN(), ""},
		{math.Inf(1), ""},
		{math.Inf(-1), ""},
	}
	for _, tt := range tests {
		if got := f.Percents(tt.v); got != tt.want {
			t.Errorf("Percents(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestRatio(t *testing.T) {
	if got := Ratio(decimal.NewFromInt(10), decimal.NewFromInt(200)); got != 0.05 {
		t.Errorf("Ratio(10, 200) = %v, want 0.05", got)
	}
	if got := Ratio(decimal.NewFromInt(10), decimal.Zero); !math.IsInf(got, 1) {
		t.Errorf("Ratio(10, 0) = %v, want +Inf", got)
	}
	if got := Ratio(decimal.Zero, decimal.Zero); !math.IsNaN(got) {
		t.Errorf("Ratio(0, 0) = %v, want NaN", got)
	}
	if got := usd().Percents(Ratio(decimal.NewFromInt(10), decimal.Zero)); got != "" {
		t.Errorf("Percents(Ratio(10, 0)) = %q, want empty", got)
	}
}
