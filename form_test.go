package dashboard

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNumberIsValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"  ", true},
		{"0", true},
		{"-12.5", true},
		{" 3 ", true},
		{"1e3", true},
		{"abc", false},
		{"1,5", false},
		{"NaN", false},
		{"12.", true},
		{"--1", false},
		{"inf", false},
		{"+Inf", false},
		{"-infinity", false},
		{"1_0", false},
		{"1e400", false},
	}
	for _, tt := range tests {
		if got := NumberIsValid(tt.in); got != tt.want {
			t.Errorf("NumberIsValid(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func testInstruments() Instruments {
	return Instruments{
		{Ticker: "AAPL", Type: "stock", Evaluation: EvalYFinance, DividendCurrency: "USD"},
		{Ticker: "BTC", Type: "crypto", Evaluation: EvalHTTP},
		{Ticker: "SAVINGS", Type: "account", Evaluation: EvalManual},
	}
}

func TestRecordKind_TickerChoices(t *testing.T) {
	tests := []struct {
		kind RecordKind
		want []string
	}{
		{KindTrades, []string{"AAPL", "BTC"}},
		{KindDeposits, []string{"SAVINGS"}},
		{KindValues, []string{"SAVINGS"}},
		{KindDividends, []string{"AAPL"}},
		{KindStaking, []string{"BTC"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got := tt.kind.TickerChoices(testInstruments()).Tickers()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("TickerChoices() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewRecordForm_ValuesOnlyManual(t *testing.T) {
	f := NewRecordForm(KindValues, testInstruments())
	if err := f.Set("ticker", "AAPL"); !errors.Is(err, ErrNotAChoice) {
		t.Errorf("Set(ticker, AAPL) on a value form = %v, want %v", err, ErrNotAChoice)
	}
	if err := f.Set("ticker", "SAVINGS"); err != nil {
		t.Errorf("Set(ticker, SAVINGS) on a value form = %v, want nil", err)
	}
}

func TestNewRecordForm_Defaults(t *testing.T) {
	f := NewRecordForm(KindTrades, testInstruments())
	want := map[string]string{"date": "", "ticker": "", "volume": "0", "price": "0", "rate": "1", "fee": "0"}
	if diff := cmp.Diff(want, f.Row()); diff != "" {
		t.Errorf("trade form defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestForm_Submittable(t *testing.T) {
	tests := []struct {
		kind   RecordKind
		values map[string]string
		want   bool
	}{
		{KindTrades, map[string]string{"ticker": "AAPL"}, false},
		{KindTrades, map[string]string{"date": "2024-01-01"}, false},
		{KindTrades, map[string]string{"ticker": "AAPL", "date": "2024-01-01"}, true},
		{KindValues, map[string]string{"ticker": "SAVINGS", "date": "2024-01-01"}, false},
		{KindValues, map[string]string{"ticker": "SAVINGS", "date": "2024-01-01", "value": "1000"}, true},
		{KindStaking, map[string]string{"ticker": "BTC", "date": "2024-01-01"}, false},
		{KindStaking, map[string]string{"ticker": "BTC", "date": "2024-01-01", "volume": "0.1"}, true},
		{KindDeposits, map[string]string{"ticker": "SAVINGS", "date": "2024-01-01"}, true},
		{KindDividends, map[string]string{"ticker": "AAPL", "date": "2024-01-01"}, true},
	}
	for _, tt := range tests {
		f := NewRecordForm(tt.kind, testInstruments())
		for k, v := range tt.values {
			if err := f.Set(k, v); err != nil {
				t.Fatalf("%s: Set(%s, %s) unexpected error: %v", tt.kind, k, v, err)
			}
		}
		if got := f.Submittable(); got != tt.want {
			t.Errorf("%s %v: Submittable() = %v, want %v", tt.kind, tt.values, got, tt.want)
		}
	}
}

func TestForm_Set(t *testing.T) {
	f := NewRecordForm(KindTrades, testInstruments())

	if err := f.Set("color", "red"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Set(color) error = %v, want ErrUnknownField", err)
	}
	if err := f.Set("ticker", "SAVINGS"); !errors.Is(err, ErrNotAChoice) {
		t.Errorf("Set(ticker, SAVINGS) error = %v, want ErrNotAChoice", err)
	}
	if got := f.Value("ticker"); got != "" {
		t.Errorf("rejected choice changed the field to %q", got)
	}

	f.Set("ticker", "AAPL")
	f.Set("date", "2024-01-01")
	if err := f.Set("price", "12,5"); !errors.Is(err, ErrInvalidNumber) {
		t.Errorf("Set(price, 12,5) error = %v, want ErrInvalidNumber", err)
	}
	if f.Valid("price") || f.Value("price") != "12,5" {
		t.Errorf("invalid number must be kept and flagged: Valid = %v, Value = %q", f.Valid("price"), f.Value("price"))
	}
	if err := f.Check(); !errors.Is(err, ErrNotSubmittable) {
		t.Errorf("Check() error = %v, want ErrNotSubmittable", err)
	}
	if err := f.Set("price", "12.5"); err != nil {
		t.Fatalf("Set(price, 12.5) unexpected error: %v", err)
	}
	if err := f.Check(); err != nil {
		t.Errorf("Check() unexpected error: %v", err)
	}

	f.Reset()
	if got := f.Value("price"); got != "0" {
		t.Errorf("Reset() price = %q, want 0", got)
	}
}

func TestParseRecordKind(t *testing.T) {
	if k, err := ParseRecordKind("staking"); err != nil || k != KindStaking {
		t.Errorf("ParseRecordKind(staking) = %q, %v", k, err)
	}
	if _, err := ParseRecordKind("loans"); err == nil {
		t.Error("ParseRecordKind(loans) expected an error")
	}
	if got := KindDividends.Title(); got != "Dividends" {
		t.Errorf("Title() = %q, want Dividends", got)
	}
}
