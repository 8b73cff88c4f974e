package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSettings_Load(t *testing.T) {
	api, _, s := newTestSection(t)
	api.on("/currencies/list", `{"currencies":["EUR","USD"]}`)
	api.on("/types/list", `{"types":["stock"]}`)
	api.on("/instruments/list", instrumentsJSON)

	v := NewSettings(s)
	if err := v.Load(context.Background()); err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	want := []string{"GET /currencies/list", "GET /types/list", "GET /instruments/list"}
	if diff := cmp.Diff(want, api.Calls()); diff != "" {
		t.Errorf("Load() calls mismatch (-want +got):\n%s", diff)
	}
	if !v.IsBase("EUR") || v.IsBase("USD") {
		t.Error("IsBase() must only hold for EUR")
	}
}

func TestSettings_AddCurrency(t *testing.T) {
	api, _, s := newTestSection(t)
	api.on("/currencies/list", `["EUR","USD","CHF"]`)

	v := NewSettings(s)
	ctx := context.Background()
	if err := v.AddCurrency(ctx, "  "); !errors.Is(err, ErrNotSubmittable) {
		t.Errorf("AddCurrency(blank) error = %v, want ErrNotSubmittable", err)
	}
	if err := v.AddCurrency(ctx, "CHF"); err != nil {
		t.Fatalf("AddCurrency() unexpected error: %v", err)
	}
	want := []string{"POST /currencies/new", "GET /currencies/list"}
	if diff := cmp.Diff(want, api.Calls()); diff != "" {
		t.Errorf("AddCurrency() calls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]map[string]any{{"currency": "CHF"}}, api.Posted("/currencies/new")); diff != "" {
		t.Errorf("AddCurrency() body mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"EUR", "USD", "CHF"}, v.Currencies); diff != "" {
		t.Errorf("Currencies mismatch (-want +got):\n%s", diff)
	}
}

func TestSettings_AddType(t *testing.T) {
	api, _, s := newTestSection(t)
	api.on("/types/list", `["stock","bond"]`)

	v := NewSettings(s)
	if err := v.AddType(context.Background(), "bond"); err != nil {
		t.Fatalf("AddType() unexpected error: %v", err)
	}
	want := []string{"POST /types/new", "GET /types/list"}
	if diff := cmp.Diff(want, api.Calls()); diff != "" {
		t.Errorf("AddType() calls mismatch (-want +got):\n%s", diff)
	}
}

func TestSettings_AddInstrument(t *testing.T) {
	api, _, s := newTestSection(t)
	api.on("/instruments/list", instrumentsJSON)

	v := NewSettings(s)
	v.Currencies, v.Types = []string{"EUR", "USD"}, []string{"stock"}
	f := v.InstrumentForm()
	ctx := context.Background()

	if err := v.AddInstrument(ctx, f); !errors.Is(err, ErrNotSubmittable) {
		t.Errorf("AddInstrument(empty) error = %v, want ErrNotSubmittable", err)
	}
	if err := f.Set("currency", "JPY"); !errors.Is(err, ErrNotAChoice) {
		t.Errorf("Set(currency, JPY) error = %v, want ErrNotAChoice", err)
	}
	f.Set("ticker", "MSFT")
	f.Set("currency", "USD")
	f.Set("type", "stock")
	if err := v.AddInstrument(ctx, f); err != nil {
		t.Fatalf("AddInstrument() unexpected error: %v", err)
	}
	posted := []map[string]any{{
		"ticker": "MSFT", "currency": "USD", "type": "stock", "evaluation": "yfinance", "eval_param": "", "dividend_currency": "",
	}}
	if diff := cmp.Diff(posted, api.Posted("/instruments/new")); diff != "" {
		t.Errorf("AddInstrument() body mismatch (-want +got):\n%s", diff)
	}
	if len(v.Instruments) != 3 {
		t.Errorf("Instruments = %d, want the 3 reloaded", len(v.Instruments))
	}
}
