package dashboard

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/etnz/dashboard/date"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func newTestSection(t *testing.T) (*fakeAPI, *recordingHost, Section) {
	t.Helper()
	api, c := newFakeAPI(t)
	host := &recordingHost{}
	return api, host, NewSection(c, NewFormatter(Config{BaseCurrency: "EUR"}), host)
}

func TestActivate(t *testing.T) {
	api, host, s := newTestSection(t)
	api.on("/overview/get", `{"overview":[
		{"ticker":"AAPL","currency":"USD","value":120,"invested":100,"profit":20,"fee":1},
		{"ticker":"BTC","currency":"EUR","value":80,"invested":100,"profit":-20,"fee":2}
	]}`)

	v := NewOverview(s)
	if err := Activate(context.Background(), host, v); err != nil {
		t.Fatalf("Activate() unexpected error: %v", err)
	}
	if host.heading != "Overview" {
		t.Errorf("heading = %q, want %q", host.heading, "Overview")
	}
	if v.State() != Ready {
		t.Errorf("State() = %v, want %v", v.State(), Ready)
	}
	if len(v.Rows) != 2 {
		t.Fatalf("Rows = %d rows, want 2", len(v.Rows))
	}
	if !v.Totals.Value.Equal(decimal.NewFromInt(200)) || !v.Totals.Profit.IsZero() {
		t.Errorf("Totals = %+v, want value 200 and no profit", v.Totals)
	}
	if host.busy.IsBusy() {
		t.Error("host still busy after Activate()")
	}
}

func TestCharts_Load(t *testing.T) {
	api, _, s := newTestSection(t)
	api.on("/instruments/list", instrumentsJSON)
	api.on("/types/list", `{"types":["stock","crypto"]}`)
	api.on("/charts/get", `{"data":[{"date":"2024-01-01","value":10,"investment":8,"fee":0,"profit":2}]}`)

	v := NewCharts(s, "")
	if err := v.Load(context.Background()); err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	want := []string{"GET /instruments/list", "GET /types/list", "GET /charts/get"}
	if diff := cmp.Diff(want, api.Calls()); diff != "" {
		t.Errorf("Load() calls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"AAPL", "BTC", "SAVINGS"}, v.Tickers); diff != "" {
		t.Errorf("Tickers mismatch (-want +got):\n%s", diff)
	}
	if len(v.Rows) != 1 {
		t.Errorf("Rows = %d rows, want 1", len(v.Rows))
	}
}

func TestCharts_SetFilter(t *testing.T) {
	api, _, s := newTestSection(t)
	api.on("/charts/get", `{"data":[
		{"date":"2024-01-01","value":1},
		{"date":"2024-01-02","value":2}
	]}`)

	v := NewCharts(s, "")
	v.Rows = []ChartRow{{Value: decimal.NewFromInt(99)}}
	if err := v.SetFilter(context.Background(), "crypto"); err != nil {
		t.Fatalf("SetFilter() unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"GET /charts/get?filter=crypto"}, api.Calls()); diff != "" {
		t.Errorf("SetFilter() calls mismatch (-want +got):\n%s", diff)
	}
	if len(v.Rows) != 2 || !v.Rows[1].Value.Equal(decimal.NewFromInt(2)) {
		t.Errorf("Rows = %+v, want the 2 fetched rows", v.Rows)
	}
	if v.Filter != "crypto" {
		t.Errorf("Filter = %q, want %q", v.Filter, "crypto")
	}
}

func TestCharts_FailureKeepsData(t *testing.T) {
	api, host, s := newTestSection(t)
	api.on("/instruments/list", instrumentsJSON)
	api.fail("/types/list", http.StatusInternalServerError)

	v := NewCharts(s, "")
	previous := []ChartRow{{Value: decimal.NewFromInt(7)}}
	v.Rows = previous
	err := v.Load(context.Background())

	var serr *StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("Load() error = %v, want a *StatusError", err)
	}
	if v.State() != Failed || v.Err() == nil {
		t.Errorf("State() = %v, Err() = %v, want failed with an error", v.State(), v.Err())
	}
	if diff := cmp.Diff(previous, v.Rows, cmp.AllowUnexported(date.Date{})); diff != "" {
		t.Errorf("Rows changed on failure (-want +got):\n%s", diff)
	}
	// the chain stops at the failure
	want := []string{"GET /instruments/list", "GET /types/list"}
	if diff := cmp.Diff(want, api.Calls()); diff != "" {
		t.Errorf("Load() calls mismatch (-want +got):\n%s", diff)
	}
	if host.busy.IsBusy() {
		t.Error("host still busy after a failed Load()")
	}
}

func TestPrices(t *testing.T) {
	api, _, s := newTestSection(t)
	api.on("/instruments/list", instrumentsJSON)
	api.on("/prices/get", `{"data":[
		{"date":"2024-01-01","open":1,"close":2,"high":2,"low":1},
		{"date":"2024-01-02","open":2,"close":1,"high":2,"low":1},
		{"date":"2024-01-03","open":1,"close":3,"high":3,"low":1}
	]}`)

	v := NewPrices(s)
	ctx := context.Background()
	if err := v.Load(ctx); err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"AAPL", "BTC"}, v.Instruments.Tickers()); diff != "" {
		t.Errorf("manual instruments must be excluded (-want +got):\n%s", diff)
	}

	if err := v.SetFilter(ctx, "AAPL"); err != nil {
		t.Fatalf("SetFilter() unexpected error: %v", err)
	}
	if v.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", v.Currency)
	}
	if got := len(v.Visible()); got != 3 {
		t.Errorf("Visible() = %d rows, want the whole series", got)
	}
	if v.Series[1].Rising() {
		t.Error("Series[1].Rising() = true, want false")
	}

	v.SetDateWindow(date.Range{From: date.New(2024, time.January, 2)})
	if got := v.Visible(); len(got) != 2 || got[0].Date != date.New(2024, time.January, 2) {
		t.Errorf("Visible() after SetDateWindow = %+v, want the last 2 rows", got)
	}
	v.SetDateWindow(date.Range{From: date.New(2030, time.January, 1)})
	if got := len(v.Visible()); got != 0 {
		t.Errorf("Visible() out of range = %d rows, want 0", got)
	}
}

func TestPrices_SetPeriod(t *testing.T) {
	v := NewPrices(Section{})
	v.Series = PriceSeries{
		{Date: date.New(2023, time.December, 29)},
		{Date: date.New(2024, time.January, 2)},
		{Date: date.New(2024, time.January, 3)},
	}
	v.SetPeriod(date.Yearly)
	if got := v.Visible(); len(got) != 2 || got[0].Date != date.New(2024, time.January, 2) {
		t.Errorf("Visible() for the latest year = %+v, want the 2024 rows", got)
	}
	v.SetPeriod(date.Weekly)
	if got := len(v.Visible()); got != 2 {
		t.Errorf("Visible() for the latest week = %d rows, want 2", got)
	}

	empty := NewPrices(Section{})
	empty.SetPeriod(date.Monthly)
	if got := len(empty.Visible()); got != 0 {
		t.Errorf("Visible() of an empty series = %d rows, want 0", got)
	}
}

func TestPerformanceView(t *testing.T) {
	api, _, s := newTestSection(t)
	api.on("/performance/get", `{"2024":{"B":{"investment":10,"profit":1}},"2023":{"A":{"investment":10,"profit":2}}}`)

	v := NewPerformance(s)
	if err := v.Load(context.Background()); err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"2023", "2024"}, v.Data.Years()); diff != "" {
		t.Errorf("Years() mismatch (-want +got):\n%s", diff)
	}
}
