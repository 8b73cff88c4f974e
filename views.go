package dashboard

import (
	"context"

	"github.com/etnz/dashboard/date"
)

// Overview is the per instrument snapshot and its portfolio totals.
type Overview struct {
	Section
	Rows   []OverviewRow
	Totals Totals
}

// NewOverview returns the Overview view.
func NewOverview(s Section) *Overview { return &Overview{Section: s} }

func (v *Overview) Name() string { return "Overview" }

func (v *Overview) Load(ctx context.Context) error {
	return v.run(ctx, "overview", func(ctx context.Context) error {
		rows, err := v.Client.Overview(ctx)
		if err != nil {
			return err
		}
		v.Rows, v.Totals = rows, OverviewTotals(rows)
		return nil
	})
}

// PerformanceView is the yearly performance per instrument.
type PerformanceView struct {
	Section
	Data Performance
}

// NewPerformance returns the Performance view.
func NewPerformance(s Section) *PerformanceView { return &PerformanceView{Section: s} }

func (v *PerformanceView) Name() string { return "Performance" }

func (v *PerformanceView) Load(ctx context.Context) error {
	return v.run(ctx, "performance", func(ctx context.Context) error {
		data, err := v.Client.Performance(ctx)
		if err != nil {
			return err
		}
		v.Data = data
		return nil
	})
}

// Charts is the portfolio time series, optionally filtered by instrument
// ticker or type.
type Charts struct {
	Section
	Filter  string
	Tickers []string
	Types   []string
	Rows    []ChartRow
}

// NewCharts returns the Charts view, showing filter once loaded.
func NewCharts(s Section, filter string) *Charts { return &Charts{Section: s, Filter: filter} }

func (v *Charts) Name() string { return "Charts" }

// Load fetches the filter choices (instruments, then types) then the series.
func (v *Charts) Load(ctx context.Context) error {
	return v.run(ctx, "charts", func(ctx context.Context) error {
		instruments, err := v.Client.Instruments(ctx)
		if err != nil {
			return err
		}
		types, err := v.Client.Types(ctx)
		if err != nil {
			return err
		}
		rows, err := v.Client.Charts(ctx, v.Filter)
		if err != nil {
			return err
		}
		v.Tickers, v.Types, v.Rows = instruments.Tickers(), types, rows
		return nil
	})
}

// SetFilter changes the filter and replaces the series with a single fetch.
func (v *Charts) SetFilter(ctx context.Context, filter string) error {
	v.Filter = filter
	return v.run(ctx, "charts filter", func(ctx context.Context) error {
		rows, err := v.Client.Charts(ctx, filter)
		if err != nil {
			return err
		}
		v.Rows = rows
		return nil
	})
}

// Prices is the price history of one instrument.
type Prices struct {
	Section
	Instruments Instruments // choices, manually valued ones excluded
	Filter      string
	Currency    string // currency of the selected instrument
	Series      PriceSeries
	From, To    int // visible window of Series
}

// NewPrices returns the Prices view.
func NewPrices(s Section) *Prices { return &Prices{Section: s} }

func (v *Prices) Name() string { return "Prices" }

// Load fetches the instruments that have a price history.
func (v *Prices) Load(ctx context.Context) error {
	return v.run(ctx, "prices", func(ctx context.Context) error {
		l, err := v.Client.Instruments(ctx)
		if err != nil {
			return err
		}
		v.Instruments = l.Filter(func(in Instrument) bool { return in.Evaluation != EvalManual })
		return nil
	})
}

// SetFilter selects an instrument, fetches its series, and shows it whole.
func (v *Prices) SetFilter(ctx context.Context, ticker string) error {
	in, _ := v.Instruments.Find(ticker)
	v.Filter, v.Currency = ticker, in.Currency
	return v.run(ctx, "prices filter", func(ctx context.Context) error {
		series, err := v.Client.Prices(ctx, ticker)
		if err != nil {
			return err
		}
		v.Series, v.From, v.To = series, 0, len(series)
		return nil
	})
}

// SetWindow restricts the visible rows to Series[from:to].
func (v *Prices) SetWindow(from, to int) { v.From, v.To = from, to }

// SetDateWindow restricts the visible rows to the dates in r.
func (v *Prices) SetDateWindow(r date.Range) {
	from, to := len(v.Series), 0
	for i, row := range v.Series {
		if r.Contains(row.Date) {
			from, to = min(from, i), i+1
		}
	}
	if to == 0 {
		from = 0
	}
	v.SetWindow(from, to)
}

// SetPeriod restricts the visible rows to the calendar period of the latest row.
func (v *Prices) SetPeriod(p date.Period) {
	var last date.Date
	for _, row := range v.Series {
		if row.Date.After(last) {
			last = row.Date
		}
	}
	if last.IsZero() {
		return
	}
	v.SetDateWindow(date.NewRange(last, p))
}

// Visible returns the rows in the window.
func (v *Prices) Visible() PriceSeries { return v.Series.Window(v.From, v.To) }
