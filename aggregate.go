package dashboard

import "github.com/shopspring/decimal"

// Totals are the portfolio wide sums of the overview rows.
type Totals struct {
	Investment decimal.Decimal
	Fees       decimal.Decimal
	Value      decimal.Decimal
	Profit     decimal.Decimal
}

// ProfitRatio returns Profit/Investment.
func (t Totals) ProfitRatio() float64 { return Ratio(t.Profit, t.Investment) }

// OverviewTotals sums the overview rows.
func OverviewTotals(rows []OverviewRow) Totals {
	var t Totals
	for _, r := range rows {
		t.Investment = t.Investment.Add(r.Invested)
		t.Fees = t.Fees.Add(r.Fee)
		t.Value = t.Value.Add(r.Value)
		t.Profit = t.Profit.Add(r.Profit)
	}
	return t
}

// YearTotals sums one year of performance rows.
func YearTotals(rows []TickerPerformance) Totals {
	var t Totals
	for _, r := range rows {
		t.Investment = t.Investment.Add(r.Investment)
		t.Fees = t.Fees.Add(r.Fee)
		t.Value = t.Value.Add(r.Value)
		t.Profit = t.Profit.Add(r.Profit)
	}
	return t
}

// PriceSeries is an instrument price history in date order.
type PriceSeries []PriceRow

// OnlyClose reports whether the series carries close prices only, in which
// case it is shown as a line rather than as candles.
func (s PriceSeries) OnlyClose() bool {
	for _, r := range s {
		if !r.Open.IsZero() || !r.High.IsZero() || !r.Low.IsZero() {
			return false
		}
	}
	return true
}

// Window returns s[from:to] with both bounds clamped to the series.
func (s PriceSeries) Window(from, to int) PriceSeries {
	from = max(0, min(from, len(s)))
	to = max(from, min(to, len(s)))
	return s[from:to]
}
