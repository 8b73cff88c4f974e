package dashboard

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/etnz/dashboard/date"
	"github.com/shopspring/decimal"
)

// Config is the process wide configuration served by the API.
// It is loaded once and only read afterwards.
type Config struct {
	BaseCurrency   string `json:"base_currency"`
	LanguageLocale string `json:"language_locale"`
}

// LastData holds the dates of the most recent market data known to the API.
type LastData struct {
	Historical  date.Date `json:"historical"`
	FX          date.Date `json:"fx"`
	ManualValue date.Date `json:"manual_value"`
}

// EvaluationMode tells how the current price of an instrument is sourced.
type EvaluationMode string

const (
	EvalYFinance EvaluationMode = "yfinance"
	EvalManual   EvaluationMode = "manual"
	EvalHTTP     EvaluationMode = "http"
)

// EvaluationModes lists the known modes, in menu order.
var EvaluationModes = []EvaluationMode{EvalYFinance, EvalManual, EvalHTTP}

// ParseEvaluationMode returns the mode named s.
func ParseEvaluationMode(s string) (EvaluationMode, error) {
	for _, m := range EvaluationModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown evaluation mode %q, want one of %v", s, EvaluationModes)
}

// Instrument is the reference data of a tracked asset.
type Instrument struct {
	Ticker           string         `json:"ticker"`
	Currency         string         `json:"currency"`
	Type             string         `json:"type"`
	Evaluation       EvaluationMode `json:"evaluation"`
	EvalParam        string         `json:"eval_param"`
	DividendCurrency string         `json:"dividend_currency"`
}

// Instruments is a list of instruments as returned by /instruments/list.
type Instruments []Instrument

// Find returns the instrument with the given ticker.
func (l Instruments) Find(ticker string) (Instrument, bool) {
	for _, in := range l {
		if in.Ticker == ticker {
			return in, true
		}
	}
	return Instrument{}, false
}

// Filter returns the instruments for which keep returns true.
func (l Instruments) Filter(keep func(Instrument) bool) Instruments {
	res := make(Instruments, 0, len(l))
	for _, in := range l {
		if keep(in) {
			res = append(res, in)
		}
	}
	return res
}

// Tickers returns the tickers in list order.
func (l Instruments) Tickers() []string {
	res := make([]string, 0, len(l))
	for _, in := range l {
		res = append(res, in.Ticker)
	}
	return res
}

// OverviewRow is the server computed snapshot of one instrument.
type OverviewRow struct {
	Ticker                string          `json:"ticker"`
	Currency              string          `json:"currency"`
	LastPrice             decimal.Decimal `json:"last_price"`
	Volume                decimal.Decimal `json:"volume"`
	Value                 decimal.Decimal `json:"value"`
	Fee                   decimal.Decimal `json:"fee"`
	Invested              decimal.Decimal `json:"invested"`
	Profit                decimal.Decimal `json:"profit"`
	ManualValueCorrection decimal.Decimal `json:"manual_value_correction"`
}

// ProfitRatio returns profit/invested.
func (r OverviewRow) ProfitRatio() float64 { return Ratio(r.Profit, r.Invested) }

// PerformanceRow is the yearly performance of one instrument.
type PerformanceRow struct {
	Fee        decimal.Decimal `json:"fee"`
	Investment decimal.Decimal `json:"investment"`
	Value      decimal.Decimal `json:"value"`
	Profit     decimal.Decimal `json:"profit"`
}

// ProfitRatio returns profit/investment.
func (r PerformanceRow) ProfitRatio() float64 { return Ratio(r.Profit, r.Investment) }

// Performance is the /performance/get payload: rows by year then by ticker.
type Performance map[string]map[string]PerformanceRow

// Years returns the years in ascending order.
func (p Performance) Years() []string {
	return slices.SortedFunc(maps.Keys(p), func(a, b string) int {
		ai, aerr := strconv.Atoi(a)
		bi, berr := strconv.Atoi(b)
		if aerr == nil && berr == nil {
			return ai - bi
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
		return 0
	})
}

// TickerPerformance is one row of a performance year.
type TickerPerformance struct {
	Ticker string
	PerformanceRow
}

// Year returns the rows of year sorted by ticker.
func (p Performance) Year(year string) []TickerPerformance {
	rows := p[year]
	res := make([]TickerPerformance, 0, len(rows))
	for _, t := range slices.Sorted(maps.Keys(rows)) {
		res = append(res, TickerPerformance{Ticker: t, PerformanceRow: rows[t]})
	}
	return res
}

// ChartRow is one point of the portfolio time series.
type ChartRow struct {
	Date       date.Date       `json:"date"`
	Value      decimal.Decimal `json:"value"`
	Investment decimal.Decimal `json:"investment"`
	Fee        decimal.Decimal `json:"fee"`
	Profit     decimal.Decimal `json:"profit"`
}

// PriceRow is one OHLC point of an instrument price series.
type PriceRow struct {
	Date      date.Date       `json:"date"`
	Open      decimal.Decimal `json:"open"`
	Close     decimal.Decimal `json:"close"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Dividends decimal.Decimal `json:"dividends"`
	Splits    decimal.Decimal `json:"splits"`
}

// Rising reports whether the close is at or above the open.
func (r PriceRow) Rising() bool { return r.Close.GreaterThanOrEqual(r.Open) }

// Trade is a buy (positive volume) or sell (negative volume) record.
type Trade struct {
	ID       int64           `json:"id,omitempty"`
	Date     date.Date       `json:"date"`
	Ticker   string          `json:"ticker"`
	Volume   decimal.Decimal `json:"volume"`
	Price    decimal.Decimal `json:"price"`
	Fee      decimal.Decimal `json:"fee"`
	Rate     decimal.Decimal `json:"rate"`
	Currency string          `json:"currency"`
}

// Deposit is a cash movement into a manually valued instrument.
type Deposit struct {
	Date     date.Date       `json:"date"`
	Ticker   string          `json:"ticker"`
	Amount   decimal.Decimal `json:"amount"`
	Fee      decimal.Decimal `json:"fee"`
	Currency string          `json:"currency"`
}

// Value is a manual valuation of an instrument.
type Value struct {
	Date     date.Date       `json:"date"`
	Ticker   string          `json:"ticker"`
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency"`
}

// Dividend is a dividend received for an instrument.
type Dividend struct {
	Date     date.Date       `json:"date"`
	Ticker   string          `json:"ticker"`
	Dividend decimal.Decimal `json:"dividend"`
}

// Staking is a staking reward, in units of the instrument.
type Staking struct {
	Date     date.Date       `json:"date"`
	Ticker   string          `json:"ticker"`
	Volume   decimal.Decimal `json:"volume"`
	Currency string          `json:"currency"`
}

// DividendCalc is a dividend computed by the API from the held volume.
type DividendCalc struct {
	Date     date.Date       `json:"date"`
	Ticker   string          `json:"ticker"`
	Volume   decimal.Decimal `json:"volume"`
	Dividend decimal.Decimal `json:"dividend"`
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency"`
}

// DividendSum is a dividend total computed by the API.
type DividendSum struct {
	Year     json.Number     `json:"year"`
	Ticker   string          `json:"ticker"`
	Dividend decimal.Decimal `json:"dividend"`
	Currency string          `json:"currency"`
}
