package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Client calls the portfolio API. The API performs all the computation
// (valuation, profit, dividends, FX), the client only fetches and submits rows.
//
// Client does not cache: every call hits the API and returns a fresh,
// complete collection.
type Client struct {
	base  *url.URL
	http  *http.Client
	retry RetryConfig
	log   *slog.Logger
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) ClientOption { return func(c *Client) { c.http = h } }

// WithRetry sets the retry policy of GET requests.
func WithRetry(r RetryConfig) ClientOption { return func(c *Client) { c.retry = r } }

// WithLogger sets the logger, slog.Default() otherwise.
func WithLogger(l *slog.Logger) ClientOption { return func(c *Client) { c.log = l } }

// NewClient returns a client for the API served at base (e.g. "http://localhost:8000").
func NewClient(base string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid API address %q: %w", base, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid API address %q: scheme must be http or https", base)
	}
	c := &Client{
		base:  u,
		http:  &http.Client{Timeout: 30 * time.Second},
		retry: DefaultRetry,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Base returns the API address.
func (c *Client) Base() string { return c.base.String() }

// optional returns a query with key=value, or nil when value is empty.
func optional(key, value string) url.Values {
	if value == "" {
		return nil
	}
	return url.Values{key: {value}}
}

// Config fetches the application configuration.
func (c *Client) Config(ctx context.Context) (cfg Config, err error) {
	err = c.jwget(ctx, "/config/get", nil, &cfg)
	return
}

// LastData fetches the dates of the latest market data.
func (c *Client) LastData(ctx context.Context) (last LastData, err error) {
	err = c.jwget(ctx, "/data/last", nil, &last)
	return
}

// UpdateHistorical asks the API to download the latest instrument prices.
func (c *Client) UpdateHistorical(ctx context.Context) error {
	_, err := c.roundTrip(ctx, http.MethodGet, "/historical/update", nil, nil)
	return err
}

// UpdateFX asks the API to download the latest exchange rates.
func (c *Client) UpdateFX(ctx context.Context) error {
	_, err := c.roundTrip(ctx, http.MethodGet, "/fx/update", nil, nil)
	return err
}

// Overview fetches the per instrument snapshot.
func (c *Client) Overview(ctx context.Context) (rows []OverviewRow, err error) {
	err = c.jwgetList(ctx, "/overview/get", "overview", nil, &rows)
	return
}

// Performance fetches the yearly performance.
func (c *Client) Performance(ctx context.Context) (p Performance, err error) {
	err = c.jwget(ctx, "/performance/get", nil, &p)
	return
}

// Charts fetches the portfolio time series, optionally restricted by filter
// (an instrument ticker or type).
func (c *Client) Charts(ctx context.Context, filter string) (rows []ChartRow, err error) {
	err = c.jwgetList(ctx, "/charts/get", "data", optional("filter", filter), &rows)
	return
}

// Prices fetches the price series of the instrument named by filter.
func (c *Client) Prices(ctx context.Context, filter string) (rows PriceSeries, err error) {
	err = c.jwgetList(ctx, "/prices/get", "data", optional("filter", filter), &rows)
	return
}

// Instruments fetches the instrument reference data.
func (c *Client) Instruments(ctx context.Context) (l Instruments, err error) {
	err = c.jwgetList(ctx, "/instruments/list", "instruments", nil, &l)
	return
}

// Currencies fetches the known currency codes.
func (c *Client) Currencies(ctx context.Context) (l []string, err error) {
	err = c.jwgetList(ctx, "/currencies/list", "currencies", nil, &l)
	return
}

// Types fetches the known instrument types.
func (c *Client) Types(ctx context.Context) (l []string, err error) {
	err = c.jwgetList(ctx, "/types/list", "types", nil, &l)
	return
}

// NewInstrument creates or updates an instrument.
func (c *Client) NewInstrument(ctx context.Context, in Instrument) error {
	return c.jwpost(ctx, "/instruments/new", in)
}

// NewCurrency adds a currency code.
func (c *Client) NewCurrency(ctx context.Context, code string) error {
	return c.jwpost(ctx, "/currencies/new", map[string]string{"currency": code})
}

// NewType adds an instrument type.
func (c *Client) NewType(ctx context.Context, name string) error {
	return c.jwpost(ctx, "/types/new", map[string]string{"type": name})
}

// Trades lists the trades, for one ticker if not empty.
func (c *Client) Trades(ctx context.Context, ticker string) (l []Trade, err error) {
	err = c.jwgetList(ctx, "/trades/list", "trades", optional("ticker", ticker), &l)
	return
}

// Dividends lists the received dividends, for one ticker if not empty.
func (c *Client) Dividends(ctx context.Context, ticker string) (l []Dividend, err error) {
	err = c.jwgetList(ctx, "/dividends/list", "dividends", optional("ticker", ticker), &l)
	return
}

// DividendsCalc fetches the dividends computed from the held volumes.
func (c *Client) DividendsCalc(ctx context.Context, filter string) (l []DividendCalc, err error) {
	err = c.jwgetList(ctx, "/dividends/calc", "dividends", optional("filter", filter), &l)
	return
}

// DividendsSum fetches the dividend totals.
func (c *Client) DividendsSum(ctx context.Context, filter string) (l []DividendSum, err error) {
	err = c.jwgetList(ctx, "/dividends/sum", "dividends", optional("filter", filter), &l)
	return
}

// Values lists the manual valuations, for one ticker if not empty.
func (c *Client) Values(ctx context.Context, ticker string) (l []Value, err error) {
	err = c.jwgetList(ctx, "/values/list", "values", optional("ticker", ticker), &l)
	return
}

// Deposits lists the deposits, for one ticker if not empty.
func (c *Client) Deposits(ctx context.Context, ticker string) (l []Deposit, err error) {
	err = c.jwgetList(ctx, "/deposits/list", "deposits", optional("ticker", ticker), &l)
	return
}

// Staking lists the staking rewards, for one ticker if not empty.
func (c *Client) Staking(ctx context.Context, ticker string) (l []Staking, err error) {
	err = c.jwgetList(ctx, "/staking/list", "staking", optional("ticker", ticker), &l)
	return
}

// NewRecord appends a record row. kind is the collection name ("trades",
// "dividends", "values", "deposits" or "staking") and row its JSON body.
func (c *Client) NewRecord(ctx context.Context, kind string, row any) error {
	return c.jwpost(ctx, "/"+kind+"/new", row)
}
