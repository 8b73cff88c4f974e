package dashboard

import (
	"context"
	"fmt"
)

// Records is the page of one record kind: the list of records and the form
// to append a new one.
type Records struct {
	Section
	Kind        RecordKind
	Ticker      string      // list filter, all tickers if empty
	Instruments Instruments // instruments the kind can refer to
	Form        *Form

	Trades    []Trade
	Deposits  []Deposit
	Values    []Value
	Dividends []Dividend
	Staking   []Staking
	Sums      []DividendSum  // dividend totals, dividends only
	Computed  []DividendCalc // dividends computed from the held volumes, dividends only
}

// NewRecords returns the page of kind, listing the records of ticker (all if empty).
func NewRecords(s Section, kind RecordKind, ticker string) *Records {
	return &Records{Section: s, Kind: kind, Ticker: ticker, Form: NewRecordForm(kind, nil)}
}

func (v *Records) Name() string { return v.Kind.Title() }

// Load fetches the instruments, then the records.
func (v *Records) Load(ctx context.Context) error {
	return v.run(ctx, string(v.Kind), func(ctx context.Context) error {
		l, err := v.Client.Instruments(ctx)
		if err != nil {
			return err
		}
		apply, err := v.fetch(ctx)
		if err != nil {
			return err
		}
		v.Instruments = v.Kind.TickerChoices(l)
		v.Form = NewRecordForm(v.Kind, l)
		apply()
		return nil
	})
}

// fetch lists the records, and returns the function storing them.
// Nothing is stored if any fetch fails.
func (v *Records) fetch(ctx context.Context) (apply func(), err error) {
	switch v.Kind {
	case KindTrades:
		l, err := v.Client.Trades(ctx, v.Ticker)
		return func() { v.Trades = l }, err
	case KindDeposits:
		l, err := v.Client.Deposits(ctx, v.Ticker)
		return func() { v.Deposits = l }, err
	case KindValues:
		l, err := v.Client.Values(ctx, v.Ticker)
		return func() { v.Values = l }, err
	case KindStaking:
		l, err := v.Client.Staking(ctx, v.Ticker)
		return func() { v.Staking = l }, err
	case KindDividends:
		l, err := v.Client.Dividends(ctx, v.Ticker)
		if err != nil {
			return nil, err
		}
		sums, err := v.Client.DividendsSum(ctx, v.Ticker)
		if err != nil {
			return nil, err
		}
		computed, err := v.Client.DividendsCalc(ctx, v.Ticker)
		return func() { v.Dividends, v.Sums, v.Computed = l, sums, computed }, err
	}
	return nil, fmt.Errorf("unknown record kind %q", v.Kind)
}

// Len returns the number of records listed.
func (v *Records) Len() int {
	switch v.Kind {
	case KindTrades:
		return len(v.Trades)
	case KindDeposits:
		return len(v.Deposits)
	case KindValues:
		return len(v.Values)
	case KindDividends:
		return len(v.Dividends)
	case KindStaking:
		return len(v.Staking)
	}
	return 0
}

// DividendCurrency returns the currency dividends of ticker are paid in.
func (v *Records) DividendCurrency(ticker string) string {
	in, _ := v.Instruments.Find(ticker)
	return in.DividendCurrency
}

// Submit posts the form row then reloads the records. The form is reset on
// success. Nothing is sent unless the form is submittable.
func (v *Records) Submit(ctx context.Context) error {
	if err := v.Form.Check(); err != nil {
		return err
	}
	row := v.Form.Row()
	err := v.run(ctx, "add "+string(v.Kind), func(ctx context.Context) error {
		if err := v.Client.NewRecord(ctx, string(v.Kind), row); err != nil {
			return err
		}
		apply, err := v.fetch(ctx)
		if err != nil {
			return err
		}
		apply()
		return nil
	})
	if err != nil {
		return err
	}
	v.Form.Reset()
	return nil
}

// Add is the tabbed page over all record kinds.
type Add struct {
	Section
	Tab     RecordKind
	Current *Records
}

// NewAdd returns the Add view showing tab.
func NewAdd(s Section, tab RecordKind) *Add {
	if tab == "" {
		tab = KindTrades
	}
	return &Add{Section: s, Tab: tab, Current: NewRecords(s, tab, "")}
}

func (v *Add) Name() string { return "Add" }

// Load loads the current tab.
func (v *Add) Load(ctx context.Context) error {
	err := v.Current.Load(ctx)
	v.state, v.err = v.Current.state, v.Current.err
	return err
}

// SetTab switches to the tab of kind and loads it.
func (v *Add) SetTab(ctx context.Context, kind RecordKind) error {
	v.Tab, v.Current = kind, NewRecords(v.Section, kind, "")
	return v.Load(ctx)
}
