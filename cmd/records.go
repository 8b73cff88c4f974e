package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/dashboard"
	"github.com/etnz/dashboard/renderer"
	"github.com/google/subcommands"
)

// assignment is a field=value pair of a form.
type assignment struct{ name, value string }

// assignments is a repeatable flag collecting field=value pairs.
type assignments []assignment

func (a *assignments) String() string {
	var parts []string
	for _, as := range *a {
		parts = append(parts, as.name+"="+as.value)
	}
	return strings.Join(parts, " ")
}

func (a *assignments) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("want field=value, got %q", s)
	}
	*a = append(*a, assignment{name, value})
	return nil
}

// apply sets every pair on f, reporting all the failures at once.
func (a assignments) apply(f *dashboard.Form) error {
	var errs []error
	for _, as := range a {
		errs = append(errs, f.Set(as.name, as.value))
	}
	return errors.Join(errs...)
}

// fieldNames lists the fields of f as "date, ticker, volume".
func fieldNames(f *dashboard.Form) string {
	var names []string
	for _, fd := range f.Fields() {
		names = append(names, fd.Name)
	}
	return strings.Join(names, ", ")
}

// recordsCmd lists the records of one kind, and appends a new one.
type recordsCmd struct {
	kind   dashboard.RecordKind
	ticker string
	add    assignments
}

func (c *recordsCmd) Name() string { return string(c.kind) }
func (c *recordsCmd) Synopsis() string {
	return fmt.Sprintf("list or add %s", c.kind)
}
func (c *recordsCmd) Usage() string {
	fields := fieldNames(dashboard.NewRecordForm(c.kind, nil))
	return fmt.Sprintf(`pcd %s [-ticker <ticker>] [-add <field>=<value> ...]

  Lists the %s recorded on the portfolio, optionally restricted to a ticker.

  With -add, appends a new record first. The fields are: %s.
  The date is required, numbers use a dot as decimal separator.
`, c.kind, c.kind, fields)
}

func (c *recordsCmd) SetFlags(f *flag.FlagSet) {
	c.add = nil
	f.StringVar(&c.ticker, "ticker", "", "list only the records of this ticker")
	f.Var(&c.add, "add", "field=value of a record to append, repeat for each field")
}

func (c *recordsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments %v\n", f.Args())
		return subcommands.ExitUsageError
	}

	shell, err := openShell(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening the dashboard: %v\n", err)
		return subcommands.ExitFailure
	}

	v := dashboard.NewRecords(shell.Section(), c.kind, c.ticker)
	if err := dashboard.Activate(ctx, shell, v); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", c.kind, err)
		return subcommands.ExitFailure
	}

	if len(c.add) > 0 {
		if err := c.add.apply(v.Form); err != nil {
			fmt.Fprintf(os.Stderr, "Error in the new record: %v\n", err)
			return subcommands.ExitUsageError
		}
		if err := v.Submit(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error adding to %s: %v\n", c.kind, err)
			if errors.Is(err, dashboard.ErrNotSubmittable) {
				return subcommands.ExitUsageError
			}
			return subcommands.ExitFailure
		}
	}

	printMarkdown(renderer.RenderRecords(v, shell.Formatter()))
	return subcommands.ExitSuccess
}

// settingsCmd lists the reference data, and creates currencies, types and instruments.
type settingsCmd struct {
	currency   string
	typ        string
	instrument assignments
}

func (*settingsCmd) Name() string     { return "settings" }
func (*settingsCmd) Synopsis() string { return "list or add currencies, instrument types and instruments" }
func (*settingsCmd) Usage() string {
	return `pcd settings [-add-currency <code>] [-add-type <name>] [-add-instrument <field>=<value> ...]

  Lists the currencies, the instrument types and the instruments known to
  the portfolio.

  The -add flags create new ones first. The instrument fields are: ticker,
  currency, dividend_currency, type, evaluation and eval_param. The
  evaluation is one of yfinance (default), manual or http.
`
}

func (c *settingsCmd) SetFlags(f *flag.FlagSet) {
	c.instrument = nil
	f.StringVar(&c.currency, "add-currency", "", "currency code to create")
	f.StringVar(&c.typ, "add-type", "", "instrument type to create")
	f.Var(&c.instrument, "add-instrument", "field=value of an instrument to create, repeat for each field")
}

func (c *settingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	shell, err := openShell(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening the dashboard: %v\n", err)
		return subcommands.ExitFailure
	}

	v := dashboard.NewSettings(shell.Section())
	if err := dashboard.Activate(ctx, shell, v); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading the settings: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.currency != "" {
		if err := v.AddCurrency(ctx, c.currency); err != nil {
			fmt.Fprintf(os.Stderr, "Error adding currency %q: %v\n", c.currency, err)
			return subcommands.ExitFailure
		}
	}
	if c.typ != "" {
		if err := v.AddType(ctx, c.typ); err != nil {
			fmt.Fprintf(os.Stderr, "Error adding type %q: %v\n", c.typ, err)
			return subcommands.ExitFailure
		}
	}
	if len(c.instrument) > 0 {
		form := v.InstrumentForm()
		if err := c.instrument.apply(form); err != nil {
			fmt.Fprintf(os.Stderr, "Error in the new instrument: %v\n", err)
			return subcommands.ExitUsageError
		}
		if err := v.AddInstrument(ctx, form); err != nil {
			fmt.Fprintf(os.Stderr, "Error adding instrument: %v\n", err)
			if errors.Is(err, dashboard.ErrNotSubmittable) {
				return subcommands.ExitUsageError
			}
			return subcommands.ExitFailure
		}
	}

	printMarkdown(renderer.RenderSettings(v, shell.Formatter()))
	return subcommands.ExitSuccess
}
