package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/dashboard"
	"github.com/etnz/dashboard/date"
	"github.com/etnz/dashboard/renderer"
	"github.com/google/subcommands"
)

// overviewCmd displays the current holdings.
type overviewCmd struct{}

func (*overviewCmd) Name() string     { return "overview" }
func (*overviewCmd) Synopsis() string { return "display the value, investment and profit of each instrument" }
func (*overviewCmd) Usage() string {
	return `pcd overview

  Displays one row per instrument with its last price, volume, value,
  investment, fees and profit, then the portfolio totals.
`
}
func (c *overviewCmd) SetFlags(f *flag.FlagSet) {}

func (c *overviewCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	shell, err := openShell(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening the dashboard: %v\n", err)
		return subcommands.ExitFailure
	}

	v := dashboard.NewOverview(shell.Section())
	if err := dashboard.Activate(ctx, shell, v); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading the overview: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RenderOverview(v, shell.Formatter()))
	return subcommands.ExitSuccess
}

// performanceCmd displays the yearly performance.
type performanceCmd struct{}

func (*performanceCmd) Name() string     { return "performance" }
func (*performanceCmd) Synopsis() string { return "display the performance of each instrument per year" }
func (*performanceCmd) Usage() string {
	return `pcd performance

  Displays, for each year, the investment, value, fees and profit of each
  instrument, and the year totals.
`
}
func (c *performanceCmd) SetFlags(f *flag.FlagSet) {}

func (c *performanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	shell, err := openShell(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening the dashboard: %v\n", err)
		return subcommands.ExitFailure
	}

	v := dashboard.NewPerformance(shell.Section())
	if err := dashboard.Activate(ctx, shell, v); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading the performance: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RenderPerformance(v, shell.Formatter()))
	return subcommands.ExitSuccess
}

// chartsCmd displays the portfolio time series.
type chartsCmd struct {
	filter string
}

func (*chartsCmd) Name() string     { return "charts" }
func (*chartsCmd) Synopsis() string { return "display the value of the portfolio over time" }
func (*chartsCmd) Usage() string {
	return `pcd charts [-filter <ticker or type>]

  Displays the value, investment, fees and profit of the portfolio over
  time, restricted to an instrument or an instrument type.
`
}

func (c *chartsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.filter, "filter", "", "restrict the series to a ticker or an instrument type")
}

func (c *chartsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	shell, err := openShell(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening the dashboard: %v\n", err)
		return subcommands.ExitFailure
	}

	v := dashboard.NewCharts(shell.Section(), c.filter)
	if err := dashboard.Activate(ctx, shell, v); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading the charts: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RenderCharts(v, shell.Formatter()))
	return subcommands.ExitSuccess
}

// pricesCmd displays an instrument price history.
type pricesCmd struct {
	filter string
	from   string
	to     string
	period string
}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "display the price history of an instrument" }
func (*pricesCmd) Usage() string {
	return `pcd prices -filter <ticker> [-from <date>] [-to <date> | -period <period>]

  Displays the daily prices of an instrument, open, high, low and close
  when the provider has them, and the dividends paid.
  Manually valued instruments have no price history.

  -period shows the week, month, quarter or year of the latest price.
`
}

func (c *pricesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.filter, "filter", "", "ticker of the instrument")
	f.StringVar(&c.from, "from", "", "first date displayed. See the user manual for supported date formats.")
	f.StringVar(&c.to, "to", "", "last date displayed. See the user manual for supported date formats.")
	f.StringVar(&c.period, "period", "", "day, week, month, quarter or year of the latest price")
}

func (c *pricesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var window date.Range
	var err error
	if c.from != "" {
		if window.From, err = date.Parse(c.from); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -from: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	if c.to != "" {
		if window.To, err = date.Parse(c.to); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -to: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	var period date.Period
	if c.period != "" {
		if !window.IsOpen() {
			fmt.Fprintln(os.Stderr, "Error: -period cannot be used with -from or -to")
			return subcommands.ExitUsageError
		}
		if period, err = date.ParsePeriod(c.period); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -period: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	shell, err := openShell(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening the dashboard: %v\n", err)
		return subcommands.ExitFailure
	}

	v := dashboard.NewPrices(shell.Section())
	if err := dashboard.Activate(ctx, shell, v); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading the instruments: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.filter == "" {
		fmt.Fprintf(os.Stderr, "Error: -filter is required, one of %v\n", v.Instruments.Tickers())
		return subcommands.ExitUsageError
	}
	if err := v.SetFilter(ctx, c.filter); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading the prices of %s: %v\n", c.filter, err)
		return subcommands.ExitFailure
	}
	switch {
	case c.period != "":
		v.SetPeriod(period)
	case !window.IsOpen():
		v.SetDateWindow(window)
	}

	printMarkdown(renderer.RenderPrices(v, shell.Formatter()))
	return subcommands.ExitSuccess
}
