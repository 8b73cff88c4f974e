package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
)

type refreshCmd struct{}

func (*refreshCmd) Name() string { return "refresh" }
func (*refreshCmd) Synopsis() string {
	return "update the prices and the exchange rates on the API"
}
func (*refreshCmd) Usage() string {
	return `pcd refresh

  Asks the API to download the latest prices, then the latest exchange
  rates, and prints the age of the market data.
`
}
func (c *refreshCmd) SetFlags(f *flag.FlagSet) {}

func (c *refreshCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "no arguments expected")
		return subcommands.ExitUsageError
	}

	shell, err := openShell(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening the dashboard: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := shell.Refresh(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error refreshing the market data: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(out, "Market data: %s\n", shell.StatusLine(time.Now()))
	return subcommands.ExitSuccess
}

type statusCmd struct{}

func (*statusCmd) Name() string     { return "status" }
func (*statusCmd) Synopsis() string { return "display the API configuration and the age of the market data" }
func (*statusCmd) Usage() string    { return "pcd status\n" }
func (c *statusCmd) SetFlags(f *flag.FlagSet) {}

func (c *statusCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "no arguments expected")
		return subcommands.ExitUsageError
	}

	shell, err := openShell(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening the dashboard: %v\n", err)
		return subcommands.ExitFailure
	}

	cfg := shell.Config()
	fmt.Fprintf(out, "API:           %s\n", shell.Client.Base())
	fmt.Fprintf(out, "Base currency: %s\n", cfg.BaseCurrency)
	fmt.Fprintf(out, "Locale:        %s\n", cfg.LanguageLocale)
	fmt.Fprintf(out, "Market data:   %s\n", shell.StatusLine(time.Now()))
	return subcommands.ExitSuccess
}
