// Package cmd implements the command line interface of the portfolio dashboard.
//
// Every command talks to the portfolio API: the views are fetched, rendered
// to markdown and printed, records are appended with -add flags, and serve
// runs the same views as a local HTML dashboard.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/dashboard"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

// Environment variables holding the defaults of the global flags. They are
// also passed to the extensions.
const (
	EnvAPIURL   = "PCD_API_URL"
	EnvLogLevel = "PCD_LOG_LEVEL"
	EnvTimeout  = "PCD_TIMEOUT"
	EnvVerbose  = "PCD_VERBOSE"
)

// defaultTimeout bounds each API request.
const defaultTimeout = 30 * time.Second

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	apiURL   = flag.String("api", "", "Base URL of the portfolio API (default $"+EnvAPIURL+")")
	logLevel = flag.String("log-level", "", "Log level: debug, info, warn or error (default $"+EnvLogLevel+", then warn)")
	timeout  = flag.Duration("timeout", 0, "Timeout of each API request (default $"+EnvTimeout+", then 30s)")
	Verbose  = flag.Bool("v", false, "verbose mode, same as -log-level debug")
)

// out receives the command outputs.
var out io.Writer = os.Stdout

// commands lists the subcommands by group, in help order.
var commands = []struct {
	group string
	cmd   subcommands.Command
}{
	{"views", &overviewCmd{}},
	{"views", &performanceCmd{}},
	{"views", &chartsCmd{}},
	{"views", &pricesCmd{}},

	{"records", &recordsCmd{kind: dashboard.KindTrades}},
	{"records", &recordsCmd{kind: dashboard.KindDividends}},
	{"records", &recordsCmd{kind: dashboard.KindValues}},
	{"records", &recordsCmd{kind: dashboard.KindDeposits}},
	{"records", &recordsCmd{kind: dashboard.KindStaking}},
	{"records", &settingsCmd{}},

	{"market data", &refreshCmd{}},
	{"market data", &statusCmd{}},

	{"dashboard", &serveCmd{}},
	{"documentation", &topicCmd{}},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, e := range commands {
		c.Register(e.cmd, e.group)
	}
}

// settings is the resolved configuration of the command line.
type settings struct {
	API      string
	LogLevel string
	Timeout  time.Duration
	Verbose  bool
}

// currentSettings returns the global flags, completed by the environment.
// A .env file in the current directory, then in its parent, fills the
// environment without overriding it.
func currentSettings() (settings, error) {
	_ = godotenv.Load()
	_ = godotenv.Load("../.env")
	s := settings{API: *apiURL, LogLevel: *logLevel, Timeout: *timeout, Verbose: *Verbose}
	err := s.fill(os.Getenv)
	return s, err
}

// fill sets the unset fields from the environment, then the defaults.
func (s *settings) fill(getenv func(string) string) error {
	if s.API == "" {
		s.API = getenv(EnvAPIURL)
	}
	if s.LogLevel == "" {
		s.LogLevel = getenv(EnvLogLevel)
	}
	if !s.Verbose {
		if v := getenv(EnvVerbose); v != "" {
			verbose, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid $%s: %w", EnvVerbose, err)
			}
			s.Verbose = verbose
		}
	}
	if s.Verbose {
		s.LogLevel = "debug"
	}
	if s.Timeout == 0 {
		s.Timeout = defaultTimeout
		if v := getenv(EnvTimeout); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid $%s: %w", EnvTimeout, err)
			}
			s.Timeout = d
		}
	}
	return nil
}

// env returns the environment passed to the extensions.
func (s settings) env() []string {
	return []string{
		EnvAPIURL + "=" + s.API,
		EnvLogLevel + "=" + s.LogLevel,
		EnvTimeout + "=" + s.Timeout.String(),
		EnvVerbose + "=" + strconv.FormatBool(s.Verbose),
	}
}

// newLogger returns a text logger writing to w at the given level. The
// empty level is warn, so that the command outputs are not cluttered.
func newLogger(level string, w io.Writer) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "", "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelWarn
		slog.Warn("invalid log level, defaulting to warn", "level", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

// openShell connects to the API and starts the dashboard shell: the
// configuration and the market data status are loaded.
func openShell(ctx context.Context) (*dashboard.Shell, error) {
	s, err := currentSettings()
	if err != nil {
		return nil, err
	}
	if s.API == "" {
		return nil, fmt.Errorf("no API URL: use -api or set $%s", EnvAPIURL)
	}

	log := newLogger(s.LogLevel, os.Stderr)
	slog.SetDefault(log)

	c, err := dashboard.NewClient(s.API,
		dashboard.WithHTTPClient(&http.Client{Timeout: s.Timeout}),
		dashboard.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	shell := dashboard.NewShell(c)
	if err := shell.Start(ctx); err != nil {
		return nil, fmt.Errorf("cannot start the dashboard on %s: %w", s.API, err)
	}
	return shell, nil
}
