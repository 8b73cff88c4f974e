package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/etnz/dashboard/date"
)

// Shell is the application frame around the views: the heading, the busy
// indicator, the configuration and the market data status.
type Shell struct {
	Client *Client
	Busy   Busy // in-flight view operations
	Update Busy // in-flight market data refresh

	mu      sync.Mutex
	heading string
	cfg     Config
	format  *Formatter
	last    LastData
}

// NewShell returns a shell using c. Start must be called before any view is opened.
func NewShell(c *Client) *Shell {
	return &Shell{Client: c, format: NewFormatter(Config{})}
}

// SetHeading implements Host.
func (s *Shell) SetHeading(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heading = name
}

// Heading returns the current page heading.
func (s *Shell) Heading() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.heading
}

// Begin implements Host.
func (s *Shell) Begin(op string) (done func()) { return s.Busy.Begin(op) }

// Config returns the configuration loaded by Start.
func (s *Shell) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Formatter returns the formatter for the loaded configuration.
func (s *Shell) Formatter() *Formatter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.format
}

// LastData returns the market data dates last fetched.
func (s *Shell) LastData() LastData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Section returns the capability handed to the views.
func (s *Shell) Section() Section { return NewSection(s.Client, s.Formatter(), s) }

// Start loads the configuration, then the market data status.
func (s *Shell) Start(ctx context.Context) error {
	done := s.Begin("config")
	defer done()
	cfg, err := s.Client.Config(ctx)
	if err != nil {
		return fmt.Errorf("cannot load configuration: %w", err)
	}
	s.mu.Lock()
	s.cfg, s.format = cfg, NewFormatter(cfg)
	s.mu.Unlock()
	return s.fetchLast(ctx)
}

func (s *Shell) fetchLast(ctx context.Context) error {
	last, err := s.Client.LastData(ctx)
	if err != nil {
		return fmt.Errorf("cannot load market data status: %w", err)
	}
	s.mu.Lock()
	s.last = last
	s.mu.Unlock()
	return nil
}

// Refresh asks the API to update prices, then exchange rates, then reloads
// the market data status. A failed step stops the chain.
func (s *Shell) Refresh(ctx context.Context) error {
	done := s.Update.Begin("refresh")
	defer done()
	if err := s.Client.UpdateHistorical(ctx); err != nil {
		return fmt.Errorf("cannot update prices: %w", err)
	}
	if err := s.Client.UpdateFX(ctx); err != nil {
		return fmt.Errorf("cannot update exchange rates: %w", err)
	}
	return s.fetchLast(ctx)
}

// Refreshing reports whether a market data refresh is in flight.
func (s *Shell) Refreshing() bool { return s.Update.IsBusy() }

// StatusLine describes the age of the market data relative to now.
func (s *Shell) StatusLine(now time.Time) string {
	last := s.LastData()
	age := func(d date.Date) string {
		if d.IsZero() {
			return "never"
		}
		return fmt.Sprintf("%s (%s)", d, humanize.RelTime(d.Time(), now, "ago", "from now"))
	}
	return fmt.Sprintf("prices %s, fx %s, manual values %s", age(last.Historical), age(last.FX), age(last.ManualValue))
}

// ErrUnknownRoute is returned when opening a path no view is mounted on.
var ErrUnknownRoute = errors.New("unknown route")

// Route mounts a view on a path.
type Route struct {
	Path  string
	Title string
	New   func(Section) View
}

// Routes lists the views in menu order.
var Routes = []Route{
	{"/overview", "Overview", func(s Section) View { return NewOverview(s) }},
	{"/performance", "Performance", func(s Section) View { return NewPerformance(s) }},
	{"/charts", "Charts", func(s Section) View { return NewCharts(s, "") }},
	{"/trades", "Trades", func(s Section) View { return NewRecords(s, KindTrades, "") }},
	{"/add", "Add", func(s Section) View { return NewAdd(s, KindTrades) }},
	{"/dividends", "Dividends", func(s Section) View { return NewRecords(s, KindDividends, "") }},
	{"/values", "Values", func(s Section) View { return NewRecords(s, KindValues, "") }},
	{"/prices", "Prices", func(s Section) View { return NewPrices(s) }},
	{"/settings", "Settings", func(s Section) View { return NewSettings(s) }},
}

// DefaultRoute is where the empty path leads.
const DefaultRoute = "/overview"

// Resolve returns the route for path, the empty path and "/" lead to DefaultRoute.
func Resolve(path string) (Route, error) {
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		path = DefaultRoute
	}
	for _, r := range Routes {
		if r.Path == path {
			return r, nil
		}
	}
	return Route{}, fmt.Errorf("%w %q", ErrUnknownRoute, path)
}

// Open creates the view mounted on path and activates it. The view is
// returned even when loading failed, holding the error in Err.
func (s *Shell) Open(ctx context.Context, path string) (View, error) {
	r, err := Resolve(path)
	if err != nil {
		return nil, err
	}
	v := r.New(s.Section())
	return v, Activate(ctx, s, v)
}
