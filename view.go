package dashboard

import (
	"context"
	"fmt"
)

// Host is what a view needs from the shell that displays it.
type Host interface {
	// SetHeading sets the page heading.
	SetHeading(name string)
	// Begin marks op as in flight until done is called.
	Begin(op string) (done func())
}

// View is a page of the dashboard.
type View interface {
	// Name is the page heading.
	Name() string
	// Load runs the view fetch chain and stores the results.
	Load(ctx context.Context) error
}

// State is the lifecycle state of a view.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Section is the capability shared by all views: the API client, the
// formatter, and the host busy signal. Views embed it.
type Section struct {
	Client *Client
	Format *Formatter
	host   Host
	state  State
	err    error
}

// NewSection returns a Section bound to host.
func NewSection(c *Client, f *Formatter, host Host) Section {
	return Section{Client: c, Format: f, host: host}
}

// State returns the view state.
func (s *Section) State() State { return s.state }

// Err returns the error of the last failed operation, nil when Ready.
func (s *Section) Err() error { return s.err }

// run executes one operation of the view (a fetch chain, or a user action
// followed by its re-fetch) while the host shows it as busy.
//
// The busy signal is always cleared, and a failure keeps the previous data:
// fn must only assign its results once all its fetches succeeded.
func (s *Section) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if s.host != nil {
		done := s.host.Begin(op)
		defer done()
	}
	s.state = Loading
	if err := fn(ctx); err != nil {
		s.state, s.err = Failed, err
		return fmt.Errorf("%s: %w", op, err)
	}
	s.state, s.err = Ready, nil
	return nil
}

// Activate is the hook run when a view is displayed: it sets the heading
// to the view name and loads the view.
func Activate(ctx context.Context, host Host, v View) error {
	host.SetHeading(v.Name())
	return v.Load(ctx)
}
