package dashboard

import (
	"context"
	"fmt"
	"strings"
)

// Settings is the reference data page: currencies, instrument types and instruments.
type Settings struct {
	Section
	Currencies  []string
	Types       []string
	Instruments Instruments
}

// NewSettings returns the Settings view.
func NewSettings(s Section) *Settings { return &Settings{Section: s} }

func (v *Settings) Name() string { return "Settings" }

// Load fetches currencies, then types, then instruments.
func (v *Settings) Load(ctx context.Context) error {
	return v.run(ctx, "settings", func(ctx context.Context) error {
		currencies, err := v.Client.Currencies(ctx)
		if err != nil {
			return err
		}
		types, err := v.Client.Types(ctx)
		if err != nil {
			return err
		}
		instruments, err := v.Client.Instruments(ctx)
		if err != nil {
			return err
		}
		v.Currencies, v.Types, v.Instruments = currencies, types, instruments
		return nil
	})
}

// IsBase reports whether code is the configured base currency.
func (v *Settings) IsBase(code string) bool {
	return v.Format != nil && code != "" && code == v.Format.Config().BaseCurrency
}

// InstrumentForm returns a new instrument form offering the loaded currencies and types.
func (v *Settings) InstrumentForm() *Form { return NewInstrumentForm(v.Currencies, v.Types) }

// AddCurrency creates a currency then reloads the currencies.
func (v *Settings) AddCurrency(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("%w: missing Currency", ErrNotSubmittable)
	}
	return v.run(ctx, "add currency", func(ctx context.Context) error {
		if err := v.Client.NewCurrency(ctx, code); err != nil {
			return err
		}
		l, err := v.Client.Currencies(ctx)
		if err != nil {
			return err
		}
		v.Currencies = l
		return nil
	})
}

// AddType creates an instrument type then reloads the types.
func (v *Settings) AddType(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: missing Type", ErrNotSubmittable)
	}
	return v.run(ctx, "add type", func(ctx context.Context) error {
		if err := v.Client.NewType(ctx, name); err != nil {
			return err
		}
		l, err := v.Client.Types(ctx)
		if err != nil {
			return err
		}
		v.Types = l
		return nil
	})
}

// AddInstrument submits an instrument form then reloads the instruments.
func (v *Settings) AddInstrument(ctx context.Context, f *Form) error {
	if err := f.Check(); err != nil {
		return err
	}
	in := f.Instrument()
	if _, err := ParseEvaluationMode(string(in.Evaluation)); err != nil {
		return fmt.Errorf("%w: %v", ErrNotSubmittable, err)
	}
	return v.run(ctx, "add instrument", func(ctx context.Context) error {
		if err := v.Client.NewInstrument(ctx, in); err != nil {
			return err
		}
		l, err := v.Client.Instruments(ctx)
		if err != nil {
			return err
		}
		v.Instruments = l
		return nil
	})
}
