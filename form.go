package dashboard

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

var (
	// ErrNotSubmittable is returned when submitting a form with missing or invalid fields.
	ErrNotSubmittable = errors.New("form is not submittable")
	// ErrUnknownField is returned when setting a field the form does not have.
	ErrUnknownField = errors.New("unknown field")
	// ErrInvalidNumber is returned when a numeric field receives a malformed number.
	ErrInvalidNumber = errors.New("invalid number")
	// ErrNotAChoice is returned when a field with choices receives another value.
	ErrNotAChoice = errors.New("not an available choice")
)

// NumberIsValid reports whether s is a well formed finite number. Surrounding
// spaces are ignored and the empty string is valid (it reads as 0).
// Digit separators are not numbers.
func NumberIsValid(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	if strings.Contains(s, "_") {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Field describes one input of a Form.
type Field struct {
	Name     string   // JSON name
	Label    string   // display name
	Numeric  bool     // must be a well formed number
	Required bool     // must not be empty to submit
	Default  string   // initial value
	Choices  []string // allowed values, any value if nil
}

// Form holds the uncommitted values of a new row, and the validity of each
// numeric field. Fields are validated independently: there is no cross field
// validation.
type Form struct {
	Name   string
	fields []Field
	values map[string]string
	valid  map[string]bool
}

// NewForm returns a form with fields set to their defaults.
func NewForm(name string, fields ...Field) *Form {
	f := &Form{Name: name, fields: fields}
	f.Reset()
	return f
}

// Reset restores every field to its default.
func (f *Form) Reset() {
	f.values = make(map[string]string, len(f.fields))
	f.valid = make(map[string]bool, len(f.fields))
	for _, fd := range f.fields {
		f.values[fd.Name] = fd.Default
		f.valid[fd.Name] = true
	}
}

// Fields returns the form fields in display order.
func (f *Form) Fields() []Field { return f.fields }

func (f *Form) field(name string) (Field, bool) {
	for _, fd := range f.fields {
		if fd.Name == name {
			return fd, true
		}
	}
	return Field{}, false
}

// Value returns the current value of a field.
func (f *Form) Value(name string) string { return f.values[name] }

// Valid reports whether the last value set on a field was well formed.
func (f *Form) Valid(name string) bool { return f.valid[name] }

// Set changes the value of a field.
//
// A malformed number is kept but flags the field as invalid, which makes the
// form non submittable until the field is corrected. A value outside of the
// field choices is rejected and leaves the field unchanged.
func (f *Form) Set(name, value string) error {
	fd, ok := f.field(name)
	if !ok {
		return fmt.Errorf("%w %q in %s form", ErrUnknownField, name, f.Name)
	}
	if fd.Choices != nil && value != "" && !slices.Contains(fd.Choices, value) {
		return fmt.Errorf("%w: %s %q", ErrNotAChoice, fd.Label, value)
	}
	f.values[name] = value
	if fd.Numeric && !NumberIsValid(value) {
		f.valid[name] = false
		return fmt.Errorf("%w: %s %q", ErrInvalidNumber, fd.Label, value)
	}
	f.valid[name] = true
	return nil
}

// Invalid returns the labels of the fields holding a malformed number.
func (f *Form) Invalid() []string {
	var res []string
	for _, fd := range f.fields {
		if !f.valid[fd.Name] {
			res = append(res, fd.Label)
		}
	}
	return res
}

// Missing returns the labels of the required fields that are empty.
func (f *Form) Missing() []string {
	var res []string
	for _, fd := range f.fields {
		if fd.Required && strings.TrimSpace(f.values[fd.Name]) == "" {
			res = append(res, fd.Label)
		}
	}
	return res
}

// Submittable reports whether the form can be submitted.
func (f *Form) Submittable() bool { return len(f.Invalid()) == 0 && len(f.Missing()) == 0 }

// Check returns nil if the form is submittable, or an ErrNotSubmittable
// listing what is wrong.
func (f *Form) Check() error {
	var reasons []string
	if m := f.Missing(); len(m) > 0 {
		reasons = append(reasons, "missing "+strings.Join(m, ", "))
	}
	if inv := f.Invalid(); len(inv) > 0 {
		reasons = append(reasons, "invalid "+strings.Join(inv, ", "))
	}
	if len(reasons) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotSubmittable, strings.Join(reasons, "; "))
}

// Row returns the values as submitted to the API.
func (f *Form) Row() map[string]string {
	row := make(map[string]string, len(f.fields))
	for _, fd := range f.fields {
		row[fd.Name] = f.values[fd.Name]
	}
	return row
}

// RecordKind names a collection of append-only records.
type RecordKind string

const (
	KindTrades    RecordKind = "trades"
	KindDeposits  RecordKind = "deposits"
	KindValues    RecordKind = "values"
	KindDividends RecordKind = "dividends"
	KindStaking   RecordKind = "staking"
)

// RecordKinds lists the record kinds in tab order.
var RecordKinds = []RecordKind{KindTrades, KindDeposits, KindValues, KindDividends, KindStaking}

// Title returns the display name of the kind ("Trades").
func (k RecordKind) Title() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// ParseRecordKind returns the kind named s.
func ParseRecordKind(s string) (RecordKind, error) {
	for _, k := range RecordKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown record kind %q, want one of %v", s, RecordKinds)
}

// TickerChoices returns the instruments a record of kind can refer to.
func (k RecordKind) TickerChoices(l Instruments) Instruments {
	switch k {
	case KindTrades:
		return l.Filter(func(in Instrument) bool { return in.Evaluation != EvalManual })
	case KindDeposits, KindValues:
		return l.Filter(func(in Instrument) bool { return in.Evaluation == EvalManual })
	case KindStaking:
		return l.Filter(func(in Instrument) bool { return in.Type == "crypto" })
	case KindDividends:
		return l.Filter(func(in Instrument) bool { return in.DividendCurrency != "" })
	}
	return l
}

func dateField() Field { return Field{Name: "date", Label: "Date", Required: true} }

func tickerField(choices []string) Field {
	if choices == nil {
		choices = []string{}
	}
	return Field{Name: "ticker", Label: "Ticker", Required: true, Choices: choices}
}

// NewRecordForm returns the form to add a record of kind, the ticker being
// one of the instruments l allows for that kind.
func NewRecordForm(kind RecordKind, l Instruments) *Form {
	tickers := kind.TickerChoices(l).Tickers()
	switch kind {
	case KindTrades:
		return NewForm(string(kind),
			dateField(),
			tickerField(tickers),
			Field{Name: "volume", Label: "Volume", Numeric: true, Default: "0"},
			Field{Name: "price", Label: "Price", Numeric: true, Default: "0"},
			Field{Name: "rate", Label: "Exchange rate", Numeric: true, Default: "1"},
			Field{Name: "fee", Label: "Fee", Numeric: true, Default: "0"},
		)
	case KindDeposits:
		return NewForm(string(kind),
			dateField(),
			tickerField(tickers),
			Field{Name: "amount", Label: "Amount", Numeric: true},
			Field{Name: "fee", Label: "Fee", Numeric: true},
		)
	case KindValues:
		return NewForm(string(kind),
			dateField(),
			tickerField(tickers),
			Field{Name: "value", Label: "Value", Numeric: true, Required: true},
		)
	case KindDividends:
		return NewForm(string(kind),
			dateField(),
			tickerField(tickers),
			Field{Name: "dividend", Label: "Dividend", Numeric: true, Default: "0"},
		)
	case KindStaking:
		return NewForm(string(kind),
			dateField(),
			tickerField(tickers),
			Field{Name: "volume", Label: "Volume", Numeric: true, Required: true},
		)
	}
	return NewForm(string(kind))
}

// NewInstrumentForm returns the form to create an instrument.
func NewInstrumentForm(currencies, types []string) *Form {
	modes := make([]string, 0, len(EvaluationModes))
	for _, m := range EvaluationModes {
		modes = append(modes, string(m))
	}
	if currencies == nil {
		currencies = []string{}
	}
	if types == nil {
		types = []string{}
	}
	return NewForm("instrument",
		Field{Name: "ticker", Label: "Ticker", Required: true},
		Field{Name: "currency", Label: "Currency", Required: true, Choices: currencies},
		Field{Name: "dividend_currency", Label: "Dividend Currency", Choices: currencies},
		Field{Name: "type", Label: "Type", Required: true, Choices: types},
		Field{Name: "evaluation", Label: "Evaluation", Required: true, Default: string(EvalYFinance), Choices: modes},
		Field{Name: "eval_param", Label: "EvalParam"},
	)
}

// Instrument returns the instrument described by an instrument form.
func (f *Form) Instrument() Instrument {
	return Instrument{
		Ticker:           strings.TrimSpace(f.values["ticker"]),
		Currency:         f.values["currency"],
		Type:             f.values["type"],
		Evaluation:       EvaluationMode(f.values["evaluation"]),
		EvalParam:        f.values["eval_param"],
		DividendCurrency: f.values["dividend_currency"],
	}
}
