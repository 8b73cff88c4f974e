// Package web serves the dashboard pages as HTML.
//
// Pages are the markdown produced by the renderer package, converted to HTML
// and sanitized, inside a layout holding the navigation, the market data
// status and the forms.
package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/etnz/dashboard"
	"github.com/etnz/dashboard/date"
	"github.com/etnz/dashboard/renderer"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed layout.html
var layoutFS embed.FS

var layout = template.Must(template.ParseFS(layoutFS, "layout.html"))

// Server serves the dashboard over HTTP.
type Server struct {
	shell  *dashboard.Shell
	log    *slog.Logger
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// New returns a server displaying the views of shell. The shell must be started.
func New(shell *dashboard.Shell, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		shell:  shell,
		log:    log,
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
	}
}

// Handler returns the router of all pages.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, dashboard.DefaultRoute, http.StatusSeeOther)
	})
	r.Get("/overview", s.overview)
	r.Get("/performance", s.performance)
	r.Get("/charts", s.charts)
	r.Get("/prices", s.prices)
	r.Get("/trades", s.records(dashboard.KindTrades))
	r.Get("/dividends", s.records(dashboard.KindDividends))
	r.Get("/values", s.records(dashboard.KindValues))
	r.Get("/add", s.add)
	r.Post("/add/{kind}", s.submitRecord)
	r.Get("/settings", s.settings)
	r.Post("/settings/{what}", s.submitSettings)
	r.Post("/refresh", s.refresh)
	r.NotFound(s.notFound)
	return r
}

// requestLogger logs every request with a request id. The id comes from the
// incoming request header when present, is echoed in the response, and is
// carried by the API calls made while serving the request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(dashboard.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(dashboard.RequestIDHeader, id)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(dashboard.WithRequestID(r.Context(), id)))
		s.log.Info("http", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "request_id", id, "elapsed", time.Since(start))
	})
}

type page struct {
	Title   string
	Path    string
	Routes  []dashboard.Route
	Status  string
	Busy    []string
	Error   string
	Content template.HTML
	Tabs    []tab
	Forms   []form
}

type tab struct {
	Title  string
	Href   string
	Active bool
}

type form struct {
	Title  string
	Method string
	Action string
	Submit string
	Fields []field
}

type field struct {
	dashboard.Field
	Value   string
	Invalid bool
}

// formOf returns the HTML form of f.
func formOf(title, method, action, submit string, f *dashboard.Form) form {
	res := form{Title: title, Method: method, Action: action, Submit: submit}
	for _, fd := range f.Fields() {
		res.Fields = append(res.Fields, field{Field: fd, Value: f.Value(fd.Name), Invalid: !f.Valid(fd.Name)})
	}
	return res
}

// markdown converts md to sanitized HTML.
func (s *Server) markdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(md), &buf); err != nil {
		s.log.Error("cannot convert markdown", "err", err)
		return ""
	}
	return template.HTML(s.policy.SanitizeBytes(buf.Bytes()))
}

// render writes p in the layout. A non nil err is shown in the error banner,
// the status code depending on its kind.
func (s *Server) render(w http.ResponseWriter, r *http.Request, p page, err error) {
	p.Path = r.URL.Path
	p.Routes = dashboard.Routes
	p.Status = s.shell.StatusLine(time.Now())
	if s.shell.Refreshing() {
		p.Busy = append(p.Busy, "refreshing market data")
	}
	p.Busy = append(p.Busy, s.shell.Busy.InFlight()...)

	code := http.StatusOK
	if err != nil {
		p.Error = err.Error()
		code = statusOf(err)
		s.log.Warn("page failed", "path", r.URL.Path, "err", err)
	}

	var buf bytes.Buffer
	if err := layout.Execute(&buf, p); err != nil {
		s.log.Error("cannot render page", "path", r.URL.Path, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	buf.WriteTo(w)
}

// statusOf maps an error to the response status code.
func statusOf(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrUnknownRoute):
		return http.StatusNotFound
	case errors.Is(err, errBadQuery),
		errors.Is(err, dashboard.ErrNotSubmittable),
		errors.Is(err, dashboard.ErrInvalidNumber),
		errors.Is(err, dashboard.ErrNotAChoice),
		errors.Is(err, dashboard.ErrUnknownField):
		return http.StatusBadRequest
	}
	// the API failed
	return http.StatusBadGateway
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	_, err := dashboard.Resolve(r.URL.Path)
	if err == nil {
		err = dashboard.ErrUnknownRoute
	}
	s.render(w, r, page{Title: "Not Found"}, err)
}

func (s *Server) overview(w http.ResponseWriter, r *http.Request) {
	v := dashboard.NewOverview(s.shell.Section())
	err := v.Load(r.Context())
	s.render(w, r, page{Title: v.Name(), Content: s.markdown(renderer.RenderOverview(v, s.shell.Formatter()))}, err)
}

func (s *Server) performance(w http.ResponseWriter, r *http.Request) {
	v := dashboard.NewPerformance(s.shell.Section())
	err := v.Load(r.Context())
	s.render(w, r, page{Title: v.Name(), Content: s.markdown(renderer.RenderPerformance(v, s.shell.Formatter()))}, err)
}

// filterForm is the GET form selecting one of choices, the empty choice meaning no filter.
func filterForm(name, label, value string, choices ...string) *dashboard.Form {
	f := dashboard.NewForm("filter", dashboard.Field{Name: name, Label: label, Choices: append([]string{""}, choices...)})
	f.Set(name, value)
	return f
}

func (s *Server) charts(w http.ResponseWriter, r *http.Request) {
	v := dashboard.NewCharts(s.shell.Section(), r.URL.Query().Get("filter"))
	err := v.Load(r.Context())
	p := page{
		Title:   v.Name(),
		Content: s.markdown(renderer.RenderCharts(v, s.shell.Formatter())),
		Forms: []form{formOf("", http.MethodGet, "/charts", "Filter",
			filterForm("filter", "Filter", v.Filter, append(v.Tickers, v.Types...)...))},
	}
	s.render(w, r, p, err)
}

func (s *Server) prices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v := dashboard.NewPrices(s.shell.Section())
	err := v.Load(r.Context())
	if err == nil && q.Get("filter") != "" {
		err = v.SetFilter(r.Context(), q.Get("filter"))
	}
	if err == nil {
		err = window(v, q.Get("from"), q.Get("to"), q.Get("period"))
	}

	filter := filterForm("filter", "Instrument", v.Filter, v.Instruments.Tickers()...)
	periods := []string{""}
	for _, p := range date.Periods {
		periods = append(periods, p.String())
	}
	p := page{
		Title:   v.Name(),
		Content: s.markdown(renderer.RenderPrices(v, s.shell.Formatter())),
		Forms:   []form{formOf("", http.MethodGet, "/prices", "Show", filter)},
	}
	p.Forms[0].Fields = append(p.Forms[0].Fields,
		field{Field: dashboard.Field{Name: "from", Label: "From"}, Value: q.Get("from")},
		field{Field: dashboard.Field{Name: "to", Label: "To"}, Value: q.Get("to")},
		field{Field: dashboard.Field{Name: "period", Label: "Period", Choices: periods}, Value: q.Get("period")},
	)
	s.render(w, r, p, err)
}

// errBadQuery is returned for malformed query parameters.
var errBadQuery = errors.New("bad query")

// window restricts the visible prices to the period, or to the from and to dates.
func window(v *dashboard.Prices, from, to, period string) error {
	if period != "" {
		p, err := date.ParsePeriod(period)
		if err != nil {
			return fmt.Errorf("%w: %v", errBadQuery, err)
		}
		v.SetPeriod(p)
		return nil
	}
	var rg date.Range
	var err error
	if rg.From, err = parseOptionalDate(from); err != nil {
		return fmt.Errorf("%w: %v", errBadQuery, err)
	}
	if rg.To, err = parseOptionalDate(to); err != nil {
		return fmt.Errorf("%w: %v", errBadQuery, err)
	}
	if !rg.IsOpen() {
		v.SetDateWindow(rg)
	}
	return nil
}

func parseOptionalDate(s string) (date.Date, error) {
	if s == "" {
		return date.Date{}, nil
	}
	return date.Parse(s)
}

func (s *Server) records(kind dashboard.RecordKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := dashboard.NewRecords(s.shell.Section(), kind, r.URL.Query().Get("ticker"))
		err := v.Load(r.Context())
		p := page{
			Title:   v.Name(),
			Content: s.markdown(renderer.RenderRecords(v, s.shell.Formatter())),
			Forms: []form{formOf("", http.MethodGet, "/"+string(kind), "Filter",
				filterForm("ticker", "Ticker", v.Ticker, v.Instruments.Tickers()...))},
		}
		s.render(w, r, p, err)
	}
}

// addPage returns the Add page showing v, its form included.
func (s *Server) addPage(v *dashboard.Add) page {
	p := page{
		Title:   v.Name(),
		Content: s.markdown(renderer.RenderRecords(v.Current, s.shell.Formatter())),
		Forms:   []form{formOf("New "+v.Tab.Title(), http.MethodPost, "/add/"+string(v.Tab), "Add", v.Current.Form)},
	}
	for _, k := range dashboard.RecordKinds {
		p.Tabs = append(p.Tabs, tab{Title: k.Title(), Href: "/add?tab=" + string(k), Active: k == v.Tab})
	}
	return p
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	kind := dashboard.KindTrades
	if t := r.URL.Query().Get("tab"); t != "" {
		k, err := dashboard.ParseRecordKind(t)
		if err != nil {
			s.render(w, r, page{Title: "Add"}, errors.Join(dashboard.ErrUnknownRoute, err))
			return
		}
		kind = k
	}
	v := dashboard.NewAdd(s.shell.Section(), kind)
	err := v.Load(r.Context())
	s.render(w, r, s.addPage(v), err)
}

// submitRecord appends the posted record then redirects to its tab.
func (s *Server) submitRecord(w http.ResponseWriter, r *http.Request) {
	kind, err := dashboard.ParseRecordKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.render(w, r, page{Title: "Add"}, errors.Join(dashboard.ErrUnknownRoute, err))
		return
	}
	v := dashboard.NewAdd(s.shell.Section(), kind)
	if err := v.Load(r.Context()); err != nil {
		s.render(w, r, s.addPage(v), err)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.render(w, r, s.addPage(v), errors.Join(dashboard.ErrNotSubmittable, err))
		return
	}
	var errs []error
	for _, fd := range v.Current.Form.Fields() {
		if _, ok := r.PostForm[fd.Name]; ok {
			errs = append(errs, v.Current.Form.Set(fd.Name, r.PostForm.Get(fd.Name)))
		}
	}
	if err := errors.Join(errs...); err != nil {
		s.render(w, r, s.addPage(v), err)
		return
	}
	if err := v.Current.Submit(r.Context()); err != nil {
		s.render(w, r, s.addPage(v), err)
		return
	}
	http.Redirect(w, r, "/add?tab="+string(kind), http.StatusSeeOther)
}

// settingsPage returns the Settings page with its three forms.
func (s *Server) settingsPage(v *dashboard.Settings, instrument *dashboard.Form) page {
	currency := dashboard.NewForm("currency", dashboard.Field{Name: "currency", Label: "Currency", Required: true})
	typ := dashboard.NewForm("type", dashboard.Field{Name: "type", Label: "Type", Required: true})
	return page{
		Title:   v.Name(),
		Content: s.markdown(renderer.RenderSettings(v, s.shell.Formatter())),
		Forms: []form{
			formOf("New Currency", http.MethodPost, "/settings/currency", "Add", currency),
			formOf("New Type", http.MethodPost, "/settings/type", "Add", typ),
			formOf("New Instrument", http.MethodPost, "/settings/instrument", "Add", instrument),
		},
	}
}

func (s *Server) settings(w http.ResponseWriter, r *http.Request) {
	v := dashboard.NewSettings(s.shell.Section())
	err := v.Load(r.Context())
	s.render(w, r, s.settingsPage(v, v.InstrumentForm()), err)
}

// submitSettings creates a currency, a type or an instrument then redirects to the settings.
func (s *Server) submitSettings(w http.ResponseWriter, r *http.Request) {
	v := dashboard.NewSettings(s.shell.Section())
	if err := v.Load(r.Context()); err != nil {
		s.render(w, r, s.settingsPage(v, v.InstrumentForm()), err)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.render(w, r, s.settingsPage(v, v.InstrumentForm()), errors.Join(dashboard.ErrNotSubmittable, err))
		return
	}

	instrument := v.InstrumentForm()
	var err error
	switch what := chi.URLParam(r, "what"); what {
	case "currency":
		err = v.AddCurrency(r.Context(), r.PostForm.Get("currency"))
	case "type":
		err = v.AddType(r.Context(), r.PostForm.Get("type"))
	case "instrument":
		var errs []error
		for _, fd := range instrument.Fields() {
			if _, ok := r.PostForm[fd.Name]; ok {
				errs = append(errs, instrument.Set(fd.Name, r.PostForm.Get(fd.Name)))
			}
		}
		if err = errors.Join(errs...); err == nil {
			err = v.AddInstrument(r.Context(), instrument)
		}
	default:
		s.notFound(w, r)
		return
	}
	if err != nil {
		s.render(w, r, s.settingsPage(v, instrument), err)
		return
	}
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

// refresh updates the market data then goes back to the overview.
func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	if err := s.shell.Refresh(r.Context()); err != nil {
		s.render(w, r, page{Title: "Refresh"}, err)
		return
	}
	http.Redirect(w, r, dashboard.DefaultRoute, http.StatusSeeOther)
}
