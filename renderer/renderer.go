package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/dashboard"
	"github.com/shopspring/decimal"
)

//go:embed *.md
var templates embed.FS

// RenderOverview renders the Overview page to markdown.
func RenderOverview(v *dashboard.Overview, f *dashboard.Formatter) string {
	return renderTemplate("overview", "overview.md", nil, f, v)
}

// RenderPerformance renders the yearly performance page to markdown.
func RenderPerformance(v *dashboard.PerformanceView, f *dashboard.Formatter) string {
	return renderTemplate("performance", "performance.md", nil, f, v)
}

// RenderCharts renders the portfolio time series to markdown.
func RenderCharts(v *dashboard.Charts, f *dashboard.Formatter) string {
	return renderTemplate("charts", "charts.md", nil, f, v)
}

// RenderPrices renders the visible window of an instrument price history.
func RenderPrices(v *dashboard.Prices, f *dashboard.Formatter) string {
	return renderTemplate("prices", "prices.md", nil, f, v)
}

// RenderRecords renders the list of records of one kind.
func RenderRecords(v *dashboard.Records, f *dashboard.Formatter) string {
	// each kind has its own table layout.
	partials := map[string]string{
		"records_list": "records_" + string(v.Kind) + ".md",
	}
	return renderTemplate("records", "records.md", partials, f, v)
}

// RenderSettings renders the reference data page.
func RenderSettings(v *dashboard.Settings, f *dashboard.Formatter) string {
	return renderTemplate("settings", "settings.md", nil, f, v)
}

// funcs returns the template functions formatting figures with f.
//
// currency and signed take an optional currency code overriding the base currency.
func funcs(f *dashboard.Formatter) template.FuncMap {
	opts := func(code []string, extra ...dashboard.CurrencyOption) []dashboard.CurrencyOption {
		if len(code) > 0 {
			extra = append(extra, dashboard.WithCurrency(code[0]))
		}
		return extra
	}
	return template.FuncMap{
		"currency": func(v decimal.Decimal, code ...string) string {
			return f.Currency(v, opts(code)...)
		},
		"signed": func(v decimal.Decimal, code ...string) string {
			return f.Currency(v, opts(code, dashboard.Signed())...)
		},
		"percents": f.Percents,
		"number":   f.Number,
		"trend": func(r dashboard.PriceRow) string {
			if r.Rising() {
				return "▲"
			}
			return "▼"
		},
		"yearTotals": dashboard.YearTotals,
	}
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, f *dashboard.Formatter, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs(f)).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
