// Package dashboard is the client side of a portfolio API.
//
// A Client calls the API endpoints. The views (Overview, PerformanceView,
// Charts, Prices, Records, Add and Settings) each run a chain of fetches and
// hold what the API returned, with a Formatter to display amounts in the
// configured base currency and locale. A Shell owns the views: it loads the
// configuration, tracks the operations in flight, refreshes the market data
// and maps paths to views.
//
// Records are append only: a Form validates a new row, which is posted and
// then the whole collection is listed again.
package dashboard
