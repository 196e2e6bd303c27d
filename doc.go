// Package demandcast is a per-product daily demand forecasting service.
//
// It reads sale records from PostgreSQL, builds dense daily demand series,
// trains a set of interchangeable forecasting architectures per product,
// persists the trained artifacts, and serves forecasts with uncertainty
// bands and walk-forward backtest metrics over HTTP, alongside a sales
// dashboard.
//
// The numeric core lives in preprocessing, timeseries, forecast, neural,
// linear and metrics; pipeline orchestrates the build and predict flows;
// store persists artifacts; analytics computes the dashboard; config,
// database, repository, handlers and routes form the service shell around
// cmd/demandcast.
package demandcast
