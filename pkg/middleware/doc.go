// Package middleware provides net/http middleware for the formguard server.
//
// Every constructor returns a func(http.Handler) http.Handler, so the
// middleware plugs into chi with Use:
//
//	metrics := middleware.NewMetrics(middleware.WithRegistry(reg))
//
//	r := chi.NewRouter()
//	r.Use(chimw.RequestID)
//	r.Use(middleware.RequestLogger(logger))
//	r.Use(middleware.OpenTelemetry())
//	r.Use(metrics.Handler)
//
// # OpenTelemetry
//
// OpenTelemetry opens a server span per request named after the chi route
// pattern. Spans opened by form.Form during validation become children of
// it. Requests can be excluded with WithRequestFilter.
//
// # Prometheus Metrics
//
// Metrics records:
//   - formguard_http_requests_total{route,method,status}
//   - formguard_http_request_duration_seconds{route}
//   - formguard_http_live_connections
//   - formguard_http_live_messages_total{type,status}
//   - formguard_http_websocket_errors_total{type}
//
// Status is the status class ("2xx", "4xx"). Routes are chi patterns so
// label cardinality stays bounded.
package middleware
