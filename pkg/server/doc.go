// Package server exposes form validation over HTTP.
//
// Routes:
//
//	GET  /healthz        liveness probe
//	GET  /metrics        Prometheus metrics (when Config.Metrics is set)
//	POST /api/validate   validate a document, reply with JSON
//	POST /api/report     validate a document, stream an HTML report
//	GET  /api/live       WebSocket live validation
//
// # Validate
//
// The request names the document, the form selector and the values to
// apply before validation:
//
//	{
//	  "html": "<form>...</form>",
//	  "selector": "#signup",
//	  "values": {"email": "ada@example.com"},
//	  "checked": {"plan": ["pro"]},
//	  "files": {"avatar": ["me.png"]}
//	}
//
// The reply carries the overall verdict, the surfaced errors by name, one
// state per field in document order and the annotated form markup.
// Request errors are coded JSON: {"error": {"code": "F060", ...}}.
//
// # Live
//
// A live connection owns one form. The client sends a "load" message with
// the document, then "set", "check", "files", "validate", "trigger" and
// "reset" messages; every message is answered with a "state" reply or an
// "error" reply. Messages before "load" are rejected with F062, unknown
// types with F061.
//
//	{"type": "load", "html": "...", "selector": "form"}
//	{"type": "set", "name": "email", "value": "x", "validate": true}
//	{"type": "trigger", "names": ["email"], "render": true}
//
// Usage:
//
//	srv := server.New(&server.Config{
//	    Address:    ":8080",
//	    Validators: validators,
//	    Metrics:    true,
//	})
//	err := srv.Run(ctx)
package server
