// Package config provides configuration parsing for formguard.
//
// The configuration is stored in formguard.json (or formguard.yaml) in the
// working directory. This package handles loading, saving, environment
// overrides and validation, and compiles the declared custom rules into
// validators.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "host": "localhost",
//	    "port": 8080,
//	    "readLimit": 1048576,
//	    "shutdownTimeout": "10s"
//	  },
//	  "log": {"level": "info", "format": "text"},
//	  "metrics": {"enabled": true, "namespace": "formguard", "path": "/metrics"},
//	  "form": {"selector": "form"},
//	  "rules": {
//	    "zip":  {"type": "pattern", "pattern": "^[0-9]{5}$", "message": "Enter a 5-digit ZIP"},
//	    "plan": {"type": "oneOf", "values": ["free", "pro"]},
//	    "email": {"type": "email"}
//	  }
//	}
//
// # Environment
//
// Scalar settings can be overridden with FORMGUARD_* variables, e.g.
// FORMGUARD_SERVER_PORT=9000 or FORMGUARD_LOG_FORMAT=json. Load also reads a
// .env file next to the config; variables already set in the process win.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	reg, err := cfg.Registry()
package config
