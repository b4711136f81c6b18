package main

import (
	"context"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vango-dev/formguard/internal/config"
	"github.com/vango-dev/formguard/internal/errors"
	"github.com/vango-dev/formguard/pkg/server"
)

func serveCmd(global *globalOptions) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the validation server",
		Long: `Start the HTTP server exposing form validation.

Endpoints:
  POST /api/validate   validate a document, JSON reply
  POST /api/report     validate a document, HTML report
  GET  /api/live       WebSocket live validation
  GET  /healthz        liveness probe
  GET  /metrics        Prometheus metrics

Examples:
  formguard serve
  formguard serve --port=9090
  formguard serve --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(global)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")

	return cmd
}

// serverConfig maps the file configuration onto server.Config.
func serverConfig(cfg *config.Config) (*server.Config, error) {
	validators, err := cfg.Validators()
	if err != nil {
		return nil, err
	}
	return &server.Config{
		Address:          cfg.Address(),
		ReadLimit:        cfg.Server.ReadLimit,
		DefaultSelector:  cfg.Form.Selector,
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		Validators:       validators,
		Logger:           cfg.NewLogger(os.Stderr),
		Metrics:          cfg.Metrics.Enabled,
		MetricsNamespace: cfg.Metrics.Namespace,
		MetricsPath:      cfg.Metrics.Path,
		ShutdownTimeout:  cfg.ShutdownTimeout(),
	}, nil
}

func runServe(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	scfg, err := serverConfig(cfg)
	if err != nil {
		return err
	}
	srv := server.New(scfg)

	ln, err := net.Listen("tcp", scfg.Address)
	if err != nil {
		return errors.New("F082").WithDetailf("Could not listen on %s.", scfg.Address).Wrap(err)
	}

	printBanner(stdout)
	success(stdout, "Listening on http://%s", ln.Addr().String())
	if cfg.Metrics.Enabled {
		info(stdout, "Metrics at %s", scfg.MetricsPath)
	}
	if len(scfg.Validators) > 0 {
		info(stdout, "%d custom rules loaded", len(scfg.Validators))
	}

	if err := srv.Serve(ctx, ln); err != nil {
		return errors.New("F082").Wrap(err)
	}
	return nil
}
